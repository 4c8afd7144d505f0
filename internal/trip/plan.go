package trip

// Plan is everything selected during one planning session.
type Plan struct {
	Trip       TripWindow `json:"trip"`
	Bookings   Bookings   `json:"bookings"`
	Places     Places     `json:"places"`
	Notes      Notes      `json:"notes"`
	Checklists Checklists `json:"checklists"`
}

// NewPlan returns a plan with every mapping allocated.
func NewPlan() Plan {
	return Plan{
		Bookings:   Bookings{},
		Places:     Places{},
		Notes:      Notes{},
		Checklists: Checklists{},
	}
}

// Clone deep-copies the plan so callers never share slices with the original.
func (p Plan) Clone() Plan {
	return Plan{
		Trip:       p.Trip,
		Bookings:   p.Bookings.Clone(),
		Places:     p.Places.Clone(),
		Notes:      p.Notes.Clone(),
		Checklists: p.Checklists.Clone(),
	}
}

// TotalAmount sums Booking.Amount across every category.
// Categories are summed in Bookings.Categories order so the float result is reproducible.
func (p Plan) TotalAmount() float64 {
	total := 0.0
	for _, cat := range p.Bookings.Categories() {
		for _, b := range p.Bookings[cat] {
			total += b.Amount()
		}
	}
	return total
}
