package http

import (
	"encoding/json"
	"sort"
	"time"

	"github.com/nekogravitycat/trip-planner-backend/internal/trip"
)

// UpdateTripBody is the trip form. Dates are YYYY-MM-DD and may be omitted.
type UpdateTripBody struct {
	StartDate   string `json:"start_date" binding:"omitempty,datetime=2006-01-02"`
	EndDate     string `json:"end_date" binding:"omitempty,datetime=2006-01-02"`
	Travelers   int    `json:"travelers" binding:"min=0"`
	Destination string `json:"destination"`
}

func (b UpdateTripBody) ToWindow() (trip.TripWindow, error) {
	start, err := trip.ParseDate(b.StartDate)
	if err != nil {
		return trip.TripWindow{}, err
	}
	end, err := trip.ParseDate(b.EndDate)
	if err != nil {
		return trip.TripWindow{}, err
	}
	return trip.TripWindow{StartDate: start, EndDate: end, Travelers: b.Travelers, Destination: b.Destination}, nil
}

// AddBookingBody adds a booking either from a catalog item or from explicit fields.
// When CatalogItemID is set, the display fields and price come from the catalog.
type AddBookingBody struct {
	CatalogItemID string          `json:"catalog_item_id"`
	ID            string          `json:"id"`
	Name          string          `json:"name"`
	Location      string          `json:"location"`
	TotalPrice    *float64        `json:"total_price"`
	Price         *float64        `json:"price"`
	Cost          *float64        `json:"cost"`
	SelectedDate  string          `json:"selected_date"`
	Details       json.RawMessage `json:"details"`
}

func (b AddBookingBody) ToBooking() trip.Booking {
	return trip.Booking{
		ID:           b.ID,
		Name:         b.Name,
		Location:     b.Location,
		TotalPrice:   b.TotalPrice,
		Price:        b.Price,
		Cost:         b.Cost,
		SelectedDate: b.SelectedDate,
		Details:      b.Details,
	}
}

type AddPlaceBody struct {
	Name         string `json:"name" binding:"required"`
	SelectedDate string `json:"selected_date"`
}

type SaveNoteBody struct {
	Text         string `json:"text"`
	SelectedDate string `json:"selected_date"`
}

type AddChecklistBody struct {
	Title        string   `json:"title" binding:"required"`
	Items        []string `json:"items"`
	SelectedDate string   `json:"selected_date"`
}

type ToggleItemURI struct {
	Day    int    `uri:"day" binding:"required,min=1"`
	ID     string `uri:"id" binding:"required"`
	ItemID string `uri:"itemId" binding:"required"`
}

type TripResponse struct {
	StartDate   *string `json:"start_date"`
	EndDate     *string `json:"end_date"`
	Travelers   int     `json:"travelers"`
	Destination string  `json:"destination"`
}

func NewTripResponse(w trip.TripWindow) TripResponse {
	return TripResponse{
		StartDate:   formatDate(w.StartDate),
		EndDate:     formatDate(w.EndDate),
		Travelers:   w.Travelers,
		Destination: w.Destination,
	}
}

type TripDayResponse struct {
	DayNumber int    `json:"day_number"`
	Date      string `json:"date"`
}

type BookingResponse struct {
	ID           string          `json:"id"`
	Category     string          `json:"category"`
	Name         string          `json:"name"`
	Location     string          `json:"location,omitempty"`
	Amount       float64         `json:"amount"`
	TotalPrice   *float64        `json:"total_price,omitempty"`
	Price        *float64        `json:"price,omitempty"`
	Cost         *float64        `json:"cost,omitempty"`
	SelectedDate string          `json:"selected_date,omitempty"`
	Details      json.RawMessage `json:"details,omitempty"`
}

func NewBookingResponse(b trip.Booking) BookingResponse {
	return BookingResponse{
		ID:           b.ID,
		Category:     string(b.Category),
		Name:         b.Name,
		Location:     b.Location,
		Amount:       b.Amount(),
		TotalPrice:   b.TotalPrice,
		Price:        b.Price,
		Cost:         b.Cost,
		SelectedDate: b.SelectedDate,
		Details:      b.Details,
	}
}

func NewBookingResponses(list []trip.Booking) []BookingResponse {
	out := make([]BookingResponse, len(list))
	for i, b := range list {
		out[i] = NewBookingResponse(b)
	}
	return out
}

type PlaceResponse struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	DayNumber    int       `json:"day_number"`
	SelectedDate string    `json:"selected_date,omitempty"`
	AddedAt      time.Time `json:"added_at"`
}

func NewPlaceResponse(p trip.DayPlace) PlaceResponse {
	return PlaceResponse{
		ID:           p.ID,
		Name:         p.Name,
		DayNumber:    p.DayNumber,
		SelectedDate: p.SelectedDate,
		AddedAt:      p.AddedAt,
	}
}

func NewPlaceResponses(list []trip.DayPlace) []PlaceResponse {
	out := make([]PlaceResponse, len(list))
	for i, p := range list {
		out[i] = NewPlaceResponse(p)
	}
	return out
}

type NoteResponse struct {
	Text         string    `json:"text"`
	DayNumber    int       `json:"day_number"`
	SelectedDate string    `json:"selected_date,omitempty"`
	SavedAt      time.Time `json:"saved_at"`
}

func NewNoteResponse(n trip.DayNote) NoteResponse {
	return NoteResponse{
		Text:         n.Text,
		DayNumber:    n.DayNumber,
		SelectedDate: n.SelectedDate,
		SavedAt:      n.SavedAt,
	}
}

type ChecklistItemResponse struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Completed bool   `json:"completed"`
}

type ChecklistResponse struct {
	ID           string                  `json:"id"`
	Title        string                  `json:"title"`
	Items        []ChecklistItemResponse `json:"items"`
	DayNumber    int                     `json:"day_number"`
	SelectedDate string                  `json:"selected_date,omitempty"`
	CreatedAt    time.Time               `json:"created_at"`
}

func NewChecklistResponse(c trip.DayChecklist) ChecklistResponse {
	items := make([]ChecklistItemResponse, len(c.Items))
	for i, it := range c.Items {
		items[i] = ChecklistItemResponse{ID: it.ID, Title: it.Title, Completed: it.Completed}
	}
	return ChecklistResponse{
		ID:           c.ID,
		Title:        c.Title,
		Items:        items,
		DayNumber:    c.DayNumber,
		SelectedDate: c.SelectedDate,
		CreatedAt:    c.CreatedAt,
	}
}

func NewChecklistResponses(list []trip.DayChecklist) []ChecklistResponse {
	out := make([]ChecklistResponse, len(list))
	for i, c := range list {
		out[i] = NewChecklistResponse(c)
	}
	return out
}

// DayContentResponse groups the free-text content of one day.
type DayContentResponse struct {
	DayNumber  int                 `json:"day_number"`
	Places     []PlaceResponse     `json:"places"`
	Note       *NoteResponse       `json:"note"`
	Checklists []ChecklistResponse `json:"checklists"`
}

// PlanningResponse is the full planning state of a session.
type PlanningResponse struct {
	Trip        TripResponse                 `json:"trip"`
	Days        []TripDayResponse            `json:"days"`
	Bookings    map[string][]BookingResponse `json:"bookings"`
	DayContent  []DayContentResponse         `json:"day_content"`
	TotalAmount float64                      `json:"total_amount"`
	TotalItems  int                          `json:"total_items"`
}

func NewPlanningResponse(plan trip.Plan) PlanningResponse {
	days := trip.Days(plan.Trip)
	resp := PlanningResponse{
		Trip:        NewTripResponse(plan.Trip),
		Days:        make([]TripDayResponse, len(days)),
		Bookings:    make(map[string][]BookingResponse, len(trip.Categories)),
		DayContent:  []DayContentResponse{},
		TotalAmount: plan.TotalAmount(),
		TotalItems:  plan.Bookings.Len(),
	}
	for i, d := range days {
		resp.Days[i] = TripDayResponse{DayNumber: d.DayNumber, Date: d.Date.Format(trip.DateLayout)}
	}
	for _, cat := range trip.Categories {
		resp.Bookings[string(cat)] = NewBookingResponses(plan.Bookings[cat])
	}
	for cat, list := range plan.Bookings {
		if !cat.Valid() {
			resp.Bookings[string(cat)] = NewBookingResponses(list)
		}
	}

	seen := map[int]bool{}
	for n := range plan.Places {
		seen[n] = true
	}
	for n := range plan.Notes {
		seen[n] = true
	}
	for n := range plan.Checklists {
		seen[n] = true
	}
	numbers := make([]int, 0, len(seen))
	for n := range seen {
		numbers = append(numbers, n)
	}
	sort.Ints(numbers)

	for _, n := range numbers {
		dc := DayContentResponse{
			DayNumber:  n,
			Places:     NewPlaceResponses(plan.Places[n]),
			Checklists: NewChecklistResponses(plan.Checklists[n]),
		}
		if note, ok := plan.Notes[n]; ok && note.Present() {
			nr := NewNoteResponse(note)
			dc.Note = &nr
		}
		resp.DayContent = append(resp.DayContent, dc)
	}
	return resp
}

func formatDate(t time.Time) *string {
	if t.IsZero() {
		return nil
	}
	s := t.Format(trip.DateLayout)
	return &s
}
