package trip

import "slices"

func (b Booking) Clone() Booking {
	b.TotalPrice = clonePtr(b.TotalPrice)
	b.Price = clonePtr(b.Price)
	b.Cost = clonePtr(b.Cost)
	b.Details = slices.Clone(b.Details)
	return b
}

func (c DayChecklist) Clone() DayChecklist {
	c.Items = slices.Clone(c.Items)
	return c
}

func (m Bookings) Clone() Bookings {
	out := make(Bookings, len(m))
	for cat, list := range m {
		cp := make([]Booking, len(list))
		for i, b := range list {
			cp[i] = b.Clone()
		}
		out[cat] = cp
	}
	return out
}

func (m Places) Clone() Places {
	out := make(Places, len(m))
	for day, list := range m {
		out[day] = slices.Clone(list)
	}
	return out
}

func (m Notes) Clone() Notes {
	out := make(Notes, len(m))
	for day, n := range m {
		out[day] = n
	}
	return out
}

func (m Checklists) Clone() Checklists {
	out := make(Checklists, len(m))
	for day, list := range m {
		cp := make([]DayChecklist, len(list))
		for i, c := range list {
			cp[i] = c.Clone()
		}
		out[day] = cp
	}
	return out
}

// Categories returns the categories present in m: known ones in display order,
// then unrecognised keys sorted by name. Ranging over it gives a stable order.
func (m Bookings) Categories() []Category {
	out := make([]Category, 0, len(m))
	for _, c := range Categories {
		if _, ok := m[c]; ok {
			out = append(out, c)
		}
	}
	var unknown []Category
	for c := range m {
		if !c.Valid() {
			unknown = append(unknown, c)
		}
	}
	slices.Sort(unknown)
	return append(out, unknown...)
}

// Len returns the number of bookings across all categories.
func (m Bookings) Len() int {
	n := 0
	for _, list := range m {
		n += len(list)
	}
	return n
}

func clonePtr(p *float64) *float64 {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
