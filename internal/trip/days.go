package trip

// Days enumerates the calendar days of w, start and end inclusive.
// Day numbers are positional: DayNumber = index + 1.
// An absent date or an end before the start yields an empty slice.
func Days(w TripWindow) []TripDay {
	days := []TripDay{}
	if w.StartDate.IsZero() || w.EndDate.IsZero() {
		return days
	}

	start := DateOf(w.StartDate)
	end := DateOf(w.EndDate)
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		days = append(days, TripDay{DayNumber: len(days) + 1, Date: d})
	}
	return days
}
