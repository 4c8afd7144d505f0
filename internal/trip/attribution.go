package trip

import (
	"fmt"
	"strings"
	"time"
)

// FallbackDay is where bookings land when their date cannot be matched to a trip day.
const FallbackDay = 1

var selectedDateLayouts = []string{
	DateLayout,
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
}

// ParseSelectedDate parses a booking's selected date and drops the time of day.
// The calendar date is taken as written, regardless of any UTC offset.
func ParseSelectedDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range selectedDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return DateOf(t), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised selected date %q", s)
}

// ResolveDay returns the 1-based day whose date matches selectedDate.
// A missing, unparsable, or out-of-range date resolves to FallbackDay.
func ResolveDay(selectedDate string, days []TripDay) int {
	day, _ := AttributeDay(selectedDate, days)
	return day
}

// AttributeDay is ResolveDay that also reports why an unparsable date fell back.
// The day is always usable; err is only informational.
func AttributeDay(selectedDate string, days []TripDay) (int, error) {
	if selectedDate == "" {
		return FallbackDay, nil
	}

	date, err := ParseSelectedDate(selectedDate)
	if err != nil {
		return FallbackDay, err
	}

	want := date.Format(DateLayout)
	for i, d := range days {
		if DateOf(d.Date).Format(DateLayout) == want {
			return i + 1, nil
		}
	}
	return FallbackDay, nil
}
