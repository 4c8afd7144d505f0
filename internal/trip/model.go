package trip

import (
	"encoding/json"
	"math"
	"net/http"
	"time"

	"github.com/nekogravitycat/trip-planner-backend/internal/pkg/apperror"
)

var (
	ErrInvalidTripWindow = apperror.New(http.StatusBadRequest, "start date must not be after end date")
	ErrInvalidTravelers  = apperror.New(http.StatusBadRequest, "travelers must not be negative")
	ErrUnknownCategory   = apperror.New(http.StatusBadRequest, "unknown booking category")
	ErrMissingBookingID  = apperror.New(http.StatusBadRequest, "booking id is required")
	ErrInvalidDayNumber  = apperror.New(http.StatusBadRequest, "day number must be at least 1")
	ErrInvalidDate       = apperror.New(http.StatusBadRequest, "invalid date, expected YYYY-MM-DD")
)

// DateLayout is the calendar-date wire format used for trip windows and selected dates.
const DateLayout = "2006-01-02"

// TripWindow is the date range a planning session is built around.
// A zero StartDate or EndDate means the date has not been chosen yet.
type TripWindow struct {
	StartDate   time.Time `json:"startDate"`
	EndDate     time.Time `json:"endDate"`
	Travelers   int       `json:"travelers"`
	Destination string    `json:"destination"`
}

// Validate checks the window invariants. Absent dates are allowed.
func (w TripWindow) Validate() error {
	if w.Travelers < 0 {
		return ErrInvalidTravelers
	}
	if !w.StartDate.IsZero() && !w.EndDate.IsZero() && DateOf(w.EndDate).Before(DateOf(w.StartDate)) {
		return ErrInvalidTripWindow
	}
	return nil
}

// IsZero reports whether no trip form has been submitted.
func (w TripWindow) IsZero() bool {
	return w.StartDate.IsZero() && w.EndDate.IsZero() && w.Travelers == 0 && w.Destination == ""
}

// TripDay pairs a 1-based day number with its calendar date.
type TripDay struct {
	DayNumber int       `json:"dayNumber"`
	Date      time.Time `json:"date"`
}

// Category names a bucket of bookings in the planning store.
type Category string

const (
	CategoryDestinations   Category = "destinations"
	CategoryAccommodations Category = "accommodations"
	CategoryTransportation Category = "transportation"
	CategoryGuides         Category = "guides"
)

// Categories lists every known category in display order.
var Categories = []Category{
	CategoryDestinations,
	CategoryAccommodations,
	CategoryTransportation,
	CategoryGuides,
}

// Valid reports whether c is one of the known categories.
func (c Category) Valid() bool {
	switch c {
	case CategoryDestinations, CategoryAccommodations, CategoryTransportation, CategoryGuides:
		return true
	}
	return false
}

// ParseCategory converts a raw category name, rejecting unknown values.
func ParseCategory(s string) (Category, error) {
	c := Category(s)
	if !c.Valid() {
		return "", ErrUnknownCategory
	}
	return c, nil
}

// Booking is the common envelope for a selection added from a booking-detail view.
// Details carries the category-specific payload and is never inspected here.
type Booking struct {
	ID           string          `json:"id"`
	Category     Category        `json:"category,omitempty"`
	Name         string          `json:"name"`
	Location     string          `json:"location,omitempty"`
	TotalPrice   *float64        `json:"totalPrice,omitempty"`
	Price        *float64        `json:"price,omitempty"`
	Cost         *float64        `json:"cost,omitempty"`
	SelectedDate string          `json:"selectedDate,omitempty"`
	Details      json.RawMessage `json:"details,omitempty"`
}

// Amount returns the first usable price among TotalPrice, Price and Cost.
// Missing, zero, NaN and infinite values fall through; the result is 0 when none is usable.
func (b Booking) Amount() float64 {
	for _, p := range []*float64{b.TotalPrice, b.Price, b.Cost} {
		if p == nil {
			continue
		}
		v := *p
		if v == 0 || math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		return v
	}
	return 0
}

// DayPlace is a free-text place the user typed in for a day.
type DayPlace struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	AddedAt      time.Time `json:"addedAt"`
	SelectedDate string    `json:"selectedDate,omitempty"`
	DayNumber    int       `json:"dayNumber"`
}

// DayNote is the single note kept for a day.
type DayNote struct {
	Text         string    `json:"text"`
	SelectedDate string    `json:"selectedDate,omitempty"`
	DayNumber    int       `json:"dayNumber"`
	SavedAt      time.Time `json:"savedAt"`
}

// Present reports whether the note counts as content.
func (n DayNote) Present() bool {
	return n.Text != ""
}

type ChecklistItem struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Completed bool   `json:"completed"`
}

type DayChecklist struct {
	ID           string          `json:"id"`
	Title        string          `json:"title"`
	Items        []ChecklistItem `json:"items"`
	SelectedDate string          `json:"selectedDate,omitempty"`
	DayNumber    int             `json:"dayNumber"`
	CreatedAt    time.Time       `json:"createdAt"`
}

type (
	Bookings   map[Category][]Booking
	Places     map[int][]DayPlace
	Notes      map[int]DayNote
	Checklists map[int][]DayChecklist
)

// DateOf truncates t to its calendar date in UTC, keeping the date as written in t's location.
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseDate parses a YYYY-MM-DD string. An empty string yields the zero time.
func ParseDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, apperror.Wrap(err, http.StatusBadRequest, ErrInvalidDate.Message)
	}
	return t, nil
}
