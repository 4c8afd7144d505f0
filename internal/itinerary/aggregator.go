package itinerary

import (
	"log/slog"
	"slices"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/nekogravitycat/trip-planner-backend/internal/metrics"
	"github.com/nekogravitycat/trip-planner-backend/internal/trip"
)

// DayView is everything planned for one day of the trip.
type DayView struct {
	DayNumber int       `json:"dayNumber"`
	Date      time.Time `json:"date"`
	// Placeholder is set when the day lies outside the trip window and Date was filled in.
	Placeholder bool `json:"placeholder"`

	Destinations   []trip.Booking      `json:"destinations"`
	Accommodations []trip.Booking      `json:"accommodations"`
	Transportation []trip.Booking      `json:"transportation"`
	Guides         []trip.Booking      `json:"guides"`
	Places         []trip.DayPlace     `json:"places"`
	Note           *trip.DayNote       `json:"note,omitempty"`
	Checklists     []trip.DayChecklist `json:"checklists"`

	ContentCount int  `json:"contentCount"`
	Active       bool `json:"active"`
}

// View is the per-day itinerary, ordered by day number.
type View struct {
	Days              []DayView `json:"days"`
	TotalContentCount int       `json:"totalContentCount"`
	TotalAmount       float64   `json:"totalAmount"`
	TotalItems        int       `json:"totalItems"`
}

// ActiveDays returns only the days that have something planned.
func (v View) ActiveDays() []DayView {
	out := make([]DayView, 0, len(v.Days))
	for _, d := range v.Days {
		if d.Active {
			out = append(out, d)
		}
	}
	return out
}

// Day looks up a day by number.
func (v View) Day(n int) (DayView, bool) {
	for _, d := range v.Days {
		if d.DayNumber == n {
			return d, true
		}
	}
	return DayView{}, false
}

type Aggregator struct {
	now    func() time.Time
	logger *slog.Logger
}

// NewAggregator returns an aggregator whose placeholder dates come from now.
func NewAggregator(now func() time.Time, logger *slog.Logger) *Aggregator {
	if now == nil {
		now = time.Now
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Aggregator{now: now, logger: logger}
}

// Build assembles the per-day view. The inputs are never modified and the output
// shares no memory with them.
func (a *Aggregator) Build(days []trip.TripDay, plan trip.Plan) View {
	timer := prometheus.NewTimer(metrics.AggregationDuration)
	defer timer.ObserveDuration()

	buckets := make(map[int]*DayView, len(days))
	for _, d := range days {
		buckets[d.DayNumber] = newDayView(d.DayNumber, d.Date, false)
	}

	placeholder := trip.DateOf(a.now())
	bucket := func(n int) *DayView {
		if b, ok := buckets[n]; ok {
			return b
		}
		b := newDayView(n, placeholder, true)
		buckets[n] = b
		return b
	}

	for n := range plan.Places {
		bucket(n)
	}
	for n := range plan.Notes {
		bucket(n)
	}
	for n := range plan.Checklists {
		bucket(n)
	}

	// Known categories first, in display order, then anything unrecognised sorted by name.
	for _, cat := range plan.Bookings.Categories() {
		if !cat.Valid() {
			a.logger.Warn("filing bookings with unknown category under destinations",
				slog.String("category", string(cat)),
				slog.Int("count", len(plan.Bookings[cat])),
			)
		}
		for _, b := range plan.Bookings[cat] {
			n, err := trip.AttributeDay(b.SelectedDate, days)
			if err != nil {
				a.logger.Debug("day attribution fell back to day 1",
					slog.String("booking", b.ID),
					slog.String("selected_date", b.SelectedDate),
					slog.Any("error", err),
				)
			}
			d := bucket(n)
			b = b.Clone()
			switch cat {
			case trip.CategoryAccommodations:
				d.Accommodations = append(d.Accommodations, b)
			case trip.CategoryTransportation:
				d.Transportation = append(d.Transportation, b)
			case trip.CategoryGuides:
				d.Guides = append(d.Guides, b)
			default:
				d.Destinations = append(d.Destinations, b)
			}
		}
	}

	for n, list := range plan.Places {
		buckets[n].Places = append(buckets[n].Places, list...)
	}
	for n, note := range plan.Notes {
		if note.Present() {
			nc := note
			buckets[n].Note = &nc
		}
	}
	for n, list := range plan.Checklists {
		d := buckets[n]
		for _, c := range list {
			d.Checklists = append(d.Checklists, c.Clone())
		}
	}

	numbers := make([]int, 0, len(buckets))
	for n := range buckets {
		numbers = append(numbers, n)
	}
	slices.Sort(numbers)

	view := View{
		Days:        make([]DayView, 0, len(numbers)),
		TotalAmount: plan.TotalAmount(),
		TotalItems:  plan.Bookings.Len(),
	}
	for _, n := range numbers {
		d := buckets[n]
		d.ContentCount = d.contentCount()
		d.Active = d.ContentCount > 0
		view.TotalContentCount += d.ContentCount
		view.Days = append(view.Days, *d)
	}
	return view
}

// TotalContentCount counts every piece of planned content straight from the plan.
// It always equals the sum of DayView.ContentCount over a view built from the same plan.
func TotalContentCount(plan trip.Plan) int {
	total := plan.Bookings.Len()
	for _, list := range plan.Places {
		total += len(list)
	}
	for _, n := range plan.Notes {
		if n.Present() {
			total++
		}
	}
	for _, list := range plan.Checklists {
		total += len(list)
	}
	return total
}

func newDayView(n int, date time.Time, placeholder bool) *DayView {
	return &DayView{
		DayNumber:      n,
		Date:           date,
		Placeholder:    placeholder,
		Destinations:   []trip.Booking{},
		Accommodations: []trip.Booking{},
		Transportation: []trip.Booking{},
		Guides:         []trip.Booking{},
		Places:         []trip.DayPlace{},
		Checklists:     []trip.DayChecklist{},
	}
}

func (d *DayView) contentCount() int {
	n := len(d.Destinations) + len(d.Accommodations) + len(d.Transportation) + len(d.Guides)
	n += len(d.Places) + len(d.Checklists)
	if d.Note != nil {
		n++
	}
	return n
}
