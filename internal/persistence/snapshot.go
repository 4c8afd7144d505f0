package persistence

import (
	"time"

	"github.com/nekogravitycat/trip-planner-backend/internal/trip"
)

// Snapshot is the consolidated capture taken when the summary is opened.
// It is also the checkout handoff payload, so it must be self-sufficient:
// bookings carry their own display fields and no catalog lookup is needed.
type Snapshot struct {
	DayPlaces        trip.Places      `json:"dayPlaces"`
	DayNotes         trip.Notes       `json:"dayNotes"`
	DayChecklists    trip.Checklists  `json:"dayChecklists"`
	PlanningBookings trip.Bookings    `json:"planningBookings"`
	TripData         *trip.TripWindow `json:"tripData,omitempty"`
	Timestamp        time.Time        `json:"timestamp"`
}

// NewSnapshot deep-copies plan into a snapshot stamped at ts.
func NewSnapshot(plan trip.Plan, ts time.Time) Snapshot {
	p := plan.Clone()
	snap := Snapshot{
		DayPlaces:        p.Places,
		DayNotes:         p.Notes,
		DayChecklists:    p.Checklists,
		PlanningBookings: p.Bookings,
		Timestamp:        ts,
	}
	if !p.Trip.IsZero() {
		tw := p.Trip
		snap.TripData = &tw
	}
	return snap
}

// Plan converts the snapshot back into a plan.
func (s Snapshot) Plan() trip.Plan {
	plan := trip.NewPlan()
	s.overlay(&plan)
	normalize(&plan)
	return plan.Clone()
}

// overlay copies every non-empty slice of s over plan.
func (s Snapshot) overlay(plan *trip.Plan) {
	if len(s.DayPlaces) > 0 {
		plan.Places = s.DayPlaces
	}
	if len(s.DayNotes) > 0 {
		plan.Notes = s.DayNotes
	}
	if len(s.DayChecklists) > 0 {
		plan.Checklists = s.DayChecklists
	}
	if s.PlanningBookings.Len() > 0 {
		plan.Bookings = s.PlanningBookings
	}
	if s.TripData != nil && !s.TripData.IsZero() {
		plan.Trip = *s.TripData
	}
}
