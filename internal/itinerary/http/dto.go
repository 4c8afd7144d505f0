package http

import (
	"time"

	"github.com/nekogravitycat/trip-planner-backend/internal/itinerary"
	planHttp "github.com/nekogravitycat/trip-planner-backend/internal/planning/http"
)

type ListItineraryRequest struct {
	All bool `form:"all"`
}

type DayResponse struct {
	DayNumber      int                          `json:"day_number"`
	Date           string                       `json:"date"`
	Placeholder    bool                         `json:"placeholder"`
	Destinations   []planHttp.BookingResponse   `json:"destinations"`
	Accommodations []planHttp.BookingResponse   `json:"accommodations"`
	Transportation []planHttp.BookingResponse   `json:"transportation"`
	Guides         []planHttp.BookingResponse   `json:"guides"`
	Places         []planHttp.PlaceResponse     `json:"places"`
	Note           *planHttp.NoteResponse       `json:"note"`
	Checklists     []planHttp.ChecklistResponse `json:"checklists"`
	ContentCount   int                          `json:"content_count"`
	Active         bool                         `json:"active"`
}

func NewDayResponse(d itinerary.DayView) DayResponse {
	resp := DayResponse{
		DayNumber:      d.DayNumber,
		Date:           d.Date.Format(time.DateOnly),
		Placeholder:    d.Placeholder,
		Destinations:   planHttp.NewBookingResponses(d.Destinations),
		Accommodations: planHttp.NewBookingResponses(d.Accommodations),
		Transportation: planHttp.NewBookingResponses(d.Transportation),
		Guides:         planHttp.NewBookingResponses(d.Guides),
		Places:         planHttp.NewPlaceResponses(d.Places),
		Checklists:     planHttp.NewChecklistResponses(d.Checklists),
		ContentCount:   d.ContentCount,
		Active:         d.Active,
	}
	if d.Note != nil {
		n := planHttp.NewNoteResponse(*d.Note)
		resp.Note = &n
	}
	return resp
}

type ItineraryResponse struct {
	Trip              planHttp.TripResponse `json:"trip"`
	Days              []DayResponse         `json:"days"`
	TotalContentCount int                   `json:"total_content_count"`
	TotalAmount       float64               `json:"total_amount"`
	TotalItems        int                   `json:"total_items"`
}

// NewItineraryResponse renders the view. Inactive days are dropped unless all is set.
func NewItineraryResponse(trip planHttp.TripResponse, v itinerary.View, all bool) ItineraryResponse {
	days := v.Days
	if !all {
		days = v.ActiveDays()
	}
	resp := ItineraryResponse{
		Trip:              trip,
		Days:              make([]DayResponse, len(days)),
		TotalContentCount: v.TotalContentCount,
		TotalAmount:       v.TotalAmount,
		TotalItems:        v.TotalItems,
	}
	for i, d := range days {
		resp.Days[i] = NewDayResponse(d)
	}
	return resp
}

// SummaryResponse is returned when the summary is opened and the snapshot captured.
type SummaryResponse struct {
	ItineraryResponse
	SnapshotTakenAt time.Time `json:"snapshot_taken_at"`
}
