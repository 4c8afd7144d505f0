package http

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nekogravitycat/trip-planner-backend/internal/auth"
	"github.com/nekogravitycat/trip-planner-backend/internal/itinerary"
	"github.com/nekogravitycat/trip-planner-backend/internal/persistence"
	"github.com/nekogravitycat/trip-planner-backend/internal/pkg/response"
	planHttp "github.com/nekogravitycat/trip-planner-backend/internal/planning/http"
	"github.com/nekogravitycat/trip-planner-backend/internal/trip"
)

// SnapshotWriter captures the consolidated snapshot read later by checkout.
type SnapshotWriter interface {
	CaptureSnapshot(ctx context.Context, session string, plan trip.Plan) (persistence.Snapshot, error)
}

type Handler struct {
	sessions   planHttp.StoreResolver
	snapshots  SnapshotWriter
	aggregator *itinerary.Aggregator
}

func NewHandler(sessions planHttp.StoreResolver, snapshots SnapshotWriter, aggregator *itinerary.Aggregator) *Handler {
	return &Handler{
		sessions:   sessions,
		snapshots:  snapshots,
		aggregator: aggregator,
	}
}

// Get renders the per-day itinerary of the session.
func (h *Handler) Get(c *gin.Context) {
	var req ListItineraryRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid query parameters"})
		return
	}

	s, err := h.sessions.Store(c.Request.Context(), auth.GetSessionID(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	plan := s.State()
	view := h.aggregator.Build(trip.Days(plan.Trip), plan)
	c.JSON(http.StatusOK, NewItineraryResponse(planHttp.NewTripResponse(plan.Trip), view, req.All))
}

// OpenSummary builds the itinerary and captures the snapshot handed to checkout.
func (h *Handler) OpenSummary(c *gin.Context) {
	ctx := c.Request.Context()
	session := auth.GetSessionID(c)

	s, err := h.sessions.Store(ctx, session)
	if err != nil {
		response.Error(c, err)
		return
	}

	plan := s.State()
	snap, err := h.snapshots.CaptureSnapshot(ctx, session, plan)
	if err != nil {
		response.Error(c, err)
		return
	}

	view := h.aggregator.Build(trip.Days(plan.Trip), plan)
	c.JSON(http.StatusOK, SummaryResponse{
		ItineraryResponse: NewItineraryResponse(planHttp.NewTripResponse(plan.Trip), view, false),
		SnapshotTakenAt:   snap.Timestamp,
	})
}
