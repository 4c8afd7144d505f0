package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/nekogravitycat/trip-planner-backend/internal/auth"
	"github.com/nekogravitycat/trip-planner-backend/internal/catalog"
	"github.com/nekogravitycat/trip-planner-backend/internal/pkg/apperror"
	"github.com/nekogravitycat/trip-planner-backend/internal/pkg/request"
	"github.com/nekogravitycat/trip-planner-backend/internal/pkg/response"
	"github.com/nekogravitycat/trip-planner-backend/internal/planning"
	"github.com/nekogravitycat/trip-planner-backend/internal/trip"
)

var ErrCatalogKindMismatch = apperror.New(http.StatusBadRequest, "catalog item does not belong to this category")

// StoreResolver finds the planning store of a session.
type StoreResolver interface {
	Store(ctx context.Context, sessionID string) (*planning.Store, error)
}

// ItemLookup resolves catalog items picked on a booking-detail view.
type ItemLookup interface {
	GetByID(ctx context.Context, id string) (*catalog.Item, error)
}

type Handler struct {
	sessions StoreResolver
	items    ItemLookup
	now      func() time.Time
}

// NewHandler creates the planning handler. items may be nil when no catalog is configured.
func NewHandler(sessions StoreResolver, items ItemLookup) *Handler {
	return &Handler{
		sessions: sessions,
		items:    items,
		now:      time.Now,
	}
}

// store returns the caller's planning store, writing the error response on failure.
func (h *Handler) store(c *gin.Context) (*planning.Store, bool) {
	s, err := h.sessions.Store(c.Request.Context(), auth.GetSessionID(c))
	if err != nil {
		response.Error(c, err)
		return nil, false
	}
	return s, true
}

// Get returns the full planning state with totals.
func (h *Handler) Get(c *gin.Context) {
	s, ok := h.store(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, NewPlanningResponse(s.State()))
}

// UpdateTrip stores the trip window submitted from the trip form.
func (h *Handler) UpdateTrip(c *gin.Context) {
	var body UpdateTripBody
	if err := c.ShouldBindJSON(&body); err != nil {
		response.BadRequest(c, err)
		return
	}
	w, err := body.ToWindow()
	if err != nil {
		response.Error(c, err)
		return
	}

	s, ok := h.store(c)
	if !ok {
		return
	}
	if err := s.SetTrip(c.Request.Context(), w); err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, NewTripResponse(s.Trip()))
}

// Clear empties the plan and its persisted mirror.
func (h *Handler) Clear(c *gin.Context) {
	s, ok := h.store(c)
	if !ok {
		return
	}
	s.ClearTripPlanning(c.Request.Context())
	c.Status(http.StatusNoContent)
}

// AddBooking appends a booking to the category in the path.
func (h *Handler) AddBooking(c *gin.Context) {
	category, err := trip.ParseCategory(c.Param("category"))
	if err != nil {
		response.Error(c, err)
		return
	}

	var body AddBookingBody
	if err := c.ShouldBindJSON(&body); err != nil {
		response.BadRequest(c, err)
		return
	}

	b := body.ToBooking()
	if body.CatalogItemID != "" {
		if b, err = h.fromCatalog(c.Request.Context(), body, category); err != nil {
			response.Error(c, err)
			return
		}
	}

	s, ok := h.store(c)
	if !ok {
		return
	}
	if err := s.AddToTripPlanning(c.Request.Context(), b, category); err != nil {
		response.Error(c, err)
		return
	}

	b.Category = category
	c.JSON(http.StatusCreated, gin.H{
		"booking":      NewBookingResponse(b),
		"total_amount": s.TotalAmount(),
		"total_items":  s.TotalItemsCount(),
	})
}

func (h *Handler) fromCatalog(ctx context.Context, body AddBookingBody, category trip.Category) (trip.Booking, error) {
	if h.items == nil {
		return trip.Booking{}, catalog.ErrUnavailable
	}
	item, err := h.items.GetByID(ctx, body.CatalogItemID)
	if err != nil {
		return trip.Booking{}, err
	}
	if item.Kind.Category() != category {
		return trip.Booking{}, ErrCatalogKindMismatch
	}
	b := catalog.NewBooking(item, body.SelectedDate, h.now())
	b.Details = body.Details
	return b, nil
}

// RemoveBooking drops a booking. Unknown ids succeed without changes.
func (h *Handler) RemoveBooking(c *gin.Context) {
	category, err := trip.ParseCategory(c.Param("category"))
	if err != nil {
		response.Error(c, err)
		return
	}

	s, ok := h.store(c)
	if !ok {
		return
	}
	if err := s.RemoveFromTripPlanning(c.Request.Context(), c.Param("id"), category); err != nil {
		response.Error(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) AddPlace(c *gin.Context) {
	var uri request.DayRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid day number"})
		return
	}
	var body AddPlaceBody
	if err := c.ShouldBindJSON(&body); err != nil {
		response.BadRequest(c, err)
		return
	}

	s, ok := h.store(c)
	if !ok {
		return
	}
	p, err := s.AddPlace(c.Request.Context(), uri.Day, body.Name, body.SelectedDate)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusCreated, NewPlaceResponse(p))
}

func (h *Handler) RemovePlace(c *gin.Context) {
	var uri request.DayItemRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid day number"})
		return
	}

	s, ok := h.store(c)
	if !ok {
		return
	}
	if err := s.RemovePlace(c.Request.Context(), uri.Day, uri.ID); err != nil {
		response.Error(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// SaveNote overwrites the day's note. Blank text removes it.
func (h *Handler) SaveNote(c *gin.Context) {
	var uri request.DayRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid day number"})
		return
	}
	var body SaveNoteBody
	if err := c.ShouldBindJSON(&body); err != nil {
		response.BadRequest(c, err)
		return
	}

	s, ok := h.store(c)
	if !ok {
		return
	}
	n, err := s.SaveNote(c.Request.Context(), uri.Day, body.Text, body.SelectedDate)
	if err != nil {
		response.Error(c, err)
		return
	}
	if !n.Present() {
		c.Status(http.StatusNoContent)
		return
	}
	c.JSON(http.StatusOK, NewNoteResponse(n))
}

func (h *Handler) RemoveNote(c *gin.Context) {
	var uri request.DayRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid day number"})
		return
	}

	s, ok := h.store(c)
	if !ok {
		return
	}
	if err := s.RemoveNote(c.Request.Context(), uri.Day); err != nil {
		response.Error(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) AddChecklist(c *gin.Context) {
	var uri request.DayRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid day number"})
		return
	}
	var body AddChecklistBody
	if err := c.ShouldBindJSON(&body); err != nil {
		response.BadRequest(c, err)
		return
	}

	s, ok := h.store(c)
	if !ok {
		return
	}
	cl, err := s.AddChecklist(c.Request.Context(), uri.Day, body.Title, body.Items, body.SelectedDate)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusCreated, NewChecklistResponse(cl))
}

func (h *Handler) RemoveChecklist(c *gin.Context) {
	var uri request.DayItemRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid day number"})
		return
	}

	s, ok := h.store(c)
	if !ok {
		return
	}
	if err := s.RemoveChecklist(c.Request.Context(), uri.Day, uri.ID); err != nil {
		response.Error(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ToggleChecklistItem flips one item between done and not done.
func (h *Handler) ToggleChecklistItem(c *gin.Context) {
	var uri ToggleItemURI
	if err := c.ShouldBindUri(&uri); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid day number"})
		return
	}

	s, ok := h.store(c)
	if !ok {
		return
	}
	cl, err := s.ToggleChecklistItem(c.Request.Context(), uri.Day, uri.ID, uri.ItemID)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, NewChecklistResponse(cl))
}
