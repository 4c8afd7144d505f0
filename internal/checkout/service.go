package checkout

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/crypto/blake2b"

	"github.com/nekogravitycat/trip-planner-backend/internal/itinerary"
	"github.com/nekogravitycat/trip-planner-backend/internal/metrics"
	"github.com/nekogravitycat/trip-planner-backend/internal/persistence"
	"github.com/nekogravitycat/trip-planner-backend/internal/pkg/apperror"
	"github.com/nekogravitycat/trip-planner-backend/internal/trip"
)

var (
	ErrNoSnapshot     = apperror.New(http.StatusConflict, "open the trip summary before checking out")
	ErrEmptyPlan      = apperror.New(http.StatusUnprocessableEntity, "no bookings to check out")
	ErrGatewayFailure = apperror.New(http.StatusBadGateway, "payment provider is unavailable, please retry")
)

// SnapshotSource reads the consolidated snapshot handed off by the summary view.
type SnapshotSource interface {
	LoadSnapshot(ctx context.Context, session string) (persistence.Snapshot, bool)
}

// Result is returned to the client after a checkout session was opened.
type Result struct {
	RedirectURL    string
	IdempotencyKey string
	Total          float64
	ItemCount      int
	SnapshotTaken  time.Time
	Itinerary      itinerary.View
}

type Service interface {
	Checkout(ctx context.Context, session string) (*Result, error)
}

type service struct {
	snapshots  SnapshotSource
	aggregator *itinerary.Aggregator
	gateway    Gateway
	logger     *slog.Logger
}

func NewService(snapshots SnapshotSource, aggregator *itinerary.Aggregator, gateway Gateway, logger *slog.Logger) Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &service{
		snapshots:  snapshots,
		aggregator: aggregator,
		gateway:    gateway,
		logger:     logger,
	}
}

// Checkout rebuilds the itinerary from the stored snapshot alone and opens a payment session for it.
func (s *service) Checkout(ctx context.Context, session string) (*Result, error) {
	snap, ok := s.snapshots.LoadSnapshot(ctx, session)
	if !ok {
		metrics.CheckoutOutcomes.WithLabelValues("no_snapshot").Inc()
		return nil, ErrNoSnapshot
	}

	plan := snap.Plan()
	days := trip.Days(plan.Trip)
	view := s.aggregator.Build(days, plan)
	if view.TotalItems == 0 {
		metrics.CheckoutOutcomes.WithLabelValues("empty").Inc()
		return nil, ErrEmptyPlan
	}

	key, err := Fingerprint(session, snap)
	if err != nil {
		metrics.CheckoutOutcomes.WithLabelValues("error").Inc()
		return nil, err
	}

	req := SessionRequest{
		IdempotencyKey: key,
		PlanningID:     session,
		Travelers:      plan.Trip.Travelers,
		Total:          view.TotalAmount,
		Items:          lineItems(view),
	}
	redirect, err := s.gateway.CreateSession(ctx, req)
	if err != nil {
		metrics.CheckoutOutcomes.WithLabelValues("gateway_error").Inc()
		s.logger.ErrorContext(ctx, "checkout session creation failed",
			slog.String("session", session),
			slog.String("idempotency_key", key),
			slog.Any("error", err),
		)
		return nil, errors.Join(ErrGatewayFailure, err)
	}

	metrics.CheckoutOutcomes.WithLabelValues("created").Inc()
	s.logger.InfoContext(ctx, "checkout session created",
		slog.String("session", session),
		slog.Float64("total", view.TotalAmount),
		slog.Int("items", len(req.Items)),
	)
	return &Result{
		RedirectURL:    redirect,
		IdempotencyKey: key,
		Total:          view.TotalAmount,
		ItemCount:      view.TotalItems,
		SnapshotTaken:  snap.Timestamp,
		Itinerary:      view,
	}, nil
}

// Fingerprint derives the idempotency key for a checkout: a BLAKE2b-256 digest of the
// session id and the snapshot content. The capture timestamp is excluded, so re-opening
// the summary without changes keeps the same key.
func Fingerprint(session string, snap persistence.Snapshot) (string, error) {
	snap.Timestamp = time.Time{}
	payload, err := json.Marshal(snap)
	if err != nil {
		return "", fmt.Errorf("encode snapshot for fingerprint: %w", err)
	}

	h, err := blake2b.New256(nil)
	if err != nil {
		return "", fmt.Errorf("init blake2b: %w", err)
	}
	h.Write([]byte(session))
	h.Write([]byte{0})
	h.Write(payload)
	return hex.EncodeToString(h.Sum(nil)), nil
}

func lineItems(view itinerary.View) []LineItem {
	var items []LineItem
	for _, d := range view.Days {
		for _, group := range []struct {
			cat  trip.Category
			list []trip.Booking
		}{
			{trip.CategoryDestinations, d.Destinations},
			{trip.CategoryAccommodations, d.Accommodations},
			{trip.CategoryTransportation, d.Transportation},
			{trip.CategoryGuides, d.Guides},
		} {
			for _, b := range group.list {
				items = append(items, LineItem{
					BookingID: b.ID,
					Category:  string(group.cat),
					Name:      b.Name,
					DayNumber: d.DayNumber,
					Amount:    b.Amount(),
				})
			}
		}
	}
	return items
}
