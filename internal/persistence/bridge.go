package persistence

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/nekogravitycat/trip-planner-backend/internal/metrics"
	"github.com/nekogravitycat/trip-planner-backend/internal/pkg/kvstore"
	"github.com/nekogravitycat/trip-planner-backend/internal/trip"
)

// Slice names one persisted subset of planning state.
type Slice string

const (
	SlicePlaces     Slice = "places"
	SliceNotes      Slice = "notes"
	SliceChecklists Slice = "checklists"
	SliceBookings   Slice = "bookings"
	SliceTrip       Slice = "trip"

	sliceSnapshot Slice = "snapshot"
)

// clearedSlices are reset to empty mappings by Clear. The trip window survives a clear.
var clearedSlices = []Slice{SlicePlaces, SliceNotes, SliceChecklists, SliceBookings}

const keyPrefix = "trip-planner"

// Bridge mirrors planning state into a key-value store and reads it back.
// All reads degrade to "absent" on failure; writes report errors to the caller.
type Bridge struct {
	store  kvstore.Store
	logger *slog.Logger
	now    func() time.Time
}

func NewBridge(store kvstore.Store, logger *slog.Logger) *Bridge {
	if logger == nil {
		logger = slog.Default()
	}
	return &Bridge{
		store:  store,
		logger: logger,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// Key returns the storage key for a session's slice.
func Key(session string, slice Slice) string {
	return keyPrefix + ":" + session + ":" + string(slice)
}

// SaveSlice serialises value as the full content of the slice.
func (b *Bridge) SaveSlice(ctx context.Context, session string, slice Slice, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode %s slice: %w", slice, err)
	}
	if err := b.store.Set(ctx, Key(session, slice), data); err != nil {
		return fmt.Errorf("save %s slice: %w", slice, err)
	}
	return nil
}

// Load rebuilds a session's plan. Each slice is first read from its own key; then every
// non-empty slice of the consolidated snapshot, if one exists, overrides its baseline.
// An empty snapshot slice never erases a non-empty baseline.
func (b *Bridge) Load(ctx context.Context, session string) trip.Plan {
	plan := trip.NewPlan()

	readSlice(ctx, b, session, SliceTrip, &plan.Trip)
	readSlice(ctx, b, session, SliceBookings, &plan.Bookings)
	readSlice(ctx, b, session, SlicePlaces, &plan.Places)
	readSlice(ctx, b, session, SliceNotes, &plan.Notes)
	readSlice(ctx, b, session, SliceChecklists, &plan.Checklists)

	if snap, ok := b.LoadSnapshot(ctx, session); ok {
		snap.overlay(&plan)
	}

	normalize(&plan)
	return plan
}

// CaptureSnapshot stores a consolidated copy of plan under the session's snapshot key.
func (b *Bridge) CaptureSnapshot(ctx context.Context, session string, plan trip.Plan) (Snapshot, error) {
	snap := NewSnapshot(plan, b.now())
	if err := b.SaveSlice(ctx, session, sliceSnapshot, snap); err != nil {
		return Snapshot{}, err
	}
	metrics.SnapshotCaptures.Inc()
	return snap, nil
}

// LoadSnapshot returns the session's consolidated snapshot, if a readable one exists.
func (b *Bridge) LoadSnapshot(ctx context.Context, session string) (Snapshot, bool) {
	var snap Snapshot
	if !readSlice(ctx, b, session, sliceSnapshot, &snap) {
		return Snapshot{}, false
	}
	return snap, true
}

// Clear resets every selection slice to an empty mapping and drops the snapshot,
// so a later Load cannot resurrect cleared data.
func (b *Bridge) Clear(ctx context.Context, session string) error {
	var errs []error
	for _, slice := range clearedSlices {
		if err := b.store.Set(ctx, Key(session, slice), []byte("{}")); err != nil {
			errs = append(errs, fmt.Errorf("reset %s slice: %w", slice, err))
		}
	}
	if err := b.store.Delete(ctx, Key(session, sliceSnapshot)); err != nil {
		errs = append(errs, fmt.Errorf("delete snapshot: %w", err))
	}
	return errors.Join(errs...)
}

// readSlice decodes a stored slice into dst. It reports false, leaving dst untouched,
// when the value is missing, unreadable, or corrupt.
func readSlice[T any](ctx context.Context, b *Bridge, session string, slice Slice, dst *T) bool {
	data, err := b.store.Get(ctx, Key(session, slice))
	if err != nil {
		if !errors.Is(err, kvstore.ErrNotFound) {
			b.logger.WarnContext(ctx, "failed to read persisted slice",
				slog.String("session", session),
				slog.String("slice", string(slice)),
				slog.Any("error", err),
			)
		}
		return false
	}

	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		metrics.SliceParseFailures.WithLabelValues(string(slice)).Inc()
		b.logger.WarnContext(ctx, "discarding corrupt persisted slice",
			slog.String("session", session),
			slog.String("slice", string(slice)),
			slog.Any("error", err),
		)
		return false
	}
	*dst = v
	return true
}

// normalize replaces nil mappings left by "null" payloads with empty ones.
func normalize(p *trip.Plan) {
	if p.Bookings == nil {
		p.Bookings = trip.Bookings{}
	}
	if p.Places == nil {
		p.Places = trip.Places{}
	}
	if p.Notes == nil {
		p.Notes = trip.Notes{}
	}
	if p.Checklists == nil {
		p.Checklists = trip.Checklists{}
	}
}
