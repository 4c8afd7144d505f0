package planning

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/nekogravitycat/trip-planner-backend/internal/metrics"
	"github.com/nekogravitycat/trip-planner-backend/internal/persistence"
	"github.com/nekogravitycat/trip-planner-backend/internal/pkg/apperror"
	"github.com/nekogravitycat/trip-planner-backend/internal/trip"
)

var (
	ErrEmptyName             = apperror.New(http.StatusBadRequest, "name is required")
	ErrEmptyTitle            = apperror.New(http.StatusBadRequest, "title is required")
	ErrChecklistNotFound     = apperror.New(http.StatusNotFound, "checklist not found")
	ErrChecklistItemNotFound = apperror.New(http.StatusNotFound, "checklist item not found")
)

// Mirror receives every mutation so it can be persisted.
// *persistence.Bridge is the production implementation.
type Mirror interface {
	SaveSlice(ctx context.Context, session string, slice persistence.Slice, value any) error
	Clear(ctx context.Context, session string) error
}

type Options struct {
	// Strict panics on an unknown category instead of returning ErrUnknownCategory.
	// Enabled in development so contract violations surface immediately.
	Strict bool
	Logger *slog.Logger
	Now    func() time.Time
}

// Store holds the in-progress selections of one planning session.
// All methods are safe for concurrent use; a mutation and its mirror write
// happen under the same lock.
type Store struct {
	mu      sync.Mutex
	session string
	plan    trip.Plan

	mirror Mirror
	strict bool
	logger *slog.Logger
	now    func() time.Time
}

func NewStore(session string, mirror Mirror, opts Options) *Store {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	now := opts.Now
	if now == nil {
		now = func() time.Time { return time.Now().UTC() }
	}
	return &Store{
		session: session,
		plan:    trip.NewPlan(),
		mirror:  mirror,
		strict:  opts.Strict,
		logger:  logger.With(slog.String("session", session)),
		now:     now,
	}
}

func (s *Store) Session() string {
	return s.session
}

// AddToTripPlanning appends b to the category. Ids are not de-duplicated.
func (s *Store) AddToTripPlanning(ctx context.Context, b trip.Booking, category trip.Category) error {
	if err := s.checkCategory(category); err != nil {
		return err
	}
	if strings.TrimSpace(b.ID) == "" {
		return trip.ErrMissingBookingID
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	b = b.Clone()
	b.Category = category
	s.plan.Bookings[category] = append(s.plan.Bookings[category], b)

	s.recordMutation(ctx, "add_booking", persistence.SliceBookings, s.plan.Bookings)
	return nil
}

// RemoveFromTripPlanning drops the booking with the given id. A missing id is a no-op.
func (s *Store) RemoveFromTripPlanning(ctx context.Context, id string, category trip.Category) error {
	if err := s.checkCategory(category); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	list := s.plan.Bookings[category]
	idx := slices.IndexFunc(list, func(b trip.Booking) bool { return b.ID == id })
	if idx < 0 {
		return nil
	}
	s.plan.Bookings[category] = slices.Delete(slices.Clone(list), idx, idx+1)

	s.recordMutation(ctx, "remove_booking", persistence.SliceBookings, s.plan.Bookings)
	return nil
}

// ClearTripPlanning empties every category and day mapping and resets the persisted mirror.
// The trip window is kept.
func (s *Store) ClearTripPlanning(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tw := s.plan.Trip
	s.plan = trip.NewPlan()
	s.plan.Trip = tw

	metrics.PlanningMutations.WithLabelValues("clear").Inc()
	if s.mirror == nil {
		return
	}
	if err := s.mirror.Clear(ctx, s.session); err != nil {
		metrics.MirrorFailures.WithLabelValues("all").Inc()
		s.logger.ErrorContext(ctx, "failed to clear persisted planning state", slog.Any("error", err))
	}
}

// TotalAmount sums the usable price of every booking.
func (s *Store) TotalAmount() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.plan.TotalAmount()
}

func (s *Store) TotalItemsCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.plan.Bookings.Len()
}

// Bookings returns a copy of one category's bookings in insertion order.
func (s *Store) Bookings(category trip.Category) []trip.Booking {
	s.mu.Lock()
	defer s.mu.Unlock()
	return trip.Bookings{category: s.plan.Bookings[category]}.Clone()[category]
}

func (s *Store) SetTrip(ctx context.Context, w trip.TripWindow) error {
	if err := w.Validate(); err != nil {
		return err
	}
	if !w.StartDate.IsZero() {
		w.StartDate = trip.DateOf(w.StartDate)
	}
	if !w.EndDate.IsZero() {
		w.EndDate = trip.DateOf(w.EndDate)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.plan.Trip = w
	s.recordMutation(ctx, "set_trip", persistence.SliceTrip, s.plan.Trip)
	return nil
}

func (s *Store) Trip() trip.TripWindow {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.plan.Trip
}

// AddPlace appends a free-text place to a day.
func (s *Store) AddPlace(ctx context.Context, day int, name, selectedDate string) (trip.DayPlace, error) {
	if day < 1 {
		return trip.DayPlace{}, trip.ErrInvalidDayNumber
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return trip.DayPlace{}, ErrEmptyName
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	p := trip.DayPlace{
		ID:           uuid.NewString(),
		Name:         name,
		AddedAt:      s.now(),
		SelectedDate: s.dateFor(day, selectedDate),
		DayNumber:    day,
	}
	s.plan.Places[day] = append(s.plan.Places[day], p)

	s.recordMutation(ctx, "add_place", persistence.SlicePlaces, s.plan.Places)
	return p, nil
}

// RemovePlace deletes a place from a day. A missing place is a no-op.
func (s *Store) RemovePlace(ctx context.Context, day int, id string) error {
	if day < 1 {
		return trip.ErrInvalidDayNumber
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	list := s.plan.Places[day]
	idx := slices.IndexFunc(list, func(p trip.DayPlace) bool { return p.ID == id })
	if idx < 0 {
		return nil
	}
	if len(list) == 1 {
		delete(s.plan.Places, day)
	} else {
		s.plan.Places[day] = slices.Delete(slices.Clone(list), idx, idx+1)
	}

	s.recordMutation(ctx, "remove_place", persistence.SlicePlaces, s.plan.Places)
	return nil
}

// SaveNote overwrites the note of a day. Saving blank text removes the note.
func (s *Store) SaveNote(ctx context.Context, day int, text, selectedDate string) (trip.DayNote, error) {
	if day < 1 {
		return trip.DayNote{}, trip.ErrInvalidDayNumber
	}
	if strings.TrimSpace(text) == "" {
		return trip.DayNote{}, s.RemoveNote(ctx, day)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	n := trip.DayNote{
		Text:         text,
		SelectedDate: s.dateFor(day, selectedDate),
		DayNumber:    day,
		SavedAt:      s.now(),
	}
	s.plan.Notes[day] = n

	s.recordMutation(ctx, "save_note", persistence.SliceNotes, s.plan.Notes)
	return n, nil
}

func (s *Store) RemoveNote(ctx context.Context, day int) error {
	if day < 1 {
		return trip.ErrInvalidDayNumber
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.plan.Notes[day]; !ok {
		return nil
	}
	delete(s.plan.Notes, day)

	s.recordMutation(ctx, "remove_note", persistence.SliceNotes, s.plan.Notes)
	return nil
}

// AddChecklist creates a checklist on a day with one unchecked item per title.
func (s *Store) AddChecklist(ctx context.Context, day int, title string, items []string, selectedDate string) (trip.DayChecklist, error) {
	if day < 1 {
		return trip.DayChecklist{}, trip.ErrInvalidDayNumber
	}
	title = strings.TrimSpace(title)
	if title == "" {
		return trip.DayChecklist{}, ErrEmptyTitle
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	c := trip.DayChecklist{
		ID:           uuid.NewString(),
		Title:        title,
		Items:        make([]trip.ChecklistItem, 0, len(items)),
		SelectedDate: s.dateFor(day, selectedDate),
		DayNumber:    day,
		CreatedAt:    s.now(),
	}
	for _, it := range items {
		it = strings.TrimSpace(it)
		if it == "" {
			continue
		}
		c.Items = append(c.Items, trip.ChecklistItem{ID: uuid.NewString(), Title: it})
	}
	s.plan.Checklists[day] = append(s.plan.Checklists[day], c)

	s.recordMutation(ctx, "add_checklist", persistence.SliceChecklists, s.plan.Checklists)
	return c.Clone(), nil
}

// RemoveChecklist deletes a checklist from a day. A missing checklist is a no-op.
func (s *Store) RemoveChecklist(ctx context.Context, day int, id string) error {
	if day < 1 {
		return trip.ErrInvalidDayNumber
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	list := s.plan.Checklists[day]
	idx := slices.IndexFunc(list, func(c trip.DayChecklist) bool { return c.ID == id })
	if idx < 0 {
		return nil
	}
	if len(list) == 1 {
		delete(s.plan.Checklists, day)
	} else {
		s.plan.Checklists[day] = slices.Delete(slices.Clone(list), idx, idx+1)
	}

	s.recordMutation(ctx, "remove_checklist", persistence.SliceChecklists, s.plan.Checklists)
	return nil
}

// ToggleChecklistItem flips the completed flag of one item and returns the updated checklist.
func (s *Store) ToggleChecklistItem(ctx context.Context, day int, checklistID, itemID string) (trip.DayChecklist, error) {
	if day < 1 {
		return trip.DayChecklist{}, trip.ErrInvalidDayNumber
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	list := s.plan.Checklists[day]
	ci := slices.IndexFunc(list, func(c trip.DayChecklist) bool { return c.ID == checklistID })
	if ci < 0 {
		return trip.DayChecklist{}, ErrChecklistNotFound
	}
	c := list[ci].Clone()
	ii := slices.IndexFunc(c.Items, func(it trip.ChecklistItem) bool { return it.ID == itemID })
	if ii < 0 {
		return trip.DayChecklist{}, ErrChecklistItemNotFound
	}
	c.Items[ii].Completed = !c.Items[ii].Completed

	updated := slices.Clone(list)
	updated[ci] = c
	s.plan.Checklists[day] = updated

	s.recordMutation(ctx, "toggle_checklist_item", persistence.SliceChecklists, s.plan.Checklists)
	return c.Clone(), nil
}

// State returns a deep copy of the whole planning state.
func (s *Store) State() trip.Plan {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.plan.Clone()
}

// Restore replaces the store contents with previously persisted state. Nothing is mirrored.
// Bookings under unknown categories are kept so the aggregator can still show them.
func (s *Store) Restore(plan trip.Plan) {
	p := plan.Clone()
	for cat, list := range p.Bookings {
		for i := range list {
			if list[i].Category == "" {
				list[i].Category = cat
			}
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.plan = p
}

func (s *Store) checkCategory(c trip.Category) error {
	if c.Valid() {
		return nil
	}
	if s.strict {
		panic(fmt.Sprintf("planning: unknown booking category %q", c))
	}
	s.logger.Warn("rejected unknown booking category", slog.String("category", string(c)))
	return trip.ErrUnknownCategory
}

// dateFor returns selectedDate, or the calendar date of day when none was given
// and the day lies inside the trip window. Must be called with s.mu held.
func (s *Store) dateFor(day int, selectedDate string) string {
	if selectedDate != "" {
		return selectedDate
	}
	days := trip.Days(s.plan.Trip)
	if day <= len(days) {
		return days[day-1].Date.Format(trip.DateLayout)
	}
	return ""
}

// recordMutation counts the operation and mirrors the slice. Must be called with s.mu held.
// Mirror failures are logged and never fail the mutation.
func (s *Store) recordMutation(ctx context.Context, op string, slice persistence.Slice, value any) {
	metrics.PlanningMutations.WithLabelValues(op).Inc()
	if s.mirror == nil {
		return
	}
	if err := s.mirror.SaveSlice(ctx, s.session, slice, value); err != nil {
		metrics.MirrorFailures.WithLabelValues(string(slice)).Inc()
		s.logger.ErrorContext(ctx, "failed to mirror planning slice",
			slog.String("slice", string(slice)),
			slog.String("operation", op),
			slog.Any("error", err),
		)
	}
}
