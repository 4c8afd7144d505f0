package session

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
	"golang.org/x/sync/singleflight"

	"github.com/nekogravitycat/trip-planner-backend/internal/metrics"
	"github.com/nekogravitycat/trip-planner-backend/internal/persistence"
	"github.com/nekogravitycat/trip-planner-backend/internal/pkg/apperror"
	"github.com/nekogravitycat/trip-planner-backend/internal/planning"
)

var ErrInvalidSession = apperror.New(http.StatusUnauthorized, "invalid planning session")

// Manager maps session ids to live planning stores.
// Idle stores are evicted from memory; their state stays in the KV store and is
// rebuilt through the persistence bridge on the next request.
type Manager struct {
	live    *cache.Cache
	group   singleflight.Group
	bridge  *persistence.Bridge
	opts    planning.Options
	idleTTL time.Duration
	logger  *slog.Logger
}

func NewManager(bridge *persistence.Bridge, idleTTL time.Duration, opts planning.Options) *Manager {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	cleanup := idleTTL
	if cleanup <= 0 || cleanup > 10*time.Minute {
		cleanup = 10 * time.Minute
	}
	return &Manager{
		live:    cache.New(idleTTL, cleanup),
		bridge:  bridge,
		opts:    opts,
		idleTTL: idleTTL,
		logger:  logger,
	}
}

// Start opens a new, empty planning session.
func (m *Manager) Start() (string, *planning.Store) {
	id := uuid.NewString()
	s := planning.NewStore(id, m.bridge, m.opts)
	m.live.Set(id, s, cache.DefaultExpiration)
	m.logger.Info("planning session started", slog.String("session", id))
	return id, s
}

// Store returns the live store for id, rehydrating it from persisted state when it is
// not in memory. Concurrent misses for the same id share one hydration.
func (m *Manager) Store(ctx context.Context, id string) (*planning.Store, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, ErrInvalidSession
	}

	if v, ok := m.live.Get(id); ok {
		// Sliding expiry.
		m.live.Set(id, v, cache.DefaultExpiration)
		return v.(*planning.Store), nil
	}

	v, _, _ := m.group.Do(id, func() (any, error) {
		if v, ok := m.live.Get(id); ok {
			return v, nil
		}
		// Hydration must not be cut short by the first caller going away.
		plan := m.bridge.Load(context.WithoutCancel(ctx), id)
		s := planning.NewStore(id, m.bridge, m.opts)
		s.Restore(plan)
		m.live.Set(id, s, cache.DefaultExpiration)
		metrics.SessionHydrations.Inc()
		m.logger.Debug("planning session hydrated", slog.String("session", id))
		return s, nil
	})
	return v.(*planning.Store), nil
}

// Evict drops the in-memory store for id. Persisted state is untouched.
func (m *Manager) Evict(id string) {
	m.live.Delete(id)
}

// Live reports how many sessions are held in memory.
func (m *Manager) Live() int {
	return m.live.ItemCount()
}
