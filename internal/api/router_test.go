package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nekogravitycat/trip-planner-backend/internal/auth"
	"github.com/nekogravitycat/trip-planner-backend/internal/catalog"
	"github.com/nekogravitycat/trip-planner-backend/internal/checkout"
	checkoutHttp "github.com/nekogravitycat/trip-planner-backend/internal/checkout/http"
	"github.com/nekogravitycat/trip-planner-backend/internal/itinerary"
	itineraryHttp "github.com/nekogravitycat/trip-planner-backend/internal/itinerary/http"
	"github.com/nekogravitycat/trip-planner-backend/internal/persistence"
	"github.com/nekogravitycat/trip-planner-backend/internal/pkg/kvstore"
	"github.com/nekogravitycat/trip-planner-backend/internal/pkg/response"
	"github.com/nekogravitycat/trip-planner-backend/internal/planning"
	planHttp "github.com/nekogravitycat/trip-planner-backend/internal/planning/http"
	"github.com/nekogravitycat/trip-planner-backend/internal/session"
)

// fakeCatalog serves a fixed set of items.
type fakeCatalog struct {
	items map[string]*catalog.Item
}

func (f *fakeCatalog) GetByID(ctx context.Context, id string) (*catalog.Item, error) {
	it, ok := f.items[id]
	if !ok {
		return nil, catalog.ErrNotFound
	}
	return it, nil
}

func (f *fakeCatalog) List(ctx context.Context, filter catalog.Filter) ([]*catalog.Item, int, error) {
	var out []*catalog.Item
	for _, it := range f.items {
		if it.Kind == filter.Kind {
			out = append(out, it)
		}
	}
	return out, len(out), nil
}

func (f *fakeCatalog) ListAll(ctx context.Context, pageSize int) (map[catalog.Kind]catalog.Page, error) {
	pages := make(map[catalog.Kind]catalog.Page, len(catalog.Kinds))
	for _, k := range catalog.Kinds {
		items, total, _ := f.List(ctx, catalog.Filter{Kind: k})
		pages[k] = catalog.Page{Items: items, Total: total}
	}
	return pages, nil
}

type testEnv struct {
	router   *gin.Engine
	sessions *session.Manager
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	bridge := persistence.NewBridge(kvstore.NewMemoryStore(), log)
	sessions := session.NewManager(bridge, 30*time.Minute, planning.Options{Logger: log})
	aggregator := itinerary.NewAggregator(time.Now, log)

	items := &fakeCatalog{items: map[string]*catalog.Item{
		"h1": {ID: "h1", Kind: catalog.KindAccommodations, Name: "Harbor Inn", Location: "Busan", Price: 150},
		"g1": {ID: "g1", Kind: catalog.KindGuides, Name: "Old Town Walk", Price: 40},
	}}

	router := NewRouter(Config{
		Logger:          log,
		Sessions:        sessions,
		Bridge:          bridge,
		Aggregator:      aggregator,
		CatalogService:  items,
		CheckoutService: checkout.NewService(bridge, aggregator, checkout.NewMockGateway("https://pay.test/session"), log),
		CheckoutLimiter: NewRateLimiter(1),
		JWTManager:      auth.NewJWTManager("test-secret", time.Hour),
	})
	return &testEnv{router: router, sessions: sessions}
}

func (e *testEnv) executeRequest(method, path string, body any, token string) *httptest.ResponseRecorder {
	var reqBody []byte
	if body != nil {
		reqBody, _ = json.Marshal(body)
	}

	req, _ := http.NewRequest(method, path, bytes.NewBuffer(reqBody))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func (e *testEnv) startSession(t *testing.T) SessionResponse {
	t.Helper()
	w := e.executeRequest("POST", "/v1/sessions", nil, "")
	require.Equal(t, http.StatusCreated, w.Code)

	var resp SessionResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.SessionID)
	require.NotEmpty(t, resp.AccessToken)
	return resp
}

func TestPlanningToCheckoutFlow(t *testing.T) {
	env := newTestEnv(t)
	sess := env.startSession(t)
	token := sess.AccessToken

	t.Run("Planning: Unauthorized (No Token)", func(t *testing.T) {
		w := env.executeRequest("GET", "/v1/planning", nil, "")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("Set Trip", func(t *testing.T) {
		w := env.executeRequest("PUT", "/v1/planning/trip", map[string]any{
			"start_date": "2025-03-01",
			"end_date":   "2025-03-03",
			"travelers":  2,
		}, token)
		require.Equal(t, http.StatusOK, w.Code)

		var resp planHttp.TripResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		require.NotNil(t, resp.StartDate)
		assert.Equal(t, "2025-03-01", *resp.StartDate)
	})

	t.Run("Set Trip: Invalid Window", func(t *testing.T) {
		w := env.executeRequest("PUT", "/v1/planning/trip", map[string]any{
			"start_date": "2025-03-05",
			"end_date":   "2025-03-01",
		}, token)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("Add Booking", func(t *testing.T) {
		w := env.executeRequest("POST", "/v1/planning/bookings/accommodations", map[string]any{
			"id":            "h1",
			"name":          "Harbor Inn",
			"total_price":   150,
			"selected_date": "2025-03-02",
		}, token)
		require.Equal(t, http.StatusCreated, w.Code)

		var resp struct {
			Booking     planHttp.BookingResponse `json:"booking"`
			TotalAmount float64                  `json:"total_amount"`
			TotalItems  int                      `json:"total_items"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "accommodations", resp.Booking.Category)
		assert.Equal(t, 150.0, resp.TotalAmount)
		assert.Equal(t, 1, resp.TotalItems)
	})

	t.Run("Add Booking: From Catalog", func(t *testing.T) {
		w := env.executeRequest("POST", "/v1/planning/bookings/guides", map[string]any{
			"catalog_item_id": "g1",
		}, token)
		require.Equal(t, http.StatusCreated, w.Code)
	})

	t.Run("Add Booking: Catalog Kind Mismatch", func(t *testing.T) {
		w := env.executeRequest("POST", "/v1/planning/bookings/transportation", map[string]any{
			"catalog_item_id": "h1",
		}, token)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("Add Booking: Unknown Category", func(t *testing.T) {
		w := env.executeRequest("POST", "/v1/planning/bookings/restaurants", map[string]any{
			"id":   "r1",
			"name": "Noodle Bar",
		}, token)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("Save Note", func(t *testing.T) {
		w := env.executeRequest("PUT", "/v1/planning/days/1/note", map[string]any{"text": "Arrive by noon"}, token)
		require.Equal(t, http.StatusOK, w.Code)

		var resp planHttp.NoteResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "2025-03-01", resp.SelectedDate)
	})

	t.Run("Save Note: Invalid Day", func(t *testing.T) {
		w := env.executeRequest("PUT", "/v1/planning/days/0/note", map[string]any{"text": "x"}, token)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("Itinerary", func(t *testing.T) {
		w := env.executeRequest("GET", "/v1/itinerary", nil, token)
		require.Equal(t, http.StatusOK, w.Code)

		var resp itineraryHttp.ItineraryResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		require.Len(t, resp.Days, 2)
		assert.Equal(t, 1, resp.Days[0].DayNumber)
		assert.NotNil(t, resp.Days[0].Note)
		assert.Len(t, resp.Days[0].Guides, 1)
		assert.Equal(t, 2, resp.Days[1].DayNumber)
		assert.Len(t, resp.Days[1].Accommodations, 1)
		assert.Equal(t, 3, resp.TotalContentCount)
		assert.Equal(t, 190.0, resp.TotalAmount)

		w = env.executeRequest("GET", "/v1/itinerary?all=true", nil, token)
		require.Equal(t, http.StatusOK, w.Code)
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Len(t, resp.Days, 3)
	})

	t.Run("Open Summary", func(t *testing.T) {
		w := env.executeRequest("POST", "/v1/itinerary/summary", nil, token)
		require.Equal(t, http.StatusOK, w.Code)

		var resp itineraryHttp.SummaryResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.False(t, resp.SnapshotTakenAt.IsZero())
	})

	t.Run("Checkout", func(t *testing.T) {
		w := env.executeRequest("POST", "/v1/checkout", nil, token)
		require.Equal(t, http.StatusCreated, w.Code)

		var resp checkoutHttp.CheckoutResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, 190.0, resp.TotalAmount)
		assert.Equal(t, 2, resp.TotalItems)
		assert.Equal(t, resp.IdempotencyKey, w.Header().Get("Idempotency-Key"))
	})

	t.Run("Checkout: Rate Limited", func(t *testing.T) {
		w := env.executeRequest("POST", "/v1/checkout", nil, token)
		assert.Equal(t, http.StatusTooManyRequests, w.Code)
	})

	t.Run("Rehydrate After Eviction", func(t *testing.T) {
		env.sessions.Evict(sess.SessionID)

		w := env.executeRequest("GET", "/v1/planning", nil, token)
		require.Equal(t, http.StatusOK, w.Code)

		var resp planHttp.PlanningResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, 2, resp.TotalItems)
		assert.Len(t, resp.Days, 3)
		require.Len(t, resp.DayContent, 1)
		assert.NotNil(t, resp.DayContent[0].Note)
	})

	t.Run("Clear", func(t *testing.T) {
		w := env.executeRequest("DELETE", "/v1/planning", nil, token)
		require.Equal(t, http.StatusNoContent, w.Code)

		w = env.executeRequest("GET", "/v1/planning", nil, token)
		require.Equal(t, http.StatusOK, w.Code)

		var resp planHttp.PlanningResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, 0, resp.TotalItems)
		assert.Empty(t, resp.DayContent)
		require.NotNil(t, resp.Trip.StartDate)
	})
}

func TestCheckout_NoSnapshot(t *testing.T) {
	env := newTestEnv(t)
	token := env.startSession(t).AccessToken

	w := env.executeRequest("POST", "/v1/checkout", nil, token)
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestSessionsAreIsolated(t *testing.T) {
	env := newTestEnv(t)
	a := env.startSession(t)
	b := env.startSession(t)

	w := env.executeRequest("POST", "/v1/planning/bookings/guides", map[string]any{
		"id": "g1", "name": "Old Town Walk", "price": 40,
	}, a.AccessToken)
	require.Equal(t, http.StatusCreated, w.Code)

	w = env.executeRequest("GET", "/v1/planning", nil, b.AccessToken)
	require.Equal(t, http.StatusOK, w.Code)

	var resp planHttp.PlanningResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 0, resp.TotalItems)
}

func TestChecklistRoutes(t *testing.T) {
	env := newTestEnv(t)
	token := env.startSession(t).AccessToken

	w := env.executeRequest("POST", "/v1/planning/days/2/checklists", map[string]any{
		"title": "Packing",
		"items": []string{"Passport", " ", "Adapter"},
	}, token)
	require.Equal(t, http.StatusCreated, w.Code)

	var cl planHttp.ChecklistResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &cl))
	require.Len(t, cl.Items, 2)

	w = env.executeRequest("PATCH", "/v1/planning/days/2/checklists/"+cl.ID+"/items/"+cl.Items[0].ID, nil, token)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &cl))
	assert.True(t, cl.Items[0].Completed)

	w = env.executeRequest("PATCH", "/v1/planning/days/2/checklists/"+cl.ID+"/items/missing", nil, token)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = env.executeRequest("DELETE", "/v1/planning/days/2/checklists/"+cl.ID, nil, token)
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestCatalogRoutes(t *testing.T) {
	env := newTestEnv(t)
	token := env.startSession(t).AccessToken

	w := env.executeRequest("GET", "/v1/catalog/accommodations", nil, token)
	require.Equal(t, http.StatusOK, w.Code)

	var page response.PageResponse[map[string]any]
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &page))
	assert.Equal(t, 1, page.Total)
	assert.Equal(t, 1, page.Page)
	assert.Equal(t, 20, page.PageSize)

	w = env.executeRequest("GET", "/v1/catalog/restaurants", nil, token)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = env.executeRequest("GET", "/v1/catalog", nil, token)
	require.Equal(t, http.StatusOK, w.Code)
	var all map[string]response.PageResponse[map[string]any]
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &all))
	assert.Len(t, all, 3)
	assert.Equal(t, 0, all["transportation"].Total)
}

func TestHealthAndMetrics(t *testing.T) {
	env := newTestEnv(t)

	w := env.executeRequest("GET", "/healthz", nil, "")
	assert.Equal(t, http.StatusOK, w.Code)

	w = env.executeRequest("GET", "/metrics", nil, "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "go_goroutines")
}

func TestRateLimiter_Cleanup(t *testing.T) {
	rl := NewRateLimiter(60)
	rl.getLimiter("a")
	rl.visitors["a"].lastSeen = time.Now().Add(-time.Hour)
	rl.getLimiter("b")

	rl.Cleanup()
	assert.NotContains(t, rl.visitors, "a")
	assert.Contains(t, rl.visitors, "b")
}
