package app

import (
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/nekogravitycat/trip-planner-backend/internal/api"
	"github.com/nekogravitycat/trip-planner-backend/internal/auth"
	"github.com/nekogravitycat/trip-planner-backend/internal/catalog"
	"github.com/nekogravitycat/trip-planner-backend/internal/checkout"
	"github.com/nekogravitycat/trip-planner-backend/internal/itinerary"
	"github.com/nekogravitycat/trip-planner-backend/internal/persistence"
	"github.com/nekogravitycat/trip-planner-backend/internal/pkg/kvstore"
	"github.com/nekogravitycat/trip-planner-backend/internal/planning"
	"github.com/nekogravitycat/trip-planner-backend/internal/session"
)

// Config holds the dependencies and settings required to start the application.
type Config struct {
	IsProduction bool
	ProdOrigins  string
	Logger       *slog.Logger

	KV          kvstore.Store
	CatalogPool *pgxpool.Pool // nil disables the catalog module

	JWTSecret string
	JWTTTL    time.Duration

	SessionIdleTTL     time.Duration
	StrictCategories   bool
	CatalogCacheTTL    time.Duration
	CheckoutRatePerMin int
	CheckoutBaseURL    string
}

// Container holds the initialized components that are needed externally.
type Container struct {
	Router      *gin.Engine
	JWTManager  *auth.JWTManager
	Sessions    *session.Manager
	RateLimiter *api.RateLimiter
}

// NewContainer initializes all modules and returns the container.
func NewContainer(cfg Config) *Container {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	// Init Components
	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.JWTTTL)
	bridge := persistence.NewBridge(cfg.KV, logger)
	aggregator := itinerary.NewAggregator(time.Now, logger)

	// Planning Sessions
	sessions := session.NewManager(bridge, cfg.SessionIdleTTL, planning.Options{
		Strict: cfg.StrictCategories,
		Logger: logger,
	})

	// Catalog Module
	var catalogService catalog.Service
	if cfg.CatalogPool != nil {
		catalogRepo := catalog.NewPgxRepository(cfg.CatalogPool)
		catalogService = catalog.NewService(catalogRepo, cfg.CatalogCacheTTL, logger)
	}

	// Checkout Module
	checkoutService := checkout.NewService(bridge, aggregator, checkout.NewMockGateway(cfg.CheckoutBaseURL), logger)
	limiter := api.NewRateLimiter(cfg.CheckoutRatePerMin)

	// Router
	router := api.NewRouter(api.Config{
		IsProduction:    cfg.IsProduction,
		ProdOrigins:     cfg.ProdOrigins,
		Logger:          logger,
		Sessions:        sessions,
		Bridge:          bridge,
		Aggregator:      aggregator,
		CatalogService:  catalogService,
		CheckoutService: checkoutService,
		CheckoutLimiter: limiter,
		JWTManager:      jwtManager,
	})

	return &Container{
		Router:      router,
		JWTManager:  jwtManager,
		Sessions:    sessions,
		RateLimiter: limiter,
	}
}
