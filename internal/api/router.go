package api

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/nekogravitycat/trip-planner-backend/internal/auth"
	"github.com/nekogravitycat/trip-planner-backend/internal/catalog"
	catalogHttp "github.com/nekogravitycat/trip-planner-backend/internal/catalog/http"
	"github.com/nekogravitycat/trip-planner-backend/internal/checkout"
	checkoutHttp "github.com/nekogravitycat/trip-planner-backend/internal/checkout/http"
	"github.com/nekogravitycat/trip-planner-backend/internal/itinerary"
	itineraryHttp "github.com/nekogravitycat/trip-planner-backend/internal/itinerary/http"
	"github.com/nekogravitycat/trip-planner-backend/internal/logger"
	"github.com/nekogravitycat/trip-planner-backend/internal/persistence"
	planHttp "github.com/nekogravitycat/trip-planner-backend/internal/planning/http"
	"github.com/nekogravitycat/trip-planner-backend/internal/session"
)

// Config holds everything the router needs.
type Config struct {
	IsProduction bool
	ProdOrigins  string
	Logger       *slog.Logger

	Sessions        *session.Manager
	Bridge          *persistence.Bridge
	Aggregator      *itinerary.Aggregator
	CatalogService  catalog.Service // nil disables /v1/catalog
	CheckoutService checkout.Service
	CheckoutLimiter *RateLimiter
	JWTManager      *auth.JWTManager
}

// NewRouter initializes the HTTP router engine.
// It is responsible for assembling middleware (CORS, Logger, Auth) and registering routes for various modules.
func NewRouter(cfg Config) *gin.Engine {
	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}
	log := cfg.Logger
	if log == nil {
		log = slog.Default()
	}

	r := gin.New()

	// Global Middleware:
	// - Logger: Structured request log.
	// - Recovery: Captures panics to prevent server crashes and returns a 500 error.
	r.Use(logger.GinMiddleware(log), gin.Recovery())

	// Configure CORS (Cross-Origin Resource Sharing).
	config := cors.DefaultConfig()
	if cfg.IsProduction && cfg.ProdOrigins != "" {
		config.AllowOrigins = splitOrigins(cfg.ProdOrigins)
	} else {
		config.AllowOrigins = []string{
			"http://localhost:3000", // Frontend dev server
			"http://localhost:8081", // Swagger
		}
	}
	config.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	config.AllowHeaders = []string{"Origin", "Content-Type", "Authorization"}
	config.ExposeHeaders = []string{"Idempotency-Key"}
	r.Use(cors.New(config))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "live_sessions": cfg.Sessions.Live()})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// authMiddleware: Validates if the request carries a valid session JWT.
	authMiddleware := auth.AuthRequired(cfg.JWTManager)

	limiter := cfg.CheckoutLimiter
	if limiter == nil {
		limiter = NewRateLimiter(6)
	}

	// Initialize HTTP Handlers for each module (injecting Service dependencies).
	sessionHandler := NewSessionHandler(cfg.Sessions, cfg.JWTManager)
	var items planHttp.ItemLookup
	if cfg.CatalogService != nil {
		items = cfg.CatalogService
	}
	planHandler := planHttp.NewHandler(cfg.Sessions, items)
	itineraryHandler := itineraryHttp.NewHandler(cfg.Sessions, cfg.Bridge, cfg.Aggregator)
	checkoutHandler := checkoutHttp.NewHandler(cfg.CheckoutService)

	// Register API routes under /v1
	v1 := r.Group("/v1")
	{
		v1.POST("/sessions", sessionHandler.Start)

		planHttp.RegisterRoutes(v1, planHandler, authMiddleware)
		itineraryHttp.RegisterRoutes(v1, itineraryHandler, authMiddleware)
		checkoutHttp.RegisterRoutes(v1, checkoutHandler, authMiddleware, limiter.Limit())
		if cfg.CatalogService != nil {
			catalogHttp.RegisterRoutes(v1, catalogHttp.NewHandler(cfg.CatalogService), authMiddleware)
		}
	}

	return r
}

func splitOrigins(s string) []string {
	var out []string
	for _, o := range strings.Split(s, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}
