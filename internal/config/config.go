package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const PROD_STRING = "prod"

// KV backends selectable through KV_BACKEND.
const (
	KVMemory   = "memory"
	KVSQLite   = "sqlite"
	KVPostgres = "postgres"
	KVRedis    = "redis"
	KVFile     = "file"
)

// Config holds all application configuration loaded from environment.
type Config struct {
	IsProduction      bool
	ProdOrigins       string
	HTTPAddr          string
	JWTSecret         string
	JWTAccessTokenTTL time.Duration

	KVBackend  string
	DBDSN      string
	DBMaxConns int
	SQLitePath string
	FileKVDir  string

	RedisAddr     string
	RedisPassword string
	RedisDB       int
	RedisTTL      time.Duration

	SessionIdleTTL   time.Duration
	StrictCategories bool

	CatalogCacheTTL time.Duration

	CheckoutRatePerMin int
	CheckoutBaseURL    string
}

// Load loads configuration from .env (optional) and environment variables.
func Load() (*Config, error) {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		slog.Debug("no .env file loaded", slog.Any("error", err))
	}

	cfg := &Config{}
	var err error

	// Production origin (default: empty)
	cfg.ProdOrigins = getEnv("PROD_ORIGINS", "")

	// Application environment (default: dev)
	appEnvStr := getEnv("APP_ENV", "dev")
	cfg.IsProduction = appEnvStr == PROD_STRING

	// HTTP listen address (default: :8080)
	cfg.HTTPAddr = getEnv("HTTP_ADDR", ":8080")

	// JWT secret is required for signing session tokens
	cfg.JWTSecret = os.Getenv("JWT_SECRET")
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}

	// Session tokens outlive a typical planning session by default.
	if cfg.JWTAccessTokenTTL, err = getEnvAsDuration("JWT_ACCESS_TOKEN_TTL", 72*time.Hour); err != nil {
		return nil, err
	}

	cfg.KVBackend = getEnv("KV_BACKEND", KVSQLite)
	cfg.DBDSN = os.Getenv("DB_DSN")
	if cfg.DBMaxConns, err = getEnvAsInt("DB_MAX_CONNS", 0); err != nil {
		return nil, err
	}
	cfg.SQLitePath = getEnv("SQLITE_PATH", "trip-planner.db")
	cfg.FileKVDir = getEnv("FILE_KV_DIR", "./data/kv")

	switch cfg.KVBackend {
	case KVMemory, KVSQLite, KVFile:
	case KVPostgres:
		if cfg.DBDSN == "" {
			return nil, fmt.Errorf("DB_DSN is required when KV_BACKEND=%s", KVPostgres)
		}
	case KVRedis:
		cfg.RedisAddr = os.Getenv("REDIS_ADDR")
		if cfg.RedisAddr == "" {
			return nil, fmt.Errorf("REDIS_ADDR is required when KV_BACKEND=%s", KVRedis)
		}
	default:
		return nil, fmt.Errorf("invalid KV_BACKEND %q", cfg.KVBackend)
	}

	cfg.RedisPassword = os.Getenv("REDIS_PASSWORD")
	if cfg.RedisDB, err = getEnvAsInt("REDIS_DB", 0); err != nil {
		return nil, err
	}
	// Zero keeps persisted planning state forever.
	if cfg.RedisTTL, err = getEnvAsDuration("REDIS_TTL", 0); err != nil {
		return nil, err
	}

	if cfg.SessionIdleTTL, err = getEnvAsDuration("SESSION_IDLE_TTL", 30*time.Minute); err != nil {
		return nil, err
	}
	// Strict categories panic on contract violations; defaults to on outside production.
	if cfg.StrictCategories, err = getEnvAsBool("STRICT_CATEGORIES", !cfg.IsProduction); err != nil {
		return nil, err
	}

	if cfg.CatalogCacheTTL, err = getEnvAsDuration("CATALOG_CACHE_TTL", time.Minute); err != nil {
		return nil, err
	}

	if cfg.CheckoutRatePerMin, err = getEnvAsInt("CHECKOUT_RATE_PER_MIN", 6); err != nil {
		return nil, err
	}
	cfg.CheckoutBaseURL = getEnv("CHECKOUT_BASE_URL", "https://checkout.example.com/session")

	return cfg, nil
}

// getEnv returns the value of the environment variable if set,
// otherwise returns the provided default value.
func getEnv(key, defaultValue string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return defaultValue
}

// getEnvAsInt retrieves an environment variable as an integer.
// It returns the default value if the variable is not set.
// It returns an error if the variable is set but is not a valid integer.
func getEnvAsInt(key string, defaultValue int) (int, error) {
	valStr := getEnv(key, "")
	if valStr == "" {
		return defaultValue, nil
	}

	val, err := strconv.Atoi(valStr)
	if err != nil {
		// Return 0 and a wrapped error to provide context
		return 0, fmt.Errorf("env %s value %q is not a valid integer: %w", key, valStr, err)
	}

	return val, nil
}

// getEnvAsDuration parses a time.Duration such as "15m" or "1h".
func getEnvAsDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	valStr := getEnv(key, "")
	if valStr == "" {
		return defaultValue, nil
	}

	val, err := time.ParseDuration(valStr)
	if err != nil {
		return 0, fmt.Errorf("env %s value %q is not a valid duration: %w", key, valStr, err)
	}
	return val, nil
}

func getEnvAsBool(key string, defaultValue bool) (bool, error) {
	valStr := getEnv(key, "")
	if valStr == "" {
		return defaultValue, nil
	}

	val, err := strconv.ParseBool(valStr)
	if err != nil {
		return false, fmt.Errorf("env %s value %q is not a valid boolean: %w", key, valStr, err)
	}
	return val, nil
}
