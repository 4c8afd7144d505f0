package app

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/nekogravitycat/trip-planner-backend/internal/config"
	"github.com/nekogravitycat/trip-planner-backend/internal/db"
	"github.com/nekogravitycat/trip-planner-backend/internal/pkg/kvstore"
)

// OpenKV builds the key-value store selected by cfg.KVBackend.
// pool is reused for the postgres backend and may be nil otherwise.
// The returned close func releases resources owned by the store.
func OpenKV(ctx context.Context, cfg *config.Config, pool *pgxpool.Pool) (kvstore.Store, func(), error) {
	noop := func() {}

	switch cfg.KVBackend {
	case config.KVMemory:
		return kvstore.NewMemoryStore(), noop, nil

	case config.KVFile:
		s, err := kvstore.NewFileStore(cfg.FileKVDir)
		if err != nil {
			return nil, nil, err
		}
		return s, noop, nil

	case config.KVSQLite:
		sqlDB, err := db.OpenSQLite(cfg.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		s, err := kvstore.NewSQLiteStore(ctx, sqlDB)
		if err != nil {
			sqlDB.Close()
			return nil, nil, err
		}
		return s, func() { sqlDB.Close() }, nil

	case config.KVPostgres:
		if pool == nil {
			return nil, nil, fmt.Errorf("postgres kv backend requires a database pool")
		}
		s := kvstore.NewPostgresStore(pool)
		if err := s.EnsureSchema(ctx); err != nil {
			return nil, nil, err
		}
		return s, noop, nil

	case config.KVRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			client.Close()
			return nil, nil, fmt.Errorf("failed to ping redis: %w", err)
		}
		return kvstore.NewRedisStore(client, cfg.RedisTTL), func() { client.Close() }, nil
	}

	return nil, nil, fmt.Errorf("invalid KV_BACKEND %q", cfg.KVBackend)
}
