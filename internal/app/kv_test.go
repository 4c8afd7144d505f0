package app

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nekogravitycat/trip-planner-backend/internal/config"
	"github.com/nekogravitycat/trip-planner-backend/internal/pkg/kvstore"
)

func TestOpenKV(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	tests := []struct {
		name string
		cfg  config.Config
	}{
		{"Memory", config.Config{KVBackend: config.KVMemory}},
		{"File", config.Config{KVBackend: config.KVFile, FileKVDir: filepath.Join(dir, "kv")}},
		{"SQLite", config.Config{KVBackend: config.KVSQLite, SQLitePath: filepath.Join(dir, "plan.db")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, closeFn, err := OpenKV(ctx, &tt.cfg, nil)
			require.NoError(t, err)
			defer closeFn()

			require.NoError(t, s.Set(ctx, "trip-planner:s:trip", []byte(`{}`)))
			got, err := s.Get(ctx, "trip-planner:s:trip")
			require.NoError(t, err)
			assert.Equal(t, `{}`, string(got))

			_, err = s.Get(ctx, "trip-planner:s:missing")
			assert.ErrorIs(t, err, kvstore.ErrNotFound)
		})
	}
}

func TestOpenKV_Errors(t *testing.T) {
	ctx := context.Background()

	_, _, err := OpenKV(ctx, &config.Config{KVBackend: config.KVPostgres}, nil)
	assert.Error(t, err)

	_, _, err = OpenKV(ctx, &config.Config{KVBackend: "cassandra"}, nil)
	assert.Error(t, err)
}
