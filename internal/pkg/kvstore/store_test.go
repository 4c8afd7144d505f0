package kvstore

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nekogravitycat/trip-planner-backend/internal/db"
)

// runStoreContract exercises the behaviour every backend must share.
func runStoreContract(t *testing.T, s Store) {
	t.Helper()
	ctx := context.Background()
	key := "trip-planner:test-session:places"

	t.Run("Missing key", func(t *testing.T) {
		_, err := s.Get(ctx, key+":missing")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("Set then Get", func(t *testing.T) {
		require.NoError(t, s.Set(ctx, key, []byte(`{"1":[]}`)))
		got, err := s.Get(ctx, key)
		require.NoError(t, err)
		assert.Equal(t, `{"1":[]}`, string(got))
	})

	t.Run("Overwrite", func(t *testing.T) {
		require.NoError(t, s.Set(ctx, key, []byte(`{"2":[]}`)))
		got, err := s.Get(ctx, key)
		require.NoError(t, err)
		assert.Equal(t, `{"2":[]}`, string(got))
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, s.Delete(ctx, key))
		_, err := s.Get(ctx, key)
		assert.ErrorIs(t, err, ErrNotFound)

		// Deleting again is a no-op.
		assert.NoError(t, s.Delete(ctx, key))
	})

	t.Run("Empty key rejected", func(t *testing.T) {
		_, err := s.Get(ctx, "")
		assert.ErrorIs(t, err, ErrInvalidKey)
		assert.ErrorIs(t, s.Set(ctx, "", []byte("x")), ErrInvalidKey)
		assert.ErrorIs(t, s.Delete(ctx, ""), ErrInvalidKey)
	})
}

func TestMemoryStore(t *testing.T) {
	s := NewMemoryStore()
	runStoreContract(t, s)

	// Returned values are copies.
	ctx := context.Background()
	require.NoError(t, s.Set(ctx, "k", []byte("abc")))
	v, _ := s.Get(ctx, "k")
	v[0] = 'z'
	again, _ := s.Get(ctx, "k")
	assert.Equal(t, "abc", string(again))
}

func TestFileStore(t *testing.T) {
	s, err := NewFileStore(t.TempDir())
	require.NoError(t, err)
	runStoreContract(t, s)
}

func TestSQLiteStore(t *testing.T) {
	database, err := db.OpenSQLite(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })

	s, err := NewSQLiteStore(context.Background(), database)
	require.NoError(t, err)
	runStoreContract(t, s)
}

func TestSQLiteStore_ReopenKeepsData(t *testing.T) {
	path := t.TempDir() + "/planner.db"
	ctx := context.Background()

	first, err := db.OpenSQLite(path)
	require.NoError(t, err)
	s, err := NewSQLiteStore(ctx, first)
	require.NoError(t, err)
	require.NoError(t, s.Set(ctx, "k", []byte(`{"a":1}`)))
	require.NoError(t, first.Close())

	second, err := db.OpenSQLite(path)
	require.NoError(t, err)
	t.Cleanup(func() { second.Close() })
	s, err = NewSQLiteStore(ctx, second)
	require.NoError(t, err)

	got, err := s.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, `{"a":1}`, string(got))
}

func TestPostgresStore(t *testing.T) {
	dsn := os.Getenv("TEST_DB_DSN")
	if dsn == "" {
		t.Skip("TEST_DB_DSN is not set")
	}
	ctx := context.Background()
	pool, err := db.NewPool(ctx, dsn, 2)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	s := NewPostgresStore(pool)
	require.NoError(t, s.EnsureSchema(ctx))
	runStoreContract(t, s)
}

func TestRedisStore(t *testing.T) {
	addr := os.Getenv("TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("TEST_REDIS_ADDR is not set")
	}
	client := redis.NewClient(&redis.Options{Addr: addr})
	t.Cleanup(func() { client.Close() })

	runStoreContract(t, NewRedisStore(client, time.Minute))
}
