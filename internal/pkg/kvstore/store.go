package kvstore

import (
	"context"
	"errors"
)

var (
	ErrNotFound      = errors.New("kv entry not found")
	ErrSchemaMissing = errors.New("kv schema has not been created")
	ErrInvalidKey    = errors.New("kv key must not be empty")
)

// Store defines the interface for durable key-value operations.
// Values are opaque bytes; callers store UTF-8 JSON.
type Store interface {
	// Get retrieves the value stored under key.
	// Returns ErrNotFound if the key has never been set or was deleted.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores value under key, replacing any previous value.
	Set(ctx context.Context, key string, value []byte) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
}

func validateKey(key string) error {
	if key == "" {
		return ErrInvalidKey
	}
	return nil
}
