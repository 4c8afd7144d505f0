package kvstore

import (
	"context"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
)

// FileStore implements the Store interface on the local file system, one file per key.
type FileStore struct {
	basePath string
}

// NewFileStore creates a new FileStore instance.
func NewFileStore(basePath string) (*FileStore, error) {
	// Ensure base path exists
	if err := os.MkdirAll(basePath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create kv directory: %w", err)
	}
	return &FileStore{basePath: basePath}, nil
}

// Keys contain separators such as ':' so they are hex-encoded into file names.
func (s *FileStore) path(key string) string {
	name := hex.EncodeToString([]byte(key))
	return filepath.Join(s.basePath, name[:min(2, len(name))], name+".json")
}

// Get reads the value for key from disk.
func (s *FileStore) Get(ctx context.Context, key string) ([]byte, error) {
	if err := validateKey(key); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(s.path(key))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to read kv file: %w", err)
	}
	return data, nil
}

// Set writes the value atomically by renaming a temp file over the target.
func (s *FileStore) Set(ctx context.Context, key string, value []byte) error {
	if err := validateKey(key); err != nil {
		return err
	}
	fullPath := s.path(key)
	dir := filepath.Dir(fullPath)

	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".kv-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(value); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write kv content: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), fullPath); err != nil {
		return fmt.Errorf("failed to replace kv file: %w", err)
	}
	return nil
}

// Delete removes the file for key.
func (s *FileStore) Delete(ctx context.Context, key string) error {
	if err := validateKey(key); err != nil {
		return err
	}
	if err := os.Remove(s.path(key)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete kv file: %w", err)
	}
	return nil
}
