// Package filestore persists the engine snapshot as a single file.
//
// Saves are atomic: the blob is written to a temp file in the same
// directory, synced, then renamed over the target so a crash mid-write
// never leaves a truncated snapshot behind.
package filestore

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// Store is a file-backed snapshot store.
type Store struct {
	path string
}

// New creates a file store at path, creating parent directories as
// needed.
func New(path string) (*Store, error) {
	if path == "" {
		return nil, fmt.Errorf("filestore: path is required")
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return nil, fmt.Errorf("filestore: create dir: %w", err)
		}
	}
	return &Store{path: path}, nil
}

// Path returns the snapshot file path.
func (s *Store) Path() string {
	return s.path
}

// Load returns the stored snapshot, or (nil, nil) when the file does not
// exist.
func (s *Store) Load(_ context.Context) ([]byte, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("filestore: read %s: %w", s.path, err)
	}
	return data, nil
}

// Save atomically replaces the stored snapshot.
func (s *Store) Save(_ context.Context, state []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(s.path), filepath.Base(s.path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("filestore: create temp: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := tmp.Write(state); err != nil {
		tmp.Close()
		return fmt.Errorf("filestore: write: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("filestore: sync: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("filestore: close: %w", err)
	}

	if err := os.Rename(tmpPath, s.path); err != nil {
		return fmt.Errorf("filestore: rename: %w", err)
	}
	return nil
}
