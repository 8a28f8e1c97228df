package filestore

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestStore_LoadMissing(t *testing.T) {
	s, err := New(filepath.Join(t.TempDir(), "state.bin"))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	data, err := s.Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if data != nil {
		t.Fatalf("Load on empty store = %v, want nil", data)
	}
}

func TestStore_SaveLoadOverwrite(t *testing.T) {
	ctx := context.Background()
	s, err := New(filepath.Join(t.TempDir(), "state.bin"))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	if err := s.Save(ctx, []byte("first")); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := s.Save(ctx, []byte("second")); err != nil {
		t.Fatalf("Save overwrite: %v", err)
	}

	data, err := s.Load(ctx)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !bytes.Equal(data, []byte("second")) {
		t.Fatalf("Load = %q, want %q", data, "second")
	}
}

func TestStore_NoTempLeftovers(t *testing.T) {
	dir := t.TempDir()
	s, err := New(filepath.Join(dir, "state.bin"))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := s.Save(context.Background(), []byte("x")); err != nil {
		t.Fatalf("Save: %v", err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	if len(entries) != 1 || entries[0].Name() != "state.bin" {
		names := make([]string, 0, len(entries))
		for _, e := range entries {
			names = append(names, e.Name())
		}
		t.Fatalf("dir contents = %v, want only state.bin", names)
	}
}

func TestStore_CreatesParentDirs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "deep", "state.bin")
	s, err := New(path)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := s.Save(context.Background(), []byte("x")); err != nil {
		t.Fatalf("Save: %v", err)
	}
}

func TestNew_EmptyPath(t *testing.T) {
	if _, err := New(""); err == nil {
		t.Fatal("empty path must be rejected")
	}
}
