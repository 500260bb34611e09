package storage_test

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/julianstephens/streaklit/internal/storage"
	"github.com/julianstephens/streaklit/internal/storage/storagetest"
)

func TestMemoryStore(t *testing.T) {
	storagetest.Run(t, func(t *testing.T) storage.Provider {
		return storage.NewMemoryStore()
	})
}

func TestJSONStore(t *testing.T) {
	storagetest.Run(t, func(t *testing.T) storage.Provider {
		s := storage.NewJSONStore(filepath.Join(t.TempDir(), "streaklit.json"))
		if err := s.Init(); err != nil {
			t.Fatalf("Init() error = %v", err)
		}
		return s
	})
}

func TestJSONStorePersistsAcrossInstances(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "streaklit.json")

	first := storage.NewJSONStore(path)
	if err := first.Init(); err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	if err := first.Set("freezesUsed_go_week", []byte("2")); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	second := storage.NewJSONStore(path)
	if err := second.Load(); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	got, err := second.Get("freezesUsed_go_week")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if string(got) != "2" {
		t.Errorf("Get() = %q, want 2", got)
	}
}

func TestJSONStoreLoadUninitialized(t *testing.T) {
	s := storage.NewJSONStore(filepath.Join(t.TempDir(), "missing.json"))
	if err := s.Load(); !errors.Is(err, storage.ErrNotInitialized) {
		t.Errorf("Load() error = %v, want ErrNotInitialized", err)
	}
	if _, err := s.Get("k"); !errors.Is(err, storage.ErrNotLoaded) {
		t.Errorf("Get() before load error = %v, want ErrNotLoaded", err)
	}
}
