package sqlite

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/julianstephens/streaklit/internal/storage"
	"github.com/julianstephens/streaklit/internal/storage/storagetest"
)

func setupTestStore(t *testing.T) *Store {
	t.Helper()
	store := NewStore(filepath.Join(t.TempDir(), "test.db"))
	if err := store.Init(); err != nil {
		t.Fatalf("failed to init store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestProviderContract(t *testing.T) {
	storagetest.Run(t, func(t *testing.T) storage.Provider {
		return setupTestStore(t)
	})
}

func TestLoadUninitialized(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "missing.db"))
	if err := store.Load(); !errors.Is(err, storage.ErrNotInitialized) {
		t.Errorf("Load() error = %v, want ErrNotInitialized", err)
	}
	if _, err := store.Get("k"); !errors.Is(err, storage.ErrNotLoaded) {
		t.Errorf("Get() before load error = %v, want ErrNotLoaded", err)
	}
}

func TestReopenKeepsData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")

	first := NewStore(path)
	if err := first.Init(); err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	if err := first.Set("streakDays_go_week", []byte("4")); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if err := first.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	second := NewStore(path)
	if err := second.Load(); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	defer second.Close()

	got, err := second.Get("streakDays_go_week")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if string(got) != "4" {
		t.Errorf("Get() = %q, want 4", got)
	}
}

func TestMigrationsApplied(t *testing.T) {
	store := setupTestStore(t)

	runner, err := store.MigrationRunner()
	if err != nil {
		t.Fatalf("MigrationRunner() error = %v", err)
	}
	pending, err := runner.Pending()
	if err != nil {
		t.Fatalf("Pending() error = %v", err)
	}
	if pending != 0 {
		t.Errorf("expected no pending migrations after Init, got %d", pending)
	}

	// Init is idempotent on an existing database
	if err := store.Init(); err != nil {
		t.Errorf("second Init() error = %v", err)
	}
}

func TestEscapeLike(t *testing.T) {
	if got := escapeLike(`a_b%c\d`); got != `a\_b\%c\\d` {
		t.Errorf("escapeLike() = %q", got)
	}
}
