// Package storagetest holds behavior checks shared by every storage.Provider.
package storagetest

import (
	"bytes"
	"errors"
	"testing"

	"github.com/julianstephens/streaklit/internal/storage"
)

// Run exercises the Provider contract against stores produced by newStore.
// Each subtest gets a fresh, initialized store.
func Run(t *testing.T, newStore func(t *testing.T) storage.Provider) {
	t.Helper()

	t.Run("get missing key", func(t *testing.T) {
		s := newStore(t)
		if _, err := s.Get("nope"); !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("Get() error = %v, want ErrNotFound", err)
		}
	})

	t.Run("set then get", func(t *testing.T) {
		s := newStore(t)
		if err := s.Set("currentLearningGoal", []byte(`{"topic":"Go"}`)); err != nil {
			t.Fatalf("Set() error = %v", err)
		}
		got, err := s.Get("currentLearningGoal")
		if err != nil {
			t.Fatalf("Get() error = %v", err)
		}
		if !bytes.Equal(got, []byte(`{"topic":"Go"}`)) {
			t.Errorf("Get() = %q", got)
		}
	})

	t.Run("set overwrites", func(t *testing.T) {
		s := newStore(t)
		if err := s.Set("streakDays_go_week", []byte("1")); err != nil {
			t.Fatalf("Set() error = %v", err)
		}
		if err := s.Set("streakDays_go_week", []byte("2")); err != nil {
			t.Fatalf("Set() error = %v", err)
		}
		got, err := s.Get("streakDays_go_week")
		if err != nil {
			t.Fatalf("Get() error = %v", err)
		}
		if string(got) != "2" {
			t.Errorf("Get() = %q, want 2", got)
		}
	})

	t.Run("delete", func(t *testing.T) {
		s := newStore(t)
		for _, k := range []string{"a", "b", "c"} {
			if err := s.Set(k, []byte(k)); err != nil {
				t.Fatalf("Set(%s) error = %v", k, err)
			}
		}
		if err := s.Delete("a", "b", "missing"); err != nil {
			t.Fatalf("Delete() error = %v", err)
		}
		if _, err := s.Get("a"); !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("Get(a) after delete error = %v, want ErrNotFound", err)
		}
		if _, err := s.Get("c"); err != nil {
			t.Errorf("Get(c) error = %v, want nil", err)
		}
	})

	t.Run("keys by prefix", func(t *testing.T) {
		s := newStore(t)
		// Underscore and percent must be matched literally, not as wildcards.
		for _, k := range []string{"learnedDates_go_week", "learnedDates_swift_week", "learnedDatesXgo", "freezedDates_go_week", "x%y"} {
			if err := s.Set(k, []byte("[]")); err != nil {
				t.Fatalf("Set(%s) error = %v", k, err)
			}
		}
		keys, err := s.Keys("learnedDates_")
		if err != nil {
			t.Fatalf("Keys() error = %v", err)
		}
		want := []string{"learnedDates_go_week", "learnedDates_swift_week"}
		if len(keys) != len(want) {
			t.Fatalf("Keys() = %v, want %v", keys, want)
		}
		for i := range want {
			if keys[i] != want[i] {
				t.Errorf("Keys()[%d] = %q, want %q", i, keys[i], want[i])
			}
		}

		all, err := s.Keys("")
		if err != nil {
			t.Fatalf("Keys(\"\") error = %v", err)
		}
		if len(all) != 5 {
			t.Errorf("Keys(\"\") returned %d keys, want 5", len(all))
		}

		pct, err := s.Keys("x%")
		if err != nil {
			t.Fatalf("Keys(x%%) error = %v", err)
		}
		if len(pct) != 1 {
			t.Errorf("Keys(x%%) = %v, want [x%%y]", pct)
		}
	})
}
