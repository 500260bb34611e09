package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
	"testing"

	"github.com/julianstephens/streaklit/internal/goals"
	"github.com/julianstephens/streaklit/internal/lock"
	"github.com/julianstephens/streaklit/internal/storage"
)

func TestFormat(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{
			name:     "nil error",
			err:      nil,
			expected: "",
		},
		{
			name:     "simple error",
			err:      stderrors.New("something went wrong"),
			expected: "Error: something went wrong",
		},
		{
			name:     "known error gets a hint",
			err:      fmt.Errorf("load: %w", storage.ErrNotInitialized),
			expected: "Error: load: storage not initialized\n  hint: run 'streaklit init' first",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Format(tt.err)
			if result != tt.expected {
				t.Errorf("Format(%v) = %q, want %q", tt.err, result, tt.expected)
			}
		})
	}
}

func TestFormatf(t *testing.T) {
	got := Formatf("failed to load %s", "goal")
	if got != "Error: failed to load goal" {
		t.Errorf("Formatf() = %q", got)
	}
}

func TestHint(t *testing.T) {
	if h := Hint(fmt.Errorf("wrap: %w", lock.ErrLocked)); !strings.Contains(h, "another streaklit process") {
		t.Errorf("Hint(ErrLocked) = %q", h)
	}
	if h := Hint(goals.ErrNoCurrentGoal); !strings.Contains(h, "streaklit start") {
		t.Errorf("Hint(ErrNoCurrentGoal) = %q", h)
	}
	if h := Hint(stderrors.New("plain")); h != "" {
		t.Errorf("Hint(plain) = %q, want empty", h)
	}
}
