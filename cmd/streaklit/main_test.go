package main

import (
	"errors"
	"testing"

	"github.com/julianstephens/streaklit/internal/storage"
)

type recordingStore struct {
	storage.Provider
	loadErr error
	loaded  bool
	closed  bool
}

func (s *recordingStore) Load() error {
	s.loaded = true
	return s.loadErr
}

func (s *recordingStore) Close() error {
	s.closed = true
	return nil
}

func TestLoadStore(t *testing.T) {
	tests := []struct {
		name       string
		command    string
		loadErr    error
		wantLoaded bool
		wantClosed bool
		wantErr    bool
	}{
		{"loads tracking command", "status", nil, true, false, false},
		{"closes on load failure", "status", storage.ErrNotInitialized, true, true, true},
		{"skips init", "init", nil, false, false, false},
		{"skips keyring subcommand", "keyring set", nil, false, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := &recordingStore{loadErr: tt.loadErr}
			err := loadStore(store, tt.command)
			if (err != nil) != tt.wantErr {
				t.Fatalf("loadStore() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr && !errors.Is(err, tt.loadErr) {
				t.Errorf("loadStore() error = %v, want %v", err, tt.loadErr)
			}
			if store.loaded != tt.wantLoaded {
				t.Errorf("loaded = %v, want %v", store.loaded, tt.wantLoaded)
			}
			if store.closed != tt.wantClosed {
				t.Errorf("closed = %v, want %v", store.closed, tt.wantClosed)
			}
		})
	}
}

func TestNeedsLoad(t *testing.T) {
	tests := map[string]bool{
		"status":         true,
		"backup create":  true,
		"migrate":        false,
		"keyring status": false,
		"keyringx":       true,
	}
	for command, want := range tests {
		if got := needsLoad(command); got != want {
			t.Errorf("needsLoad(%q) = %v, want %v", command, got, want)
		}
	}
}
