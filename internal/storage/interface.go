package storage

import "errors"

var (
	// ErrNotFound is returned by Get when the key is absent.
	ErrNotFound = errors.New("key not found")
	// ErrNotInitialized is returned by Load when the backing store does not exist yet.
	ErrNotInitialized = errors.New("storage not initialized")
	// ErrNotLoaded is returned by data operations before Init or Load.
	ErrNotLoaded = errors.New("storage not loaded")
)

// Provider is a string-keyed byte store. It has no knowledge of goals or
// progress; callers own the encoding of every value.
type Provider interface {
	// Lifecycle
	Init() error
	Load() error
	Close() error

	// Get returns the value stored under key, or ErrNotFound.
	Get(key string) ([]byte, error)
	// Set stores value under key, replacing any previous value.
	Set(key string, value []byte) error
	// Delete removes the given keys. Absent keys are ignored.
	Delete(keys ...string) error
	// Keys lists stored keys beginning with prefix in ascending order.
	Keys(prefix string) ([]string, error)

	// Utils
	GetConfigPath() string
}
