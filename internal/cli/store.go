package cli

import (
	"github.com/julianstephens/streaklit/internal/config"
	"github.com/julianstephens/streaklit/internal/storage"
	"github.com/julianstephens/streaklit/internal/storage/postgres"
	"github.com/julianstephens/streaklit/internal/storage/sqlite"
)

// NewStore returns the storage backend for conn. The store is neither
// initialized nor loaded.
func NewStore(conn config.Connection) storage.Provider {
	switch conn.Backend {
	case config.BackendPostgres:
		return postgres.New(conn.Target)
	case config.BackendJSON:
		return storage.NewJSONStore(conn.Target)
	default:
		return sqlite.NewStore(conn.Target)
	}
}

// CopyAll copies every key of src into dst and returns how many were copied.
func CopyAll(src, dst storage.Provider) (int, error) {
	keys, err := src.Keys("")
	if err != nil {
		return 0, err
	}
	for i, k := range keys {
		v, err := src.Get(k)
		if err != nil {
			return i, err
		}
		if err := dst.Set(k, v); err != nil {
			return i, err
		}
	}
	return len(keys), nil
}
