// Package config resolves where progress is stored and how the app runs.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"

	"github.com/julianstephens/streaklit/internal/constants"
	"github.com/julianstephens/streaklit/internal/keyring"
	"github.com/julianstephens/streaklit/internal/storage/postgres"
)

// KeyringSource is the --config value that reads the connection string from
// the OS keyring.
const KeyringSource = "keyring"

var validate = validator.New()

// Config is the resolved runtime configuration.
type Config struct {
	Config string        `validate:"required"`
	Debug  bool
	Tick   time.Duration `validate:"min=1s,max=24h"`
}

func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

// LoadDotEnv loads .env from the working directory and from the default
// config directory. Variables already present in the environment win.
// Missing files are not an error.
func LoadDotEnv() error {
	paths := []string{".env"}
	if dir, err := ExpandPath(filepath.Dir(constants.DefaultConfigPath)); err == nil {
		paths = append(paths, filepath.Join(dir, ".env"))
	}

	var errs []error
	for _, p := range paths {
		if _, err := os.Stat(p); err != nil {
			continue
		}
		if err := godotenv.Load(p); err != nil {
			errs = append(errs, fmt.Errorf("failed to load %s: %w", p, err))
		}
	}
	return errors.Join(errs...)
}

// ExpandPath replaces a leading "~" with the user's home directory.
func ExpandPath(p string) (string, error) {
	if p != "~" && !strings.HasPrefix(p, "~/") {
		return p, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve home directory: %w", err)
	}
	return filepath.Join(home, strings.TrimPrefix(p, "~")), nil
}

// Backend names a storage implementation.
type Backend string

const (
	BackendSQLite   Backend = "sqlite"
	BackendJSON     Backend = "json"
	BackendPostgres Backend = "postgres"
)

// Connection is a resolved --config value.
type Connection struct {
	Backend Backend
	// Target is a file path for SQLite and JSON, a connection string for
	// PostgreSQL.
	Target string
	// ConfigDir holds logs, backups, the lockfile and .env.
	ConfigDir string
}

// ResolveConnection interprets raw as the keyword "keyring", a PostgreSQL
// connection string, or a file path. Paths ending in .json use the JSON
// backend. Connection strings given directly must not embed a password;
// ones read from the keyring may.
func ResolveConnection(raw string) (Connection, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		raw = constants.DefaultConfigPath
	}

	defaultDir, err := ExpandPath(filepath.Dir(constants.DefaultConfigPath))
	if err != nil {
		return Connection{}, err
	}

	if raw == KeyringSource {
		connStr, err := keyring.ConnectionString()
		if err != nil {
			return Connection{}, err
		}
		if _, err := postgres.ValidateConnString(connStr); err != nil && !errors.Is(err, postgres.ErrEmbeddedCredentials) {
			return Connection{}, err
		}
		return Connection{Backend: BackendPostgres, Target: connStr, ConfigDir: defaultDir}, nil
	}

	if postgres.IsConnString(raw) || strings.Contains(raw, "host=") {
		if _, err := postgres.ValidateConnString(raw); err != nil {
			return Connection{}, err
		}
		return Connection{Backend: BackendPostgres, Target: raw, ConfigDir: defaultDir}, nil
	}

	path, err := ExpandPath(raw)
	if err != nil {
		return Connection{}, err
	}
	backend := BackendSQLite
	if strings.EqualFold(filepath.Ext(path), ".json") {
		backend = BackendJSON
	}
	return Connection{Backend: backend, Target: path, ConfigDir: filepath.Dir(path)}, nil
}
