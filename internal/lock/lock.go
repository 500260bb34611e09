package lock

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/mitchellh/go-ps"

	"github.com/julianstephens/streaklit/internal/constants"
	"github.com/julianstephens/streaklit/internal/logger"
)

// ErrLocked is returned when another live streaklit process holds the lock.
var ErrLocked = errors.New("progress is locked by another process")

var (
	findProcessFunc = ps.FindProcess
	getpidFunc      = os.Getpid
)

// Lock is a single-writer lockfile in the config directory. The file holds
// "<pid>|<executable>" of the owning process.
type Lock struct {
	path string
	pid  int
}

// Path returns the lockfile location for configDir.
func Path(configDir string) string {
	return filepath.Join(configDir, constants.LockfileName)
}

// Acquire takes the lock in configDir. A lockfile left behind by a process
// that is no longer running, or whose PID now belongs to another program, is
// taken over.
func Acquire(configDir string) (*Lock, error) {
	if err := os.MkdirAll(configDir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create config directory: %w", err)
	}

	path := Path(configDir)
	pid := getpidFunc()
	content := fmt.Sprintf("%d|%s", pid, constants.AppName)

	for attempt := 0; attempt < 3; attempt++ {
		err := create(path, content)
		if err == nil {
			logger.Debug("Acquired lock", "path", path, "pid", pid)
			return &Lock{path: path, pid: pid}, nil
		}
		if !os.IsExist(err) {
			return nil, fmt.Errorf("failed to create lockfile: %w", err)
		}

		seen, owner, alive := readOwner(path)
		if alive {
			return nil, fmt.Errorf("%w (pid %d)", ErrLocked, owner)
		}

		logger.Warn("Removing stale lockfile", "path", path, "pid", owner)
		if err := takeOver(path, seen, pid); err != nil {
			return nil, err
		}
	}

	return nil, ErrLocked
}

// create publishes a fully written lockfile at path. The file appears with
// its content already in place, so readers never observe an empty lock.
func create(path, content string) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".lock-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	_, werr := tmp.WriteString(content)
	cerr := tmp.Close()
	if werr != nil || cerr != nil {
		return fmt.Errorf("failed to write lockfile: %w", errors.Join(werr, cerr))
	}
	return os.Link(tmp.Name(), path)
}

// takeOver moves the stale lockfile out of the way. If the file moved is not
// the one judged stale, another process took the lock in between and its file
// is put back.
func takeOver(path string, seen []byte, pid int) error {
	aside := fmt.Sprintf("%s.%d.stale", path, pid)
	if err := os.Rename(path, aside); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to remove stale lockfile: %w", err)
	}
	defer os.Remove(aside)

	data, err := os.ReadFile(aside)
	if err != nil {
		return fmt.Errorf("failed to read stale lockfile: %w", err)
	}
	if bytes.Equal(data, seen) {
		return nil
	}

	if err := os.Link(aside, path); err != nil && !os.IsExist(err) {
		return fmt.Errorf("failed to restore lockfile: %w", err)
	}
	return nil
}

// readOwner parses the lockfile and reports whether its owner is a running
// streaklit process. Malformed files count as stale.
func readOwner(path string) ([]byte, int, bool) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, 0, false
	}

	parts := strings.SplitN(strings.TrimSpace(string(data)), "|", 2)
	if len(parts) != 2 {
		return data, 0, false
	}
	pid, err := strconv.Atoi(parts[0])
	if err != nil || pid <= 0 {
		return data, 0, false
	}

	process, err := findProcessFunc(pid)
	if err != nil || process == nil {
		return data, pid, false
	}
	if !strings.HasPrefix(process.Executable(), parts[1]) {
		return data, pid, false
	}
	return data, pid, true
}

// Release removes the lockfile if this lock still owns it.
func (l *Lock) Release() error {
	if l == nil {
		return nil
	}
	data, err := os.ReadFile(l.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	if !strings.HasPrefix(strings.TrimSpace(string(data)), strconv.Itoa(l.pid)+"|") {
		return nil
	}
	if err := os.Remove(l.path); err != nil && !os.IsNotExist(err) {
		return err
	}
	logger.Debug("Released lock", "path", l.path)
	return nil
}
