package cli

import (
	"fmt"
	"time"

	"github.com/julianstephens/streaklit/internal/backup"
	"github.com/julianstephens/streaklit/internal/calendar"
	"github.com/julianstephens/streaklit/internal/config"
	"github.com/julianstephens/streaklit/internal/constants"
	"github.com/julianstephens/streaklit/internal/goals"
	"github.com/julianstephens/streaklit/internal/lock"
	"github.com/julianstephens/streaklit/internal/logger"
	"github.com/julianstephens/streaklit/internal/migration"
	"github.com/julianstephens/streaklit/internal/progress"
	"github.com/julianstephens/streaklit/internal/storage"
	"github.com/julianstephens/streaklit/internal/streak"
	"github.com/julianstephens/streaklit/internal/utils"
)

// Migratable is implemented by stores with a versioned schema.
type Migratable interface {
	MigrationRunner() (*migration.Runner, error)
}

// Context is shared by every command. It is built once in main and wires the
// repositories and the engine over one store.
type Context struct {
	Conn     config.Connection
	Store    storage.Provider
	Clock    utils.Clock
	Location *time.Location
	Tick     time.Duration

	goals    *goals.Repository
	progress *progress.Store
	engine   *streak.Engine
}

func (c *Context) clock() utils.Clock {
	if c.Clock == nil {
		c.Clock = utils.SystemClock
	}
	return c.Clock
}

// Now is the current instant in the calendar location.
func (c *Context) Now() time.Time {
	return c.clock().Now().In(c.Progress().Location())
}

func (c *Context) Goals() *goals.Repository {
	if c.goals == nil {
		c.goals = goals.NewRepository(c.Store, c.clock())
	}
	return c.goals
}

func (c *Context) Progress() *progress.Store {
	if c.progress == nil {
		loc := c.Location
		if loc == nil {
			loc = time.Local
		}
		c.progress = progress.NewStore(c.Store, loc)
	}
	return c.progress
}

func (c *Context) Engine() *streak.Engine {
	if c.engine == nil {
		c.engine = streak.NewEngine(c.Goals(), c.Progress(), c.clock())
	}
	return c.engine
}

func (c *Context) Calendar() *calendar.Aggregator {
	return calendar.NewAggregator(c.Goals(), c.Progress(), c.clock())
}

// TickInterval is the expiration sweep interval, defaulting to one minute.
func (c *Context) TickInterval() time.Duration {
	if c.Tick <= 0 {
		return constants.DefaultTickInterval
	}
	return c.Tick
}

// Appear loads the engine and runs the missed-day sweep. A failed write is
// logged and reported but the loaded view is still usable.
func (c *Context) Appear() (*streak.Engine, streak.View) {
	e := c.Engine()
	v, err := e.OnAppear()
	if err != nil {
		logger.Warn("Failed to persist expiration sweep", "error", err)
	}
	return e, v
}

// AcquireLock takes the single-writer lock for mutating commands.
func (c *Context) AcquireLock() (*lock.Lock, error) {
	return lock.Acquire(c.Conn.ConfigDir)
}

// PerformAutomaticBackup backs up a SQLite store and only logs failures.
func (c *Context) PerformAutomaticBackup() {
	if c.Conn.Backend != config.BackendSQLite {
		return
	}
	if _, err := backup.NewManager(c.Store.GetConfigPath()).Create(); err != nil {
		logger.Warn("Automatic backup failed", "error", err)
	}
}

// Backups returns the backup manager, or an error for stores that are not
// SQLite files.
func (c *Context) Backups() (*backup.Manager, error) {
	if c.Conn.Backend != config.BackendSQLite {
		return nil, fmt.Errorf("backups are only supported for SQLite storage (current: %s)", c.Conn.Backend)
	}
	return backup.NewManager(c.Store.GetConfigPath()), nil
}
