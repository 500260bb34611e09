package system

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/julianstephens/streaklit/internal/cli"
	"github.com/julianstephens/streaklit/internal/config"
	"github.com/julianstephens/streaklit/internal/constants"
	"github.com/julianstephens/streaklit/internal/keyring"
	"github.com/julianstephens/streaklit/internal/lock"
	"github.com/julianstephens/streaklit/internal/models"
	"github.com/julianstephens/streaklit/internal/progress"
	"github.com/julianstephens/streaklit/internal/storage"
)

// errWarning marks a check result that should not fail the run.
type errWarning struct{ error }

type check struct {
	name     string
	needsDB  bool
	run      func(ctx *cli.Context) error
	skipWhen func(ctx *cli.Context) bool
}

type DoctorCmd struct{}

func (cmd *DoctorCmd) Run(ctx *cli.Context) error {
	fmt.Println("Running diagnostics...")
	fmt.Println()

	checks := []check{
		{name: "Database reachable", run: checkDBReachable},
		{name: "Schema version", needsDB: true, run: checkSchemaVersion},
		{name: "Current goal", needsDB: true, run: checkCurrentGoal},
		{name: "Goal archive", needsDB: true, run: checkArchive},
		{name: "Progress integrity", needsDB: true, run: checkProgress},
		{name: "Backups present", run: checkBackupsPresent, skipWhen: notSQLite},
		{name: "Writer lock", run: checkLock},
		{name: "OS keyring", run: checkKeyring, skipWhen: notPostgres},
	}

	failed := false
	dbReachable := false
	for i, c := range checks {
		if c.skipWhen != nil && c.skipWhen(ctx) {
			continue
		}
		if c.needsDB && !dbReachable {
			fmt.Printf("⊘ %s: SKIPPED (database not reachable)\n", c.name)
			continue
		}

		err := c.run(ctx)
		var warn errWarning
		switch {
		case err == nil:
			fmt.Printf("✓ %s: OK\n", c.name)
			if i == 0 {
				dbReachable = true
			}
		case errors.As(err, &warn):
			fmt.Printf("⚠ %s: WARNING\n", c.name)
			fmt.Printf("   %v\n", warn.error)
		default:
			fmt.Printf("❌ %s: FAIL\n", c.name)
			fmt.Printf("   Error: %v\n", err)
			failed = true
		}
	}

	fmt.Println()
	if failed {
		fmt.Println("Diagnostics completed with errors.")
		return fmt.Errorf("one or more health checks failed")
	}
	fmt.Println("All diagnostics passed!")
	return nil
}

func notSQLite(ctx *cli.Context) bool   { return ctx.Conn.Backend != config.BackendSQLite }
func notPostgres(ctx *cli.Context) bool { return ctx.Conn.Backend != config.BackendPostgres }

func checkDBReachable(ctx *cli.Context) error {
	if err := ctx.Store.Load(); err != nil {
		return fmt.Errorf("failed to load database: %w", err)
	}
	if _, err := ctx.Store.Keys(constants.KeyCurrentGoal); err != nil {
		return fmt.Errorf("failed to query database: %w", err)
	}
	return nil
}

func checkSchemaVersion(ctx *cli.Context) error {
	m, ok := ctx.Store.(cli.Migratable)
	if !ok {
		return nil
	}
	runner, err := m.MigrationRunner()
	if err != nil {
		return err
	}
	if err := runner.ValidateVersion(); err != nil {
		return err
	}
	pending, err := runner.Pending()
	if err != nil {
		return err
	}
	if pending > 0 {
		return fmt.Errorf("%d migration(s) pending; run 'streaklit migrate'", pending)
	}
	return nil
}

func checkCurrentGoal(ctx *cli.Context) error {
	data, err := ctx.Store.Get(constants.KeyCurrentGoal)
	if errors.Is(err, storage.ErrNotFound) {
		return errWarning{errors.New("no active goal")}
	}
	if err != nil {
		return err
	}
	var g models.Goal
	if err := json.Unmarshal(data, &g); err != nil {
		return fmt.Errorf("current goal is not decodable and will be ignored: %w", err)
	}
	if !g.Duration.Valid() {
		return errWarning{fmt.Errorf("unknown duration %q is treated as Week", g.Duration)}
	}
	return nil
}

func checkArchive(ctx *cli.Context) error {
	data, err := ctx.Store.Get(constants.KeyFinishedGoals)
	if errors.Is(err, storage.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	var finished []models.Goal
	if err := json.Unmarshal(data, &finished); err != nil {
		return fmt.Errorf("goal archive is not decodable and will read as empty: %w", err)
	}
	return nil
}

func checkProgress(ctx *cli.Context) error {
	goal, ok := ctx.Goals().PeekCurrentGoal()
	if !ok {
		return nil
	}
	snap := ctx.Progress().LoadSnapshot(progress.KeysForGoal(goal))

	if both := snap.LearnedDates.Intersect(snap.FreezedDates); len(both) > 0 {
		return fmt.Errorf("%d day(s) are both learned and freezed", len(both))
	}
	if snap.FreezesUsed > goal.MaxFreezes() {
		return fmt.Errorf("freezesUsed %d exceeds the quota of %d", snap.FreezesUsed, goal.MaxFreezes())
	}
	if snap.FreezesUsed != snap.FreezedDates.Len() {
		return errWarning{fmt.Errorf("freezesUsed %d differs from %d freezed day(s)", snap.FreezesUsed, snap.FreezedDates.Len())}
	}
	return nil
}

func checkBackupsPresent(ctx *cli.Context) error {
	mgr, err := ctx.Backups()
	if err != nil {
		return err
	}
	backups, err := mgr.List()
	if err != nil {
		return err
	}
	if len(backups) == 0 {
		return errWarning{fmt.Errorf("no backups in %s; run 'streaklit backup create'", mgr.Dir())}
	}
	return nil
}

func checkLock(ctx *cli.Context) error {
	if _, err := os.Stat(lock.Path(ctx.Conn.ConfigDir)); os.IsNotExist(err) {
		return nil
	}
	l, err := ctx.AcquireLock()
	if err != nil {
		if errors.Is(err, lock.ErrLocked) {
			return errWarning{err}
		}
		return err
	}
	return l.Release()
}

func checkKeyring(ctx *cli.Context) error {
	if !keyring.Available() {
		return errWarning{keyring.ErrKeyringUnavailable}
	}
	return nil
}
