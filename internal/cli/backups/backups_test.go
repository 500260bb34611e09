package backups

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/julianstephens/streaklit/internal/cli"
	"github.com/julianstephens/streaklit/internal/config"
	"github.com/julianstephens/streaklit/internal/models"
	"github.com/julianstephens/streaklit/internal/storage"
	"github.com/julianstephens/streaklit/internal/storage/sqlite"
	"github.com/julianstephens/streaklit/internal/utils"
)

func setupTestContext(t *testing.T) *cli.Context {
	t.Helper()
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "streaklit.db")

	store := sqlite.NewStore(dbPath)
	if err := store.Init(); err != nil {
		t.Fatalf("failed to init store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	return &cli.Context{
		Conn:     config.Connection{Backend: config.BackendSQLite, Target: dbPath, ConfigDir: dir},
		Store:    store,
		Clock:    utils.NewManualClock(time.Date(2025, 3, 3, 9, 0, 0, 0, time.UTC)),
		Location: time.UTC,
	}
}

func TestBackupCreateAndList(t *testing.T) {
	ctx := setupTestContext(t)

	if err := (&BackupCreateCmd{}).Run(ctx); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if err := (&BackupListCmd{}).Run(ctx); err != nil {
		t.Fatalf("list failed: %v", err)
	}

	mgr, err := ctx.Backups()
	if err != nil {
		t.Fatalf("Backups: %v", err)
	}
	list, err := mgr.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(list) != 1 {
		t.Errorf("got %d backups, want 1", len(list))
	}
}

func TestBackupRestore(t *testing.T) {
	ctx := setupTestContext(t)

	if _, err := ctx.Engine().StartGoal("Go", models.DurationWeek); err != nil {
		t.Fatalf("StartGoal: %v", err)
	}
	mgr, _ := ctx.Backups()
	info, err := mgr.Create()
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if err := ctx.Goals().ClearAll(); err != nil {
		t.Fatalf("ClearAll: %v", err)
	}

	if err := (&BackupRestoreCmd{BackupFile: info.Name, Yes: true}).Run(ctx); err != nil {
		t.Fatalf("restore failed: %v", err)
	}

	reopened := sqlite.NewStore(ctx.Store.GetConfigPath())
	if err := reopened.Load(); err != nil {
		t.Fatalf("Load: %v", err)
	}
	defer reopened.Close()

	fresh := &cli.Context{Conn: ctx.Conn, Store: reopened, Clock: ctx.Clock, Location: time.UTC}
	goal, ok := fresh.Goals().LoadCurrentGoal()
	if !ok || goal.Topic != "Go" {
		t.Errorf("restored goal = %+v, %v; want Go", goal, ok)
	}
}

func TestBackupRestoreMissingFile(t *testing.T) {
	ctx := setupTestContext(t)
	if err := (&BackupRestoreCmd{BackupFile: "nope.db", Yes: true}).Run(ctx); err == nil {
		t.Error("expected error for missing backup file")
	}
}

func TestBackupsRequireSQLite(t *testing.T) {
	ctx := &cli.Context{
		Conn:  config.Connection{Backend: config.BackendJSON},
		Store: storage.NewMemoryStore(),
	}
	if err := (&BackupCreateCmd{}).Run(ctx); err == nil {
		t.Error("expected error for non-SQLite backend")
	}
}
