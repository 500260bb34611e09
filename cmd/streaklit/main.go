package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/alecthomas/kong"

	"github.com/julianstephens/streaklit/internal/cli"
	"github.com/julianstephens/streaklit/internal/cli/backups"
	"github.com/julianstephens/streaklit/internal/cli/history"
	"github.com/julianstephens/streaklit/internal/cli/system"
	"github.com/julianstephens/streaklit/internal/cli/tracker"
	"github.com/julianstephens/streaklit/internal/config"
	"github.com/julianstephens/streaklit/internal/constants"
	"github.com/julianstephens/streaklit/internal/errors"
	"github.com/julianstephens/streaklit/internal/logger"
	"github.com/julianstephens/streaklit/internal/storage"
	"github.com/julianstephens/streaklit/internal/utils"
)

var CLI struct {
	Version kong.VersionFlag
	Config  string        `help:"SQLite path, .json path, PostgreSQL connection string, or 'keyring' to read the connection string from the OS keyring. Connection strings given here must not embed a password." env:"STREAKLIT_CONFIG" default:"${default_config}"`
	Debug   bool          `help:"Enable debug logging to stderr." env:"STREAKLIT_DEBUG"`
	Tick    time.Duration `help:"Interval of the missed-day sweep while the TUI is open." env:"STREAKLIT_TICK" default:"60s"`

	Init    system.InitCmd    `cmd:"" help:"Initialize streaklit storage."`
	Migrate system.MigrateCmd `cmd:"" help:"Run database migrations."`
	Doctor  system.DoctorCmd  `cmd:"" help:"Run health checks and diagnostics."`
	Tui     system.TuiCmd     `cmd:"" help:"Launch the interactive TUI." default:"1"`

	Start    tracker.StartCmd    `cmd:"" help:"Start a new learning goal."`
	Status   tracker.StatusCmd   `cmd:"" help:"Show the current goal and streak."`
	Tap      tracker.TapCmd      `cmd:"" help:"Toggle today: learn, undo, or unfreeze."`
	Learn    tracker.LearnCmd    `cmd:"" help:"Mark today as learned."`
	Unlearn  tracker.UnlearnCmd  `cmd:"" help:"Undo today's learned mark."`
	Freeze   tracker.FreezeCmd   `cmd:"" help:"Spend a freeze on today."`
	Unfreeze tracker.UnfreezeCmd `cmd:"" help:"Undo today's freeze and refund it."`
	Restart  tracker.RestartCmd  `cmd:"" help:"Archive the current goal and start it again from today."`

	Calendar history.CalendarCmd `cmd:"" help:"Show a month of learned and freezed days."`
	History  history.HistoryCmd  `cmd:"" help:"List finished goals."`
	Reset    system.ResetCmd     `cmd:"" help:"Clear the current goal and the archive."`

	Backup struct {
		Create  backups.BackupCreateCmd  `cmd:"" help:"Create a manual backup." default:"1"`
		List    backups.BackupListCmd    `cmd:"" help:"List available backups."`
		Restore backups.BackupRestoreCmd `cmd:"" help:"Restore from a backup."`
	} `cmd:"" help:"Manage database backups."`
	Keyring struct {
		Set    system.KeyringSetCmd    `cmd:"" help:"Store a PostgreSQL connection string in the OS keyring."`
		Get    system.KeyringGetCmd    `cmd:"" help:"Show the stored connection string with the password masked."`
		Delete system.KeyringDeleteCmd `cmd:"" help:"Remove the stored connection string."`
		Status system.KeyringStatusCmd `cmd:"" help:"Report whether the OS keyring is usable."`
	} `cmd:"" help:"Manage the connection string in the OS keyring."`
}

// unloadedCommands manage storage themselves or do not touch it.
var unloadedCommands = []string{"init", "migrate", "keyring"}

func main() {
	if err := config.LoadDotEnv(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
	}

	kctx := kong.Parse(&CLI,
		kong.Name(constants.AppName),
		kong.Description("Daily learning streak tracker with freezes"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact:             true,
			NoExpandSubcommands: true,
		}),
		kong.Vars{
			"version":        "v0.1.0",
			"default_config": constants.DefaultConfigPath,
		},
	)

	cfg := config.Config{Config: CLI.Config, Debug: CLI.Debug, Tick: CLI.Tick}
	if err := cfg.Validate(); err != nil {
		errors.Fatal(err)
	}

	command := kctx.Command()
	conn, err := config.ResolveConnection(cfg.Config)
	if err != nil {
		if !strings.HasPrefix(command, "keyring") {
			errors.Fatal(err)
		}
		// keyring commands must work before the keyring holds anything
		conn, err = config.ResolveConnection(constants.DefaultConfigPath)
		if err != nil {
			errors.Fatal(err)
		}
	}

	if err := logger.Init(logger.Config{Debug: cfg.Debug, ConfigDir: conn.ConfigDir}); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to initialize logger: %v\n", err)
	}
	defer logger.Close()
	logger.Debug("Starting", "command", command, "backend", conn.Backend)

	store := cli.NewStore(conn)
	if err := loadStore(store, command); err != nil {
		logger.Close()
		errors.Fatal(err)
	}
	defer store.Close()

	appCtx := &cli.Context{
		Conn:     conn,
		Store:    store,
		Clock:    utils.SystemClock,
		Location: time.Local,
		Tick:     cfg.Tick,
	}

	if err := kctx.Run(appCtx); err != nil {
		store.Close()
		logger.Close()
		errors.Fatal(err)
	}
}

// loadStore opens storage for commands that expect it to exist. The store is
// closed when loading fails.
func loadStore(store storage.Provider, command string) error {
	if !needsLoad(command) {
		return nil
	}
	if err := store.Load(); err != nil {
		if cerr := store.Close(); cerr != nil {
			logger.Warn("Failed to close storage", "error", cerr)
		}
		return err
	}
	return nil
}

func needsLoad(command string) bool {
	for _, name := range unloadedCommands {
		if command == name || strings.HasPrefix(command, name+" ") {
			return false
		}
	}
	return true
}
