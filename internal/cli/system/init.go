package system

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/julianstephens/streaklit/internal/cli"
	"github.com/julianstephens/streaklit/internal/config"
)

type InitCmd struct {
	Force  bool   `help:"Delete the existing database file before initializing."`
	Source string `help:"Database path or connection string to copy all goals and progress from."`
}

func (c *InitCmd) Run(ctx *cli.Context) error {
	if c.Force {
		if err := c.removeExisting(ctx); err != nil {
			return err
		}
	}

	if err := ctx.Store.Init(); err != nil {
		return err
	}
	fmt.Printf("Initialized %s storage at: %s\n", ctx.Conn.Backend, ctx.Store.GetConfigPath())

	if c.Source == "" {
		return nil
	}

	fmt.Printf("Copying data from: %s\n", c.Source)
	n, err := c.copyFrom(ctx)
	if err != nil {
		return fmt.Errorf("copy failed: %w", err)
	}
	fmt.Printf("Copied %d values.\n", n)
	return nil
}

func (c *InitCmd) removeExisting(ctx *cli.Context) error {
	if ctx.Conn.Backend == config.BackendPostgres {
		return fmt.Errorf("--force is only supported for file storage")
	}

	dbPath := ctx.Store.GetConfigPath()
	if c.Source != "" {
		abs, errA := filepath.Abs(dbPath)
		src, errB := filepath.Abs(c.Source)
		if errA == nil && errB == nil && abs == src {
			return fmt.Errorf("cannot use --force when source and destination are the same: %s", dbPath)
		}
	}

	if _, err := os.Stat(dbPath); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to access existing database: %w", err)
	}
	if err := ctx.Store.Close(); err != nil {
		return fmt.Errorf("failed to close existing database: %w", err)
	}
	if err := os.Remove(dbPath); err != nil {
		return fmt.Errorf("failed to delete existing database: %w", err)
	}
	fmt.Printf("Deleted existing database at: %s\n", dbPath)
	return nil
}

func (c *InitCmd) copyFrom(ctx *cli.Context) (int, error) {
	conn, err := config.ResolveConnection(c.Source)
	if err != nil {
		return 0, err
	}
	src := cli.NewStore(conn)
	if err := src.Load(); err != nil {
		return 0, fmt.Errorf("failed to load source: %w", err)
	}
	defer src.Close()

	return cli.CopyAll(src, ctx.Store)
}
