package system

import (
	"fmt"

	"github.com/julianstephens/streaklit/internal/cli"
	"github.com/julianstephens/streaklit/internal/constants"
)

var progressPrefixes = []string{
	constants.PrefixLearnedDates,
	constants.PrefixFreezedDates,
	constants.PrefixStreakDays,
	constants.PrefixFreezesUsed,
	constants.PrefixLastLogged,
}

type ResetCmd struct {
	PurgeProgress bool `help:"Also delete the learned and freezed days of every goal."`
}

func (c *ResetCmd) Run(ctx *cli.Context) error {
	l, err := ctx.AcquireLock()
	if err != nil {
		return err
	}
	defer l.Release()

	ctx.PerformAutomaticBackup()

	if err := ctx.Goals().ClearAll(); err != nil {
		return fmt.Errorf("failed to clear goals: %w", err)
	}
	fmt.Println("Cleared the current goal and the goal archive.")

	if !c.PurgeProgress {
		fmt.Println("Progress was kept; starting the same topic and duration again will pick it up.")
		return nil
	}

	var keys []string
	for _, prefix := range progressPrefixes {
		found, err := ctx.Store.Keys(prefix)
		if err != nil {
			return fmt.Errorf("failed to list progress keys: %w", err)
		}
		keys = append(keys, found...)
	}
	if err := ctx.Store.Delete(keys...); err != nil {
		return fmt.Errorf("failed to delete progress: %w", err)
	}
	fmt.Printf("Deleted %d progress value(s).\n", len(keys))
	return nil
}
