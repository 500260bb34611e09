package tracker

import (
	"fmt"

	"github.com/julianstephens/streaklit/internal/cli"
	"github.com/julianstephens/streaklit/internal/goals"
	"github.com/julianstephens/streaklit/internal/streak"
)

// withEngine runs op under the writer lock after the on-appear sweep, then
// prints the resulting status.
func withEngine(ctx *cli.Context, op func(*streak.Engine) (streak.View, error)) error {
	l, err := ctx.AcquireLock()
	if err != nil {
		return err
	}
	defer l.Release()

	e, v := ctx.Appear()
	if !v.HasGoal() {
		return goals.ErrNoCurrentGoal
	}

	v, err = op(e)
	if err != nil {
		return fmt.Errorf("failed to save progress: %w", err)
	}
	fmt.Println(cli.FormatView(v))
	return nil
}

type StatusCmd struct{}

func (c *StatusCmd) Run(ctx *cli.Context) error {
	l, err := ctx.AcquireLock()
	if err != nil {
		return err
	}
	defer l.Release()

	_, v := ctx.Appear()
	fmt.Println(cli.FormatView(v))
	return nil
}

type TapCmd struct{}

func (c *TapCmd) Run(ctx *cli.Context) error {
	return withEngine(ctx, (*streak.Engine).HandleDayTap)
}

type LearnCmd struct{}

func (c *LearnCmd) Run(ctx *cli.Context) error {
	return withEngine(ctx, (*streak.Engine).MarkAsLearned)
}

type UnlearnCmd struct{}

func (c *UnlearnCmd) Run(ctx *cli.Context) error {
	return withEngine(ctx, (*streak.Engine).UnmarkLearned)
}

type FreezeCmd struct{}

func (c *FreezeCmd) Run(ctx *cli.Context) error {
	return withEngine(ctx, func(e *streak.Engine) (streak.View, error) {
		v, applied, err := e.ToggleFreeze()
		if err == nil && !applied {
			fmt.Printf("No freezes left (%d/%d used); today was not freezed.\n", v.FreezesUsed, v.MaxFreezes)
		}
		return v, err
	})
}

type UnfreezeCmd struct{}

func (c *UnfreezeCmd) Run(ctx *cli.Context) error {
	return withEngine(ctx, (*streak.Engine).UnfreezeDay)
}

type RestartCmd struct{}

func (c *RestartCmd) Run(ctx *cli.Context) error {
	ctx.PerformAutomaticBackup()
	return withEngine(ctx, func(e *streak.Engine) (streak.View, error) {
		v, err := e.RestartSameGoal()
		if err == nil {
			fmt.Println("Previous run archived; starting over.")
		}
		return v, err
	})
}
