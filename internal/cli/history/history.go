package history

import (
	"fmt"
	"time"

	"github.com/julianstephens/streaklit/internal/calendar"
	"github.com/julianstephens/streaklit/internal/cli"
	"github.com/julianstephens/streaklit/internal/utils"
)

type CalendarCmd struct {
	Month string `short:"m" help:"Month to show as YYYY-MM. Defaults to the current month."`
}

func (c *CalendarCmd) Run(ctx *cli.Context) error {
	now := ctx.Now()
	year, month := now.Year(), now.Month()
	if c.Month != "" {
		t, err := time.Parse("2006-01", c.Month)
		if err != nil {
			return fmt.Errorf("invalid month %q (expected YYYY-MM): %w", c.Month, err)
		}
		year, month = t.Year(), t.Month()
	}

	fmt.Println(calendar.Render(ctx.Calendar().Month(year, month)))
	return nil
}

type HistoryCmd struct{}

func (c *HistoryCmd) Run(ctx *cli.Context) error {
	current, hasCurrent := ctx.Goals().PeekCurrentGoal()
	finished := ctx.Goals().LoadFinishedGoals()
	// a finished goal is archived by the next tracking command
	if hasCurrent && current.IsFinished(ctx.Now()) {
		finished = append(finished, current)
		hasCurrent = false
	}

	if hasCurrent {
		fmt.Printf("Current: %s (%s) since %s\n\n", current.Topic, current.Duration, utils.FormatDay(current.StartDate))
	}
	if len(finished) == 0 {
		fmt.Println("No finished goals yet.")
		return nil
	}

	fmt.Printf("Finished goals (%d):\n\n", len(finished))
	for i := len(finished) - 1; i >= 0; i-- {
		g := finished[i]
		last := "never"
		if g.LastLoggedDate != nil {
			last = utils.FormatDay(*g.LastLoggedDate)
		}
		fmt.Printf("  %-20s %-6s %s to %s  streak %d, freezes %d/%d, last logged %s\n",
			g.Topic, g.Duration, utils.FormatDay(g.StartDate), utils.FormatDay(g.EndDate()),
			g.StreakDays, g.FreezesUsed, g.MaxFreezes(), last)
	}
	return nil
}
