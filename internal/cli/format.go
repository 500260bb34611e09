package cli

import (
	"fmt"
	"strings"

	"github.com/julianstephens/streaklit/internal/streak"
	"github.com/julianstephens/streaklit/internal/utils"
)

// FormatView renders the status block printed by the tracking commands.
func FormatView(v streak.View) string {
	if !v.HasGoal() {
		return "No active goal. Start one with 'streaklit start <topic>'."
	}

	var b strings.Builder
	g := v.Goal
	fmt.Fprintf(&b, "Goal:     %s (%s, %d days)\n", g.Topic, g.Duration, g.TotalDays())
	fmt.Fprintf(&b, "Period:   %s to %s\n", utils.FormatDay(g.StartDate), utils.FormatDay(g.EndDate()))
	fmt.Fprintf(&b, "Today:    %s (%s)\n", utils.FormatDay(v.Today), v.State)
	fmt.Fprintf(&b, "Streak:   %d %s\n", v.StreakDays, plural(v.StreakDays, "day", "days"))
	fmt.Fprintf(&b, "Freezes:  %d/%d used", v.FreezesUsed, v.MaxFreezes)
	if v.FreezeDisabled {
		b.WriteString(" (none left)")
	}
	b.WriteString("\n")
	fmt.Fprintf(&b, "Logged:   %d/%d days", len(v.LearnedDates)+len(v.FreezedDates), g.TotalDays())
	if v.GoalCompleted {
		b.WriteString(" - goal completed!")
	}
	return b.String()
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
