package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/streaklit/internal/calendar"
	"github.com/julianstephens/streaklit/internal/models"
	"github.com/julianstephens/streaklit/internal/utils"
)

var tabNames = []string{"Today", "Calendar", "History"}

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	if m.state == StateSetup && m.form != nil {
		return docStyle.Render(titleStyle.Render("New goal") + "\n\n" + m.form.View())
	}

	var s strings.Builder
	s.WriteString(m.renderTabs())
	s.WriteString("\n\n")

	switch m.state {
	case StateToday, StateConfirmRestart:
		s.WriteString(m.viewToday())
	case StateCalendar:
		s.WriteString(m.viewCalendar())
	case StateHistory:
		s.WriteString(m.viewHistory())
	}

	if m.err != nil {
		s.WriteString("\n\n" + dangerStyle.Render("Error: "+m.err.Error()))
	}
	s.WriteString("\n\n" + m.help.View(m))
	return docStyle.Render(s.String())
}

func (m Model) renderTabs() string {
	active := int(m.state)
	if m.state == StateConfirmRestart {
		active = int(StateToday)
	}
	tabs := make([]string, len(tabNames))
	for i, name := range tabNames {
		if i == active {
			tabs[i] = activeTabStyle.Render(name)
		} else {
			tabs[i] = inactiveTabStyle.Render(name)
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func (m Model) viewToday() string {
	v := m.view
	if !v.HasGoal() {
		return mutedStyle.Render("No active goal. Press s to start one.")
	}

	g := v.Goal
	var s strings.Builder
	s.WriteString(titleStyle.Render(fmt.Sprintf("%s · %s", g.Topic, g.Duration)))
	s.WriteString("\n")
	s.WriteString(mutedStyle.Render(fmt.Sprintf("%s to %s", utils.FormatDay(g.StartDate), utils.FormatDay(g.EndDate()))))
	s.WriteString("\n\n")

	unit := "days"
	if v.StreakDays == 1 {
		unit = "day"
	}
	s.WriteString(streakStyle.Render(fmt.Sprintf("🔥 %d %s", v.StreakDays, unit)))
	s.WriteString("\n\n")

	switch v.State {
	case models.Learned:
		s.WriteString(learnedStyle.Render("Learned today ✓"))
	case models.Freezed:
		s.WriteString(freezedStyle.Render("Today is freezed ❄"))
	default:
		s.WriteString("Not logged yet. Press space when you're done.")
	}
	s.WriteString("\n")

	freezes := fmt.Sprintf("Freezes: %d/%d used", v.FreezesUsed, v.MaxFreezes)
	if v.FreezeDisabled {
		freezes += " (none left)"
	}
	s.WriteString(mutedStyle.Render(freezes))
	s.WriteString("\n")
	s.WriteString(mutedStyle.Render(fmt.Sprintf("Logged: %d/%d days", len(v.LearnedDates)+len(v.FreezedDates), g.TotalDays())))

	if v.GoalCompleted {
		s.WriteString("\n\n" + learnedStyle.Render("Goal completed! Press r to go again."))
	}
	if m.state == StateConfirmRestart {
		s.WriteString("\n\n" + warningStyle.Render(fmt.Sprintf("Restart %q from today? (y/n)", g.Topic)))
	} else if m.notice != "" {
		s.WriteString("\n\n" + warningStyle.Render(m.notice))
	}
	return s.String()
}

func (m Model) viewCalendar() string {
	return calendar.Render(m.ctx.Calendar().Month(m.month.Year(), m.month.Month()))
}

func (m Model) viewHistory() string {
	finished := m.ctx.Goals().LoadFinishedGoals()
	if len(finished) == 0 {
		return mutedStyle.Render("No finished goals yet.")
	}

	var s strings.Builder
	s.WriteString(titleStyle.Render(fmt.Sprintf("Finished goals (%d)", len(finished))))
	s.WriteString("\n\n")
	for i := len(finished) - 1; i >= 0; i-- {
		g := finished[i]
		fmt.Fprintf(&s, "%-20s %-6s %s  streak %d, freezes %d/%d\n",
			g.Topic, g.Duration, utils.FormatDay(g.StartDate), g.StreakDays, g.FreezesUsed, g.MaxFreezes())
	}
	return strings.TrimRight(s.String(), "\n")
}
