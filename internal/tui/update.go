package tui

import (
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/streaklit/internal/logger"
	"github.com/julianstephens/streaklit/internal/models"
	"github.com/julianstephens/streaklit/internal/streak"
)

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case viewMsg:
		m.apply(msg.view, msg.err)
		if !msg.view.HasGoal() && m.state != StateSetup {
			cmd := m.newSetupForm()
			return m, cmd
		}
		return m, nil

	case tickMsg:
		v, err := m.engine.OnTick()
		m.apply(v, err)
		if !v.HasGoal() && m.state != StateSetup {
			setup := m.newSetupForm()
			return m, tea.Batch(setup, m.tick())
		}
		return m, m.tick()
	}

	if m.state == StateSetup {
		return m.updateSetup(msg)
	}

	if msg, ok := msg.(tea.KeyMsg); ok {
		if m.state == StateConfirmRestart {
			return m.updateConfirmRestart(msg)
		}
		return m.updateKeys(msg)
	}
	return m, nil
}

func (m *Model) apply(v streak.View, err error) {
	m.view = v
	m.err = err
	if err != nil {
		logger.Warn("Failed to persist progress", "error", err)
	}
}

func (m Model) updateKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	case key.Matches(msg, m.keys.Tab):
		m.state = (m.state + 1) % tabCount
	case key.Matches(msg, m.keys.ShiftTab):
		m.state = (m.state - 1 + tabCount) % tabCount
	case key.Matches(msg, m.keys.Setup):
		cmd := m.newSetupForm()
		return m, cmd
	}

	switch m.state {
	case StateToday:
		return m.updateToday(msg)
	case StateCalendar:
		switch {
		case key.Matches(msg, m.keys.PrevPage):
			m.month = m.month.AddDate(0, -1, 0)
		case key.Matches(msg, m.keys.NextPage):
			m.month = m.month.AddDate(0, 1, 0)
		}
	}
	return m, nil
}

func (m Model) updateToday(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if !m.view.HasGoal() {
		return m, nil
	}
	switch {
	case key.Matches(msg, m.keys.Tap):
		v, err := m.engine.HandleDayTap()
		m.apply(v, err)
		m.notice = ""
	case key.Matches(msg, m.keys.Freeze):
		v, ok, err := m.engine.ToggleFreeze()
		m.apply(v, err)
		m.notice = ""
		if !ok {
			m.notice = "No freezes left for this goal."
		}
	case key.Matches(msg, m.keys.Restart):
		m.state = StateConfirmRestart
	}
	return m, nil
}

func (m Model) updateConfirmRestart(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Confirm):
		m.ctx.PerformAutomaticBackup()
		v, err := m.engine.RestartSameGoal()
		m.apply(v, err)
		m.notice = "Goal restarted."
		m.state = StateToday
	case key.Matches(msg, m.keys.Cancel):
		m.state = StateToday
	case msg.Type == tea.KeyCtrlC:
		m.quitting = true
		return m, tea.Quit
	}
	return m, nil
}

func (m Model) updateSetup(msg tea.Msg) (tea.Model, tea.Cmd) {
	if k, ok := msg.(tea.KeyMsg); ok && k.Type == tea.KeyCtrlC {
		m.quitting = true
		return m, tea.Quit
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	switch m.form.State {
	case huh.StateCompleted:
		duration, ok := models.ParseDuration(m.setup.Duration)
		if !ok {
			duration = models.DurationWeek
		}
		v, err := m.engine.StartGoal(strings.TrimSpace(m.setup.Topic), duration)
		m.apply(v, err)
		m.notice = ""
		m.resetMonth()
		m.state = StateToday
		m.form = nil
		return m, nil
	case huh.StateAborted:
		m.form = nil
		if !m.view.HasGoal() {
			m.quitting = true
			return m, tea.Quit
		}
		m.state = StateToday
		return m, nil
	}
	return m, cmd
}

func (m *Model) resetMonth() {
	now := m.ctx.Now()
	m.month = time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
}
