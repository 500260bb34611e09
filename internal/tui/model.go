package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/streaklit/internal/cli"
	"github.com/julianstephens/streaklit/internal/models"
	"github.com/julianstephens/streaklit/internal/streak"
)

type SessionState int

const (
	StateToday SessionState = iota
	StateCalendar
	StateHistory
	StateSetup
	StateConfirmRestart
)

// tabCount is the number of tab-navigable states.
const tabCount = 3

type tickMsg time.Time

// viewMsg carries an engine result into Update.
type viewMsg struct {
	view streak.View
	err  error
}

// SetupFormModel backs the goal setup form.
type SetupFormModel struct {
	Topic    string
	Duration string
}

type Model struct {
	ctx      *cli.Context
	engine   *streak.Engine
	view     streak.View
	state    SessionState
	keys     KeyMap
	help     help.Model
	form     *huh.Form
	setup    *SetupFormModel
	month    time.Time
	notice   string
	err      error
	quitting bool
	width    int
	height   int
}

func NewModel(ctx *cli.Context) Model {
	now := ctx.Now()
	return Model{
		ctx:    ctx,
		engine: ctx.Engine(),
		state:  StateToday,
		keys:   DefaultKeyMap(),
		help:   help.New(),
		month:  time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()),
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.appear(), m.tick())
}

func (m Model) appear() tea.Cmd {
	e := m.engine
	return func() tea.Msg {
		v, err := e.OnAppear()
		return viewMsg{view: v, err: err}
	}
}

func (m Model) tick() tea.Cmd {
	return tea.Tick(m.ctx.TickInterval(), func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// newSetupForm prefills the form with the current goal or the defaults.
func (m *Model) newSetupForm() tea.Cmd {
	topic, duration := m.ctx.Goals().PreloadCurrentGoal()
	m.setup = &SetupFormModel{Topic: topic, Duration: string(duration)}

	options := make([]huh.Option[string], 0, len(models.Durations))
	for _, d := range models.Durations {
		options = append(options, huh.NewOption(string(d), string(d)))
	}

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("What are you learning?").
				Placeholder("Swift").
				Value(&m.setup.Topic),
			huh.NewSelect[string]().
				Title("For how long?").
				Options(options...).
				Value(&m.setup.Duration),
		),
	)
	m.state = StateSetup
	return m.form.Init()
}

func (m Model) ShortHelp() []key.Binding {
	switch m.state {
	case StateCalendar:
		return []key.Binding{m.keys.PrevPage, m.keys.NextPage, m.keys.Tab, m.keys.Quit, m.keys.Help}
	case StateConfirmRestart:
		return []key.Binding{m.keys.Confirm, m.keys.Cancel}
	default:
		return m.keys.ShortHelp()
	}
}

func (m Model) FullHelp() [][]key.Binding {
	return m.keys.FullHelp()
}
