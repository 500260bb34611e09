package cli

import (
	"strings"
	"testing"
	"time"

	"github.com/julianstephens/streaklit/internal/config"
	"github.com/julianstephens/streaklit/internal/constants"
	"github.com/julianstephens/streaklit/internal/models"
	"github.com/julianstephens/streaklit/internal/storage"
	"github.com/julianstephens/streaklit/internal/utils"
)

func TestContextDefaults(t *testing.T) {
	ctx := &Context{Store: storage.NewMemoryStore()}

	if got := ctx.TickInterval(); got != constants.DefaultTickInterval {
		t.Errorf("TickInterval() = %v, want %v", got, constants.DefaultTickInterval)
	}
	if ctx.Engine() != ctx.Engine() {
		t.Error("Engine() should be memoized")
	}
	if ctx.Progress().Location() != time.Local {
		t.Error("Progress() should default to the local location")
	}
	if _, err := ctx.Backups(); err == nil {
		t.Error("Backups() should fail for non-SQLite storage")
	}
}

func TestContextAppear(t *testing.T) {
	clock := utils.NewManualClock(time.Date(2025, 3, 3, 9, 0, 0, 0, time.UTC))
	ctx := &Context{
		Conn:     config.Connection{Backend: config.BackendJSON},
		Store:    storage.NewMemoryStore(),
		Clock:    clock,
		Location: time.UTC,
		Tick:     5 * time.Second,
	}
	if got := ctx.TickInterval(); got != 5*time.Second {
		t.Errorf("TickInterval() = %v, want 5s", got)
	}

	if _, v := ctx.Appear(); v.HasGoal() {
		t.Fatal("expected no goal")
	}
	if _, err := ctx.Engine().StartGoal("Go", models.DurationWeek); err != nil {
		t.Fatalf("StartGoal: %v", err)
	}
	_, v := ctx.Appear()
	if !v.HasGoal() || v.Goal.Topic != "Go" {
		t.Errorf("Appear() goal = %+v, want Go", v.Goal)
	}
	if !ctx.Now().Equal(clock.Now()) {
		t.Errorf("Now() = %v, want %v", ctx.Now(), clock.Now())
	}
}

func TestFormatView(t *testing.T) {
	ctx := &Context{
		Store:    storage.NewMemoryStore(),
		Clock:    utils.NewManualClock(time.Date(2025, 3, 3, 9, 0, 0, 0, time.UTC)),
		Location: time.UTC,
	}
	e := ctx.Engine()

	if out := FormatView(e.View()); !strings.Contains(out, "No active goal") {
		t.Errorf("FormatView() without goal = %q", out)
	}

	if _, err := e.StartGoal("Go", models.DurationWeek); err != nil {
		t.Fatalf("StartGoal: %v", err)
	}
	v, err := e.MarkAsLearned()
	if err != nil {
		t.Fatalf("MarkAsLearned: %v", err)
	}

	out := FormatView(v)
	for _, want := range []string{
		"Goal:     Go (Week, 7 days)",
		"Period:   2025-03-03 to 2025-03-10",
		"Today:    2025-03-03 (learned)",
		"Streak:   1 day\n",
		"Freezes:  0/2 used",
		"Logged:   1/7 days",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("FormatView() missing %q:\n%s", want, out)
		}
	}
}
