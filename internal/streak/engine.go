// Package streak implements the day-state machine of the active learning goal:
// marking, freezing, streak recomputation and the missed-day sweep.
package streak

import (
	"errors"
	"sync"
	"time"

	"github.com/julianstephens/streaklit/internal/goals"
	"github.com/julianstephens/streaklit/internal/logger"
	"github.com/julianstephens/streaklit/internal/models"
	"github.com/julianstephens/streaklit/internal/progress"
	"github.com/julianstephens/streaklit/internal/utils"
)

// View is a read-only copy of the engine state at one instant.
type View struct {
	Goal           *models.Goal
	Today          time.Time
	State          models.DayState
	StreakDays     int
	FreezesUsed    int
	MaxFreezes     int
	FreezeDisabled bool
	GoalCompleted  bool
	LearnedDates   []time.Time
	FreezedDates   []time.Time
	LastLoggedAt   *time.Time
}

// HasGoal reports whether a goal was active when the view was taken.
func (v View) HasGoal() bool { return v.Goal != nil }

// Engine owns the progress snapshot of the current goal. All operations are
// serialized; each returns the resulting View and an error only when writing
// to persistence failed, in which case the in-memory transition still holds.
type Engine struct {
	mu       sync.Mutex
	goals    *goals.Repository
	progress *progress.Store
	clock    utils.Clock

	goal *models.Goal
	keys progress.Keys
	snap models.ProgressSnapshot

	subs   map[int]func(View)
	nextID int
}

func NewEngine(repo *goals.Repository, store *progress.Store, clock utils.Clock) *Engine {
	if clock == nil {
		clock = utils.SystemClock
	}
	return &Engine{
		goals:    repo,
		progress: store,
		clock:    clock,
		snap:     models.NewProgressSnapshot(),
		subs:     make(map[int]func(View)),
	}
}

// Subscribe registers fn to receive the new View after every state change.
// Callbacks run synchronously on the goroutine that caused the change and must
// not call back into the engine. The returned func removes the subscription.
func (e *Engine) Subscribe(fn func(View)) (cancel func()) {
	e.mu.Lock()
	defer e.mu.Unlock()

	id := e.nextID
	e.nextID++
	e.subs[id] = fn
	return func() {
		e.mu.Lock()
		delete(e.subs, id)
		e.mu.Unlock()
	}
}

func (e *Engine) now() time.Time {
	return e.clock.Now().In(e.progress.Location())
}

// OnAppear loads the current goal and its progress, then runs the missed-day
// sweep.
func (e *Engine) OnAppear() (View, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.loadLocked()
	now := e.now()
	changed, err := e.checkExpirationLocked(now)
	v := e.viewLocked(now)
	if changed {
		e.publishLocked(v)
	}
	return v, err
}

// OnTick behaves like OnAppear. It is driven by the periodic timer so missed
// days are detected without user interaction.
func (e *Engine) OnTick() (View, error) {
	return e.OnAppear()
}

// View returns the current state without touching persistence.
func (e *Engine) View() View {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.viewLocked(e.now())
}

// StartGoal replaces the current goal with a new one starting now and loads
// whatever progress its identity already has.
func (e *Engine) StartGoal(topic string, duration models.Duration) (View, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	goal, err := e.goals.StartGoal(topic, duration)
	if err != nil {
		return e.viewLocked(e.now()), err
	}
	e.setGoalLocked(&goal)

	now := e.now()
	_, err = e.checkExpirationLocked(now)
	v := e.viewLocked(now)
	e.publishLocked(v)
	return v, err
}

func (e *Engine) loadLocked() {
	goal, ok := e.goals.LoadCurrentGoal()
	if !ok {
		e.setGoalLocked(nil)
		return
	}
	e.setGoalLocked(&goal)
}

func (e *Engine) setGoalLocked(goal *models.Goal) {
	e.goal = goal
	if goal == nil {
		e.keys = progress.Keys{}
		e.snap = models.NewProgressSnapshot()
		return
	}
	e.keys = progress.KeysForGoal(*goal)
	e.snap = e.progress.LoadSnapshot(e.keys)
}

func (e *Engine) requireGoalLocked() error {
	if e.goal == nil {
		return goals.ErrNoCurrentGoal
	}
	return nil
}

func (e *Engine) persistLocked() error {
	if err := e.progress.SaveSnapshot(e.keys, e.snap); err != nil {
		logger.Error("Failed to persist progress", "identity", e.keys.Identity, "error", err)
		return err
	}
	return nil
}

func (e *Engine) publishLocked(v View) {
	for _, fn := range e.subs {
		fn(v)
	}
}

func (e *Engine) maxFreezesLocked() int {
	if e.goal == nil {
		return 0
	}
	return e.goal.MaxFreezes()
}

func (e *Engine) viewLocked(now time.Time) View {
	today := utils.StartOfDay(now)
	v := View{
		Today:        today,
		State:        e.snap.StateOn(today),
		StreakDays:   e.snap.StreakDays,
		FreezesUsed:  e.snap.FreezesUsed,
		MaxFreezes:   e.maxFreezesLocked(),
		LearnedDates: e.snap.LearnedDates.Sorted(),
		FreezedDates: e.snap.FreezedDates.Sorted(),
	}
	if e.goal != nil {
		g := *e.goal
		v.Goal = &g
		v.FreezeDisabled = isFreezeDisabled(e.snap.FreezesUsed, v.MaxFreezes)
		v.GoalCompleted = isGoalCompleted(e.snap, g.TotalDays())
	}
	if e.snap.LastLoggedAt != nil {
		t := *e.snap.LastLoggedAt
		v.LastLoggedAt = &t
	}
	return v
}

func isFreezeDisabled(used, limit int) bool {
	return used >= limit
}

func isGoalCompleted(p models.ProgressSnapshot, totalDays int) bool {
	return p.LoggedDays() >= totalDays
}

// IsFreezeDisabled reports whether the freeze quota is exhausted.
func (e *Engine) IsFreezeDisabled() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.goal == nil || isFreezeDisabled(e.snap.FreezesUsed, e.maxFreezesLocked())
}

// IsGoalCompleted reports whether learned plus freezed days cover the goal.
func (e *Engine) IsGoalCompleted() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.goal != nil && isGoalCompleted(e.snap, e.goal.TotalDays())
}

// RestartSameGoal archives the current goal with its progress counters, wipes
// the identity's stored progress and starts the same topic and duration again
// from now. The archived start date is backdated by the goal length so the
// record reads as finished.
func (e *Engine) RestartSameGoal() (View, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	now := e.now()
	if err := e.requireGoalLocked(); err != nil {
		return e.viewLocked(now), err
	}

	archived := *e.goal
	archived.StartDate = now.AddDate(0, 0, -archived.TotalDays())
	archived.StreakDays = e.snap.StreakDays
	archived.FreezesUsed = e.snap.FreezesUsed
	archived.LastLoggedDate = nil
	if e.snap.LastLoggedAt != nil {
		t := *e.snap.LastLoggedAt
		archived.LastLoggedDate = &t
	}

	var errs []error
	if err := e.goals.ArchiveAndClear(archived); err != nil {
		errs = append(errs, err)
	}
	if err := e.progress.Clear(e.keys); err != nil {
		errs = append(errs, err)
	}

	fresh := models.NewGoal(archived.Topic, archived.Duration, now)
	if err := e.goals.SaveCurrentGoal(fresh); err != nil {
		errs = append(errs, err)
	}
	e.goal = &fresh
	e.keys = progress.KeysForGoal(fresh)
	e.snap = models.NewProgressSnapshot()

	logger.Info("Restarted goal", "topic", fresh.Topic, "duration", fresh.Duration,
		"archivedStreak", archived.StreakDays, "archivedFreezes", archived.FreezesUsed)

	v := e.viewLocked(now)
	e.publishLocked(v)
	return v, errors.Join(errs...)
}
