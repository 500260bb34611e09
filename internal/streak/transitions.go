package streak

import (
	"time"

	"github.com/julianstephens/streaklit/internal/logger"
	"github.com/julianstephens/streaklit/internal/models"
	"github.com/julianstephens/streaklit/internal/utils"
)

// MarkAsLearned marks today as learned. A freeze placed on today is removed
// and its credit refunded. Marking an already learned day only refreshes the
// last logged time.
func (e *Engine) MarkAsLearned() (View, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.guardLocked(e.markLocked)
}

// UnmarkLearned removes today from the learned days. It does nothing when
// today is not learned.
func (e *Engine) UnmarkLearned() (View, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.guardLocked(e.unmarkLocked)
}

// UnfreezeDay removes a freeze from today and refunds its credit.
func (e *Engine) UnfreezeDay() (View, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.guardLocked(e.unfreezeLocked)
}

// RecomputeStreak recalculates the streak from the learned days and persists it.
func (e *Engine) RecomputeStreak() (View, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.guardLocked(func(now time.Time) (View, error) {
		e.recomputeLocked()
		return e.commitLocked("recompute", now)
	})
}

// HandleDayTap dispatches on today's state: not learned marks it learned,
// learned unmarks it and freezed unfreezes it.
func (e *Engine) HandleDayTap() (View, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.guardLocked(func(now time.Time) (View, error) {
		switch e.snap.StateOn(now) {
		case models.Learned:
			return e.unmarkLocked(now)
		case models.Freezed:
			return e.unfreezeLocked(now)
		default:
			return e.markLocked(now)
		}
	})
}

// ToggleFreeze freezes today. Freezing a learned day replaces it and still
// consumes a credit. It reports whether today is freezed afterwards; a request
// at the quota is rejected without changing anything.
func (e *Engine) ToggleFreeze() (View, bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	now := e.now()
	if err := e.requireGoalLocked(); err != nil {
		return e.viewLocked(now), false, err
	}
	today := utils.StartOfDay(now)

	if e.snap.FreezedDates.Contains(today) {
		return e.viewLocked(now), true, nil
	}
	if isFreezeDisabled(e.snap.FreezesUsed, e.maxFreezesLocked()) {
		logger.Debug("Freeze rejected, quota exhausted", "used", e.snap.FreezesUsed, "max", e.maxFreezesLocked())
		return e.viewLocked(now), false, nil
	}

	if e.snap.LearnedDates.Remove(today) {
		e.recomputeLocked()
	}
	e.snap.FreezedDates.Add(today)
	e.snap.FreezesUsed++
	e.touchLocked(now)

	v, err := e.commitLocked("freeze", now)
	return v, true, err
}

// guardLocked runs op at the current instant when a goal is active.
func (e *Engine) guardLocked(op func(now time.Time) (View, error)) (View, error) {
	now := e.now()
	if err := e.requireGoalLocked(); err != nil {
		return e.viewLocked(now), err
	}
	return op(now)
}

func (e *Engine) markLocked(now time.Time) (View, error) {
	today := utils.StartOfDay(now)
	if e.snap.LearnedDates.Add(today) {
		if e.snap.FreezedDates.Remove(today) {
			e.snap.FreezesUsed = decrement(e.snap.FreezesUsed)
		}
		e.recomputeLocked()
	}
	e.touchLocked(now)
	return e.commitLocked("learn", now)
}

func (e *Engine) unmarkLocked(now time.Time) (View, error) {
	if !e.snap.LearnedDates.Remove(utils.StartOfDay(now)) {
		return e.viewLocked(now), nil
	}
	e.recomputeLocked()
	return e.commitLocked("unlearn", now)
}

func (e *Engine) unfreezeLocked(now time.Time) (View, error) {
	if e.snap.FreezedDates.Remove(utils.StartOfDay(now)) {
		e.snap.FreezesUsed = decrement(e.snap.FreezesUsed)
	}
	e.recomputeLocked()
	return e.commitLocked("unfreeze", now)
}

func (e *Engine) recomputeLocked() {
	e.snap.StreakDays = ComputeStreak(e.snap.LearnedDates)
}

func (e *Engine) touchLocked(now time.Time) {
	t := now
	e.snap.LastLoggedAt = &t
}

// commitLocked persists the snapshot and notifies subscribers.
func (e *Engine) commitLocked(action string, now time.Time) (View, error) {
	err := e.persistLocked()
	v := e.viewLocked(now)
	logger.Debug("Progress updated", "action", action, "day", utils.FormatDay(v.Today),
		"state", v.State, "streak", v.StreakDays, "freezesUsed", v.FreezesUsed)
	e.publishLocked(v)
	return v, err
}

func decrement(n int) int {
	if n <= 0 {
		return 0
	}
	return n - 1
}
