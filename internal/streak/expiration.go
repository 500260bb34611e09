package streak

import (
	"time"

	"github.com/julianstephens/streaklit/internal/constants"
	"github.com/julianstephens/streaklit/internal/logger"
	"github.com/julianstephens/streaklit/internal/models"
	"github.com/julianstephens/streaklit/internal/utils"
)

// ComputeStreak returns the length of the run of consecutive days ending at
// the latest learned day. The run is not required to reach today.
func ComputeStreak(learned models.DaySet) int {
	days := learned.Sorted()
	if len(days) == 0 {
		return 0
	}

	run := 1
	for i := 1; i < len(days); i++ {
		if utils.DaysBetween(days[i-1], days[i]) == 1 {
			run++
		} else {
			run = 1
		}
	}
	return run
}

// CheckExpiration covers days missed since the last log. Once more than the
// grace period has passed, each uncovered day before today consumes a freeze
// credit; the first day that cannot be covered resets the streak to zero and
// ends the sweep. Repeated calls are idempotent.
func (e *Engine) CheckExpiration() (View, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	now := e.now()
	changed, err := e.checkExpirationLocked(now)
	v := e.viewLocked(now)
	if changed {
		e.publishLocked(v)
	}
	return v, err
}

func (e *Engine) checkExpirationLocked(now time.Time) (bool, error) {
	if e.goal == nil || e.snap.LastLoggedAt == nil {
		return false, nil
	}
	last := *e.snap.LastLoggedAt
	if now.Sub(last) <= constants.ExpirationGrace {
		return false, nil
	}

	today := utils.StartOfDay(now)
	remaining := e.goal.MaxFreezes() - e.snap.FreezesUsed
	if remaining < 0 {
		remaining = 0
	}

	changed := false
	reset := false
	for day := utils.AddDays(last.In(now.Location()), 1); day.Before(today); day = utils.AddDays(day, 1) {
		if e.snap.LearnedDates.Contains(day) || e.snap.FreezedDates.Contains(day) {
			continue
		}
		if remaining > 0 {
			e.snap.FreezedDates.Add(day)
			e.snap.FreezesUsed++
			remaining--
			changed = true
			logger.Debug("Missed day covered by freeze", "day", utils.FormatDay(day), "remaining", remaining)
			continue
		}
		if e.snap.StreakDays != 0 {
			changed = true
		}
		e.snap.StreakDays = 0
		reset = true
		logger.Info("Streak lost", "day", utils.FormatDay(day), "identity", e.keys.Identity)
		break
	}

	if !reset && changed {
		e.recomputeLocked()
	}
	if !changed {
		return false, nil
	}
	return true, e.persistLocked()
}
