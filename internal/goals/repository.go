package goals

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/julianstephens/streaklit/internal/constants"
	"github.com/julianstephens/streaklit/internal/logger"
	"github.com/julianstephens/streaklit/internal/models"
	"github.com/julianstephens/streaklit/internal/storage"
	"github.com/julianstephens/streaklit/internal/utils"
)

// ErrNoCurrentGoal is returned by callers that need an active goal when none is stored.
var ErrNoCurrentGoal = errors.New("no active goal")

// Repository owns the current goal slot and the finished goal archive.
type Repository struct {
	kv    storage.Provider
	clock utils.Clock
}

func NewRepository(kv storage.Provider, clock utils.Clock) *Repository {
	if clock == nil {
		clock = utils.SystemClock
	}
	return &Repository{kv: kv, clock: clock}
}

// SaveCurrentGoal overwrites the current goal slot.
func (r *Repository) SaveCurrentGoal(goal models.Goal) error {
	data, err := json.Marshal(goal)
	if err != nil {
		return fmt.Errorf("failed to encode goal: %w", err)
	}
	return r.kv.Set(constants.KeyCurrentGoal, data)
}

// StartGoal saves a new current goal starting now. A blank topic becomes the
// default topic.
func (r *Repository) StartGoal(topic string, duration models.Duration) (models.Goal, error) {
	goal := models.NewGoal(topic, duration, r.clock.Now())
	if err := r.SaveCurrentGoal(goal); err != nil {
		return models.Goal{}, err
	}
	logger.Info("Started goal", "topic", goal.Topic, "duration", goal.Duration)
	return goal, nil
}

// LoadCurrentGoal returns the current goal. A goal that has run past its end
// date is archived and the slot cleared, in which case ok is false. Missing or
// undecodable data also yields ok == false. Callers must hold the writer lock.
func (r *Repository) LoadCurrentGoal() (goal models.Goal, ok bool) {
	goal, ok = r.PeekCurrentGoal()
	if !ok {
		return models.Goal{}, false
	}

	if goal.IsFinished(r.clock.Now()) {
		logger.Info("Goal finished, archiving", "topic", goal.Topic, "duration", goal.Duration)
		if err := r.ArchiveAndClear(goal); err != nil {
			logger.Warn("Failed to archive finished goal", "error", err)
		}
		return models.Goal{}, false
	}

	return goal, true
}

// PeekCurrentGoal decodes the current goal slot without writing. A finished
// goal that has not been archived yet is returned as stored.
func (r *Repository) PeekCurrentGoal() (goal models.Goal, ok bool) {
	data, err := r.kv.Get(constants.KeyCurrentGoal)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			logger.Warn("Failed to read current goal", "error", err)
		}
		return models.Goal{}, false
	}

	if err := json.Unmarshal(data, &goal); err != nil {
		logger.Warn("Discarding corrupt current goal", "error", err)
		return models.Goal{}, false
	}
	return goal, true
}

// PreloadCurrentGoal returns the topic and duration to prefill a goal form
// with: the current goal's, or the defaults when there is none.
func (r *Repository) PreloadCurrentGoal() (string, models.Duration) {
	if goal, ok := r.LoadCurrentGoal(); ok {
		return goal.Topic, goal.Duration
	}
	return constants.DefaultTopic, models.DurationWeek
}

// ArchiveAndClear appends goal to the archive, then clears the current slot.
func (r *Repository) ArchiveAndClear(goal models.Goal) error {
	finished := r.LoadFinishedGoals()
	finished = append(finished, goal)

	data, err := json.Marshal(finished)
	if err != nil {
		return fmt.Errorf("failed to encode archive: %w", err)
	}
	if err := r.kv.Set(constants.KeyFinishedGoals, data); err != nil {
		return err
	}
	return r.ClearCurrentGoal()
}

// LoadFinishedGoals returns the archive in append order. Missing or
// undecodable data yields an empty archive.
func (r *Repository) LoadFinishedGoals() []models.Goal {
	data, err := r.kv.Get(constants.KeyFinishedGoals)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			logger.Warn("Failed to read finished goals", "error", err)
		}
		return []models.Goal{}
	}

	var finished []models.Goal
	if err := json.Unmarshal(data, &finished); err != nil {
		logger.Warn("Discarding corrupt finished goals", "error", err)
		return []models.Goal{}
	}
	return finished
}

func (r *Repository) ClearCurrentGoal() error {
	return r.kv.Delete(constants.KeyCurrentGoal)
}

// ClearAll removes the current goal and the archive. Per-goal progress is kept.
func (r *Repository) ClearAll() error {
	return r.kv.Delete(constants.KeyCurrentGoal, constants.KeyFinishedGoals)
}
