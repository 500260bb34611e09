package models

import "time"

// DayState is the state of the current calendar day for the active goal.
type DayState int

const (
	NotLearned DayState = iota
	Learned
	Freezed
)

func (s DayState) String() string {
	switch s {
	case Learned:
		return "learned"
	case Freezed:
		return "freezed"
	default:
		return "not learned"
	}
}

// ProgressSnapshot is the mutable progress state of one goal identity.
type ProgressSnapshot struct {
	LearnedDates DaySet
	FreezedDates DaySet
	StreakDays   int
	FreezesUsed  int
	LastLoggedAt *time.Time
}

// NewProgressSnapshot returns an empty snapshot with initialized sets.
func NewProgressSnapshot() ProgressSnapshot {
	return ProgressSnapshot{
		LearnedDates: NewDaySet(),
		FreezedDates: NewDaySet(),
	}
}

// StateOn derives the day state of day from the date sets. Learned wins over
// Freezed if both were ever present.
func (p ProgressSnapshot) StateOn(day time.Time) DayState {
	switch {
	case p.LearnedDates.Contains(day):
		return Learned
	case p.FreezedDates.Contains(day):
		return Freezed
	default:
		return NotLearned
	}
}

// LoggedDays is the number of days counted toward goal completion.
func (p ProgressSnapshot) LoggedDays() int {
	return p.LearnedDates.Len() + p.FreezedDates.Len()
}
