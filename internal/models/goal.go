package models

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/julianstephens/streaklit/internal/constants"
)

// Duration is the length of a learning goal.
type Duration string

const (
	DurationWeek  Duration = "Week"
	DurationMonth Duration = "Month"
	DurationYear  Duration = "Year"
)

// Durations lists the recognized durations in display order.
var Durations = []Duration{DurationWeek, DurationMonth, DurationYear}

// ParseDuration matches s case-insensitively against the recognized durations.
func ParseDuration(s string) (Duration, bool) {
	for _, d := range Durations {
		if strings.EqualFold(strings.TrimSpace(s), string(d)) {
			return d, true
		}
	}
	return Duration(s), false
}

// Valid reports whether d is one of Week, Month or Year.
func (d Duration) Valid() bool {
	switch d {
	case DurationWeek, DurationMonth, DurationYear:
		return true
	}
	return false
}

// TotalDays is the number of days a goal of this duration lasts.
// Unrecognized durations use Week's length.
func (d Duration) TotalDays() int {
	switch d {
	case DurationMonth:
		return 30
	case DurationYear:
		return 365
	default:
		return 7
	}
}

// MaxFreezes is the freeze quota for a goal of this duration.
// Unrecognized durations use Week's quota.
func (d Duration) MaxFreezes() int {
	switch d {
	case DurationMonth:
		return 8
	case DurationYear:
		return 96
	default:
		return 2
	}
}

// Goal is a learning commitment. Topic and Duration identify its progress;
// the remaining counters are a snapshot taken only when the goal is archived.
type Goal struct {
	ID             string     `json:"id,omitempty"`
	Topic          string     `json:"topic"`
	Duration       Duration   `json:"duration"`
	StartDate      time.Time  `json:"startDate"`
	StreakDays     int        `json:"streakDays"`
	FreezesUsed    int        `json:"freezesUsed"`
	LastLoggedDate *time.Time `json:"lastLoggedDate,omitempty"`
}

// NewGoal creates a goal starting at start with zeroed progress. A blank topic
// becomes the default topic.
func NewGoal(topic string, duration Duration, start time.Time) Goal {
	if strings.TrimSpace(topic) == "" {
		topic = constants.DefaultTopic
	}
	return Goal{
		ID:        uuid.New().String(),
		Topic:     topic,
		Duration:  duration,
		StartDate: start,
	}
}

func (g Goal) TotalDays() int  { return g.Duration.TotalDays() }
func (g Goal) MaxFreezes() int { return g.Duration.MaxFreezes() }

// EndDate is the start date plus TotalDays calendar days.
func (g Goal) EndDate() time.Time {
	return g.StartDate.AddDate(0, 0, g.TotalDays())
}

// IsFinished reports whether now is at or past the goal's end date.
func (g Goal) IsFinished(now time.Time) bool {
	return !now.Before(g.EndDate())
}

// Identity is the normalized progress identity for this goal.
func (g Goal) Identity() string {
	return Identity(g.Topic, g.Duration)
}

// Identity normalizes a topic/duration pair into the string that scopes every
// per-goal progress key. Topics differing only in case or surrounding
// whitespace share one identity.
func Identity(topic string, duration Duration) string {
	s := strings.TrimSpace(topic) + "_" + string(duration)
	s = strings.ToLower(strings.TrimSpace(s))
	return strings.ReplaceAll(s, " ", "_")
}
