package models

import (
	"encoding/json"
	"testing"
	"time"
)

func TestDurationParameters(t *testing.T) {
	tests := []struct {
		duration   Duration
		totalDays  int
		maxFreezes int
		valid      bool
	}{
		{DurationWeek, 7, 2, true},
		{DurationMonth, 30, 8, true},
		{DurationYear, 365, 96, true},
		{Duration("Fortnight"), 7, 2, false},
		{Duration(""), 7, 2, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.duration), func(t *testing.T) {
			if got := tt.duration.TotalDays(); got != tt.totalDays {
				t.Errorf("TotalDays() = %d, want %d", got, tt.totalDays)
			}
			if got := tt.duration.MaxFreezes(); got != tt.maxFreezes {
				t.Errorf("MaxFreezes() = %d, want %d", got, tt.maxFreezes)
			}
			if got := tt.duration.Valid(); got != tt.valid {
				t.Errorf("Valid() = %v, want %v", got, tt.valid)
			}
		})
	}
}

func TestParseDuration(t *testing.T) {
	if d, ok := ParseDuration(" month "); !ok || d != DurationMonth {
		t.Errorf("ParseDuration(month) = %q, %v", d, ok)
	}
	if _, ok := ParseDuration("decade"); ok {
		t.Error("ParseDuration(decade) should not be recognized")
	}
}

func TestNewGoalDefaultsBlankTopic(t *testing.T) {
	start := time.Date(2025, 1, 1, 8, 0, 0, 0, time.UTC)
	g := NewGoal("   ", DurationWeek, start)
	if g.Topic != "Swift" {
		t.Errorf("Topic = %q, want Swift", g.Topic)
	}
	if g.ID == "" {
		t.Error("expected a generated ID")
	}
	if g.StreakDays != 0 || g.FreezesUsed != 0 || g.LastLoggedDate != nil {
		t.Error("expected zeroed progress fields")
	}

	g = NewGoal("Go", DurationMonth, start)
	if g.Topic != "Go" {
		t.Errorf("Topic = %q, want Go", g.Topic)
	}
}

func TestGoalIsFinished(t *testing.T) {
	start := time.Date(2025, 1, 1, 8, 0, 0, 0, time.UTC)
	g := NewGoal("Go", DurationWeek, start)

	tests := []struct {
		name string
		now  time.Time
		want bool
	}{
		{"at start", start, false},
		{"one second before end", start.AddDate(0, 0, 7).Add(-time.Second), false},
		{"exactly at end", start.AddDate(0, 0, 7), true},
		{"well after end", start.AddDate(0, 1, 0), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := g.IsFinished(tt.now); got != tt.want {
				t.Errorf("IsFinished(%v) = %v, want %v", tt.now, got, tt.want)
			}
		})
	}

	unknown := Goal{Topic: "Go", Duration: "Decade", StartDate: start}
	if !unknown.IsFinished(start.AddDate(0, 0, 7)) {
		t.Error("unrecognized duration should finish after 7 days")
	}
}

func TestIdentity(t *testing.T) {
	tests := []struct {
		name     string
		topic    string
		duration Duration
		want     string
	}{
		{"simple", "Swift", DurationWeek, "swift_week"},
		{"trailing space", "Swift ", DurationWeek, "swift_week"},
		{"case", "sWiFt", DurationWeek, "swift_week"},
		{"inner spaces", " Data Structures ", DurationMonth, "data_structures_month"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Identity(tt.topic, tt.duration); got != tt.want {
				t.Errorf("Identity(%q, %q) = %q, want %q", tt.topic, tt.duration, got, tt.want)
			}
		})
	}

	a := Goal{Topic: "Swift ", Duration: DurationWeek}
	b := Goal{Topic: "swift", Duration: DurationWeek}
	if a.Identity() != b.Identity() {
		t.Errorf("expected shared identity, got %q and %q", a.Identity(), b.Identity())
	}
}

func TestGoalJSONFieldNames(t *testing.T) {
	last := time.Date(2025, 1, 3, 9, 0, 0, 0, time.UTC)
	g := Goal{
		Topic:          "Go",
		Duration:       DurationWeek,
		StartDate:      time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		StreakDays:     3,
		FreezesUsed:    1,
		LastLoggedDate: &last,
	}
	data, err := json.Marshal(g)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	var raw map[string]interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	for _, key := range []string{"topic", "duration", "startDate", "streakDays", "freezesUsed", "lastLoggedDate"} {
		if _, ok := raw[key]; !ok {
			t.Errorf("expected JSON key %q in %s", key, data)
		}
	}
}
