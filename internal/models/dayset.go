package models

import (
	"sort"
	"time"

	"github.com/julianstephens/streaklit/internal/constants"
)

// DaySet is a set of calendar days. Members are stored at the start of their
// day and keyed by their YYYY-MM-DD date, so any instant within a day matches.
type DaySet map[string]time.Time

func NewDaySet(days ...time.Time) DaySet {
	s := make(DaySet, len(days))
	for _, d := range days {
		s.Add(d)
	}
	return s
}

func dayKey(t time.Time) string { return t.Format(constants.DateFormat) }

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// Add inserts t's day. It reports whether the day was newly added.
func (s DaySet) Add(t time.Time) bool {
	k := dayKey(t)
	if _, ok := s[k]; ok {
		return false
	}
	s[k] = startOfDay(t)
	return true
}

// Remove deletes t's day. It reports whether the day was present.
func (s DaySet) Remove(t time.Time) bool {
	k := dayKey(t)
	if _, ok := s[k]; !ok {
		return false
	}
	delete(s, k)
	return true
}

func (s DaySet) Contains(t time.Time) bool {
	_, ok := s[dayKey(t)]
	return ok
}

func (s DaySet) Len() int { return len(s) }

// Sorted returns the days in ascending order.
func (s DaySet) Sorted() []time.Time {
	out := make([]time.Time, 0, len(s))
	for _, d := range s {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Before(out[j]) })
	return out
}

// Union adds every day of other to s.
func (s DaySet) Union(other DaySet) {
	for k, v := range other {
		if _, ok := s[k]; !ok {
			s[k] = v
		}
	}
}

// Intersect returns the days present in both sets.
func (s DaySet) Intersect(other DaySet) []time.Time {
	var out []time.Time
	for k, v := range s {
		if _, ok := other[k]; ok {
			out = append(out, v)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Before(out[j]) })
	return out
}
