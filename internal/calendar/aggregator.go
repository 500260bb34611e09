// Package calendar merges the progress of the current goal and every archived
// goal into one read-only history.
package calendar

import (
	"time"

	"github.com/julianstephens/streaklit/internal/goals"
	"github.com/julianstephens/streaklit/internal/models"
	"github.com/julianstephens/streaklit/internal/progress"
	"github.com/julianstephens/streaklit/internal/utils"
)

// Sets holds every learned and freezed day across goals.
type Sets struct {
	Learned models.DaySet
	Freezed models.DaySet
}

// Aggregator reads goal and progress state without ever writing progress.
type Aggregator struct {
	goals    *goals.Repository
	progress *progress.Store
	clock    utils.Clock
}

func NewAggregator(repo *goals.Repository, store *progress.Store, clock utils.Clock) *Aggregator {
	if clock == nil {
		clock = utils.SystemClock
	}
	return &Aggregator{goals: repo, progress: store, clock: clock}
}

// Load unions the date sets of the current goal and of every archived goal,
// each read under its own identity. It never writes.
func (a *Aggregator) Load() Sets {
	sets := Sets{Learned: models.NewDaySet(), Freezed: models.NewDaySet()}

	var all []models.Goal
	if goal, ok := a.goals.PeekCurrentGoal(); ok {
		all = append(all, goal)
	}
	all = append(all, a.goals.LoadFinishedGoals()...)

	seen := make(map[string]bool, len(all))
	for _, g := range all {
		keys := progress.KeysForGoal(g)
		if seen[keys.Identity] {
			continue
		}
		seen[keys.Identity] = true
		sets.Learned.Union(a.progress.LoadDateSet(keys.Learned))
		sets.Freezed.Union(a.progress.LoadDateSet(keys.Freezed))
	}
	return sets
}

// Mark is what a calendar cell shows for its day.
type Mark int

const (
	MarkNone Mark = iota
	MarkLearned
	MarkFreezed
)

// Day is one cell of a month grid. A zero Date is a padding cell.
type Day struct {
	Date  time.Time
	Mark  Mark
	Today bool
}

// Blank reports whether the cell pads the grid outside the month.
func (d Day) Blank() bool { return d.Date.IsZero() }

// MonthView is a month laid out in Sunday-first weeks.
type MonthView struct {
	Year    int
	Month   time.Month
	Weeks   [][7]Day
	Learned int
	Freezed int
}

// Month builds the grid for year/month from the aggregated sets.
func (a *Aggregator) Month(year int, month time.Month) MonthView {
	return BuildMonth(a.Load(), year, month, a.clock.Now().In(a.progress.Location()))
}

// BuildMonth lays out sets for one month. now decides the today marker.
func BuildMonth(sets Sets, year int, month time.Month, now time.Time) MonthView {
	loc := now.Location()
	first := time.Date(year, month, 1, 0, 0, 0, 0, loc)
	today := utils.StartOfDay(now)

	view := MonthView{Year: year, Month: month}
	var week [7]Day
	col := int(first.Weekday())

	for d := first; d.Month() == month; d = utils.AddDays(d, 1) {
		cell := Day{Date: d, Today: d.Equal(today)}
		switch {
		case sets.Learned.Contains(d):
			cell.Mark = MarkLearned
			view.Learned++
		case sets.Freezed.Contains(d):
			cell.Mark = MarkFreezed
			view.Freezed++
		}
		week[col] = cell
		col++
		if col == 7 {
			view.Weeks = append(view.Weeks, week)
			week = [7]Day{}
			col = 0
		}
	}
	if col > 0 {
		view.Weeks = append(view.Weeks, week)
	}
	return view
}
