// Package calendar derives calendar groupings from an immutable snapshot of a
// user's records. Everything here is a pure function: fetch once, derive per
// view, never persist the result.
package calendar

import (
	"sort"
	"time"

	"github.com/TanoojVardhan/sloth-planner/internal/model"
)

// ItemType identifies what kind of record a calendar item wraps. Within a
// day, events sort before tasks, tasks before goals.
type ItemType string

const (
	ItemEvent ItemType = "event"
	ItemTask  ItemType = "task"
	ItemGoal  ItemType = "goal"
)

func (t ItemType) rank() int {
	switch t {
	case ItemEvent:
		return 0
	case ItemTask:
		return 1
	case ItemGoal:
		return 2
	}
	return 3
}

// Item is one dated entry in a calendar bucket.
type Item struct {
	Type      ItemType   `json:"type"`
	ID        string     `json:"id"`
	Title     string     `json:"title"`
	AllDay    bool       `json:"allDay"`
	StartTime *time.Time `json:"startTime,omitempty"`
	EndTime   *time.Time `json:"endTime,omitempty"`
	Color     *string    `json:"color,omitempty"`
	Completed bool       `json:"completed"`
}

// Bucket groups the items of a single calendar day.
type Bucket struct {
	Date  model.Date `json:"date"`
	Items []Item     `json:"items"`
}

// Snapshot holds everything fetched for the visible range. Projects have no
// date attribute and are never bucketed; callers surface them alongside the
// grid (see DESIGN.md).
type Snapshot struct {
	Tasks    []*model.Task
	Events   []*model.Event
	Goals    []*model.Goal
	Projects []*model.Project
}

// Day returns the bucket for the day containing anchor, in anchor's location.
// Multi-day events appear in every day they span.
func Day(snap Snapshot, anchor time.Time) Bucket {
	return dayBucket(snap, startOfDay(anchor))
}

// Week returns seven buckets for the Sunday-start week containing anchor.
func Week(snap Snapshot, anchor time.Time) []Bucket {
	start := startOfWeek(anchor)
	out := make([]Bucket, 0, 7)
	for i := 0; i < 7; i++ {
		out = append(out, dayBucket(snap, start.AddDate(0, 0, i)))
	}
	return out
}

// Month returns full grid weeks covering anchor's month: from the Sunday on
// or before the 1st through the Saturday on or after the last day.
func Month(snap Snapshot, anchor time.Time) []Bucket {
	first := time.Date(anchor.Year(), anchor.Month(), 1, 0, 0, 0, 0, anchor.Location())
	last := first.AddDate(0, 1, -1)
	gridStart := startOfWeek(first)
	gridEnd := startOfWeek(last).AddDate(0, 0, 7)

	var out []Bucket
	for day := gridStart; day.Before(gridEnd); day = day.AddDate(0, 0, 1) {
		out = append(out, dayBucket(snap, day))
	}
	return out
}

// Agenda lists the days in [from, to) that have at least one item, ascending.
// Unlike the grid views, every item lands in exactly one bucket: events on
// their start date, tasks and goals on their due date.
func Agenda(snap Snapshot, from, to time.Time) []Bucket {
	byDay := map[string]*Bucket{}
	place := func(day time.Time, it Item) {
		if day.Before(startOfDay(from)) || !day.Before(to) {
			return
		}
		key := day.Format(time.DateOnly)
		b, ok := byDay[key]
		if !ok {
			b = &Bucket{Date: model.NewDate(day)}
			byDay[key] = b
		}
		b.Items = append(b.Items, it)
	}

	for _, e := range snap.Events {
		place(startOfDayIn(e.StartTime, from.Location()), eventItem(e))
	}
	for _, t := range snap.Tasks {
		if t.DueDate != nil {
			place(dateAt(*t.DueDate, from.Location()), taskItem(t))
		}
	}
	for _, g := range snap.Goals {
		if g.DueDate != nil {
			place(dateAt(*g.DueDate, from.Location()), goalItem(g))
		}
	}

	keys := make([]string, 0, len(byDay))
	for k := range byDay {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make([]Bucket, 0, len(keys))
	for _, k := range keys {
		b := byDay[k]
		sortItems(b.Items)
		out = append(out, *b)
	}
	return out
}

func dayBucket(snap Snapshot, day time.Time) Bucket {
	dayStart := startOfDay(day)
	dayEnd := dayStart.AddDate(0, 0, 1)
	b := Bucket{Date: model.NewDate(dayStart)}

	for _, e := range snap.Events {
		if overlapsDay(e, dayStart, dayEnd) {
			b.Items = append(b.Items, eventItem(e))
		}
	}
	for _, t := range snap.Tasks {
		if t.DueDate != nil && sameDay(t.DueDate.Time, dayStart) {
			b.Items = append(b.Items, taskItem(t))
		}
	}
	for _, g := range snap.Goals {
		if g.DueDate != nil && sameDay(g.DueDate.Time, dayStart) {
			b.Items = append(b.Items, goalItem(g))
		}
	}

	sortItems(b.Items)
	return b
}

// overlapsDay reports whether the event touches [dayStart, dayEnd). A
// zero-duration event still lands on its start day.
func overlapsDay(e *model.Event, dayStart, dayEnd time.Time) bool {
	start := e.StartTime.In(dayStart.Location())
	end := e.EndTime.In(dayStart.Location())
	if !end.After(start) {
		return !start.Before(dayStart) && start.Before(dayEnd)
	}
	return start.Before(dayEnd) && end.After(dayStart)
}

func sortItems(items []Item) {
	sort.SliceStable(items, func(i, j int) bool {
		a, b := items[i], items[j]
		if a.Type.rank() != b.Type.rank() {
			return a.Type.rank() < b.Type.rank()
		}
		at, bt := itemClock(a), itemClock(b)
		if !at.Equal(bt) {
			return at.Before(bt)
		}
		return a.Title < b.Title
	})
}

// itemClock orders items within the same type; undated items go last.
func itemClock(it Item) time.Time {
	if it.StartTime != nil {
		return *it.StartTime
	}
	return time.Date(9999, 1, 1, 0, 0, 0, 0, time.UTC)
}

func eventItem(e *model.Event) Item {
	start, end := e.StartTime, e.EndTime
	return Item{
		Type:      ItemEvent,
		ID:        e.EventID,
		Title:     e.Title,
		AllDay:    e.AllDay,
		StartTime: &start,
		EndTime:   &end,
		Color:     e.Color,
	}
}

func taskItem(t *model.Task) Item {
	return Item{Type: ItemTask, ID: t.TaskID, Title: t.Title, AllDay: true, Completed: t.Completed}
}

func goalItem(g *model.Goal) Item {
	return Item{Type: ItemGoal, ID: g.GoalID, Title: g.Title, AllDay: true, Completed: g.Completed}
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func startOfDayIn(t time.Time, loc *time.Location) time.Time {
	return startOfDay(t.In(loc))
}

// dateAt pins a calendar date to midnight in loc. Date-only fields carry no
// zone, so their stored day is taken verbatim rather than converted.
func dateAt(d model.Date, loc *time.Location) time.Time {
	return time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, loc)
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

func startOfWeek(t time.Time) time.Time {
	d := startOfDay(t)
	return d.AddDate(0, 0, -int(d.Weekday()))
}
