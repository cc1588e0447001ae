package calendar

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TanoojVardhan/sloth-planner/internal/model"
)

func date(t *testing.T, s string) *model.Date {
	t.Helper()
	d, err := model.ParseDate(s)
	require.NoError(t, err)
	return &d
}

func testSnapshot(t *testing.T) Snapshot {
	t.Helper()
	day10 := time.Date(2026, 9, 10, 9, 0, 0, 0, time.UTC)
	return Snapshot{
		Events: []*model.Event{
			{EventID: "e1", Title: "standup", StartTime: day10, EndTime: day10.Add(time.Hour)},
			{EventID: "e2", Title: "conference", StartTime: day10.Add(26 * time.Hour), EndTime: day10.Add(74 * time.Hour)}, // spans 11th-13th
		},
		Tasks: []*model.Task{
			{TaskID: "t1", Title: "pack bags", DueDate: date(t, "2026-09-10")},
			{TaskID: "t2", Title: "undated", DueDate: nil},
		},
		Goals: []*model.Goal{
			{GoalID: "g1", Title: "save 500", DueDate: date(t, "2026-09-10")},
		},
	}
}

func TestAgendaBucketsEachItemOnce(t *testing.T) {
	snap := testSnapshot(t)
	from := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)

	buckets := Agenda(snap, from, to)
	require.Len(t, buckets, 2) // the 10th and the 11th (conference start)

	// ascending date order
	for i := 1; i < len(buckets); i++ {
		assert.True(t, buckets[i-1].Date.Before(buckets[i].Date.Time))
	}

	// each dated item appears exactly once across all buckets
	seen := map[string]int{}
	for _, b := range buckets {
		for _, it := range b.Items {
			seen[it.ID]++
		}
	}
	assert.Equal(t, map[string]int{"e1": 1, "e2": 1, "t1": 1, "g1": 1}, seen)
}

func TestAgendaTypePriorityWithinBucket(t *testing.T) {
	snap := testSnapshot(t)
	from := time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 9, 11, 0, 0, 0, 0, time.UTC)

	buckets := Agenda(snap, from, to)
	require.Len(t, buckets, 1)
	items := buckets[0].Items
	require.Len(t, items, 3)
	assert.Equal(t, ItemEvent, items[0].Type)
	assert.Equal(t, ItemTask, items[1].Type)
	assert.Equal(t, ItemGoal, items[2].Type)
}

func TestDayIncludesSpanningEvents(t *testing.T) {
	snap := testSnapshot(t)

	// the conference runs 11th 11:00 through 13th 11:00; the 12th is mid-span
	mid := Day(snap, time.Date(2026, 9, 12, 15, 0, 0, 0, time.UTC))
	require.Len(t, mid.Items, 1)
	assert.Equal(t, "e2", mid.Items[0].ID)

	after := Day(snap, time.Date(2026, 9, 14, 0, 0, 0, 0, time.UTC))
	assert.Empty(t, after.Items)
}

func TestDayZeroDurationEvent(t *testing.T) {
	at := time.Date(2026, 9, 20, 12, 0, 0, 0, time.UTC)
	snap := Snapshot{Events: []*model.Event{
		{EventID: "e3", Title: "ping", StartTime: at, EndTime: at},
	}}

	b := Day(snap, at)
	require.Len(t, b.Items, 1)
	assert.Equal(t, "e3", b.Items[0].ID)
}

func TestWeekShape(t *testing.T) {
	snap := testSnapshot(t)
	// 2026-09-10 is a Thursday; its week starts Sunday the 6th
	buckets := Week(snap, time.Date(2026, 9, 10, 8, 0, 0, 0, time.UTC))
	require.Len(t, buckets, 7)
	assert.Equal(t, "2026-09-06", buckets[0].Date.String())
	assert.Equal(t, "2026-09-12", buckets[6].Date.String())

	// Thursday holds standup + task + goal
	assert.Len(t, buckets[4].Items, 3)
}

func TestMonthGridCoversFullWeeks(t *testing.T) {
	buckets := Month(Snapshot{}, time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC))

	// September 2026: the 1st is a Tuesday, the 30th a Wednesday. The grid
	// runs Sunday Aug 30 through Saturday Oct 3.
	require.NotEmpty(t, buckets)
	assert.Equal(t, "2026-08-30", buckets[0].Date.String())
	assert.Equal(t, "2026-10-03", buckets[len(buckets)-1].Date.String())
	assert.Equal(t, 0, len(buckets)%7)
}

func TestAgendaRespectsRange(t *testing.T) {
	snap := testSnapshot(t)
	from := time.Date(2026, 9, 11, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 9, 12, 0, 0, 0, 0, time.UTC)

	buckets := Agenda(snap, from, to)
	require.Len(t, buckets, 1)
	require.Len(t, buckets[0].Items, 1)
	assert.Equal(t, "e2", buckets[0].Items[0].ID)
}

func TestDayBucketsDueDateWithoutZoneShift(t *testing.T) {
	ny, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)

	snap := Snapshot{Tasks: []*model.Task{
		{TaskID: "t1", Title: "file taxes", DueDate: date(t, "2026-04-15")},
	}}

	// a date-only due date stays on its calendar day in any viewer zone
	b := Day(snap, time.Date(2026, 4, 15, 8, 0, 0, 0, ny))
	require.Len(t, b.Items, 1)
	assert.Equal(t, "t1", b.Items[0].ID)
}
