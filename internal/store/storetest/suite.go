// Package storetest provides a reusable compliance suite that every store
// adapter must pass. Adapter packages call Run with a factory for a fresh,
// empty store.
package storetest

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TanoojVardhan/sloth-planner/internal/model"
	"github.com/TanoojVardhan/sloth-planner/internal/store"
)

// Factory returns a fresh store for one subtest.
type Factory func(t *testing.T) store.Store

// Run executes the adapter compliance suite.
func Run(t *testing.T, factory Factory) {
	t.Run("Tasks", func(t *testing.T) { testTasks(t, factory) })
	t.Run("TaskFilters", func(t *testing.T) { testTaskFilters(t, factory) })
	t.Run("Events", func(t *testing.T) { testEvents(t, factory) })
	t.Run("Goals", func(t *testing.T) { testGoals(t, factory) })
	t.Run("Projects", func(t *testing.T) { testProjects(t, factory) })
	t.Run("Notifications", func(t *testing.T) { testNotifications(t, factory) })
	t.Run("Users", func(t *testing.T) { testUsers(t, factory) })
	t.Run("Roles", func(t *testing.T) { testRoles(t, factory) })
	t.Run("Reports", func(t *testing.T) { testReports(t, factory) })
}

func strPtr(s string) *string                        { return &s }
func boolPtr(b bool) *bool                           { return &b }
func prioPtr(p model.Priority) *model.Priority       { return &p }
func statusPtr(s model.ProjectStatus) *model.ProjectStatus { return &s }

func testTasks(t *testing.T, factory Factory) {
	ctx := context.Background()
	s := factory(t)

	due, err := model.ParseDate("2026-09-15")
	require.NoError(t, err)

	created, err := s.Tasks().Create(ctx, &model.Task{
		UserID:      "u-1",
		Title:       "write report",
		Description: strPtr("quarterly numbers"),
		Priority:    model.PriorityHigh,
		DueDate:     &due,
		Tags:        []string{"work", "urgent"},
	})
	require.NoError(t, err)
	require.NotEmpty(t, created.TaskID)
	require.False(t, created.CreationTime.IsZero())
	require.False(t, created.UpdateTime.IsZero())

	got, err := s.Tasks().GetByID(ctx, created.TaskID)
	require.NoError(t, err)
	assert.Equal(t, "write report", got.Title)
	assert.Equal(t, model.PriorityHigh, got.Priority)
	assert.False(t, got.Completed)
	require.NotNil(t, got.DueDate)
	assert.Equal(t, "2026-09-15", got.DueDate.String())
	assert.ElementsMatch(t, []string{"work", "urgent"}, got.Tags)

	// update advances UpdateTime and never touches CreationTime
	got.Completed = true
	got.Title = "write final report"
	updated, err := s.Tasks().Update(ctx, got)
	require.NoError(t, err)
	assert.True(t, updated.Completed)
	assert.Equal(t, "write final report", updated.Title)
	assert.WithinDuration(t, got.CreationTime, updated.CreationTime, time.Second)
	assert.False(t, updated.UpdateTime.Before(updated.CreationTime))

	require.NoError(t, s.Tasks().Delete(ctx, created.TaskID))
	_, err = s.Tasks().GetByID(ctx, created.TaskID)
	assert.ErrorIs(t, err, model.ErrNotFound)
	assert.ErrorIs(t, s.Tasks().Delete(ctx, created.TaskID), model.ErrNotFound)
}

func testTaskFilters(t *testing.T, factory Factory) {
	ctx := context.Background()
	s := factory(t)

	mk := func(title string, p model.Priority, done bool, due string, tags ...string) {
		var d *model.Date
		if due != "" {
			parsed, err := model.ParseDate(due)
			require.NoError(t, err)
			d = &parsed
		}
		_, err := s.Tasks().Create(ctx, &model.Task{
			UserID: "u-1", Title: title, Priority: p, Completed: done, DueDate: d, Tags: tags,
		})
		require.NoError(t, err)
	}
	mk("a", model.PriorityLow, false, "2026-09-01", "home")
	mk("b", model.PriorityHigh, true, "2026-09-03", "work")
	mk("c", model.PriorityMedium, false, "", "work", "deep")
	// another user's task must never leak into u-1's list
	_, err := s.Tasks().Create(ctx, &model.Task{UserID: "u-2", Title: "x", Priority: model.PriorityLow})
	require.NoError(t, err)

	all, err := s.Tasks().List(ctx, model.TaskFilter{UserID: "u-1"})
	require.NoError(t, err)
	require.Len(t, all, 3)

	open, err := s.Tasks().List(ctx, model.TaskFilter{UserID: "u-1", Completed: boolPtr(false)})
	require.NoError(t, err)
	assert.Len(t, open, 2)

	high, err := s.Tasks().List(ctx, model.TaskFilter{UserID: "u-1", Priority: prioPtr(model.PriorityHigh)})
	require.NoError(t, err)
	require.Len(t, high, 1)
	assert.Equal(t, "b", high[0].Title)

	tagged, err := s.Tasks().List(ctx, model.TaskFilter{UserID: "u-1", Tag: strPtr("work")})
	require.NoError(t, err)
	assert.Len(t, tagged, 2)

	before, err := model.ParseDate("2026-09-02")
	require.NoError(t, err)
	dueSoon, err := s.Tasks().List(ctx, model.TaskFilter{UserID: "u-1", DueBefore: &before})
	require.NoError(t, err)
	require.Len(t, dueSoon, 1)
	assert.Equal(t, "a", dueSoon[0].Title)

	// priority ordering, high first when descending
	byPrio, err := s.Tasks().List(ctx, model.TaskFilter{UserID: "u-1", OrderBy: "priority", Descending: true})
	require.NoError(t, err)
	require.Len(t, byPrio, 3)
	assert.Equal(t, model.PriorityHigh, byPrio[0].Priority)
	assert.Equal(t, model.PriorityLow, byPrio[2].Priority)

	// dueDate ordering puts undated tasks last
	byDue, err := s.Tasks().List(ctx, model.TaskFilter{UserID: "u-1", OrderBy: "dueDate"})
	require.NoError(t, err)
	require.Len(t, byDue, 3)
	assert.Equal(t, "a", byDue[0].Title)
	assert.Nil(t, byDue[2].DueDate)

	page, err := s.Tasks().List(ctx, model.TaskFilter{UserID: "u-1", Limit: 2, Offset: 2})
	require.NoError(t, err)
	assert.Len(t, page, 1)
}

func testEvents(t *testing.T, factory Factory) {
	ctx := context.Background()
	s := factory(t)

	start := time.Date(2026, 9, 10, 14, 0, 0, 0, time.UTC)
	until, err := model.ParseDate("2026-12-31")
	require.NoError(t, err)

	created, err := s.Events().Create(ctx, &model.Event{
		UserID:    "u-1",
		Title:     "standup",
		Location:  strPtr("room 4"),
		StartTime: start,
		EndTime:   start.Add(30 * time.Minute),
		Color:     strPtr("#10b981"),
		Tags:      []string{"team"},
		Recurrence: &model.Recurrence{
			Frequency: "weekly",
			Interval:  1,
			Until:     &until,
		},
	})
	require.NoError(t, err)
	require.NotEmpty(t, created.EventID)

	got, err := s.Events().GetByID(ctx, created.EventID)
	require.NoError(t, err)
	assert.Equal(t, "standup", got.Title)
	assert.True(t, got.StartTime.Equal(start))
	require.NotNil(t, got.Recurrence)
	assert.Equal(t, "weekly", got.Recurrence.Frequency)
	require.NotNil(t, got.Recurrence.Until)
	assert.Equal(t, "2026-12-31", got.Recurrence.Until.String())

	// range query: overlap on [Start, End)
	_, err = s.Events().Create(ctx, &model.Event{
		UserID:    "u-1",
		Title:     "later",
		StartTime: start.Add(48 * time.Hour),
		EndTime:   start.Add(49 * time.Hour),
	})
	require.NoError(t, err)

	inRange, err := s.Events().List(ctx, model.EventRange{
		UserID: "u-1",
		Start:  start.Add(-time.Hour),
		End:    start.Add(time.Hour),
	})
	require.NoError(t, err)
	require.Len(t, inRange, 1)
	assert.Equal(t, "standup", inRange[0].Title)

	// an event ending exactly at range start is excluded
	empty, err := s.Events().List(ctx, model.EventRange{
		UserID: "u-1",
		Start:  start.Add(30 * time.Minute),
		End:    start.Add(time.Hour),
	})
	require.NoError(t, err)
	assert.Empty(t, empty)

	got.Recurrence = nil
	got.Title = "standup (moved)"
	updated, err := s.Events().Update(ctx, got)
	require.NoError(t, err)
	assert.Nil(t, updated.Recurrence)
	assert.Equal(t, "standup (moved)", updated.Title)

	require.NoError(t, s.Events().Delete(ctx, created.EventID))
	_, err = s.Events().GetByID(ctx, created.EventID)
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func testGoals(t *testing.T, factory Factory) {
	ctx := context.Background()
	s := factory(t)

	created, err := s.Goals().Create(ctx, &model.Goal{
		UserID:        "u-1",
		Title:         "read books",
		TargetAmount:  12,
		CurrentAmount: 3,
		Category:      strPtr("learning"),
	})
	require.NoError(t, err)
	assert.False(t, created.Completed)

	// progress below target keeps completed false
	mid, err := s.Goals().UpdateProgress(ctx, created.GoalID, 11)
	require.NoError(t, err)
	assert.Equal(t, float64(11), mid.CurrentAmount)
	assert.False(t, mid.Completed)

	// reaching the target flips completed in the same write
	done, err := s.Goals().UpdateProgress(ctx, created.GoalID, 12)
	require.NoError(t, err)
	assert.True(t, done.Completed)

	// raising the target un-completes; derivation is unconditional
	done.TargetAmount = 20
	reopened, err := s.Goals().Update(ctx, done)
	require.NoError(t, err)
	assert.False(t, reopened.Completed)
	assert.WithinDuration(t, created.CreationTime, reopened.CreationTime, time.Second)

	completedOnly, err := s.Goals().List(ctx, model.GoalFilter{UserID: "u-1", Completed: boolPtr(false)})
	require.NoError(t, err)
	assert.Len(t, completedOnly, 1)

	byCat, err := s.Goals().List(ctx, model.GoalFilter{UserID: "u-1", Category: strPtr("learning")})
	require.NoError(t, err)
	assert.Len(t, byCat, 1)

	require.NoError(t, s.Goals().Delete(ctx, created.GoalID))
	_, err = s.Goals().GetByID(ctx, created.GoalID)
	assert.ErrorIs(t, err, model.ErrNotFound)
	_, err = s.Goals().UpdateProgress(ctx, created.GoalID, 1)
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func testProjects(t *testing.T, factory Factory) {
	ctx := context.Background()
	s := factory(t)

	hours := 40.0
	created, err := s.Projects().Create(ctx, &model.Project{
		UserID:         "u-1",
		Title:          "garden shed",
		Difficulty:     model.DifficultyMedium,
		Status:         model.ProjectIdea,
		EstimatedHours: &hours,
		Category:       strPtr("home"),
		Tags:           []string{"diy"},
	})
	require.NoError(t, err)

	// any status can be assigned from any other status
	created.Status = model.ProjectArchived
	updated, err := s.Projects().Update(ctx, created)
	require.NoError(t, err)
	assert.Equal(t, model.ProjectArchived, updated.Status)

	archived, err := s.Projects().List(ctx, model.ProjectFilter{UserID: "u-1", Status: statusPtr(model.ProjectArchived)})
	require.NoError(t, err)
	require.Len(t, archived, 1)
	assert.Equal(t, "garden shed", archived[0].Title)

	none, err := s.Projects().List(ctx, model.ProjectFilter{UserID: "u-1", Status: statusPtr(model.ProjectInProgress)})
	require.NoError(t, err)
	assert.Empty(t, none)

	require.NoError(t, s.Projects().Delete(ctx, created.ProjectID))
	_, err = s.Projects().GetByID(ctx, created.ProjectID)
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func testNotifications(t *testing.T, factory Factory) {
	ctx := context.Background()
	s := factory(t)
	now := time.Now().UTC()

	direct, err := s.Notifications().Create(ctx, &model.Notification{
		Title:       "task due",
		Message:     "write report is due tomorrow",
		Type:        model.NotificationWarning,
		RecipientID: "u-1",
	})
	require.NoError(t, err)
	assert.False(t, direct.Read)

	broadcast, err := s.Notifications().Create(ctx, &model.Notification{
		Title:       "maintenance window",
		Message:     "service restarts at midnight",
		Type:        model.NotificationAnnouncement,
		RecipientID: model.BroadcastRecipient,
		SenderID:    strPtr("admin-1"),
	})
	require.NoError(t, err)

	expired, err := s.Notifications().Create(ctx, &model.Notification{
		Title:       "old news",
		Message:     "already over",
		Type:        model.NotificationInfo,
		RecipientID: "u-1",
		ExpiresAt:   timePtr(now.Add(-time.Hour)),
	})
	require.NoError(t, err)

	// u-1 sees the direct and the broadcast, but not the expired one
	visible, err := s.Notifications().ListForRecipient(ctx, model.NotificationFilter{RecipientID: "u-1", Now: now})
	require.NoError(t, err)
	require.Len(t, visible, 2)

	withExpired, err := s.Notifications().ListForRecipient(ctx, model.NotificationFilter{RecipientID: "u-1", IncludeExpired: true, Now: now})
	require.NoError(t, err)
	assert.Len(t, withExpired, 3)

	// u-2 only sees the broadcast
	other, err := s.Notifications().ListForRecipient(ctx, model.NotificationFilter{RecipientID: "u-2", Now: now})
	require.NoError(t, err)
	require.Len(t, other, 1)
	assert.Equal(t, model.BroadcastRecipient, other[0].RecipientID)

	// broadcast read state is per user
	require.NoError(t, s.Notifications().MarkRead(ctx, broadcast.NotificationID, "u-1"))
	unreadU1, err := s.Notifications().ListForRecipient(ctx, model.NotificationFilter{RecipientID: "u-1", UnreadOnly: true, Now: now})
	require.NoError(t, err)
	require.Len(t, unreadU1, 1)
	assert.Equal(t, direct.NotificationID, unreadU1[0].NotificationID)

	unreadU2, err := s.Notifications().ListForRecipient(ctx, model.NotificationFilter{RecipientID: "u-2", UnreadOnly: true, Now: now})
	require.NoError(t, err)
	assert.Len(t, unreadU2, 1)

	// marking a broadcast read twice is a no-op
	require.NoError(t, s.Notifications().MarkRead(ctx, broadcast.NotificationID, "u-1"))

	require.NoError(t, s.Notifications().MarkRead(ctx, direct.NotificationID, "u-1"))
	readBack, err := s.Notifications().GetByID(ctx, direct.NotificationID)
	require.NoError(t, err)
	assert.True(t, readBack.Read)

	removed, err := s.Notifications().DeleteExpired(ctx, now)
	require.NoError(t, err)
	assert.Equal(t, int64(1), removed)
	_, err = s.Notifications().GetByID(ctx, expired.NotificationID)
	assert.ErrorIs(t, err, model.ErrNotFound)

	require.NoError(t, s.Notifications().Delete(ctx, broadcast.NotificationID))
	assert.ErrorIs(t, s.Notifications().Delete(ctx, broadcast.NotificationID), model.ErrNotFound)
}

func testUsers(t *testing.T, factory Factory) {
	ctx := context.Background()
	s := factory(t)

	created, err := s.Users().Create(ctx, &model.User{
		UserID:      "u-1",
		Email:       "sloth@example.com",
		DisplayName: strPtr("Sloth"),
	})
	require.NoError(t, err)
	assert.Equal(t, "UTC", created.TimeZone)
	assert.Equal(t, "ACTIVE", created.Status)

	got, err := s.Users().Get(ctx, "u-1")
	require.NoError(t, err)
	assert.Equal(t, "sloth@example.com", got.Email)
	assert.Nil(t, got.LastActiveTime)

	got.TimeZone = "America/New_York"
	got.DisplayName = strPtr("Speedy")
	updated, err := s.Users().Update(ctx, got)
	require.NoError(t, err)
	assert.Equal(t, "America/New_York", updated.TimeZone)
	require.NotNil(t, updated.DisplayName)
	assert.Equal(t, "Speedy", *updated.DisplayName)

	require.NoError(t, s.Users().UpdateLastActive(ctx, "u-1"))
	active, err := s.Users().Get(ctx, "u-1")
	require.NoError(t, err)
	assert.NotNil(t, active.LastActiveTime)

	require.NoError(t, s.Users().Delete(ctx, "u-1"))
	_, err = s.Users().Get(ctx, "u-1")
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func testRoles(t *testing.T, factory Factory) {
	ctx := context.Background()
	s := factory(t)

	_, err := s.Roles().Get(ctx, "u-1")
	assert.ErrorIs(t, err, model.ErrNotFound)

	set, err := s.Roles().Set(ctx, "u-1", model.RoleAdmin)
	require.NoError(t, err)
	assert.Equal(t, model.RoleAdmin, set.Role)

	// Set upserts
	set, err = s.Roles().Set(ctx, "u-1", model.RoleSuperAdmin)
	require.NoError(t, err)
	assert.Equal(t, model.RoleSuperAdmin, set.Role)

	got, err := s.Roles().Get(ctx, "u-1")
	require.NoError(t, err)
	assert.Equal(t, model.RoleSuperAdmin, got.Role)
}

func testReports(t *testing.T, factory Factory) {
	ctx := context.Background()
	s := factory(t)

	created, err := s.Reports().Create(ctx, &model.ModerationReport{
		ReporterID: "u-1",
		Subject:    "user u-9",
		Reason:     "spam broadcasts",
	})
	require.NoError(t, err)
	assert.Equal(t, model.ReportOpen, created.Status)
	assert.Nil(t, created.ResolvedTime)

	open := model.ReportOpen
	listed, err := s.Reports().List(ctx, &open, 10)
	require.NoError(t, err)
	require.Len(t, listed, 1)

	resolved, err := s.Reports().Resolve(ctx, created.ReportID, "admin-1", "warned the user", model.ReportResolved)
	require.NoError(t, err)
	assert.Equal(t, model.ReportResolved, resolved.Status)
	require.NotNil(t, resolved.Resolution)
	assert.Equal(t, "warned the user", *resolved.Resolution)
	require.NotNil(t, resolved.ResolvedBy)
	assert.NotNil(t, resolved.ResolvedTime)

	stillOpen, err := s.Reports().List(ctx, &open, 10)
	require.NoError(t, err)
	assert.Empty(t, stillOpen)

	all, err := s.Reports().List(ctx, nil, 0)
	require.NoError(t, err)
	assert.Len(t, all, 1)

	_, err = s.Reports().Resolve(ctx, "missing", "admin-1", "", model.ReportDismissed)
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func timePtr(t time.Time) *time.Time { return &t }
