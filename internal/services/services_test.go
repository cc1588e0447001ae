package services_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TanoojVardhan/sloth-planner/internal/model"
	"github.com/TanoojVardhan/sloth-planner/internal/services"
	"github.com/TanoojVardhan/sloth-planner/internal/store"
	"github.com/TanoojVardhan/sloth-planner/internal/store/sqlite"
)

func newStore(t *testing.T) store.Store {
	t.Helper()
	db, err := sqlite.OpenMemory()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	s, err := sqlite.NewWithDB(db)
	require.NoError(t, err)
	return s
}

func TestTaskServiceOwnership(t *testing.T) {
	ctx := context.Background()
	st := newStore(t)
	svc := services.NewTaskService(st)

	created, err := svc.CreateTask(ctx, &model.Task{UserID: "alice", Title: "water plants"})
	require.NoError(t, err)
	assert.Equal(t, model.PriorityMedium, created.Priority)

	// owner sees the task
	got, err := svc.GetTask(ctx, "alice", created.TaskID)
	require.NoError(t, err)
	assert.Equal(t, "water plants", got.Title)

	// someone else's fetch is unauthorized, not missing
	_, err = svc.GetTask(ctx, "bob", created.TaskID)
	assert.ErrorIs(t, err, model.ErrUnauthorized)

	// a genuinely missing task is not-found
	_, err = svc.GetTask(ctx, "alice", "nope")
	assert.ErrorIs(t, err, model.ErrNotFound)

	// mutation by a non-owner is rejected before it reaches storage
	err = svc.DeleteTask(ctx, "bob", created.TaskID)
	assert.ErrorIs(t, err, model.ErrUnauthorized)
	_, err = svc.GetTask(ctx, "alice", created.TaskID)
	require.NoError(t, err)
}

func TestTaskServiceValidation(t *testing.T) {
	ctx := context.Background()
	svc := services.NewTaskService(newStore(t))

	_, err := svc.CreateTask(ctx, &model.Task{UserID: "alice", Title: "   "})
	assert.ErrorIs(t, err, model.ErrValidation)

	_, err = svc.CreateTask(ctx, &model.Task{UserID: "alice", Title: "ok", Priority: "urgent"})
	assert.ErrorIs(t, err, model.ErrValidation)

	_, err = svc.ListTasks(ctx, model.TaskFilter{UserID: "alice", OrderBy: "color"})
	assert.ErrorIs(t, err, model.ErrValidation)
}

func TestTaskServiceToggle(t *testing.T) {
	ctx := context.Background()
	svc := services.NewTaskService(newStore(t))

	created, err := svc.CreateTask(ctx, &model.Task{UserID: "alice", Title: "stretch"})
	require.NoError(t, err)

	toggled, err := svc.ToggleTask(ctx, "alice", created.TaskID)
	require.NoError(t, err)
	assert.True(t, toggled.Completed)

	toggled, err = svc.ToggleTask(ctx, "alice", created.TaskID)
	require.NoError(t, err)
	assert.False(t, toggled.Completed)
}

func TestGoalServiceDerivedCompletion(t *testing.T) {
	ctx := context.Background()
	svc := services.NewGoalService(newStore(t))

	created, err := svc.CreateGoal(ctx, &model.Goal{UserID: "alice", Title: "run 100km", TargetAmount: 100})
	require.NoError(t, err)
	assert.False(t, created.Completed)

	// clients cannot force completion; the amounts decide
	created.Completed = true
	created.CurrentAmount = 40
	updated, err := svc.UpdateGoal(ctx, "alice", created)
	require.NoError(t, err)
	assert.False(t, updated.Completed)

	done, err := svc.UpdateProgress(ctx, "alice", created.GoalID, 100)
	require.NoError(t, err)
	assert.True(t, done.Completed)

	_, err = svc.UpdateProgress(ctx, "alice", created.GoalID, -1)
	assert.ErrorIs(t, err, model.ErrValidation)

	_, err = svc.UpdateProgress(ctx, "bob", created.GoalID, 10)
	assert.ErrorIs(t, err, model.ErrUnauthorized)
}

func TestProjectServiceStatus(t *testing.T) {
	ctx := context.Background()
	svc := services.NewProjectService(newStore(t))

	created, err := svc.CreateProject(ctx, &model.Project{UserID: "alice", Title: "treehouse"})
	require.NoError(t, err)
	assert.Equal(t, model.ProjectIdea, created.Status)
	assert.Equal(t, model.DifficultyMedium, created.Difficulty)

	// transitions are unguarded: archived straight from idea is fine
	updated, err := svc.SetStatus(ctx, "alice", created.ProjectID, model.ProjectArchived)
	require.NoError(t, err)
	assert.Equal(t, model.ProjectArchived, updated.Status)

	_, err = svc.SetStatus(ctx, "alice", created.ProjectID, "paused")
	assert.ErrorIs(t, err, model.ErrValidation)
}

func TestNotificationServiceBroadcast(t *testing.T) {
	ctx := context.Background()
	svc := services.NewNotificationService(newStore(t))

	_, err := svc.Notify(ctx, &model.Notification{
		Title: "due soon", Message: "task due", RecipientID: "alice",
	})
	require.NoError(t, err)

	// direct creation cannot target the broadcast recipient
	_, err = svc.Notify(ctx, &model.Notification{
		Title: "x", Message: "y", RecipientID: model.BroadcastRecipient,
	})
	assert.ErrorIs(t, err, model.ErrValidation)

	b, err := svc.Broadcast(ctx, "admin-1", &model.Notification{
		Title: "maintenance", Message: "restart tonight", Type: model.NotificationAnnouncement,
	})
	require.NoError(t, err)
	require.NotNil(t, b.SenderID)
	assert.Equal(t, "admin-1", *b.SenderID)

	// both users see the broadcast; read state is independent
	require.NoError(t, svc.MarkRead(ctx, "alice", b.NotificationID))
	forBob, err := svc.List(ctx, "bob", true, false, 0)
	require.NoError(t, err)
	require.Len(t, forBob, 1)
	assert.False(t, forBob[0].Read)

	forAlice, err := svc.List(ctx, "alice", true, false, 0)
	require.NoError(t, err)
	require.Len(t, forAlice, 1) // only the direct one remains unread

	// a user cannot delete a broadcast
	err = svc.Delete(ctx, "alice", b.NotificationID)
	assert.ErrorIs(t, err, model.ErrUnauthorized)
	require.NoError(t, svc.AdminDelete(ctx, b.NotificationID))
}

// lateGetUsers misses its first Get so EnsureUser proceeds to Create against
// a row that already exists, like the loser of two concurrent first sign-ins.
type lateGetUsers struct {
	store.Users
	missed bool
}

func (u *lateGetUsers) Get(ctx context.Context, userID string) (*model.User, error) {
	if !u.missed {
		u.missed = true
		return nil, model.ErrNotFound
	}
	return u.Users.Get(ctx, userID)
}

type lateGetStore struct {
	store.Store
	users *lateGetUsers
}

func (s *lateGetStore) Users() store.Users { return s.users }

func TestUserServiceEnsureUserLostRace(t *testing.T) {
	ctx := context.Background()
	base := newStore(t)

	_, err := base.Users().Create(ctx, &model.User{UserID: "alice", Email: "alice@example.com"})
	require.NoError(t, err)

	svc := services.NewUserService(&lateGetStore{Store: base, users: &lateGetUsers{Users: base.Users()}})
	got, err := svc.EnsureUser(ctx, &model.User{UserID: "alice", Email: "alice@example.com"})
	require.NoError(t, err)
	assert.Equal(t, "alice", got.UserID)
	assert.Equal(t, "alice@example.com", got.Email)
}

func TestUserServiceRoles(t *testing.T) {
	ctx := context.Background()
	svc := services.NewUserService(newStore(t))

	u, err := svc.EnsureUser(ctx, &model.User{UserID: "alice", Email: "alice@example.com"})
	require.NoError(t, err)
	assert.Equal(t, "UTC", u.TimeZone)

	// second sign-in returns the existing record
	again, err := svc.EnsureUser(ctx, &model.User{UserID: "alice", Email: "alice@example.com"})
	require.NoError(t, err)
	assert.Equal(t, u.CreationTime.UTC(), again.CreationTime.UTC())

	// no role row means plain user
	role, err := svc.GetRole(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, model.RoleUser, role)

	// only a super admin may mint super admins
	_, err = svc.SetRole(ctx, model.RoleAdmin, "alice", model.RoleSuperAdmin)
	assert.ErrorIs(t, err, model.ErrUnauthorized)

	set, err := svc.SetRole(ctx, model.RoleSuperAdmin, "alice", model.RoleAdmin)
	require.NoError(t, err)
	assert.Equal(t, model.RoleAdmin, set.Role)

	// roles can only be granted to existing users
	_, err = svc.SetRole(ctx, model.RoleSuperAdmin, "ghost", model.RoleAdmin)
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestReportServiceLifecycle(t *testing.T) {
	ctx := context.Background()
	svc := services.NewReportService(newStore(t))

	created, err := svc.FileReport(ctx, &model.ModerationReport{
		ReporterID: "alice", Subject: "user bob", Reason: "abusive broadcast",
	})
	require.NoError(t, err)
	assert.Equal(t, model.ReportOpen, created.Status)

	_, err = svc.ResolveReport(ctx, created.ReportID, "admin-1", "looked fine", model.ReportOpen)
	assert.ErrorIs(t, err, model.ErrValidation)

	resolved, err := svc.ResolveReport(ctx, created.ReportID, "admin-1", "warned bob", model.ReportResolved)
	require.NoError(t, err)
	assert.Equal(t, model.ReportResolved, resolved.Status)
}
