package assistant

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TanoojVardhan/sloth-planner/internal/model"
	"github.com/TanoojVardhan/sloth-planner/internal/services"
	"github.com/TanoojVardhan/sloth-planner/internal/store"
	"github.com/TanoojVardhan/sloth-planner/internal/store/sqlite"
)

func newService(t *testing.T) (*Service, store.Store) {
	t.Helper()
	db, err := sqlite.OpenMemory()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	st, err := sqlite.NewWithDB(db)
	require.NoError(t, err)

	svc := NewService(
		services.NewTaskService(st),
		services.NewEventService(st),
		services.NewNotificationService(st),
		zerolog.Nop(),
	)
	return svc, st
}

func TestExecuteCreatesTask(t *testing.T) {
	ctx := context.Background()
	svc, st := newService(t)

	res, err := svc.Execute(ctx, "alice", "add task buy milk tomorrow high priority")
	require.NoError(t, err)
	require.NotNil(t, res.Task)
	assert.Equal(t, "buy milk", res.Task.Title)
	assert.Equal(t, model.PriorityHigh, res.Task.Priority)
	assert.NotNil(t, res.Task.DueDate)

	stored, err := st.Tasks().GetByID(ctx, res.Task.TaskID)
	require.NoError(t, err)
	assert.Equal(t, "alice", stored.UserID)
}

func TestExecuteCreatesAllDayEvent(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(t)

	res, err := svc.Execute(ctx, "alice", "schedule meeting with the landlord tomorrow")
	require.NoError(t, err)
	require.NotNil(t, res.Event)
	assert.True(t, res.Event.AllDay)
	assert.Equal(t, 24.0, res.Event.EndTime.Sub(res.Event.StartTime).Hours())
}

func TestExecuteCreatesReminderNotification(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(t)

	res, err := svc.Execute(ctx, "alice", "remind me to call mom tomorrow")
	require.NoError(t, err)
	require.NotNil(t, res.Notification)
	assert.Equal(t, "call mom", res.Notification.Message)
	assert.Equal(t, "alice", res.Notification.RecipientID)
}

func TestExecuteUnrecognizedCreatesNothing(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(t)

	res, err := svc.Execute(ctx, "alice", "how tall is the eiffel tower")
	require.NoError(t, err)
	assert.Equal(t, IntentUnrecognized, res.Command.Intent)
	assert.Nil(t, res.Task)
	assert.Nil(t, res.Event)
	assert.Nil(t, res.Notification)
}
