package sqlite

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TanoojVardhan/sloth-planner/internal/model"
	"github.com/TanoojVardhan/sloth-planner/internal/store"
	"github.com/TanoojVardhan/sloth-planner/internal/store/storetest"
)

func TestSQLiteStoreCompliance(t *testing.T) {
	storetest.Run(t, func(t *testing.T) store.Store {
		db, err := OpenMemory()
		require.NoError(t, err)
		t.Cleanup(func() { _ = db.Close() })

		s, err := NewWithDB(db)
		require.NoError(t, err)
		return s
	})
}

func TestDeleteNotificationClearsReadMarkers(t *testing.T) {
	db, err := OpenMemory()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	s, err := NewWithDB(db)
	require.NoError(t, err)

	ctx := context.Background()
	n, err := s.Notifications().Create(ctx, &model.Notification{
		Title:       "maintenance window",
		Message:     "back at noon",
		Type:        model.NotificationAnnouncement,
		RecipientID: model.BroadcastRecipient,
	})
	require.NoError(t, err)
	require.NoError(t, s.Notifications().MarkRead(ctx, n.NotificationID, "alice"))

	require.NoError(t, s.Notifications().Delete(ctx, n.NotificationID))

	var count int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM notification_reads WHERE notification_id=?`, n.NotificationID).Scan(&count))
	assert.Equal(t, 0, count)
}

func TestBootstrapIsIdempotent(t *testing.T) {
	db, err := OpenMemory()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, Bootstrap(db))
	require.NoError(t, Bootstrap(db))
}
