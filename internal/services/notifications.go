package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/TanoojVardhan/sloth-planner/internal/model"
	"github.com/TanoojVardhan/sloth-planner/internal/store"
)

// NotificationService handles per-user and broadcast notifications.
type NotificationService struct {
	store store.Store
	now   func() time.Time
}

func NewNotificationService(s store.Store) *NotificationService {
	return &NotificationService{store: s, now: func() time.Time { return time.Now().UTC() }}
}

// Notify creates a notification addressed to a single user.
func (s *NotificationService) Notify(ctx context.Context, n *model.Notification) (*model.Notification, error) {
	if err := validateNotification(n); err != nil {
		return nil, err
	}
	if n.RecipientID == model.BroadcastRecipient {
		return nil, fmt.Errorf("%w: broadcasts go through Broadcast", model.ErrValidation)
	}
	return s.store.Notifications().Create(ctx, n)
}

// Broadcast creates a notification addressed to every user. Callers must have
// verified the sender's admin role; the service records who sent it.
func (s *NotificationService) Broadcast(ctx context.Context, senderID string, n *model.Notification) (*model.Notification, error) {
	n.RecipientID = model.BroadcastRecipient
	n.SenderID = &senderID
	if err := validateNotification(n); err != nil {
		return nil, err
	}
	return s.store.Notifications().Create(ctx, n)
}

// List returns notifications visible to userID, newest first. Expired ones
// are filtered out unless includeExpired is set.
func (s *NotificationService) List(ctx context.Context, userID string, unreadOnly, includeExpired bool, limit int) ([]*model.Notification, error) {
	if userID == "" {
		return nil, fmt.Errorf("%w: userId is required", model.ErrValidation)
	}
	return s.store.Notifications().ListForRecipient(ctx, model.NotificationFilter{
		RecipientID:    userID,
		UnreadOnly:     unreadOnly,
		IncludeExpired: includeExpired,
		Now:            s.now(),
		Limit:          limit,
	})
}

// MarkRead marks one notification read for userID. Direct notifications must
// be addressed to the caller; broadcast read state is tracked per user.
func (s *NotificationService) MarkRead(ctx context.Context, userID, notificationID string) error {
	rec, err := s.store.Notifications().GetByID(ctx, notificationID)
	if err != nil {
		return err
	}
	if rec.RecipientID != userID && rec.RecipientID != model.BroadcastRecipient {
		return model.ErrUnauthorized
	}
	return s.store.Notifications().MarkRead(ctx, notificationID, userID)
}

// Delete removes a direct notification. Broadcasts can only be deleted by an
// admin through the admin surface.
func (s *NotificationService) Delete(ctx context.Context, userID, notificationID string) error {
	rec, err := s.store.Notifications().GetByID(ctx, notificationID)
	if err != nil {
		return err
	}
	if rec.RecipientID != userID {
		return model.ErrUnauthorized
	}
	return s.store.Notifications().Delete(ctx, notificationID)
}

// AdminDelete removes any notification, including broadcasts.
func (s *NotificationService) AdminDelete(ctx context.Context, notificationID string) error {
	return s.store.Notifications().Delete(ctx, notificationID)
}

// SweepExpired removes notifications whose expiry has passed.
func (s *NotificationService) SweepExpired(ctx context.Context) (int64, error) {
	return s.store.Notifications().DeleteExpired(ctx, s.now())
}

func validateNotification(n *model.Notification) error {
	if strings.TrimSpace(n.Title) == "" {
		return fmt.Errorf("%w: title is required", model.ErrValidation)
	}
	if strings.TrimSpace(n.Message) == "" {
		return fmt.Errorf("%w: message is required", model.ErrValidation)
	}
	if n.RecipientID == "" {
		return fmt.Errorf("%w: recipientId is required", model.ErrValidation)
	}
	if n.Type == "" {
		n.Type = model.NotificationInfo
	}
	if !n.Type.Valid() {
		return fmt.Errorf("%w: invalid notification type %q", model.ErrValidation, n.Type)
	}
	return nil
}
