package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/TanoojVardhan/sloth-planner/internal/model"
	"github.com/TanoojVardhan/sloth-planner/internal/store"
)

// EventService handles calendar event CRUD.
type EventService struct {
	store store.Store
}

func NewEventService(s store.Store) *EventService { return &EventService{store: s} }

func (s *EventService) CreateEvent(ctx context.Context, e *model.Event) (*model.Event, error) {
	if err := validateEvent(e); err != nil {
		return nil, err
	}
	return s.store.Events().Create(ctx, e)
}

func (s *EventService) GetEvent(ctx context.Context, userID, eventID string) (*model.Event, error) {
	return s.ownedEvent(ctx, userID, eventID)
}

func (s *EventService) ListEvents(ctx context.Context, r model.EventRange) ([]*model.Event, error) {
	if r.UserID == "" {
		return nil, fmt.Errorf("%w: userId is required", model.ErrValidation)
	}
	if !r.Start.IsZero() && !r.End.IsZero() && !r.End.After(r.Start) {
		return nil, fmt.Errorf("%w: range end must be after start", model.ErrValidation)
	}
	return s.store.Events().List(ctx, r)
}

func (s *EventService) UpdateEvent(ctx context.Context, userID string, e *model.Event) (*model.Event, error) {
	if err := validateEvent(e); err != nil {
		return nil, err
	}
	if _, err := s.ownedEvent(ctx, userID, e.EventID); err != nil {
		return nil, err
	}
	return s.store.Events().Update(ctx, e)
}

func (s *EventService) DeleteEvent(ctx context.Context, userID, eventID string) error {
	if _, err := s.ownedEvent(ctx, userID, eventID); err != nil {
		return err
	}
	return s.store.Events().Delete(ctx, eventID)
}

func (s *EventService) ownedEvent(ctx context.Context, userID, eventID string) (*model.Event, error) {
	rec, err := s.store.Events().GetByID(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if rec.UserID != userID {
		return nil, model.ErrUnauthorized
	}
	return rec, nil
}

func validateEvent(e *model.Event) error {
	if strings.TrimSpace(e.Title) == "" {
		return fmt.Errorf("%w: title is required", model.ErrValidation)
	}
	if e.UserID == "" {
		return fmt.Errorf("%w: userId is required", model.ErrValidation)
	}
	if e.StartTime.IsZero() || e.EndTime.IsZero() {
		return fmt.Errorf("%w: startTime and endTime are required", model.ErrValidation)
	}
	if e.EndTime.Before(e.StartTime) {
		return fmt.Errorf("%w: endTime precedes startTime", model.ErrValidation)
	}
	if e.Recurrence != nil {
		switch e.Recurrence.Frequency {
		case "daily", "weekly", "monthly", "yearly":
		default:
			return fmt.Errorf("%w: invalid recurrence frequency %q", model.ErrValidation, e.Recurrence.Frequency)
		}
		if e.Recurrence.Interval < 0 {
			return fmt.Errorf("%w: recurrence interval must be positive", model.ErrValidation)
		}
	}
	return nil
}
