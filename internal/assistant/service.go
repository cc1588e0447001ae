package assistant

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/TanoojVardhan/sloth-planner/internal/model"
	"github.com/TanoojVardhan/sloth-planner/internal/services"
)

// Result reports what a command produced.
type Result struct {
	Command      Command             `json:"command"`
	Task         *model.Task         `json:"task,omitempty"`
	Event        *model.Event        `json:"event,omitempty"`
	Notification *model.Notification `json:"notification,omitempty"`
}

// Service parses free-text commands and materializes them through the entity
// services.
type Service struct {
	tasks         *services.TaskService
	events        *services.EventService
	notifications *services.NotificationService
	log           zerolog.Logger
	now           func() time.Time
}

func NewService(tasks *services.TaskService, events *services.EventService, notifications *services.NotificationService, log zerolog.Logger) *Service {
	return &Service{
		tasks:         tasks,
		events:        events,
		notifications: notifications,
		log:           log,
		now:           func() time.Time { return time.Now().UTC() },
	}
}

// Execute parses input and creates the corresponding record for userID. An
// unrecognized command returns the parse result with nothing created.
func (s *Service) Execute(ctx context.Context, userID, input string) (*Result, error) {
	cmd := Parse(input, s.now())
	res := &Result{Command: cmd}

	switch cmd.Intent {
	case IntentTask:
		priority := cmd.Priority
		if priority == "" {
			priority = model.PriorityMedium
		}
		task, err := s.tasks.CreateTask(ctx, &model.Task{
			UserID:   userID,
			Title:    cmd.Title,
			Priority: priority,
			DueDate:  cmd.DueDate,
			Tags:     cmd.Tags,
		})
		if err != nil {
			return nil, fmt.Errorf("assistant create task: %w", err)
		}
		res.Task = task

	case IntentEvent:
		day := s.now()
		if cmd.DueDate != nil {
			day = cmd.DueDate.Time
		}
		start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)
		event, err := s.events.CreateEvent(ctx, &model.Event{
			UserID:    userID,
			Title:     cmd.Title,
			StartTime: start,
			EndTime:   start.AddDate(0, 0, 1),
			AllDay:    true,
			Tags:      cmd.Tags,
		})
		if err != nil {
			return nil, fmt.Errorf("assistant create event: %w", err)
		}
		res.Event = event

	case IntentReminder:
		n, err := s.notifications.Notify(ctx, &model.Notification{
			Title:       "Reminder",
			Message:     cmd.Title,
			Type:        model.NotificationInfo,
			RecipientID: userID,
		})
		if err != nil {
			return nil, fmt.Errorf("assistant create reminder: %w", err)
		}
		res.Notification = n

	case IntentUnrecognized:
		s.log.Debug().Str("input", input).Msg("assistant could not recognize command")
	}

	return res, nil
}
