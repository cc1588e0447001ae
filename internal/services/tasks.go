package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/TanoojVardhan/sloth-planner/internal/model"
	"github.com/TanoojVardhan/sloth-planner/internal/store"
)

// TaskService handles task CRUD on behalf of one authenticated user.
type TaskService struct {
	store store.Store
}

func NewTaskService(s store.Store) *TaskService { return &TaskService{store: s} }

func (s *TaskService) CreateTask(ctx context.Context, t *model.Task) (*model.Task, error) {
	if err := validateTask(t); err != nil {
		return nil, err
	}
	if t.Priority == "" {
		t.Priority = model.PriorityMedium
	}
	return s.store.Tasks().Create(ctx, t)
}

func (s *TaskService) GetTask(ctx context.Context, userID, taskID string) (*model.Task, error) {
	return s.ownedTask(ctx, userID, taskID)
}

func (s *TaskService) ListTasks(ctx context.Context, f model.TaskFilter) ([]*model.Task, error) {
	if f.UserID == "" {
		return nil, fmt.Errorf("%w: userId is required", model.ErrValidation)
	}
	switch f.OrderBy {
	case "", "creationTime", "dueDate", "priority":
	default:
		return nil, fmt.Errorf("%w: unknown orderBy %q", model.ErrValidation, f.OrderBy)
	}
	return s.store.Tasks().List(ctx, f)
}

func (s *TaskService) UpdateTask(ctx context.Context, userID string, t *model.Task) (*model.Task, error) {
	if err := validateTask(t); err != nil {
		return nil, err
	}
	if _, err := s.ownedTask(ctx, userID, t.TaskID); err != nil {
		return nil, err
	}
	return s.store.Tasks().Update(ctx, t)
}

// ToggleTask flips the completed flag.
func (s *TaskService) ToggleTask(ctx context.Context, userID, taskID string) (*model.Task, error) {
	rec, err := s.ownedTask(ctx, userID, taskID)
	if err != nil {
		return nil, err
	}
	rec.Completed = !rec.Completed
	return s.store.Tasks().Update(ctx, rec)
}

func (s *TaskService) DeleteTask(ctx context.Context, userID, taskID string) error {
	if _, err := s.ownedTask(ctx, userID, taskID); err != nil {
		return err
	}
	return s.store.Tasks().Delete(ctx, taskID)
}

// ownedTask loads the task and verifies the caller owns it. A record owned by
// someone else is unauthorized, not missing.
func (s *TaskService) ownedTask(ctx context.Context, userID, taskID string) (*model.Task, error) {
	rec, err := s.store.Tasks().GetByID(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if rec.UserID != userID {
		return nil, model.ErrUnauthorized
	}
	return rec, nil
}

func validateTask(t *model.Task) error {
	if strings.TrimSpace(t.Title) == "" {
		return fmt.Errorf("%w: title is required", model.ErrValidation)
	}
	if t.UserID == "" {
		return fmt.Errorf("%w: userId is required", model.ErrValidation)
	}
	if t.Priority != "" && !t.Priority.Valid() {
		return fmt.Errorf("%w: invalid priority %q", model.ErrValidation, t.Priority)
	}
	return nil
}
