package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/TanoojVardhan/sloth-planner/internal/model"
	"github.com/TanoojVardhan/sloth-planner/internal/store"
)

// GoalService handles goal CRUD and progress updates. The completed flag is
// derived by the store in the same write as the amounts; clients cannot set
// it directly.
type GoalService struct {
	store store.Store
}

func NewGoalService(s store.Store) *GoalService { return &GoalService{store: s} }

func (s *GoalService) CreateGoal(ctx context.Context, g *model.Goal) (*model.Goal, error) {
	if err := validateGoal(g); err != nil {
		return nil, err
	}
	return s.store.Goals().Create(ctx, g)
}

func (s *GoalService) GetGoal(ctx context.Context, userID, goalID string) (*model.Goal, error) {
	return s.ownedGoal(ctx, userID, goalID)
}

func (s *GoalService) ListGoals(ctx context.Context, f model.GoalFilter) ([]*model.Goal, error) {
	if f.UserID == "" {
		return nil, fmt.Errorf("%w: userId is required", model.ErrValidation)
	}
	return s.store.Goals().List(ctx, f)
}

func (s *GoalService) UpdateGoal(ctx context.Context, userID string, g *model.Goal) (*model.Goal, error) {
	if err := validateGoal(g); err != nil {
		return nil, err
	}
	if _, err := s.ownedGoal(ctx, userID, g.GoalID); err != nil {
		return nil, err
	}
	return s.store.Goals().Update(ctx, g)
}

// UpdateProgress sets the current amount; the store derives completion.
func (s *GoalService) UpdateProgress(ctx context.Context, userID, goalID string, current float64) (*model.Goal, error) {
	if current < 0 {
		return nil, fmt.Errorf("%w: currentAmount must not be negative", model.ErrValidation)
	}
	if _, err := s.ownedGoal(ctx, userID, goalID); err != nil {
		return nil, err
	}
	return s.store.Goals().UpdateProgress(ctx, goalID, current)
}

func (s *GoalService) DeleteGoal(ctx context.Context, userID, goalID string) error {
	if _, err := s.ownedGoal(ctx, userID, goalID); err != nil {
		return err
	}
	return s.store.Goals().Delete(ctx, goalID)
}

func (s *GoalService) ownedGoal(ctx context.Context, userID, goalID string) (*model.Goal, error) {
	rec, err := s.store.Goals().GetByID(ctx, goalID)
	if err != nil {
		return nil, err
	}
	if rec.UserID != userID {
		return nil, model.ErrUnauthorized
	}
	return rec, nil
}

func validateGoal(g *model.Goal) error {
	if strings.TrimSpace(g.Title) == "" {
		return fmt.Errorf("%w: title is required", model.ErrValidation)
	}
	if g.UserID == "" {
		return fmt.Errorf("%w: userId is required", model.ErrValidation)
	}
	if g.TargetAmount <= 0 {
		return fmt.Errorf("%w: targetAmount must be positive", model.ErrValidation)
	}
	if g.CurrentAmount < 0 {
		return fmt.Errorf("%w: currentAmount must not be negative", model.ErrValidation)
	}
	return nil
}
