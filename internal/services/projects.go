package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/TanoojVardhan/sloth-planner/internal/model"
	"github.com/TanoojVardhan/sloth-planner/internal/store"
)

// ProjectService handles project CRUD. Status is validated against the enum
// but transitions are unguarded: any status may be set from any other.
type ProjectService struct {
	store store.Store
}

func NewProjectService(s store.Store) *ProjectService { return &ProjectService{store: s} }

func (s *ProjectService) CreateProject(ctx context.Context, p *model.Project) (*model.Project, error) {
	if p.Status == "" {
		p.Status = model.ProjectIdea
	}
	if p.Difficulty == "" {
		p.Difficulty = model.DifficultyMedium
	}
	if err := validateProject(p); err != nil {
		return nil, err
	}
	return s.store.Projects().Create(ctx, p)
}

func (s *ProjectService) GetProject(ctx context.Context, userID, projectID string) (*model.Project, error) {
	return s.ownedProject(ctx, userID, projectID)
}

func (s *ProjectService) ListProjects(ctx context.Context, f model.ProjectFilter) ([]*model.Project, error) {
	if f.UserID == "" {
		return nil, fmt.Errorf("%w: userId is required", model.ErrValidation)
	}
	if f.Status != nil && !f.Status.Valid() {
		return nil, fmt.Errorf("%w: invalid status %q", model.ErrValidation, *f.Status)
	}
	return s.store.Projects().List(ctx, f)
}

func (s *ProjectService) UpdateProject(ctx context.Context, userID string, p *model.Project) (*model.Project, error) {
	if err := validateProject(p); err != nil {
		return nil, err
	}
	if _, err := s.ownedProject(ctx, userID, p.ProjectID); err != nil {
		return nil, err
	}
	return s.store.Projects().Update(ctx, p)
}

// SetStatus updates only the status field.
func (s *ProjectService) SetStatus(ctx context.Context, userID, projectID string, status model.ProjectStatus) (*model.Project, error) {
	if !status.Valid() {
		return nil, fmt.Errorf("%w: invalid status %q", model.ErrValidation, status)
	}
	rec, err := s.ownedProject(ctx, userID, projectID)
	if err != nil {
		return nil, err
	}
	rec.Status = status
	return s.store.Projects().Update(ctx, rec)
}

func (s *ProjectService) DeleteProject(ctx context.Context, userID, projectID string) error {
	if _, err := s.ownedProject(ctx, userID, projectID); err != nil {
		return err
	}
	return s.store.Projects().Delete(ctx, projectID)
}

func (s *ProjectService) ownedProject(ctx context.Context, userID, projectID string) (*model.Project, error) {
	rec, err := s.store.Projects().GetByID(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if rec.UserID != userID {
		return nil, model.ErrUnauthorized
	}
	return rec, nil
}

func validateProject(p *model.Project) error {
	if strings.TrimSpace(p.Title) == "" {
		return fmt.Errorf("%w: title is required", model.ErrValidation)
	}
	if p.UserID == "" {
		return fmt.Errorf("%w: userId is required", model.ErrValidation)
	}
	if !p.Difficulty.Valid() {
		return fmt.Errorf("%w: invalid difficulty %q", model.ErrValidation, p.Difficulty)
	}
	if !p.Status.Valid() {
		return fmt.Errorf("%w: invalid status %q", model.ErrValidation, p.Status)
	}
	if p.EstimatedHours != nil && *p.EstimatedHours < 0 {
		return fmt.Errorf("%w: estimatedHours must not be negative", model.ErrValidation)
	}
	return nil
}
