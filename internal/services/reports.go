package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/TanoojVardhan/sloth-planner/internal/model"
	"github.com/TanoojVardhan/sloth-planner/internal/store"
)

// ReportService handles moderation reports. Any signed-in user may file one;
// listing and resolution are restricted to the admin surface.
type ReportService struct {
	store store.Store
}

func NewReportService(s store.Store) *ReportService { return &ReportService{store: s} }

func (s *ReportService) FileReport(ctx context.Context, r *model.ModerationReport) (*model.ModerationReport, error) {
	if r.ReporterID == "" {
		return nil, fmt.Errorf("%w: reporterId is required", model.ErrValidation)
	}
	if strings.TrimSpace(r.Subject) == "" {
		return nil, fmt.Errorf("%w: subject is required", model.ErrValidation)
	}
	if strings.TrimSpace(r.Reason) == "" {
		return nil, fmt.Errorf("%w: reason is required", model.ErrValidation)
	}
	return s.store.Reports().Create(ctx, r)
}

func (s *ReportService) GetReport(ctx context.Context, reportID string) (*model.ModerationReport, error) {
	return s.store.Reports().GetByID(ctx, reportID)
}

func (s *ReportService) ListReports(ctx context.Context, status *model.ReportStatus, limit int) ([]*model.ModerationReport, error) {
	if status != nil && !status.Valid() {
		return nil, fmt.Errorf("%w: invalid report status %q", model.ErrValidation, *status)
	}
	return s.store.Reports().List(ctx, status, limit)
}

// ResolveReport closes a report as resolved or dismissed. A report that is
// already closed stays closed; re-resolution overwrites the outcome.
func (s *ReportService) ResolveReport(ctx context.Context, reportID, resolverID, resolution string, status model.ReportStatus) (*model.ModerationReport, error) {
	if status != model.ReportResolved && status != model.ReportDismissed {
		return nil, fmt.Errorf("%w: resolution status must be resolved or dismissed", model.ErrValidation)
	}
	if resolverID == "" {
		return nil, fmt.Errorf("%w: resolverId is required", model.ErrValidation)
	}
	return s.store.Reports().Resolve(ctx, reportID, resolverID, resolution, status)
}
