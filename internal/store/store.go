package store

import (
	"context"
	"time"

	"github.com/TanoojVardhan/sloth-planner/internal/model"
)

// Store exposes persistence operations required by services.
// Implementations live under internal/store/<driver>/ (postgres, sqlite).
//
// Reads by id are deliberately not scoped by owner: services re-fetch the
// record and compare its UserID against the caller before mutating, so an
// ownership mismatch surfaces as unauthorized rather than not-found.
type Store interface {
	Tasks() Tasks
	Events() Events
	Goals() Goals
	Projects() Projects
	Notifications() Notifications
	Users() Users
	Roles() Roles
	Reports() Reports
}

type Tasks interface {
	Create(ctx context.Context, t *model.Task) (*model.Task, error)
	GetByID(ctx context.Context, taskID string) (*model.Task, error)
	List(ctx context.Context, f model.TaskFilter) ([]*model.Task, error)
	Update(ctx context.Context, t *model.Task) (*model.Task, error)
	Delete(ctx context.Context, taskID string) error
}

type Events interface {
	Create(ctx context.Context, e *model.Event) (*model.Event, error)
	GetByID(ctx context.Context, eventID string) (*model.Event, error)
	List(ctx context.Context, r model.EventRange) ([]*model.Event, error)
	Update(ctx context.Context, e *model.Event) (*model.Event, error)
	Delete(ctx context.Context, eventID string) error
}

type Goals interface {
	Create(ctx context.Context, g *model.Goal) (*model.Goal, error)
	GetByID(ctx context.Context, goalID string) (*model.Goal, error)
	List(ctx context.Context, f model.GoalFilter) ([]*model.Goal, error)
	Update(ctx context.Context, g *model.Goal) (*model.Goal, error)
	// UpdateProgress writes the new current amount and the derived completed
	// flag atomically.
	UpdateProgress(ctx context.Context, goalID string, current float64) (*model.Goal, error)
	Delete(ctx context.Context, goalID string) error
}

type Projects interface {
	Create(ctx context.Context, p *model.Project) (*model.Project, error)
	GetByID(ctx context.Context, projectID string) (*model.Project, error)
	List(ctx context.Context, f model.ProjectFilter) ([]*model.Project, error)
	Update(ctx context.Context, p *model.Project) (*model.Project, error)
	Delete(ctx context.Context, projectID string) error
}

type Notifications interface {
	Create(ctx context.Context, n *model.Notification) (*model.Notification, error)
	GetByID(ctx context.Context, notificationID string) (*model.Notification, error)
	// ListForRecipient merges direct and broadcast notifications; Read on the
	// returned records reflects the filter's recipient.
	ListForRecipient(ctx context.Context, f model.NotificationFilter) ([]*model.Notification, error)
	MarkRead(ctx context.Context, notificationID, userID string) error
	Delete(ctx context.Context, notificationID string) error
	// DeleteExpired removes notifications whose expiry has passed and returns
	// the number of rows removed.
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

type Users interface {
	Create(ctx context.Context, u *model.User) (*model.User, error)
	Get(ctx context.Context, userID string) (*model.User, error)
	Update(ctx context.Context, u *model.User) (*model.User, error)
	UpdateLastActive(ctx context.Context, userID string) error
	Delete(ctx context.Context, userID string) error
}

type Roles interface {
	Get(ctx context.Context, userID string) (*model.UserRole, error)
	Set(ctx context.Context, userID string, role model.Role) (*model.UserRole, error)
}

type Reports interface {
	Create(ctx context.Context, r *model.ModerationReport) (*model.ModerationReport, error)
	GetByID(ctx context.Context, reportID string) (*model.ModerationReport, error)
	List(ctx context.Context, status *model.ReportStatus, limit int) ([]*model.ModerationReport, error)
	Resolve(ctx context.Context, reportID, resolverID, resolution string, status model.ReportStatus) (*model.ModerationReport, error)
}
