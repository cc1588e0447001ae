package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// Priority orders tasks within a day and in filtered lists.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// Valid reports whether p is a known priority value.
func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// Rank returns the sort weight of the priority (low first).
func (p Priority) Rank() int {
	switch p {
	case PriorityLow:
		return 0
	case PriorityMedium:
		return 1
	case PriorityHigh:
		return 2
	}
	return -1
}

// ProjectStatus is a free-standing enum; any status may be set from any other.
type ProjectStatus string

const (
	ProjectIdea       ProjectStatus = "idea"
	ProjectPlanning   ProjectStatus = "planning"
	ProjectInProgress ProjectStatus = "in-progress"
	ProjectCompleted  ProjectStatus = "completed"
	ProjectArchived   ProjectStatus = "archived"
)

func (s ProjectStatus) Valid() bool {
	switch s {
	case ProjectIdea, ProjectPlanning, ProjectInProgress, ProjectCompleted, ProjectArchived:
		return true
	}
	return false
}

type ProjectDifficulty string

const (
	DifficultyEasy   ProjectDifficulty = "easy"
	DifficultyMedium ProjectDifficulty = "medium"
	DifficultyHard   ProjectDifficulty = "hard"
)

func (d ProjectDifficulty) Valid() bool {
	switch d {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return true
	}
	return false
}

type NotificationType string

const (
	NotificationInfo         NotificationType = "info"
	NotificationWarning      NotificationType = "warning"
	NotificationSuccess      NotificationType = "success"
	NotificationError        NotificationType = "error"
	NotificationAnnouncement NotificationType = "announcement"
)

func (t NotificationType) Valid() bool {
	switch t {
	case NotificationInfo, NotificationWarning, NotificationSuccess, NotificationError, NotificationAnnouncement:
		return true
	}
	return false
}

// BroadcastRecipient marks a notification addressed to every user.
const BroadcastRecipient = "all"

type Role string

const (
	RoleUser       Role = "user"
	RoleAdmin      Role = "admin"
	RoleSuperAdmin Role = "super_admin"
)

func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleAdmin, RoleSuperAdmin:
		return true
	}
	return false
}

// IsAdmin reports whether the role grants access to the admin surface.
func (r Role) IsAdmin() bool { return r == RoleAdmin || r == RoleSuperAdmin }

type ReportStatus string

const (
	ReportOpen      ReportStatus = "open"
	ReportResolved  ReportStatus = "resolved"
	ReportDismissed ReportStatus = "dismissed"
)

func (s ReportStatus) Valid() bool {
	switch s {
	case ReportOpen, ReportResolved, ReportDismissed:
		return true
	}
	return false
}

// Date is a calendar day without a time component. It marshals as YYYY-MM-DD
// and binds as a date/text column depending on the driver.
type Date struct{ time.Time }

// NewDate truncates t to its calendar day.
func NewDate(t time.Time) Date {
	return Date{time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses a YYYY-MM-DD string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return Date{t}, nil
}

func (d Date) String() string { return d.Format(time.DateOnly) }

func (d Date) MarshalJSON() ([]byte, error) { return json.Marshal(d.String()) }

func (d *Date) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Value implements driver.Valuer so adapters can bind Date directly.
func (d Date) Value() (driver.Value, error) { return d.String(), nil }

// Scan implements sql.Scanner; accepts DATE, text and byte columns.
func (d *Date) Scan(src interface{}) error {
	switch v := src.(type) {
	case time.Time:
		*d = NewDate(v)
		return nil
	case string:
		parsed, err := ParseDate(v)
		if err != nil {
			return err
		}
		*d = parsed
		return nil
	case []byte:
		parsed, err := ParseDate(string(v))
		if err != nil {
			return err
		}
		*d = parsed
		return nil
	}
	return fmt.Errorf("cannot scan %T into Date", src)
}

// Task is a single to-do item owned by one user.
type Task struct {
	TaskID       string    `json:"taskId"`
	UserID       string    `json:"userId"`
	Title        string    `json:"title"`
	Description  *string   `json:"description,omitempty"`
	Completed    bool      `json:"completed"`
	Priority     Priority  `json:"priority"`
	DueDate      *Date     `json:"dueDate,omitempty"`
	Tags         []string  `json:"tags,omitempty"`
	CreationTime time.Time `json:"creationTime"`
	UpdateTime   time.Time `json:"updateTime"`
}

// Recurrence carries the recurrence shape of an event. Query logic never
// materializes occurrences from it.
type Recurrence struct {
	Frequency string `json:"frequency"`
	Interval  int    `json:"interval,omitempty"`
	Until     *Date  `json:"until,omitempty"`
}

// Event is a calendar entry with a concrete start and end.
type Event struct {
	EventID      string      `json:"eventId"`
	UserID       string      `json:"userId"`
	Title        string      `json:"title"`
	Description  *string     `json:"description,omitempty"`
	Location     *string     `json:"location,omitempty"`
	StartTime    time.Time   `json:"startTime"`
	EndTime      time.Time   `json:"endTime"`
	AllDay       bool        `json:"allDay"`
	Color        *string     `json:"color,omitempty"`
	Tags         []string    `json:"tags,omitempty"`
	Recurrence   *Recurrence `json:"recurrence,omitempty"`
	CreationTime time.Time   `json:"creationTime"`
	UpdateTime   time.Time   `json:"updateTime"`
}

// Goal tracks numeric progress toward a target. Completed is always derived
// from CurrentAmount >= TargetAmount; clients cannot set it directly.
type Goal struct {
	GoalID        string    `json:"goalId"`
	UserID        string    `json:"userId"`
	Title         string    `json:"title"`
	TargetAmount  float64   `json:"targetAmount"`
	CurrentAmount float64   `json:"currentAmount"`
	Completed     bool      `json:"completed"`
	Category      *string   `json:"category,omitempty"`
	DueDate       *Date     `json:"dueDate,omitempty"`
	Tags          []string  `json:"tags,omitempty"`
	CreationTime  time.Time `json:"creationTime"`
	UpdateTime    time.Time `json:"updateTime"`
}

type Project struct {
	ProjectID      string            `json:"projectId"`
	UserID         string            `json:"userId"`
	Title          string            `json:"title"`
	Difficulty     ProjectDifficulty `json:"difficulty"`
	Status         ProjectStatus     `json:"status"`
	EstimatedHours *float64          `json:"estimatedHours,omitempty"`
	Category       *string           `json:"category,omitempty"`
	Tags           []string          `json:"tags,omitempty"`
	CreationTime   time.Time         `json:"creationTime"`
	UpdateTime     time.Time         `json:"updateTime"`
}

// Notification is addressed to one recipient or to BroadcastRecipient.
// Broadcast read state is tracked per user, not on the record itself.
type Notification struct {
	NotificationID string           `json:"notificationId"`
	Title          string           `json:"title"`
	Message        string           `json:"message"`
	Type           NotificationType `json:"type"`
	RecipientID    string           `json:"recipientId"`
	SenderID       *string          `json:"senderId,omitempty"`
	ExpiresAt      *time.Time       `json:"expiresAt,omitempty"`
	Read           bool             `json:"read"`
	CreationTime   time.Time        `json:"creationTime"`
}

// User mirrors the profile surfaced by the identity provider.
type User struct {
	UserID         string     `json:"userId"`
	Email          string     `json:"email"`
	DisplayName    *string    `json:"displayName,omitempty"`
	PhotoURL       *string    `json:"photoUrl,omitempty"`
	TimeZone       string     `json:"timeZone"`
	Status         string     `json:"status"`
	CreationTime   time.Time  `json:"creationTime"`
	LastActiveTime *time.Time `json:"lastActiveTime,omitempty"`
}

// UserRole is the single source of truth for privilege. There is no separate
// super-admin allow list.
type UserRole struct {
	UserID     string    `json:"userId"`
	Role       Role      `json:"role"`
	UpdateTime time.Time `json:"updateTime"`
}

type ModerationReport struct {
	ReportID     string       `json:"reportId"`
	ReporterID   string       `json:"reporterId"`
	Subject      string       `json:"subject"`
	Reason       string       `json:"reason"`
	Status       ReportStatus `json:"status"`
	Resolution   *string      `json:"resolution,omitempty"`
	ResolvedBy   *string      `json:"resolvedBy,omitempty"`
	ResolvedTime *time.Time   `json:"resolvedTime,omitempty"`
	CreationTime time.Time    `json:"creationTime"`
}

// TaskFilter captures the predicates, ordering and pagination used when
// listing tasks.
type TaskFilter struct {
	UserID     string
	Completed  *bool
	Priority   *Priority
	Tag        *string
	DueBefore  *Date
	DueAfter   *Date
	OrderBy    string // "creationTime" (default), "dueDate", "priority"
	Descending bool
	Limit      int
	Offset     int
}

// EventRange selects events overlapping [Start, End).
type EventRange struct {
	UserID string
	Start  time.Time
	End    time.Time
	Limit  int
}

type GoalFilter struct {
	UserID    string
	Completed *bool
	Category  *string
	Limit     int
}

type ProjectFilter struct {
	UserID   string
	Status   *ProjectStatus
	Category *string
	Limit    int
}

// NotificationFilter selects notifications visible to one recipient,
// including broadcasts, excluding expired ones unless asked.
type NotificationFilter struct {
	RecipientID    string
	UnreadOnly     bool
	IncludeExpired bool
	Now            time.Time
	Limit          int
}
