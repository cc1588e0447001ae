package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/TanoojVardhan/sloth-planner/internal/model"
	"github.com/TanoojVardhan/sloth-planner/internal/store"
)

// New opens (or creates) the database file, applies the schema and returns
// the store.
func New(path string) (store.Store, error) {
	db, err := Open(path)
	if err != nil {
		return nil, err
	}
	return NewWithDB(db)
}

// NewWithDB wires the store onto an existing connection (used by tests and
// the factory).
func NewWithDB(db *sql.DB) (store.Store, error) {
	if err := Bootstrap(db); err != nil {
		return nil, err
	}
	return &sqliteStore{db: db}, nil
}

type sqliteStore struct{ db *sql.DB }

func (s *sqliteStore) Tasks() store.Tasks                 { return &tasks{db: s.db} }
func (s *sqliteStore) Events() store.Events               { return &events{db: s.db} }
func (s *sqliteStore) Goals() store.Goals                 { return &goals{db: s.db} }
func (s *sqliteStore) Projects() store.Projects           { return &projects{db: s.db} }
func (s *sqliteStore) Notifications() store.Notifications { return &notifications{db: s.db} }
func (s *sqliteStore) Users() store.Users                 { return &users{db: s.db} }
func (s *sqliteStore) Roles() store.Roles                 { return &roles{db: s.db} }
func (s *sqliteStore) Reports() store.Reports             { return &reports{db: s.db} }

// Ping implements health.Pinger.
func (s *sqliteStore) Ping(ctx context.Context) error { return s.db.PingContext(ctx) }

// --- Tasks ---

type tasks struct{ db *sql.DB }

func (t *tasks) Create(ctx context.Context, in *model.Task) (*model.Task, error) {
	now := time.Now().UTC()
	id := uuid.New().String()
	_, err := t.db.ExecContext(ctx, `
        INSERT INTO tasks (task_id, user_id, title, description, completed, priority, due_date, tags, creation_time, update_time)
        VALUES (?,?,?,?,?,?,?,?,?,?)`,
		id, in.UserID, in.Title, in.Description, in.Completed, in.Priority, in.DueDate, encodeJSON(in.Tags), now, now)
	if err != nil {
		return nil, err
	}
	out := *in
	out.TaskID = id
	out.CreationTime = now
	out.UpdateTime = now
	return &out, nil
}

func (t *tasks) GetByID(ctx context.Context, taskID string) (*model.Task, error) {
	row := t.db.QueryRowContext(ctx, `
        SELECT task_id, user_id, title, description, completed, priority, due_date, tags, creation_time, update_time
        FROM tasks WHERE task_id = ?`, taskID)
	return scanTask(row.Scan)
}

func (t *tasks) List(ctx context.Context, f model.TaskFilter) ([]*model.Task, error) {
	q := `SELECT task_id, user_id, title, description, completed, priority, due_date, tags, creation_time, update_time
          FROM tasks WHERE user_id = ?`
	args := []interface{}{f.UserID}
	if f.Completed != nil {
		q += " AND completed = ?"
		args = append(args, *f.Completed)
	}
	if f.Priority != nil {
		q += " AND priority = ?"
		args = append(args, *f.Priority)
	}
	if f.Tag != nil {
		q += " AND EXISTS (SELECT 1 FROM json_each(tasks.tags) WHERE json_each.value = ?)"
		args = append(args, *f.Tag)
	}
	if f.DueAfter != nil {
		q += " AND due_date >= ?"
		args = append(args, *f.DueAfter)
	}
	if f.DueBefore != nil {
		q += " AND due_date <= ?"
		args = append(args, *f.DueBefore)
	}
	q += taskOrderClause(f)
	if f.Limit > 0 {
		q += fmt.Sprintf(" LIMIT %d", f.Limit)
		if f.Offset > 0 {
			q += fmt.Sprintf(" OFFSET %d", f.Offset)
		}
	}

	rows, err := t.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	var out []*model.Task
	for rows.Next() {
		rec, err := scanTask(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (t *tasks) Update(ctx context.Context, in *model.Task) (*model.Task, error) {
	now := time.Now().UTC()
	res, err := t.db.ExecContext(ctx, `
        UPDATE tasks SET title=?, description=?, completed=?, priority=?, due_date=?, tags=?, update_time=?
        WHERE task_id=?`,
		in.Title, in.Description, in.Completed, in.Priority, in.DueDate, encodeJSON(in.Tags), now, in.TaskID)
	if err != nil {
		return nil, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, model.ErrNotFound
	}
	return t.GetByID(ctx, in.TaskID)
}

func (t *tasks) Delete(ctx context.Context, taskID string) error {
	res, err := t.db.ExecContext(ctx, `DELETE FROM tasks WHERE task_id=?`, taskID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return model.ErrNotFound
	}
	return nil
}

func taskOrderClause(f model.TaskFilter) string {
	dir := " ASC"
	if f.Descending {
		dir = " DESC"
	}
	switch f.OrderBy {
	case "dueDate":
		return " ORDER BY due_date IS NULL, due_date" + dir
	case "priority":
		return " ORDER BY CASE priority WHEN 'low' THEN 0 WHEN 'medium' THEN 1 WHEN 'high' THEN 2 END" + dir
	default:
		return " ORDER BY creation_time" + dir
	}
}

func scanTask(scan func(dest ...interface{}) error) (*model.Task, error) {
	var rec model.Task
	var tags sql.NullString
	var due sql.NullString
	if err := scan(&rec.TaskID, &rec.UserID, &rec.Title, &rec.Description, &rec.Completed, &rec.Priority, &due, &tags, &rec.CreationTime, &rec.UpdateTime); err != nil {
		return nil, notFound(err)
	}
	if due.Valid {
		d, err := model.ParseDate(due.String)
		if err != nil {
			return nil, err
		}
		rec.DueDate = &d
	}
	rec.Tags = decodeTags(tags)
	return &rec, nil
}

// --- Events ---

type events struct{ db *sql.DB }

func (e *events) Create(ctx context.Context, in *model.Event) (*model.Event, error) {
	now := time.Now().UTC()
	id := uuid.New().String()
	_, err := e.db.ExecContext(ctx, `
        INSERT INTO events (event_id, user_id, title, description, location, start_time, end_time, all_day, color, tags, recurrence, creation_time, update_time)
        VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?)`,
		id, in.UserID, in.Title, in.Description, in.Location, in.StartTime.UTC(), in.EndTime.UTC(), in.AllDay, in.Color, encodeJSON(in.Tags), encodeJSON(in.Recurrence), now, now)
	if err != nil {
		return nil, err
	}
	out := *in
	out.EventID = id
	out.CreationTime = now
	out.UpdateTime = now
	return &out, nil
}

func (e *events) GetByID(ctx context.Context, eventID string) (*model.Event, error) {
	row := e.db.QueryRowContext(ctx, `
        SELECT event_id, user_id, title, description, location, start_time, end_time, all_day, color, tags, recurrence, creation_time, update_time
        FROM events WHERE event_id = ?`, eventID)
	return scanEvent(row.Scan)
}

func (e *events) List(ctx context.Context, r model.EventRange) ([]*model.Event, error) {
	q := `SELECT event_id, user_id, title, description, location, start_time, end_time, all_day, color, tags, recurrence, creation_time, update_time
          FROM events WHERE user_id = ?`
	args := []interface{}{r.UserID}
	if !r.Start.IsZero() {
		q += " AND end_time > ?"
		args = append(args, r.Start.UTC())
	}
	if !r.End.IsZero() {
		q += " AND start_time < ?"
		args = append(args, r.End.UTC())
	}
	q += " ORDER BY start_time ASC"
	if r.Limit > 0 {
		q += fmt.Sprintf(" LIMIT %d", r.Limit)
	}

	rows, err := e.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	var out []*model.Event
	for rows.Next() {
		rec, err := scanEvent(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (e *events) Update(ctx context.Context, in *model.Event) (*model.Event, error) {
	now := time.Now().UTC()
	res, err := e.db.ExecContext(ctx, `
        UPDATE events SET title=?, description=?, location=?, start_time=?, end_time=?, all_day=?, color=?, tags=?, recurrence=?, update_time=?
        WHERE event_id=?`,
		in.Title, in.Description, in.Location, in.StartTime.UTC(), in.EndTime.UTC(), in.AllDay, in.Color, encodeJSON(in.Tags), encodeJSON(in.Recurrence), now, in.EventID)
	if err != nil {
		return nil, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, model.ErrNotFound
	}
	return e.GetByID(ctx, in.EventID)
}

func (e *events) Delete(ctx context.Context, eventID string) error {
	res, err := e.db.ExecContext(ctx, `DELETE FROM events WHERE event_id=?`, eventID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return model.ErrNotFound
	}
	return nil
}

func scanEvent(scan func(dest ...interface{}) error) (*model.Event, error) {
	var rec model.Event
	var tags, recur sql.NullString
	if err := scan(&rec.EventID, &rec.UserID, &rec.Title, &rec.Description, &rec.Location, &rec.StartTime, &rec.EndTime, &rec.AllDay, &rec.Color, &tags, &recur, &rec.CreationTime, &rec.UpdateTime); err != nil {
		return nil, notFound(err)
	}
	rec.Tags = decodeTags(tags)
	if recur.Valid && recur.String != "" && recur.String != "null" {
		var rc model.Recurrence
		if err := json.Unmarshal([]byte(recur.String), &rc); err == nil {
			rec.Recurrence = &rc
		}
	}
	return &rec, nil
}

// --- Goals ---

type goals struct{ db *sql.DB }

func (g *goals) Create(ctx context.Context, in *model.Goal) (*model.Goal, error) {
	now := time.Now().UTC()
	id := uuid.New().String()
	completed := in.CurrentAmount >= in.TargetAmount
	_, err := g.db.ExecContext(ctx, `
        INSERT INTO goals (goal_id, user_id, title, target_amount, current_amount, completed, category, due_date, tags, creation_time, update_time)
        VALUES (?,?,?,?,?,?,?,?,?,?,?)`,
		id, in.UserID, in.Title, in.TargetAmount, in.CurrentAmount, completed, in.Category, in.DueDate, encodeJSON(in.Tags), now, now)
	if err != nil {
		return nil, err
	}
	out := *in
	out.GoalID = id
	out.Completed = completed
	out.CreationTime = now
	out.UpdateTime = now
	return &out, nil
}

func (g *goals) GetByID(ctx context.Context, goalID string) (*model.Goal, error) {
	row := g.db.QueryRowContext(ctx, `
        SELECT goal_id, user_id, title, target_amount, current_amount, completed, category, due_date, tags, creation_time, update_time
        FROM goals WHERE goal_id = ?`, goalID)
	return scanGoal(row.Scan)
}

func (g *goals) List(ctx context.Context, f model.GoalFilter) ([]*model.Goal, error) {
	q := `SELECT goal_id, user_id, title, target_amount, current_amount, completed, category, due_date, tags, creation_time, update_time
          FROM goals WHERE user_id = ?`
	args := []interface{}{f.UserID}
	if f.Completed != nil {
		q += " AND completed = ?"
		args = append(args, *f.Completed)
	}
	if f.Category != nil {
		q += " AND category = ?"
		args = append(args, *f.Category)
	}
	q += " ORDER BY creation_time DESC"
	if f.Limit > 0 {
		q += fmt.Sprintf(" LIMIT %d", f.Limit)
	}

	rows, err := g.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	var out []*model.Goal
	for rows.Next() {
		rec, err := scanGoal(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (g *goals) Update(ctx context.Context, in *model.Goal) (*model.Goal, error) {
	now := time.Now().UTC()
	// completed is derived in the same statement that writes the amounts
	res, err := g.db.ExecContext(ctx, `
        UPDATE goals SET title=?, target_amount=?, current_amount=?, completed=(? >= ?), category=?, due_date=?, tags=?, update_time=?
        WHERE goal_id=?`,
		in.Title, in.TargetAmount, in.CurrentAmount, in.CurrentAmount, in.TargetAmount, in.Category, in.DueDate, encodeJSON(in.Tags), now, in.GoalID)
	if err != nil {
		return nil, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, model.ErrNotFound
	}
	return g.GetByID(ctx, in.GoalID)
}

func (g *goals) UpdateProgress(ctx context.Context, goalID string, current float64) (*model.Goal, error) {
	now := time.Now().UTC()
	res, err := g.db.ExecContext(ctx, `
        UPDATE goals SET current_amount=?, completed=(? >= target_amount), update_time=?
        WHERE goal_id=?`, current, current, now, goalID)
	if err != nil {
		return nil, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, model.ErrNotFound
	}
	return g.GetByID(ctx, goalID)
}

func (g *goals) Delete(ctx context.Context, goalID string) error {
	res, err := g.db.ExecContext(ctx, `DELETE FROM goals WHERE goal_id=?`, goalID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return model.ErrNotFound
	}
	return nil
}

func scanGoal(scan func(dest ...interface{}) error) (*model.Goal, error) {
	var rec model.Goal
	var tags sql.NullString
	var due sql.NullString
	if err := scan(&rec.GoalID, &rec.UserID, &rec.Title, &rec.TargetAmount, &rec.CurrentAmount, &rec.Completed, &rec.Category, &due, &tags, &rec.CreationTime, &rec.UpdateTime); err != nil {
		return nil, notFound(err)
	}
	if due.Valid {
		d, err := model.ParseDate(due.String)
		if err != nil {
			return nil, err
		}
		rec.DueDate = &d
	}
	rec.Tags = decodeTags(tags)
	return &rec, nil
}

// --- Projects ---

type projects struct{ db *sql.DB }

func (p *projects) Create(ctx context.Context, in *model.Project) (*model.Project, error) {
	now := time.Now().UTC()
	id := uuid.New().String()
	_, err := p.db.ExecContext(ctx, `
        INSERT INTO projects (project_id, user_id, title, difficulty, status, estimated_hours, category, tags, creation_time, update_time)
        VALUES (?,?,?,?,?,?,?,?,?,?)`,
		id, in.UserID, in.Title, in.Difficulty, in.Status, in.EstimatedHours, in.Category, encodeJSON(in.Tags), now, now)
	if err != nil {
		return nil, err
	}
	out := *in
	out.ProjectID = id
	out.CreationTime = now
	out.UpdateTime = now
	return &out, nil
}

func (p *projects) GetByID(ctx context.Context, projectID string) (*model.Project, error) {
	row := p.db.QueryRowContext(ctx, `
        SELECT project_id, user_id, title, difficulty, status, estimated_hours, category, tags, creation_time, update_time
        FROM projects WHERE project_id = ?`, projectID)
	return scanProject(row.Scan)
}

func (p *projects) List(ctx context.Context, f model.ProjectFilter) ([]*model.Project, error) {
	q := `SELECT project_id, user_id, title, difficulty, status, estimated_hours, category, tags, creation_time, update_time
          FROM projects WHERE user_id = ?`
	args := []interface{}{f.UserID}
	if f.Status != nil {
		q += " AND status = ?"
		args = append(args, *f.Status)
	}
	if f.Category != nil {
		q += " AND category = ?"
		args = append(args, *f.Category)
	}
	q += " ORDER BY creation_time DESC"
	if f.Limit > 0 {
		q += fmt.Sprintf(" LIMIT %d", f.Limit)
	}

	rows, err := p.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	var out []*model.Project
	for rows.Next() {
		rec, err := scanProject(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (p *projects) Update(ctx context.Context, in *model.Project) (*model.Project, error) {
	now := time.Now().UTC()
	res, err := p.db.ExecContext(ctx, `
        UPDATE projects SET title=?, difficulty=?, status=?, estimated_hours=?, category=?, tags=?, update_time=?
        WHERE project_id=?`,
		in.Title, in.Difficulty, in.Status, in.EstimatedHours, in.Category, encodeJSON(in.Tags), now, in.ProjectID)
	if err != nil {
		return nil, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, model.ErrNotFound
	}
	return p.GetByID(ctx, in.ProjectID)
}

func (p *projects) Delete(ctx context.Context, projectID string) error {
	res, err := p.db.ExecContext(ctx, `DELETE FROM projects WHERE project_id=?`, projectID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return model.ErrNotFound
	}
	return nil
}

func scanProject(scan func(dest ...interface{}) error) (*model.Project, error) {
	var rec model.Project
	var tags sql.NullString
	if err := scan(&rec.ProjectID, &rec.UserID, &rec.Title, &rec.Difficulty, &rec.Status, &rec.EstimatedHours, &rec.Category, &tags, &rec.CreationTime, &rec.UpdateTime); err != nil {
		return nil, notFound(err)
	}
	rec.Tags = decodeTags(tags)
	return &rec, nil
}

// --- Notifications ---

type notifications struct{ db *sql.DB }

func (n *notifications) Create(ctx context.Context, in *model.Notification) (*model.Notification, error) {
	now := time.Now().UTC()
	id := uuid.New().String()
	_, err := n.db.ExecContext(ctx, `
        INSERT INTO notifications (notification_id, title, message, type, recipient_id, sender_id, expires_at, is_read, creation_time)
        VALUES (?,?,?,?,?,?,?,0,?)`,
		id, in.Title, in.Message, in.Type, in.RecipientID, in.SenderID, utcPtr(in.ExpiresAt), now)
	if err != nil {
		return nil, err
	}
	out := *in
	out.NotificationID = id
	out.Read = false
	out.CreationTime = now
	return &out, nil
}

func (n *notifications) GetByID(ctx context.Context, notificationID string) (*model.Notification, error) {
	row := n.db.QueryRowContext(ctx, `
        SELECT notification_id, title, message, type, recipient_id, sender_id, expires_at, is_read, creation_time
        FROM notifications WHERE notification_id = ?`, notificationID)
	var rec model.Notification
	var expires sql.NullTime
	if err := row.Scan(&rec.NotificationID, &rec.Title, &rec.Message, &rec.Type, &rec.RecipientID, &rec.SenderID, &expires, &rec.Read, &rec.CreationTime); err != nil {
		return nil, notFound(err)
	}
	if expires.Valid {
		rec.ExpiresAt = &expires.Time
	}
	return &rec, nil
}

func (n *notifications) ListForRecipient(ctx context.Context, f model.NotificationFilter) ([]*model.Notification, error) {
	readExpr := `CASE WHEN n.recipient_id = 'all' THEN (r.user_id IS NOT NULL) ELSE n.is_read END`
	q := `SELECT n.notification_id, n.title, n.message, n.type, n.recipient_id, n.sender_id, n.expires_at, ` + readExpr + ` AS is_read, n.creation_time
          FROM notifications n
          LEFT JOIN notification_reads r ON r.notification_id = n.notification_id AND r.user_id = ?
          WHERE (n.recipient_id = ? OR n.recipient_id = 'all')`
	args := []interface{}{f.RecipientID, f.RecipientID}
	if !f.IncludeExpired {
		q += " AND (n.expires_at IS NULL OR n.expires_at > ?)"
		args = append(args, f.Now.UTC())
	}
	if f.UnreadOnly {
		q += " AND NOT (" + readExpr + ")"
	}
	q += " ORDER BY n.creation_time DESC"
	if f.Limit > 0 {
		q += fmt.Sprintf(" LIMIT %d", f.Limit)
	}

	rows, err := n.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	var out []*model.Notification
	for rows.Next() {
		var rec model.Notification
		var expires sql.NullTime
		if err := rows.Scan(&rec.NotificationID, &rec.Title, &rec.Message, &rec.Type, &rec.RecipientID, &rec.SenderID, &expires, &rec.Read, &rec.CreationTime); err != nil {
			return nil, err
		}
		if expires.Valid {
			rec.ExpiresAt = &expires.Time
		}
		out = append(out, &rec)
	}
	return out, rows.Err()
}

func (n *notifications) MarkRead(ctx context.Context, notificationID, userID string) error {
	var recipient string
	if err := n.db.QueryRowContext(ctx, `SELECT recipient_id FROM notifications WHERE notification_id = ?`, notificationID).Scan(&recipient); err != nil {
		return notFound(err)
	}
	if recipient == model.BroadcastRecipient {
		_, err := n.db.ExecContext(ctx, `
            INSERT INTO notification_reads (notification_id, user_id, read_time) VALUES (?,?,?)
            ON CONFLICT (notification_id, user_id) DO NOTHING`,
			notificationID, userID, time.Now().UTC())
		return err
	}
	_, err := n.db.ExecContext(ctx, `UPDATE notifications SET is_read = 1 WHERE notification_id = ?`, notificationID)
	return err
}

func (n *notifications) Delete(ctx context.Context, notificationID string) error {
	tx, err := n.db.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()
	if _, err := tx.ExecContext(ctx, `DELETE FROM notification_reads WHERE notification_id=?`, notificationID); err != nil {
		return err
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM notifications WHERE notification_id=?`, notificationID)
	if err != nil {
		return err
	}
	if cnt, _ := res.RowsAffected(); cnt == 0 {
		return model.ErrNotFound
	}
	return tx.Commit()
}

func (n *notifications) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	res, err := n.db.ExecContext(ctx, `DELETE FROM notifications WHERE expires_at IS NOT NULL AND expires_at <= ?`, now.UTC())
	if err != nil {
		return 0, err
	}
	cnt, _ := res.RowsAffected()
	return cnt, nil
}

// --- Users ---

type users struct{ db *sql.DB }

func (u *users) Create(ctx context.Context, in *model.User) (*model.User, error) {
	now := time.Now().UTC()
	tz := in.TimeZone
	if tz == "" {
		tz = "UTC"
	}
	_, err := u.db.ExecContext(ctx, `
        INSERT INTO users (user_id, email, display_name, photo_url, time_zone, status, creation_time)
        VALUES (?,?,?,?,?,'ACTIVE',?)`,
		in.UserID, in.Email, in.DisplayName, in.PhotoURL, tz, now)
	if err != nil {
		return nil, err
	}
	out := *in
	out.TimeZone = tz
	out.Status = "ACTIVE"
	out.CreationTime = now
	return &out, nil
}

func (u *users) Get(ctx context.Context, userID string) (*model.User, error) {
	row := u.db.QueryRowContext(ctx, `
        SELECT user_id, email, display_name, photo_url, time_zone, status, creation_time, last_active_time
        FROM users WHERE user_id = ?`, userID)
	var rec model.User
	var last sql.NullTime
	if err := row.Scan(&rec.UserID, &rec.Email, &rec.DisplayName, &rec.PhotoURL, &rec.TimeZone, &rec.Status, &rec.CreationTime, &last); err != nil {
		return nil, notFound(err)
	}
	if last.Valid {
		rec.LastActiveTime = &last.Time
	}
	return &rec, nil
}

func (u *users) Update(ctx context.Context, in *model.User) (*model.User, error) {
	res, err := u.db.ExecContext(ctx, `
        UPDATE users SET display_name=?, photo_url=?, time_zone=? WHERE user_id=?`,
		in.DisplayName, in.PhotoURL, in.TimeZone, in.UserID)
	if err != nil {
		return nil, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, model.ErrNotFound
	}
	return u.Get(ctx, in.UserID)
}

func (u *users) UpdateLastActive(ctx context.Context, userID string) error {
	_, err := u.db.ExecContext(ctx, `UPDATE users SET last_active_time=? WHERE user_id=?`, time.Now().UTC(), userID)
	return err
}

func (u *users) Delete(ctx context.Context, userID string) error {
	res, err := u.db.ExecContext(ctx, `DELETE FROM users WHERE user_id=?`, userID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return model.ErrNotFound
	}
	return nil
}

// --- Roles ---

type roles struct{ db *sql.DB }

func (r *roles) Get(ctx context.Context, userID string) (*model.UserRole, error) {
	row := r.db.QueryRowContext(ctx, `SELECT user_id, role, update_time FROM user_roles WHERE user_id = ?`, userID)
	var rec model.UserRole
	if err := row.Scan(&rec.UserID, &rec.Role, &rec.UpdateTime); err != nil {
		return nil, notFound(err)
	}
	return &rec, nil
}

func (r *roles) Set(ctx context.Context, userID string, role model.Role) (*model.UserRole, error) {
	now := time.Now().UTC()
	_, err := r.db.ExecContext(ctx, `
        INSERT INTO user_roles (user_id, role, update_time) VALUES (?,?,?)
        ON CONFLICT (user_id) DO UPDATE SET role=excluded.role, update_time=excluded.update_time`,
		userID, role, now)
	if err != nil {
		return nil, err
	}
	return &model.UserRole{UserID: userID, Role: role, UpdateTime: now}, nil
}

// --- Moderation reports ---

type reports struct{ db *sql.DB }

func (r *reports) Create(ctx context.Context, in *model.ModerationReport) (*model.ModerationReport, error) {
	now := time.Now().UTC()
	id := uuid.New().String()
	_, err := r.db.ExecContext(ctx, `
        INSERT INTO moderation_reports (report_id, reporter_id, subject, reason, status, creation_time)
        VALUES (?,?,?,?,'open',?)`,
		id, in.ReporterID, in.Subject, in.Reason, now)
	if err != nil {
		return nil, err
	}
	out := *in
	out.ReportID = id
	out.Status = model.ReportOpen
	out.CreationTime = now
	return &out, nil
}

func (r *reports) GetByID(ctx context.Context, reportID string) (*model.ModerationReport, error) {
	row := r.db.QueryRowContext(ctx, `
        SELECT report_id, reporter_id, subject, reason, status, resolution, resolved_by, resolved_time, creation_time
        FROM moderation_reports WHERE report_id = ?`, reportID)
	return scanReport(row.Scan)
}

func (r *reports) List(ctx context.Context, status *model.ReportStatus, limit int) ([]*model.ModerationReport, error) {
	q := `SELECT report_id, reporter_id, subject, reason, status, resolution, resolved_by, resolved_time, creation_time
          FROM moderation_reports`
	var args []interface{}
	if status != nil {
		q += " WHERE status = ?"
		args = append(args, *status)
	}
	q += " ORDER BY creation_time DESC"
	if limit > 0 {
		q += fmt.Sprintf(" LIMIT %d", limit)
	}

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	var out []*model.ModerationReport
	for rows.Next() {
		rec, err := scanReport(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (r *reports) Resolve(ctx context.Context, reportID, resolverID, resolution string, status model.ReportStatus) (*model.ModerationReport, error) {
	now := time.Now().UTC()
	res, err := r.db.ExecContext(ctx, `
        UPDATE moderation_reports SET status=?, resolution=?, resolved_by=?, resolved_time=?
        WHERE report_id=?`, status, resolution, resolverID, now, reportID)
	if err != nil {
		return nil, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, model.ErrNotFound
	}
	return r.GetByID(ctx, reportID)
}

func scanReport(scan func(dest ...interface{}) error) (*model.ModerationReport, error) {
	var rec model.ModerationReport
	var resolved sql.NullTime
	if err := scan(&rec.ReportID, &rec.ReporterID, &rec.Subject, &rec.Reason, &rec.Status, &rec.Resolution, &rec.ResolvedBy, &resolved, &rec.CreationTime); err != nil {
		return nil, notFound(err)
	}
	if resolved.Valid {
		rec.ResolvedTime = &resolved.Time
	}
	return &rec, nil
}

// --- helpers ---

func notFound(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return model.ErrNotFound
	}
	return err
}

// encodeJSON marshals v to a JSON text column, binding NULL for empty values.
func encodeJSON(v interface{}) interface{} {
	switch t := v.(type) {
	case []string:
		if len(t) == 0 {
			return nil
		}
	case *model.Recurrence:
		if t == nil {
			return nil
		}
	case nil:
		return nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return nil
	}
	return string(b)
}

func decodeTags(s sql.NullString) []string {
	if !s.Valid || s.String == "" {
		return nil
	}
	var tags []string
	_ = json.Unmarshal([]byte(s.String), &tags)
	return tags
}

func utcPtr(t *time.Time) interface{} {
	if t == nil {
		return nil
	}
	return t.UTC()
}
