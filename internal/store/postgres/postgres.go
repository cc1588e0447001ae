package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/TanoojVardhan/sloth-planner/internal/model"
	"github.com/TanoojVardhan/sloth-planner/internal/store"
)

// Open opens a PostgreSQL connection using the pgx stdlib driver and verifies
// connectivity.
func Open(dsn string) (*sql.DB, error) {
	if dsn == "" {
		return nil, fmt.Errorf("postgres DSN is empty")
	}
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

// NewWithDB constructs a native Postgres store backed directly by database/sql.
func NewWithDB(db *sql.DB) store.Store { return &pgStore{db: db} }

type pgStore struct{ db *sql.DB }

func (s *pgStore) Tasks() store.Tasks                 { return &tasks{db: s.db} }
func (s *pgStore) Events() store.Events               { return &events{db: s.db} }
func (s *pgStore) Goals() store.Goals                 { return &goals{db: s.db} }
func (s *pgStore) Projects() store.Projects           { return &projects{db: s.db} }
func (s *pgStore) Notifications() store.Notifications { return &notifications{db: s.db} }
func (s *pgStore) Users() store.Users                 { return &users{db: s.db} }
func (s *pgStore) Roles() store.Roles                 { return &roles{db: s.db} }
func (s *pgStore) Reports() store.Reports             { return &reports{db: s.db} }

// Ping implements health.Pinger.
func (s *pgStore) Ping(ctx context.Context) error { return s.db.PingContext(ctx) }

// Bootstrap verifies connectivity and applies the embedded schema. Deployments
// that run migrations out of band still pass; the statements are idempotent.
func Bootstrap(ctx context.Context, dsn string) error {
	if dsn == "" {
		return nil
	}
	db, err := Open(dsn)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()
	return EnsureSchema(ctx, db)
}

// --- Tasks ---

type tasks struct{ db *sql.DB }

func (t *tasks) Create(ctx context.Context, in *model.Task) (*model.Task, error) {
	id := uuid.New().String()
	var created, updated time.Time
	row := t.db.QueryRowContext(ctx, `
        INSERT INTO tasks (task_id, user_id, title, description, completed, priority, due_date, tags)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
        RETURNING creation_time, update_time
    `, id, in.UserID, in.Title, in.Description, in.Completed, in.Priority, in.DueDate, tagsJSON(in.Tags))
	if err := row.Scan(&created, &updated); err != nil {
		return nil, err
	}
	out := *in
	out.TaskID = id
	out.CreationTime = created
	out.UpdateTime = updated
	return &out, nil
}

func (t *tasks) GetByID(ctx context.Context, taskID string) (*model.Task, error) {
	row := t.db.QueryRowContext(ctx, `
        SELECT task_id, user_id, title, description, completed, priority, due_date, tags, creation_time, update_time
        FROM tasks WHERE task_id=$1
    `, taskID)
	return scanTask(row.Scan)
}

func (t *tasks) List(ctx context.Context, f model.TaskFilter) ([]*model.Task, error) {
	q := `SELECT task_id, user_id, title, description, completed, priority, due_date, tags, creation_time, update_time
          FROM tasks WHERE user_id=$1`
	args := []interface{}{f.UserID}
	if f.Completed != nil {
		args = append(args, *f.Completed)
		q += fmt.Sprintf(" AND completed=$%d", len(args))
	}
	if f.Priority != nil {
		args = append(args, *f.Priority)
		q += fmt.Sprintf(" AND priority=$%d", len(args))
	}
	if f.Tag != nil {
		args = append(args, *f.Tag)
		q += fmt.Sprintf(" AND tags ? $%d", len(args))
	}
	if f.DueAfter != nil {
		args = append(args, *f.DueAfter)
		q += fmt.Sprintf(" AND due_date >= $%d", len(args))
	}
	if f.DueBefore != nil {
		args = append(args, *f.DueBefore)
		q += fmt.Sprintf(" AND due_date <= $%d", len(args))
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
	res, err := t.db.ExecContext(ctx, `
        UPDATE tasks SET title=$1, description=$2, completed=$3, priority=$4, due_date=$5, tags=$6, update_time=now()
        WHERE task_id=$7
    `, in.Title, in.Description, in.Completed, in.Priority, in.DueDate, tagsJSON(in.Tags), in.TaskID)
	if err != nil {
		return nil, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, model.ErrNotFound
	}
	return t.GetByID(ctx, in.TaskID)
}

func (t *tasks) Delete(ctx context.Context, taskID string) error {
	res, err := t.db.ExecContext(ctx, `DELETE FROM tasks WHERE task_id=$1`, taskID)
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
	var due *model.Date
	if err := scan(&rec.TaskID, &rec.UserID, &rec.Title, &rec.Description, &rec.Completed, &rec.Priority, &dateScanner{&due}, &tags, &rec.CreationTime, &rec.UpdateTime); err != nil {
		return nil, notFound(err)
	}
	rec.DueDate = due
	rec.Tags = decodeTags(tags)
	return &rec, nil
}

// --- Events ---

type events struct{ db *sql.DB }

func (e *events) Create(ctx context.Context, in *model.Event) (*model.Event, error) {
	id := uuid.New().String()
	var created, updated time.Time
	row := e.db.QueryRowContext(ctx, `
        INSERT INTO events (event_id, user_id, title, description, location, start_time, end_time, all_day, color, tags, recurrence)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
        RETURNING creation_time, update_time
    `, id, in.UserID, in.Title, in.Description, in.Location, in.StartTime.UTC(), in.EndTime.UTC(), in.AllDay, in.Color, tagsJSON(in.Tags), recurrenceJSON(in.Recurrence))
	if err := row.Scan(&created, &updated); err != nil {
		return nil, err
	}
	out := *in
	out.EventID = id
	out.CreationTime = created
	out.UpdateTime = updated
	return &out, nil
}

func (e *events) GetByID(ctx context.Context, eventID string) (*model.Event, error) {
	row := e.db.QueryRowContext(ctx, `
        SELECT event_id, user_id, title, description, location, start_time, end_time, all_day, color, tags, recurrence, creation_time, update_time
        FROM events WHERE event_id=$1
    `, eventID)
	return scanEvent(row.Scan)
}

func (e *events) List(ctx context.Context, r model.EventRange) ([]*model.Event, error) {
	q := `SELECT event_id, user_id, title, description, location, start_time, end_time, all_day, color, tags, recurrence, creation_time, update_time
          FROM events WHERE user_id=$1`
	args := []interface{}{r.UserID}
	if !r.Start.IsZero() {
		args = append(args, r.Start.UTC())
		q += fmt.Sprintf(" AND end_time > $%d", len(args))
	}
	if !r.End.IsZero() {
		args = append(args, r.End.UTC())
		q += fmt.Sprintf(" AND start_time < $%d", len(args))
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
	res, err := e.db.ExecContext(ctx, `
        UPDATE events SET title=$1, description=$2, location=$3, start_time=$4, end_time=$5, all_day=$6, color=$7, tags=$8, recurrence=$9, update_time=now()
        WHERE event_id=$10
    `, in.Title, in.Description, in.Location, in.StartTime.UTC(), in.EndTime.UTC(), in.AllDay, in.Color, tagsJSON(in.Tags), recurrenceJSON(in.Recurrence), in.EventID)
	if err != nil {
		return nil, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, model.ErrNotFound
	}
	return e.GetByID(ctx, in.EventID)
}

func (e *events) Delete(ctx context.Context, eventID string) error {
	res, err := e.db.ExecContext(ctx, `DELETE FROM events WHERE event_id=$1`, eventID)
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
	id := uuid.New().String()
	completed := in.CurrentAmount >= in.TargetAmount
	var created, updated time.Time
	row := g.db.QueryRowContext(ctx, `
        INSERT INTO goals (goal_id, user_id, title, target_amount, current_amount, completed, category, due_date, tags)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
        RETURNING creation_time, update_time
    `, id, in.UserID, in.Title, in.TargetAmount, in.CurrentAmount, completed, in.Category, in.DueDate, tagsJSON(in.Tags))
	if err := row.Scan(&created, &updated); err != nil {
		return nil, err
	}
	out := *in
	out.GoalID = id
	out.Completed = completed
	out.CreationTime = created
	out.UpdateTime = updated
	return &out, nil
}

func (g *goals) GetByID(ctx context.Context, goalID string) (*model.Goal, error) {
	row := g.db.QueryRowContext(ctx, `
        SELECT goal_id, user_id, title, target_amount, current_amount, completed, category, due_date, tags, creation_time, update_time
        FROM goals WHERE goal_id=$1
    `, goalID)
	return scanGoal(row.Scan)
}

func (g *goals) List(ctx context.Context, f model.GoalFilter) ([]*model.Goal, error) {
	q := `SELECT goal_id, user_id, title, target_amount, current_amount, completed, category, due_date, tags, creation_time, update_time
          FROM goals WHERE user_id=$1`
	args := []interface{}{f.UserID}
	if f.Completed != nil {
		args = append(args, *f.Completed)
		q += fmt.Sprintf(" AND completed=$%d", len(args))
	}
	if f.Category != nil {
		args = append(args, *f.Category)
		q += fmt.Sprintf(" AND category=$%d", len(args))
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
	// completed is derived in the same statement that writes the amounts
	res, err := g.db.ExecContext(ctx, `
        UPDATE goals SET title=$1, target_amount=$2, current_amount=$3, completed=($3 >= $2), category=$4, due_date=$5, tags=$6, update_time=now()
        WHERE goal_id=$7
    `, in.Title, in.TargetAmount, in.CurrentAmount, in.Category, in.DueDate, tagsJSON(in.Tags), in.GoalID)
	if err != nil {
		return nil, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, model.ErrNotFound
	}
	return g.GetByID(ctx, in.GoalID)
}

func (g *goals) UpdateProgress(ctx context.Context, goalID string, current float64) (*model.Goal, error) {
	res, err := g.db.ExecContext(ctx, `
        UPDATE goals SET current_amount=$1, completed=($1 >= target_amount), update_time=now()
        WHERE goal_id=$2
    `, current, goalID)
	if err != nil {
		return nil, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, model.ErrNotFound
	}
	return g.GetByID(ctx, goalID)
}

func (g *goals) Delete(ctx context.Context, goalID string) error {
	res, err := g.db.ExecContext(ctx, `DELETE FROM goals WHERE goal_id=$1`, goalID)
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
	var due *model.Date
	if err := scan(&rec.GoalID, &rec.UserID, &rec.Title, &rec.TargetAmount, &rec.CurrentAmount, &rec.Completed, &rec.Category, &dateScanner{&due}, &tags, &rec.CreationTime, &rec.UpdateTime); err != nil {
		return nil, notFound(err)
	}
	rec.DueDate = due
	rec.Tags = decodeTags(tags)
	return &rec, nil
}

// --- Projects ---

type projects struct{ db *sql.DB }

func (p *projects) Create(ctx context.Context, in *model.Project) (*model.Project, error) {
	id := uuid.New().String()
	var created, updated time.Time
	row := p.db.QueryRowContext(ctx, `
        INSERT INTO projects (project_id, user_id, title, difficulty, status, estimated_hours, category, tags)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
        RETURNING creation_time, update_time
    `, id, in.UserID, in.Title, in.Difficulty, in.Status, in.EstimatedHours, in.Category, tagsJSON(in.Tags))
	if err := row.Scan(&created, &updated); err != nil {
		return nil, err
	}
	out := *in
	out.ProjectID = id
	out.CreationTime = created
	out.UpdateTime = updated
	return &out, nil
}

func (p *projects) GetByID(ctx context.Context, projectID string) (*model.Project, error) {
	row := p.db.QueryRowContext(ctx, `
        SELECT project_id, user_id, title, difficulty, status, estimated_hours, category, tags, creation_time, update_time
        FROM projects WHERE project_id=$1
    `, projectID)
	return scanProject(row.Scan)
}

func (p *projects) List(ctx context.Context, f model.ProjectFilter) ([]*model.Project, error) {
	q := `SELECT project_id, user_id, title, difficulty, status, estimated_hours, category, tags, creation_time, update_time
          FROM projects WHERE user_id=$1`
	args := []interface{}{f.UserID}
	if f.Status != nil {
		args = append(args, *f.Status)
		q += fmt.Sprintf(" AND status=$%d", len(args))
	}
	if f.Category != nil {
		args = append(args, *f.Category)
		q += fmt.Sprintf(" AND category=$%d", len(args))
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
	res, err := p.db.ExecContext(ctx, `
        UPDATE projects SET title=$1, difficulty=$2, status=$3, estimated_hours=$4, category=$5, tags=$6, update_time=now()
        WHERE project_id=$7
    `, in.Title, in.Difficulty, in.Status, in.EstimatedHours, in.Category, tagsJSON(in.Tags), in.ProjectID)
	if err != nil {
		return nil, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, model.ErrNotFound
	}
	return p.GetByID(ctx, in.ProjectID)
}

func (p *projects) Delete(ctx context.Context, projectID string) error {
	res, err := p.db.ExecContext(ctx, `DELETE FROM projects WHERE project_id=$1`, projectID)
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
	id := uuid.New().String()
	var created time.Time
	row := n.db.QueryRowContext(ctx, `
        INSERT INTO notifications (notification_id, title, message, type, recipient_id, sender_id, expires_at)
        VALUES ($1,$2,$3,$4,$5,$6,$7)
        RETURNING creation_time
    `, id, in.Title, in.Message, in.Type, in.RecipientID, in.SenderID, utcPtr(in.ExpiresAt))
	if err := row.Scan(&created); err != nil {
		return nil, err
	}
	out := *in
	out.NotificationID = id
	out.Read = false
	out.CreationTime = created
	return &out, nil
}

func (n *notifications) GetByID(ctx context.Context, notificationID string) (*model.Notification, error) {
	row := n.db.QueryRowContext(ctx, `
        SELECT notification_id, title, message, type, recipient_id, sender_id, expires_at, is_read, creation_time
        FROM notifications WHERE notification_id=$1
    `, notificationID)
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
          LEFT JOIN notification_reads r ON r.notification_id = n.notification_id AND r.user_id = $1
          WHERE (n.recipient_id = $1 OR n.recipient_id = 'all')`
	args := []interface{}{f.RecipientID}
	if !f.IncludeExpired {
		args = append(args, f.Now.UTC())
		q += fmt.Sprintf(" AND (n.expires_at IS NULL OR n.expires_at > $%d)", len(args))
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
	if err := n.db.QueryRowContext(ctx, `SELECT recipient_id FROM notifications WHERE notification_id=$1`, notificationID).Scan(&recipient); err != nil {
		return notFound(err)
	}
	if recipient == model.BroadcastRecipient {
		_, err := n.db.ExecContext(ctx, `
            INSERT INTO notification_reads (notification_id, user_id, read_time) VALUES ($1,$2,now())
            ON CONFLICT (notification_id, user_id) DO NOTHING
        `, notificationID, userID)
		return err
	}
	_, err := n.db.ExecContext(ctx, `UPDATE notifications SET is_read=true WHERE notification_id=$1`, notificationID)
	return err
}

func (n *notifications) Delete(ctx context.Context, notificationID string) error {
	tx, err := n.db.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()
	if _, err := tx.ExecContext(ctx, `DELETE FROM notification_reads WHERE notification_id=$1`, notificationID); err != nil {
		return err
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM notifications WHERE notification_id=$1`, notificationID)
	if err != nil {
		return err
	}
	if cnt, _ := res.RowsAffected(); cnt == 0 {
		return model.ErrNotFound
	}
	return tx.Commit()
}

func (n *notifications) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	res, err := n.db.ExecContext(ctx, `DELETE FROM notifications WHERE expires_at IS NOT NULL AND expires_at <= $1`, now.UTC())
	if err != nil {
		return 0, err
	}
	cnt, _ := res.RowsAffected()
	return cnt, nil
}

// --- Users ---

type users struct{ db *sql.DB }

func (u *users) Create(ctx context.Context, in *model.User) (*model.User, error) {
	tz := in.TimeZone
	if tz == "" {
		tz = "UTC"
	}
	var created time.Time
	row := u.db.QueryRowContext(ctx, `
        INSERT INTO users (user_id, email, display_name, photo_url, time_zone, status)
        VALUES ($1,$2,$3,$4,$5,'ACTIVE')
        RETURNING creation_time
    `, in.UserID, in.Email, in.DisplayName, in.PhotoURL, tz)
	if err := row.Scan(&created); err != nil {
		return nil, err
	}
	out := *in
	out.TimeZone = tz
	out.Status = "ACTIVE"
	out.CreationTime = created
	return &out, nil
}

func (u *users) Get(ctx context.Context, userID string) (*model.User, error) {
	row := u.db.QueryRowContext(ctx, `
        SELECT user_id, email, display_name, photo_url, time_zone, status, creation_time, last_active_time
        FROM users WHERE user_id=$1
    `, userID)
	var rec model.User
	var last *time.Time
	if err := row.Scan(&rec.UserID, &rec.Email, &rec.DisplayName, &rec.PhotoURL, &rec.TimeZone, &rec.Status, &rec.CreationTime, &last); err != nil {
		return nil, notFound(err)
	}
	rec.LastActiveTime = last
	return &rec, nil
}

func (u *users) Update(ctx context.Context, in *model.User) (*model.User, error) {
	res, err := u.db.ExecContext(ctx, `
        UPDATE users SET display_name=$1, photo_url=$2, time_zone=$3 WHERE user_id=$4
    `, in.DisplayName, in.PhotoURL, in.TimeZone, in.UserID)
	if err != nil {
		return nil, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, model.ErrNotFound
	}
	return u.Get(ctx, in.UserID)
}

func (u *users) UpdateLastActive(ctx context.Context, userID string) error {
	_, err := u.db.ExecContext(ctx, `UPDATE users SET last_active_time=now() WHERE user_id=$1`, userID)
	return err
}

func (u *users) Delete(ctx context.Context, userID string) error {
	res, err := u.db.ExecContext(ctx, `DELETE FROM users WHERE user_id=$1`, userID)
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
	row := r.db.QueryRowContext(ctx, `SELECT user_id, role, update_time FROM user_roles WHERE user_id=$1`, userID)
	var rec model.UserRole
	if err := row.Scan(&rec.UserID, &rec.Role, &rec.UpdateTime); err != nil {
		return nil, notFound(err)
	}
	return &rec, nil
}

func (r *roles) Set(ctx context.Context, userID string, role model.Role) (*model.UserRole, error) {
	var updated time.Time
	row := r.db.QueryRowContext(ctx, `
        INSERT INTO user_roles (user_id, role, update_time) VALUES ($1,$2,now())
        ON CONFLICT (user_id) DO UPDATE SET role=excluded.role, update_time=now()
        RETURNING update_time
    `, userID, role)
	if err := row.Scan(&updated); err != nil {
		return nil, err
	}
	return &model.UserRole{UserID: userID, Role: role, UpdateTime: updated}, nil
}

// --- Moderation reports ---

type reports struct{ db *sql.DB }

func (r *reports) Create(ctx context.Context, in *model.ModerationReport) (*model.ModerationReport, error) {
	id := uuid.New().String()
	var created time.Time
	row := r.db.QueryRowContext(ctx, `
        INSERT INTO moderation_reports (report_id, reporter_id, subject, reason, status)
        VALUES ($1,$2,$3,$4,'open')
        RETURNING creation_time
    `, id, in.ReporterID, in.Subject, in.Reason)
	if err := row.Scan(&created); err != nil {
		return nil, err
	}
	out := *in
	out.ReportID = id
	out.Status = model.ReportOpen
	out.CreationTime = created
	return &out, nil
}

func (r *reports) GetByID(ctx context.Context, reportID string) (*model.ModerationReport, error) {
	row := r.db.QueryRowContext(ctx, `
        SELECT report_id, reporter_id, subject, reason, status, resolution, resolved_by, resolved_time, creation_time
        FROM moderation_reports WHERE report_id=$1
    `, reportID)
	return scanReport(row.Scan)
}

func (r *reports) List(ctx context.Context, status *model.ReportStatus, limit int) ([]*model.ModerationReport, error) {
	q := `SELECT report_id, reporter_id, subject, reason, status, resolution, resolved_by, resolved_time, creation_time
          FROM moderation_reports`
	var args []interface{}
	if status != nil {
		args = append(args, *status)
		q += " WHERE status=$1"
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
	res, err := r.db.ExecContext(ctx, `
        UPDATE moderation_reports SET status=$1, resolution=$2, resolved_by=$3, resolved_time=now()
        WHERE report_id=$4
    `, status, resolution, resolverID, reportID)
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

func tagsJSON(tags []string) interface{} {
	if len(tags) == 0 {
		return nil
	}
	b, _ := json.Marshal(tags)
	return b
}

func decodeTags(s sql.NullString) []string {
	if !s.Valid || s.String == "" {
		return nil
	}
	var tags []string
	_ = json.Unmarshal([]byte(s.String), &tags)
	return tags
}

func recurrenceJSON(r *model.Recurrence) interface{} {
	if r == nil {
		return nil
	}
	b, _ := json.Marshal(r)
	return b
}

func utcPtr(t *time.Time) interface{} {
	if t == nil {
		return nil
	}
	return t.UTC()
}

// dateScanner scans a nullable DATE column into a *model.Date.
type dateScanner struct{ dst **model.Date }

func (s *dateScanner) Scan(src interface{}) error {
	if src == nil {
		*s.dst = nil
		return nil
	}
	var d model.Date
	if err := d.Scan(src); err != nil {
		return err
	}
	*s.dst = &d
	return nil
}
