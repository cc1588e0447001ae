package sqlite

import "database/sql"

// DDL statements for the local build target; the postgres adapter embeds the
// equivalent schema in its schema.sql. The sqlite adapter bootstraps itself so
// a fresh local file is immediately usable.
var ddl = []string{
	`CREATE TABLE IF NOT EXISTS users (
        user_id          TEXT PRIMARY KEY,
        email            TEXT NOT NULL UNIQUE,
        display_name     TEXT,
        photo_url        TEXT,
        time_zone        TEXT NOT NULL DEFAULT 'UTC',
        status           TEXT NOT NULL DEFAULT 'ACTIVE',
        creation_time    TIMESTAMP NOT NULL,
        last_active_time TIMESTAMP
    )`,
	`CREATE TABLE IF NOT EXISTS user_roles (
        user_id     TEXT PRIMARY KEY,
        role        TEXT NOT NULL,
        update_time TIMESTAMP NOT NULL
    )`,
	`CREATE TABLE IF NOT EXISTS tasks (
        task_id       TEXT PRIMARY KEY,
        user_id       TEXT NOT NULL,
        title         TEXT NOT NULL,
        description   TEXT,
        completed     INTEGER NOT NULL DEFAULT 0,
        priority      TEXT NOT NULL,
        due_date      TEXT,
        tags          TEXT,
        creation_time TIMESTAMP NOT NULL,
        update_time   TIMESTAMP NOT NULL
    )`,
	`CREATE INDEX IF NOT EXISTS idx_tasks_user ON tasks(user_id, creation_time)`,
	`CREATE TABLE IF NOT EXISTS events (
        event_id      TEXT PRIMARY KEY,
        user_id       TEXT NOT NULL,
        title         TEXT NOT NULL,
        description   TEXT,
        location      TEXT,
        start_time    TIMESTAMP NOT NULL,
        end_time      TIMESTAMP NOT NULL,
        all_day       INTEGER NOT NULL DEFAULT 0,
        color         TEXT,
        tags          TEXT,
        recurrence    TEXT,
        creation_time TIMESTAMP NOT NULL,
        update_time   TIMESTAMP NOT NULL
    )`,
	`CREATE INDEX IF NOT EXISTS idx_events_user_start ON events(user_id, start_time)`,
	`CREATE TABLE IF NOT EXISTS goals (
        goal_id        TEXT PRIMARY KEY,
        user_id        TEXT NOT NULL,
        title          TEXT NOT NULL,
        target_amount  REAL NOT NULL,
        current_amount REAL NOT NULL DEFAULT 0,
        completed      INTEGER NOT NULL DEFAULT 0,
        category       TEXT,
        due_date       TEXT,
        tags           TEXT,
        creation_time  TIMESTAMP NOT NULL,
        update_time    TIMESTAMP NOT NULL
    )`,
	`CREATE INDEX IF NOT EXISTS idx_goals_user ON goals(user_id, creation_time)`,
	`CREATE TABLE IF NOT EXISTS projects (
        project_id      TEXT PRIMARY KEY,
        user_id         TEXT NOT NULL,
        title           TEXT NOT NULL,
        difficulty      TEXT NOT NULL,
        status          TEXT NOT NULL,
        estimated_hours REAL,
        category        TEXT,
        tags            TEXT,
        creation_time   TIMESTAMP NOT NULL,
        update_time     TIMESTAMP NOT NULL
    )`,
	`CREATE INDEX IF NOT EXISTS idx_projects_user ON projects(user_id, creation_time)`,
	`CREATE TABLE IF NOT EXISTS notifications (
        notification_id TEXT PRIMARY KEY,
        title           TEXT NOT NULL,
        message         TEXT NOT NULL,
        type            TEXT NOT NULL,
        recipient_id    TEXT NOT NULL,
        sender_id       TEXT,
        expires_at      TIMESTAMP,
        is_read         INTEGER NOT NULL DEFAULT 0,
        creation_time   TIMESTAMP NOT NULL
    )`,
	`CREATE INDEX IF NOT EXISTS idx_notifications_recipient ON notifications(recipient_id, creation_time)`,
	`CREATE TABLE IF NOT EXISTS notification_reads (
        notification_id TEXT NOT NULL,
        user_id         TEXT NOT NULL,
        read_time       TIMESTAMP NOT NULL,
        PRIMARY KEY (notification_id, user_id)
    )`,
	`CREATE TABLE IF NOT EXISTS moderation_reports (
        report_id     TEXT PRIMARY KEY,
        reporter_id   TEXT NOT NULL,
        subject       TEXT NOT NULL,
        reason        TEXT NOT NULL,
        status        TEXT NOT NULL DEFAULT 'open',
        resolution    TEXT,
        resolved_by   TEXT,
        resolved_time TIMESTAMP,
        creation_time TIMESTAMP NOT NULL
    )`,
	`CREATE INDEX IF NOT EXISTS idx_reports_status ON moderation_reports(status, creation_time)`,
}

// Bootstrap applies the schema; every statement is idempotent.
func Bootstrap(db *sql.DB) error {
	for _, stmt := range ddl {
		if _, err := db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}
