package mysql

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	_ "github.com/go-sql-driver/mysql"

	"toggl-reporter/internal/domain"
)

// Client implements ports.Sink and ports.ProjectSink on MySQL.
type Client struct {
	db  *sql.DB
	log *slog.Logger
}

// NewClient opens a MySQL connection using the provided DSN.
// Example DSN: user:pass@tcp(host:3306)/dbname?parseTime=true
func NewClient(ctx context.Context, dsn string, log *slog.Logger) (*Client, error) {
	if dsn == "" {
		return nil, errors.New("mysql: DSN is required")
	}
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(30 * time.Minute)

	c, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(c); err != nil {
		db.Close()
		return nil, err
	}
	return &Client{db: db, log: log}, nil
}

const upsertEntry = `
INSERT INTO toggl_report_entries
  (id, project_id, task_id, user_id, user_name, description, client, project, task,
   start, stop, duration_ms, is_billable, billable_amount, currency, tags, updated)
VALUES
  (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
ON DUPLICATE KEY UPDATE
  project_id=VALUES(project_id),
  task_id=VALUES(task_id),
  user_id=VALUES(user_id),
  user_name=VALUES(user_name),
  description=VALUES(description),
  client=VALUES(client),
  project=VALUES(project),
  task=VALUES(task),
  start=VALUES(start),
  stop=VALUES(stop),
  duration_ms=VALUES(duration_ms),
  is_billable=VALUES(is_billable),
  billable_amount=VALUES(billable_amount),
  currency=VALUES(currency),
  tags=VALUES(tags),
  updated=VALUES(updated);
`

// SyncEntries upserts report entries in one transaction.
func (c *Client) SyncEntries(ctx context.Context, entries []domain.ReportEntry) error {
	if len(entries) == 0 {
		return nil
	}
	tx, err := c.db.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return err
	}
	stmt, err := tx.PrepareContext(ctx, upsertEntry)
	if err != nil {
		tx.Rollback()
		return err
	}
	defer stmt.Close()

	for _, e := range entries {
		// Tags are stored as a JSON array in a TEXT column.
		tagsJSON, err := json.Marshal(tagsOrEmpty(e.Tags))
		if err != nil {
			tx.Rollback()
			return err
		}
		var stop any
		if e.End != nil {
			stop = e.End.UTC()
		}
		if _, err := stmt.ExecContext(ctx,
			e.ID,
			nullable(e.ProjectID),
			nullable(e.TaskID),
			e.UserID,
			e.User,
			e.Description,
			e.Client,
			e.Project,
			e.Task,
			e.Start.UTC(),
			stop,
			e.DurationMs,
			e.IsBillable,
			e.Billable,
			e.Currency,
			string(tagsJSON),
			e.Updated.UTC(),
		); err != nil {
			tx.Rollback()
			return err
		}
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	c.log.Info("mysql sink upserted entries", slog.Int("count", len(entries)))
	return nil
}

// SyncProjects upserts projects into the MySQL table.
func (c *Client) SyncProjects(ctx context.Context, projects []domain.Project) error {
	if len(projects) == 0 {
		return nil
	}
	tx, err := c.db.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return err
	}
	const q = `
INSERT INTO toggl_projects
  (id, workspace_id, name, active, is_private, billable, color, client_id, at)
VALUES
  (?, ?, ?, ?, ?, ?, ?, ?, ?)
ON DUPLICATE KEY UPDATE
  workspace_id=VALUES(workspace_id),
  name=VALUES(name),
  active=VALUES(active),
  is_private=VALUES(is_private),
  billable=VALUES(billable),
  color=VALUES(color),
  client_id=VALUES(client_id),
  at=VALUES(at);
`
	stmt, err := tx.PrepareContext(ctx, q)
	if err != nil {
		tx.Rollback()
		return err
	}
	defer stmt.Close()

	for _, p := range projects {
		if _, err := stmt.ExecContext(ctx,
			p.ID,
			p.WorkspaceID,
			p.Name,
			p.Active,
			p.Private,
			p.Billable,
			p.Color,
			nullable(p.ClientID),
			p.At.UTC(),
		); err != nil {
			tx.Rollback()
			return err
		}
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	c.log.Info("mysql sink upserted projects", slog.Int("count", len(projects)))
	return nil
}

// Close closes the underlying DB.
func (c *Client) Close() error { return c.db.Close() }

func nullable(id *int64) any {
	if id == nil {
		return nil
	}
	return *id
}

func tagsOrEmpty(tags []string) []string {
	if tags == nil {
		return []string{}
	}
	return tags
}
