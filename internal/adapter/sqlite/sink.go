package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"

	"toggl-reporter/internal/domain"
	"toggl-reporter/internal/migrate"
)

// Times are stored as RFC3339 text in UTC so they sort lexically.
const timeLayout = "2006-01-02T15:04:05.000000Z07:00"

// Client implements ports.Sink and ports.ProjectSink on a local SQLite file.
type Client struct {
	db  *sql.DB
	log *slog.Logger
}

// Open creates the database file and its directory when missing and
// applies the migrations.
func Open(ctx context.Context, path string, log *slog.Logger) (*Client, error) {
	if path == "" {
		return nil, errors.New("sqlite: path is required")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("sqlite: create data directory: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("sqlite: open: %w", err)
	}
	// A single connection serializes writers.
	db.SetMaxOpenConns(1)
	if err := migrate.Up(ctx, db, goose.DialectSQLite3, log); err != nil {
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
ON CONFLICT(id) DO UPDATE SET
  project_id=excluded.project_id,
  task_id=excluded.task_id,
  user_id=excluded.user_id,
  user_name=excluded.user_name,
  description=excluded.description,
  client=excluded.client,
  project=excluded.project,
  task=excluded.task,
  start=excluded.start,
  stop=excluded.stop,
  duration_ms=excluded.duration_ms,
  is_billable=excluded.is_billable,
  billable_amount=excluded.billable_amount,
  currency=excluded.currency,
  tags=excluded.tags,
  updated=excluded.updated
`

// SyncEntries upserts report entries in one transaction.
func (c *Client) SyncEntries(ctx context.Context, entries []domain.ReportEntry) error {
	if len(entries) == 0 {
		return nil
	}
	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, upsertEntry)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, e := range entries {
		tags := e.Tags
		if tags == nil {
			tags = []string{}
		}
		tagsJSON, err := json.Marshal(tags)
		if err != nil {
			return err
		}
		var stop any
		if e.End != nil {
			stop = formatTime(*e.End)
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
			formatTime(e.Start),
			stop,
			e.DurationMs,
			e.IsBillable,
			e.Billable,
			e.Currency,
			string(tagsJSON),
			formatTime(e.Updated),
		); err != nil {
			return fmt.Errorf("sqlite: upsert entry %d: %w", e.ID, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	c.log.Info("sqlite sink upserted entries", slog.Int("count", len(entries)))
	return nil
}

// SyncProjects upserts projects in one transaction.
func (c *Client) SyncProjects(ctx context.Context, projects []domain.Project) error {
	if len(projects) == 0 {
		return nil
	}
	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
INSERT INTO toggl_projects (id, workspace_id, name, active, is_private, billable, color, client_id, at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(id) DO UPDATE SET
  workspace_id=excluded.workspace_id,
  name=excluded.name,
  active=excluded.active,
  is_private=excluded.is_private,
  billable=excluded.billable,
  color=excluded.color,
  client_id=excluded.client_id,
  at=excluded.at`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, p := range projects {
		if _, err := stmt.ExecContext(ctx,
			p.ID, p.WorkspaceID, p.Name, p.Active, p.Private, p.Billable, p.Color,
			nullable(p.ClientID), formatTime(p.At),
		); err != nil {
			return fmt.Errorf("sqlite: upsert project %d: %w", p.ID, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	c.log.Info("sqlite sink upserted projects", slog.Int("count", len(projects)))
	return nil
}

// Entries returns the stored entries that started in [since, until),
// ordered by start.
func (c *Client) Entries(ctx context.Context, since, until time.Time) ([]domain.ReportEntry, error) {
	rows, err := c.db.QueryContext(ctx, `
SELECT id, project_id, task_id, user_id, user_name, description, client, project, task,
       start, stop, duration_ms, is_billable, billable_amount, currency, tags, updated
FROM toggl_report_entries
WHERE start >= ? AND start < ?
ORDER BY start, id`, formatTime(since), formatTime(until))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.ReportEntry
	for rows.Next() {
		var (
			e                    domain.ReportEntry
			pid, tid             sql.NullInt64
			start, updated, tags string
			stop                 sql.NullString
		)
		if err := rows.Scan(&e.ID, &pid, &tid, &e.UserID, &e.User, &e.Description, &e.Client, &e.Project, &e.Task,
			&start, &stop, &e.DurationMs, &e.IsBillable, &e.Billable, &e.Currency, &tags, &updated); err != nil {
			return nil, err
		}
		if pid.Valid {
			e.ProjectID = &pid.Int64
		}
		if tid.Valid {
			e.TaskID = &tid.Int64
		}
		if e.Start, err = time.Parse(timeLayout, start); err != nil {
			return nil, err
		}
		if e.Updated, err = time.Parse(timeLayout, updated); err != nil {
			return nil, err
		}
		if stop.Valid {
			end, err := time.Parse(timeLayout, stop.String)
			if err != nil {
				return nil, err
			}
			e.End = &end
		}
		if err := json.Unmarshal([]byte(tags), &e.Tags); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// Close closes the underlying DB.
func (c *Client) Close() error { return c.db.Close() }

func formatTime(t time.Time) string { return t.UTC().Format(timeLayout) }

func nullable(id *int64) any {
	if id == nil {
		return nil
	}
	return *id
}
