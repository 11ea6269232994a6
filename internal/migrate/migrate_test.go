package migrate

import (
	"context"
	"database/sql"
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"
)

func TestUp_SQLite(t *testing.T) {
	db, err := sql.Open("sqlite", filepath.Join(t.TempDir(), "toggl.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		if err := Up(ctx, db, goose.DialectSQLite3, log); err != nil {
			t.Fatalf("Up #%d: %v", i+1, err)
		}
	}
	for _, table := range []string{"toggl_report_entries", "toggl_projects"} {
		var n int
		err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name=?", table).Scan(&n)
		if err != nil || n != 1 {
			t.Fatalf("table %s: n=%d err=%v", table, n, err)
		}
	}
}

func TestUp_UnknownDialect(t *testing.T) {
	db, err := sql.Open("sqlite", filepath.Join(t.TempDir(), "toggl.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()
	if err := Up(context.Background(), db, goose.DialectPostgres, slog.New(slog.NewTextHandler(io.Discard, nil))); err == nil {
		t.Fatal("expected error for dialect without migrations")
	}
}
