package migrate

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"log/slog"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/pressly/goose/v3"
)

// sql/<dialect>/ holds goose migrations named like 00001_description.sql.
//
//go:embed sql
var migrationsFS embed.FS

// Run opens the MySQL database at dsn and applies pending migrations.
func Run(ctx context.Context, dsn string, log *slog.Logger) error {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return err
	}
	defer db.Close()

	c, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(c); err != nil {
		return err
	}
	return Up(ctx, db, goose.DialectMySQL, log)
}

// Up applies the pending migrations of dialect to db. Only MySQL and
// SQLite have migrations.
func Up(ctx context.Context, db *sql.DB, dialect goose.Dialect, log *slog.Logger) error {
	sub, err := fs.Sub(migrationsFS, "sql/"+string(dialect))
	if err != nil {
		return err
	}
	if matches, _ := fs.Glob(sub, "*.sql"); len(matches) == 0 {
		return fmt.Errorf("migrate: no migrations for dialect %q", dialect)
	}
	p, err := goose.NewProvider(dialect, db, sub)
	if err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	results, err := p.Up(ctx)
	if err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	if len(results) == 0 {
		log.Debug("migrations up to date", slog.String("dialect", string(dialect)))
	}
	for _, r := range results {
		log.Info("applied migration",
			slog.Int64("version", r.Source.Version),
			slog.String("file", r.Source.Path),
			slog.Duration("dur", r.Duration),
		)
	}
	return nil
}
