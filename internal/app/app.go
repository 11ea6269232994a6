package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"
	"time"

	"toggl-reporter/internal/adapter/gsheets"
	msql "toggl-reporter/internal/adapter/mysql"
	"toggl-reporter/internal/adapter/sqlite"
	tg "toggl-reporter/internal/adapter/toggl"
	"toggl-reporter/internal/config"
	"toggl-reporter/internal/migrate"
	"toggl-reporter/internal/ports"
	"toggl-reporter/internal/usecase"
)

// ErrSyncRunning is returned by RunOnce while another sync is in progress.
var ErrSyncRunning = errors.New("sync already running")

// App wires adapters and use cases.
type App struct {
	log    *slog.Logger
	cfg    config.Config
	toggl  *tg.Client
	uc     *usecase.SyncUseCase
	closer io.Closer

	running sync.Mutex
}

// New builds the Toggl client, migrates and opens the configured sink.
func New(ctx context.Context, log *slog.Logger, cfg config.Config) (*App, error) {
	if err := cfg.ValidateSink(); err != nil {
		return nil, err
	}
	sink, closer, err := openSink(ctx, log, cfg)
	if err != nil {
		return nil, err
	}
	a := newApp(log, cfg, NewTogglClient(cfg, log), sink)
	a.closer = closer
	return a, nil
}

func newApp(log *slog.Logger, cfg config.Config, client *tg.Client, sink ports.Sink) *App {
	return &App{
		log:   log,
		cfg:   cfg,
		toggl: client,
		uc: &usecase.SyncUseCase{
			Log:         log,
			Toggl:       client,
			Sink:        sink,
			WorkspaceID: cfg.Toggl.WorkspaceID,
		},
	}
}

// NewTogglClient returns a client for the configured account. An API token
// takes precedence over email and password.
func NewTogglClient(cfg config.Config, log *slog.Logger) *tg.Client {
	session := tg.NewTokenSession(cfg.Toggl.APIToken)
	if cfg.Toggl.APIToken == "" {
		session = tg.NewPasswordSession(cfg.Toggl.Email, cfg.Toggl.Password)
	}
	return tg.NewClient(session.WithUserAgent(cfg.Toggl.UserAgent), log,
		tg.WithEndpoints(tg.NewEndpoints(cfg.Toggl.BaseURL)),
		tg.WithPageDelay(cfg.Toggl.PageDelay),
	)
}

func openSink(ctx context.Context, log *slog.Logger, cfg config.Config) (ports.Sink, io.Closer, error) {
	switch cfg.Sync.Sink {
	case config.SinkSQLite:
		c, err := sqlite.Open(ctx, cfg.SQLite.Path, log)
		if err != nil {
			return nil, nil, err
		}
		return c, c, nil
	case config.SinkSheets:
		creds, err := os.ReadFile(cfg.Sheets.CredentialsFile)
		if err != nil {
			return nil, nil, fmt.Errorf("read sheets credentials: %w", err)
		}
		s, err := gsheets.NewSink(ctx, creds, cfg.Sheets.SpreadsheetID, cfg.Sheets.Sheet, log)
		if err != nil {
			return nil, nil, err
		}
		return s, nil, nil
	default:
		// Run migrations before opening the sink for use
		if err := migrate.Run(ctx, cfg.MySQL.DSN, log); err != nil {
			return nil, nil, err
		}
		c, err := msql.NewClient(ctx, cfg.MySQL.DSN, log)
		if err != nil {
			return nil, nil, err
		}
		return c, c, nil
	}
}

// RunOnce syncs [from, to) unless a sync is already running.
func (a *App) RunOnce(ctx context.Context, from, to time.Time) error {
	if !a.running.TryLock() {
		return ErrSyncRunning
	}
	defer a.running.Unlock()
	return a.uc.Run(ctx, from, to)
}

// Close releases the sink.
func (a *App) Close() error {
	if a.closer == nil {
		return nil
	}
	return a.closer.Close()
}
