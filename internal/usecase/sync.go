package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"toggl-reporter/internal/domain"
	"toggl-reporter/internal/ports"
)

// SyncUseCase coordinates fetching the detailed report and syncing it to a Sink.
type SyncUseCase struct {
	Log         *slog.Logger
	Toggl       ports.TogglClient
	Sink        ports.Sink
	WorkspaceID int64
}

// Run copies the report entries started in [from, to) to the sink. When the
// report fails after some pages, the entries fetched so far are still written
// and the report error is returned.
func (uc *SyncUseCase) Run(ctx context.Context, from, to time.Time) error {
	if uc.Toggl == nil || uc.Sink == nil {
		return errors.New("usecase not initialized: missing dependencies")
	}
	if uc.WorkspaceID == 0 {
		return errors.New("sync: workspace id is required")
	}

	if ps, ok := uc.Sink.(ports.ProjectSink); ok {
		if err := uc.syncProjects(ctx, ps); err != nil {
			return err
		}
	}

	uc.Log.Info("fetching report entries", slog.Time("from", from), slog.Time("to", to))
	report, fetchErr := uc.Toggl.ReportEntries(ctx, domain.ReportFilter{
		WorkspaceID: uc.WorkspaceID,
		Since:       from,
		Until:       to,
	})
	entries := report.Entries
	if fetchErr != nil && len(entries) == 0 {
		return fmt.Errorf("fetch report: %w", fetchErr)
	}
	if fetchErr != nil {
		uc.Log.Warn("report incomplete, syncing partial data",
			slog.Int("fetched", len(entries)),
			slog.Int("total", report.TotalCount),
			slog.Any("err", fetchErr),
		)
	} else {
		uc.Log.Info("fetched report entries", slog.Int("count", len(entries)))
	}

	if len(entries) == 0 {
		uc.Log.Info("no entries to sync")
		return nil
	}

	if err := uc.Sink.SyncEntries(ctx, entries); err != nil {
		return errors.Join(err, fetchErr)
	}
	if fetchErr != nil {
		return fmt.Errorf("fetch report: %w", fetchErr)
	}
	uc.Log.Info("sync completed", slog.Int("count", len(entries)))
	return nil
}

func (uc *SyncUseCase) syncProjects(ctx context.Context, ps ports.ProjectSink) error {
	projects, err := uc.Toggl.WorkspaceProjects(ctx, uc.WorkspaceID)
	if err != nil {
		return fmt.Errorf("fetch projects: %w", err)
	}
	if len(projects) == 0 {
		return nil
	}
	if err := ps.SyncProjects(ctx, projects); err != nil {
		return err
	}
	uc.Log.Info("projects synced", slog.Int("count", len(projects)))
	return nil
}
