package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"toggl-reporter/internal/domain"
	"toggl-reporter/internal/ports"
)

// CloneRequest selects one user's entries in a source workspace and the
// project they are copied into on the target account.
type CloneRequest struct {
	SourceWorkspaceID int64
	UserID            int64
	Since             time.Time
	Until             time.Time
	TargetProjectID   int64
}

// CloneResult counts the outcome of a clone run.
type CloneResult struct {
	Created int
	Skipped int
}

// CloneUseCase copies hours from one Toggl account to another. Source and
// Target are usually clients with different sessions.
type CloneUseCase struct {
	Log    *slog.Logger
	Source ports.TogglClient
	Target ports.EntryCreator
}

// Run creates one entry per source record, starting at the record's hour
// with its duration rounded to a tenth of an hour. Records that round to
// zero are skipped. Nothing is created unless the whole report was read.
func (uc *CloneUseCase) Run(ctx context.Context, req CloneRequest) (CloneResult, error) {
	var res CloneResult
	if uc.Source == nil || uc.Target == nil {
		return res, errors.New("usecase not initialized: missing dependencies")
	}
	if req.TargetProjectID == 0 {
		return res, errors.New("clone: target project id is required")
	}

	f := domain.ReportFilter{
		WorkspaceID: req.SourceWorkspaceID,
		Since:       req.Since,
		Until:       req.Until,
	}
	if req.UserID != 0 {
		f.UserIDs = []int64{req.UserID}
	}
	report, err := uc.Source.ReportEntries(ctx, f)
	if err != nil {
		return res, fmt.Errorf("fetch source entries: %w", err)
	}
	uc.Log.Info("cloning entries", slog.Int("count", len(report.Entries)))

	for _, e := range report.Entries {
		d := RoundToTenthHour(e.Duration())
		if d <= 0 {
			uc.Log.Warn("skipping short entry", slog.Int64("id", e.ID), slog.Duration("dur", e.Duration()))
			res.Skipped++
			continue
		}
		_, err := uc.Target.CreateTimeEntry(ctx, domain.NewTimeEntry{
			Duration:    d,
			Description: e.Description,
			ProjectID:   req.TargetProjectID,
			Start:       startOfHour(e.Start),
			Billable:    e.IsBillable,
		})
		if err != nil {
			return res, fmt.Errorf("clone entry %d: %w", e.ID, err)
		}
		res.Created++
	}
	uc.Log.Info("clone completed", slog.Int("created", res.Created), slog.Int("skipped", res.Skipped))
	return res, nil
}

// RoundToTenthHour rounds d to the nearest 6 minutes.
func RoundToTenthHour(d time.Duration) time.Duration {
	tenths := math.Round(d.Hours() * 10)
	return time.Duration(tenths) * 6 * time.Minute
}

func startOfHour(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), 0, 0, 0, t.Location())
}
