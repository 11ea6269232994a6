package ports

import (
	"context"

	"toggl-reporter/internal/domain"
)

// TogglClient defines the read side of Toggl used by the use cases.
type TogglClient interface {
	ReportEntries(ctx context.Context, f domain.ReportFilter) (domain.DetailedReport, error)
	WorkspaceProjects(ctx context.Context, workspaceID int64) ([]domain.Project, error)
}

// TagEditor adds or removes tags on many time entries at once.
type TagEditor interface {
	AddTags(ctx context.Context, ids []int64, tags []string) ([]domain.TimeEntry, error)
	RemoveTags(ctx context.Context, ids []int64, tags []string) ([]domain.TimeEntry, error)
}

// EntryCreator creates completed time entries.
type EntryCreator interface {
	CreateTimeEntry(ctx context.Context, e domain.NewTimeEntry) (domain.TimeEntry, error)
}

// Sink receives report entries and persists them to a target system.
type Sink interface {
	SyncEntries(ctx context.Context, entries []domain.ReportEntry) error
}

// ProjectSink is implemented by sinks that also keep a project table.
type ProjectSink interface {
	SyncProjects(ctx context.Context, projects []domain.Project) error
}
