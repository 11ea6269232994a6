package usecase

import (
	"context"
	"io"
	"log/slog"

	"toggl-reporter/internal/domain"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type fakeToggl struct {
	report   domain.DetailedReport
	err      error
	projects []domain.Project
	filters  []domain.ReportFilter
}

func (f *fakeToggl) ReportEntries(_ context.Context, filter domain.ReportFilter) (domain.DetailedReport, error) {
	f.filters = append(f.filters, filter)
	return f.report, f.err
}

func (f *fakeToggl) WorkspaceProjects(context.Context, int64) ([]domain.Project, error) {
	return f.projects, nil
}

type fakeSink struct {
	entries []domain.ReportEntry
	err     error
}

func (s *fakeSink) SyncEntries(_ context.Context, entries []domain.ReportEntry) error {
	s.entries = append(s.entries, entries...)
	return s.err
}

type fakeProjectSink struct {
	fakeSink
	projects []domain.Project
}

func (s *fakeProjectSink) SyncProjects(_ context.Context, projects []domain.Project) error {
	s.projects = append(s.projects, projects...)
	return nil
}

type tagCall struct {
	action string
	ids    []int64
	tags   []string
}

type fakeTags struct{ calls []tagCall }

func (f *fakeTags) AddTags(_ context.Context, ids []int64, tags []string) ([]domain.TimeEntry, error) {
	f.calls = append(f.calls, tagCall{"add", ids, tags})
	return nil, nil
}

func (f *fakeTags) RemoveTags(_ context.Context, ids []int64, tags []string) ([]domain.TimeEntry, error) {
	f.calls = append(f.calls, tagCall{"remove", ids, tags})
	return nil, nil
}

type fakeCreator struct {
	created []domain.NewTimeEntry
	err     error
}

func (f *fakeCreator) CreateTimeEntry(_ context.Context, e domain.NewTimeEntry) (domain.TimeEntry, error) {
	if f.err != nil {
		return domain.TimeEntry{}, f.err
	}
	f.created = append(f.created, e)
	return domain.TimeEntry{ID: int64(len(f.created))}, nil
}
