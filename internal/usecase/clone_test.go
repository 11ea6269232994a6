package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"toggl-reporter/internal/domain"
)

func TestClone_CreatesRoundedEntries(t *testing.T) {
	src := &fakeToggl{report: domain.DetailedReport{Entries: []domain.ReportEntry{
		{ID: 1, Description: "review", Start: at(4, 9, 40), DurationMs: 50 * 60000, IsBillable: true},
		{ID: 2, Description: "blip", Start: at(4, 11, 0), DurationMs: 2 * 60000},
		{ID: 3, Description: "build", Start: at(5, 14, 10), DurationMs: 100 * 60000},
	}}}
	dst := &fakeCreator{}
	uc := &CloneUseCase{Log: testLogger(), Source: src, Target: dst}

	res, err := uc.Run(context.Background(), CloneRequest{
		SourceWorkspaceID: 3,
		UserID:            9,
		Since:             at(1, 0, 0),
		Until:             at(31, 0, 0),
		TargetProjectID:   77,
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.Created != 2 || res.Skipped != 1 {
		t.Fatalf("result = %+v", res)
	}
	if f := src.filters[0]; f.WorkspaceID != 3 || len(f.UserIDs) != 1 || f.UserIDs[0] != 9 {
		t.Fatalf("filter = %+v", f)
	}
	first := dst.created[0]
	if first.Duration != 48*time.Minute || !first.Start.Equal(at(4, 9, 0)) || first.ProjectID != 77 || !first.Billable {
		t.Fatalf("first = %+v", first)
	}
	if second := dst.created[1]; second.Duration != 102*time.Minute || !second.Start.Equal(at(5, 14, 0)) {
		t.Fatalf("second = %+v", second)
	}
}

func TestClone_SourceFailureCreatesNothing(t *testing.T) {
	boom := errors.New("page 2 of 2: boom")
	src := &fakeToggl{report: domain.DetailedReport{Entries: []domain.ReportEntry{{ID: 1, DurationMs: 3600000}}}, err: boom}
	dst := &fakeCreator{}
	uc := &CloneUseCase{Log: testLogger(), Source: src, Target: dst}

	if _, err := uc.Run(context.Background(), CloneRequest{TargetProjectID: 1}); !errors.Is(err, boom) {
		t.Fatalf("err = %v, want %v", err, boom)
	}
	if len(dst.created) != 0 {
		t.Fatalf("created %d entries from a partial report", len(dst.created))
	}
}

func TestRoundToTenthHour(t *testing.T) {
	tests := []struct {
		in, want time.Duration
	}{
		{2 * time.Minute, 0},
		{3 * time.Minute, 6 * time.Minute},
		{50 * time.Minute, 48 * time.Minute},
		{time.Hour, time.Hour},
	}
	for _, tt := range tests {
		if got := RoundToTenthHour(tt.in); got != tt.want {
			t.Errorf("RoundToTenthHour(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
