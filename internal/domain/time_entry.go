package domain

import "time"

// TimeEntry represents a Toggl time entry as returned by the v8 API.
type TimeEntry struct {
	ID          int64
	WorkspaceID int64
	ProjectID   *int64
	TaskID      *int64
	Description string
	Billable    bool
	Tags        []string
	Start       time.Time
	Stop        *time.Time
	DurationSec int64 // Negative means running in Toggl API semantics
	CreatedWith string
	At          time.Time
}

// Running reports whether the entry is still being tracked.
func (e TimeEntry) Running() bool { return e.DurationSec < 0 }

// NewTimeEntry describes a completed time entry to create.
// The project is given by ProjectID, or resolved by ClientName and
// ProjectName, or by ProjectName alone.
type NewTimeEntry struct {
	Duration    time.Duration
	Description string
	ProjectID   int64
	ClientName  string
	ProjectName string
	TaskID      int64
	Start       time.Time // zero means the current hour
	Billable    bool
	Tags        []string
}
