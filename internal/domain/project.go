package domain

import "time"

// Project represents a Toggl project in the domain layer.
type Project struct {
	ID          int64
	WorkspaceID int64
	Name        string
	Active      bool
	Private     bool
	Billable    bool
	Color       string
	ClientID    *int64
	At          time.Time // Last update timestamp from Toggl
}

// Task belongs to a project (Toggl Starter or higher).
type Task struct {
	ID               int64
	WorkspaceID      int64
	ProjectID        int64
	Name             string
	Active           bool
	EstimatedSeconds int64
	TrackedSeconds   int64
	At               time.Time
}
