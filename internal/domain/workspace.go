package domain

import "time"

// Workspace is the top-level unit grouping clients and projects.
type Workspace struct {
	ID      int64
	Name    string
	Premium bool
	Admin   bool
	At      time.Time
}

// Client is a customer inside a workspace.
type Client struct {
	ID          int64
	WorkspaceID int64
	Name        string
	Notes       string
	At          time.Time
}
