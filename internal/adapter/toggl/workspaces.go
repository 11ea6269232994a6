package toggl

import (
	"context"
	"time"

	"toggl-reporter/internal/domain"
)

// Workspaces returns all workspaces of the authenticated user.
func (c *Client) Workspaces(ctx context.Context) ([]domain.Workspace, error) {
	var raw []rawWorkspace
	if err := c.Request(ctx, c.endpoints.Workspaces, nil, &raw); err != nil {
		return nil, err
	}
	out := make([]domain.Workspace, 0, len(raw))
	for _, w := range raw {
		out = append(out, domain.Workspace{
			ID:      w.ID,
			Name:    w.Name,
			Premium: w.Premium,
			Admin:   w.Admin,
			At:      w.At,
		})
	}
	return out, nil
}

// WorkspaceByName returns the first workspace named name. found is false
// when there is none; that is not an error.
func (c *Client) WorkspaceByName(ctx context.Context, name string) (ws domain.Workspace, found bool, err error) {
	all, err := c.Workspaces(ctx)
	if err != nil {
		return domain.Workspace{}, false, err
	}
	ws, found = first(all, func(w domain.Workspace) bool { return w.Name == name })
	return ws, found, nil
}

// WorkspaceByID returns the workspace with the given id, if visible to the user.
func (c *Client) WorkspaceByID(ctx context.Context, id int64) (ws domain.Workspace, found bool, err error) {
	all, err := c.Workspaces(ctx)
	if err != nil {
		return domain.Workspace{}, false, err
	}
	ws, found = first(all, func(w domain.Workspace) bool { return w.ID == id })
	return ws, found, nil
}

// first returns the first item accepted by match.
func first[T any](items []T, match func(T) bool) (T, bool) {
	for _, it := range items {
		if match(it) {
			return it, true
		}
	}
	var zero T
	return zero, false
}

type rawWorkspace struct {
	ID      int64     `json:"id"`
	Name    string    `json:"name"`
	Premium bool      `json:"premium"`
	Admin   bool      `json:"admin"`
	At      time.Time `json:"at"`
}
