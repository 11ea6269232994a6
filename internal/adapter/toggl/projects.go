package toggl

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"toggl-reporter/internal/domain"
)

// Values of the active filter of ClientProjects.
const (
	ActiveProjects   = "true"
	ArchivedProjects = "false"
	AllProjects      = "both"
)

// WorkspaceProjects returns all projects of a workspace.
func (c *Client) WorkspaceProjects(ctx context.Context, workspaceID int64) ([]domain.Project, error) {
	var raw []rawProject
	if err := c.Request(ctx, fmt.Sprintf("%s/%d/projects", c.endpoints.Workspaces, workspaceID), nil, &raw); err != nil {
		return nil, err
	}
	return toProjects(raw), nil
}

// ClientProjects returns the projects of a client. active is one of
// ActiveProjects, ArchivedProjects or AllProjects; empty means active.
func (c *Client) ClientProjects(ctx context.Context, clientID int64, active string) ([]domain.Project, error) {
	if active == "" {
		active = ActiveProjects
	}
	var raw []rawProject
	endpoint := fmt.Sprintf("%s/%d/projects", c.endpoints.Clients, clientID)
	if err := c.Request(ctx, endpoint, url.Values{"active": {active}}, &raw); err != nil {
		return nil, err
	}
	return toProjects(raw), nil
}

// Project returns the full record of a project.
func (c *Client) Project(ctx context.Context, projectID int64) (domain.Project, error) {
	var resp envelope[*rawProject]
	if err := c.Request(ctx, fmt.Sprintf("%s/%d", c.endpoints.Projects, projectID), nil, &resp); err != nil {
		return domain.Project{}, err
	}
	if resp.Data == nil {
		return domain.Project{}, fmt.Errorf("%w: project %d", ErrNotFound, projectID)
	}
	return resp.Data.toDomain(), nil
}

// ClientProject resolves a project by client and project name and returns
// its full record. It fails with ErrNotFound as soon as either name does
// not match.
func (c *Client) ClientProject(ctx context.Context, clientName, projectName string) (domain.Project, error) {
	cl, found, err := c.ClientByName(ctx, clientName)
	if err != nil {
		return domain.Project{}, err
	}
	if !found {
		return domain.Project{}, fmt.Errorf("%w: client %q", ErrNotFound, clientName)
	}
	projects, err := c.ClientProjects(ctx, cl.ID, ActiveProjects)
	if err != nil {
		return domain.Project{}, err
	}
	p, found := first(projects, func(p domain.Project) bool { return p.Name == projectName })
	if !found {
		return domain.Project{}, fmt.Errorf("%w: project %q of client %q", ErrNotFound, projectName, clientName)
	}
	return c.Project(ctx, p.ID)
}

// SearchClientProject scans the projects of every client for projectName.
// It costs one request per client; prefer ClientProject when the client is known.
func (c *Client) SearchClientProject(ctx context.Context, projectName string) (domain.Project, error) {
	clients, err := c.Clients(ctx)
	if err != nil {
		return domain.Project{}, err
	}
	for _, cl := range clients {
		projects, err := c.ClientProjects(ctx, cl.ID, ActiveProjects)
		if err != nil {
			return domain.Project{}, fmt.Errorf("projects of client %d: %w", cl.ID, err)
		}
		if p, ok := first(projects, func(p domain.Project) bool { return p.Name == projectName }); ok {
			return p, nil
		}
	}
	return domain.Project{}, fmt.Errorf("%w: project %q", ErrNotFound, projectName)
}

// ProjectTasks returns the tasks of a project.
func (c *Client) ProjectTasks(ctx context.Context, projectID int64) ([]domain.Task, error) {
	var raw []rawTask
	if err := c.Request(ctx, fmt.Sprintf("%s/%d/tasks", c.endpoints.Projects, projectID), nil, &raw); err != nil {
		return nil, err
	}
	out := make([]domain.Task, 0, len(raw))
	for _, t := range raw {
		out = append(out, t.toDomain())
	}
	return out, nil
}

// NewTaskParams describes a task to create (Toggl Starter or higher).
type NewTaskParams struct {
	Name             string
	ProjectID        int64
	Active           *bool // nil leaves the server default (active)
	EstimatedSeconds int64
}

func (c *Client) CreateTask(ctx context.Context, p NewTaskParams) (domain.Task, error) {
	if p.Name == "" || p.ProjectID == 0 {
		return domain.Task{}, fmt.Errorf("%w: task name and project id are required", ErrValidation)
	}
	body := taskBody{Task: taskFields{
		Name:             p.Name,
		ProjectID:        p.ProjectID,
		Active:           p.Active,
		EstimatedSeconds: p.EstimatedSeconds,
	}}
	var resp envelope[rawTask]
	if err := c.mutateJSON(ctx, http.MethodPost, c.endpoints.Tasks, body, &resp); err != nil {
		return domain.Task{}, err
	}
	return resp.Data.toDomain(), nil
}

type taskBody struct {
	Task taskFields `json:"task"`
}

type taskFields struct {
	Name             string `json:"name"`
	ProjectID        int64  `json:"pid"`
	Active           *bool  `json:"active,omitempty"`
	EstimatedSeconds int64  `json:"estimated_seconds,omitempty"`
}

type rawProject struct {
	ID          int64     `json:"id"`
	WorkspaceID int64     `json:"wid"`
	ClientID    *int64    `json:"cid"`
	Name        string    `json:"name"`
	Active      bool      `json:"active"`
	Private     bool      `json:"is_private"`
	Billable    bool      `json:"billable"`
	Color       string    `json:"color"`
	At          time.Time `json:"at"`
}

func (p rawProject) toDomain() domain.Project {
	var clientID *int64
	if p.ClientID != nil {
		id := *p.ClientID
		clientID = &id
	}
	return domain.Project{
		ID:          p.ID,
		WorkspaceID: p.WorkspaceID,
		Name:        p.Name,
		Active:      p.Active,
		Private:     p.Private,
		Billable:    p.Billable,
		Color:       p.Color,
		ClientID:    clientID,
		At:          p.At,
	}
}

func toProjects(raw []rawProject) []domain.Project {
	out := make([]domain.Project, 0, len(raw))
	for _, p := range raw {
		out = append(out, p.toDomain())
	}
	return out
}

type rawTask struct {
	ID               int64     `json:"id"`
	WorkspaceID      int64     `json:"wid"`
	ProjectID        int64     `json:"pid"`
	Name             string    `json:"name"`
	Active           bool      `json:"active"`
	EstimatedSeconds int64     `json:"estimated_seconds"`
	TrackedSeconds   int64     `json:"tracked_seconds"`
	At               time.Time `json:"at"`
}

func (t rawTask) toDomain() domain.Task {
	return domain.Task{
		ID:               t.ID,
		WorkspaceID:      t.WorkspaceID,
		ProjectID:        t.ProjectID,
		Name:             t.Name,
		Active:           t.Active,
		EstimatedSeconds: t.EstimatedSeconds,
		TrackedSeconds:   t.TrackedSeconds,
		At:               t.At,
	}
}
