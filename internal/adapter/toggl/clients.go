package toggl

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"toggl-reporter/internal/domain"
)

// Clients returns all clients visible to the user.
func (c *Client) Clients(ctx context.Context) ([]domain.Client, error) {
	var raw []rawClient
	if err := c.Request(ctx, c.endpoints.Clients, nil, &raw); err != nil {
		return nil, err
	}
	out := make([]domain.Client, 0, len(raw))
	for _, r := range raw {
		out = append(out, r.toDomain())
	}
	return out, nil
}

// ClientByName returns the first client named name. found is false when
// there is none.
func (c *Client) ClientByName(ctx context.Context, name string) (cl domain.Client, found bool, err error) {
	all, err := c.Clients(ctx)
	if err != nil {
		return domain.Client{}, false, err
	}
	cl, found = first(all, func(x domain.Client) bool { return x.Name == name })
	return cl, found, nil
}

// ClientByID returns the client with the given id.
func (c *Client) ClientByID(ctx context.Context, id int64) (cl domain.Client, found bool, err error) {
	all, err := c.Clients(ctx)
	if err != nil {
		return domain.Client{}, false, err
	}
	cl, found = first(all, func(x domain.Client) bool { return x.ID == id })
	return cl, found, nil
}

// NewClientParams describes a client to create.
type NewClientParams struct {
	Name        string
	WorkspaceID int64
	Notes       *string
}

// ClientUpdate changes the given fields of a client; nil fields are left untouched.
type ClientUpdate struct {
	Name  *string
	Notes *string
}

func (c *Client) CreateClient(ctx context.Context, p NewClientParams) (domain.Client, error) {
	if p.Name == "" || p.WorkspaceID == 0 {
		return domain.Client{}, fmt.Errorf("%w: client name and workspace id are required", ErrValidation)
	}
	body := clientBody{Client: clientFields{Name: &p.Name, WorkspaceID: p.WorkspaceID, Notes: p.Notes}}
	var resp envelope[rawClient]
	if err := c.mutateJSON(ctx, http.MethodPost, c.endpoints.Clients, body, &resp); err != nil {
		return domain.Client{}, err
	}
	return resp.Data.toDomain(), nil
}

func (c *Client) UpdateClient(ctx context.Context, id int64, u ClientUpdate) (domain.Client, error) {
	if id == 0 {
		return domain.Client{}, fmt.Errorf("%w: client id is required", ErrValidation)
	}
	body := clientBody{Client: clientFields{Name: u.Name, Notes: u.Notes}}
	var resp envelope[rawClient]
	if err := c.mutateJSON(ctx, http.MethodPut, fmt.Sprintf("%s/%d", c.endpoints.Clients, id), body, &resp); err != nil {
		return domain.Client{}, err
	}
	return resp.Data.toDomain(), nil
}

// DeleteClient deletes a client and returns the HTTP status of the response.
func (c *Client) DeleteClient(ctx context.Context, id int64) (int, error) {
	if id == 0 {
		return 0, fmt.Errorf("%w: client id is required", ErrValidation)
	}
	return c.Delete(ctx, fmt.Sprintf("%s/%d", c.endpoints.Clients, id))
}

type clientBody struct {
	Client clientFields `json:"client"`
}

type clientFields struct {
	Name        *string `json:"name,omitempty"`
	WorkspaceID int64   `json:"wid,omitempty"`
	Notes       *string `json:"notes,omitempty"`
}

type rawClient struct {
	ID          int64     `json:"id"`
	WorkspaceID int64     `json:"wid"`
	Name        string    `json:"name"`
	Notes       string    `json:"notes"`
	At          time.Time `json:"at"`
}

func (r rawClient) toDomain() domain.Client {
	return domain.Client{
		ID:          r.ID,
		WorkspaceID: r.WorkspaceID,
		Name:        r.Name,
		Notes:       r.Notes,
		At:          r.At,
	}
}
