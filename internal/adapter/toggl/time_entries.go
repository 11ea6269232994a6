package toggl

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"toggl-reporter/internal/domain"
)

// TimeEntryUpdate changes the given fields of a time entry. ID is required;
// nil fields and an empty Tags slice are left untouched.
type TimeEntryUpdate struct {
	ID          int64
	Description *string
	ProjectID   *int64
	TaskID      *int64
	Start       *time.Time
	Stop        *time.Time
	Duration    *time.Duration
	Billable    *bool
	Tags        []string
}

// CreateTimeEntry creates a completed time entry. When no ProjectID is set
// the project is resolved by name first.
func (c *Client) CreateTimeEntry(ctx context.Context, e domain.NewTimeEntry) (domain.TimeEntry, error) {
	if e.Duration <= 0 {
		return domain.TimeEntry{}, fmt.Errorf("%w: time entry duration must be positive", ErrValidation)
	}
	projectID := e.ProjectID
	if projectID == 0 {
		var (
			p   domain.Project
			err error
		)
		switch {
		case e.ProjectName != "" && e.ClientName != "":
			p, err = c.ClientProject(ctx, e.ClientName, e.ProjectName)
		case e.ProjectName != "":
			p, err = c.SearchClientProject(ctx, e.ProjectName)
		default:
			return domain.TimeEntry{}, fmt.Errorf("%w: project id or project name is required", ErrValidation)
		}
		if err != nil {
			return domain.TimeEntry{}, err
		}
		projectID = p.ID
	}

	start := e.Start
	if start.IsZero() {
		start = time.Now().UTC().Truncate(time.Hour)
	}
	seconds := int64(e.Duration / time.Second)
	fields := timeEntryFields{
		ProjectID:   &projectID,
		Start:       formatTime(&start),
		Duration:    &seconds,
		Billable:    &e.Billable,
		Tags:        e.Tags,
		CreatedWith: c.session.UserAgent(),
	}
	if e.Description != "" {
		fields.Description = &e.Description
	}
	if e.TaskID != 0 {
		fields.TaskID = &e.TaskID
	}
	return c.sendTimeEntry(ctx, http.MethodPost, c.endpoints.TimeEntries, fields)
}

// UpdateTimeEntry changes an existing time entry.
func (c *Client) UpdateTimeEntry(ctx context.Context, u TimeEntryUpdate) (domain.TimeEntry, error) {
	if u.ID <= 0 {
		return domain.TimeEntry{}, fmt.Errorf("%w: an id must be provided in order to update a time entry", ErrValidation)
	}
	fields := timeEntryFields{
		Description: u.Description,
		ProjectID:   u.ProjectID,
		TaskID:      u.TaskID,
		Start:       formatTime(u.Start),
		Stop:        formatTime(u.Stop),
		Billable:    u.Billable,
		Tags:        u.Tags,
	}
	if u.Duration != nil {
		seconds := int64(*u.Duration / time.Second)
		fields.Duration = &seconds
	}
	return c.sendTimeEntry(ctx, http.MethodPut, fmt.Sprintf("%s/%d", c.endpoints.TimeEntries, u.ID), fields)
}

// StartTimeEntry starts a running time entry. Zero ids are omitted.
func (c *Client) StartTimeEntry(ctx context.Context, description string, projectID, taskID int64) (domain.TimeEntry, error) {
	fields := timeEntryFields{
		Description: &description,
		CreatedWith: c.session.UserAgent(),
	}
	if projectID != 0 {
		fields.ProjectID = &projectID
	}
	if taskID != 0 {
		fields.TaskID = &taskID
	}
	return c.sendTimeEntry(ctx, http.MethodPost, c.endpoints.StartTime, fields)
}

// StopTimeEntry stops the running time entry id.
func (c *Client) StopTimeEntry(ctx context.Context, id int64) (domain.TimeEntry, error) {
	if id <= 0 {
		return domain.TimeEntry{}, fmt.Errorf("%w: time entry id is required", ErrValidation)
	}
	var resp envelope[rawTimeEntry]
	if err := c.mutateJSON(ctx, http.MethodPut, c.endpoints.StopTime(id), nil, &resp); err != nil {
		return domain.TimeEntry{}, err
	}
	return resp.Data.toDomain(), nil
}

// CurrentTimeEntry returns the running time entry; running is false when
// nothing is being tracked.
func (c *Client) CurrentTimeEntry(ctx context.Context) (entry domain.TimeEntry, running bool, err error) {
	var resp envelope[*rawTimeEntry]
	if err := c.Request(ctx, c.endpoints.CurrentRunningTime, nil, &resp); err != nil {
		return domain.TimeEntry{}, false, err
	}
	if resp.Data == nil {
		return domain.TimeEntry{}, false, nil
	}
	return resp.Data.toDomain(), true, nil
}

// AddTags adds tags to every listed time entry in one request.
func (c *Client) AddTags(ctx context.Context, ids []int64, tags []string) ([]domain.TimeEntry, error) {
	return c.editTags(ctx, ids, tags, "add")
}

// RemoveTags removes tags from every listed time entry in one request.
func (c *Client) RemoveTags(ctx context.Context, ids []int64, tags []string) ([]domain.TimeEntry, error) {
	return c.editTags(ctx, ids, tags, "remove")
}

func (c *Client) editTags(ctx context.Context, ids []int64, tags []string, action string) ([]domain.TimeEntry, error) {
	if len(ids) == 0 || len(tags) == 0 {
		return nil, fmt.Errorf("%w: time entry ids and tags are required", ErrValidation)
	}
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.FormatInt(id, 10)
	}
	body := timeEntryBody{TimeEntry: timeEntryFields{Tags: tags, TagAction: action}}
	var resp envelope[[]rawTimeEntry]
	endpoint := c.endpoints.TimeEntries + "/" + strings.Join(parts, ",")
	if err := c.mutateJSON(ctx, http.MethodPut, endpoint, body, &resp); err != nil {
		return nil, err
	}
	out := make([]domain.TimeEntry, 0, len(resp.Data))
	for _, r := range resp.Data {
		out = append(out, r.toDomain())
	}
	return out, nil
}

func (c *Client) sendTimeEntry(ctx context.Context, method, endpoint string, fields timeEntryFields) (domain.TimeEntry, error) {
	var resp envelope[rawTimeEntry]
	if err := c.mutateJSON(ctx, method, endpoint, timeEntryBody{TimeEntry: fields}, &resp); err != nil {
		return domain.TimeEntry{}, err
	}
	return resp.Data.toDomain(), nil
}

func formatTime(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.UTC().Format(time.RFC3339)
	return &s
}

type timeEntryBody struct {
	TimeEntry timeEntryFields `json:"time_entry"`
}

type timeEntryFields struct {
	Description *string  `json:"description,omitempty"`
	ProjectID   *int64   `json:"pid,omitempty"`
	TaskID      *int64   `json:"tid,omitempty"`
	Start       *string  `json:"start,omitempty"`
	Stop        *string  `json:"stop,omitempty"`
	Duration    *int64   `json:"duration,omitempty"`
	Billable    *bool    `json:"billable,omitempty"`
	Tags        []string `json:"tags,omitempty"`
	TagAction   string   `json:"tag_action,omitempty"`
	CreatedWith string   `json:"created_with,omitempty"`
}

// rawTimeEntry mirrors the JSON of a v8 time entry.
type rawTimeEntry struct {
	ID          int64      `json:"id"`
	WorkspaceID int64      `json:"wid"`
	ProjectID   *int64     `json:"pid"`
	TaskID      *int64     `json:"tid"`
	Description string     `json:"description"`
	Billable    bool       `json:"billable"`
	Tags        []string   `json:"tags"`
	Start       time.Time  `json:"start"`
	Stop        *time.Time `json:"stop"`
	Duration    int64      `json:"duration"`
	CreatedWith string     `json:"created_with"`
	At          time.Time  `json:"at"`
}

func (r rawTimeEntry) toDomain() domain.TimeEntry {
	var stopPtr *time.Time
	if r.Stop != nil {
		stop := *r.Stop
		stopPtr = &stop
	}
	return domain.TimeEntry{
		ID:          r.ID,
		WorkspaceID: r.WorkspaceID,
		ProjectID:   r.ProjectID,
		TaskID:      r.TaskID,
		Description: r.Description,
		Billable:    r.Billable,
		Tags:        r.Tags,
		Start:       r.Start,
		Stop:        stopPtr,
		DurationSec: r.Duration,
		CreatedWith: r.CreatedWith,
		At:          r.At,
	}
}
