package toggl

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"toggl-reporter/internal/domain"
)

const dateLayout = "2006-01-02"

// ReportQuery holds the parameters of a reports API request.
// Since and Until are dates (YYYY-MM-DD), both inclusive.
type ReportQuery struct {
	WorkspaceID int64
	Since       string
	Until       string
	UserAgent   string
	Page        int
	TagIDs      []int64
	ClientIDs   []int64
	ProjectIDs  []int64
	UserIDs     []int64
	// Extra carries parameters without a dedicated field, e.g. include_time_entry_ids.
	Extra url.Values
}

var reportQueryKeys = map[string]bool{
	"workspace_id": true,
	"since":        true,
	"until":        true,
	"user_agent":   true,
	"page":         true,
	"tag_ids":      true,
	"client_ids":   true,
	"project_ids":  true,
	"user_ids":     true,
}

// Values encodes q. Unset fields are left out.
func (q ReportQuery) Values() url.Values {
	v := url.Values{}
	for k, vals := range q.Extra {
		v[k] = append([]string(nil), vals...)
	}
	if q.WorkspaceID != 0 {
		v.Set("workspace_id", strconv.FormatInt(q.WorkspaceID, 10))
	}
	if q.Since != "" {
		v.Set("since", q.Since)
	}
	if q.Until != "" {
		v.Set("until", q.Until)
	}
	if q.UserAgent != "" {
		v.Set("user_agent", q.UserAgent)
	}
	if q.Page > 0 {
		v.Set("page", strconv.Itoa(q.Page))
	}
	setIDs(v, "tag_ids", q.TagIDs)
	setIDs(v, "client_ids", q.ClientIDs)
	setIDs(v, "project_ids", q.ProjectIDs)
	setIDs(v, "user_ids", q.UserIDs)
	return v
}

// ParseReportQuery is the inverse of ReportQuery.Values.
func ParseReportQuery(v url.Values) (ReportQuery, error) {
	var q ReportQuery
	var err error
	if s := v.Get("workspace_id"); s != "" {
		if q.WorkspaceID, err = strconv.ParseInt(s, 10, 64); err != nil {
			return q, fmt.Errorf("%w: workspace_id %q", ErrValidation, s)
		}
	}
	q.Since = v.Get("since")
	q.Until = v.Get("until")
	q.UserAgent = v.Get("user_agent")
	if s := v.Get("page"); s != "" {
		if q.Page, err = strconv.Atoi(s); err != nil {
			return q, fmt.Errorf("%w: page %q", ErrValidation, s)
		}
	}
	if q.TagIDs, err = parseIDs(v, "tag_ids"); err != nil {
		return q, err
	}
	if q.ClientIDs, err = parseIDs(v, "client_ids"); err != nil {
		return q, err
	}
	if q.ProjectIDs, err = parseIDs(v, "project_ids"); err != nil {
		return q, err
	}
	if q.UserIDs, err = parseIDs(v, "user_ids"); err != nil {
		return q, err
	}
	for k, vals := range v {
		if reportQueryKeys[k] {
			continue
		}
		if q.Extra == nil {
			q.Extra = url.Values{}
		}
		q.Extra[k] = append([]string(nil), vals...)
	}
	return q, nil
}

// QueryFromFilter converts a domain filter. Until is exclusive: a filter
// ending at midnight stops at the previous day.
func QueryFromFilter(f domain.ReportFilter) ReportQuery {
	q := ReportQuery{
		WorkspaceID: f.WorkspaceID,
		TagIDs:      f.TagIDs,
		ClientIDs:   f.ClientIDs,
		ProjectIDs:  f.ProjectIDs,
		UserIDs:     f.UserIDs,
	}
	if !f.Since.IsZero() {
		q.Since = f.Since.Format(dateLayout)
	}
	if !f.Until.IsZero() {
		until := f.Until
		if until.Equal(time.Date(until.Year(), until.Month(), until.Day(), 0, 0, 0, 0, until.Location())) {
			until = until.AddDate(0, 0, -1)
		}
		q.Until = until.Format(dateLayout)
	}
	return q
}

func setIDs(v url.Values, key string, ids []int64) {
	if len(ids) == 0 {
		return
	}
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.FormatInt(id, 10)
	}
	v.Set(key, strings.Join(parts, ","))
}

func parseIDs(v url.Values, key string) ([]int64, error) {
	s := v.Get(key)
	if s == "" {
		return nil, nil
	}
	var ids []int64
	for _, part := range strings.Split(s, ",") {
		// Trailing commas are accepted by the API.
		if part = strings.TrimSpace(part); part == "" {
			continue
		}
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: %s %q", ErrValidation, key, s)
		}
		ids = append(ids, id)
	}
	return ids, nil
}
