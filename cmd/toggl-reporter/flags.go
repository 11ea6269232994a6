package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/pflag"

	"toggl-reporter/internal/app"
	"toggl-reporter/internal/config"
	"toggl-reporter/internal/domain"
)

// filterFlags are the report filters shared by report, export and clone.
type filterFlags struct {
	workspace int64
	since     string
	until     string
	clients   string
	projects  string
	tags      string
	users     string
}

func (f *filterFlags) register(fs *pflag.FlagSet) {
	fs.Int64Var(&f.workspace, "workspace", 0, "Workspace id (default TOGGL_WORKSPACE_ID)")
	fs.StringVar(&f.since, "since", "", "First day, YYYY-MM-DD (default: first day of this month)")
	fs.StringVar(&f.until, "until", "", "Last day, YYYY-MM-DD, inclusive (default: last day of this month)")
	fs.StringVar(&f.clients, "clients", "", "Comma separated client ids")
	fs.StringVar(&f.projects, "projects", "", "Comma separated project ids")
	fs.StringVar(&f.tags, "tags", "", "Comma separated tag ids")
	fs.StringVar(&f.users, "users", "", "Comma separated user ids")
}

// filter builds the report filter, falling back to the configured workspace
// and the current month.
func (f *filterFlags) filter(cfg config.Config, now time.Time) (domain.ReportFilter, error) {
	var (
		out domain.ReportFilter
		err error
	)
	out.WorkspaceID = f.workspace
	if out.WorkspaceID == 0 {
		out.WorkspaceID = cfg.Toggl.WorkspaceID
	}
	if out.WorkspaceID == 0 {
		return out, errors.New("--workspace or TOGGL_WORKSPACE_ID is required")
	}
	out.Since, out.Until, err = period(f.since, f.until, now)
	if err != nil {
		return out, err
	}
	if out.ClientIDs, err = parseIDList("clients", f.clients); err != nil {
		return out, err
	}
	if out.ProjectIDs, err = parseIDList("projects", f.projects); err != nil {
		return out, err
	}
	if out.TagIDs, err = parseIDList("tags", f.tags); err != nil {
		return out, err
	}
	if out.UserIDs, err = parseIDList("users", f.users); err != nil {
		return out, err
	}
	return out, nil
}

// period returns [since, until) for inclusive day flags. Without since it
// reports on the month of now; without until it runs through today.
func period(since, until string, now time.Time) (time.Time, time.Time, error) {
	if since == "" && until == "" {
		first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
		return first, first.AddDate(0, 1, 0), nil
	}
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	end, err := app.ParseEnd(until, today.AddDate(0, 0, 1))
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	start, err := app.ParseStart(since, end.AddDate(0, 0, -1))
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	if !start.Before(end) {
		return time.Time{}, time.Time{}, fmt.Errorf("--since %s is after --until %s", since, until)
	}
	return start, end, nil
}

// parseIDList parses "1,2,3"; empty items are ignored.
func parseIDList(name, s string) ([]int64, error) {
	var ids []int64
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("--%s: %q is not an id", name, part)
		}
		ids = append(ids, id)
	}
	return ids, nil
}
