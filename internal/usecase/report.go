package usecase

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"slices"
	"time"

	"toggl-reporter/internal/domain"
	"toggl-reporter/internal/ports"
)

const notSpecified = "*Not specified*"

// ReportRequest selects the entries of a console report and the tag edits
// to apply to every returned entry.
type ReportRequest struct {
	Filter     domain.ReportFilter
	AddTags    []string
	RemoveTags []string
}

// ReportUseCase prints the detailed report grouped by client and project.
type ReportUseCase struct {
	Log   *slog.Logger
	Toggl ports.TogglClient
	Tags  ports.TagEditor
}

// Report is the grouped form of a detailed report.
type Report struct {
	Count   int
	Total   time.Duration
	Clients []ClientGroup
}

// TotalHours returns the tracked hours rounded to two decimals.
func (r Report) TotalHours() float64 {
	return math.Round(r.Total.Hours()*100) / 100
}

type ClientGroup struct {
	Name     string
	Projects []ProjectGroup
}

type ProjectGroup struct {
	Name     string
	Duration time.Duration
	Entries  []ReportLine
}

// ReportLine is one entry with its start and end rounded to five minutes.
type ReportLine struct {
	ID          int64
	Start       time.Time
	End         time.Time
	Description string
}

// Duration returns the rounded length of the line.
func (l ReportLine) Duration() time.Duration {
	d := l.End.Sub(l.Start)
	if d < 0 {
		return -d
	}
	return d
}

// Run fetches the report, writes it to w and applies the requested tag
// edits. Tags are only edited when every page was fetched.
func (uc *ReportUseCase) Run(ctx context.Context, req ReportRequest, w io.Writer) error {
	if uc.Toggl == nil {
		return errors.New("usecase not initialized: missing dependencies")
	}
	data, fetchErr := uc.Toggl.ReportEntries(ctx, req.Filter)
	if fetchErr != nil && len(data.Entries) == 0 {
		return fmt.Errorf("fetch report: %w", fetchErr)
	}

	report := BuildReport(data.Entries)
	if err := WriteReport(w, report); err != nil {
		return err
	}
	if fetchErr != nil {
		return fmt.Errorf("report incomplete (%d of %d entries): %w", len(data.Entries), data.TotalCount, fetchErr)
	}

	if (len(req.AddTags) == 0 && len(req.RemoveTags) == 0) || len(data.Entries) == 0 {
		return nil
	}
	if uc.Tags == nil {
		return errors.New("usecase not initialized: missing tag editor")
	}
	ids := make([]int64, len(data.Entries))
	for i, e := range data.Entries {
		ids[i] = e.ID
	}
	if len(req.AddTags) > 0 {
		if _, err := uc.Tags.AddTags(ctx, ids, req.AddTags); err != nil {
			return fmt.Errorf("add tags: %w", err)
		}
		uc.Log.Info("tags added", slog.Int("entries", len(ids)), slog.Any("tags", req.AddTags))
	}
	if len(req.RemoveTags) > 0 {
		if _, err := uc.Tags.RemoveTags(ctx, ids, req.RemoveTags); err != nil {
			return fmt.Errorf("remove tags: %w", err)
		}
		uc.Log.Info("tags removed", slog.Int("entries", len(ids)), slog.Any("tags", req.RemoveTags))
	}
	return nil
}

// BuildReport sorts entries by client, project and start and groups them.
// The total uses the exact durations; project durations use the rounded lines.
func BuildReport(entries []domain.ReportEntry) Report {
	sorted := slices.Clone(entries)
	slices.SortStableFunc(sorted, func(a, b domain.ReportEntry) int {
		return cmp.Or(
			cmp.Compare(a.Client, b.Client),
			cmp.Compare(a.Project, b.Project),
			a.Start.Compare(b.Start),
		)
	})

	r := Report{Count: len(sorted)}
	for _, e := range sorted {
		r.Total += e.Duration()

		client, project := orNotSpecified(e.Client), orNotSpecified(e.Project)
		if n := len(r.Clients); n == 0 || r.Clients[n-1].Name != client {
			r.Clients = append(r.Clients, ClientGroup{Name: client})
		}
		cg := &r.Clients[len(r.Clients)-1]
		if n := len(cg.Projects); n == 0 || cg.Projects[n-1].Name != project {
			cg.Projects = append(cg.Projects, ProjectGroup{Name: project})
		}
		pg := &cg.Projects[len(cg.Projects)-1]

		end := e.Start.Add(e.Duration())
		if e.End != nil {
			end = *e.End
		}
		line := ReportLine{
			ID:          e.ID,
			Start:       roundTo(e.Start, 5*time.Minute),
			End:         roundTo(end, 5*time.Minute),
			Description: e.Description,
		}
		pg.Entries = append(pg.Entries, line)
		pg.Duration += line.Duration()
	}
	return r
}

// WriteReport renders r as plain text.
func WriteReport(w io.Writer, r Report) error {
	ew := &errWriter{w: w}
	ew.printf("%d entries\n", r.Count)
	ew.printf("Total hours: %.2f\n", r.TotalHours())
	for _, c := range r.Clients {
		ew.printf("\n%s\n", c.Name)
		for _, p := range c.Projects {
			ew.printf("\n\t%s\n", p.Name)
			for _, l := range p.Entries {
				ew.printf("\t%s - %s (%s) %s\n",
					l.Start.Format("02/01/2006 03:04PM"),
					l.End.Format("03:04PM"),
					FormatDuration(l.Duration()),
					l.Description,
				)
			}
			ew.printf("\tProject Duration: %s\n", FormatDuration(p.Duration))
		}
	}
	return ew.err
}

// FormatDuration renders d as zero-padded HH:MM; hours may exceed 24.
func FormatDuration(d time.Duration) string {
	secs := int64(d / time.Second)
	return fmt.Sprintf("%02d:%02d", secs/3600, (secs/60)%60)
}

// roundTo rounds t to the nearest multiple of d within its own day, keeping
// the location.
func roundTo(t time.Time, d time.Duration) time.Time {
	midnight := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	return midnight.Add(t.Sub(midnight).Round(d))
}

func orNotSpecified(s string) string {
	if s == "" {
		return notSpecified
	}
	return s
}

type errWriter struct {
	w   io.Writer
	err error
}

func (ew *errWriter) printf(format string, args ...any) {
	if ew.err != nil {
		return
	}
	_, ew.err = fmt.Fprintf(ew.w, format, args...)
}
