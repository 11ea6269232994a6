package toggl

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"toggl-reporter/internal/domain"
)

// RateLimitDelay is the wait between report pages. The reports API allows
// one request per second per token.
const RateLimitDelay = time.Second

// ReportKind selects one of the three report endpoints.
type ReportKind string

const (
	ReportWeekly   ReportKind = "weekly"
	ReportDetailed ReportKind = "details"
	ReportSummary  ReportKind = "summary"
)

// ExportFormat is a file format served by the reports API.
type ExportFormat string

const (
	FormatPDF ExportFormat = "pdf"
	FormatCSV ExportFormat = "csv"
)

// ReportPage is one decoded page of a paginated report.
type ReportPage[T any] struct {
	TotalCount    int    `json:"total_count"`
	PerPage       int    `json:"per_page"`
	TotalGrand    *int64 `json:"total_grand"`
	TotalBillable *int64 `json:"total_billable"`
	Data          []T    `json:"data"`
}

// FetchAllPages requests every page of a paginated report and returns the
// first page with the data of all pages appended in order.
//
// It issues exactly ceil(total_count/per_page) requests (at least one) and
// waits the client's page delay before each request after the first. If a
// later page fails, the pages fetched so far are returned together with the
// error; callers must treat that data as partial.
func FetchAllPages[T any](ctx context.Context, c *Client, endpoint string, q ReportQuery) (*ReportPage[T], error) {
	q.Page = 1
	var acc ReportPage[T]
	if err := c.Request(ctx, endpoint, q.Values(), &acc); err != nil {
		return nil, err
	}
	pages := pageCount(acc.TotalCount, acc.PerPage)
	for page := 2; page <= pages; page++ {
		if err := c.wait(ctx, c.pageDelay); err != nil {
			return &acc, fmt.Errorf("toggl: report page %d of %d: %w", page, pages, err)
		}
		q.Page = page
		var next ReportPage[T]
		if err := c.Request(ctx, endpoint, q.Values(), &next); err != nil {
			return &acc, fmt.Errorf("toggl: report page %d of %d: %w", page, pages, err)
		}
		acc.Data = append(acc.Data, next.Data...)
	}
	c.log.Debug("report fetched",
		slog.String("url", endpoint),
		slog.Int("pages", max(pages, 1)),
		slog.Int("records", len(acc.Data)),
	)
	return &acc, nil
}

func pageCount(total, perPage int) int {
	if perPage <= 0 || total <= 0 {
		return 0
	}
	return (total + perPage - 1) / perPage
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// DetailedReport returns the single page selected by q.Page.
func (c *Client) DetailedReport(ctx context.Context, q ReportQuery) (domain.DetailedReport, error) {
	var page ReportPage[rawReportEntry]
	if err := c.Request(ctx, c.endpoints.ReportDetailed, q.Values(), &page); err != nil {
		return domain.DetailedReport{}, err
	}
	return toDetailedReport(&page), nil
}

// DetailedReportPages returns the detailed report across all pages. On a
// failure after the first page it returns the partial report and the error.
func (c *Client) DetailedReportPages(ctx context.Context, q ReportQuery) (domain.DetailedReport, error) {
	page, err := FetchAllPages[rawReportEntry](ctx, c, c.endpoints.ReportDetailed, q)
	if page == nil {
		return domain.DetailedReport{}, err
	}
	return toDetailedReport(page), err
}

// ReportEntries fetches all detailed report entries matching f.
func (c *Client) ReportEntries(ctx context.Context, f domain.ReportFilter) (domain.DetailedReport, error) {
	if f.WorkspaceID == 0 {
		return domain.DetailedReport{}, fmt.Errorf("%w: workspace id is required for reports", ErrValidation)
	}
	return c.DetailedReportPages(ctx, QueryFromFilter(f))
}

// WeeklyReport is the decoded weekly report.
type WeeklyReport struct {
	TotalGrand    *int64        `json:"total_grand"`
	TotalBillable *int64        `json:"total_billable"`
	WeekTotals    []*int64      `json:"week_totals"`
	Data          []WeeklyGroup `json:"data"`
}

// WeeklyGroup holds the per-day totals (7 days plus the sum) of one project or user.
type WeeklyGroup struct {
	Title   map[string]*string `json:"title"`
	PID     *int64             `json:"pid"`
	UID     *int64             `json:"uid"`
	Totals  []*int64           `json:"totals"`
	Details []WeeklyDetail     `json:"details"`
}

type WeeklyDetail struct {
	UID    *int64             `json:"uid"`
	PID    *int64             `json:"pid"`
	Title  map[string]*string `json:"title"`
	Totals []*int64           `json:"totals"`
}

// SummaryReport is the decoded summary report.
type SummaryReport struct {
	TotalGrand    *int64         `json:"total_grand"`
	TotalBillable *int64         `json:"total_billable"`
	Data          []SummaryGroup `json:"data"`
}

type SummaryGroup struct {
	ID    *int64             `json:"id"`
	Title map[string]*string `json:"title"`
	Time  int64              `json:"time"`
	Items []SummaryItem      `json:"items"`
}

type SummaryItem struct {
	Title map[string]*string `json:"title"`
	Time  int64              `json:"time"`
	Cur   *string            `json:"cur"`
	Sum   *float64           `json:"sum"`
	Rate  *float64           `json:"rate"`
}

func (c *Client) WeeklyReport(ctx context.Context, q ReportQuery) (WeeklyReport, error) {
	var r WeeklyReport
	err := c.Request(ctx, c.endpoints.ReportWeekly, q.Values(), &r)
	return r, err
}

func (c *Client) SummaryReport(ctx context.Context, q ReportQuery) (SummaryReport, error) {
	var r SummaryReport
	err := c.Request(ctx, c.endpoints.ReportSummary, q.Values(), &r)
	return r, err
}

// ExportReport downloads a report as PDF or CSV and copies the bytes to w.
func (c *Client) ExportReport(ctx context.Context, kind ReportKind, format ExportFormat, q ReportQuery, w io.Writer) (int64, error) {
	switch format {
	case FormatPDF, FormatCSV:
	default:
		return 0, fmt.Errorf("%w: unsupported export format %q", ErrValidation, format)
	}
	body, err := c.RawRequest(ctx, c.endpoints.Export(kind, format), q.Values())
	if err != nil {
		return 0, err
	}
	return io.Copy(w, bytes.NewReader(body))
}

// rawReportEntry mirrors a detailed report record.
type rawReportEntry struct {
	ID          int64      `json:"id"`
	PID         *int64     `json:"pid"`
	TID         *int64     `json:"tid"`
	UID         int64      `json:"uid"`
	Description string     `json:"description"`
	Start       time.Time  `json:"start"`
	End         *time.Time `json:"end"`
	Updated     time.Time  `json:"updated"`
	Dur         int64      `json:"dur"`
	User        string     `json:"user"`
	Client      *string    `json:"client"`
	Project     *string    `json:"project"`
	Task        *string    `json:"task"`
	Billable    *float64   `json:"billable"`
	IsBillable  bool       `json:"is_billable"`
	Cur         *string    `json:"cur"`
	Tags        []string   `json:"tags"`
}

func toDetailedReport(p *ReportPage[rawReportEntry]) domain.DetailedReport {
	r := domain.DetailedReport{
		TotalCount: p.TotalCount,
		PerPage:    p.PerPage,
		Entries:    make([]domain.ReportEntry, 0, len(p.Data)),
	}
	if p.TotalGrand != nil {
		r.TotalGrand = *p.TotalGrand
	}
	if p.TotalBillable != nil {
		r.TotalBillable = *p.TotalBillable
	}
	for _, e := range p.Data {
		var billable float64
		if e.Billable != nil {
			billable = *e.Billable
		}
		r.Entries = append(r.Entries, domain.ReportEntry{
			ID:          e.ID,
			ProjectID:   e.PID,
			TaskID:      e.TID,
			UserID:      e.UID,
			Description: e.Description,
			Start:       e.Start,
			End:         e.End,
			Updated:     e.Updated,
			DurationMs:  e.Dur,
			User:        e.User,
			Client:      deref(e.Client),
			Project:     deref(e.Project),
			Task:        deref(e.Task),
			Billable:    billable,
			IsBillable:  e.IsBillable,
			Currency:    deref(e.Cur),
			Tags:        e.Tags,
		})
	}
	return r
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
