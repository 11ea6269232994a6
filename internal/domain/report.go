package domain

import "time"

// ReportEntry is one record of the detailed report.
type ReportEntry struct {
	ID          int64      `json:"id"`
	ProjectID   *int64     `json:"pid"`
	TaskID      *int64     `json:"tid"`
	UserID      int64      `json:"uid"`
	Description string     `json:"description"`
	Start       time.Time  `json:"start"`
	End         *time.Time `json:"end"`
	Updated     time.Time  `json:"updated"`
	DurationMs  int64      `json:"dur"`
	User        string     `json:"user"`
	Client      string     `json:"client"`
	Project     string     `json:"project"`
	Task        string     `json:"task"`
	Billable    float64    `json:"billable"` // billed amount in Currency
	IsBillable  bool       `json:"is_billable"`
	Currency    string     `json:"cur"`
	Tags        []string   `json:"tags"`
}

// Duration returns the tracked time of the entry.
func (e ReportEntry) Duration() time.Duration {
	return time.Duration(e.DurationMs) * time.Millisecond
}

// DetailedReport is the decoded detailed report, possibly spanning several pages.
type DetailedReport struct {
	TotalCount    int           `json:"total_count"`
	PerPage       int           `json:"per_page"`
	TotalGrand    int64         `json:"total_grand"`    // milliseconds
	TotalBillable int64         `json:"total_billable"` // milliseconds
	Entries       []ReportEntry `json:"data"`
}

// ReportFilter selects report entries. Until is exclusive.
type ReportFilter struct {
	WorkspaceID int64
	Since       time.Time
	Until       time.Time
	ClientIDs   []int64
	ProjectIDs  []int64
	TagIDs      []int64
	UserIDs     []int64
}
