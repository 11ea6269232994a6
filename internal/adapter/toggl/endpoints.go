package toggl

import (
	"fmt"
	"strings"
)

// DefaultBaseURL is the Toggl Track host serving both the REST and the reports API.
const DefaultBaseURL = "https://api.track.toggl.com"

// Endpoints holds the fixed URLs of the Toggl v8 REST API and the v2 reports API.
type Endpoints struct {
	Workspaces         string
	Clients            string
	Projects           string
	Tasks              string
	TimeEntries        string
	StartTime          string
	CurrentRunningTime string
	ReportWeekly       string
	ReportDetailed     string
	ReportSummary      string
}

// NewEndpoints builds the endpoint set for the given host. An empty baseURL
// selects DefaultBaseURL.
func NewEndpoints(baseURL string) Endpoints {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	baseURL = strings.TrimRight(baseURL, "/")
	api := baseURL + "/api/v8"
	reports := baseURL + "/reports/api/v2"
	return Endpoints{
		Workspaces:         api + "/workspaces",
		Clients:            api + "/clients",
		Projects:           api + "/projects",
		Tasks:              api + "/tasks",
		TimeEntries:        api + "/time_entries",
		StartTime:          api + "/time_entries/start",
		CurrentRunningTime: api + "/time_entries/current",
		ReportWeekly:       reports + "/weekly",
		ReportDetailed:     reports + "/details",
		ReportSummary:      reports + "/summary",
	}
}

// DefaultEndpoints returns the endpoints of the public Toggl service.
func DefaultEndpoints() Endpoints { return NewEndpoints(DefaultBaseURL) }

// StopTime returns the URL that stops the running time entry id.
func (e Endpoints) StopTime(id int64) string {
	return fmt.Sprintf("%s/%d/stop", e.TimeEntries, id)
}

// Report returns the URL of a report kind.
func (e Endpoints) Report(kind ReportKind) string {
	switch kind {
	case ReportWeekly:
		return e.ReportWeekly
	case ReportSummary:
		return e.ReportSummary
	default:
		return e.ReportDetailed
	}
}

// Export returns the URL serving a report in a file format, e.g. .../details.pdf.
func (e Endpoints) Export(kind ReportKind, format ExportFormat) string {
	return e.Report(kind) + "." + string(format)
}
