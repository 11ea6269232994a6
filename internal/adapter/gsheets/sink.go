package gsheets

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"toggl-reporter/internal/domain"
)

// Header is the first row written to the sheet.
var Header = []any{"user", "updated", "start", "end", "client", "project", "description", "is_billable", "billable"}

// Sink implements ports.Sink by replacing the contents of one sheet with
// the synced entries.
type Sink struct {
	svc           *sheets.Service
	spreadsheetID string
	sheet         string
	log           *slog.Logger
}

// NewSink authenticates with a service account key and returns a sink
// writing to sheet in the given spreadsheet. Extra options are passed to
// the Sheets service.
func NewSink(ctx context.Context, credentialsJSON []byte, spreadsheetID, sheet string, log *slog.Logger, opts ...option.ClientOption) (*Sink, error) {
	if len(credentialsJSON) == 0 {
		return nil, errors.New("sheets: credentials are required")
	}
	creds, err := google.CredentialsFromJSON(ctx, credentialsJSON, sheets.SpreadsheetsScope)
	if err != nil {
		return nil, fmt.Errorf("sheets: parse credentials: %w", err)
	}
	svc, err := sheets.NewService(ctx, append([]option.ClientOption{option.WithCredentials(creds)}, opts...)...)
	if err != nil {
		return nil, fmt.Errorf("sheets: create service: %w", err)
	}
	return New(svc, spreadsheetID, sheet, log), nil
}

// New wraps an existing Sheets service. An empty sheet name means "Sheet1".
func New(svc *sheets.Service, spreadsheetID, sheet string, log *slog.Logger) *Sink {
	if sheet == "" {
		sheet = "Sheet1"
	}
	return &Sink{svc: svc, spreadsheetID: spreadsheetID, sheet: sheet, log: log}
}

// SyncEntries clears the sheet and writes the header plus one row per entry
// in a single update.
func (s *Sink) SyncEntries(ctx context.Context, entries []domain.ReportEntry) error {
	if s.spreadsheetID == "" {
		return errors.New("sheets: spreadsheet id is required")
	}
	all := s.sheet + "!A:I"
	if _, err := s.svc.Spreadsheets.Values.Clear(s.spreadsheetID, all, &sheets.ClearValuesRequest{}).Context(ctx).Do(); err != nil {
		return fmt.Errorf("sheets: clear %s: %w", all, err)
	}
	vr := &sheets.ValueRange{
		MajorDimension: "ROWS",
		Values:         Rows(entries),
	}
	resp, err := s.svc.Spreadsheets.Values.Update(s.spreadsheetID, s.sheet+"!A1", vr).
		ValueInputOption("RAW").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("sheets: update: %w", err)
	}
	s.log.Info("sheets sink wrote entries",
		slog.Int("count", len(entries)),
		slog.Int64("rows", resp.UpdatedRows),
	)
	return nil
}

// Rows returns the header followed by one row per entry.
func Rows(entries []domain.ReportEntry) [][]any {
	rows := make([][]any, 0, len(entries)+1)
	rows = append(rows, Header)
	for _, e := range entries {
		var end string
		if e.End != nil {
			end = e.End.Format(time.RFC3339)
		}
		rows = append(rows, []any{
			e.User,
			e.Updated.Format(time.RFC3339),
			e.Start.Format(time.RFC3339),
			end,
			e.Client,
			e.Project,
			e.Description,
			e.IsBillable,
			e.Billable,
		})
	}
	return rows
}
