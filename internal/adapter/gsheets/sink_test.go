package gsheets

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"toggl-reporter/internal/domain"
)

func TestRows(t *testing.T) {
	start := time.Date(2017, 11, 3, 14, 44, 19, 0, time.FixedZone("PDT", -7*3600))
	end := start.Add(25 * time.Minute)
	rows := Rows([]domain.ReportEntry{
		{User: "Lyle", Updated: end, Start: start, End: &end, Client: "Acme", Project: "Website", Description: "x", IsBillable: true, Billable: 12.5},
		{User: "Lyle", Updated: start, Start: start},
	})
	if len(rows) != 3 {
		t.Fatalf("rows = %d, want header + 2", len(rows))
	}
	if rows[0][0] != "user" || rows[0][8] != "billable" {
		t.Fatalf("header = %v", rows[0])
	}
	if rows[1][2] != "2017-11-03T14:44:19-07:00" || rows[1][3] != "2017-11-03T15:09:19-07:00" || rows[1][7] != true {
		t.Fatalf("row = %v", rows[1])
	}
	if rows[2][3] != "" {
		t.Fatalf("running entry end = %v, want empty", rows[2][3])
	}
}

func TestSyncEntries(t *testing.T) {
	var calls []string
	var written sheets.ValueRange
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls = append(calls, r.Method+" "+r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		switch {
		case strings.HasSuffix(r.URL.Path, ":clear"):
			io.WriteString(w, `{"spreadsheetId":"sheet-1","clearedRange":"Report!A1:I10"}`)
		case r.Method == http.MethodPut:
			if got := r.URL.Query().Get("valueInputOption"); got != "RAW" {
				t.Errorf("valueInputOption = %q", got)
			}
			if err := json.NewDecoder(r.Body).Decode(&written); err != nil {
				t.Errorf("decode: %v", err)
			}
			io.WriteString(w, `{"spreadsheetId":"sheet-1","updatedRows":2}`)
		default:
			http.Error(w, "unexpected", http.StatusNotFound)
		}
	}))
	defer srv.Close()

	ctx := context.Background()
	svc, err := sheets.NewService(ctx, option.WithEndpoint(srv.URL+"/"), option.WithHTTPClient(srv.Client()))
	if err != nil {
		t.Fatal(err)
	}
	s := New(svc, "sheet-1", "Report", slog.New(slog.NewTextHandler(io.Discard, nil)))

	err = s.SyncEntries(ctx, []domain.ReportEntry{{ID: 1, User: "ann", Start: time.Now(), Updated: time.Now()}})
	if err != nil {
		t.Fatalf("SyncEntries: %v", err)
	}
	want := []string{
		"POST /v4/spreadsheets/sheet-1/values/Report!A:I:clear",
		"PUT /v4/spreadsheets/sheet-1/values/Report!A1",
	}
	if len(calls) != 2 || calls[0] != want[0] || calls[1] != want[1] {
		t.Fatalf("calls = %v, want %v", calls, want)
	}
	if len(written.Values) != 2 || written.Values[1][0] != "ann" {
		t.Fatalf("written = %v", written.Values)
	}
}

func TestNewSink_RequiresCredentials(t *testing.T) {
	if _, err := NewSink(context.Background(), nil, "id", "", slog.Default()); err == nil {
		t.Fatal("expected error without credentials")
	}
}
