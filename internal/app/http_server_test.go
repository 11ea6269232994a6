package app

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	tg "toggl-reporter/internal/adapter/toggl"
	"toggl-reporter/internal/config"
	"toggl-reporter/internal/domain"
)

type memSink struct{ entries []domain.ReportEntry }

func (s *memSink) SyncEntries(_ context.Context, entries []domain.ReportEntry) error {
	s.entries = append(s.entries, entries...)
	return nil
}

// fakeToggl serves the detailed report and records the report queries.
type fakeToggl struct {
	status  int
	queries []url.Values
}

func (f *fakeToggl) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if r.URL.Path != "/reports/api/v2/details" {
		http.NotFound(w, r)
		return
	}
	f.queries = append(f.queries, r.URL.Query())
	if f.status != 0 {
		w.WriteHeader(f.status)
		io.WriteString(w, `{"error":"nope"}`)
		return
	}
	io.WriteString(w, `{"total_count":2,"per_page":50,"total_grand":5400000,"data":[
		{"id":1,"uid":9,"user":"ann","client":"Acme","project":"Website","start":"2024-05-01T09:00:00Z","end":"2024-05-01T10:00:00Z","updated":"2024-05-01T10:00:00Z","dur":3600000,"tags":[]},
		{"id":2,"uid":9,"user":"ann","client":null,"project":null,"start":"2024-05-01T11:00:00Z","end":"2024-05-01T11:30:00Z","updated":"2024-05-01T11:30:00Z","dur":1800000,"tags":["x"]}
	]}`)
}

func testApp(t *testing.T, upstream http.Handler) (*App, *memSink) {
	t.Helper()
	srv := httptest.NewServer(upstream)
	t.Cleanup(srv.Close)

	cfg := config.Default()
	cfg.Toggl.APIToken = "tok"
	cfg.Toggl.WorkspaceID = 7
	cfg.Toggl.BaseURL = srv.URL
	cfg.Toggl.PageDelay = 0
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	sink := &memSink{}
	return newApp(log, cfg, NewTogglClient(cfg, log), sink), sink
}

func get(t *testing.T, h http.Handler, method, target string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(method, target, nil))
	var body map[string]any
	if strings.HasPrefix(rec.Header().Get("Content-Type"), "application/json") {
		if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
			t.Fatalf("decode %s: %v", rec.Body.String(), err)
		}
	}
	return rec, body
}

func TestHealthz(t *testing.T) {
	a, _ := testApp(t, &fakeToggl{})
	rec, _ := get(t, a.Router(), http.MethodGet, "/healthz")
	if rec.Code != http.StatusOK || rec.Body.String() != "ok" {
		t.Fatalf("healthz = %d %q", rec.Code, rec.Body.String())
	}
}

func TestSync(t *testing.T) {
	upstream := &fakeToggl{}
	a, sink := testApp(t, upstream)

	rec, body := get(t, a.Router(), http.MethodPost, "/sync?from=2024-05-01&to=2024-05-01")
	if rec.Code != http.StatusOK || body["status"] != "ok" {
		t.Fatalf("sync = %d %v", rec.Code, body)
	}
	if body["from"] != "2024-05-01T00:00:00Z" || body["to"] != "2024-05-02T00:00:00Z" {
		t.Fatalf("window = %v - %v", body["from"], body["to"])
	}
	if len(sink.entries) != 2 {
		t.Fatalf("sink got %d entries", len(sink.entries))
	}
	q := upstream.queries[0]
	if q.Get("workspace_id") != "7" || q.Get("since") != "2024-05-01" || q.Get("until") != "2024-05-01" {
		t.Fatalf("upstream query = %v", q)
	}
}

func TestSync_BadWindow(t *testing.T) {
	a, _ := testApp(t, &fakeToggl{})
	rec, _ := get(t, a.Router(), http.MethodGet, "/sync?from=tomorrow")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestSync_AlreadyRunning(t *testing.T) {
	a, _ := testApp(t, &fakeToggl{})
	a.running.Lock()
	defer a.running.Unlock()

	if err := a.RunOnce(context.Background(), time.Now().Add(-time.Hour), time.Now()); !errors.Is(err, ErrSyncRunning) {
		t.Fatalf("RunOnce err = %v, want ErrSyncRunning", err)
	}
	rec, body := get(t, a.Router(), http.MethodGet, "/sync")
	if rec.Code != http.StatusConflict || body["error"] != ErrSyncRunning.Error() {
		t.Fatalf("sync = %d %v", rec.Code, body)
	}
}

func TestReport(t *testing.T) {
	upstream := &fakeToggl{}
	a, _ := testApp(t, upstream)

	rec, body := get(t, a.Router(), http.MethodGet, "/report?since=2024-05-01&until=2024-05-31&client_ids=3,4&timeout=1m")
	if rec.Code != http.StatusOK || body["complete"] != true {
		t.Fatalf("report = %d %v", rec.Code, body)
	}
	report := body["report"].(map[string]any)
	if data := report["data"].([]any); len(data) != 2 {
		t.Fatalf("data = %v", data)
	}
	q := upstream.queries[0]
	if q.Get("workspace_id") != "7" || q.Get("client_ids") != "3,4" || q.Get("user_agent") != tg.DefaultUserAgent {
		t.Fatalf("upstream query = %v", q)
	}
	if q.Has("timeout") {
		t.Fatalf("timeout leaked upstream: %v", q)
	}
}

func TestReport_Errors(t *testing.T) {
	tests := []struct {
		name     string
		upstream int
		target   string
		want     int
	}{
		{"bad ids", 0, "/report?client_ids=a", http.StatusBadRequest},
		{"forbidden upstream", http.StatusForbidden, "/report", http.StatusBadGateway},
		{"rate limited upstream", http.StatusTooManyRequests, "/report", http.StatusTooManyRequests},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, _ := testApp(t, &fakeToggl{status: tt.upstream})
			rec, body := get(t, a.Router(), http.MethodGet, tt.target)
			if rec.Code != tt.want || body["status"] != "error" {
				t.Fatalf("report = %d %v, want %d", rec.Code, body, tt.want)
			}
		})
	}
}

func TestReport_RequiresWorkspace(t *testing.T) {
	a, _ := testApp(t, &fakeToggl{})
	a.cfg.Toggl.WorkspaceID = 0
	rec, _ := get(t, a.Router(), http.MethodGet, "/report")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}
