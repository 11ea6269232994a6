package app

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	tg "toggl-reporter/internal/adapter/toggl"
)

// HTTPServer returns a configured http.Server that exposes endpoints to trigger syncs.
// Call ListenAndServe on the returned server in a goroutine and Shutdown it on exit.
func (a *App) HTTPServer(addr string) *http.Server {
	srv := &http.Server{
		Addr:              addr,
		Handler:           a.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	a.log.Info("http trigger server configured", slog.String("addr", addr))
	return srv
}

// Router returns the HTTP routes.
func (a *App) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(loggingMiddleware(a.log))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Get("/sync", a.handleSync)
	r.Post("/sync", a.handleSync)
	r.Get("/report", a.handleReport)
	return r
}

// handleSync serves /sync?from=...&to=...&timeout=...
// from/to accept RFC3339 or YYYY-MM-DD. If omitted, defaults to [now-24h, now].
func (a *App) handleSync(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	from, to, err := Window(q.Get("from"), q.Get("to"), time.Now().UTC())
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"status": "error", "error": err.Error()})
		return
	}

	ctx, cancel := withTimeout(r.Context(), q.Get("timeout"))
	defer cancel()

	err = a.RunOnce(ctx, from, to)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, ErrSyncRunning) {
			status = http.StatusConflict
		}
		writeJSON(w, status, map[string]any{
			"status": "error",
			"error":  err.Error(),
			"from":   from.Format(time.RFC3339),
			"to":     to.Format(time.RFC3339),
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"status": "ok",
		"from":   from.Format(time.RFC3339),
		"to":     to.Format(time.RFC3339),
	})
}

// handleReport serves the detailed report across all pages. It accepts the
// reports API query parameters; workspace_id defaults to the configured one.
// A report cut short by a failing page is returned with complete=false.
func (a *App) handleReport(w http.ResponseWriter, r *http.Request) {
	params := r.URL.Query()
	timeout := params.Get("timeout")
	params.Del("timeout")
	q, err := tg.ParseReportQuery(params)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"status": "error", "error": err.Error()})
		return
	}
	if q.WorkspaceID == 0 {
		q.WorkspaceID = a.cfg.Toggl.WorkspaceID
	}
	if q.WorkspaceID == 0 {
		writeJSON(w, http.StatusBadRequest, map[string]any{"status": "error", "error": "workspace_id is required"})
		return
	}

	ctx, cancel := withTimeout(r.Context(), timeout)
	defer cancel()

	report, err := a.toggl.DetailedReportPages(ctx, q)
	if err != nil && len(report.Entries) == 0 {
		writeJSON(w, statusFor(err), map[string]any{"status": "error", "error": err.Error()})
		return
	}
	body := map[string]any{
		"status":   "ok",
		"complete": err == nil,
		"report":   report,
	}
	status := http.StatusOK
	if err != nil {
		body["status"] = "error"
		body["error"] = err.Error()
		status = statusFor(err)
	}
	writeJSON(w, status, body)
}

// statusFor maps client errors to the status returned to the caller.
func statusFor(err error) int {
	var se *tg.StatusError
	switch {
	case errors.Is(err, tg.ErrValidation):
		return http.StatusBadRequest
	case errors.As(err, &se) && se.StatusCode == http.StatusTooManyRequests:
		return http.StatusTooManyRequests
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.Is(err, tg.ErrTransport), errors.Is(err, tg.ErrDecode):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// withTimeout applies an optional ?timeout=5m override.
func withTimeout(ctx context.Context, val string) (context.Context, context.CancelFunc) {
	if val != "" {
		if d, err := time.ParseDuration(val); err == nil && d > 0 {
			return context.WithTimeout(ctx, d)
		}
	}
	return context.WithCancel(ctx)
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// loggingMiddleware provides basic request logging.
func loggingMiddleware(log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			next.ServeHTTP(w, r)
			log.Info("http request",
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.String("remote", r.RemoteAddr),
				slog.Duration("dur", time.Since(start)),
			)
		})
	}
}
