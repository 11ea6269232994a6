package toggl

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Client talks to the Toggl v8 REST API and the v2 reports API.
// Every method issues its requests sequentially and makes a single attempt;
// errors are returned to the caller unchanged in kind.
type Client struct {
	session   Session
	endpoints Endpoints
	http      *http.Client
	log       *slog.Logger
	pageDelay time.Duration
	wait      func(ctx context.Context, d time.Duration) error
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client (30s timeout).
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) {
		if h != nil {
			c.http = h
		}
	}
}

// WithEndpoints points the client at a different host, e.g. a test server.
func WithEndpoints(e Endpoints) Option {
	return func(c *Client) { c.endpoints = e }
}

// WithPageDelay sets the wait between report pages (default RateLimitDelay).
func WithPageDelay(d time.Duration) Option {
	return func(c *Client) {
		if d >= 0 {
			c.pageDelay = d
		}
	}
}

func NewClient(session Session, log *slog.Logger, opts ...Option) *Client {
	if log == nil {
		log = slog.Default()
	}
	c := &Client{
		session:   session,
		endpoints: DefaultEndpoints(),
		http: &http.Client{
			Timeout: 30 * time.Second,
		},
		log:       log,
		pageDelay: RateLimitDelay,
		wait:      sleepContext,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Session returns the credentials the client sends.
func (c *Client) Session() Session { return c.session }

// Endpoints returns the URL set the client targets.
func (c *Client) Endpoints() Endpoints { return c.endpoints }

// RawRequest issues a GET and returns the body verbatim. When query is
// non-nil it is copied, the session user agent is added unless the caller
// set user_agent, and the result is URL-encoded onto endpoint.
func (c *Client) RawRequest(ctx context.Context, endpoint string, query url.Values) ([]byte, error) {
	if query != nil {
		q := make(url.Values, len(query)+1)
		for k, v := range query {
			q[k] = append([]string(nil), v...)
		}
		if !q.Has("user_agent") {
			q.Set("user_agent", c.session.UserAgent())
		}
		endpoint = withQuery(endpoint, q)
	}
	_, body, err := c.do(ctx, http.MethodGet, endpoint, nil)
	return body, err
}

// Request issues a GET through RawRequest and decodes the JSON body into out.
func (c *Client) Request(ctx context.Context, endpoint string, query url.Values, out any) error {
	body, err := c.RawRequest(ctx, endpoint, query)
	if err != nil {
		return err
	}
	return decode(endpoint, body, out)
}

// Mutate sends body as JSON with POST or PUT and returns the response body.
// A nil body sends no payload. Deletes go through Delete.
func (c *Client) Mutate(ctx context.Context, method, endpoint string, body any) ([]byte, error) {
	switch method {
	case http.MethodPost, http.MethodPut:
	default:
		return nil, fmt.Errorf("%w: unsupported method %q", ErrValidation, method)
	}
	var payload []byte
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("%w: encode body: %w", ErrValidation, err)
		}
		payload = b
	}
	_, resp, err := c.do(ctx, method, endpoint, payload)
	return resp, err
}

// Delete issues a DELETE and returns the HTTP status code. The API sends no
// JSON for deletes, so the body is never decoded.
func (c *Client) Delete(ctx context.Context, endpoint string) (int, error) {
	status, _, err := c.do(ctx, http.MethodDelete, endpoint, nil)
	return status, err
}

// mutateJSON is Mutate followed by decoding the response into out.
func (c *Client) mutateJSON(ctx context.Context, method, endpoint string, body, out any) error {
	resp, err := c.Mutate(ctx, method, endpoint, body)
	if err != nil {
		return err
	}
	return decode(endpoint, resp, out)
}

func (c *Client) do(ctx context.Context, method, endpoint string, payload []byte) (int, []byte, error) {
	var r io.Reader
	if payload != nil {
		r = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, endpoint, r)
	if err != nil {
		return 0, nil, fmt.Errorf("%w: build request: %w", ErrValidation, err)
	}
	c.session.apply(req)

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("%w: %s %s: %w", ErrTransport, method, endpoint, err)
	}
	defer resp.Body.Close()
	c.log.Debug("toggl request",
		slog.String("method", method),
		slog.String("url", endpoint),
		slog.Int("status", resp.StatusCode),
		slog.Duration("dur", time.Since(start)),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return resp.StatusCode, nil, &StatusError{
			Method:     method,
			URL:        endpoint,
			StatusCode: resp.StatusCode,
			Body:       string(body),
		}
	}
	if method == http.MethodDelete {
		_, _ = io.Copy(io.Discard, resp.Body)
		return resp.StatusCode, nil, nil
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, fmt.Errorf("%w: read body of %s: %w", ErrTransport, endpoint, err)
	}
	return resp.StatusCode, body, nil
}

func decode(endpoint string, body []byte, out any) error {
	if err := json.Unmarshal(body, out); err != nil {
		return &DecodeError{URL: endpoint, Err: err}
	}
	return nil
}

func withQuery(endpoint string, q url.Values) string {
	if len(q) == 0 {
		return endpoint
	}
	sep := "?"
	if strings.Contains(endpoint, "?") {
		sep = "&"
	}
	return endpoint + sep + q.Encode()
}

// envelope is the {"data": ...} wrapper of single-object v8 responses.
type envelope[T any] struct {
	Data T `json:"data"`
}
