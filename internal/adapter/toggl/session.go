package toggl

import (
	"encoding/base64"
	"net/http"
)

// DefaultUserAgent is sent as user_agent on report requests unless overridden.
const DefaultUserAgent = "toggl-reporter"

// Session carries the credentials and user agent used for every request.
// It is an immutable value; setters return a modified copy, so a Session can
// be shared between goroutines and clients for different accounts coexist.
type Session struct {
	authorization string
	userAgent     string
}

// NewTokenSession authenticates with an API token ("<token>:api_token").
func NewTokenSession(apiToken string) Session {
	return newSession(apiToken, "api_token")
}

// NewPasswordSession authenticates with the account email and password.
func NewPasswordSession(email, password string) Session {
	return newSession(email, password)
}

func newSession(user, password string) Session {
	auth := base64.StdEncoding.EncodeToString([]byte(user + ":" + password))
	return Session{
		authorization: "Basic " + auth,
		userAgent:     DefaultUserAgent,
	}
}

// WithUserAgent returns a copy of s using agent. An empty agent keeps the current one.
func (s Session) WithUserAgent(agent string) Session {
	if agent != "" {
		s.userAgent = agent
	}
	return s
}

// UserAgent returns the agent sent with requests.
func (s Session) UserAgent() string {
	if s.userAgent == "" {
		return DefaultUserAgent
	}
	return s.userAgent
}

// Authorization returns the value of the Authorization header.
func (s Session) Authorization() string { return s.authorization }

func (s Session) apply(req *http.Request) {
	if s.authorization != "" {
		req.Header.Set("Authorization", s.authorization)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "*/*")
	req.Header.Set("User-Agent", s.UserAgent())
}
