package toggl

import (
	"errors"
	"fmt"
)

var (
	// ErrTransport marks network failures and non-2xx responses.
	ErrTransport = errors.New("toggl: transport failure")
	// ErrDecode marks response bodies that are not the expected JSON.
	ErrDecode = errors.New("toggl: malformed response")
	// ErrNotFound is returned by lookups that must resolve to a record.
	ErrNotFound = errors.New("toggl: not found")
	// ErrValidation marks requests rejected before anything is sent.
	ErrValidation = errors.New("toggl: invalid request")
)

// StatusError is returned for responses outside the 2xx range.
type StatusError struct {
	Method     string
	URL        string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("toggl: unexpected status %d for %s %s: %s", e.StatusCode, e.Method, e.URL, e.Body)
}

func (e *StatusError) Is(target error) bool { return target == ErrTransport }

// DecodeError wraps a JSON decoding failure of a response body.
type DecodeError struct {
	URL string
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("toggl: decode response of %s: %v", e.URL, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

func (e *DecodeError) Is(target error) bool { return target == ErrDecode }
