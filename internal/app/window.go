package app

import (
	"fmt"
	"time"
)

const dateLayout = "2006-01-02"

// ParseStart parses a start boundary that may be RFC3339 or YYYY-MM-DD.
// If val is empty, def is returned.
func ParseStart(val string, def time.Time) (time.Time, error) {
	if val == "" {
		return def, nil
	}
	if t, err := time.Parse(time.RFC3339, val); err == nil {
		return t, nil
	}
	if d, err := time.Parse(dateLayout, val); err == nil {
		return d, nil
	}
	return time.Time{}, fmt.Errorf("invalid start %q, expected RFC3339 or YYYY-MM-DD", val)
}

// ParseEnd parses an end boundary that may be RFC3339 or YYYY-MM-DD.
// Date-only form is treated as inclusive by converting to next-day 00:00 UTC.
// If val is empty, def is returned.
func ParseEnd(val string, def time.Time) (time.Time, error) {
	if val == "" {
		return def, nil
	}
	if t, err := time.Parse(time.RFC3339, val); err == nil {
		return t, nil
	}
	if d, err := time.Parse(dateLayout, val); err == nil {
		return d.AddDate(0, 0, 1), nil
	}
	return time.Time{}, fmt.Errorf("invalid end %q, expected RFC3339 or YYYY-MM-DD", val)
}

// Window parses from and to, defaulting to the 24 hours before now.
func Window(from, to string, now time.Time) (start, end time.Time, err error) {
	end, err = ParseEnd(to, now)
	if err != nil {
		return
	}
	start, err = ParseStart(from, end.Add(-24*time.Hour))
	if err != nil {
		return
	}
	if !start.Before(end) {
		err = fmt.Errorf("start %s is not before end %s", start.Format(time.RFC3339), end.Format(time.RFC3339))
	}
	return
}

// NextMidnight returns the first midnight strictly after t in t's location.
func NextMidnight(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d+1, 0, 0, 0, 0, t.Location())
}
