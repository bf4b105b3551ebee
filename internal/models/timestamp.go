package models

import (
	"encoding/json"
	"fmt"
	"time"
)

// timestampLayouts are tried in order. Date inputs in the browser produce
// bare dates, so those are as common as full timestamps.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	time.DateOnly,
}

// Timestamp is a date or date-time owned by the backend. RFC 3339 values and
// bare dates are parsed into Time. Any other string is kept in Raw with a
// zero Time instead of failing the whole response. Raw always holds the text
// the backend sent, and it is what gets re-encoded.
type Timestamp struct {
	Time time.Time
	Raw  string
}

// NewTimestamp wraps t. A zero t gives a zero Timestamp.
func NewTimestamp(t time.Time) Timestamp {
	return Timestamp{Time: t}
}

// ParseTimestamp never fails; unparseable text ends up in Raw only.
func ParseTimestamp(s string) Timestamp {
	ts := Timestamp{Raw: s}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			ts.Time = t
			break
		}
	}
	return ts
}

// IsZero reports whether the backend sent nothing (absent, null or "").
func (ts Timestamp) IsZero() bool {
	return ts.Time.IsZero() && ts.Raw == ""
}

// DateOnly reports whether the value was a bare date.
func (ts Timestamp) DateOnly() bool {
	return !ts.Time.IsZero() && len(ts.Raw) == len(time.DateOnly)
}

// String renders the value for display and export: bare dates stay dates,
// timestamps become RFC 3339 in UTC, and unparsed text is returned as is.
func (ts Timestamp) String() string {
	switch {
	case ts.Time.IsZero():
		return ts.Raw
	case ts.DateOnly():
		return ts.Time.Format(time.DateOnly)
	default:
		return ts.Time.UTC().Format(time.RFC3339)
	}
}

func (ts Timestamp) MarshalJSON() ([]byte, error) {
	if ts.Raw != "" {
		return json.Marshal(ts.Raw)
	}
	if ts.Time.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(ts.Time.Format(time.RFC3339Nano))
}

func (ts *Timestamp) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*ts = Timestamp{}
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("timestamp must be a string, got %s", b)
	}
	*ts = ParseTimestamp(s)
	return nil
}
