package model

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

const (
	DateLayout      = "2006-01-02"
	ClockLayout     = "15:04"
	TimestampLayout = "2006-01-02T15:04:05"
	DisplayLayout   = "2006-01-02 15:04"

	// NoDueDate is stored in place of a task's due date when none was given.
	NoDueDate = "No Due Date"
)

var ErrValidation = errors.New("validation failed")

type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

func invalid(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

func required(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return invalid(field, "cannot be empty")
	}
	return nil
}

// ParseDate parses a YYYY-MM-DD calendar date in local time. Dates that do
// not exist, such as 2025-02-30, are rejected.
func ParseDate(value string) (time.Time, error) {
	return time.ParseInLocation(DateLayout, strings.TrimSpace(value), time.Local)
}

func validDate(field, value string) error {
	if _, err := ParseDate(value); err != nil {
		return invalid(field, "must be a date in YYYY-MM-DD format")
	}
	return nil
}

// Timestamp is a local wall-clock time persisted as a naive ISO string.
type Timestamp struct {
	time.Time
}

func NewTimestamp(t time.Time) Timestamp {
	return Timestamp{Time: t.Local().Truncate(time.Second)}
}

func (ts Timestamp) MarshalJSON() ([]byte, error) {
	if ts.IsZero() {
		return json.Marshal("")
	}
	return json.Marshal(ts.Local().Format(TimestampLayout))
}

// UnmarshalJSON is lenient: an unreadable value leaves the zero time so one
// bad entry does not make a whole collection unreadable.
func (ts *Timestamp) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		ts.Time = time.Time{}
		return nil
	}
	parsed, err := ParseTimestamp(s)
	if err != nil {
		ts.Time = time.Time{}
		return nil
	}
	ts.Time = parsed
	return nil
}

func (ts Timestamp) Display() string {
	if ts.IsZero() {
		return "Unknown time"
	}
	return ts.Local().Format(DisplayLayout)
}

// ParseTimestamp accepts naive ISO timestamps (with or without fractional
// seconds), RFC3339, and "YYYY-MM-DD HH:MM".
func ParseTimestamp(value string) (time.Time, error) {
	s := strings.TrimSpace(value)
	if s == "" {
		return time.Time{}, fmt.Errorf("empty timestamp")
	}
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t.Local(), nil
	}
	for _, layout := range []string{TimestampLayout, "2006-01-02T15:04", DisplayLayout} {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid timestamp %q", value)
}
