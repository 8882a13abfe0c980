// Package timex defines the timestamp representation shared by the local
// store, the sync protocol and the server.
//
// Timestamps travel as fixed-width millisecond-precision UTC ISO-8601
// strings ("2024-01-01T10:00:00.000Z") and are stored in TEXT columns in the
// same form, so lexicographic comparison in SQL is equivalent to
// chronological comparison.
package timex

import (
	"database/sql/driver"
	"fmt"
	"time"
)

// Layout is the canonical wire and storage format.
const Layout = "2006-01-02T15:04:05.000Z07:00"

// parseLayouts are accepted on input, most common first. Other devices may
// send second-precision or nanosecond timestamps.
var parseLayouts = []string{
	Layout,
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02",
}

// Time is a time.Time that marshals to the canonical layout in JSON and SQL.
type Time struct {
	time.Time
}

// Now returns the current UTC time truncated to the canonical precision.
func Now() Time {
	return From(time.Now())
}

// From converts a time.Time to a canonical Time.
func From(t time.Time) Time {
	return Time{t.UTC().Truncate(time.Millisecond)}
}

// Parse reads a timestamp in any of the accepted layouts.
func Parse(s string) (Time, error) {
	for _, layout := range parseLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return From(t), nil
		}
	}
	return Time{}, fmt.Errorf("invalid timestamp %q", s)
}

// Min returns the earlier of a and b.
func Min(a, b Time) Time {
	if b.Before(a.Time) {
		return b
	}
	return a
}

// String implements fmt.Stringer using the canonical layout.
func (t Time) String() string {
	return t.UTC().Format(Layout)
}

// MarshalJSON encodes the timestamp as a canonical string.
func (t Time) MarshalJSON() ([]byte, error) {
	return []byte(`"` + t.String() + `"`), nil
}

// UnmarshalJSON accepts a string in any supported layout, or null.
func (t *Time) UnmarshalJSON(data []byte) error {
	s := string(data)
	if s == "null" {
		*t = Time{}
		return nil
	}
	if len(s) < 2 || s[0] != '"' || s[len(s)-1] != '"' {
		return fmt.Errorf("invalid timestamp %s", s)
	}
	parsed, err := Parse(s[1 : len(s)-1])
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// Value implements driver.Valuer, storing the canonical string.
func (t Time) Value() (driver.Value, error) {
	return t.String(), nil
}

// Scan implements sql.Scanner for TEXT columns.
func (t *Time) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*t = Time{}
		return nil
	case string:
		parsed, err := Parse(v)
		if err != nil {
			return err
		}
		*t = parsed
		return nil
	case []byte:
		return t.Scan(string(v))
	case time.Time:
		*t = From(v)
		return nil
	default:
		return fmt.Errorf("cannot scan %T into timex.Time", src)
	}
}
