package model

import (
	"errors"
	"time"
)

// ErrInvalidTimestamp indicates a created_time value that is not an ISO 8601 date-time.
var ErrInvalidTimestamp = errors.New("invalid ISO 8601 timestamp")

// TimestampLayout is the wire format of created_time, without fractional seconds.
const TimestampLayout = "2006-01-02T15:04:05"

// timestampMicroLayout is used when the value carries sub-second precision.
const timestampMicroLayout = "2006-01-02T15:04:05.000000"

// Accepted input layouts. Fractional seconds after the seconds field are
// accepted by time.Parse without being spelled out in the layout.
var timestampLayouts = []string{
	"2006-01-02T15:04:05Z07:00",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04Z07:00",
	"2006-01-02T15:04",
	"2006-01-02",
}

// Record is a single fitness entry owned by exactly one user.
type Record struct {
	ID          string    `json:"id"`
	OwnerID     string    `json:"creator"`
	Name        string    `json:"name"`
	ImageData   string    `json:"imgData"`
	Duration    float64   `json:"duration"`
	CreatedTime time.Time `json:"created_time"`
}

// RecordPatch carries the mutable subset of a record. Nil fields are left untouched.
type RecordPatch struct {
	Name      *string
	ImageData *string
	Duration  *float64
}

// IsEmpty reports whether the patch changes nothing.
func (p RecordPatch) IsEmpty() bool {
	return p.Name == nil && p.ImageData == nil && p.Duration == nil
}

// ParseTimestamp parses an ISO 8601 date or date-time.
// Date and time may be separated by 'T' or a single space. Values with a UTC
// offset are converted to UTC; values without one are taken as UTC.
// The result is truncated to microseconds, the precision of the store.
func ParseTimestamp(s string) (time.Time, error) {
	if len(s) > 10 && s[10] == ' ' {
		s = s[:10] + "T" + s[11:]
	}

	for _, layout := range timestampLayouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			return t.UTC().Truncate(time.Microsecond), nil
		}
	}

	return time.Time{}, ErrInvalidTimestamp
}

// FormatTimestamp renders t in UTC without an offset, adding six fractional
// digits only when t has a sub-second component.
func FormatTimestamp(t time.Time) string {
	t = t.UTC()
	if t.Nanosecond()/int(time.Microsecond) != 0 {
		return t.Format(timestampMicroLayout)
	}
	return t.Format(TimestampLayout)
}
