// Package provider implements the remote time sources: an HTTP time API
// client and a local privileged time command, plus the shared payload decode.
package provider

import (
	"errors"
	"fmt"
	"time"

	"github.com/tidwall/gjson"
)

// ErrUnrecognizedPayload is returned when no decode strategy matches.
var ErrUnrecognizedPayload = errors.New("unrecognized time payload")

// Field candidates per decode strategy, in priority order. Names cover the
// zone-scoped time APIs seen in the wild (timeapi.io, worldtimeapi.org).
var (
	unixFields = []string{"unixTime", "unixtime"}
	isoFields  = []struct {
		name string
		utc  bool
	}{
		{"utcDateTime", true},
		{"utc_datetime", true},
		{"dateTime", false},
		{"datetime", false},
	}
)

// isoLayouts are tried in order for ISO-8601 candidates. Zone-less layouts
// are interpreted in the location the payload was requested for (UTC for the
// utc variants).
var isoLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
}

// Decode extracts an epoch timestamp (milliseconds) from a provider payload.
// Strategies are tried in priority order, first match wins:
//
//  1. numeric Unix-seconds field, multiplied by 1000
//  2. first parseable ISO-8601 string among the candidate field names
//  3. discrete calendar fields (year, month, day, hour, minute, seconds,
//     optional milliSeconds) composed into a UTC timestamp
//
// loc resolves zone-less local timestamps; nil means UTC.
func Decode(body []byte, loc *time.Location) (int64, error) {
	if !gjson.ValidBytes(body) {
		return 0, fmt.Errorf("invalid JSON in response body")
	}
	if loc == nil {
		loc = time.UTC
	}

	for _, field := range unixFields {
		v := gjson.GetBytes(body, field)
		if v.Exists() && v.Type == gjson.Number {
			return v.Int() * 1000, nil
		}
	}

	for _, field := range isoFields {
		v := gjson.GetBytes(body, field.name)
		if !v.Exists() || v.Type != gjson.String {
			continue
		}
		fieldLoc := loc
		if field.utc {
			fieldLoc = time.UTC
		}
		if t, ok := parseISO(v.String(), fieldLoc); ok {
			return t.UnixMilli(), nil
		}
	}

	if t, ok := composeCalendar(body); ok {
		return t.UnixMilli(), nil
	}

	return 0, ErrUnrecognizedPayload
}

func parseISO(s string, loc *time.Location) (time.Time, bool) {
	for _, layout := range isoLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// composeCalendar builds a UTC timestamp from discrete fields. Month is
// 1-based; milliseconds are optional.
func composeCalendar(body []byte) (time.Time, bool) {
	required := []string{"year", "month", "day", "hour", "minute", "seconds"}
	values := make([]int64, len(required))
	for i, field := range required {
		v := gjson.GetBytes(body, field)
		if !v.Exists() || v.Type != gjson.Number {
			return time.Time{}, false
		}
		values[i] = v.Int()
	}

	var millis int64
	if v := gjson.GetBytes(body, "milliSeconds"); v.Exists() && v.Type == gjson.Number {
		millis = v.Int()
	}

	return time.Date(
		int(values[0]), time.Month(values[1]), int(values[2]),
		int(values[3]), int(values[4]), int(values[5]),
		int(millis)*int(time.Millisecond), time.UTC,
	), true
}
