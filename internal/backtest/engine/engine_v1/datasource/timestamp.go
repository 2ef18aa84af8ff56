package datasource

import (
	"strconv"
	"strings"
	"time"

	"github.com/rxtech-lab/argo-replay/pkg/errors"
)

// epochMillisThreshold separates epoch seconds from epoch milliseconds.
const epochMillisThreshold = 10_000_000_000

// isoLayouts are tried in order. Layouts without a zone parse as UTC.
var isoLayouts = []string{
	"2006-01-02T15:04:05.999999999Z07:00",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04Z07:00",
	"2006-01-02T15:04",
	"2006-01-02 15:04",
	"2006-01-02",
}

// ParseTimestamp parses an epoch value in seconds or milliseconds, or an
// ISO-8601 string, into a UTC time truncated to the second.
func ParseTimestamp(raw string) (time.Time, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return time.Time{}, errors.NewTimestampError(raw, nil)
	}

	if isDigits(s) {
		v, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return time.Time{}, errors.NewTimestampError(raw, err)
		}

		if v > epochMillisThreshold {
			v /= 1000
		}

		return time.Unix(v, 0).UTC(), nil
	}

	var lastErr error

	for _, layout := range isoLayouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			return t.UTC().Truncate(time.Second), nil
		}

		lastErr = err
	}

	return time.Time{}, errors.NewTimestampError(raw, lastErr)
}

// FloorMinute drops seconds and below.
func FloorMinute(t time.Time) time.Time {
	return t.UTC().Truncate(time.Minute)
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}

	return s != ""
}
