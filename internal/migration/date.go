package migration

import (
	"strings"
	"time"
)

// dateLayouts are tried in order. Fractional seconds after the seconds field
// are accepted by time.Parse even though the layouts do not spell them out.
var dateLayouts = []string{
	"2006-01-02 15:04:05Z07:00",
	"2006-01-02T15:04:05Z07:00",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

// ParseDate interprets an embedded date string. Strings that match none of the
// recognized layouts yield nil; this is never an error.
func ParseDate(s string) *time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return &t
		}
	}
	return nil
}
