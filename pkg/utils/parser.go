package utils

import (
	"fmt"
	"strings"
	"time"
)

// Layouts seen in the ULIP feed and accepted from API callers. The
// timestamptimezone field shows up both with and without an explicit offset.
var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04:05 -0700",
}

// ParseTimestamp parses s against the known layouts. Layouts without an
// offset are interpreted in loc; pass nil for UTC. An offset in the value
// itself always wins.
func ParseTimestamp(s string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.UTC
	}
	s = strings.TrimSpace(s)
	for _, layout := range timestampLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", s)
}
