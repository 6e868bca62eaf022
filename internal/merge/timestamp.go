// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package merge

import (
	"strings"
	"time"

	"github.com/araddon/dateparse"

	"github.com/wavefunc/stationmerge/internal/station"
)

var isoLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05Z0700",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
}

// Timestamp returns when a record was last verified. The ISO-8601 column is
// preferred; the legacy datetime column is the fallback. A record with no
// usable value gets the zero time, which sorts before every real timestamp.
func Timestamp(r station.Record) time.Time {
	if ts, ok := parseISO(r.LastChangeTimeISO8601); ok {
		return ts
	}
	if ts, ok := parseLegacy(r.LastChangeTime); ok {
		return ts
	}
	return time.Time{}
}

func parseISO(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range isoLayouts {
		if ts, err := time.Parse(layout, s); err == nil {
			return ts.UTC(), true
		}
	}
	return time.Time{}, false
}

func parseLegacy(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" || strings.HasPrefix(s, "0000-00-00") {
		return time.Time{}, false
	}
	ts, err := dateparse.ParseIn(s, time.UTC)
	if err != nil || ts.IsZero() {
		return time.Time{}, false
	}
	return ts.UTC(), true
}
