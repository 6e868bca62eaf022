// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

// Package report derives merge statistics for observability. Nothing here
// feeds back into grouping or merging.
package report

import (
	"strings"

	"github.com/wavefunc/stationmerge/internal/station"
)

// Enrichable field names, in report order.
const (
	FieldHomepage      = "homepage"
	FieldFavicon       = "favicon"
	FieldTags          = "tags"
	FieldLanguage      = "language"
	FieldLanguageCodes = "languageCodes"
	FieldGeoLat        = "geoLat"
	FieldGeoLong       = "geoLong"
)

// Stats describes what merging one group produced.
type Stats struct {
	DuplicateCount int      `json:"duplicateCount"`
	StreamCount    int      `json:"streamCount"`
	EnrichedFields []string `json:"enrichedFields,omitempty"`
}

// Enriched reports whether merging filled in at least one field.
func (s Stats) Enriched() bool { return len(s.EnrichedFields) > 0 }

// Compute compares the group's first record with the merged result. A field
// counts as enriched when the first record lacks it and the merged station
// has it.
func Compute(g station.Group, m station.Merged) Stats {
	st := Stats{
		DuplicateCount: len(g),
		StreamCount:    len(m.Streams),
	}
	if len(g) == 0 {
		return st
	}
	first := g[0]

	check := func(name string, had, has bool) {
		if !had && has {
			st.EnrichedFields = append(st.EnrichedFields, name)
		}
	}
	check(FieldHomepage, present(first.Homepage), present(m.Homepage))
	check(FieldFavicon, present(first.Favicon), present(m.Favicon))
	check(FieldTags, present(first.Tags), present(m.Tags))
	check(FieldLanguage, present(first.Language), present(m.Language))
	check(FieldLanguageCodes, present(first.LanguageCodes), present(m.LanguageCodes))
	check(FieldGeoLat, station.ValidFloat(first.GeoLat), station.ValidFloat(m.GeoLat))
	check(FieldGeoLong, station.ValidFloat(first.GeoLong), station.ValidFloat(m.GeoLong))
	return st
}

func present(s string) bool { return strings.TrimSpace(s) != "" }
