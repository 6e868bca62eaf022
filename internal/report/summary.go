// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package report

import (
	"sort"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/rs/zerolog"

	"github.com/wavefunc/stationmerge/internal/station"
)

// Summary aggregates per-run totals.
type Summary struct {
	Records          int            `json:"records"`
	Groups           int            `json:"groups"`
	MergedGroups     int            `json:"mergedGroups"`
	DuplicateRecords int            `json:"duplicateRecords"`
	MultiStream      int            `json:"multiStream"`
	Streams          int            `json:"streams"`
	EnrichedStations int            `json:"enrichedStations"`
	EnrichedFields   map[string]int `json:"enrichedFields,omitempty"`
	Placeholders     int            `json:"placeholders"`
	LargestGroup     int            `json:"largestGroup"`
	Duration         time.Duration  `json:"duration"`
}

// Add folds one merged group into the summary.
func (s *Summary) Add(g station.Group, m station.Merged, st Stats) {
	s.Groups++
	s.Records += len(g)
	s.Streams += st.StreamCount
	if m.Placeholder {
		s.Placeholders++
		return
	}
	if len(g) > 1 {
		s.MergedGroups++
		s.DuplicateRecords += len(g) - 1
	}
	if len(g) > s.LargestGroup {
		s.LargestGroup = len(g)
	}
	if st.StreamCount > 1 {
		s.MultiStream++
	}
	if st.Enriched() {
		s.EnrichedStations++
		if s.EnrichedFields == nil {
			s.EnrichedFields = make(map[string]int)
		}
		for _, f := range st.EnrichedFields {
			s.EnrichedFields[f]++
		}
	}
}

// ReductionPercent is the share of input records removed by merging.
func (s Summary) ReductionPercent() float64 {
	if s.Records == 0 {
		return 0
	}
	return float64(s.Records-s.Groups) / float64(s.Records) * 100
}

// Log writes the summary as a single structured line.
func (s Summary) Log(logger zerolog.Logger) {
	fields := make([]string, 0, len(s.EnrichedFields))
	for f := range s.EnrichedFields {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	enriched := zerolog.Dict()
	for _, f := range fields {
		enriched.Int(f, s.EnrichedFields[f])
	}

	logger.Info().
		Str("event", "dedup.summary").
		Int("records", s.Records).
		Int("stations", s.Groups).
		Int("merged_groups", s.MergedGroups).
		Int("duplicates_removed", s.DuplicateRecords).
		Int("multi_stream", s.MultiStream).
		Int("enriched_stations", s.EnrichedStations).
		Int("placeholders", s.Placeholders).
		Int("largest_group", s.LargestGroup).
		Dict("enriched_fields", enriched).
		Dur("duration", s.Duration).
		Msgf("deduplicated %s records into %s stations (%s%% reduction, %s streams)",
			humanize.Comma(int64(s.Records)),
			humanize.Comma(int64(s.Groups)),
			humanize.FtoaWithDigits(s.ReductionPercent(), 1),
			humanize.Comma(int64(s.Streams)))
}
