// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package report

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wavefunc/stationmerge/internal/merge"
	"github.com/wavefunc/stationmerge/internal/station"
)

func TestCompute(t *testing.T) {
	g := station.Group{
		{Name: "Radio X", URL: "http://x/live", Tags: "rock"},
		{Name: "radio x", URL: "http://x/live.aac", Codec: "AAC", Bitrate: 96,
			Homepage: "https://radiox.example", Language: "English",
			GeoLat: station.FloatPtr(51.5), LastChangeTimeISO8601: "2024-01-01"},
	}
	m := merge.Merge(g)

	got := Compute(g, m)
	want := Stats{
		DuplicateCount: 2,
		StreamCount:    2,
		EnrichedFields: []string{FieldHomepage, FieldLanguage, FieldGeoLat},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("Compute mismatch (-want +got):\n%s", diff)
	}
	assert.True(t, got.Enriched())
}

func TestCompute_NothingToEnrich(t *testing.T) {
	r := station.Record{Name: "Solo", URL: "http://solo/stream", Homepage: "https://solo"}
	g := station.Group{r}

	got := Compute(g, merge.Merge(g))
	assert.Equal(t, 1, got.DuplicateCount)
	assert.Equal(t, 1, got.StreamCount)
	assert.False(t, got.Enriched())
}

func TestCompute_EmptyGroup(t *testing.T) {
	got := Compute(nil, merge.Placeholder())
	assert.Equal(t, Stats{}, got)
}

func TestSummary(t *testing.T) {
	var s Summary

	dup := station.Group{
		{URL: "http://a/1", Codec: "MP3", Bitrate: 128},
		{URL: "http://a/2", Codec: "AAC", Bitrate: 64, Favicon: "https://a/icon.png"},
	}
	dm := merge.Merge(dup)
	s.Add(dup, dm, Compute(dup, dm))

	solo := station.Group{{URL: "http://b/1"}}
	sm := merge.Merge(solo)
	s.Add(solo, sm, Compute(solo, sm))

	s.Add(nil, merge.Placeholder(), Stats{})

	assert.Equal(t, 3, s.Records)
	assert.Equal(t, 3, s.Groups)
	assert.Equal(t, 1, s.MergedGroups)
	assert.Equal(t, 1, s.DuplicateRecords)
	assert.Equal(t, 1, s.MultiStream)
	assert.Equal(t, 3, s.Streams)
	assert.Equal(t, 1, s.EnrichedStations)
	assert.Equal(t, map[string]int{FieldFavicon: 1}, s.EnrichedFields)
	assert.Equal(t, 1, s.Placeholders)
	assert.Equal(t, 2, s.LargestGroup)
}

func TestSummary_Log(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf)

	s := Summary{Records: 12345, Groups: 10000, MergedGroups: 2000, EnrichedFields: map[string]int{"tags": 3}}
	s.Log(logger)

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "dedup.summary", line["event"])
	assert.EqualValues(t, 12345, line["records"])
	assert.Contains(t, line["message"], "12,345 records into 10,000 stations")
	assert.Equal(t, map[string]any{"tags": float64(3)}, line["enriched_fields"])
}

func TestReductionPercent(t *testing.T) {
	assert.Zero(t, Summary{}.ReductionPercent())
	assert.InDelta(t, 25.0, Summary{Records: 4, Groups: 3}.ReductionPercent(), 1e-9)
}
