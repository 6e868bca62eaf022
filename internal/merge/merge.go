// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

// Package merge collapses one group of duplicate station records into a
// single canonical station with a ranked stream list.
package merge

import (
	"strings"

	"github.com/wavefunc/stationmerge/internal/normalize"
	"github.com/wavefunc/stationmerge/internal/station"
)

// UnknownName is used when no record of a group carries a name.
const UnknownName = "Unknown Station"

// Merge builds the canonical station for g.
//
// A single-record group is wrapped as is. An empty group yields Placeholder;
// the grouping engine never produces one, so this only guards callers that
// assemble groups themselves.
func Merge(g station.Group) station.Merged {
	switch len(g) {
	case 0:
		return Placeholder()
	case 1:
		return wrap(g[0])
	}

	streams := CollectStreams(g)
	Rank(streams)

	name := UnknownName
	if raw := MostRecentString(g, func(r station.Record) string { return r.Name }); raw != "" {
		name = normalize.CleanDisplayName(raw)
		if name == "" {
			name = strings.TrimSpace(raw)
		}
	}

	m := station.Merged{
		StationID:   g[0].StationID,
		StationUUID: g[0].StationUUID,
		Name:        name,

		URL:         MostRecentString(g, func(r station.Record) string { return r.URL }),
		Homepage:    MostRecentString(g, func(r station.Record) string { return r.Homepage }),
		Favicon:     MostRecentString(g, func(r station.Record) string { return r.Favicon }),
		Country:     MostRecentString(g, func(r station.Record) string { return r.Country }),
		Subcountry:  MostRecentString(g, func(r station.Record) string { return r.Subcountry }),
		CountryCode: MostRecentString(g, func(r station.Record) string { return r.CountryCode }),
		ServerUUID:  MostRecentString(g, func(r station.Record) string { return r.ServerUUID }),
		GeoLat:      MostRecentFloat(g, func(r station.Record) *float64 { return r.GeoLat }),
		GeoLong:     MostRecentFloat(g, func(r station.Record) *float64 { return r.GeoLong }),

		Language:      Union(g, func(r station.Record) string { return r.Language }),
		LanguageCodes: Union(g, func(r station.Record) string { return r.LanguageCodes }),
		Tags:          Union(g, func(r station.Record) string { return r.Tags }),

		Votes: Max(g, func(r station.Record) *int { return r.Votes }),
		HLS:   Max(g, func(r station.Record) *int { return r.HLS }),

		Streams:       streams,
		SourceRecords: append([]station.Record(nil), g...),
	}
	if len(streams) > 0 {
		m.Codec = streams[0].Codec
		m.Bitrate = streams[0].BitrateKbps
	}
	return m
}

// wrap turns a lone record into a merged station without applying any merge
// policy; only its stream list is derived.
func wrap(r station.Record) station.Merged {
	g := station.Group{r}
	streams := CollectStreams(g)
	Rank(streams)

	m := station.Merged{
		StationID:     r.StationID,
		StationUUID:   r.StationUUID,
		Name:          r.Name,
		URL:           r.URL,
		Homepage:      r.Homepage,
		Favicon:       r.Favicon,
		Country:       r.Country,
		Subcountry:    r.Subcountry,
		CountryCode:   r.CountryCode,
		ServerUUID:    r.ServerUUID,
		GeoLat:        r.GeoLat,
		GeoLong:       r.GeoLong,
		Language:      r.Language,
		LanguageCodes: r.LanguageCodes,
		Tags:          r.Tags,
		Codec:         r.Codec,
		Bitrate:       r.Bitrate,
		Streams:       streams,
		SourceRecords: g,
	}
	if r.Votes != nil {
		m.Votes = *r.Votes
	}
	if r.HLS != nil {
		m.HLS = *r.HLS
	}
	return m
}

// Placeholder is the result for an empty group. It is flagged so the job
// can count it and keep it away from the publisher.
func Placeholder() station.Merged {
	return station.Merged{
		Name:        UnknownName,
		Streams:     []station.StreamCandidate{},
		Placeholder: true,
	}
}
