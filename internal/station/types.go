// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

// Package station holds the record types shared by the grouping and merge
// stages. Records are read once and never mutated; merged stations are built
// by copying and overriding fields.
package station

import "math"

// Record is one row of the legacy station table.
type Record struct {
	StationID   int64  `json:"stationId"`
	StationUUID string `json:"stationUuid"`

	Name          string   `json:"name,omitempty"`
	URL           string   `json:"url,omitempty"`
	Homepage      string   `json:"homepage,omitempty"`
	Favicon       string   `json:"favicon,omitempty"`
	Country       string   `json:"country,omitempty"`
	Subcountry    string   `json:"subcountry,omitempty"`
	CountryCode   string   `json:"countryCode,omitempty"`
	Language      string   `json:"language,omitempty"`
	LanguageCodes string   `json:"languageCodes,omitempty"`
	Tags          string   `json:"tags,omitempty"`
	Votes         *int     `json:"votes,omitempty"`
	Codec         string   `json:"codec,omitempty"`
	Bitrate       int      `json:"bitrate,omitempty"`
	URLCache      string   `json:"urlCache,omitempty"`
	HLS           *int     `json:"hlsFlag,omitempty"`
	GeoLat        *float64 `json:"geoLat,omitempty"`
	GeoLong       *float64 `json:"geoLong,omitempty"`
	ServerUUID    string   `json:"serverUuid,omitempty"`

	LastChangeTime        string `json:"lastChangeTime,omitempty"`
	LastChangeTimeISO8601 string `json:"lastChangeTimeIso8601,omitempty"`
}

// StreamURL returns the URL a listener would actually play: the cached
// (resolved) URL when present, the primary URL otherwise.
func (r Record) StreamURL() string {
	if r.URLCache != "" {
		return r.URLCache
	}
	return r.URL
}

// StreamCandidate is one distinct stream URL observed within a group.
type StreamCandidate struct {
	URL         string `json:"url"`
	Codec       string `json:"codec,omitempty"`
	BitrateKbps int    `json:"bitrate"`
	Primary     bool   `json:"primary"`
	Score       int    `json:"-"`

	// Source is the record the stream was taken from.
	Source *Record `json:"-"`
}

// Group is an equivalence class of records believed to describe the same
// real station. Groups produced by the grouping engine are never empty.
type Group []Record

// Merged is the canonical description of one group.
type Merged struct {
	StationID   int64  `json:"stationId"`
	StationUUID string `json:"stationUuid"`

	Name        string   `json:"name"`
	URL         string   `json:"url,omitempty"`
	Homepage    string   `json:"homepage,omitempty"`
	Favicon     string   `json:"favicon,omitempty"`
	Country     string   `json:"country,omitempty"`
	Subcountry  string   `json:"subcountry,omitempty"`
	CountryCode string   `json:"countryCode,omitempty"`
	ServerUUID  string   `json:"serverUuid,omitempty"`
	GeoLat      *float64 `json:"geoLat,omitempty"`
	GeoLong     *float64 `json:"geoLong,omitempty"`

	Language      string `json:"language,omitempty"`
	LanguageCodes string `json:"languageCodes,omitempty"`
	Tags          string `json:"tags,omitempty"`

	Votes int `json:"votes"`
	HLS   int `json:"hlsFlag"`

	// Codec and Bitrate mirror the primary stream for single-stream consumers.
	Codec   string `json:"codec,omitempty"`
	Bitrate int    `json:"bitrate"`

	// Streams is ordered by descending quality; index 0 is the primary.
	Streams       []StreamCandidate `json:"streams"`
	SourceRecords []Record          `json:"-"`

	// Placeholder marks the result of merging an empty group. It must never
	// be published.
	Placeholder bool `json:"-"`
}

// Primary returns the primary stream, if any.
func (m Merged) Primary() (StreamCandidate, bool) {
	if len(m.Streams) == 0 {
		return StreamCandidate{}, false
	}
	return m.Streams[0], true
}

// Publishable reports whether the merged station may be handed downstream.
func (m Merged) Publishable() bool {
	return !m.Placeholder && len(m.SourceRecords) > 0
}

// IntPtr is a small helper for optional integer fields.
func IntPtr(v int) *int { return &v }

// FloatPtr is a small helper for optional float fields.
func FloatPtr(v float64) *float64 { return &v }

// ValidFloat reports whether an optional float carries a usable value.
func ValidFloat(v *float64) bool {
	return v != nil && !math.IsNaN(*v)
}
