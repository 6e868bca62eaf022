// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package store

// Row is one published station as written to the export file and the
// output database.
type Row struct {
	StationID   int64    `json:"stationId"`
	StationUUID string   `json:"stationUuid"`
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

	Votes   int    `json:"votes"`
	HLS     int    `json:"hlsFlag"`
	Codec   string `json:"codec,omitempty"`
	Bitrate int    `json:"bitrate"`

	Description        string `json:"description,omitempty"`
	StreamingServerURL string `json:"streamingServerUrl,omitempty"`

	Streams []StreamRow `json:"streams"`
	Sources []SourceRef `json:"sources"`
}

// StreamRow is one ranked stream of a station.
type StreamRow struct {
	URL     string `json:"url"`
	Codec   string `json:"codec,omitempty"`
	Bitrate int    `json:"bitrate"`
	Primary bool   `json:"primary"`
	Format  string `json:"format"`
	Pattern string `json:"urlPattern"`
}

// SourceRef points back to a legacy record merged into the station.
type SourceRef struct {
	StationID   int64  `json:"stationId"`
	StationUUID string `json:"stationUuid"`
}
