// SPDX-License-Identifier: MIT

package jobs

import (
	"strings"

	"github.com/wavefunc/stationmerge/internal/source"
	"github.com/wavefunc/stationmerge/internal/station"
	"github.com/wavefunc/stationmerge/internal/store"
	"github.com/wavefunc/stationmerge/internal/urlpattern"
)

// buildRow turns a merged station into its published form, attaching the
// lookup tables and per-stream format and URL pattern.
func buildRow(m station.Merged, lookups source.Lookups, a *urlpattern.Analyzer) store.Row {
	row := store.Row{
		StationID:          m.StationID,
		StationUUID:        m.StationUUID,
		Name:               m.Name,
		URL:                m.URL,
		Homepage:           m.Homepage,
		Favicon:            m.Favicon,
		Country:            m.Country,
		Subcountry:         m.Subcountry,
		CountryCode:        m.CountryCode,
		ServerUUID:         m.ServerUUID,
		GeoLat:             m.GeoLat,
		GeoLong:            m.GeoLong,
		Language:           m.Language,
		LanguageCodes:      m.LanguageCodes,
		Tags:               m.Tags,
		Votes:              m.Votes,
		HLS:                m.HLS,
		Codec:              m.Codec,
		Bitrate:            m.Bitrate,
		Description:        description(m, lookups),
		StreamingServerURL: lookups.StreamingServers[m.ServerUUID],
		Streams:            make([]store.StreamRow, 0, len(m.Streams)),
		Sources:            make([]store.SourceRef, 0, len(m.SourceRecords)),
	}

	for _, s := range m.Streams {
		hls := false
		if s.Source != nil && s.Source.HLS != nil {
			hls = *s.Source.HLS == 1
		}
		row.Streams = append(row.Streams, store.StreamRow{
			URL:     s.URL,
			Codec:   s.Codec,
			Bitrate: s.BitrateKbps,
			Primary: s.Primary,
			Format:  station.StreamFormat(s.Codec, hls),
			Pattern: a.Pattern(s.URL),
		})
	}
	for _, r := range m.SourceRecords {
		row.Sources = append(row.Sources, store.SourceRef{StationID: r.StationID, StationUUID: r.StationUUID})
	}
	return row
}

// description prefers the check-history text of any merged record (the
// anchor first), then the tags, then "<name> - <country>".
func description(m station.Merged, lookups source.Lookups) string {
	if d := lookups.Descriptions[m.StationUUID]; d != "" {
		return d
	}
	for _, r := range m.SourceRecords {
		if d := lookups.Descriptions[r.StationUUID]; d != "" {
			return d
		}
	}
	if m.Tags != "" {
		return m.Tags
	}
	country := m.Country
	if strings.TrimSpace(country) == "" {
		country = "Unknown"
	}
	return m.Name + " - " + country
}
