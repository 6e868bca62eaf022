// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package source

import (
	"strings"

	"github.com/wavefunc/stationmerge/internal/station"
)

// Identifiers are double-quoted so the same statements run on SQLite and
// Postgres against the legacy mixed-case schema.
const stationColumns = `"StationID", "Name", "Url", "Homepage", "Favicon",
	"Country", "Subcountry", "CountryCode", "Language", "LanguageCodes", "Tags",
	"Votes", "Codec", "Bitrate", "UrlCache", "Hls", "GeoLat", "GeoLong",
	"ServerUuid", "StationUuid", "LastChangeTime", "LastChangeTimeISO8601"`

const selectStationsSQL = `SELECT ` + stationColumns + ` FROM "Station" ORDER BY "StationID"`

// Postgres stores the change times as timestamps; casting keeps the scan
// targets identical to SQLite.
var selectStationsPostgresSQL = strings.NewReplacer(
	`"LastChangeTime", "LastChangeTimeISO8601"`,
	`"LastChangeTime"::text, "LastChangeTimeISO8601"::text`,
).Replace(selectStationsSQL)

const selectDescriptionsSQL = `SELECT "StationUuid", "Description"
	FROM "StationCheckHistory"
	WHERE "Description" IS NOT NULL AND "Description" <> ''
	ORDER BY "CheckID"`

const selectStreamingServersSQL = `SELECT "Uuid", "Url" FROM "StreamingServers"
	WHERE "Url" IS NOT NULL AND "Url" <> ''`

// rowScanner is satisfied by *sql.Rows and pgx.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanStation(rs rowScanner) (station.Record, error) {
	var id int64
	var name, url, homepage, favicon, country, subcountry, countryCode *string
	var language, languageCodes, tags, codec, urlCache *string
	var serverUUID, stationUUID, lastChange, lastChangeISO *string
	var votes, bitrate, hls *int64
	var geoLat, geoLong *float64
	if err := rs.Scan(
		&id, &name, &url, &homepage, &favicon,
		&country, &subcountry, &countryCode, &language, &languageCodes, &tags,
		&votes, &codec, &bitrate, &urlCache, &hls, &geoLat, &geoLong,
		&serverUUID, &stationUUID, &lastChange, &lastChangeISO,
	); err != nil {
		return station.Record{}, err
	}

	r := station.Record{
		StationID:             id,
		StationUUID:           str(stationUUID),
		Name:                  str(name),
		URL:                   str(url),
		Homepage:              str(homepage),
		Favicon:               str(favicon),
		Country:               str(country),
		Subcountry:            str(subcountry),
		CountryCode:           str(countryCode),
		Language:              str(language),
		LanguageCodes:         str(languageCodes),
		Tags:                  str(tags),
		Votes:                 intPtr(votes),
		Codec:                 str(codec),
		URLCache:              str(urlCache),
		HLS:                   intPtr(hls),
		GeoLat:                geoLat,
		GeoLong:               geoLong,
		ServerUUID:            str(serverUUID),
		LastChangeTime:        str(lastChange),
		LastChangeTimeISO8601: str(lastChangeISO),
	}
	if bitrate != nil && *bitrate > 0 {
		r.Bitrate = int(*bitrate)
	}
	return r, nil
}

func str(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

func intPtr(p *int64) *int {
	if p == nil {
		return nil
	}
	return station.IntPtr(int(*p))
}

type pair struct{ key, value string }

func collectLookup(pairs []pair) map[string]string {
	m := make(map[string]string, len(pairs))
	for _, p := range pairs {
		if p.key == "" || p.value == "" {
			continue
		}
		// later rows win
		m[p.key] = p.value
	}
	return m
}
