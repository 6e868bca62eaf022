// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package migration

import (
	"fmt"
	"strconv"

	"github.com/zeebo/xxh3"

	"github.com/wavefunc/stationmerge/internal/station"
)

// CalculateChecksum fingerprints an input batch. Any change to a field the
// merge reads, or to record order, changes the checksum.
func CalculateChecksum(records []station.Record) string {
	h := xxh3.New()
	var buf []byte
	for _, r := range records {
		buf = buf[:0]
		buf = strconv.AppendInt(buf, r.StationID, 10)
		buf = appendField(buf, r.StationUUID, r.Name, r.URL, r.URLCache, r.Homepage, r.Favicon,
			r.Country, r.Subcountry, r.CountryCode, r.Language, r.LanguageCodes, r.Tags,
			r.Codec, r.ServerUUID, r.LastChangeTime, r.LastChangeTimeISO8601)
		buf = strconv.AppendInt(buf, int64(r.Bitrate), 10)
		buf = appendOptInt(buf, r.Votes)
		buf = appendOptInt(buf, r.HLS)
		buf = appendOptFloat(buf, r.GeoLat)
		buf = appendOptFloat(buf, r.GeoLong)
		buf = append(buf, '\n')
		_, _ = h.Write(buf)
	}
	return fmt.Sprintf("xxh3:%016x", h.Sum64())
}

func appendField(buf []byte, fields ...string) []byte {
	for _, f := range fields {
		buf = append(buf, 0)
		buf = append(buf, f...)
	}
	return append(buf, 0)
}

func appendOptInt(buf []byte, v *int) []byte {
	if v == nil {
		return append(buf, '-', 0)
	}
	return append(strconv.AppendInt(buf, int64(*v), 10), 0)
}

func appendOptFloat(buf []byte, v *float64) []byte {
	if v == nil {
		return append(buf, '-', 0)
	}
	return append(strconv.AppendFloat(buf, *v, 'g', -1, 64), 0)
}

// RunFingerprint combines an input checksum with the run parameters that
// change what gets written (export limit, URL heuristics). It is what
// migration_history records, so the same input merged with other
// parameters is not treated as already migrated.
func RunFingerprint(inputChecksum string, params ...string) string {
	h := xxh3.New()
	buf := appendField(nil, inputChecksum)
	buf = appendField(buf, params...)
	_, _ = h.Write(buf)
	return fmt.Sprintf("xxh3:%016x", h.Sum64())
}
