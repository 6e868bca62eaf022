// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package urlpattern

// Table is the heuristic vocabulary the analyzer works from. It is plain
// data so callers can inspect or override it; New compiles it.
type Table struct {
	// Extensions are audio/playlist file extensions (no dot) stripped before
	// paths are compared.
	Extensions []string
	// StreamPrefixes are first path segments that introduce a station
	// identifier in the second segment ("/live/<id>").
	StreamPrefixes []string
	// IdentifierPrefixes are first path segments after which any difference
	// in the second segment means a different station.
	IdentifierPrefixes []string
	// QualityPorts are port shapes used by broadcasters to serve bitrate
	// variants of one stream ("8000" vs "8010").
	QualityPorts []string
	// QualityTokens match path segments that only name a quality level.
	QualityTokens []string
	// IdentifierMinLen: alphanumeric segments longer than this are treated
	// as unique station identifiers.
	IdentifierMinLen int
}

// DefaultTable is the vocabulary used by Default.
var DefaultTable = Table{
	Extensions: []string{
		"mp3", "aac", "ogg", "m4a", "flac", "wav", "pls", "m3u", "m3u8", "xspf",
	},
	StreamPrefixes:     []string{"live", "stream", "streams", "radio", "audio"},
	IdentifierPrefixes: []string{"radio", "stream", "audio"},
	QualityPorts: []string{
		`^80\d{2}$`,
		`^443\d$`,
	},
	QualityTokens: []string{
		`(?i)\b(low|high|medium)\b`,
		`(?i)\b(hq|lq|hi|lo)\b`,
		`(?i)\b(\d{2,3}k)\b`,
		`(?i)\b(\d+)(kbps|k)\b`,
		`(?i)\b(mobile|desktop|web)\b`,
		`(?i)_(low|high|medium)\b`,
		`(?i)_(64|128|192|320)`,
	},
	IdentifierMinLen: 8,
}

// WithExtensions returns a copy of t using the given extension list.
func (t Table) WithExtensions(exts []string) Table {
	if len(exts) == 0 {
		return t
	}
	t.Extensions = append([]string(nil), exts...)
	return t
}
