// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

// Package urlpattern decides whether two stream URLs plausibly belong to the
// same broadcast. All functions are total: malformed input never panics and
// never produces an error, it only makes URLs look unrelated.
package urlpattern

import (
	"net/url"
	"regexp"
	"strings"
)

// Analyzer applies a compiled Table.
type Analyzer struct {
	table          Table
	extSuffix      *regexp.Regexp
	qualityPorts   []*regexp.Regexp
	qualityTokens  []*regexp.Regexp
	streamPrefixes map[string]struct{}
	idPrefixes     map[string]struct{}
}

var alnumOnly = regexp.MustCompile(`(?i)^[a-z0-9]+$`)

var defaultAnalyzer = New(DefaultTable)

// Default returns the analyzer built from DefaultTable.
func Default() *Analyzer {
	return defaultAnalyzer
}

// New compiles a Table. Invalid patterns panic, as with regexp.MustCompile;
// tables are program constants or validated config.
func New(t Table) *Analyzer {
	a := &Analyzer{
		table:          t,
		streamPrefixes: toSet(t.StreamPrefixes),
		idPrefixes:     toSet(t.IdentifierPrefixes),
	}
	if len(t.Extensions) > 0 {
		quoted := make([]string, len(t.Extensions))
		for i, e := range t.Extensions {
			quoted[i] = regexp.QuoteMeta(strings.TrimPrefix(e, "."))
		}
		a.extSuffix = regexp.MustCompile(`(?i)\.(` + strings.Join(quoted, "|") + `)$`)
	}
	for _, p := range t.QualityPorts {
		a.qualityPorts = append(a.qualityPorts, regexp.MustCompile(p))
	}
	for _, p := range t.QualityTokens {
		a.qualityTokens = append(a.qualityTokens, regexp.MustCompile(p))
	}
	return a
}

// Table returns the vocabulary the analyzer was built from.
func (a *Analyzer) Table() Table {
	return a.table
}

type parsedURL struct {
	host string
	port string
	path string
}

func (p parsedURL) hostPort() string {
	if p.port == "" {
		return p.host
	}
	return p.host + ":" + p.port
}

// parse accepts scheme-less input, lower-cases the host and drops default
// ports so "HTTP://Host:80/a" and "host/a" compare equal.
func parse(raw string) (parsedURL, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return parsedURL{}, false
	}
	if !strings.Contains(s, "://") {
		s = "http://" + s
	}
	u, err := url.Parse(s)
	if err != nil {
		return parsedURL{}, false
	}
	host := strings.ToLower(u.Hostname())
	if host == "" {
		return parsedURL{}, false
	}
	scheme := strings.ToLower(u.Scheme)
	port := u.Port()
	if (scheme == "http" && port == "80") || (scheme == "https" && port == "443") {
		port = ""
	}
	path := u.EscapedPath()
	if path == "" {
		path = "/"
	}
	return parsedURL{host: host, port: port, path: path}, true
}

func segments(path string) []string {
	parts := strings.Split(path, "/")
	out := parts[:0]
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func (a *Analyzer) stripExtension(s string) string {
	if a.extSuffix == nil {
		return s
	}
	return a.extSuffix.ReplaceAllString(s, "")
}

// Pattern extracts the structural signature of a stream URL:
//
//	http://h:8000/live/jazz/hi  → h:8000/live/jazz
//	http://h/jazz/high.aac      → h/jazz/high
//	http://h/jazz/high          → h/jazz/high
//	http://h                    → h
//
// Unparsable input is returned unchanged.
func (a *Analyzer) Pattern(raw string) string {
	p, ok := parse(raw)
	if !ok {
		return raw
	}
	base := p.hostPort()
	segs := segments(p.path)
	if len(segs) == 0 {
		return base
	}

	if len(segs) >= 2 && a.isStreamPrefix(segs[0]) {
		return base + "/" + segs[0] + "/" + segs[1]
	}

	last := segs[len(segs)-1]
	if dot := strings.Index(last, "."); dot >= 0 {
		prefix := ""
		if len(segs) > 1 {
			prefix = "/" + strings.Join(segs[:len(segs)-1], "/")
		}
		return base + prefix + "/" + last[:dot]
	}

	return a.stripExtension(base + "/" + strings.Join(segs, "/"))
}

// Related reports whether two stream URLs are quality or format variants of
// the same broadcast. It is symmetric and fails toward false.
func (a *Analyzer) Related(urlA, urlB string) bool {
	pa, okA := parse(urlA)
	pb, okB := parse(urlB)
	if !okA || !okB {
		return false
	}

	// Sibling hosts of one root domain only count with byte-identical paths.
	if pa.host != pb.host {
		return rootDomain(pa.host) == rootDomain(pb.host) && pa.path == pb.path
	}

	if pa.port != pb.port && pa.port != "" && pb.port != "" {
		if !a.qualityPortPair(pa.port, pb.port) || pa.path != pb.path {
			return false
		}
	}

	if pa.path == pb.path {
		return true
	}

	cleanA := a.stripExtension(pa.path)
	cleanB := a.stripExtension(pb.path)
	if cleanA == cleanB {
		return true
	}

	segsA := segments(cleanA)
	segsB := segments(cleanB)
	if len(segsA) != len(segsB) {
		return false
	}

	differing, quality := 0, 0
	for i := range segsA {
		sa, sb := segsA[i], segsB[i]
		if sa == sb {
			continue
		}
		differing++

		if a.isIdentifier(sa) || a.isIdentifier(sb) {
			return false
		}
		if i == 1 && (a.isIDPrefix(segsA[0]) || a.isIDPrefix(segsB[0])) {
			return false
		}
		if a.isQualityToken(sa) || a.isQualityToken(sb) {
			quality++
		}
	}

	return differing > 0 && differing == quality
}

func (a *Analyzer) qualityPortPair(portA, portB string) bool {
	for _, re := range a.qualityPorts {
		if re.MatchString(portA) && re.MatchString(portB) {
			return true
		}
	}
	return false
}

func (a *Analyzer) isIdentifier(seg string) bool {
	return len(seg) > a.table.IdentifierMinLen && alnumOnly.MatchString(seg)
}

func (a *Analyzer) isQualityToken(seg string) bool {
	for _, re := range a.qualityTokens {
		if re.MatchString(seg) {
			return true
		}
	}
	return false
}

func (a *Analyzer) isStreamPrefix(seg string) bool {
	_, ok := a.streamPrefixes[strings.ToLower(seg)]
	return ok
}

func (a *Analyzer) isIDPrefix(seg string) bool {
	_, ok := a.idPrefixes[strings.ToLower(seg)]
	return ok
}

// rootDomain keeps the last two labels: "a.b.example.com" → "example.com".
func rootDomain(host string) string {
	labels := strings.Split(host, ".")
	if len(labels) <= 2 {
		return host
	}
	return strings.Join(labels[len(labels)-2:], ".")
}

func toSet(items []string) map[string]struct{} {
	set := make(map[string]struct{}, len(items))
	for _, it := range items {
		set[strings.ToLower(it)] = struct{}{}
	}
	return set
}

// Pattern is Default().Pattern.
func Pattern(raw string) string {
	return defaultAnalyzer.Pattern(raw)
}

// Related is Default().Related.
func Related(urlA, urlB string) bool {
	return defaultAnalyzer.Related(urlA, urlB)
}
