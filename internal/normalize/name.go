// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package normalize

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

// Trailing annotations removed from display names, applied in this order.
// Each pattern is anchored at the end of the string and applied once.
var (
	dashParenSuffix = regexp.MustCompile(`\s*[-–]\s*\([^)]*\)\s*$`)
	parenSuffix     = regexp.MustCompile(`\s*\([^)]*\)\s*$`)
	bracketSuffix   = regexp.MustCompile(`\s*\[[^\]]*\]\s*$`)
	inlineQuality   = regexp.MustCompile(`(?i)\s+\d+k(bps|b)?\s*(mp3|aac|ogg|flac)?\+?\s*$`)
)

// DisplayName strips quality and format annotations from a station name.
//
//	"SomaFM Drone Zone - (128 mp3)" → "somafm drone zone"
//	"Radio X [MP3]"                 → "radio x"
//	"Radio X 128kbps AAC+"          → "radio x"
//	"Radio X - High Quality"        → "radio x - high quality"
func DisplayName(name string) string {
	s := strings.ToLower(name)
	s = dashParenSuffix.ReplaceAllString(s, "")
	s = parenSuffix.ReplaceAllString(s, "")
	s = bracketSuffix.ReplaceAllString(s, "")
	s = inlineQuality.ReplaceAllString(s, "")
	return strings.Join(strings.Fields(s), " ")
}

// ForGrouping returns the coarse bucketing key for a name: diacritics folded,
// lower-cased, everything except letters and digits removed. Distinct
// stations may share a key; the URL analyzer separates them.
func ForGrouping(name string) string {
	var b strings.Builder
	b.Grow(len(name))
	for _, r := range norm.NFD.String(name) {
		if unicode.Is(unicode.Mn, r) {
			continue
		}
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(unicode.ToLower(r))
		}
	}
	return b.String()
}

// CleanDisplayName re-title-cases DisplayName(name) word by word. Words that
// appeared in the original name as short all-caps acronyms ("BBC", "FM")
// keep their original spelling.
func CleanDisplayName(name string) string {
	normalized := DisplayName(name)
	if normalized == "" {
		return ""
	}
	original := strings.Fields(name)
	words := strings.Split(normalized, " ")
	for i, w := range words {
		if orig, ok := originalWord(original, w); ok && isAcronym(orig) {
			words[i] = orig
			continue
		}
		words[i] = titleWord(w)
	}
	return strings.Join(words, " ")
}

func originalWord(original []string, word string) (string, bool) {
	for _, o := range original {
		if strings.ToLower(o) == word {
			return o, true
		}
	}
	return "", false
}

func isAcronym(w string) bool {
	return utf8.RuneCountInString(w) <= 3 && w == strings.ToUpper(w)
}

func titleWord(w string) string {
	r, size := utf8.DecodeRuneInString(w)
	if r == utf8.RuneError {
		return w
	}
	return string(unicode.ToUpper(r)) + w[size:]
}
