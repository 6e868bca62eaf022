// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package merge

import (
	"strings"

	"github.com/wavefunc/stationmerge/internal/normalize"
	"github.com/wavefunc/stationmerge/internal/station"
)

// MostRecent resolves a scalar field: among records where get reports a
// value, the one with the latest Timestamp wins. Ties (including records
// without any timestamp) go to the earlier record in group order.
func MostRecent[T any](g station.Group, get func(station.Record) (T, bool)) (T, bool) {
	var (
		best  T
		found bool
		bestI int
	)
	for i, r := range g {
		v, ok := get(r)
		if !ok {
			continue
		}
		if !found {
			best, bestI, found = v, i, true
			continue
		}
		if Timestamp(r).After(Timestamp(g[bestI])) {
			best, bestI = v, i
		}
	}
	return best, found
}

// MostRecentString is MostRecent for string fields; empty means absent.
func MostRecentString(g station.Group, get func(station.Record) string) string {
	v, _ := MostRecent(g, func(r station.Record) (string, bool) {
		s := get(r)
		return s, strings.TrimSpace(s) != ""
	})
	return v
}

// MostRecentFloat is MostRecent for optional floats; nil and NaN are absent.
func MostRecentFloat(g station.Group, get func(station.Record) *float64) *float64 {
	v, ok := MostRecent(g, func(r station.Record) (*float64, bool) {
		f := get(r)
		return f, station.ValidFloat(f)
	})
	if !ok {
		return nil
	}
	out := *v
	return &out
}

// Union merges comma-joined list fields: items are trimmed and lower-cased,
// duplicates dropped, first-seen order kept. No items yields "".
func Union(g station.Group, get func(station.Record) string) string {
	seen := make(map[string]struct{})
	var items []string
	for _, r := range g {
		for _, item := range normalize.SplitList(get(r)) {
			if _, dup := seen[item]; dup {
				continue
			}
			seen[item] = struct{}{}
			items = append(items, item)
		}
	}
	return strings.Join(items, ",")
}

// Max takes the maximum over records that carry a value; all absent yields 0.
func Max(g station.Group, get func(station.Record) *int) int {
	best, found := 0, false
	for _, r := range g {
		v := get(r)
		if v == nil {
			continue
		}
		if !found || *v > best {
			best, found = *v, true
		}
	}
	return best
}
