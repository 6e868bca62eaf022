// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

// Package grouping partitions raw station records into equivalence classes.
//
// Records are first bucketed by their coarse name key; inside a bucket a
// greedy seeded clustering joins records whose stream URLs are related and
// whose country codes do not conflict. Buckets are independent and may be
// processed concurrently; within a bucket the scan is strictly input order.
package grouping

import (
	"golang.org/x/sync/errgroup"

	"github.com/wavefunc/stationmerge/internal/normalize"
	"github.com/wavefunc/stationmerge/internal/station"
	"github.com/wavefunc/stationmerge/internal/urlpattern"
)

// Relater decides whether two stream URLs belong to the same broadcast.
// *urlpattern.Analyzer implements it.
type Relater interface {
	Related(urlA, urlB string) bool
}

// Engine groups records. The zero value is usable and runs sequentially
// with the default URL analyzer.
type Engine struct {
	URLs        Relater
	Parallelism int // max concurrent buckets; <= 1 runs sequentially
}

// New returns an engine using the given relater and bucket parallelism.
func New(urls Relater, parallelism int) *Engine {
	return &Engine{URLs: urls, Parallelism: parallelism}
}

// Result is the outcome of one partitioning run.
type Result struct {
	Groups        []station.Group
	Buckets       int
	LargestBucket int
}

// Bucket is the set of records sharing one grouping key, as indices into
// the input slice in input order.
type Bucket struct {
	Key     string
	Indices []int
}

// Key is the coarse grouping key of a station name. Trailing format
// annotations ("(AAC)", "[MP3]", "128k") are stripped before folding, so
// "FIP ROCK (AAC)" buckets with "FIP Rock".
func Key(name string) string {
	return normalize.ForGrouping(normalize.DisplayName(name))
}

// Buckets performs phase A: bucketing by Key(name).
// Buckets are returned in order of first appearance.
func Buckets(records []station.Record) []Bucket {
	pos := make(map[string]int)
	var buckets []Bucket
	for i, r := range records {
		key := Key(r.Name)
		at, ok := pos[key]
		if !ok {
			at = len(buckets)
			pos[key] = at
			buckets = append(buckets, Bucket{Key: key})
		}
		buckets[at].Indices = append(buckets[at].Indices, i)
	}
	return buckets
}

// Group partitions records into groups. Every input record appears in
// exactly one group; output order is bucket order, then seed order.
func (e *Engine) Group(records []station.Record) []station.Group {
	return e.Partition(records).Groups
}

// Partition is Group plus bucket statistics.
func (e *Engine) Partition(records []station.Record) Result {
	buckets := Buckets(records)
	perBucket := make([][]station.Group, len(buckets))

	res := Result{Buckets: len(buckets)}
	for _, b := range buckets {
		if len(b.Indices) > res.LargestBucket {
			res.LargestBucket = len(b.Indices)
		}
	}

	if e.Parallelism > 1 && len(buckets) > 1 {
		var g errgroup.Group
		g.SetLimit(e.Parallelism)
		for i, b := range buckets {
			g.Go(func() error {
				perBucket[i] = e.cluster(records, b)
				return nil
			})
		}
		_ = g.Wait() // cluster never fails
	} else {
		for i, b := range buckets {
			perBucket[i] = e.cluster(records, b)
		}
	}

	total := 0
	for _, gs := range perBucket {
		total += len(gs)
	}
	res.Groups = make([]station.Group, 0, total)
	for _, gs := range perBucket {
		res.Groups = append(res.Groups, gs...)
	}
	return res
}

// cluster performs phase B on one bucket.
func (e *Engine) cluster(records []station.Record, b Bucket) []station.Group {
	if len(b.Indices) == 1 {
		return []station.Group{{records[b.Indices[0]]}}
	}

	urls := e.relater()
	processed := make([]bool, len(b.Indices))
	var groups []station.Group

	for i, seedIdx := range b.Indices {
		if processed[i] {
			continue
		}
		processed[i] = true
		seed := records[seedIdx]
		group := station.Group{seed}
		country := normalize.Token(seed.CountryCode)

		// one verdict per distinct candidate URL for this seed
		verdicts := make(map[string]bool)

		for j := i + 1; j < len(b.Indices); j++ {
			if processed[j] {
				continue
			}
			cand := records[b.Indices[j]]
			if !relatedOnce(urls, seed.URL, cand.URL, verdicts) {
				continue
			}
			candCountry := normalize.Token(cand.CountryCode)
			if country != "" && candCountry != "" && country != candCountry {
				continue
			}
			if country == "" {
				country = candCountry
			}
			processed[j] = true
			group = append(group, cand)
		}
		groups = append(groups, group)
	}
	return groups
}

func (e *Engine) relater() Relater {
	if e.URLs == nil {
		return urlpattern.Default()
	}
	return e.URLs
}

func relatedOnce(urls Relater, seedURL, candURL string, verdicts map[string]bool) bool {
	if seedURL == "" || candURL == "" {
		return false
	}
	if v, ok := verdicts[candURL]; ok {
		return v
	}
	v := urls.Related(seedURL, candURL)
	verdicts[candURL] = v
	return v
}
