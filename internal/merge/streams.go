// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package merge

import (
	"sort"
	"strings"

	"github.com/wavefunc/stationmerge/internal/station"
)

// Codec bonuses added to the bitrate when ranking streams.
const (
	AACBonus = 1000
	MP3Bonus = 500
)

// CollectStreams returns one candidate per distinct stream URL, in order of
// first appearance. A URL seen again with a higher bitrate takes that
// record's codec and bitrate.
func CollectStreams(g station.Group) []station.StreamCandidate {
	pos := make(map[string]int)
	var streams []station.StreamCandidate
	for i := range g {
		r := &g[i]
		url := strings.TrimSpace(r.StreamURL())
		if url == "" {
			continue
		}
		c := station.StreamCandidate{
			URL:         url,
			Codec:       r.Codec,
			BitrateKbps: max(r.Bitrate, 0),
			Source:      r,
		}
		at, ok := pos[url]
		if !ok {
			pos[url] = len(streams)
			streams = append(streams, c)
			continue
		}
		if c.BitrateKbps > streams[at].BitrateKbps {
			streams[at] = c
		}
	}
	return streams
}

// Score is bitrate plus a codec bonus (AAC over MP3 over anything else).
func Score(codec string, bitrateKbps int) int {
	c := strings.ToLower(codec)
	switch {
	case strings.Contains(c, "aac"):
		return bitrateKbps + AACBonus
	case strings.Contains(c, "mp3"):
		return bitrateKbps + MP3Bonus
	}
	return bitrateKbps
}

// Rank scores streams, orders them best first (stable), and flags exactly
// one primary.
func Rank(streams []station.StreamCandidate) {
	for i := range streams {
		streams[i].Score = Score(streams[i].Codec, streams[i].BitrateKbps)
		streams[i].Primary = false
	}
	sort.SliceStable(streams, func(i, j int) bool {
		return streams[i].Score > streams[j].Score
	})
	if len(streams) > 0 {
		streams[0].Primary = true
	}
}
