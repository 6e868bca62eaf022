// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package grouping

import (
	"fmt"
	"sort"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/wavefunc/stationmerge/internal/normalize"
	"github.com/wavefunc/stationmerge/internal/station"
	"github.com/wavefunc/stationmerge/internal/urlpattern"
)

func rec(id int64, name, url, cc string) station.Record {
	return station.Record{
		StationID:   id,
		StationUUID: fmt.Sprintf("uuid-%d", id),
		Name:        name,
		URL:         url,
		CountryCode: cc,
	}
}

func uuids(g station.Group) []string {
	out := make([]string, len(g))
	for i, r := range g {
		out[i] = r.StationUUID
	}
	return out
}

// fixture mixes exact duplicates, quality variants, name collisions with
// unrelated URLs, country conflicts and records without URLs.
func fixture() []station.Record {
	return []station.Record{
		rec(1, "FIP Rock", "http://icecast.radiofrance.fr/fiprock-midfi.mp3", "FR"),
		rec(2, "Jazz FM", "http://ice.jazzfm.example/jazz_high", "GB"),
		rec(3, "fip rock", "http://icecast.radiofrance.fr/fiprock-midfi.aac", "FR"),
		rec(4, "Radio X", "http://stream.example.com/radio/x", "US"),
		rec(5, "FIP ROCK (AAC)", "http://icecast.radiofrance.fr/fiprock-midfi.mp3", "FR"),
		rec(6, "Jazz FM", "http://ice.jazzfm.example/jazz_low", "GB"),
		rec(7, "Radio X!", "http://stream.example.com/radio/y", "US"),
		rec(8, "Jazz FM", "http://ice.jazzfm.example/jazz_high", "US"),
		rec(9, "Lonely Station", "http://lonely.example.org/live", ""),
		rec(10, "Radio X", "", "US"),
		rec(11, "jazz fm", "http://ice.jazzfm.example/jazz_high", ""),
	}
}

func TestGroup_PartitionProperty(t *testing.T) {
	records := fixture()
	groups := New(urlpattern.Default(), 1).Group(records)

	seen := map[string]int{}
	for _, g := range groups {
		require.NotEmpty(t, g)
		for _, r := range g {
			seen[r.StationUUID]++
		}
	}
	require.Len(t, seen, len(records))
	for id, n := range seen {
		assert.Equal(t, 1, n, "record %s appears %d times", id, n)
	}
}

func TestGroup_PartitionWithDuplicateUUIDs(t *testing.T) {
	records := []station.Record{
		{StationID: 1, StationUUID: "same", Name: "A", URL: "http://a/x"},
		{StationID: 2, StationUUID: "same", Name: "A", URL: "http://b/y"},
		{StationID: 3, StationUUID: "same", Name: "B", URL: "http://c/z"},
	}
	groups := New(nil, 1).Group(records)

	total := 0
	for _, g := range groups {
		total += len(g)
	}
	assert.Equal(t, len(records), total)
}

func TestGroup_FIPRockScenario(t *testing.T) {
	groups := New(urlpattern.Default(), 1).Group(fixture())

	var fip []station.Group
	for _, g := range groups {
		if Key(g[0].Name) == "fiprock" {
			fip = append(fip, g)
		}
	}
	require.Len(t, fip, 1)
	assert.Equal(t, []string{"uuid-1", "uuid-3", "uuid-5"}, uuids(fip[0]))
}

func TestGroup_Expected(t *testing.T) {
	groups := New(urlpattern.Default(), 1).Group(fixture())

	got := make([][]string, len(groups))
	for i, g := range groups {
		got[i] = uuids(g)
	}
	want := [][]string{
		{"uuid-1", "uuid-3", "uuid-5"},
		// jazz_high/jazz_low variants join; the US record conflicts with GB
		{"uuid-2", "uuid-6", "uuid-11"},
		{"uuid-8"},
		// radio/<id> means different stations; no URL never joins
		{"uuid-4"},
		{"uuid-7"},
		{"uuid-10"},
		{"uuid-9"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("groups mismatch (-want +got):\n%s", diff)
	}
}

func TestGroup_CountryCodesNeverConflict(t *testing.T) {
	records := []station.Record{
		rec(1, "Radio One", "http://one.example/live", ""),
		rec(2, "Radio One", "http://one.example/live", "fr"),
		rec(3, "Radio One", "http://one.example/live", "DE"),
		rec(4, "Radio One", "http://one.example/live", "FR "),
	}
	groups := New(urlpattern.Default(), 1).Group(records)

	for _, g := range groups {
		codes := map[string]struct{}{}
		for _, r := range g {
			if cc := normalize.Token(r.CountryCode); cc != "" {
				codes[cc] = struct{}{}
			}
		}
		assert.LessOrEqual(t, len(codes), 1, "group %v mixes country codes", uuids(g))
	}
	require.Len(t, groups, 2)
	assert.Equal(t, []string{"uuid-1", "uuid-2", "uuid-4"}, uuids(groups[0]))
	assert.Equal(t, []string{"uuid-3"}, uuids(groups[1]))
}

func TestGroup_SeedIsEarliestUnprocessed(t *testing.T) {
	records := []station.Record{
		rec(1, "Radio", "http://r.example/jazz", ""),
		rec(2, "Radio", "http://r.example/rock", ""),
		rec(3, "Radio", "http://r.example/rock.aac", ""),
		rec(4, "Radio", "http://r.example/jazz.mp3", ""),
	}
	groups := New(nil, 1).Group(records)

	require.Len(t, groups, 2)
	assert.Equal(t, []string{"uuid-1", "uuid-4"}, uuids(groups[0]))
	assert.Equal(t, []string{"uuid-2", "uuid-3"}, uuids(groups[1]))
}

type countingRelater struct {
	calls map[[2]string]int
}

func (c *countingRelater) Related(a, b string) bool {
	c.calls[[2]string{a, b}]++
	return a == b
}

func TestGroup_EvaluatesEachURLOncePerSeed(t *testing.T) {
	rel := &countingRelater{calls: map[[2]string]int{}}
	records := []station.Record{
		rec(1, "Radio", "http://r/a", "FR"),
		rec(2, "Radio", "http://r/b", ""),
		rec(3, "Radio", "http://r/b", ""),
		rec(4, "Radio", "http://r/a", "DE"),
		rec(5, "Radio", "http://r/a", "DE"),
	}
	groups := New(rel, 1).Group(records)

	// seed 1 sees "a" and "b" once each; seed 4 asks about "a" again
	assert.Equal(t, 1, rel.calls[[2]string{"http://r/a", "http://r/b"}])
	assert.Equal(t, 2, rel.calls[[2]string{"http://r/a", "http://r/a"}])
	assert.Equal(t, 1, rel.calls[[2]string{"http://r/b", "http://r/b"}])
	require.Len(t, groups, 3)
	assert.Equal(t, []string{"uuid-1"}, uuids(groups[0]))
	assert.Equal(t, []string{"uuid-2", "uuid-3"}, uuids(groups[1]))
	assert.Equal(t, []string{"uuid-4", "uuid-5"}, uuids(groups[2]))
}

func TestGroup_ParallelMatchesSequential(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	var records []station.Record
	for i := 0; i < 400; i++ {
		name := fmt.Sprintf("Station %d", i%37)
		url := fmt.Sprintf("http://s%d.example.net/live/%d", i%5, i%3)
		cc := []string{"", "FR", "DE"}[i%3]
		records = append(records, rec(int64(i), name, url, cc))
	}

	seq := New(urlpattern.Default(), 1).Partition(records)
	par := New(urlpattern.Default(), 8).Partition(records)

	if diff := cmp.Diff(seq, par); diff != "" {
		t.Fatalf("parallel result differs (-seq +par):\n%s", diff)
	}
	assert.Equal(t, 37, seq.Buckets)
}

func TestBuckets_FirstAppearanceOrder(t *testing.T) {
	records := []station.Record{
		rec(1, "B", "", ""),
		rec(2, "A", "", ""),
		rec(3, "b!", "", ""),
	}
	got := Buckets(records)
	require.Len(t, got, 2)
	assert.Equal(t, "b", got[0].Key)
	assert.Equal(t, []int{0, 2}, got[0].Indices)
	assert.Equal(t, "a", got[1].Key)
}

func TestBuckets_AnnotatedNamesShareKey(t *testing.T) {
	records := []station.Record{
		rec(1, "FIP Rock", "", "FR"),
		rec(2, "FIP ROCK (AAC)", "", "FR"),
		rec(3, "fip rock [MP3]", "", "FR"),
		rec(4, "Fip Rock 128kbps", "", "FR"),
		rec(5, "Radio X!", "", ""),
		rec(6, "radio x", "", ""),
		rec(7, "FIP Rock - Live", "", "FR"),
	}
	got := Buckets(records)
	require.Len(t, got, 3)
	assert.Equal(t, "fiprock", got[0].Key)
	assert.Equal(t, []int{0, 1, 2, 3}, got[0].Indices)
	assert.Equal(t, "radiox", got[1].Key)
	assert.Equal(t, []int{4, 5}, got[1].Indices)
	assert.Equal(t, "fiprocklive", got[2].Key, "descriptive suffixes stay in the key")
}

func TestKey(t *testing.T) {
	assert.Equal(t, Key("FIP Rock"), Key("FIP ROCK (AAC)"))
	assert.Equal(t, "radiox", Key("Radio X – (AAC 64k)"))
	assert.Equal(t, "station12", Key("Station 12"), "bare numbers are part of the name")
	assert.Empty(t, Key(""))
}

func TestPartition_Stats(t *testing.T) {
	res := New(nil, 1).Partition(fixture())
	assert.Equal(t, 4, res.Buckets)
	assert.Equal(t, 4, res.LargestBucket)

	sizes := make([]int, 0, len(res.Groups))
	for _, g := range res.Groups {
		sizes = append(sizes, len(g))
	}
	sort.Ints(sizes)
	assert.Equal(t, []int{1, 1, 1, 1, 1, 3, 3}, sizes)
}

func TestGroup_Empty(t *testing.T) {
	assert.Empty(t, New(nil, 4).Group(nil))
}
