// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package migration

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wavefunc/stationmerge/internal/persistence/sqlite"
	"github.com/wavefunc/stationmerge/internal/station"
)

func TestHistoryRoundTrip(t *testing.T) {
	ctx := context.Background()
	db, err := sqlite.Open(ctx, filepath.Join(t.TempDir(), "out.sqlite"), sqlite.DefaultConfig())
	require.NoError(t, err)
	defer db.Close()

	require.NoError(t, EnsureSchema(ctx, db))
	migrated, err := IsMigrated(ctx, db, ModuleStations, "xxh3:1")
	require.NoError(t, err)
	assert.False(t, migrated)

	rec, err := GetHistory(ctx, db, ModuleStations)
	require.NoError(t, err)
	assert.Nil(t, rec)

	first := HistoryRecord{Module: ModuleStations, SourceType: "jsonl", SourcePath: "a.jsonl", MigratedAtMs: 1, RecordCount: 10, Checksum: "xxh3:1"}
	require.NoError(t, RecordMigration(ctx, db, first))

	migrated, err = IsMigrated(ctx, db, ModuleStations, "xxh3:1")
	require.NoError(t, err)
	assert.True(t, migrated)

	migrated, err = IsMigrated(ctx, db, ModuleStations, "xxh3:2")
	require.NoError(t, err)
	assert.False(t, migrated, "a changed input is not considered migrated")

	second := first
	second.Checksum, second.RecordCount, second.MigratedAtMs = "xxh3:2", 12, 2
	require.NoError(t, RecordMigration(ctx, db, second))

	rec, err = GetHistory(ctx, db, ModuleStations)
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, second, *rec)
}

func TestIsMigrated_ReportsDatabaseErrors(t *testing.T) {
	ctx := context.Background()
	db, err := sqlite.Open(ctx, filepath.Join(t.TempDir(), "out.sqlite"), sqlite.DefaultConfig())
	require.NoError(t, err)
	defer db.Close()

	// without EnsureSchema the history table is missing
	migrated, err := IsMigrated(ctx, db, ModuleStations, "xxh3:1")
	require.Error(t, err)
	assert.False(t, migrated)
	assert.ErrorContains(t, err, "migration_history")

	require.NoError(t, db.Close())
	_, err = IsMigrated(ctx, db, ModuleStations, "xxh3:1")
	assert.Error(t, err, "closed database")
}

func TestRecordMigration_InTransaction(t *testing.T) {
	ctx := context.Background()
	db, err := sqlite.Open(ctx, filepath.Join(t.TempDir(), "out.sqlite"), sqlite.DefaultConfig())
	require.NoError(t, err)
	defer db.Close()
	require.NoError(t, EnsureSchema(ctx, db))

	rec := HistoryRecord{Module: ModuleStations, SourceType: "jsonl", SourcePath: "a.jsonl", Checksum: "xxh3:1"}

	tx, err := db.BeginTx(ctx, nil)
	require.NoError(t, err)
	require.NoError(t, RecordMigration(ctx, tx, rec))
	require.NoError(t, tx.Rollback())

	got, err := GetHistory(ctx, db, ModuleStations)
	require.NoError(t, err)
	assert.Nil(t, got, "rolled back with the transaction")

	tx, err = db.BeginTx(ctx, nil)
	require.NoError(t, err)
	require.NoError(t, RecordMigration(ctx, tx, rec))
	require.NoError(t, tx.Commit())

	got, err = GetHistory(ctx, db, ModuleStations)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "xxh3:1", got.Checksum)
}

func TestCalculateChecksum(t *testing.T) {
	base := []station.Record{
		{StationID: 1, StationUUID: "a", Name: "Radio A", URL: "http://a/live", Votes: station.IntPtr(3)},
		{StationID: 2, StationUUID: "b", Name: "Radio B", URL: "http://b/live", GeoLat: station.FloatPtr(1.5)},
	}
	sum := CalculateChecksum(base)
	assert.True(t, strings.HasPrefix(sum, "xxh3:"))
	assert.Len(t, sum, len("xxh3:")+16)
	assert.Equal(t, sum, CalculateChecksum(base), "deterministic")

	changed := append([]station.Record(nil), base...)
	changed[1].Tags = "pop"
	assert.NotEqual(t, sum, CalculateChecksum(changed))

	reordered := []station.Record{base[1], base[0]}
	assert.NotEqual(t, sum, CalculateChecksum(reordered))

	nilVotes := append([]station.Record(nil), base...)
	nilVotes[0].Votes = station.IntPtr(0)
	assert.NotEqual(t, sum, CalculateChecksum(nilVotes))

	// field boundaries are delimited
	a := []station.Record{{Name: "ab", URL: "c"}}
	b := []station.Record{{Name: "a", URL: "bc"}}
	assert.NotEqual(t, CalculateChecksum(a), CalculateChecksum(b))
}

func TestRunFingerprint(t *testing.T) {
	base := RunFingerprint("xxh3:1", "limit=0", "ext=mp3,aac")
	assert.True(t, strings.HasPrefix(base, "xxh3:"))
	assert.Equal(t, base, RunFingerprint("xxh3:1", "limit=0", "ext=mp3,aac"))
	assert.NotEqual(t, base, RunFingerprint("xxh3:2", "limit=0", "ext=mp3,aac"))
	assert.NotEqual(t, base, RunFingerprint("xxh3:1", "limit=1", "ext=mp3,aac"))
	assert.NotEqual(t, base, RunFingerprint("xxh3:1", "limit=0", "ext=mp3"))
	assert.NotEqual(t, RunFingerprint("a", "bc"), RunFingerprint("ab", "c"))
}
