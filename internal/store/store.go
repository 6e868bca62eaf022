// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

// Package store persists merged stations into a SQLite output database.
package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/wavefunc/stationmerge/internal/migration"
	"github.com/wavefunc/stationmerge/internal/persistence/sqlite"
)

const schemaVersion = 1

var schema = []string{
	`CREATE TABLE IF NOT EXISTS merged_stations (
		id                   INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id               TEXT NOT NULL,
		station_id           INTEGER NOT NULL,
		station_uuid         TEXT NOT NULL,
		name                 TEXT NOT NULL,
		url                  TEXT,
		homepage             TEXT,
		favicon              TEXT,
		country              TEXT,
		subcountry           TEXT,
		country_code         TEXT,
		server_uuid          TEXT,
		geo_lat              REAL,
		geo_long             REAL,
		language             TEXT,
		language_codes       TEXT,
		tags                 TEXT,
		votes                INTEGER NOT NULL DEFAULT 0,
		hls                  INTEGER NOT NULL DEFAULT 0,
		codec                TEXT,
		bitrate              INTEGER NOT NULL DEFAULT 0,
		description          TEXT,
		streaming_server_url TEXT
	)`,
	`CREATE INDEX IF NOT EXISTS idx_merged_stations_uuid ON merged_stations(station_uuid)`,
	`CREATE TABLE IF NOT EXISTS merged_streams (
		station_ref INTEGER NOT NULL REFERENCES merged_stations(id) ON DELETE CASCADE,
		position    INTEGER NOT NULL,
		url         TEXT NOT NULL,
		codec       TEXT,
		bitrate     INTEGER NOT NULL DEFAULT 0,
		is_primary  INTEGER NOT NULL DEFAULT 0,
		format      TEXT NOT NULL,
		url_pattern TEXT NOT NULL,
		PRIMARY KEY (station_ref, position)
	)`,
	`CREATE TABLE IF NOT EXISTS station_sources (
		station_ref       INTEGER NOT NULL REFERENCES merged_stations(id) ON DELETE CASCADE,
		source_station_id INTEGER NOT NULL,
		source_uuid       TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_station_sources_uuid ON station_sources(source_uuid)`,
}

// Store is the output database.
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the output database at path and applies
// the schema, including the migration history table.
func Open(ctx context.Context, path string) (*Store, error) {
	db, err := sqlite.Open(ctx, path, sqlite.DefaultConfig())
	if err != nil {
		return nil, err
	}
	s := &Store{db: db}
	if err := s.migrate(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) migrate(ctx context.Context) error {
	var version int
	if err := s.db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&version); err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}
	if version > schemaVersion {
		return fmt.Errorf("output database schema version %d is newer than supported %d", version, schemaVersion)
	}
	for _, stmt := range schema {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("apply schema: %w", err)
		}
	}
	if err := migration.EnsureSchema(ctx, s.db); err != nil {
		return err
	}
	if _, err := s.db.ExecContext(ctx, fmt.Sprintf("PRAGMA user_version = %d", schemaVersion)); err != nil {
		return fmt.Errorf("write schema version: %w", err)
	}
	return nil
}

// DB exposes the handle for migration history bookkeeping.
func (s *Store) DB() *sql.DB { return s.db }

func (s *Store) Close() error { return s.db.Close() }

// ReplaceAll swaps the stored stations for rows and records hist in the
// same transaction, so the history never describes rows that were not
// written.
func (s *Store) ReplaceAll(ctx context.Context, runID string, rows []Row, hist migration.HistoryRecord) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, stmt := range []string{"DELETE FROM station_sources", "DELETE FROM merged_streams", "DELETE FROM merged_stations"} {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("clear: %w", err)
		}
	}

	insStation, err := tx.PrepareContext(ctx, `INSERT INTO merged_stations (
		run_id, station_id, station_uuid, name, url, homepage, favicon, country, subcountry,
		country_code, server_uuid, geo_lat, geo_long, language, language_codes, tags,
		votes, hls, codec, bitrate, description, streaming_server_url
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare station insert: %w", err)
	}
	defer insStation.Close()

	insStream, err := tx.PrepareContext(ctx, `INSERT INTO merged_streams
		(station_ref, position, url, codec, bitrate, is_primary, format, url_pattern)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare stream insert: %w", err)
	}
	defer insStream.Close()

	insSource, err := tx.PrepareContext(ctx, `INSERT INTO station_sources
		(station_ref, source_station_id, source_uuid) VALUES (?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare source insert: %w", err)
	}
	defer insSource.Close()

	for _, r := range rows {
		res, err := insStation.ExecContext(ctx,
			runID, r.StationID, r.StationUUID, r.Name, r.URL, r.Homepage, r.Favicon, r.Country, r.Subcountry,
			r.CountryCode, r.ServerUUID, r.GeoLat, r.GeoLong, r.Language, r.LanguageCodes, r.Tags,
			r.Votes, r.HLS, r.Codec, r.Bitrate, r.Description, r.StreamingServerURL,
		)
		if err != nil {
			return fmt.Errorf("insert station %s: %w", r.StationUUID, err)
		}
		ref, err := res.LastInsertId()
		if err != nil {
			return fmt.Errorf("station id: %w", err)
		}
		for i, st := range r.Streams {
			if _, err := insStream.ExecContext(ctx, ref, i, st.URL, st.Codec, st.Bitrate, st.Primary, st.Format, st.Pattern); err != nil {
				return fmt.Errorf("insert stream %s: %w", st.URL, err)
			}
		}
		for _, src := range r.Sources {
			if _, err := insSource.ExecContext(ctx, ref, src.StationID, src.StationUUID); err != nil {
				return fmt.Errorf("insert source %s: %w", src.StationUUID, err)
			}
		}
	}

	if err := migration.RecordMigration(ctx, tx, hist); err != nil {
		return fmt.Errorf("record migration: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// Counts returns the number of stored stations, streams and source links.
func (s *Store) Counts(ctx context.Context) (stations, streams, sources int, err error) {
	row := s.db.QueryRowContext(ctx, `SELECT
		(SELECT COUNT(*) FROM merged_stations),
		(SELECT COUNT(*) FROM merged_streams),
		(SELECT COUNT(*) FROM station_sources)`)
	err = row.Scan(&stations, &streams, &sources)
	return
}

// SourcesOf returns the uuids of the legacy records merged into the station
// stored under stationUUID.
func (s *Store) SourcesOf(ctx context.Context, stationUUID string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT ss.source_uuid
		FROM station_sources ss JOIN merged_stations ms ON ms.id = ss.station_ref
		WHERE ms.station_uuid = ? ORDER BY ss.rowid`, stationUUID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var u string
		if err := rows.Scan(&u); err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}
