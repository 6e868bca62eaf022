// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package source

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/wavefunc/stationmerge/internal/persistence/sqlite"
	"github.com/wavefunc/stationmerge/internal/station"
)

// SQLite reads a legacy database that was imported into SQLite. The file is
// opened read-only.
type SQLite struct {
	db *sql.DB
}

// OpenSQLite opens path read-only.
func OpenSQLite(ctx context.Context, path string) (*SQLite, error) {
	db, err := sqlite.Open(ctx, path, sqlite.ReadOnlyConfig())
	if err != nil {
		return nil, err
	}
	return &SQLite{db: db}, nil
}

// NewSQLite wraps an already open database.
func NewSQLite(db *sql.DB) *SQLite {
	return &SQLite{db: db}
}

func (s *SQLite) Records(ctx context.Context) ([]station.Record, error) {
	rows, err := s.db.QueryContext(ctx, selectStationsSQL)
	if err != nil {
		return nil, fmt.Errorf("query stations: %w", err)
	}
	defer rows.Close()

	var out []station.Record
	for rows.Next() {
		r, err := scanStation(rows)
		if err != nil {
			return nil, fmt.Errorf("scan station: %w", err)
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate stations: %w", err)
	}
	return out, nil
}

// Lookups reads the check history and streaming server tables. Either table
// may be missing from older exports; the caller decides whether that matters.
func (s *SQLite) Lookups(ctx context.Context) (Lookups, error) {
	desc, err := s.pairs(ctx, selectDescriptionsSQL)
	if err != nil {
		return Lookups{}, fmt.Errorf("query check history: %w", err)
	}
	servers, err := s.pairs(ctx, selectStreamingServersSQL)
	if err != nil {
		return Lookups{}, fmt.Errorf("query streaming servers: %w", err)
	}
	return Lookups{
		Descriptions:     collectLookup(desc),
		StreamingServers: collectLookup(servers),
	}, nil
}

func (s *SQLite) pairs(ctx context.Context, query string) ([]pair, error) {
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []pair
	for rows.Next() {
		var p pair
		if err := rows.Scan(&p.key, &p.value); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (s *SQLite) Close() error { return s.db.Close() }
