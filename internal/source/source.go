// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

// Package source reads legacy station records from an export. Supported
// inputs are JSON-lines files, SQLite databases and Postgres databases that
// carry the legacy "Station" table.
package source

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/wavefunc/stationmerge/internal/station"
)

// Supported source types.
const (
	TypeJSONL    = "jsonl"
	TypeSQLite   = "sqlite"
	TypePostgres = "postgres"
)

// MinURLLength is the shortest URL accepted at ingest. Shorter values are
// legacy junk ("-", "n/a", "http").
const MinURLLength = 5

// ErrUnsupportedType is returned by Open for unknown source types.
var ErrUnsupportedType = errors.New("unsupported source type")

// Config selects and locates a source.
type Config struct {
	Type string
	// Path is the file for jsonl and sqlite sources.
	Path string
	// DSN is the connection string for postgres sources.
	DSN string
}

// Lookups carries auxiliary tables keyed by uuid. The merge stage never
// reads them; the export attaches them to the merged stations.
type Lookups struct {
	// Descriptions maps a station uuid to its last non-empty check-history
	// description.
	Descriptions map[string]string
	// StreamingServers maps a server uuid to the server's URL.
	StreamingServers map[string]string
}

// Source yields raw station rows.
type Source interface {
	Records(ctx context.Context) ([]station.Record, error)
	Lookups(ctx context.Context) (Lookups, error)
	Close() error
}

// Open returns the Source described by cfg.
func Open(ctx context.Context, cfg Config) (Source, error) {
	switch strings.ToLower(cfg.Type) {
	case TypeJSONL:
		return NewJSONL(cfg.Path), nil
	case TypeSQLite:
		return OpenSQLite(ctx, cfg.Path)
	case TypePostgres:
		return OpenPostgres(ctx, cfg.DSN)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedType, cfg.Type)
	}
}

// Batch is the validated output of Load.
type Batch struct {
	Records []station.Record
	Skipped int
}

// Load reads all rows from src and applies ingest validation: rows without a
// usable URL are skipped, and rows without a uuid get "legacy-<id>".
func Load(ctx context.Context, src Source, logger zerolog.Logger) (Batch, error) {
	rows, err := src.Records(ctx)
	if err != nil {
		return Batch{}, fmt.Errorf("read records: %w", err)
	}

	b := Batch{Records: make([]station.Record, 0, len(rows))}
	for _, r := range rows {
		if !Accept(&r) {
			b.Skipped++
			logger.Debug().
				Str("event", "source.skip").
				Int64("station_id", r.StationID).
				Str("name", r.Name).
				Str("url", r.URL).
				Msg("skipping station with invalid url")
			continue
		}
		b.Records = append(b.Records, r)
	}
	return b, nil
}

// Accept validates r in place and reports whether it should be kept.
func Accept(r *station.Record) bool {
	r.URL = strings.TrimSpace(r.URL)
	if len(r.URL) < MinURLLength {
		return false
	}
	if strings.TrimSpace(r.StationUUID) == "" {
		r.StationUUID = "legacy-" + strconv.FormatInt(r.StationID, 10)
	}
	return true
}
