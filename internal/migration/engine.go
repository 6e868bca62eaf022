// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

// Package migration records which legacy exports have already been merged
// into an output database, so reruns over the same input are skipped.
package migration

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// Module constants
const (
	ModuleStations = "stations"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS migration_history (
	module         TEXT PRIMARY KEY,
	source_type    TEXT NOT NULL,
	source_path    TEXT NOT NULL,
	migrated_at_ms INTEGER NOT NULL,
	record_count   INTEGER NOT NULL,
	checksum       TEXT NOT NULL
)`

// HistoryRecord matches the migration_history table schema.
type HistoryRecord struct {
	Module       string
	SourceType   string
	SourcePath   string
	MigratedAtMs int64
	RecordCount  int
	Checksum     string
}

// EnsureSchema creates the history table if needed.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("create migration_history: %w", err)
	}
	return nil
}

// Execer is satisfied by *sql.DB and *sql.Tx.
type Execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// IsMigrated reports whether module was already migrated from an input
// with the given checksum. The history table must exist (EnsureSchema).
func IsMigrated(ctx context.Context, db *sql.DB, module, checksum string) (bool, error) {
	rec, err := GetHistory(ctx, db, module)
	if err != nil {
		return false, fmt.Errorf("read migration history: %w", err)
	}
	return rec != nil && rec.Checksum == checksum, nil
}

// RecordMigration saves the migration completion status. Pass the
// transaction that wrote the migrated data so both commit together.
func RecordMigration(ctx context.Context, db Execer, rec HistoryRecord) error {
	query := `
	INSERT INTO migration_history (module, source_type, source_path, migrated_at_ms, record_count, checksum)
	VALUES (?, ?, ?, ?, ?, ?)
	ON CONFLICT(module) DO UPDATE SET
		source_type = excluded.source_type,
		source_path = excluded.source_path,
		migrated_at_ms = excluded.migrated_at_ms,
		record_count = excluded.record_count,
		checksum = excluded.checksum
	`
	_, err := db.ExecContext(ctx, query,
		rec.Module, rec.SourceType, rec.SourcePath, rec.MigratedAtMs, rec.RecordCount, rec.Checksum,
	)
	return err
}

// GetHistory retrieves the migration record for a module, or nil.
func GetHistory(ctx context.Context, db *sql.DB, module string) (*HistoryRecord, error) {
	var rec HistoryRecord
	query := `SELECT module, source_type, source_path, migrated_at_ms, record_count, checksum FROM migration_history WHERE module = ?`
	err := db.QueryRowContext(ctx, query, module).Scan(&rec.Module, &rec.SourceType, &rec.SourcePath, &rec.MigratedAtMs, &rec.RecordCount, &rec.Checksum)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}
