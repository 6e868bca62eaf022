// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

// Package sqlite opens SQLite databases with the pragmas every connection in
// the pool must carry, and checks them for corruption.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"time"

	_ "modernc.org/sqlite" // Pure Go driver
)

// Config defines SQLite operational parameters.
type Config struct {
	BusyTimeout  time.Duration
	MaxOpenConns int
	// ReadOnly opens the file with mode=ro and skips the WAL/foreign key
	// pragmas. Used for legacy source databases that must not be touched.
	ReadOnly bool
}

// DefaultConfig is the writer configuration used for the output store.
// A single connection keeps batch inserts serialized.
func DefaultConfig() Config {
	return Config{
		BusyTimeout:  5 * time.Second,
		MaxOpenConns: 1,
	}
}

// ReadOnlyConfig is used for record sources.
func ReadOnlyConfig() Config {
	return Config{
		BusyTimeout:  2 * time.Second,
		MaxOpenConns: 4,
		ReadOnly:     true,
	}
}

// DSN builds the modernc.org/sqlite connection string. Pragmas go into the
// DSN so they apply to every pooled connection.
func DSN(dbPath string, cfg Config) string {
	q := url.Values{}
	q.Add("_pragma", fmt.Sprintf("busy_timeout(%d)", cfg.BusyTimeout.Milliseconds()))
	if cfg.ReadOnly {
		q.Set("mode", "ro")
	} else {
		q.Add("_pragma", "journal_mode(WAL)")
		q.Add("_pragma", "synchronous(NORMAL)")
		q.Add("_pragma", "foreign_keys(ON)")
	}
	return "file:" + dbPath + "?" + q.Encode()
}

// Open initializes a connection pool and pings it.
func Open(ctx context.Context, dbPath string, cfg Config) (*sql.DB, error) {
	db, err := sql.Open("sqlite", DSN(dbPath, cfg))
	if err != nil {
		return nil, fmt.Errorf("sqlite: open failed: %w", err)
	}

	if cfg.MaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
		db.SetMaxIdleConns(cfg.MaxOpenConns)
	}
	db.SetConnMaxLifetime(1 * time.Hour)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("sqlite: ping %s failed: %w", dbPath, err)
	}

	return db, nil
}
