// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package source

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/wavefunc/stationmerge/internal/station"
)

// Postgres reads the legacy tables from a Postgres database.
type Postgres struct {
	pool *pgxpool.Pool
}

// OpenPostgres connects to dsn and verifies the connection.
func OpenPostgres(ctx context.Context, dsn string) (*Postgres, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres: connect: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres: ping: %w", err)
	}
	return &Postgres{pool: pool}, nil
}

func (p *Postgres) Records(ctx context.Context) ([]station.Record, error) {
	rows, err := p.pool.Query(ctx, selectStationsPostgresSQL)
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

func (p *Postgres) Lookups(ctx context.Context) (Lookups, error) {
	desc, err := p.pairs(ctx, selectDescriptionsSQL)
	if err != nil {
		return Lookups{}, fmt.Errorf("query check history: %w", err)
	}
	servers, err := p.pairs(ctx, selectStreamingServersSQL)
	if err != nil {
		return Lookups{}, fmt.Errorf("query streaming servers: %w", err)
	}
	return Lookups{
		Descriptions:     collectLookup(desc),
		StreamingServers: collectLookup(servers),
	}, nil
}

func (p *Postgres) pairs(ctx context.Context, query string) ([]pair, error) {
	rows, err := p.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []pair
	for rows.Next() {
		var pr pair
		if err := rows.Scan(&pr.key, &pr.value); err != nil {
			return nil, err
		}
		out = append(out, pr)
	}
	return out, rows.Err()
}

func (p *Postgres) Close() error {
	p.pool.Close()
	return nil
}
