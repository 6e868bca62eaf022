// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package sqlite

import (
	"context"
	"fmt"
	"strings"
)

// Integrity check modes.
const (
	ModeQuick = "quick"
	ModeFull  = "full"
)

// VerifyIntegrity checks the database for structural corruption using
// PRAGMA quick_check (ModeQuick) or PRAGMA integrity_check (ModeFull).
// It returns the diagnostic rows when corruption is found, nil when healthy.
func VerifyIntegrity(ctx context.Context, path string, mode string) ([]string, error) {
	db, err := Open(ctx, path, ReadOnlyConfig())
	if err != nil {
		return nil, fmt.Errorf("failed to open database for verification: %w", err)
	}
	defer db.Close()

	pragma := "PRAGMA quick_check;"
	switch mode {
	case ModeQuick, "":
	case ModeFull:
		pragma = "PRAGMA integrity_check;"
	default:
		return nil, fmt.Errorf("unknown integrity mode %q", mode)
	}

	rows, err := db.QueryContext(ctx, pragma)
	if err != nil {
		// A header-level corruption can fail the query outright.
		return []string{err.Error()}, nil
	}
	defer rows.Close()

	var results []string
	for rows.Next() {
		var res string
		if err := rows.Scan(&res); err != nil {
			return nil, fmt.Errorf("failed to scan integrity result row: %w", err)
		}
		results = append(results, res)
	}
	if err := rows.Err(); err != nil {
		results = append(results, err.Error())
	}

	if len(results) == 1 && strings.EqualFold(results[0], "ok") {
		return nil, nil
	}
	if len(results) == 0 {
		return []string{"no results returned from integrity check"}, nil
	}
	return results, nil
}
