// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package config

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/wavefunc/stationmerge/internal/validate"
)

var sourceTypes = []string{"jsonl", "sqlite", "postgres"}

// Validate reports every problem in cfg at once. The returned error wraps
// ErrInvalidConfig and a validate.ValidationError.
func Validate(cfg Config) error {
	v := validate.New()

	v.OneOf("source.type", cfg.Source.Type, sourceTypes)
	switch strings.ToLower(cfg.Source.Type) {
	case "jsonl", "sqlite":
		v.NotEmpty("source.path", cfg.Source.Path)
	case "postgres":
		v.NotEmpty("source.dsn", cfg.Source.DSN)
	}

	v.NonNegative("grouping.parallelism", cfg.Grouping.Parallelism)
	v.NonNegative("limit", cfg.Limit)
	for i, ext := range cfg.Grouping.Extensions {
		v.Extension(fmt.Sprintf("grouping.extensions[%d]", i), ext)
	}
	v.Custom("logLevel", cfg.LogLevel, func(any) error {
		_, err := zerolog.ParseLevel(strings.ToLower(cfg.LogLevel))
		return err
	})
	v.Distinct("export.path", cfg.Export.Path, "store.path", cfg.Store.Path)

	if err := v.Err(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return nil
}
