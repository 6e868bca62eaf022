// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/wavefunc/stationmerge/internal/log"
)

// EnvPrefix is shared by every environment override.
const EnvPrefix = "STATIONMERGE_"

// Environment keys.
const (
	EnvSourceType      = EnvPrefix + "SOURCE_TYPE"
	EnvSourcePath      = EnvPrefix + "SOURCE_PATH"
	EnvSourceDSN       = EnvPrefix + "SOURCE_DSN"
	EnvExportPath      = EnvPrefix + "EXPORT_PATH"
	EnvDBPath          = EnvPrefix + "DB_PATH"
	EnvMetricsTextfile = EnvPrefix + "METRICS_TEXTFILE"
	EnvParallelism     = EnvPrefix + "PARALLELISM"
	EnvLimit           = EnvPrefix + "LIMIT"
	EnvLogLevel        = EnvPrefix + "LOG_LEVEL"
)

// ParseString reads a string from environment variable or returns default value.
// It logs the source (environment or default) for observability.
func ParseString(key, defaultValue string) string {
	return parseStringWithLogger(log.WithComponent("config"), key, defaultValue)
}

func parseStringWithLogger(logger zerolog.Logger, key, defaultValue string) string {
	value, exists := os.LookupEnv(key)
	if !exists || value == "" {
		return defaultValue
	}
	if isSensitive(key) {
		logger.Debug().
			Str("key", key).
			Str("source", "environment").
			Bool("sensitive", true).
			Msg("using environment variable")
		return value
	}
	logger.Debug().
		Str("key", key).
		Str("value", value).
		Str("source", "environment").
		Msg("using environment variable")
	return value
}

// ParseInt reads an integer from environment variable or returns default value.
// It falls back to default on parse errors.
func ParseInt(key string, defaultValue int) int {
	logger := log.WithComponent("config")
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return defaultValue
	}
	i, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		logger.Warn().
			Str("key", key).
			Str("value", v).
			Int("default", defaultValue).
			Msg("invalid integer in environment variable, using default")
		return defaultValue
	}
	logger.Debug().
		Str("key", key).
		Int("value", i).
		Str("source", "environment").
		Msg("using environment variable")
	return i
}

// DSNs carry credentials.
func isSensitive(key string) bool {
	k := strings.ToLower(key)
	return strings.Contains(k, "dsn") || strings.Contains(k, "password") || strings.Contains(k, "token")
}

func expandEnv(s string) string {
	return os.ExpandEnv(s)
}
