// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package config

// Config is the complete runtime configuration of a deduplication run.
// The YAML file and the environment populate the same struct.
type Config struct {
	Source   SourceConfig   `yaml:"source"`
	Export   ExportConfig   `yaml:"export"`
	Store    StoreConfig    `yaml:"store"`
	Metrics  MetricsConfig  `yaml:"metrics"`
	Grouping GroupingConfig `yaml:"grouping"`

	// Limit caps the number of exported stations; 0 exports all.
	Limit    int    `yaml:"limit"`
	LogLevel string `yaml:"logLevel"`
}

// SourceConfig selects the legacy export to read.
type SourceConfig struct {
	Type string `yaml:"type"` // jsonl | sqlite | postgres
	Path string `yaml:"path"`
	DSN  string `yaml:"dsn"`
}

// ExportConfig controls the JSON-lines export of merged stations.
type ExportConfig struct {
	// Path of the export file; empty disables the export.
	Path string `yaml:"path"`
}

// StoreConfig controls the SQLite output store.
type StoreConfig struct {
	// Path of the output database; empty disables the store.
	Path string `yaml:"path"`
}

// MetricsConfig controls the Prometheus textfile written after a run.
type MetricsConfig struct {
	Textfile string `yaml:"textfile"`
}

// GroupingConfig tunes the grouping engine.
type GroupingConfig struct {
	// Parallelism bounds the number of name buckets clustered concurrently.
	// 0 or 1 clusters sequentially.
	Parallelism int `yaml:"parallelism"`
	// Extensions replaces the list of audio/playlist extensions the URL
	// analyzer strips. Empty keeps the built-in list.
	Extensions []string `yaml:"extensions"`
}
