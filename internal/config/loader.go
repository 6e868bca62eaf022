// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Loader handles configuration loading with precedence
type Loader struct {
	configPath      string
	ConsumedEnvKeys map[string]struct{}
}

// NewLoader creates a new configuration loader. configPath may be empty.
func NewLoader(configPath string) *Loader {
	return &Loader{
		configPath:      configPath,
		ConsumedEnvKeys: make(map[string]struct{}),
	}
}

func (l *Loader) envString(key, defaultVal string) string {
	l.ConsumedEnvKeys[key] = struct{}{}
	return ParseString(key, defaultVal)
}

func (l *Loader) envInt(key string, defaultVal int) int {
	l.ConsumedEnvKeys[key] = struct{}{}
	return ParseInt(key, defaultVal)
}

// Load loads configuration with precedence: ENV > File > Defaults.
// Order: defaults -> strict file parse -> env overrides -> Validate.
func (l *Loader) Load() (Config, error) {
	cfg := Defaults()

	if l.configPath != "" {
		if err := l.loadFile(l.configPath, &cfg); err != nil {
			return cfg, fmt.Errorf("load config file: %w", err)
		}
	}

	l.mergeEnvConfig(&cfg)

	if err := Validate(cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Defaults returns the configuration used when nothing is set.
func Defaults() Config {
	return Config{
		Source:   SourceConfig{Type: "jsonl"},
		Grouping: GroupingConfig{Parallelism: 4},
		LogLevel: "info",
	}
}

// loadFile decodes path over cfg. Keys absent from the file keep their
// current values.
func (l *Loader) loadFile(path string, cfg *Config) error {
	path = filepath.Clean(path)

	ext := strings.ToLower(filepath.Ext(path))
	if ext != ".yaml" && ext != ".yml" {
		return fmt.Errorf("unsupported config format: %s (only YAML supported)", ext)
	}

	// #nosec G304 -- configuration file paths are provided by the operator via CLI/ENV
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read file: %w", err)
	}
	return decodeStrict(data, cfg)
}

func decodeStrict(data []byte, cfg *Config) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	if err := dec.Decode(cfg); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		if strings.Contains(err.Error(), "field") && strings.Contains(err.Error(), "not found") {
			return fmt.Errorf("%w: %v", ErrUnknownConfigField, err)
		}
		return fmt.Errorf("strict config parse error: %w", err)
	}

	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return fmt.Errorf("config file contains multiple documents or trailing content")
	}

	cfg.Source.Path = expandEnv(cfg.Source.Path)
	cfg.Source.DSN = expandEnv(cfg.Source.DSN)
	cfg.Export.Path = expandEnv(cfg.Export.Path)
	cfg.Store.Path = expandEnv(cfg.Store.Path)
	cfg.Metrics.Textfile = expandEnv(cfg.Metrics.Textfile)
	return nil
}

func (l *Loader) mergeEnvConfig(cfg *Config) {
	cfg.Source.Type = l.envString(EnvSourceType, cfg.Source.Type)
	cfg.Source.Path = l.envString(EnvSourcePath, cfg.Source.Path)
	cfg.Source.DSN = l.envString(EnvSourceDSN, cfg.Source.DSN)
	cfg.Export.Path = l.envString(EnvExportPath, cfg.Export.Path)
	cfg.Store.Path = l.envString(EnvDBPath, cfg.Store.Path)
	cfg.Metrics.Textfile = l.envString(EnvMetricsTextfile, cfg.Metrics.Textfile)
	cfg.Grouping.Parallelism = l.envInt(EnvParallelism, cfg.Grouping.Parallelism)
	cfg.Limit = l.envInt(EnvLimit, cfg.Limit)
	cfg.LogLevel = l.envString(EnvLogLevel, cfg.LogLevel)
}
