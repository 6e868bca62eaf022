// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package main

import (
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	xglog "github.com/wavefunc/stationmerge/internal/log"
)

type rootFlags struct {
	configPath string
	logLevel   string
	logFormat  string
}

func newRootCmd() *cobra.Command {
	flags := &rootFlags{}
	root := &cobra.Command{
		Use:           "stationmerge",
		Short:         "Deduplicate and enrich a legacy radio station export",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&flags.configPath, "config", "c", "", "YAML config file")
	root.PersistentFlags().StringVar(&flags.logLevel, "log-level", "", "override the configured log level")
	root.PersistentFlags().StringVar(&flags.logFormat, "log-format", "json", "json or console")

	root.AddCommand(newRunCmd(flags), newVerifyCmd(flags), newVersionCmd())
	return root
}

// configureLogging sets up the global logger once the final level is known.
func configureLogging(cmd *cobra.Command, flags *rootFlags, level string) {
	if flags.logLevel != "" {
		level = flags.logLevel
	}
	cfg := xglog.Config{Level: strings.ToLower(level), Output: cmd.ErrOrStderr()}
	if flags.logFormat == "console" {
		cfg.Output = zerolog.ConsoleWriter{Out: cmd.ErrOrStderr()}
	}
	xglog.Configure(cfg)
}
