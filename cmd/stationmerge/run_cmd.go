// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wavefunc/stationmerge/internal/config"
	"github.com/wavefunc/stationmerge/internal/jobs"
	xglog "github.com/wavefunc/stationmerge/internal/log"
	"github.com/wavefunc/stationmerge/internal/metrics"
	"github.com/wavefunc/stationmerge/internal/source"
	"github.com/wavefunc/stationmerge/internal/store"
	"github.com/wavefunc/stationmerge/internal/urlpattern"
)

type runFlags struct {
	dryRun bool
	force  bool
	limit  int
}

func newRunCmd(root *rootFlags) *cobra.Command {
	flags := &runFlags{}
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Group, merge and export legacy station records",
		Long: `Reads the configured legacy source, groups records that describe the
same station, merges every group and writes the result to the export file
and/or the output database.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			configureLogging(cmd, root, "")

			cfg, err := config.NewLoader(root.configPath).Load()
			if err != nil {
				return err
			}
			if root.logLevel == "" {
				xglog.SetLevel(cfg.LogLevel)
			}
			if cmd.Flags().Changed("limit") {
				if flags.limit < 0 {
					return fmt.Errorf("--limit must be >= 0")
				}
				cfg.Limit = flags.limit
			}
			return runJob(cmd, cfg, flags)
		},
	}
	cmd.Flags().BoolVar(&flags.dryRun, "dry-run", false, "group and merge without writing anything")
	cmd.Flags().BoolVar(&flags.force, "force", false, "ignore migration_history and rerun over the same input")
	cmd.Flags().IntVar(&flags.limit, "limit", 0, "export at most N stations (0 = all)")
	return cmd
}

func runJob(cmd *cobra.Command, cfg config.Config, flags *runFlags) error {
	ctx := cmd.Context()
	logger := xglog.WithComponent("cli")

	src, err := source.Open(ctx, source.Config{Type: cfg.Source.Type, Path: cfg.Source.Path, DSN: cfg.Source.DSN})
	if err != nil {
		return fmt.Errorf("open source: %w", err)
	}
	defer src.Close()

	deps := jobs.Deps{
		Source:   src,
		Metrics:  jobs.PrometheusRecorder{},
		Writer:   jobs.AtomicWriter{},
		Analyzer: urlpattern.New(urlpattern.DefaultTable.WithExtensions(cfg.Grouping.Extensions)),
	}
	if cfg.Store.Path != "" && !flags.dryRun {
		st, err := store.Open(ctx, cfg.Store.Path)
		if err != nil {
			return fmt.Errorf("open store: %w", err)
		}
		defer st.Close()
		deps.Store = st
	}

	opts := jobs.Options{
		Force:       flags.force,
		DryRun:      flags.dryRun,
		Parallelism: cfg.Grouping.Parallelism,
		Limit:       cfg.Limit,
	}
	jobCfg := jobs.Config{
		SourceType: cfg.Source.Type,
		SourcePath: cfg.Source.Path,
		ExportPath: cfg.Export.Path,
	}
	if jobCfg.SourcePath == "" {
		jobCfg.SourcePath = "postgres"
	}

	art, runErr := jobs.Run(ctx, jobCfg, deps, opts)

	if cfg.Metrics.Textfile != "" {
		if err := metrics.WriteTextfile(cfg.Metrics.Textfile); err != nil {
			logger.Warn().Err(err).Str("event", "metrics.write_failed").Msg("metrics textfile not written")
		}
	}
	if runErr != nil {
		return runErr
	}

	status := "done"
	if art.Skipped {
		status = "skipped (already merged, use --force)"
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s: %d stations from %d records (job %s)\n",
		status, len(art.Rows), art.Summary.Records, art.JobID)
	return nil
}
