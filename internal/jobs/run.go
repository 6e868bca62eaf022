// SPDX-License-Identifier: MIT

package jobs

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/wavefunc/stationmerge/internal/grouping"
	xglog "github.com/wavefunc/stationmerge/internal/log"
	"github.com/wavefunc/stationmerge/internal/merge"
	"github.com/wavefunc/stationmerge/internal/metrics"
	"github.com/wavefunc/stationmerge/internal/migration"
	"github.com/wavefunc/stationmerge/internal/report"
	"github.com/wavefunc/stationmerge/internal/source"
	"github.com/wavefunc/stationmerge/internal/station"
	"github.com/wavefunc/stationmerge/internal/store"
	"github.com/wavefunc/stationmerge/internal/urlpattern"
)

// ErrNoSource is returned when Deps carries no record source.
var ErrNoSource = errors.New("jobs: no record source")

// Run performs one deduplication pass: load -> group -> merge -> report ->
// export + store. Malformed records degrade inside the core; only I/O
// failures abort the run.
func Run(ctx context.Context, cfg Config, deps Deps, opts Options) (*Artifacts, error) {
	if deps.Source == nil {
		return nil, ErrNoSource
	}
	deps = withDefaults(deps)

	art := &Artifacts{JobID: deps.NewID()}
	ctx = xglog.ContextWithJobID(ctx, art.JobID)
	logger := xglog.WithComponentFromContext(ctx, "jobs")

	art.Stats.StartTime = deps.Clock()
	logger.Info().
		Str("event", "dedup.start").
		Str(xglog.FieldSourceType, cfg.SourceType).
		Str(xglog.FieldPath, cfg.SourcePath).
		Bool("dry_run", opts.DryRun).
		Int("parallelism", opts.Parallelism).
		Msg("starting deduplication run")

	// 1. Load
	stageStart := time.Now()
	batch, err := source.Load(ctx, deps.Source, logger)
	if err != nil {
		deps.Metrics.IncRunFailure(StageLoad)
		return nil, fmt.Errorf("load: %w", err)
	}
	deps.Metrics.ObserveStage(StageLoad, time.Since(stageStart).Seconds())
	deps.Metrics.RecordLoad(len(batch.Records), batch.Skipped)
	art.Stats.RecordsSkipped = batch.Skipped
	art.Checksum = migration.CalculateChecksum(batch.Records)

	logger.Info().
		Str("event", "source.loaded").
		Int(xglog.FieldRecords, len(batch.Records)).
		Int("skipped", batch.Skipped).
		Str(xglog.FieldChecksum, art.Checksum).
		Msg("legacy records loaded")

	art.Fingerprint = runFingerprint(art.Checksum, deps, opts)

	if deps.Store != nil && !opts.Force && !opts.DryRun {
		done, err := migration.IsMigrated(ctx, deps.Store.DB(), migration.ModuleStations, art.Fingerprint)
		if err != nil {
			return nil, fmt.Errorf("check migration history: %w", err)
		}
		if done && !exportPresent(cfg.ExportPath) {
			logger.Info().
				Str("event", "dedup.export_missing").
				Str(xglog.FieldPath, cfg.ExportPath).
				Msg("input already merged but export is missing, rerunning")
			done = false
		}
		if done {
			art.Skipped = true
			logger.Info().
				Str("event", "dedup.skip").
				Str(xglog.FieldModule, migration.ModuleStations).
				Str(xglog.FieldChecksum, art.Checksum).
				Msg("input already merged into store, use --force to rerun")
			return finish(art, deps), nil
		}
	}

	// 2. Group
	stageStart = time.Now()
	engine := grouping.New(deps.Analyzer, opts.Parallelism)
	res := engine.Partition(batch.Records)
	deps.Metrics.ObserveStage(StageGroup, time.Since(stageStart).Seconds())
	deps.Metrics.RecordBuckets(res.Buckets, res.LargestBucket)
	art.Stats.Buckets = res.Buckets
	art.Stats.LargestBucket = res.LargestBucket

	logger.Info().
		Str("event", "grouping.done").
		Int("buckets", res.Buckets).
		Int("largest_bucket", res.LargestBucket).
		Int("groups", len(res.Groups)).
		Msg("records grouped")

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// 3. Merge + report
	stageStart = time.Now()
	merged := mergeGroups(ctx, res.Groups, deps, &art.Summary)
	deps.Metrics.ObserveStage(StageMerge, time.Since(stageStart).Seconds())

	// 4. Lookups are optional; older exports lack the tables.
	lookups, err := deps.Source.Lookups(ctx)
	if err != nil {
		logger.Warn().
			Err(err).
			Str("event", "lookups.unavailable").
			Msg("continuing without descriptions and streaming servers")
		lookups = source.Lookups{}
	} else {
		art.Stats.LookupsLoaded = true
	}

	if opts.Limit > 0 && len(merged) > opts.Limit {
		merged = merged[:opts.Limit]
	}
	art.Rows = make([]store.Row, 0, len(merged))
	for _, m := range merged {
		art.Rows = append(art.Rows, buildRow(m, lookups, deps.Analyzer))
	}
	art.Stats.Exported = len(art.Rows)

	if opts.DryRun {
		logger.Info().
			Str("event", "dedup.dry_run").
			Int("stations", len(art.Rows)).
			Msg("dry run, nothing written")
		art.Summary.Duration = deps.Clock().Sub(art.Stats.StartTime)
		art.Summary.Log(logger)
		return finish(art, deps), nil
	}

	// 5. Export
	if cfg.ExportPath != "" {
		stageStart = time.Now()
		if err := writeExport(ctx, deps.Writer, cfg.ExportPath, art.Rows); err != nil {
			deps.Metrics.IncRunFailure(StageExport)
			return nil, fmt.Errorf("export: %w", err)
		}
		deps.Metrics.ObserveStage(StageExport, time.Since(stageStart).Seconds())
		logger.Info().
			Str("event", "export.write").
			Str(xglog.FieldPath, cfg.ExportPath).
			Int("stations", len(art.Rows)).
			Msg("export written")
	}

	// 6. Store
	if deps.Store != nil {
		stageStart = time.Now()
		hist := migration.HistoryRecord{
			Module:       migration.ModuleStations,
			SourceType:   cfg.SourceType,
			SourcePath:   cfg.SourcePath,
			MigratedAtMs: deps.Clock().UnixMilli(),
			RecordCount:  len(batch.Records),
			Checksum:     art.Fingerprint,
		}
		if err := deps.Store.ReplaceAll(ctx, art.JobID, art.Rows, hist); err != nil {
			deps.Metrics.IncRunFailure(StageStore)
			return nil, fmt.Errorf("store: %w", err)
		}
		deps.Metrics.ObserveStage(StageStore, time.Since(stageStart).Seconds())
		logger.Info().
			Str("event", "store.write").
			Int("stations", len(art.Rows)).
			Msg("output store updated")
	}

	art.Summary.Duration = deps.Clock().Sub(art.Stats.StartTime)
	art.Summary.Log(logger)
	deps.Metrics.SetLastSuccess(float64(deps.Clock().Unix()))
	return finish(art, deps), nil
}

// mergeGroups merges every group in order, feeding the summary and metrics.
// Placeholders are counted and dropped.
func mergeGroups(ctx context.Context, groups []station.Group, deps Deps, sum *report.Summary) []station.Merged {
	logger := xglog.WithComponentFromContext(ctx, "merge")
	out := make([]station.Merged, 0, len(groups))

	for i, g := range groups {
		m := merge.Merge(g)
		st := report.Compute(g, m)
		sum.Add(g, m, st)

		kind := metrics.KindSingleton
		switch {
		case m.Placeholder:
			kind = metrics.KindPlaceholder
		case len(g) > 1:
			kind = metrics.KindMerged
		}
		deps.Metrics.RecordStation(kind, len(g), st.StreamCount, st.EnrichedFields)

		if m.Placeholder {
			logger.Warn().
				Str("event", "merge.placeholder").
				Int("group_index", i).
				Msg("empty group produced a placeholder station")
			continue
		}
		if len(g) > 1 {
			ev := logger.Debug().
				Str("event", "merge.group").
				Str(xglog.FieldStationUUID, m.StationUUID).
				Str("name", m.Name).
				Int(xglog.FieldGroupSize, len(g)).
				Int(xglog.FieldStreams, st.StreamCount).
				Strs(xglog.FieldEnriched, st.EnrichedFields)
			if p, ok := m.Primary(); ok {
				ev = ev.Str("primary_pattern", deps.Analyzer.Pattern(p.URL))
			}
			ev.Msg("group merged")
		}
		out = append(out, m)
	}
	return out
}

// runFingerprint folds the parameters that change the written output into
// the input checksum.
func runFingerprint(checksum string, deps Deps, opts Options) string {
	return migration.RunFingerprint(checksum,
		"limit="+strconv.Itoa(opts.Limit),
		fmt.Sprintf("urls=%+v", deps.Analyzer.Table()),
	)
}

func exportPresent(path string) bool {
	if path == "" {
		return true
	}
	_, err := os.Stat(path)
	return err == nil
}

func finish(art *Artifacts, deps Deps) *Artifacts {
	art.Stats.EndTime = deps.Clock()
	art.Stats.DurationMS = art.Stats.EndTime.Sub(art.Stats.StartTime).Milliseconds()
	return art
}

func withDefaults(d Deps) Deps {
	if d.Metrics == nil {
		d.Metrics = PrometheusRecorder{}
	}
	if d.Writer == nil {
		d.Writer = AtomicWriter{}
	}
	if d.Analyzer == nil {
		d.Analyzer = urlpattern.Default()
	}
	if d.Clock == nil {
		d.Clock = time.Now
	}
	if d.NewID == nil {
		d.NewID = uuid.NewString
	}
	return d
}
