// SPDX-License-Identifier: MIT

package jobs

import (
	"context"
	"database/sql"
	"io"
	"time"

	"github.com/wavefunc/stationmerge/internal/migration"
	"github.com/wavefunc/stationmerge/internal/report"
	"github.com/wavefunc/stationmerge/internal/source"
	"github.com/wavefunc/stationmerge/internal/store"
	"github.com/wavefunc/stationmerge/internal/urlpattern"
)

// MetricsRecorder defines the interface for recording run metrics
type MetricsRecorder interface {
	RecordLoad(accepted, skipped int)
	RecordBuckets(buckets, largest int)
	RecordStation(kind string, size, streams int, enriched []string)
	ObserveStage(stage string, seconds float64)
	IncRunFailure(stage string)
	SetLastSuccess(unixSeconds float64)
}

// FileWriter defines the interface for writing files atomically
type FileWriter interface {
	WriteAtomic(ctx context.Context, path string, write func(io.Writer) error) error
}

// StationStore is the output database.
type StationStore interface {
	ReplaceAll(ctx context.Context, runID string, rows []store.Row, hist migration.HistoryRecord) error
	DB() *sql.DB
}

// Config names the run's inputs and outputs.
type Config struct {
	SourceType string
	SourcePath string
	ExportPath string // empty disables the JSON-lines export
}

// Options controls the behavior of a run
type Options struct {
	Force       bool // Rerun even if the store already holds this input
	DryRun      bool // Group, merge and report without writing anything
	Parallelism int  // Max buckets clustered concurrently (<= 1 = sequential)
	Limit       int  // Max stations exported (0 = all)
}

// Deps holds all dependencies for a run
type Deps struct {
	Source   source.Source
	Store    StationStore // optional
	Metrics  MetricsRecorder
	Writer   FileWriter
	Analyzer *urlpattern.Analyzer
	Clock    func() time.Time
	NewID    func() string
}

// Artifacts represents the output of a run
type Artifacts struct {
	JobID       string
	Checksum    string // input records only
	Fingerprint string // Checksum plus output-shaping parameters, kept in migration_history
	Rows        []store.Row
	Summary     report.Summary
	Stats       RunStats
	// Skipped is set when the store already holds a run over the same input.
	Skipped bool
}

// RunStats contains bookkeeping about the run itself
type RunStats struct {
	StartTime      time.Time
	EndTime        time.Time
	DurationMS     int64
	RecordsSkipped int
	Buckets        int
	LargestBucket  int
	Exported       int
	LookupsLoaded  bool
}

// Stage names used for metrics and failures.
const (
	StageLoad   = "load"
	StageGroup  = "group"
	StageMerge  = "merge"
	StageExport = "export"
	StageStore  = "store"
)

// DefaultOptions returns sensible default options
func DefaultOptions() Options {
	return Options{
		Parallelism: 4,
	}
}
