// SPDX-License-Identifier: MIT

// Package metrics exposes Prometheus metrics for deduplication runs. A batch
// job has no scrape endpoint, so WriteTextfile dumps the registry for the
// node exporter textfile collector.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	recordsRead = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "stationmerge_records_total",
		Help: "Legacy records read by outcome",
	}, []string{"outcome"}) // outcome=accepted|skipped

	bucketsTotal = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "stationmerge_buckets",
		Help: "Number of name buckets in the last run",
	})

	largestBucket = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "stationmerge_largest_bucket",
		Help: "Size of the largest name bucket in the last run",
	})

	groupSize = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "stationmerge_group_size",
		Help:    "Records per merged group",
		Buckets: []float64{1, 2, 3, 5, 8, 13, 21},
	})

	stationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "stationmerge_stations_total",
		Help: "Merged stations produced by kind",
	}, []string{"kind"}) // kind=singleton|merged|placeholder

	streamsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "stationmerge_streams_total",
		Help: "Distinct streams attached to merged stations",
	})

	enrichedFields = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "stationmerge_enriched_fields_total",
		Help: "Fields filled in by merging, per field",
	}, []string{"field"})

	stageDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "stationmerge_stage_duration_seconds",
		Help:    "Duration of each run stage",
		Buckets: prometheus.ExponentialBuckets(0.01, 4, 8),
	}, []string{"stage"}) // stage=load|group|merge|export|store

	runFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "stationmerge_run_failures_total",
		Help: "Failed runs by stage",
	}, []string{"stage"})

	lastSuccess = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "stationmerge_last_success_timestamp_seconds",
		Help: "Unix time of the last successful run",
	})
)

// Station kinds.
const (
	KindSingleton   = "singleton"
	KindMerged      = "merged"
	KindPlaceholder = "placeholder"
)

// RecordLoad counts accepted and skipped legacy records.
func RecordLoad(accepted, skipped int) {
	recordsRead.WithLabelValues("accepted").Add(float64(accepted))
	recordsRead.WithLabelValues("skipped").Add(float64(skipped))
}

// RecordBuckets sets the bucket gauges of the last grouping pass.
func RecordBuckets(buckets, largest int) {
	bucketsTotal.Set(float64(buckets))
	largestBucket.Set(float64(largest))
}

// RecordStation observes one merged group.
func RecordStation(kind string, size, streams int, enriched []string) {
	stationsTotal.WithLabelValues(kind).Inc()
	if kind == KindPlaceholder {
		return
	}
	groupSize.Observe(float64(size))
	streamsTotal.Add(float64(streams))
	for _, f := range enriched {
		enrichedFields.WithLabelValues(f).Inc()
	}
}

// ObserveStage records how long a stage took, in seconds.
func ObserveStage(stage string, seconds float64) {
	stageDuration.WithLabelValues(stage).Observe(seconds)
}

// IncRunFailure counts a run that aborted in stage.
func IncRunFailure(stage string) {
	runFailures.WithLabelValues(stage).Inc()
}

// SetLastSuccess stamps the last successful run.
func SetLastSuccess(unixSeconds float64) {
	lastSuccess.Set(unixSeconds)
}
