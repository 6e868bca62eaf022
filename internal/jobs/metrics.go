// SPDX-License-Identifier: MIT

package jobs

import "github.com/wavefunc/stationmerge/internal/metrics"

// PrometheusRecorder forwards to the package-level Prometheus metrics.
type PrometheusRecorder struct{}

func (PrometheusRecorder) RecordLoad(accepted, skipped int) { metrics.RecordLoad(accepted, skipped) }

func (PrometheusRecorder) RecordBuckets(buckets, largest int) {
	metrics.RecordBuckets(buckets, largest)
}

func (PrometheusRecorder) RecordStation(kind string, size, streams int, enriched []string) {
	metrics.RecordStation(kind, size, streams, enriched)
}

func (PrometheusRecorder) ObserveStage(stage string, seconds float64) {
	metrics.ObserveStage(stage, seconds)
}

func (PrometheusRecorder) IncRunFailure(stage string) { metrics.IncRunFailure(stage) }

func (PrometheusRecorder) SetLastSuccess(unixSeconds float64) { metrics.SetLastSuccess(unixSeconds) }
