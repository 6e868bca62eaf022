// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package metrics

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func histogramCount(t *testing.T, h prometheus.Histogram) uint64 {
	t.Helper()
	metric := &dto.Metric{}
	if err := h.Write(metric); err != nil {
		t.Fatalf("write histogram metric: %v", err)
	}
	return metric.GetHistogram().GetSampleCount()
}

func TestRecordLoad(t *testing.T) {
	beforeAccepted := testutil.ToFloat64(recordsRead.WithLabelValues("accepted"))
	beforeSkipped := testutil.ToFloat64(recordsRead.WithLabelValues("skipped"))

	RecordLoad(10, 2)

	assert.Equal(t, beforeAccepted+10, testutil.ToFloat64(recordsRead.WithLabelValues("accepted")))
	assert.Equal(t, beforeSkipped+2, testutil.ToFloat64(recordsRead.WithLabelValues("skipped")))
}

func TestRecordStation(t *testing.T) {
	merged := testutil.ToFloat64(stationsTotal.WithLabelValues(KindMerged))
	placeholders := testutil.ToFloat64(stationsTotal.WithLabelValues(KindPlaceholder))
	streams := testutil.ToFloat64(streamsTotal)
	tags := testutil.ToFloat64(enrichedFields.WithLabelValues("tags"))

	RecordStation(KindMerged, 3, 2, []string{"tags"})
	RecordStation(KindPlaceholder, 0, 0, []string{"tags"})

	assert.Equal(t, merged+1, testutil.ToFloat64(stationsTotal.WithLabelValues(KindMerged)))
	assert.Equal(t, placeholders+1, testutil.ToFloat64(stationsTotal.WithLabelValues(KindPlaceholder)))
	assert.Equal(t, streams+2, testutil.ToFloat64(streamsTotal))
	assert.Equal(t, tags+1, testutil.ToFloat64(enrichedFields.WithLabelValues("tags")), "placeholders are not observed")
}

func TestRecordStation_GroupSizeHistogram(t *testing.T) {
	before := histogramCount(t, groupSize)

	RecordStation(KindSingleton, 1, 1, nil)
	RecordStation(KindMerged, 4, 3, nil)
	RecordStation(KindPlaceholder, 0, 0, nil)

	assert.Equal(t, before+2, histogramCount(t, groupSize))
}

func TestRecordBuckets(t *testing.T) {
	RecordBuckets(37, 4)
	assert.Equal(t, 37.0, testutil.ToFloat64(bucketsTotal))
	assert.Equal(t, 4.0, testutil.ToFloat64(largestBucket))
}

func TestWriteTextfile(t *testing.T) {
	SetLastSuccess(1700000000)
	ObserveStage("group", 0.25)
	IncRunFailure("store")

	path := filepath.Join(t.TempDir(), "stationmerge.prom")
	require.NoError(t, WriteTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	body := string(data)
	assert.Contains(t, body, "stationmerge_last_success_timestamp_seconds 1.7e+09")
	assert.Contains(t, body, `stationmerge_stage_duration_seconds_count{stage="group"}`)
	assert.Contains(t, body, `stationmerge_run_failures_total{stage="store"}`)
}

func TestWriteTextfile_BadDir(t *testing.T) {
	err := WriteTextfile(filepath.Join(t.TempDir(), "missing", "x.prom"))
	assert.Error(t, err)
}
