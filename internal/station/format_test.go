// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package station

import (
	"math"
	"testing"
)

func TestStreamFormat(t *testing.T) {
	tests := []struct {
		codec string
		hls   bool
		want  string
	}{
		{"", false, "audio/mpeg"},
		{"MP3", false, "audio/mpeg"},
		{"AAC+", false, "audio/aac"},
		{"OGG", false, "audio/ogg"},
		{"vorbis", false, "audio/ogg"},
		{"OPUS", false, "audio/opus"},
		{"FLAC", false, "audio/flac"},
		{"wma", false, "audio/mpeg"},
		{"AAC", true, "application/x-mpegURL"},
	}
	for _, tt := range tests {
		if got := StreamFormat(tt.codec, tt.hls); got != tt.want {
			t.Errorf("StreamFormat(%q, %v) = %q, want %q", tt.codec, tt.hls, got, tt.want)
		}
	}
}

func TestRecordStreamURL(t *testing.T) {
	r := Record{URL: "http://a/stream"}
	if got := r.StreamURL(); got != "http://a/stream" {
		t.Errorf("StreamURL() = %q", got)
	}
	r.URLCache = "http://cache/stream"
	if got := r.StreamURL(); got != "http://cache/stream" {
		t.Errorf("StreamURL() with cache = %q", got)
	}
}

func TestValidFloat(t *testing.T) {
	if ValidFloat(nil) {
		t.Error("nil should be invalid")
	}
	if ValidFloat(FloatPtr(math.NaN())) {
		t.Error("NaN should be invalid")
	}
	if !ValidFloat(FloatPtr(0)) {
		t.Error("zero should be valid")
	}
}

func TestMergedPublishable(t *testing.T) {
	if (Merged{Placeholder: true}).Publishable() {
		t.Error("placeholder must not be publishable")
	}
	m := Merged{SourceRecords: []Record{{StationUUID: "a"}}}
	if !m.Publishable() {
		t.Error("merged station with sources should be publishable")
	}
	if _, ok := (Merged{}).Primary(); ok {
		t.Error("no streams should mean no primary")
	}
}
