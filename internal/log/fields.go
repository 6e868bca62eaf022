// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package log

// Canonical field name constants for structured logging.
const (
	// Identity fields
	FieldJobID       = "job_id"
	FieldStationID   = "station_id"
	FieldStationUUID = "station_uuid"

	// Process / pipeline fields
	FieldEvent     = "event"
	FieldComponent = "component"
	FieldModule    = "module"

	// Grouping / merge fields
	FieldBucket    = "bucket"
	FieldGroupSize = "group_size"
	FieldStreams   = "streams"
	FieldEnriched  = "enriched"

	// Source / output fields
	FieldSourceType = "source_type"
	FieldPath       = "path"
	FieldRecords    = "records"
	FieldChecksum   = "checksum"
)
