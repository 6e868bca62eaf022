// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package station

import "strings"

// StreamFormat maps a legacy codec label and HLS flag to a MIME type.
func StreamFormat(codec string, hls bool) string {
	if hls {
		return "application/x-mpegURL"
	}
	c := strings.ToLower(codec)
	switch {
	case c == "":
		return "audio/mpeg"
	case strings.Contains(c, "mp3"):
		return "audio/mpeg"
	case strings.Contains(c, "aac"):
		return "audio/aac"
	case strings.Contains(c, "ogg"), strings.Contains(c, "vorbis"):
		return "audio/ogg"
	case strings.Contains(c, "opus"):
		return "audio/opus"
	case strings.Contains(c, "flac"):
		return "audio/flac"
	}
	return "audio/mpeg"
}
