// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package source

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"os"

	jsoniter "github.com/json-iterator/go"

	"github.com/wavefunc/stationmerge/internal/station"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const maxLineSize = 4 << 20

// JSONL reads one JSON-encoded station.Record per line. Blank lines and
// lines starting with '#' are ignored.
type JSONL struct {
	path string
	open func() (io.ReadCloser, error)
}

// NewJSONL returns a source reading path.
func NewJSONL(path string) *JSONL {
	return &JSONL{
		path: path,
		open: func() (io.ReadCloser, error) { return os.Open(path) },
	}
}

// NewJSONLReader returns a source reading r once.
func NewJSONLReader(r io.Reader) *JSONL {
	return &JSONL{
		path: "<reader>",
		open: func() (io.ReadCloser, error) { return io.NopCloser(r), nil },
	}
}

// Records decodes every line. A line that is not valid JSON aborts the read
// with its line number.
func (s *JSONL) Records(ctx context.Context) ([]station.Record, error) {
	f, err := s.open()
	if err != nil {
		return nil, fmt.Errorf("open jsonl %s: %w", s.path, err)
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 64*1024), maxLineSize)

	var out []station.Record
	line := 0
	for sc.Scan() {
		line++
		if line%10000 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		raw := bytes.TrimSpace(sc.Bytes())
		if len(raw) == 0 || raw[0] == '#' {
			continue
		}
		var r station.Record
		if err := json.Unmarshal(raw, &r); err != nil {
			return nil, fmt.Errorf("%s:%d: %w", s.path, line, err)
		}
		out = append(out, r)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("scan jsonl %s: %w", s.path, err)
	}
	return out, nil
}

// Lookups is always empty for JSON-lines exports.
func (s *JSONL) Lookups(context.Context) (Lookups, error) {
	return Lookups{}, nil
}

func (s *JSONL) Close() error { return nil }
