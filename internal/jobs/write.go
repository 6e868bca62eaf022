// SPDX-License-Identifier: MIT

package jobs

import (
	"bufio"
	"context"
	"fmt"
	"io"

	"github.com/google/renameio/v2"
	jsoniter "github.com/json-iterator/go"

	xglog "github.com/wavefunc/stationmerge/internal/log"
	"github.com/wavefunc/stationmerge/internal/store"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// AtomicWriter writes files through renameio: temp file, fsync, rename.
type AtomicWriter struct{}

// WriteAtomic replaces path with whatever write produces. On error the
// previous file is left untouched.
func (AtomicWriter) WriteAtomic(ctx context.Context, path string, write func(io.Writer) error) error {
	logger := xglog.FromContext(ctx)

	// renameio handles: temp file creation, fsync, atomic rename, cleanup on error
	pendingFile, err := renameio.NewPendingFile(path, renameio.WithPermissions(0o644))
	if err != nil {
		return fmt.Errorf("create pending file: %w", err)
	}
	defer func() {
		if err := pendingFile.Cleanup(); err != nil {
			logger.Debug().Err(err).Str("path", path).Msg("cleanup pending file")
		}
	}()

	bw := bufio.NewWriter(pendingFile)
	if err := write(bw); err != nil {
		return err
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("flush: %w", err)
	}

	// CloseAtomicallyReplace: fsync + rename (durable + atomic)
	if err := pendingFile.CloseAtomicallyReplace(); err != nil {
		return fmt.Errorf("atomically replace %s: %w", path, err)
	}
	return nil
}

// encodeRows writes one JSON object per line.
func encodeRows(w io.Writer, rows []store.Row) error {
	stream := json.BorrowStream(w)
	defer json.ReturnStream(stream)

	for i := range rows {
		stream.WriteVal(rows[i])
		stream.WriteRaw("\n")
		if stream.Error != nil {
			return fmt.Errorf("encode station %s: %w", rows[i].StationUUID, stream.Error)
		}
		if stream.Buffered() > 64*1024 {
			if err := stream.Flush(); err != nil {
				return fmt.Errorf("write export: %w", err)
			}
		}
	}
	if err := stream.Flush(); err != nil {
		return fmt.Errorf("write export: %w", err)
	}
	return nil
}

func writeExport(ctx context.Context, w FileWriter, path string, rows []store.Row) error {
	return w.WriteAtomic(ctx, path, func(out io.Writer) error {
		return encodeRows(out, rows)
	})
}
