// Package output persists generated numbers to size-bounded text files.
package output

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"

	"github.com/geradorbr/cnpj-tools/internal/cnpj"
	applog "github.com/geradorbr/cnpj-tools/pkg/log"
)

// component names this package in structured logs.
const component = "output.writer"

// ProgressFunc receives the monotonically increasing total of written
// lines. It is invoked inline on the write path and must not block; slow
// sinks should hand off internally.
type ProgressFunc func(total uint64)

// Config parameterizes a Writer for one run.
type Config struct {
	// Prefix is the output path without extension. Chunked runs produce
	// prefix_NNNNN.txt, single-file runs produce prefix.txt.
	Prefix string

	// ChunkSize caps the number of lines per file; 0 writes one file.
	ChunkSize uint64

	// Masked selects the display rendering DD.DDD.DDD/DDDD-DD for every
	// line of the run.
	Masked bool

	// ProgressEvery reports the running total to OnProgress after every
	// multiple of this many lines; 0 disables reporting.
	ProgressEvery uint64
	OnProgress    ProgressFunc
}

// Writer streams one identifier per line across one or more chunk files.
// A line is never split across files: rotation happens only between lines,
// and Close flushes the current buffer, so files stay valid up to the last
// fully written line even when a run is stopped early.
//
// Writer is not safe for concurrent use; the engine drains strategies from
// a single goroutine.
type Writer struct {
	cfg Config

	file *os.File
	buf  *bufio.Writer

	chunkIndex uint64 // 1-based index of the open chunk
	chunkLines uint64 // lines written to the open chunk
	total      uint64 // lines written across all chunks
	closed     bool
}

var _ interface{ Write(cnpj.CNPJ) error } = (*Writer)(nil)

// NewWriter creates the output directory and opens the first file eagerly,
// so an unwritable destination fails the run before any generation work.
func NewWriter(cfg Config) (*Writer, error) {
	if cfg.Prefix == "" {
		return nil, ErrEmptyPrefix
	}

	if dir := filepath.Dir(cfg.Prefix); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, NewErrDirectoryCreationFailed(err, dir)
		}
	}

	w := &Writer{cfg: cfg}
	if err := w.openNextChunk(); err != nil {
		return nil, err
	}
	return w, nil
}

// Write appends one identifier line, rotating to a new chunk file when the
// current one is full.
func (w *Writer) Write(c cnpj.CNPJ) error {
	if w.closed {
		return ErrWriterClosed
	}

	if w.cfg.ChunkSize > 0 && w.chunkLines >= w.cfg.ChunkSize {
		if err := w.closeCurrentChunk(); err != nil {
			return err
		}
		if err := w.openNextChunk(); err != nil {
			return err
		}
	}

	line := c.String()
	if w.cfg.Masked {
		line = c.Masked()
	}

	if _, err := w.buf.WriteString(line); err != nil {
		return NewErrWriteFailed(err, w.file.Name())
	}
	if err := w.buf.WriteByte('\n'); err != nil {
		return NewErrWriteFailed(err, w.file.Name())
	}

	w.chunkLines++
	w.total++

	if w.cfg.ProgressEvery > 0 && w.total%w.cfg.ProgressEvery == 0 && w.cfg.OnProgress != nil {
		w.cfg.OnProgress(w.total)
	}

	return nil
}

// Total returns the number of lines accepted so far.
func (w *Writer) Total() uint64 {
	return w.total
}

// Close flushes and closes the open chunk. It is idempotent; the first
// error wins.
func (w *Writer) Close() error {
	if w.closed {
		return nil
	}
	w.closed = true

	return w.closeCurrentChunk()
}

// chunkPath names chunk files prefix_00001.txt, prefix_00002.txt, ... or
// a single prefix.txt when chunking is disabled.
func (w *Writer) chunkPath(index uint64) string {
	if w.cfg.ChunkSize == 0 {
		return w.cfg.Prefix + ".txt"
	}
	return fmt.Sprintf("%s_%05d.txt", w.cfg.Prefix, index)
}

func (w *Writer) openNextChunk() error {
	w.chunkIndex++
	path := w.chunkPath(w.chunkIndex)

	file, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return NewErrOpenFailed(err, path)
	}

	w.file = file
	w.buf = bufio.NewWriter(file)
	w.chunkLines = 0

	if w.cfg.ChunkSize > 0 {
		applog.WithComponentAndFields(component, applog.Fields{
			"file":  path,
			"chunk": w.chunkIndex,
		}).Debug("opened output chunk")
	}

	return nil
}

// closeCurrentChunk flushes, syncs and closes the open file. Sync makes
// finished chunks durable before the next one starts filling.
func (w *Writer) closeCurrentChunk() error {
	if w.file == nil {
		return nil
	}

	var firstErr error
	if err := w.buf.Flush(); err != nil {
		firstErr = NewErrWriteFailed(err, w.file.Name())
	}
	if err := w.file.Sync(); err != nil && firstErr == nil {
		firstErr = NewErrWriteFailed(err, w.file.Name())
	}
	if err := w.file.Close(); err != nil && firstErr == nil {
		firstErr = NewErrWriteFailed(err, w.file.Name())
	}

	w.file = nil
	w.buf = nil
	return firstErr
}
