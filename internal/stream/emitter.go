// Package stream turns a finished audio buffer into an ordered, finite
// sequence of byte chunks for transports that write incrementally.
package stream

import (
	"context"
	"io"
	"iter"
)

// DefaultChunkSize is used when a non-positive chunk size is requested
const DefaultChunkSize = 8192

// Emitter walks a buffer in fixed-size chunks. It is single-pass and not
// safe for concurrent use; once exhausted it stays exhausted.
type Emitter struct {
	buf       []byte
	chunkSize int
	offset    int
}

// New returns an emitter over buf. The buffer must not be modified while
// the emitter is in use.
func New(buf []byte, chunkSize int) *Emitter {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	return &Emitter{buf: buf, chunkSize: chunkSize}
}

// Next returns the next chunk, or nil and false once the buffer is consumed
func (e *Emitter) Next() ([]byte, bool) {
	if e.offset >= len(e.buf) {
		return nil, false
	}

	end := min(e.offset+e.chunkSize, len(e.buf))
	chunk := e.buf[e.offset:end:end]
	e.offset = end
	return chunk, true
}

// Chunks exposes the remaining chunks as an iterator sharing the
// emitter's cursor
func (e *Emitter) Chunks() iter.Seq[[]byte] {
	return func(yield func([]byte) bool) {
		for {
			chunk, ok := e.Next()
			if !ok || !yield(chunk) {
				return
			}
		}
	}
}

// Len returns the total payload size in bytes
func (e *Emitter) Len() int {
	return len(e.buf)
}

// Remaining returns how many bytes have not been emitted yet
func (e *Emitter) Remaining() int {
	return len(e.buf) - e.offset
}

// ChunkSize returns the configured chunk size
func (e *Emitter) ChunkSize() int {
	return e.chunkSize
}

// WriteTo copies the remaining chunks to w, flushing after each one when w
// supports it. It stops quietly when ctx is done; the returned error is the
// writer's, if any.
func (e *Emitter) WriteTo(ctx context.Context, w io.Writer) (int64, error) {
	var written int64
	flusher, _ := w.(interface{ Flush() })

	for chunk := range e.Chunks() {
		if ctx.Err() != nil {
			return written, nil
		}

		n, err := w.Write(chunk)
		written += int64(n)
		if err != nil {
			return written, err
		}
		if flusher != nil {
			flusher.Flush()
		}
	}
	return written, nil
}
