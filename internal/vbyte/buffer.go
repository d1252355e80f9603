// Package vbyte implements the variable-byte primitives the posting store
// is built on: a growable write buffer, a cursor-based read buffer, and the
// varint/qint codecs layered on top of them.
//
// The wire format is little-endian throughout (matching RediSearch's
// on-disk posting layout); callers that need the opposite byte order use
// the endian package's EndianEngine directly instead of this package.
package vbyte

import (
	"encoding/binary"

	"github.com/quiverdb/quiver/errs"
	"github.com/quiverdb/quiver/internal/pool"
)

// Writer is an append-only byte sink with a WriteAt patch-back operation,
// modeled on RediSearch's BufferWriter (a single leading byte is reserved,
// written with a placeholder, then patched once the payload's shape is
// known — qint's leading byte, a block's entry count, ...).
type Writer struct {
	buf *pool.ByteBuffer
}

// NewWriter wraps a pooled byte buffer for writing. Callers own the
// buffer's lifetime; use pool.PutPostingBlockBuffer to return it.
func NewWriter(buf *pool.ByteBuffer) *Writer {
	return &Writer{buf: buf}
}

// Offset returns the current write position (== length of the buffer).
func (w *Writer) Offset() int {
	return w.buf.Len()
}

// WriteByte appends a single byte.
func (w *Writer) WriteByte(b byte) {
	w.buf.B = append(w.buf.B, b)
}

// Write appends data and returns the number of bytes written.
func (w *Writer) Write(data []byte) int {
	w.buf.MustWrite(data)
	return len(data)
}

// WriteAt overwrites len(data) bytes starting at pos. pos+len(data) must
// not exceed the current buffer length.
func (w *Writer) WriteAt(pos int, data []byte) error {
	if pos < 0 || pos+len(data) > w.buf.Len() {
		return errs.ErrBufferOverflow
	}
	copy(w.buf.B[pos:pos+len(data)], data)
	return nil
}

// Bytes returns the buffer's contents written so far.
func (w *Writer) Bytes() []byte {
	return w.buf.Bytes()
}

// Reader is a cursor over a read-only byte slice, modeled on RediSearch's
// BufferReader (pos/cap tracked separately from the underlying data so
// multiple readers can share one block's bytes).
type Reader struct {
	data []byte
	pos  int
}

// NewReader creates a Reader over data, positioned at the start.
func NewReader(data []byte) *Reader {
	return &Reader{data: data}
}

// Pos returns the current read offset.
func (r *Reader) Pos() int { return r.pos }

// Len returns the total number of bytes available.
func (r *Reader) Len() int { return len(r.data) }

// AtEnd reports whether the cursor has consumed all bytes.
func (r *Reader) AtEnd() bool { return r.pos >= len(r.data) }

// Remaining returns the number of unread bytes.
func (r *Reader) Remaining() int { return len(r.data) - r.pos }

// Current returns the unread tail of the buffer without advancing.
func (r *Reader) Current() []byte { return r.data[r.pos:] }

// Seek moves the cursor to an absolute offset.
func (r *Reader) Seek(pos int) error {
	if pos < 0 || pos > len(r.data) {
		return errs.ErrBufferTooShort
	}
	r.pos = pos
	return nil
}

// Skip advances the cursor by n bytes.
func (r *Reader) Skip(n int) error {
	return r.Seek(r.pos + n)
}

// ReadByte consumes and returns one byte.
func (r *Reader) ReadByte() (byte, error) {
	if r.pos >= len(r.data) {
		return 0, errs.ErrBufferTooShort
	}
	b := r.data[r.pos]
	r.pos++
	return b, nil
}

// Read consumes n bytes and returns a slice referencing the underlying
// data (no copy).
func (r *Reader) Read(n int) ([]byte, error) {
	if r.pos+n > len(r.data) {
		return nil, errs.ErrBufferTooShort
	}
	out := r.data[r.pos : r.pos+n]
	r.pos += n
	return out, nil
}

// ReadUint32 reads a fixed 4-byte little-endian uint32.
func (r *Reader) ReadUint32() (uint32, error) {
	b, err := r.Read(4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b), nil
}
