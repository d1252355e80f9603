package vbyte

import (
	"encoding/binary"

	"github.com/quiverdb/quiver/errs"
)

// WriteVarint appends value to w using the same LSB-first, 7-bit
// continuation-group varint mebo's timestamp encoders use via
// encoding/binary's PutUvarint — at most binary.MaxVarintLen32 bytes.
func WriteVarint(w *Writer, value uint32) int {
	var tmp [binary.MaxVarintLen32]byte
	n := binary.PutUvarint(tmp[:], uint64(value))
	return w.Write(tmp[:n])
}

// ReadVarint decodes a value written by WriteVarint.
func ReadVarint(r *Reader) (uint32, error) {
	v, n := binary.Uvarint(r.Current())
	if n <= 0 {
		return 0, errs.ErrInvalidVarint
	}
	if err := r.Skip(n); err != nil {
		return 0, err
	}
	return uint32(v), nil
}

// WriteVarintFieldMask appends a field mask using the wide (64-bit) form of
// the same varint algorithm — field masks index more than 32 fields once a
// schema grows past the common case.
func WriteVarintFieldMask(w *Writer, mask uint64) int {
	var tmp [binary.MaxVarintLen64]byte
	n := binary.PutUvarint(tmp[:], mask)
	return w.Write(tmp[:n])
}

// ReadVarintFieldMask decodes a value written by WriteVarintFieldMask.
func ReadVarintFieldMask(r *Reader) (uint64, error) {
	v, n := binary.Uvarint(r.Current())
	if n <= 0 {
		return 0, errs.ErrInvalidFieldMask
	}
	if err := r.Skip(n); err != nil {
		return 0, err
	}
	return v, nil
}

// ZigzagEncode maps a signed delta to an unsigned value so small negative
// and positive deltas both encode to few varint bytes, the same trick
// mebo's delta-of-delta timestamp encoder uses.
func ZigzagEncode(v int64) uint64 {
	return uint64((v << 1) ^ (v >> 63))
}

// ZigzagDecode reverses ZigzagEncode.
func ZigzagDecode(v uint64) int64 {
	return int64(v>>1) ^ -int64(v&1)
}

// VectorWriter accumulates a run of varint-encoded uint32s — the posting
// store's per-entry position vector — tracking count and byte length as it
// goes, mirroring RediSearch's VarintVectorWriter.
type VectorWriter struct {
	w     *Writer
	count int
}

// NewVectorWriter creates a VectorWriter over buf.
func NewVectorWriter(w *Writer) *VectorWriter {
	return &VectorWriter{w: w}
}

// Write appends one value to the vector.
func (vw *VectorWriter) Write(v uint32) {
	WriteVarint(vw.w, v)
	vw.count++
}

// Count returns the number of values written so far.
func (vw *VectorWriter) Count() int { return vw.count }

// ByteLength returns the number of encoded bytes written so far.
func (vw *VectorWriter) ByteLength() int { return vw.w.Offset() }

// Bytes returns the encoded vector's bytes.
func (vw *VectorWriter) Bytes() []byte { return vw.w.Bytes() }

// Reset clears the writer for reuse, keeping the underlying buffer's
// allocated capacity.
func (vw *VectorWriter) Reset() {
	vw.w.buf.Reset()
	vw.count = 0
}
