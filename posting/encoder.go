package posting

import (
	"math"

	"github.com/quiverdb/quiver/internal/vbyte"
)

// Narrow field masks (Flags.StoreFieldMask) pack into a qint tuple
// alongside the delta, so they're limited to 32 bits — the common case for
// schemas under 32 text fields. Wide masks (Flags.StoreFieldMaskWide)
// varint-encode the full 64+64-bit record.FieldMask and have no such limit.

// encodeRecord appends one record's encoded bytes to w per flags' layout,
// returning the number of bytes written. delta is relative to the block's
// anchor (lastId); in raw-docid mode it is the absolute docId instead. See
// resolveLayout.
func encodeRecord(w *vbyte.Writer, flags Flags, delta uint32, e Entry) int {
	switch resolveLayout(flags) {
	case layoutFreqsFieldsOffsets:
		n := vbyte.EncodeQInt4(w, delta, e.Freq, uint32(e.FieldMask.Lo), uint32(len(e.Offsets)))
		return n + w.Write(e.Offsets)
	case layoutFreqsFieldsWide:
		n := vbyte.EncodeQInt2(w, delta, e.Freq)
		n += vbyte.WriteVarintFieldMask(w, e.FieldMask.Lo)
		n += vbyte.WriteVarintFieldMask(w, e.FieldMask.Hi)
		return n
	case layoutFreqsFieldsNarrow:
		return vbyte.EncodeQInt3(w, delta, e.Freq, uint32(e.FieldMask.Lo))
	case layoutFreqsOnly:
		return vbyte.EncodeQInt2(w, delta, e.Freq)
	case layoutFieldsOnly:
		return vbyte.EncodeQInt2(w, delta, uint32(e.FieldMask.Lo))
	case layoutFieldsOffsets:
		n := vbyte.EncodeQInt3(w, delta, uint32(e.FieldMask.Lo), uint32(len(e.Offsets)))
		return n + w.Write(e.Offsets)
	case layoutOffsetsOnly:
		n := vbyte.EncodeQInt2(w, delta, uint32(len(e.Offsets)))
		return n + w.Write(e.Offsets)
	case layoutFreqsOffsets:
		n := vbyte.EncodeQInt3(w, delta, e.Freq, uint32(len(e.Offsets)))
		return n + w.Write(e.Offsets)
	case layoutRawDocID:
		// delta here is actually the absolute docId; caller (AddEntry)
		// arranges that for RawDocID layout.
		var buf [4]byte
		buf[0] = byte(delta)
		buf[1] = byte(delta >> 8)
		buf[2] = byte(delta >> 16)
		buf[3] = byte(delta >> 24)
		return w.Write(buf[:])
	case layoutNumeric:
		return encodeNumeric(w, delta, e.Value)
	default: // layoutDeltaOnly
		return vbyte.WriteVarint(w, delta)
	}
}

// Numeric header bit layout (LSB first): delta-bytes:3 | type:2 | type-specific:3.
const (
	numTypeTiny   = 0
	numTypePosInt = 1
	numTypeNegInt = 2
	numTypeFloat  = 3
)

func numericDeltaBytes(delta uint32) int {
	n := 0
	v := delta
	for {
		n++
		v >>= 8
		if v == 0 {
			break
		}
		if n == 7 {
			break
		}
	}
	return n
}

func intBytesNeeded(v uint64) int {
	n := 1
	for v>>(8*uint(n)) != 0 {
		n++
	}
	return n
}

// encodeNumeric writes a header byte first (so the decoder knows the delta
// width before it needs it), then the delta bytes, then the value payload
// (0 bytes for tiny/infinity, 1-8 bytes otherwise), per §4.1.4.
func encodeNumeric(w *vbyte.Writer, delta uint32, value float64) int {
	deltaBytes := numericDeltaBytes(delta)
	var header byte
	header |= byte(deltaBytes & 0x7)
	n := 0

	writeDelta := func() {
		for i := 0; i < deltaBytes; i++ {
			w.WriteByte(byte(delta >> (8 * uint(i))))
			n++
		}
	}

	switch {
	case math.IsInf(value, 1):
		header |= numTypeFloat << 3
		header |= 1 << 6 // is-inf bit
		w.WriteByte(header)
		n++
		writeDelta()
		return n
	case math.IsInf(value, -1):
		header |= numTypeFloat << 3
		header |= (1 << 6) | (1 << 7) // is-inf + sign
		w.WriteByte(header)
		n++
		writeDelta()
		return n
	case value == math.Trunc(value) && value >= 0 && value <= 7:
		header |= numTypeTiny << 3
		header |= byte(int64(value)) << 5
		w.WriteByte(header)
		n++
		writeDelta()
		return n
	case value == math.Trunc(value) && math.Abs(value) < float64(1<<62):
		iv := int64(value)
		typ := byte(numTypePosInt)
		uv := uint64(iv)
		if iv < 0 {
			typ = numTypeNegInt
			uv = uint64(-iv)
		}
		width := intBytesNeeded(uv)
		if width > 8 {
			width = 8
		}
		header |= typ << 3
		header |= byte(width-1) << 5
		w.WriteByte(header)
		n++
		writeDelta()
		for i := 0; i < width; i++ {
			w.WriteByte(byte(uv >> (8 * uint(i))))
			n++
		}
		return n
	default:
		f32 := float32(value)
		if float64(f32) == value {
			header |= numTypeFloat << 3
			w.WriteByte(header)
			n++
			writeDelta()
			bits := math.Float32bits(f32)
			var buf [4]byte
			buf[0] = byte(bits)
			buf[1] = byte(bits >> 8)
			buf[2] = byte(bits >> 16)
			buf[3] = byte(bits >> 24)
			n += w.Write(buf[:])
			return n
		}
		header |= numTypeFloat << 3
		header |= 1 << 5 // width selector: 8 bytes
		w.WriteByte(header)
		n++
		writeDelta()
		bits := math.Float64bits(value)
		var buf [8]byte
		for i := 0; i < 8; i++ {
			buf[i] = byte(bits >> (8 * uint(i)))
		}
		n += w.Write(buf[:])
		return n
	}
}
