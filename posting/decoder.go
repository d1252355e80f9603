package posting

import (
	"math"

	"github.com/quiverdb/quiver/errs"
	"github.com/quiverdb/quiver/internal/vbyte"
	"github.com/quiverdb/quiver/record"
)

// Filter is the decoder's inline predicate (§3.4): it receives the
// just-decoded entry and reports whether the reader should yield it (true)
// or skip and keep decoding (false). A nil Filter always yields.
type Filter func(delta uint32, e *Entry) bool

// decodeRecord reads one record per flags' layout, applying filter inline,
// and reports whether it passed. delta is relative to the block's anchor
// (absolute docId in RawDocID mode).
func decodeRecord(r *vbyte.Reader, flags Flags, filter Filter, e *Entry) (delta uint32, keep bool, err error) {
	switch resolveLayout(flags) {
	case layoutFreqsFieldsOffsets:
		d, freq, fm, olen, derr := vbyte.DecodeQInt4(r)
		if derr != nil {
			return 0, false, derr
		}
		offs, derr := r.Read(int(olen))
		if derr != nil {
			return 0, false, derr
		}
		e.Freq = freq
		e.FieldMask = record.FieldMask{Lo: uint64(fm)}
		e.Offsets = offs
		delta = d
	case layoutFreqsFieldsWide:
		d, freq, derr := vbyte.DecodeQInt2(r)
		if derr != nil {
			return 0, false, derr
		}
		lo, derr := vbyte.ReadVarintFieldMask(r)
		if derr != nil {
			return 0, false, derr
		}
		hi, derr := vbyte.ReadVarintFieldMask(r)
		if derr != nil {
			return 0, false, derr
		}
		e.Freq = freq
		e.FieldMask = record.FieldMask{Lo: lo, Hi: hi}
		delta = d
	case layoutFreqsFieldsNarrow:
		d, freq, fm, derr := vbyte.DecodeQInt3(r)
		if derr != nil {
			return 0, false, derr
		}
		e.Freq = freq
		e.FieldMask = record.FieldMask{Lo: uint64(fm)}
		delta = d
	case layoutFreqsOnly:
		d, freq, derr := vbyte.DecodeQInt2(r)
		if derr != nil {
			return 0, false, derr
		}
		e.Freq = freq
		delta = d
	case layoutFieldsOnly:
		d, fm, derr := vbyte.DecodeQInt2(r)
		if derr != nil {
			return 0, false, derr
		}
		e.FieldMask = record.FieldMask{Lo: uint64(fm)}
		delta = d
	case layoutFieldsOffsets:
		d, fm, olen, derr := vbyte.DecodeQInt3(r)
		if derr != nil {
			return 0, false, derr
		}
		offs, derr := r.Read(int(olen))
		if derr != nil {
			return 0, false, derr
		}
		e.FieldMask = record.FieldMask{Lo: uint64(fm)}
		e.Offsets = offs
		delta = d
	case layoutOffsetsOnly:
		d, olen, derr := vbyte.DecodeQInt2(r)
		if derr != nil {
			return 0, false, derr
		}
		offs, derr := r.Read(int(olen))
		if derr != nil {
			return 0, false, derr
		}
		e.Offsets = offs
		delta = d
	case layoutFreqsOffsets:
		d, freq, olen, derr := vbyte.DecodeQInt3(r)
		if derr != nil {
			return 0, false, derr
		}
		offs, derr := r.Read(int(olen))
		if derr != nil {
			return 0, false, derr
		}
		e.Freq = freq
		e.Offsets = offs
		delta = d
	case layoutRawDocID:
		v, derr := r.ReadUint32()
		if derr != nil {
			return 0, false, derr
		}
		delta = v
	case layoutNumeric:
		d, val, derr := decodeNumeric(r)
		if derr != nil {
			return 0, false, derr
		}
		e.Value = val
		delta = d
	default: // layoutDeltaOnly
		d, derr := vbyte.ReadVarint(r)
		if derr != nil {
			return 0, false, derr
		}
		delta = d
	}

	if filter == nil {
		return delta, true, nil
	}
	return delta, filter(delta, e), nil
}

// decodeNumeric reads the header byte written first by encodeNumeric, then
// the delta bytes, then the type-specific value payload.
func decodeNumeric(r *vbyte.Reader) (delta uint32, value float64, err error) {
	header, err := r.ReadByte()
	if err != nil {
		return 0, 0, err
	}

	deltaBytes := int(header & 0x7)
	typ := (header >> 3) & 0x3
	typeSpecific := (header >> 5) & 0x7

	for i := 0; i < deltaBytes; i++ {
		b, derr := r.ReadByte()
		if derr != nil {
			return 0, 0, derr
		}
		delta |= uint32(b) << (8 * uint(i))
	}

	switch typ {
	case numTypeTiny:
		value = float64(typeSpecific)
	case numTypePosInt, numTypeNegInt:
		width := int(typeSpecific) + 1
		var uv uint64
		for i := 0; i < width; i++ {
			b, derr := r.ReadByte()
			if derr != nil {
				return 0, 0, derr
			}
			uv |= uint64(b) << (8 * uint(i))
		}
		if typ == numTypeNegInt {
			value = -float64(uv)
		} else {
			value = float64(uv)
		}
	case numTypeFloat:
		isInf := typeSpecific&0x2 != 0
		sign := typeSpecific&0x4 != 0
		if isInf {
			if sign {
				value = math.Inf(-1)
			} else {
				value = math.Inf(1)
			}
			break
		}
		wide := typeSpecific&0x1 != 0
		if wide {
			b, derr := r.Read(8)
			if derr != nil {
				return 0, 0, derr
			}
			bits := uint64(0)
			for i := 0; i < 8; i++ {
				bits |= uint64(b[i]) << (8 * uint(i))
			}
			value = math.Float64frombits(bits)
		} else {
			b, derr := r.Read(4)
			if derr != nil {
				return 0, 0, derr
			}
			bits := uint32(0)
			for i := 0; i < 4; i++ {
				bits |= uint32(b[i]) << (8 * uint(i))
			}
			value = float64(math.Float32frombits(bits))
		}
	default:
		return 0, 0, errs.ErrInvalidBlockHeader
	}

	return delta, value, nil
}
