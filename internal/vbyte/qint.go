package vbyte

import "github.com/quiverdb/quiver/errs"

// qint packs 2-4 uint32s behind one leading byte whose 2-bit fields record
// each value's encoded byte width (0 => 1 byte, 1 => 2 bytes, 2 => 3 bytes,
// 3 => 4 bytes). This is the grouped-varint layout the posting block uses
// for (docId-delta, freq) and (docId-delta, freq, fieldMask) tuples.
//
// Ported from RediSearch's qint_encode2/3/4 / qint_decode2/3/4.

func qintEncodeOne(leading *byte, w *Writer, v uint32, slot int) int {
	n := 0
	for {
		w.WriteByte(byte(v))
		n++
		v >>= 8
		if v == 0 {
			break
		}
	}
	*leading |= byte(n-1) << (slot * 2)
	return n
}

// EncodeQInt2 writes i1, i2 behind one leading byte and returns the total
// bytes written (including the leading byte).
func EncodeQInt2(w *Writer, i1, i2 uint32) int {
	pos := w.Offset()
	w.WriteByte(0)
	var leading byte
	n := qintEncodeOne(&leading, w, i1, 0)
	n += qintEncodeOne(&leading, w, i2, 1)
	_ = w.WriteAt(pos, []byte{leading})
	return n + 1
}

// EncodeQInt3 writes i1, i2, i3 behind one leading byte.
func EncodeQInt3(w *Writer, i1, i2, i3 uint32) int {
	pos := w.Offset()
	w.WriteByte(0)
	var leading byte
	n := qintEncodeOne(&leading, w, i1, 0)
	n += qintEncodeOne(&leading, w, i2, 1)
	n += qintEncodeOne(&leading, w, i3, 2)
	_ = w.WriteAt(pos, []byte{leading})
	return n + 1
}

// EncodeQInt4 writes i1, i2, i3, i4 behind one leading byte.
func EncodeQInt4(w *Writer, i1, i2, i3, i4 uint32) int {
	pos := w.Offset()
	w.WriteByte(0)
	var leading byte
	n := qintEncodeOne(&leading, w, i1, 0)
	n += qintEncodeOne(&leading, w, i2, 1)
	n += qintEncodeOne(&leading, w, i3, 2)
	n += qintEncodeOne(&leading, w, i4, 3)
	_ = w.WriteAt(pos, []byte{leading})
	return n + 1
}

func qintWidth(leading byte, slot int) int {
	return int((leading>>(slot*2))&0x03) + 1
}

func qintDecodeOne(p []byte, width int) uint32 {
	var v uint32
	for i := 0; i < width; i++ {
		v |= uint32(p[i]) << (8 * i)
	}
	return v
}

// DecodeQInt2 reads a tuple written by EncodeQInt2.
func DecodeQInt2(r *Reader) (i1, i2 uint32, err error) {
	data := r.Current()
	if len(data) < 1 {
		return 0, 0, errs.ErrInvalidQIntWidth
	}
	leading := data[0]
	p := data[1:]
	total := 0

	w1 := qintWidth(leading, 0)
	if len(p) < w1 {
		return 0, 0, errs.ErrBufferTooShort
	}
	i1 = qintDecodeOne(p, w1)
	p = p[w1:]
	total += w1

	w2 := qintWidth(leading, 1)
	if len(p) < w2 {
		return 0, 0, errs.ErrBufferTooShort
	}
	i2 = qintDecodeOne(p, w2)
	total += w2

	if err := r.Skip(total + 1); err != nil {
		return 0, 0, err
	}
	return i1, i2, nil
}

// DecodeQInt3 reads a tuple written by EncodeQInt3.
func DecodeQInt3(r *Reader) (i1, i2, i3 uint32, err error) {
	data := r.Current()
	if len(data) < 1 {
		return 0, 0, 0, errs.ErrInvalidQIntWidth
	}
	leading := data[0]
	p := data[1:]
	total := 0

	widths := [3]int{qintWidth(leading, 0), qintWidth(leading, 1), qintWidth(leading, 2)}
	vals := [3]uint32{}
	for i, width := range widths {
		if len(p) < width {
			return 0, 0, 0, errs.ErrBufferTooShort
		}
		vals[i] = qintDecodeOne(p, width)
		p = p[width:]
		total += width
	}

	if err := r.Skip(total + 1); err != nil {
		return 0, 0, 0, err
	}
	return vals[0], vals[1], vals[2], nil
}

// DecodeQInt4 reads a tuple written by EncodeQInt4.
func DecodeQInt4(r *Reader) (i1, i2, i3, i4 uint32, err error) {
	data := r.Current()
	if len(data) < 1 {
		return 0, 0, 0, 0, errs.ErrInvalidQIntWidth
	}
	leading := data[0]
	p := data[1:]
	total := 0

	widths := [4]int{qintWidth(leading, 0), qintWidth(leading, 1), qintWidth(leading, 2), qintWidth(leading, 3)}
	vals := [4]uint32{}
	for i, width := range widths {
		if len(p) < width {
			return 0, 0, 0, 0, errs.ErrBufferTooShort
		}
		vals[i] = qintDecodeOne(p, width)
		p = p[width:]
		total += width
	}

	if err := r.Skip(total + 1); err != nil {
		return 0, 0, 0, 0, err
	}
	return vals[0], vals[1], vals[2], vals[3], nil
}
