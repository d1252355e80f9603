package vbyte

import (
	"testing"

	"github.com/quiverdb/quiver/internal/pool"
	"github.com/stretchr/testify/require"
)

func newTestWriter() *Writer {
	return NewWriter(pool.NewByteBuffer(64))
}

func TestEncodeDecodeQInt2(t *testing.T) {
	w := newTestWriter()
	n := EncodeQInt2(w, 1, 300000)
	require.Greater(t, n, 0)

	r := NewReader(w.Bytes())
	i1, i2, err := DecodeQInt2(r)
	require.NoError(t, err)
	require.Equal(t, uint32(1), i1)
	require.Equal(t, uint32(300000), i2)
	require.True(t, r.AtEnd())
}

func TestEncodeDecodeQInt3(t *testing.T) {
	w := newTestWriter()
	EncodeQInt3(w, 0, 255, 1<<20)

	r := NewReader(w.Bytes())
	i1, i2, i3, err := DecodeQInt3(r)
	require.NoError(t, err)
	require.Equal(t, uint32(0), i1)
	require.Equal(t, uint32(255), i2)
	require.Equal(t, uint32(1<<20), i3)
}

func TestEncodeDecodeQInt4(t *testing.T) {
	w := newTestWriter()
	EncodeQInt4(w, 7, 1<<8, 1<<16, 1<<24)

	r := NewReader(w.Bytes())
	i1, i2, i3, i4, err := DecodeQInt4(r)
	require.NoError(t, err)
	require.Equal(t, uint32(7), i1)
	require.Equal(t, uint32(1<<8), i2)
	require.Equal(t, uint32(1<<16), i3)
	require.Equal(t, uint32(1<<24), i4)
}

func TestEncodeQInt2_MultipleSequential(t *testing.T) {
	w := newTestWriter()
	EncodeQInt2(w, 10, 20)
	EncodeQInt2(w, 30, 40)

	r := NewReader(w.Bytes())
	i1, i2, err := DecodeQInt2(r)
	require.NoError(t, err)
	require.Equal(t, uint32(10), i1)
	require.Equal(t, uint32(20), i2)

	i1, i2, err = DecodeQInt2(r)
	require.NoError(t, err)
	require.Equal(t, uint32(30), i1)
	require.Equal(t, uint32(40), i2)
	require.True(t, r.AtEnd())
}

func TestDecodeQInt2_TruncatedBuffer(t *testing.T) {
	w := newTestWriter()
	EncodeQInt2(w, 1, 70000)

	r := NewReader(w.Bytes()[:1]) // leading byte only, no payload
	_, _, err := DecodeQInt2(r)
	require.Error(t, err)
}
