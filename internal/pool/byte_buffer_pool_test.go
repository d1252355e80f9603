package pool

import (
	"bytes"
	"io"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// =============================================================================
// ByteBuffer Tests
// =============================================================================

func TestNewByteBuffer(t *testing.T) {
	capacity := 1024
	bb := NewByteBuffer(capacity)

	require.NotNil(t, bb)
	require.NotNil(t, bb.B)
	assert.Equal(t, 0, len(bb.B), "new buffer should have zero length")
	assert.Equal(t, capacity, cap(bb.B), "new buffer should have specified capacity")
}

func TestByteBuffer_Bytes(t *testing.T) {
	bb := NewByteBuffer(PostingBlockBufferDefaultSize)
	bb.B = append(bb.B, []byte("hello")...)

	got := bb.Bytes()

	assert.Equal(t, []byte("hello"), got)
	assert.True(t, &bb.B[0] == &got[0], "Bytes() should return the same underlying slice")
}

func TestByteBuffer_Reset(t *testing.T) {
	bb := NewByteBuffer(PostingBlockBufferDefaultSize)
	bb.B = append(bb.B, []byte("some data")...)
	originalCap := cap(bb.B)

	bb.Reset()

	assert.Equal(t, 0, len(bb.B), "Reset should clear the buffer length")
	assert.Equal(t, originalCap, cap(bb.B), "Reset should preserve capacity")
}

func TestByteBuffer_Len(t *testing.T) {
	bb := NewByteBuffer(PostingBlockBufferDefaultSize)

	assert.Equal(t, 0, bb.Len(), "empty buffer should have zero length")

	bb.B = append(bb.B, []byte("test")...)
	assert.Equal(t, 4, bb.Len(), "buffer length should match data")

	bb.B = append(bb.B, []byte(" data")...)
	assert.Equal(t, 9, bb.Len(), "buffer length should update after append")
}

func TestByteBuffer_MustWrite(t *testing.T) {
	bb := NewByteBuffer(PostingBlockBufferDefaultSize)

	bb.MustWrite([]byte("hello"))
	assert.Equal(t, []byte("hello"), bb.B)

	bb.MustWrite([]byte(" world"))
	assert.Equal(t, []byte("hello world"), bb.B)
}

func TestByteBuffer_Write(t *testing.T) {
	bb := NewByteBuffer(PostingBlockBufferDefaultSize)

	n, err := bb.Write([]byte("hello"))
	require.NoError(t, err)
	assert.Equal(t, 5, n)
	assert.Equal(t, []byte("hello"), bb.B)
}

func TestByteBuffer_WriteTo(t *testing.T) {
	bb := NewByteBuffer(PostingBlockBufferDefaultSize)
	bb.B = append(bb.B, []byte("test data")...)

	var buf bytes.Buffer
	n, err := bb.WriteTo(&buf)

	require.NoError(t, err)
	assert.Equal(t, int64(9), n)
	assert.Equal(t, "test data", buf.String())
}

func TestByteBuffer_WriteTo_ErrorPropagation(t *testing.T) {
	bb := NewByteBuffer(PostingBlockBufferDefaultSize)
	bb.B = append(bb.B, []byte("test")...)

	errorWriter := &errorWriter{err: io.ErrShortWrite}
	n, err := bb.WriteTo(errorWriter)

	assert.Error(t, err)
	assert.Equal(t, io.ErrShortWrite, err)
	assert.Equal(t, int64(0), n)
}

// =============================================================================
// ByteBuffer Grow Tests
// =============================================================================

func TestByteBuffer_Grow_SufficientCapacity(t *testing.T) {
	bb := NewByteBuffer(PostingBlockBufferDefaultSize)
	originalCap := cap(bb.B)

	bb.Grow(100)

	assert.Equal(t, originalCap, cap(bb.B), "should not reallocate when capacity is sufficient")
}

func TestByteBuffer_Grow_PreservesData(t *testing.T) {
	bb := NewByteBuffer(PostingBlockBufferDefaultSize)
	testData := []byte("important data that must be preserved")
	bb.B = append(bb.B, testData...)

	bb.Grow(PostingBlockBufferDefaultSize * 2)

	assert.Equal(t, testData, bb.B, "data should be preserved after growth")
}

func TestByteBuffer_Grow_ZeroBytes(t *testing.T) {
	bb := NewByteBuffer(PostingBlockBufferDefaultSize)
	originalCap := cap(bb.B)

	bb.Grow(0)

	assert.Equal(t, originalCap, cap(bb.B), "Grow(0) should not change capacity")
}

func TestByteBuffer_Grow_ExactRequiredBytes(t *testing.T) {
	bb := NewByteBuffer(PostingBlockBufferDefaultSize)
	bb.B = append(bb.B, make([]byte, PostingBlockBufferDefaultSize)...)

	bb.Grow(1)

	assert.Greater(t, cap(bb.B), PostingBlockBufferDefaultSize, "should have grown")
}

// =============================================================================
// Extend / SetLength / Slice Tests
// =============================================================================

func TestByteBuffer_Extend(t *testing.T) {
	bb := NewByteBuffer(16)
	ok := bb.Extend(8)
	require.True(t, ok)
	assert.Equal(t, 8, bb.Len())
}

func TestByteBuffer_Extend_InsufficientCapacity(t *testing.T) {
	bb := NewByteBuffer(4)
	ok := bb.Extend(100)
	require.False(t, ok)
}

func TestByteBuffer_ExtendOrGrow(t *testing.T) {
	bb := NewByteBuffer(4)
	bb.ExtendOrGrow(100)
	assert.Equal(t, 100, bb.Len())
	assert.GreaterOrEqual(t, bb.Cap(), 100)
}

func TestByteBuffer_SetLength(t *testing.T) {
	bb := NewByteBuffer(16)
	bb.SetLength(10)
	assert.Equal(t, 10, bb.Len())
}

func TestByteBuffer_Slice(t *testing.T) {
	bb := NewByteBuffer(16)
	bb.MustWrite([]byte("0123456789"))
	got := bb.Slice(2, 5)
	assert.Equal(t, []byte("234"), got)
}

// =============================================================================
// Pool Tests
// =============================================================================

func TestGetPostingBlockBuffer(t *testing.T) {
	bb := GetPostingBlockBuffer()

	require.NotNil(t, bb)
	require.NotNil(t, bb.B)
	assert.Equal(t, 0, len(bb.B), "pooled buffer should be empty")
	assert.GreaterOrEqual(t, cap(bb.B), PostingBlockBufferDefaultSize)
}

func TestPutPostingBlockBuffer_NilBuffer(t *testing.T) {
	assert.NotPanics(t, func() {
		PutPostingBlockBuffer(nil)
	})
}

func TestPostingBlockBuffer_ReusePattern(t *testing.T) {
	bb1 := GetPostingBlockBuffer()
	bb1.B = append(bb1.B, []byte("test data")...)

	PutPostingBlockBuffer(bb1)

	bb2 := GetPostingBlockBuffer()
	assert.Equal(t, 0, len(bb2.B), "buffer from pool should be reset")
}

func TestPostingBlockBuffer_ResetOnPut(t *testing.T) {
	bb := GetPostingBlockBuffer()
	bb.B = append(bb.B, []byte("sensitive data")...)

	PutPostingBlockBuffer(bb)

	assert.Equal(t, 0, len(bb.B), "PutPostingBlockBuffer should reset the buffer")
}

func TestPostingBlockBuffer_MultipleGetsAndPuts(t *testing.T) {
	buffers := make([]*ByteBuffer, 10)

	for i := range buffers {
		buffers[i] = GetPostingBlockBuffer()
		require.NotNil(t, buffers[i])
		buffers[i].MustWrite([]byte("data"))
	}

	for _, bb := range buffers {
		PutPostingBlockBuffer(bb)
	}

	for i := 0; i < 10; i++ {
		bb := GetPostingBlockBuffer()
		assert.Equal(t, 0, bb.Len(), "each buffer should be reset")
		PutPostingBlockBuffer(bb)
	}
}

func TestPostingBlockBuffer_ConcurrentAccess(t *testing.T) {
	const numGoroutines = 50
	const numIterations = 200

	var wg sync.WaitGroup
	wg.Add(numGoroutines)

	for i := 0; i < numGoroutines; i++ {
		go func() {
			defer wg.Done()
			for j := 0; j < numIterations; j++ {
				bb := GetPostingBlockBuffer()
				bb.MustWrite([]byte("data"))
				assert.Equal(t, 4, bb.Len())
				PutPostingBlockBuffer(bb)
			}
		}()
	}

	wg.Wait()
}

func TestGetSnapshotBuffer(t *testing.T) {
	bb := GetSnapshotBuffer()

	require.NotNil(t, bb)
	require.NotNil(t, bb.B)
	assert.Equal(t, 0, len(bb.B))
	assert.GreaterOrEqual(t, cap(bb.B), SnapshotBufferDefaultSize)
}

func TestPutSnapshotBuffer(t *testing.T) {
	bb := GetSnapshotBuffer()
	bb.MustWrite([]byte("test data"))

	assert.NotPanics(t, func() {
		PutSnapshotBuffer(bb)
	})
	assert.Equal(t, 0, len(bb.B), "PutSnapshotBuffer should reset the buffer")
}

func TestSnapshotBuffer_MaxThreshold(t *testing.T) {
	bb := GetSnapshotBuffer()
	bb.Grow(SnapshotBufferMaxThreshold + 1024)

	assert.Greater(t, cap(bb.B), SnapshotBufferMaxThreshold)

	// Put it back - should be discarded since it exceeds the threshold.
	PutSnapshotBuffer(bb)

	bb2 := GetSnapshotBuffer()
	assert.LessOrEqual(t, cap(bb2.B), SnapshotBufferMaxThreshold*2)
}

func TestDefaultPools_Independence(t *testing.T) {
	blockBuf := GetPostingBlockBuffer()
	blockCap := cap(blockBuf.B)

	snapBuf := GetSnapshotBuffer()
	snapCap := cap(snapBuf.B)

	assert.NotEqual(t, blockCap, snapCap, "posting-block and snapshot buffers should have different default sizes")

	PutPostingBlockBuffer(blockBuf)
	PutSnapshotBuffer(snapBuf)
}

// =============================================================================
// ByteBufferPool Tests
// =============================================================================

func TestNewByteBufferPool(t *testing.T) {
	pool := NewByteBufferPool(8192, 65536)

	require.NotNil(t, pool)

	bb := pool.Get()
	require.NotNil(t, bb)
	assert.GreaterOrEqual(t, cap(bb.B), 8192)

	pool.Put(bb)
}

func TestByteBufferPool_CustomSizes(t *testing.T) {
	tests := []struct {
		name         string
		defaultSize  int
		maxThreshold int
	}{
		{"Small pool", 1024, 4096},
		{"Medium pool", 16384, 131072},
		{"No threshold", 8192, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pool := NewByteBufferPool(tt.defaultSize, tt.maxThreshold)
			bb := pool.Get()
			assert.GreaterOrEqual(t, cap(bb.B), tt.defaultSize)
			pool.Put(bb)
		})
	}
}

func TestByteBufferPool_MaxThreshold_Discard(t *testing.T) {
	pool := NewByteBufferPool(1024, 4096)

	bb := pool.Get()
	bb.Grow(10000)

	assert.Greater(t, cap(bb.B), 4096)

	pool.Put(bb)

	bb2 := pool.Get()
	assert.LessOrEqual(t, cap(bb2.B), 4096*2)
}

func TestByteBufferPool_MaxThreshold_Zero(t *testing.T) {
	pool := NewByteBufferPool(1024, 0)

	bb := pool.Get()
	bb.Grow(1024 * 1024)

	assert.Greater(t, cap(bb.B), 100000)

	pool.Put(bb)

	bb2 := pool.Get()
	assert.NotNil(t, bb2)
}

func TestByteBufferPool_Put_NilBuffer(t *testing.T) {
	pool := NewByteBufferPool(1024, 4096)
	assert.NotPanics(t, func() {
		pool.Put(nil)
	})
}

// =============================================================================
// Helper Types
// =============================================================================

type errorWriter struct {
	err error
}

func (ew *errorWriter) Write(p []byte) (n int, err error) {
	return 0, ew.err
}
