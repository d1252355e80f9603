package posting

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/cespare/xxhash/v2"
	"github.com/dustin/go-humanize"

	"github.com/quiverdb/quiver/compress"
	"github.com/quiverdb/quiver/errs"
	"github.com/quiverdb/quiver/record"
)

// snapshotMagic identifies a quiver posting snapshot, written as the first
// four bytes of every WriteSnapshot output.
const snapshotMagic = "QVP1"

// snapshotVersion is bumped whenever the on-disk layout below changes in a
// way old readers can't tolerate.
const snapshotVersion = 1

// WriteSnapshot serializes idx to w: a small fixed header (magic, version,
// flags, counts), one header record per block (first/last/numEntries), and
// the blocks' encoded bytes concatenated and compressed as a single payload
// via codec. Persistence preserves encoder choice by storing idx.flags
// alongside the data (§6.3), so a reader reconstructs the exact layout the
// original writer used without negotiation.
func WriteSnapshot(w io.Writer, idx *Index, codec compress.Codec) error {
	var hdr [4 + 1 + 1 + 2 + 8 + 8 + 8 + 8 + 8 + 4]byte
	off := 0
	off += copy(hdr[off:], snapshotMagic)
	hdr[off] = snapshotVersion
	off++

	compressionType := compress.CompressionNone
	if codec != nil {
		if ct, ok := codecCompressionType(codec); ok {
			compressionType = ct
		}
	}
	hdr[off] = byte(compressionType)
	off++

	binary.LittleEndian.PutUint16(hdr[off:], uint16(idx.flags))
	off += 2
	binary.LittleEndian.PutUint64(hdr[off:], uint64(idx.numDocs))
	off += 8
	binary.LittleEndian.PutUint64(hdr[off:], uint64(idx.numEntries))
	off += 8
	binary.LittleEndian.PutUint64(hdr[off:], uint64(idx.lastID))
	off += 8
	binary.LittleEndian.PutUint64(hdr[off:], idx.fieldMask.Lo)
	off += 8
	binary.LittleEndian.PutUint64(hdr[off:], idx.fieldMask.Hi)
	off += 8
	binary.LittleEndian.PutUint32(hdr[off:], uint32(len(idx.blocks)))
	off += 4

	if _, err := w.Write(hdr[:off]); err != nil {
		return fmt.Errorf("posting: write snapshot header: %w", err)
	}

	var blockHdr [8 + 8 + 4 + 4]byte
	var payload []byte
	for _, b := range idx.blocks {
		binary.LittleEndian.PutUint64(blockHdr[0:], uint64(b.FirstID))
		binary.LittleEndian.PutUint64(blockHdr[8:], uint64(b.LastID))
		binary.LittleEndian.PutUint32(blockHdr[16:], uint32(b.NumEntries))
		binary.LittleEndian.PutUint32(blockHdr[20:], uint32(len(b.Data())))
		if _, err := w.Write(blockHdr[:]); err != nil {
			return fmt.Errorf("posting: write block header: %w", err)
		}
		payload = append(payload, b.Data()...)
	}

	if codec == nil {
		codec = compress.NewNoOpCompressor()
	}
	compressed, err := codec.Compress(payload)
	if err != nil {
		return fmt.Errorf("posting: compress snapshot payload: %w", err)
	}

	checksum := xxhash.Sum64(compressed)
	var tail [8 + 8]byte
	binary.LittleEndian.PutUint64(tail[0:], uint64(len(compressed)))
	binary.LittleEndian.PutUint64(tail[8:], checksum)
	if _, err := w.Write(tail[:]); err != nil {
		return fmt.Errorf("posting: write snapshot trailer: %w", err)
	}
	if _, err := w.Write(compressed); err != nil {
		return fmt.Errorf("posting: write snapshot payload: %w", err)
	}
	return nil
}

// ReadSnapshot reconstructs an Index from a stream written by WriteSnapshot.
// A nil codec is resolved from the compression type stored in the header;
// a non-nil codec is used as given and must match the one the snapshot was
// written with.
func ReadSnapshot(r io.Reader, codec compress.Codec) (*Index, error) {
	var hdr [4 + 1 + 1 + 2 + 8 + 8 + 8 + 8 + 8 + 4]byte
	if _, err := io.ReadFull(r, hdr[:]); err != nil {
		return nil, fmt.Errorf("posting: read snapshot header: %w", err)
	}
	off := 0
	if string(hdr[off:off+4]) != snapshotMagic {
		return nil, errs.ErrSnapshotMagicMismatch
	}
	off += 4
	if hdr[off] != snapshotVersion {
		return nil, fmt.Errorf("posting: %w: got %d, want %d", errs.ErrSnapshotVersion, hdr[off], snapshotVersion)
	}
	off++

	compressionType := compress.CompressionType(hdr[off])
	off++

	flags := Flags(binary.LittleEndian.Uint16(hdr[off:]))
	off += 2
	numDocs := int(binary.LittleEndian.Uint64(hdr[off:]))
	off += 8
	numEntries := int(binary.LittleEndian.Uint64(hdr[off:]))
	off += 8
	lastID := record.DocID(binary.LittleEndian.Uint64(hdr[off:]))
	off += 8
	fmLo := binary.LittleEndian.Uint64(hdr[off:])
	off += 8
	fmHi := binary.LittleEndian.Uint64(hdr[off:])
	off += 8
	numBlocks := int(binary.LittleEndian.Uint32(hdr[off:]))

	idx := New(flags)
	idx.numDocs = numDocs
	idx.numEntries = numEntries
	idx.lastID = lastID
	idx.fieldMask = record.FieldMask{Lo: fmLo, Hi: fmHi}

	type blockHeader struct {
		firstID, lastID record.DocID
		numEntries      int
		dataLen         int
	}
	headers := make([]blockHeader, numBlocks)
	var bh [8 + 8 + 4 + 4]byte
	for i := range headers {
		if _, err := io.ReadFull(r, bh[:]); err != nil {
			return nil, fmt.Errorf("posting: read block header %d: %w", i, err)
		}
		headers[i] = blockHeader{
			firstID:    record.DocID(binary.LittleEndian.Uint64(bh[0:])),
			lastID:     record.DocID(binary.LittleEndian.Uint64(bh[8:])),
			numEntries: int(binary.LittleEndian.Uint32(bh[16:])),
			dataLen:    int(binary.LittleEndian.Uint32(bh[20:])),
		}
	}

	var tail [8 + 8]byte
	if _, err := io.ReadFull(r, tail[:]); err != nil {
		return nil, fmt.Errorf("posting: read snapshot trailer: %w", err)
	}
	compressedLen := int(binary.LittleEndian.Uint64(tail[0:]))
	wantChecksum := binary.LittleEndian.Uint64(tail[8:])

	compressed := make([]byte, compressedLen)
	if _, err := io.ReadFull(r, compressed); err != nil {
		return nil, fmt.Errorf("posting: read snapshot payload: %w", err)
	}
	if xxhash.Sum64(compressed) != wantChecksum {
		return nil, fmt.Errorf("posting: snapshot payload checksum mismatch")
	}

	if codec == nil {
		c, err := compress.GetCodec(compressionType)
		if err != nil {
			return nil, fmt.Errorf("posting: resolve snapshot codec: %w", err)
		}
		codec = c
	}
	payload, err := codec.Decompress(compressed)
	if err != nil {
		return nil, fmt.Errorf("posting: decompress snapshot payload: %w", err)
	}

	idx.blocks = make([]*Block, numBlocks)
	pos := 0
	for i, h := range headers {
		if pos+h.dataLen > len(payload) {
			return nil, fmt.Errorf("posting: snapshot block %d payload truncated", i)
		}
		b := newBlock(h.firstID)
		b.LastID = h.lastID
		b.NumEntries = h.numEntries
		b.buf.MustWrite(payload[pos : pos+h.dataLen])
		pos += h.dataLen
		idx.blocks[i] = b
	}

	return idx, nil
}

// codecCompressionType recovers the CompressionType tag for one of the
// package's built-in codecs, so WriteSnapshot can record which one a
// caller-supplied codec corresponds to. Returns false for a custom codec,
// in which case the snapshot is tagged CompressionNone and the caller is
// responsible for supplying the same codec on read.
func codecCompressionType(codec compress.Codec) (compress.CompressionType, bool) {
	switch codec.(type) {
	case compress.NoOpCompressor:
		return compress.CompressionNone, true
	case compress.ZstdCompressor:
		return compress.CompressionZstd, true
	case compress.S2Compressor:
		return compress.CompressionS2, true
	case compress.LZ4Compressor:
		return compress.CompressionLZ4, true
	default:
		return compress.CompressionNone, false
	}
}

// DebugString reports block/byte counts in human-readable units, mirroring
// the teacher's #ifdef _DEBUG dump functions.
func (idx *Index) DebugString() string {
	var totalBytes int
	for _, b := range idx.blocks {
		totalBytes += len(b.Data())
	}
	return fmt.Sprintf("posting.Index{flags=%v, blocks=%d, docs=%d, entries=%d, lastId=%d, size=%s}",
		idx.flags, len(idx.blocks), idx.numDocs, idx.numEntries, idx.lastID, humanize.Bytes(uint64(totalBytes)))
}
