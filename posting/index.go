// Package posting implements the inverted index: block-structured,
// variable-byte encoded posting lists plus the stateful reader that
// iterates them, the GC repair pass that reclaims deleted docIds, and an
// optional compressed snapshot format for persistence-adjacent reload.
package posting

import (
	"fmt"

	"github.com/cespare/xxhash/v2"

	"github.com/quiverdb/quiver/errs"
	"github.com/quiverdb/quiver/record"
)

// Index is one term's (or numeric field's) posting list: an ordered
// sequence of Blocks plus the bookkeeping §3.3 describes.
type Index struct {
	flags Flags

	blocks []*Block

	numDocs    int
	numEntries int // every record written, for all flags (repeats of a multi-value numeric docId included)
	lastID     record.DocID
	gcMarker   uint32

	// fieldMask is the union of every field mask ever written to this
	// index. Not updated for Numeric indexes; numEntries is tracked for
	// every index.
	fieldMask record.FieldMask

	blockSize int
}

// New creates an empty posting index for the given flags. The flags fix the
// block capacity (DocIDOnlyBlockSize for DocIDOnly, DefaultBlockSize
// otherwise) and whether the field-mask union is tracked (non-Numeric only).
func New(flags Flags) *Index {
	blockSize := DefaultBlockSize
	if flags.HasFlag(DocIDOnly) {
		blockSize = DocIDOnlyBlockSize
	}
	return &Index{flags: flags, blockSize: blockSize}
}

// Flags returns the index's fixed encoding flags.
func (idx *Index) Flags() Flags { return idx.flags }

// NumDocs returns the number of distinct docIds written. Repair decrements
// it only for non-Numeric indexes, so for a Numeric index it is an upper
// bound once a Repair has removed records.
func (idx *Index) NumDocs() int { return idx.numDocs }

// NumEntries returns the number of records written, including repeats of
// the same docId for multi-value numeric fields.
func (idx *Index) NumEntries() int { return idx.numEntries }

// LastID returns the highest docId written so far.
func (idx *Index) LastID() record.DocID { return idx.lastID }

// GCMarker returns the generation counter, incremented every time Repair
// rewrites a block. Readers compare their saved marker to this to detect
// a concurrent GC pass (§4.2.2).
func (idx *Index) GCMarker() uint32 { return idx.gcMarker }

// FieldMask returns the union of every field mask written (zero for
// Numeric indexes, which do not track it).
func (idx *Index) FieldMask() record.FieldMask { return idx.fieldMask }

// NumBlocks returns the number of blocks currently held.
func (idx *Index) NumBlocks() int { return len(idx.blocks) }

func (idx *Index) isNumeric() bool { return idx.flags.HasFlag(Numeric) }

// AddEntry appends one record for docID. Returns (false, nil) if the
// record was rejected as a same-doc duplicate (text indexes only — a
// Numeric index allows repeated docIds for multi-value fields), per
// §4.2.1 step 1.
func (idx *Index) AddEntry(docID record.DocID, e Entry) (bool, error) {
	if docID == record.NoDocID {
		return false, fmt.Errorf("posting: %w: docId 0 is reserved", errs.ErrDocIDNotIncreasing)
	}
	if docID == idx.lastID && !idx.isNumeric() {
		return false, nil
	}
	if docID < idx.lastID {
		return false, fmt.Errorf("posting: %w: got %d after %d", errs.ErrDocIDNotIncreasing, docID, idx.lastID)
	}

	sameDoc := docID == idx.lastID
	cur := idx.currentBlock()

	if cur == nil {
		cur = idx.startBlock(docID)
	} else if cur.NumEntries >= idx.blockSize && !sameDoc {
		cur = idx.startBlock(docID)
	}

	anchor := cur.anchor(idx.flags)
	var delta uint64
	if resolveLayout(idx.flags) == layoutRawDocID {
		delta = uint64(docID) // raw-docid layout encodes the absolute id
	} else {
		delta = uint64(docID) - uint64(anchor)
		if cur.NumEntries == 0 {
			delta = 0
		}
	}
	if delta > uint32Max && resolveLayout(idx.flags) != layoutRawDocID {
		cur = idx.startBlock(docID)
		delta = 0
	}

	w := blockWriter(cur)
	encodeRecord(w, idx.flags, uint32(delta), e)

	cur.LastID = docID
	cur.NumEntries++

	if !sameDoc {
		idx.numDocs++
	}
	idx.numEntries++
	idx.lastID = docID
	if !idx.isNumeric() {
		idx.fieldMask = idx.fieldMask.Or(e.FieldMask)
	}

	return true, nil
}

const uint32Max = 1<<32 - 1

func (idx *Index) currentBlock() *Block {
	if len(idx.blocks) == 0 {
		return nil
	}
	return idx.blocks[len(idx.blocks)-1]
}

func (idx *Index) startBlock(firstID record.DocID) *Block {
	b := newBlock(firstID)
	idx.blocks = append(idx.blocks, b)
	return b
}

// Checksum computes an xxhash64 digest over every block's first/last id
// and encoded bytes — a cheap structural fingerprint a caller can compare
// before and after a GC cycle; Repair itself does not compute it. Not part
// of the wire format; purely a debug/ops aid.
func (idx *Index) Checksum() uint64 {
	h := xxhash.New()
	for _, b := range idx.blocks {
		var tmp [16]byte
		putUint64LE(tmp[0:8], uint64(b.FirstID))
		putUint64LE(tmp[8:16], uint64(b.LastID))
		_, _ = h.Write(tmp[:])
		_, _ = h.Write(b.Data())
	}
	return h.Sum64()
}

func putUint64LE(b []byte, v uint64) {
	for i := 0; i < 8; i++ {
		b[i] = byte(v >> (8 * uint(i)))
	}
}
