package posting

import (
	"github.com/quiverdb/quiver/internal/vbyte"
	"github.com/quiverdb/quiver/record"
	"github.com/quiverdb/quiver/status"
)

// Reader is a stateful cursor over one Index, decoding one record at a
// time and applying the decoder's inline filter (§4.2.2).
type Reader struct {
	idx *Index

	blockIdx int
	br       *vbyte.Reader

	lastID    record.DocID // absolute docId of the last yielded record
	gcSeen    uint32
	skipMulti bool
	weight    float64

	filter Filter
	cur    record.Record
}

// NewReader creates a reader over idx. filter may be nil. skipMulti
// suppresses repeated yields of the same docId (multi-value numeric
// fields), per §4.2.3.
func NewReader(idx *Index, filter Filter, weight float64, skipMulti bool) *Reader {
	r := &Reader{idx: idx, filter: filter, weight: weight, skipMulti: skipMulti, gcSeen: idx.gcMarker}
	r.Rewind()
	return r
}

// Rewind resets the reader to the index's first block.
func (r *Reader) Rewind() {
	r.blockIdx = 0
	r.lastID = record.NoDocID
	r.gcSeen = r.idx.gcMarker
	if len(r.idx.blocks) > 0 {
		r.br = vbyte.NewReader(r.idx.blocks[0].Data())
	} else {
		r.br = vbyte.NewReader(nil)
	}
}

// NumEstimated returns an upper bound on the number of records this reader
// could still yield (the index's total entry count — an upper bound
// because records already read are included and a field-mask or
// numeric-range filter may reject some).
func (r *Reader) NumEstimated() int {
	return r.idx.numEntries
}

// LastDocID returns the docId of the most recently yielded record.
func (r *Reader) LastDocID() record.DocID { return r.lastID }

// Current returns the record most recently yielded by Read or SkipTo.
func (r *Reader) Current() *record.Record { return &r.cur }

// advanceBlock moves to the next block if the current one is exhausted.
// Returns false if there is no next block.
func (r *Reader) advanceBlock() bool {
	for r.br.AtEnd() {
		r.blockIdx++
		if r.blockIdx >= len(r.idx.blocks) {
			return false
		}
		r.br = vbyte.NewReader(r.idx.blocks[r.blockIdx].Data())
	}
	return true
}

func (r *Reader) currentBlock() *Block {
	if r.blockIdx >= len(r.idx.blocks) {
		return nil
	}
	return r.idx.blocks[r.blockIdx]
}

// Read decodes and yields the next record passing the filter.
func (r *Reader) Read() status.Status {
	for {
		if !r.advanceBlock() {
			return status.Eof
		}
		blk := r.currentBlock()

		var e Entry
		delta, keep, err := decodeRecord(r.br, r.idx.flags, r.filter, &e)
		if err != nil {
			return status.Eof
		}

		var docID record.DocID
		if resolveLayout(r.idx.flags) == layoutRawDocID {
			docID = record.DocID(delta)
		} else {
			docID = r.blockAnchorForRead(blk) + record.DocID(delta)
		}

		if r.skipMulti && docID == r.lastID {
			continue
		}

		r.lastID = docID
		if !keep {
			continue
		}

		r.fillCurrent(docID, e)
		return status.Ok
	}
}

// blockAnchorForRead returns the anchor the just-decoded delta was relative
// to: the reader's own lastID is the running decode anchor within a block
// (each record's delta is relative to the previous record's docId, which
// collapses to lastID once at least one record has been read in this
// block), except for a block's first record, whose delta is 0 from
// FirstID.
func (r *Reader) blockAnchorForRead(blk *Block) record.DocID {
	if r.lastID == record.NoDocID || r.lastID < blk.FirstID {
		return blk.FirstID
	}
	return r.lastID
}

func (r *Reader) fillCurrent(docID record.DocID, e Entry) {
	r.cur.Reset()
	if r.idx.isNumeric() {
		r.cur.Kind = record.KindNumeric
		r.cur.DocID = docID
		r.cur.Value = e.Value
		r.cur.Freq = 1
		r.cur.Weight = r.weight
		return
	}
	r.cur.Kind = record.KindTerm
	r.cur.DocID = docID
	r.cur.Freq = e.Freq
	r.cur.FieldMask = e.FieldMask
	r.cur.Offsets = e.Offsets
	r.cur.Weight = r.weight
}

// SkipTo advances to the first record with docId >= target. Precondition:
// target > r.LastDocID().
func (r *Reader) SkipTo(target record.DocID) status.Status {
	if target > r.idx.lastID {
		return status.Eof
	}

	// Advance to the block that could contain target.
	for r.blockIdx < len(r.idx.blocks) && r.idx.blocks[r.blockIdx].LastID < target {
		r.blockIdx++
	}
	if r.blockIdx >= len(r.idx.blocks) {
		return status.Eof
	}
	if r.br == nil || r.lastID < r.idx.blocks[r.blockIdx].FirstID {
		r.br = vbyte.NewReader(r.idx.blocks[r.blockIdx].Data())
		r.lastID = record.NoDocID
	}

	for {
		st := r.Read()
		switch st {
		case status.Eof:
			return status.Eof
		case status.Ok:
			if r.lastID == target {
				return status.Ok
			}
			if r.lastID > target {
				return status.NotFound
			}
		}
	}
}

// Free releases the reader's resources. The underlying Index and its
// blocks are not owned by the reader and are left untouched.
func (r *Reader) Free() {
	r.br = nil
}

// Revalidate compares the reader's saved GC generation against the
// index's current one. If the index was repaired since this reader's
// state was captured, the reader rewinds and skips to the first surviving
// docId after its last yielded one (§4.2.2 reopen semantics), returning
// Moved, or Aborted if none remains.
func (r *Reader) Revalidate() status.Validate {
	if r.gcSeen == r.idx.gcMarker {
		return status.Valid
	}
	r.gcSeen = r.idx.gcMarker
	last := r.lastID
	r.Rewind()
	if last == record.NoDocID {
		return status.Moved
	}
	if st := r.SkipTo(last + 1); st == status.Eof {
		return status.Aborted
	}
	return status.Moved
}
