package posting

import (
	"github.com/quiverdb/quiver/internal/pool"
	"github.com/quiverdb/quiver/internal/vbyte"
	"github.com/quiverdb/quiver/record"
)

// Exists reports whether docID is still live in the owning document table.
// Repair calls this once per decoded record.
type Exists func(docID record.DocID) bool

// RepairBlock rewrites a single block in place, dropping records whose
// docId no longer exists and re-encoding the survivors' deltas against the
// block's (possibly new) anchor, per §4.2.4. Returns the number of
// fragments removed: distinct deleted docIds, so several records of one
// multi-value numeric docId count once.
//
// Ported from IndexBlock_Repair: survivors are re-encoded only from the
// point of the first deletion onward; a prefix of untouched survivors is
// left byte-identical.
func (idx *Index) RepairBlock(blockIdx int, exists Exists) (frags int, err error) {
	blk := idx.blocks[blockIdx]
	reader := vbyte.NewReader(blk.Data())

	scratch := pool.GetPostingBlockBuffer()
	defer pool.PutPostingBlockBuffer(scratch)
	w := vbyte.NewWriter(scratch)

	var (
		newFirst    record.DocID
		newLast     record.DocID
		newCount    int
		lastReadID  = blk.FirstID
		firstReadID = blk.FirstID
		sawAny      bool
		rewriting   bool
		lastDeleted = record.NoDocID
	)

	for !reader.AtEnd() {
		startPos := reader.Pos()
		var e Entry
		delta, _, derr := decodeRecord(reader, idx.flags, nil, &e)
		if derr != nil {
			return frags, derr
		}
		endPos := reader.Pos()

		var docID record.DocID
		if resolveLayout(idx.flags) == layoutRawDocID {
			docID = record.DocID(delta)
		} else if !sawAny {
			docID = firstReadID
		} else {
			docID = lastReadID + record.DocID(delta)
		}

		live := exists(docID)
		if !live {
			if docID != lastDeleted {
				frags++
				lastDeleted = docID
			}
			rewriting = true
			lastReadID = docID
			sawAny = true
			continue
		}

		if !rewriting {
			// Untouched prefix: copy bytes as-is, no re-encode needed.
			w.Write(blk.Data()[startPos:endPos])
		} else {
			anchor := newLast
			if newCount == 0 {
				anchor = docID
			}
			newDelta := uint32(docID - anchor)
			if resolveLayout(idx.flags) == layoutRawDocID {
				newDelta = uint32(docID)
			}
			encodeRecord(w, idx.flags, newDelta, e)
		}

		if newCount == 0 {
			newFirst = docID
		}
		newLast = docID
		newCount++
		lastReadID = docID
		sawAny = true
	}

	if newCount == 0 {
		blk.NumEntries = 0
		return frags, nil
	}

	old := blk.buf
	blk.buf = pool.GetPostingBlockBuffer()
	blk.buf.MustWrite(scratch.Bytes())
	pool.PutPostingBlockBuffer(old)

	blk.FirstID = newFirst
	blk.LastID = newLast
	blk.NumEntries = newCount

	return frags, nil
}

// Repair runs RepairBlock over every block, drops now-empty blocks, and
// bumps GCMarker so in-flight readers detect the change and resynchronize
// via Revalidate.
func (idx *Index) Repair(exists Exists) (totalFrags int, err error) {
	kept := idx.blocks[:0]
	removed := 0
	for i := range idx.blocks {
		before := idx.blocks[i].NumEntries
		frags, rerr := idx.RepairBlock(i, exists)
		if rerr != nil {
			return totalFrags, rerr
		}
		totalFrags += frags
		removed += before - idx.blocks[i].NumEntries
		if idx.blocks[i].NumEntries > 0 {
			kept = append(kept, idx.blocks[i])
		} else {
			idx.blocks[i].Release()
		}
	}
	idx.blocks = kept
	idx.numEntries -= removed
	if !idx.isNumeric() {
		// Text/DocIDOnly indexes never repeat a docId, so one fragment
		// removed is exactly one document removed. Multi-value numeric
		// indexes would need a per-doc dedup pass to track this exactly,
		// so NumDocs is left unchanged for those (see NumDocs).
		idx.numDocs -= totalFrags
	}
	if len(idx.blocks) > 0 {
		idx.lastID = idx.blocks[len(idx.blocks)-1].LastID
	} else {
		idx.lastID = record.NoDocID
	}
	idx.gcMarker++
	return totalFrags, nil
}
