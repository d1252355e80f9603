package posting

import (
	"github.com/quiverdb/quiver/internal/pool"
	"github.com/quiverdb/quiver/internal/vbyte"
	"github.com/quiverdb/quiver/record"
)

// DefaultBlockSize caps the number of entries a block holds before a new
// block is started, for term/numeric indexes.
const DefaultBlockSize = 100

// DocIDOnlyBlockSize is the larger cap used for DocIDOnly indexes, whose
// records carry no payload and so pack far more densely per block.
const DocIDOnlyBlockSize = 1000

// Block is one append-only run of encoded records sharing a delta anchor.
type Block struct {
	FirstID    record.DocID
	LastID     record.DocID
	NumEntries int
	buf        *pool.ByteBuffer
}

func newBlock(firstID record.DocID) *Block {
	return &Block{
		FirstID: firstID,
		LastID:  firstID,
		buf:     pool.GetPostingBlockBuffer(),
	}
}

// Data returns the block's encoded bytes.
func (b *Block) Data() []byte {
	return b.buf.Bytes()
}

// Release returns the block's buffer to the pool. Call only after the
// block is no longer reachable from any index or in-flight reader.
func (b *Block) Release() {
	if b.buf != nil {
		pool.PutPostingBlockBuffer(b.buf)
		b.buf = nil
	}
}

// blockWriter returns a vbyte.Writer appending to b's buffer.
func blockWriter(b *Block) *vbyte.Writer {
	return vbyte.NewWriter(b.buf)
}

// anchor returns the docId new deltas within this block are computed
// against: firstId for RawDocID layout, lastId otherwise (§3.3).
func (b *Block) anchor(flags Flags) record.DocID {
	if resolveLayout(flags) == layoutRawDocID {
		return b.FirstID
	}
	return b.LastID
}
