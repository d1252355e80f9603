package iterator

import (
	"github.com/quiverdb/quiver/record"
	"github.com/quiverdb/quiver/status"
)

// QueryIterator is the contract shared by every leaf reader and every
// composer in this package (and by posting.Reader, which already
// satisfies it structurally). Implementations are single-threaded,
// forward-only cursors: SkipTo's precondition is target > LastDocID().
type QueryIterator interface {
	// Read produces the next record. On Ok, Current and LastDocID
	// reflect it.
	Read() status.Status
	// SkipTo advances to the first record with docId >= target.
	// Precondition: target > LastDocID(). On Ok the yielded docId
	// equals target; on NotFound it is strictly greater.
	SkipTo(target record.DocID) status.Status
	// Current returns the record most recently yielded by Read or
	// SkipTo. Its Children slice (if any) is only valid until the next
	// call on this iterator.
	Current() *record.Record
	// LastDocID returns the docId of the most recently yielded record,
	// or record.NoDocID before the first yield.
	LastDocID() record.DocID
	// NumEstimated returns an upper bound on the number of records this
	// iterator could still yield.
	NumEstimated() int
	// Rewind resets the iterator to its initial, pre-Read state.
	Rewind()
	// Free recursively tears down the iterator's owned resources.
	// Children passed in by the caller (not owned) are also freed, per
	// the module's ownership rule that a composite owns its children.
	Free()
	// Revalidate inspects the iterator's underlying structure for
	// concurrent modification (a GC pass, a deletion) and reconciles
	// position if needed.
	Revalidate() status.Validate
}
