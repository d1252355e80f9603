package iterator

import (
	"github.com/quiverdb/quiver/record"
	"github.com/quiverdb/quiver/status"
)

// Empty is the no-op iterator: every operation returns Eof or a zero
// value without touching any state. Constructors across this package
// return it for statically-known-empty subtrees (e.g. an intersection
// with an empty child), matching NewEmptyIterator in the original
// iterator_api.
type Empty struct{}

// NewEmpty returns the shared empty-iterator behavior. Callers may hold
// one instance per use; Empty carries no mutable state.
func NewEmpty() *Empty { return &Empty{} }

func (e *Empty) Read() status.Status               { return status.Eof }
func (e *Empty) SkipTo(record.DocID) status.Status { return status.Eof }
func (e *Empty) Current() *record.Record           { return nil }
func (e *Empty) LastDocID() record.DocID           { return record.NoDocID }
func (e *Empty) NumEstimated() int                 { return 0 }
func (e *Empty) Rewind()                           {}
func (e *Empty) Free()                             {}
func (e *Empty) Revalidate() status.Validate       { return status.Valid }
