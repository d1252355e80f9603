package iterator

import (
	"github.com/quiverdb/quiver/record"
	"github.com/quiverdb/quiver/status"
)

// Wildcard enumerates "every document that could possibly match",
// standing in for a missing filter (e.g. the right side of an OPTIONAL,
// or the universe a NOT iterator subtracts from). Grounded on the
// WILDCARD variants referenced by not_iterator.c and optional_iterator.h.
//
// Non-optimized mode counts up 1..topID. Optimized mode wraps an
// existing-docs posting reader (the index's own doc-existence list),
// hiding its concrete type behind this one so callers can treat both
// uniformly.
type Wildcard struct {
	weight float64

	// non-optimized
	topID record.DocID
	cur   record.DocID

	// optimized
	inner QueryIterator

	rec record.Record
}

// NewWildcardRange returns the non-optimized variant, enumerating every
// docId in [1, topID].
func NewWildcardRange(topID record.DocID, weight float64) *Wildcard {
	w := &Wildcard{topID: topID, weight: weight}
	w.Rewind()

	return w
}

// NewWildcardFromIterator returns the optimized variant, wrapping an
// iterator over the index's real doc-existence list (e.g. a
// posting.Reader).
func NewWildcardFromIterator(inner QueryIterator, weight float64) *Wildcard {
	w := &Wildcard{inner: inner, weight: weight}
	w.Rewind()

	return w
}

func (w *Wildcard) optimized() bool { return w.inner != nil }

func (w *Wildcard) Read() status.Status {
	if w.optimized() {
		st := w.inner.Read()
		if st != status.Ok {
			return st
		}
		w.fill(w.inner.LastDocID())

		return status.Ok
	}

	if w.cur >= w.topID {
		return status.Eof
	}
	w.cur++
	w.fill(w.cur)

	return status.Ok
}

func (w *Wildcard) SkipTo(target record.DocID) status.Status {
	if w.optimized() {
		st := w.inner.SkipTo(target)
		if st == status.Eof {
			return status.Eof
		}
		w.fill(w.inner.LastDocID())

		return st
	}

	if target > w.topID {
		return status.Eof
	}
	w.cur = target
	w.fill(w.cur)

	return status.Ok
}

func (w *Wildcard) fill(docID record.DocID) {
	w.rec.Reset()
	w.rec.Kind = record.KindVirtual
	w.rec.DocID = docID
	w.rec.Freq = 1
	w.rec.Weight = w.weight
}

func (w *Wildcard) Current() *record.Record { return &w.rec }

func (w *Wildcard) LastDocID() record.DocID {
	if w.optimized() {
		return w.inner.LastDocID()
	}

	return w.cur
}

func (w *Wildcard) NumEstimated() int {
	if w.optimized() {
		return w.inner.NumEstimated()
	}

	return int(w.topID)
}

func (w *Wildcard) Rewind() {
	if w.optimized() {
		w.inner.Rewind()
	} else {
		w.cur = record.NoDocID
	}
	w.rec.Reset()
}

func (w *Wildcard) Free() {
	if w.optimized() {
		w.inner.Free()
	}
}

func (w *Wildcard) Revalidate() status.Validate {
	if w.optimized() {
		return w.inner.Revalidate()
	}

	return status.Valid
}
