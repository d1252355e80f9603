package iterator

import (
	"github.com/quiverdb/quiver/record"
	"github.com/quiverdb/quiver/status"
)

// Optional always yields the candidate docId, attaching the child's own
// record (with weight w) where the child also matches, or a virtual
// record (weight 0, freq 1) where it doesn't. Grounded on
// optional_iterator.h's two variants: non-optimized steps the cursor by
// 1 over [1, maxDocID]; optimized enumerates real docIds via existing.
type Optional struct {
	child    QueryIterator
	existing QueryIterator // nil => non-optimized
	maxDocID record.DocID
	weight   float64

	childDone bool
	cur       record.DocID
	rec       record.Record
}

// NewOptional returns the non-optimized variant over [1, maxDocID].
func NewOptional(child QueryIterator, maxDocID record.DocID, weight float64) *Optional {
	o := &Optional{child: child, maxDocID: maxDocID, weight: weight}
	o.Rewind()

	return o
}

// NewOptionalFromIterator returns the optimized variant, enumerating
// candidates from existing (typically a Wildcard over the index's
// doc-existence list).
func NewOptionalFromIterator(child, existing QueryIterator, weight float64) *Optional {
	o := &Optional{child: child, existing: existing, weight: weight}
	o.Rewind()

	return o
}

func (o *Optional) optimized() bool { return o.existing != nil }

func (o *Optional) catchUpChild(candidate record.DocID) bool {
	for !o.childDone && o.child.LastDocID() < candidate {
		if st := o.child.Read(); st == status.Eof {
			o.childDone = true
		}
	}

	return !o.childDone && o.child.LastDocID() == candidate
}

func (o *Optional) fillMatched(docID record.DocID) {
	src := o.child.Current()
	o.rec = *src
	o.rec.DocID = docID
	o.rec.Weight = o.weight
}

func (o *Optional) fillVirtual(docID record.DocID) {
	o.rec.Reset()
	o.rec.Kind = record.KindVirtual
	o.rec.DocID = docID
	o.rec.Freq = 1
	o.rec.Weight = 0
}

func (o *Optional) Read() status.Status {
	if o.optimized() {
		return o.readOptimized()
	}

	return o.readNonOptimized()
}

func (o *Optional) readNonOptimized() status.Status {
	o.cur++
	if o.cur > o.maxDocID {
		return status.Eof
	}
	if o.catchUpChild(o.cur) {
		o.fillMatched(o.cur)
	} else {
		o.fillVirtual(o.cur)
	}

	return status.Ok
}

func (o *Optional) readOptimized() status.Status {
	st := o.existing.Read()
	if st != status.Ok {
		return st
	}
	candidate := o.existing.LastDocID()
	if o.catchUpChild(candidate) {
		o.fillMatched(candidate)
	} else {
		o.fillVirtual(candidate)
	}

	return status.Ok
}

func (o *Optional) SkipTo(target record.DocID) status.Status {
	if o.optimized() {
		return o.skipToOptimized(target)
	}

	return o.skipToNonOptimized(target)
}

func (o *Optional) skipToNonOptimized(target record.DocID) status.Status {
	if target > o.maxDocID {
		return status.Eof
	}
	o.cur = target
	if o.catchUpChild(o.cur) {
		o.fillMatched(o.cur)
	} else {
		o.fillVirtual(o.cur)
	}

	return status.Ok
}

func (o *Optional) skipToOptimized(target record.DocID) status.Status {
	st := o.existing.SkipTo(target)
	if st == status.Eof {
		return status.Eof
	}
	candidate := o.existing.LastDocID()
	if o.catchUpChild(candidate) {
		o.fillMatched(candidate)
	} else {
		o.fillVirtual(candidate)
	}

	return st
}

func (o *Optional) Current() *record.Record { return &o.rec }

func (o *Optional) LastDocID() record.DocID {
	if o.optimized() {
		return o.existing.LastDocID()
	}

	return o.cur
}

func (o *Optional) NumEstimated() int {
	if o.optimized() {
		return o.existing.NumEstimated()
	}

	return int(o.maxDocID)
}

func (o *Optional) Rewind() {
	o.child.Rewind()
	o.childDone = false
	o.cur = record.NoDocID
	o.rec.Reset()
	if o.optimized() {
		o.existing.Rewind()
	}
}

func (o *Optional) Free() {
	o.child.Free()
	if o.optimized() {
		o.existing.Free()
	}
}

func (o *Optional) Revalidate() status.Validate {
	v := o.child.Revalidate()
	if o.optimized() {
		if ev := o.existing.Revalidate(); ev == status.Aborted {
			return status.Aborted
		} else if ev == status.Moved && v == status.Valid {
			v = status.Moved
		}
	}
	if v == status.Aborted {
		return status.Aborted
	}
	if v == status.Moved {
		last := o.LastDocID()
		o.Rewind()
		if last != record.NoDocID {
			o.SkipTo(last + 1)
		}

		return status.Moved
	}

	return status.Valid
}
