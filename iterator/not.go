package iterator

import (
	"context"

	"github.com/quiverdb/quiver/record"
	"github.com/quiverdb/quiver/status"
)

// Not yields every candidate docId the child does NOT match, up to
// maxDocID. Grounded on not_iterator.c's two representations:
// non-optimized walks the virtual range [1, maxDocID]; optimized walks
// a real existing-docs iterator (wcii) instead, so deleted/never-used
// docIds are never considered.
type Not struct {
	child    QueryIterator
	existing QueryIterator // nil => non-optimized, candidates are [1, maxDocID]
	maxDocID record.DocID
	weight   float64

	childDone bool
	cur       record.DocID
	rec       record.Record
	timeout   granularTimeout
}

// NewNot returns the non-optimized variant: candidates are every docId
// in [1, maxDocID]. ctx may be nil (no timeout).
func NewNot(child QueryIterator, maxDocID record.DocID, weight float64, ctx context.Context) *Not {
	n := &Not{child: child, maxDocID: maxDocID, weight: weight, timeout: newGranularTimeout(ctx)}
	n.Rewind()

	return n
}

// NewNotOptimized returns the optimized variant: candidates come from
// existing (typically a Wildcard over the index's doc-existence list)
// rather than the dense [1, maxDocID] range.
func NewNotOptimized(child, existing QueryIterator, weight float64, ctx context.Context) *Not {
	n := &Not{child: child, existing: existing, weight: weight, timeout: newGranularTimeout(ctx)}
	n.Rewind()

	return n
}

func (n *Not) optimized() bool { return n.existing != nil }

// catchUpChild advances the child to the first docId >= candidate,
// reporting whether the child now sits exactly on candidate.
func (n *Not) catchUpChild(candidate record.DocID) bool {
	for !n.childDone && n.child.LastDocID() < candidate {
		if st := n.child.Read(); st == status.Eof {
			n.childDone = true
		}
	}

	return !n.childDone && n.child.LastDocID() == candidate
}

func (n *Not) Read() status.Status {
	if n.optimized() {
		return n.readOptimized()
	}

	return n.readNonOptimized()
}

func (n *Not) readNonOptimized() status.Status {
	for {
		if n.timeout.expired() {
			return status.Timeout
		}

		n.cur++
		if n.cur > n.maxDocID {
			return status.Eof
		}
		if n.catchUpChild(n.cur) {
			continue
		}

		n.fill(n.cur)

		return status.Ok
	}
}

func (n *Not) readOptimized() status.Status {
	for {
		if n.timeout.expired() {
			return status.Timeout
		}

		if st := n.existing.Read(); st == status.Eof {
			return status.Eof
		}
		candidate := n.existing.LastDocID()
		if n.catchUpChild(candidate) {
			continue
		}

		n.fill(candidate)

		return status.Ok
	}
}

func (n *Not) SkipTo(target record.DocID) status.Status {
	if n.optimized() {
		return n.skipToOptimized(target)
	}

	return n.skipToNonOptimized(target)
}

func (n *Not) skipToNonOptimized(target record.DocID) status.Status {
	if target > n.maxDocID {
		return status.Eof
	}
	n.cur = target - 1

	for {
		if n.timeout.expired() {
			return status.Timeout
		}

		n.cur++
		if n.cur > n.maxDocID {
			return status.Eof
		}
		if n.catchUpChild(n.cur) {
			continue
		}

		n.fill(n.cur)
		if n.cur == target {
			return status.Ok
		}

		return status.NotFound
	}
}

func (n *Not) skipToOptimized(target record.DocID) status.Status {
	orig := target

	for {
		if n.timeout.expired() {
			return status.Timeout
		}

		if st := n.existing.SkipTo(target); st == status.Eof {
			return status.Eof
		}
		candidate := n.existing.LastDocID()
		if n.catchUpChild(candidate) {
			target = candidate + 1

			continue
		}

		n.fill(candidate)
		if candidate == orig {
			return status.Ok
		}

		return status.NotFound
	}
}

func (n *Not) fill(docID record.DocID) {
	n.rec.Reset()
	n.rec.Kind = record.KindVirtual
	n.rec.DocID = docID
	n.rec.Freq = 1
	n.rec.Weight = n.weight
}

func (n *Not) Current() *record.Record { return &n.rec }
func (n *Not) LastDocID() record.DocID {
	if n.optimized() {
		return n.existing.LastDocID()
	}

	return n.cur
}

func (n *Not) NumEstimated() int {
	if n.optimized() {
		return n.existing.NumEstimated()
	}

	return int(n.maxDocID)
}

func (n *Not) Rewind() {
	n.child.Rewind()
	n.childDone = false
	n.cur = record.NoDocID
	n.rec.Reset()
	n.timeout.reset()
	if n.optimized() {
		n.existing.Rewind()
	}
}

func (n *Not) Free() {
	n.child.Free()
	if n.optimized() {
		n.existing.Free()
	}
}

func (n *Not) Revalidate() status.Validate {
	v := n.child.Revalidate()
	if n.optimized() {
		if ev := n.existing.Revalidate(); ev == status.Aborted {
			return status.Aborted
		} else if ev == status.Moved && v == status.Valid {
			v = status.Moved
		}
	}
	if v == status.Aborted {
		return status.Aborted
	}
	if v == status.Moved {
		last := n.LastDocID()
		n.Rewind()
		if last != record.NoDocID {
			n.SkipTo(last + 1)
		}

		return status.Moved
	}

	return status.Valid
}
