package iterator

import (
	"container/heap"

	"github.com/quiverdb/quiver/errs"
	"github.com/quiverdb/quiver/internal/options"
	"github.com/quiverdb/quiver/record"
	"github.com/quiverdb/quiver/status"
)

// UnionMode controls what a matching union read yields: Full aggregates
// every matching child into the result's Children list; Quick yields
// only the first matching child, used when callers only care about the
// docId (e.g. an enclosing NOT's existing-docs enumeration).
type UnionMode uint8

const (
	ModeFull UnionMode = iota
	ModeQuick
)

// minUnionIterHeap is the default child-count threshold above which a
// union switches from a flat linear scan to a min-heap keyed by each
// child's LastDocID, mirroring UI_SelectIterator's default.
const minUnionIterHeap = 20

type unionConfig struct {
	mode          UnionMode
	heapThreshold int
}

// WithUnionMode overrides the default full-aggregation mode.
func WithUnionMode(m UnionMode) options.Option[*unionConfig] {
	return options.NoError(func(c *unionConfig) { c.mode = m })
}

// WithHeapThreshold overrides the default flat/heap switchover point.
func WithHeapThreshold(n int) options.Option[*unionConfig] {
	return options.NoError(func(c *unionConfig) { c.heapThreshold = n })
}

// Union merges N >= 1 children, yielding the minimum docId any child
// currently offers. Grounded on union_iterator.c's flat and heap
// representations (UI_Read/UI_SkipTo vs. their _Heap counterparts).
type Union struct {
	children []QueryIterator
	mode     UnionMode
	useHeap  bool

	// flat representation
	active []QueryIterator

	// heap representation
	h unionHeap

	lastDocID    record.DocID
	cur          record.Record
	numEstimated int
	weight       float64
}

// NewUnion builds a union over children. Returns ErrNoChildren if
// children is empty, ErrNilChild if any entry is nil.
func NewUnion(children []QueryIterator, weight float64, opts ...options.Option[*unionConfig]) (*Union, error) {
	if len(children) == 0 {
		return nil, errs.ErrNoChildren
	}
	for _, c := range children {
		if c == nil {
			return nil, errs.ErrNilChild
		}
	}

	cfg := &unionConfig{mode: ModeFull, heapThreshold: minUnionIterHeap}
	if err := options.Apply(cfg, opts...); err != nil {
		return nil, err
	}

	u := &Union{
		children: children,
		mode:     cfg.mode,
		useHeap:  len(children) > cfg.heapThreshold,
		weight:   weight,
	}
	for _, c := range children {
		u.numEstimated += c.NumEstimated()
	}
	u.Rewind()

	return u, nil
}

func (u *Union) Read() status.Status {
	if u.useHeap {
		return u.readHeap()
	}

	return u.readFlat()
}

func (u *Union) readFlat() status.Status {
	lastID := u.lastDocID
	i := 0
	for i < len(u.active) {
		c := u.active[i]
		if c.LastDocID() == lastID {
			if st := c.Read(); st == status.Eof {
				u.active = append(u.active[:i], u.active[i+1:]...)

				continue
			}
		}
		i++
	}
	if len(u.active) == 0 {
		return status.Eof
	}

	min := u.active[0].LastDocID()
	for _, c := range u.active[1:] {
		if d := c.LastDocID(); d < min {
			min = d
		}
	}
	u.lastDocID = min
	u.fillAggregateFlat(min)

	return status.Ok
}

func (u *Union) SkipTo(target record.DocID) status.Status {
	if u.useHeap {
		return u.skipToHeap(target)
	}

	return u.skipToFlat(target)
}

func (u *Union) skipToFlat(target record.DocID) status.Status {
	i := 0
	for i < len(u.active) {
		c := u.active[i]
		if c.LastDocID() < target {
			if st := c.SkipTo(target); st == status.Eof {
				u.active = append(u.active[:i], u.active[i+1:]...)

				continue
			}
		}
		i++
	}
	if len(u.active) == 0 {
		return status.Eof
	}

	min := u.active[0].LastDocID()
	for _, c := range u.active[1:] {
		if d := c.LastDocID(); d < min {
			min = d
		}
	}
	u.lastDocID = min
	u.fillAggregateFlat(min)
	if min == target {
		return status.Ok
	}

	return status.NotFound
}

func (u *Union) fillAggregateFlat(target record.DocID) {
	u.cur.Reset()
	u.cur.Kind = record.KindUnion
	u.cur.DocID = target
	u.cur.Weight = u.weight
	for _, c := range u.active {
		if c.LastDocID() != target {
			continue
		}
		u.cur.AddChild(c.Current())
		if u.mode == ModeQuick {
			break
		}
	}
}

func (u *Union) readHeap() status.Status {
	// A preceding SkipTo leaves the children that landed on its result
	// parked there; step them past the already-yielded docId first.
	for len(u.h) > 0 && u.h[0].docID == u.lastDocID {
		item := heap.Pop(&u.h).(*unionHeapItem)
		if st := item.it.Read(); st != status.Eof {
			item.docID = item.it.LastDocID()
			heap.Push(&u.h, item)
		}
	}
	if len(u.h) == 0 {
		return status.Eof
	}

	min := u.h[0].docID
	u.cur.Reset()
	u.cur.Kind = record.KindUnion
	u.cur.DocID = min
	u.cur.Weight = u.weight

	first := true
	for len(u.h) > 0 && u.h[0].docID == min {
		item := heap.Pop(&u.h).(*unionHeapItem)
		if u.mode == ModeFull || first {
			u.cur.AddChild(item.it.Current())
		}
		first = false
		if st := item.it.Read(); st != status.Eof {
			item.docID = item.it.LastDocID()
			heap.Push(&u.h, item)
		}
	}
	u.lastDocID = min

	return status.Ok
}

func (u *Union) skipToHeap(target record.DocID) status.Status {
	var advanced []*unionHeapItem
	for len(u.h) > 0 && u.h[0].docID < target {
		item := heap.Pop(&u.h).(*unionHeapItem)
		if st := item.it.SkipTo(target); st != status.Eof {
			item.docID = item.it.LastDocID()
			advanced = append(advanced, item)
		}
	}
	for _, item := range advanced {
		heap.Push(&u.h, item)
	}
	if len(u.h) == 0 {
		return status.Eof
	}

	min := u.h[0].docID
	u.lastDocID = min
	u.fillAggregateHeap(min)
	if min == target {
		return status.Ok
	}

	return status.NotFound
}

func (u *Union) fillAggregateHeap(min record.DocID) {
	u.cur.Reset()
	u.cur.Kind = record.KindUnion
	u.cur.DocID = min
	u.cur.Weight = u.weight

	var same []*unionHeapItem
	for len(u.h) > 0 && u.h[0].docID == min {
		same = append(same, heap.Pop(&u.h).(*unionHeapItem))
	}
	for i, item := range same {
		if u.mode == ModeFull || i == 0 {
			u.cur.AddChild(item.it.Current())
		}
		heap.Push(&u.h, item)
	}
}

func (u *Union) Current() *record.Record { return &u.cur }
func (u *Union) LastDocID() record.DocID { return u.lastDocID }
func (u *Union) NumEstimated() int       { return u.numEstimated }

func (u *Union) Rewind() {
	u.lastDocID = record.NoDocID
	u.cur.Reset()

	if u.useHeap {
		u.primeHeap()

		return
	}

	u.active = append(u.active[:0], u.children...)
	for _, c := range u.children {
		c.Rewind()
	}
}

func (u *Union) primeHeap() {
	u.h = u.h[:0]
	for _, c := range u.children {
		c.Rewind()
		if st := c.Read(); st != status.Eof {
			u.h = append(u.h, &unionHeapItem{it: c, docID: c.LastDocID()})
		}
	}
	heap.Init(&u.h)
}

func (u *Union) Free() {
	for _, c := range u.children {
		c.Free()
	}
}

func (u *Union) Revalidate() status.Validate {
	worst := status.Valid
	for _, c := range u.children {
		switch c.Revalidate() {
		case status.Aborted:
			return status.Aborted
		case status.Moved:
			worst = status.Moved
		}
	}
	if worst == status.Moved {
		last := u.lastDocID
		u.Rewind()
		if last != record.NoDocID {
			u.SkipTo(last + 1)
		}
	}

	return worst
}
