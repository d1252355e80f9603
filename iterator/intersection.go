package iterator

import (
	"sort"

	"github.com/quiverdb/quiver/errs"
	"github.com/quiverdb/quiver/internal/options"
	"github.com/quiverdb/quiver/record"
	"github.com/quiverdb/quiver/status"
)

type intersectionConfig struct {
	maxSlop           int
	inOrder           bool
	sortByCardinality bool
}

// WithMaxSlop constrains how far apart (in token positions) the
// children's matching offsets may be; -1 (the default) means
// unconstrained. Values < -1 are rejected.
func WithMaxSlop(slop int) options.Option[*intersectionConfig] {
	return options.NoError(func(c *intersectionConfig) { c.maxSlop = slop })
}

// WithInOrder requires the children's matching offsets to appear in
// strictly increasing order by child index (a phrase match).
func WithInOrder(inOrder bool) options.Option[*intersectionConfig] {
	return options.NoError(func(c *intersectionConfig) { c.inOrder = inOrder })
}

// WithCardinalitySort turns the default cheapest-child-first reorder on or
// off; false disables it (useful when inOrder already fixes the required
// child order).
func WithCardinalitySort(enabled bool) options.Option[*intersectionConfig] {
	return options.NoError(func(c *intersectionConfig) { c.sortByCardinality = enabled })
}

// Intersection yields docIds every child agrees on, grounded on
// intersection_iterator.c's fixpoint read loop and its slop/inOrder
// offset predicate.
type Intersection struct {
	children []QueryIterator
	weight   float64
	maxSlop  int
	inOrder  bool

	lastDocID    record.DocID
	cur          record.Record
	numEstimated int
}

// NewIntersection builds an intersection over at least two children.
// If any child is the empty iterator, the whole intersection collapses
// to empty (the original's trivial-case reduction).
func NewIntersection(children []QueryIterator, weight float64, opts ...options.Option[*intersectionConfig]) (QueryIterator, error) {
	if len(children) < 2 {
		return nil, errs.ErrNoChildren
	}
	for _, c := range children {
		if c == nil {
			return nil, errs.ErrNilChild
		}
		if _, isEmpty := c.(*Empty); isEmpty {
			return NewEmpty(), nil
		}
	}

	cfg := &intersectionConfig{maxSlop: -1, sortByCardinality: true}
	if err := options.Apply(cfg, opts...); err != nil {
		return nil, err
	}
	if cfg.maxSlop < -1 {
		return nil, errs.ErrInvalidSlop
	}

	ordered := children
	if cfg.sortByCardinality && !cfg.inOrder {
		ordered = append([]QueryIterator(nil), children...)
		sort.Slice(ordered, func(i, j int) bool { return ordered[i].NumEstimated() < ordered[j].NumEstimated() })
	}

	it := &Intersection{children: ordered, weight: weight, maxSlop: cfg.maxSlop, inOrder: cfg.inOrder}
	it.numEstimated = ordered[0].NumEstimated()
	for _, c := range ordered[1:] {
		if n := c.NumEstimated(); n < it.numEstimated {
			it.numEstimated = n
		}
	}
	it.Rewind()

	return it, nil
}

// agree advances every child but the first to target, restarting from
// the first child whenever a later child lands past the current
// candidate, until all children settle on the same docId (or one hits
// Eof).
func (it *Intersection) agree(candidate record.DocID) (record.DocID, status.Status) {
	i := 1
	for i < len(it.children) {
		c := it.children[i]
		if c.LastDocID() == candidate {
			i++

			continue
		}

		st := c.SkipTo(candidate)
		switch st {
		case status.Eof:
			return 0, status.Eof
		case status.Ok:
			i++
		case status.NotFound:
			candidate = c.LastDocID()

			st0 := it.children[0].SkipTo(candidate)
			if st0 == status.Eof {
				return 0, status.Eof
			}
			candidate = it.children[0].LastDocID()
			i = 1
		}
	}

	return candidate, status.Ok
}

func (it *Intersection) checkSlop() bool {
	if it.maxSlop < 0 && !it.inOrder {
		return true
	}

	return slopSatisfied(it.children, it.maxSlop, it.inOrder)
}

func (it *Intersection) Read() status.Status {
	for {
		if st := it.children[0].Read(); st == status.Eof {
			return status.Eof
		}

		final, st := it.agree(it.children[0].LastDocID())
		if st == status.Eof {
			return status.Eof
		}
		if !it.checkSlop() {
			continue
		}

		it.lastDocID = final
		it.fillAggregate(final)

		return status.Ok
	}
}

func (it *Intersection) SkipTo(target record.DocID) status.Status {
	orig := target
	for {
		if st := it.children[0].SkipTo(target); st == status.Eof {
			return status.Eof
		}

		final, st := it.agree(it.children[0].LastDocID())
		if st == status.Eof {
			return status.Eof
		}
		if !it.checkSlop() {
			target = final + 1

			continue
		}

		it.lastDocID = final
		it.fillAggregate(final)
		if final == orig {
			return status.Ok
		}

		return status.NotFound
	}
}

func (it *Intersection) fillAggregate(docID record.DocID) {
	it.cur.Reset()
	it.cur.Kind = record.KindIntersection
	it.cur.DocID = docID
	it.cur.Weight = it.weight
	for _, c := range it.children {
		it.cur.AddChild(c.Current())
	}
}

func (it *Intersection) Current() *record.Record { return &it.cur }
func (it *Intersection) LastDocID() record.DocID { return it.lastDocID }
func (it *Intersection) NumEstimated() int       { return it.numEstimated }

func (it *Intersection) Rewind() {
	it.lastDocID = record.NoDocID
	it.cur.Reset()
	for _, c := range it.children {
		c.Rewind()
	}
}

func (it *Intersection) Free() {
	for _, c := range it.children {
		c.Free()
	}
}

func (it *Intersection) Revalidate() status.Validate {
	worst := status.Valid
	for _, c := range it.children {
		switch c.Revalidate() {
		case status.Aborted:
			return status.Aborted
		case status.Moved:
			worst = status.Moved
		}
	}
	if worst == status.Moved {
		last := it.lastDocID
		it.Rewind()
		if last != record.NoDocID {
			it.SkipTo(last + 1)
		}
	}

	return worst
}
