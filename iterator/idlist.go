package iterator

import (
	"sort"

	"github.com/quiverdb/quiver/record"
	"github.com/quiverdb/quiver/status"
)

// IDList walks an already-sorted, duplicate-free list of docIds, as used
// by a query node that has pre-materialized its matches (e.g. a small
// tag-filter result), grounded on idlist_iterator.c.
type IDList struct {
	ids    []record.DocID
	weight float64

	pos int
	cur record.Record
}

// NewIDList wraps ids, which must already be sorted ascending with no
// duplicates; the caller owns that invariant.
func NewIDList(ids []record.DocID, weight float64) *IDList {
	l := &IDList{ids: ids, weight: weight}
	l.Rewind()

	return l
}

func (l *IDList) Read() status.Status {
	if l.pos >= len(l.ids) {
		return status.Eof
	}

	l.fill(l.ids[l.pos])
	l.pos++

	return status.Ok
}

// SkipTo does a bounded binary search over the remaining tail of ids
// starting from the current offset.
func (l *IDList) SkipTo(target record.DocID) status.Status {
	tail := l.ids[l.pos:]
	idx := sort.Search(len(tail), func(i int) bool { return tail[i] >= target })
	if idx == len(tail) {
		l.pos = len(l.ids)

		return status.Eof
	}

	l.pos += idx
	found := l.ids[l.pos]
	l.fill(found)
	l.pos++

	if found == target {
		return status.Ok
	}

	return status.NotFound
}

func (l *IDList) fill(docID record.DocID) {
	l.cur.Reset()
	l.cur.Kind = record.KindVirtual
	l.cur.DocID = docID
	l.cur.Freq = 1
	l.cur.Weight = l.weight
}

func (l *IDList) Current() *record.Record { return &l.cur }

func (l *IDList) LastDocID() record.DocID {
	if l.pos == 0 {
		return record.NoDocID
	}

	return l.ids[l.pos-1]
}

func (l *IDList) NumEstimated() int { return len(l.ids) - l.pos }

func (l *IDList) Rewind() {
	l.pos = 0
	l.cur.Reset()
}

func (l *IDList) Free() {}

func (l *IDList) Revalidate() status.Validate { return status.Valid }
