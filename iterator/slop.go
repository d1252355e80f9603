package iterator

import (
	"sort"

	"github.com/quiverdb/quiver/internal/vbyte"
	"github.com/quiverdb/quiver/record"
)

// decodeOffsets unpacks a term record's varint-packed, ascending
// token-position vector. Records with no stored offsets (numeric,
// virtual, metric) decode to nil.
func decodeOffsets(rec *record.Record) []uint32 {
	if rec == nil || len(rec.Offsets) == 0 {
		return nil
	}

	r := vbyte.NewReader(rec.Offsets)
	out := make([]uint32, 0, len(rec.Offsets))
	for !r.AtEnd() {
		v, err := vbyte.ReadVarint(r)
		if err != nil {
			break
		}
		out = append(out, v)
	}

	return out
}

// slopSatisfied reports whether some selection of one offset per child
// admits a linear arrangement within maxSlop of each other (or, if
// inOrder, strictly increasing by child index with the same span
// bound). maxSlop < 0 disables the distance bound.
//
// This greedily anchors on each of the first child's offsets and, for
// every other child, picks the offset closest to (inOrder: the nearest
// one after) the running position — a near-linear approximation of the
// original's merge-sweep rather than an exhaustive search over every
// combination, which is exponential in child count.
func slopSatisfied(children []QueryIterator, maxSlop int, inOrder bool) bool {
	if maxSlop < 0 && !inOrder {
		return true
	}

	offsets := make([][]uint32, len(children))
	for i, c := range children {
		offsets[i] = decodeOffsets(c.Current())
		if len(offsets[i]) == 0 {
			return false
		}
	}

	for _, anchor := range offsets[0] {
		if trySelection(offsets, anchor, maxSlop, inOrder) {
			return true
		}
	}

	return false
}

func trySelection(offsets [][]uint32, anchor uint32, maxSlop int, inOrder bool) bool {
	min, max := anchor, anchor
	prev := anchor

	for i := 1; i < len(offsets); i++ {
		var pick uint32
		var ok bool
		if inOrder {
			pick, ok = nearestAfter(offsets[i], prev)
		} else {
			pick, ok = nearestTo(offsets[i], prev)
		}
		if !ok {
			return false
		}

		if pick < min {
			min = pick
		}
		if pick > max {
			max = pick
		}
		prev = pick
	}

	if maxSlop < 0 {
		return true
	}

	return int(max-min) <= maxSlop
}

// nearestAfter returns the smallest value in sorted strictly greater
// than after.
func nearestAfter(sorted []uint32, after uint32) (uint32, bool) {
	idx := sort.Search(len(sorted), func(i int) bool { return sorted[i] > after })
	if idx == len(sorted) {
		return 0, false
	}

	return sorted[idx], true
}

// nearestTo returns the value in sorted closest to target by absolute
// distance.
func nearestTo(sorted []uint32, target uint32) (uint32, bool) {
	if len(sorted) == 0 {
		return 0, false
	}

	idx := sort.Search(len(sorted), func(i int) bool { return sorted[i] >= target })
	switch {
	case idx == 0:
		return sorted[0], true
	case idx == len(sorted):
		return sorted[len(sorted)-1], true
	default:
		before := sorted[idx-1]
		after := sorted[idx]
		if target-before <= after-target {
			return before, true
		}

		return after, true
	}
}
