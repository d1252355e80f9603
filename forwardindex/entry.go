package forwardindex

import "github.com/quiverdb/quiver/record"

// Entry is one term's accumulated state within a single document's
// forward index: its frequency, the union of fields it occurred in, and
// its token positions in the order they were added (varint-packed only
// when encoded for the posting list).
type Entry struct {
	Term      string
	Hash      uint32
	Freq      uint32
	FieldMask record.FieldMask
	Positions []uint32
}

func newEntry(term string, hash uint32, fieldMask record.FieldMask, position uint32) *Entry {
	return &Entry{
		Term:      term,
		Hash:      hash,
		Freq:      1,
		FieldMask: fieldMask,
		Positions: []uint32{position},
	}
}

func (e *Entry) addOccurrence(fieldMask record.FieldMask, position uint32) {
	e.Freq++
	e.FieldMask = e.FieldMask.Or(fieldMask)
	e.Positions = append(e.Positions, position)
}
