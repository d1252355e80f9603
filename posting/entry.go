package posting

import "github.com/quiverdb/quiver/record"

// Entry is the payload add_entry writes and a decoder reconstructs. Which
// fields are meaningful for a given index is determined by Flags: a
// Numeric index only inspects Value; a DocIDOnly index inspects none.
type Entry struct {
	Freq      uint32
	FieldMask record.FieldMask
	Offsets   []byte
	Value     float64
}
