package posting

// Flags selects which record fields a term's posting list stores, and
// therefore which encoder/decoder pair Index uses for every block
// it writes. Exactly one flag combination is legal per index (flags are
// fixed at construction and never change).
type Flags uint16

const (
	// StoreFreqs stores each record's term frequency.
	StoreFreqs Flags = 1 << iota
	// StoreFieldMask stores the narrow (32-bit) field mask.
	StoreFieldMask
	// StoreFieldMaskWide stores the wide (128-bit) field mask as a varint
	// pair instead of packing it into a qint tuple. Mutually exclusive
	// with StoreFieldMask.
	StoreFieldMaskWide
	// StoreOffsets stores the raw varint-packed token-position vector.
	StoreOffsets
	// Numeric marks a numeric (not text) posting list: records carry a
	// decoded float64 value instead of freq/fieldMask/offsets.
	Numeric
	// DocIDOnly marks a docId-only posting list (existence set); no
	// per-record payload beyond the delta itself.
	DocIDOnly
	// RawDocID selects 4-byte little-endian absolute-docId encoding
	// instead of delta+varint — used for very dense DocIDOnly lists
	// where deltas are usually 1.
	RawDocID
)

// useFieldMask reports whether either field-mask flag is set.
func (f Flags) useFieldMask() bool {
	return f&(StoreFieldMask|StoreFieldMaskWide) != 0
}

// HasFlag reports whether all bits in want are set.
func (f Flags) HasFlag(want Flags) bool {
	return f&want == want
}

// layout identifies which of the eleven wire layouts in the module's encoder
// table a given Flags combination maps to.
type layout uint8

const (
	layoutFreqsFieldsOffsets layout = iota + 1 // 1: delta, freq, fieldMask, offsets
	layoutFreqsFieldsWide                      // 2: delta, freq, fieldMask(wide)
	layoutFreqsFieldsNarrow                    // 3: delta, freq, fieldMask(narrow, qint-packed)
	layoutFreqsOnly                            // 4: delta, freq
	layoutFieldsOnly                           // 5: delta, fieldMask
	layoutFieldsOffsets                        // 6: delta, fieldMask, offsets
	layoutOffsetsOnly                          // 7: delta, offsets
	layoutFreqsOffsets                         // 8: delta, freq, offsets
	layoutDeltaOnly                            // 9: delta only (varint)
	layoutRawDocID                              // 10: delta only (4-byte LE, raw docid mode)
	layoutNumeric                               // 11: delta, numeric value
)

// resolveLayout maps a Flags combination to its wire layout. It never
// rejects a combination: flags matching no other case map to
// layoutDeltaOnly.
func resolveLayout(f Flags) layout {
	switch {
	case f.HasFlag(Numeric):
		return layoutNumeric
	case f.HasFlag(DocIDOnly) && f.HasFlag(RawDocID):
		return layoutRawDocID
	case f.HasFlag(DocIDOnly):
		return layoutDeltaOnly
	case f.HasFlag(StoreFreqs) && f.useFieldMask() && f.HasFlag(StoreOffsets):
		return layoutFreqsFieldsOffsets
	case f.HasFlag(StoreFreqs) && f.HasFlag(StoreFieldMaskWide):
		return layoutFreqsFieldsWide
	case f.HasFlag(StoreFreqs) && f.useFieldMask():
		// Narrow fieldMask + freqs, no offsets: the mask fits in the qint
		// tuple instead of a trailing pair of varints, so it gets its own
		// layout distinct from the wide-mask encoding.
		return layoutFreqsFieldsNarrow
	case f.HasFlag(StoreFreqs) && f.HasFlag(StoreOffsets):
		return layoutFreqsOffsets
	case f.HasFlag(StoreFreqs):
		return layoutFreqsOnly
	case f.useFieldMask() && f.HasFlag(StoreOffsets):
		return layoutFieldsOffsets
	case f.useFieldMask():
		return layoutFieldsOnly
	case f.HasFlag(StoreOffsets):
		return layoutOffsetsOnly
	default:
		return layoutDeltaOnly
	}
}
