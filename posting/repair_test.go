package posting

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/quiverdb/quiver/record"
	"github.com/quiverdb/quiver/status"
)

func TestRepair_RemovesDeletedDocs(t *testing.T) {
	idx := New(StoreFreqs)
	for i := 1; i <= 5; i++ {
		_, err := idx.AddEntry(record.DocID(i), Entry{Freq: uint32(i)})
		require.NoError(t, err)
	}

	deleted := map[record.DocID]bool{2: true, 4: true}
	exists := func(docID record.DocID) bool { return !deleted[docID] }

	frags, err := idx.Repair(exists)
	require.NoError(t, err)
	require.Equal(t, 2, frags)
	require.Equal(t, 3, idx.NumDocs())
	require.Equal(t, record.DocID(5), idx.LastID())

	r := NewReader(idx, nil, 1.0, false)
	var got []record.DocID
	for r.Read() == status.Ok {
		got = append(got, r.Current().DocID)
	}
	require.Equal(t, []record.DocID{1, 3, 5}, got)
}

func TestRepair_KeepsUntouchedPrefixBytesIdentical(t *testing.T) {
	idx := New(StoreFreqs)
	for i := 1; i <= 4; i++ {
		_, err := idx.AddEntry(record.DocID(i), Entry{Freq: uint32(i)})
		require.NoError(t, err)
	}
	before := append([]byte(nil), idx.blocks[0].Data()...)

	// Deleting only the last doc means every survivor before it is an
	// untouched prefix, copied byte-for-byte rather than re-encoded.
	exists := func(docID record.DocID) bool { return docID != 4 }
	frags, err := idx.Repair(exists)
	require.NoError(t, err)
	require.Equal(t, 1, frags)

	after := idx.blocks[0].Data()
	require.True(t, len(after) < len(before))
	require.Equal(t, before[:len(after)], after)
}

func TestRepair_EmptiesFullyDeletedBlock(t *testing.T) {
	idx := New(StoreFreqs)
	for i := 1; i <= 3; i++ {
		_, err := idx.AddEntry(record.DocID(i), Entry{Freq: 1})
		require.NoError(t, err)
	}

	exists := func(record.DocID) bool { return false }
	frags, err := idx.Repair(exists)
	require.NoError(t, err)
	require.Equal(t, 3, frags)
	require.Equal(t, 0, idx.NumBlocks())
	require.Equal(t, record.NoDocID, idx.LastID())
}

func TestRepair_BumpsGCMarker(t *testing.T) {
	idx := New(StoreFreqs)
	_, err := idx.AddEntry(1, Entry{Freq: 1})
	require.NoError(t, err)
	before := idx.GCMarker()

	_, err = idx.Repair(func(record.DocID) bool { return true })
	require.NoError(t, err)
	require.Equal(t, before+1, idx.GCMarker())
}

func TestRepair_MultiValueNumericFragOncePerDoc(t *testing.T) {
	idx := New(Numeric)
	for _, v := range []float64{1, 2, 3} {
		_, err := idx.AddEntry(10, Entry{Value: v})
		require.NoError(t, err)
	}
	_, err := idx.AddEntry(20, Entry{Value: 9})
	require.NoError(t, err)

	deleted := map[record.DocID]bool{10: true}
	exists := func(docID record.DocID) bool { return !deleted[docID] }

	frags, err := idx.Repair(exists)
	require.NoError(t, err)
	// Three multi-value records for doc 10 collapse to a single fragment
	// count, per §4.2.4's distinct-docId accounting.
	require.Equal(t, 1, frags)
}
