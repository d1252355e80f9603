package iterator

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/quiverdb/quiver/record"
	"github.com/quiverdb/quiver/status"
)

func TestNot_NonOptimized_ExcludesChildMatches(t *testing.T) {
	child := NewIDList([]record.DocID{2, 4}, 1.0)
	n := NewNot(child, 5, 1.0, nil)

	var got []record.DocID
	for {
		st := n.Read()
		if st == status.Eof {
			break
		}
		got = append(got, n.Current().DocID)
	}
	require.Equal(t, []record.DocID{1, 3, 5}, got)
}

func TestNot_NonOptimized_SkipTo(t *testing.T) {
	child := NewIDList([]record.DocID{2, 3}, 1.0)
	n := NewNot(child, 5, 1.0, nil)

	require.Equal(t, status.NotFound, n.SkipTo(2))
	require.Equal(t, record.DocID(4), n.LastDocID())
}

func TestNot_NonOptimized_ChildExhausted(t *testing.T) {
	child := NewIDList([]record.DocID{1}, 1.0)
	n := NewNot(child, 3, 1.0, nil)

	var got []record.DocID
	for {
		st := n.Read()
		if st == status.Eof {
			break
		}
		got = append(got, n.Current().DocID)
	}
	require.Equal(t, []record.DocID{2, 3}, got)
}

func TestNot_Optimized_UsesExistingDocs(t *testing.T) {
	child := NewIDList([]record.DocID{4}, 1.0)
	existing := NewIDList([]record.DocID{2, 4, 6, 8}, 1.0)
	n := NewNotOptimized(child, existing, 1.0, nil)

	var got []record.DocID
	for {
		st := n.Read()
		if st == status.Eof {
			break
		}
		got = append(got, n.Current().DocID)
	}
	require.Equal(t, []record.DocID{2, 6, 8}, got)
}

func TestNot_Rewind(t *testing.T) {
	child := NewIDList([]record.DocID{2}, 1.0)
	n := NewNot(child, 3, 1.0, nil)
	n.Read()
	n.Rewind()
	require.Equal(t, record.NoDocID, n.LastDocID())
}
