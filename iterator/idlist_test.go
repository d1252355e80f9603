package iterator

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/quiverdb/quiver/record"
	"github.com/quiverdb/quiver/status"
)

func TestIDList_ReadsInOrder(t *testing.T) {
	l := NewIDList([]record.DocID{1, 3, 7, 9}, 1.0)

	var got []record.DocID
	for {
		st := l.Read()
		if st == status.Eof {
			break
		}
		require.Equal(t, status.Ok, st)
		got = append(got, l.Current().DocID)
	}
	require.Equal(t, []record.DocID{1, 3, 7, 9}, got)
}

func TestIDList_SkipTo_Exact(t *testing.T) {
	l := NewIDList([]record.DocID{1, 3, 7, 9}, 1.0)
	require.Equal(t, status.Ok, l.SkipTo(7))
	require.Equal(t, record.DocID(7), l.LastDocID())
}

func TestIDList_SkipTo_NotFoundLandsHigher(t *testing.T) {
	l := NewIDList([]record.DocID{1, 3, 7, 9}, 1.0)
	require.Equal(t, status.NotFound, l.SkipTo(4))
	require.Equal(t, record.DocID(7), l.LastDocID())
}

func TestIDList_SkipTo_PastEnd(t *testing.T) {
	l := NewIDList([]record.DocID{1, 3}, 1.0)
	require.Equal(t, status.Eof, l.SkipTo(100))
}

func TestIDList_Rewind(t *testing.T) {
	l := NewIDList([]record.DocID{1, 2}, 1.0)
	require.Equal(t, status.Ok, l.Read())
	l.Rewind()
	require.Equal(t, record.NoDocID, l.LastDocID())
	require.Equal(t, status.Ok, l.Read())
	require.Equal(t, record.DocID(1), l.LastDocID())
}
