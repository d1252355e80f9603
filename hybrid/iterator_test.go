package hybrid

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/quiverdb/quiver/errs"
	"github.com/quiverdb/quiver/iterator"
	"github.com/quiverdb/quiver/record"
	"github.com/quiverdb/quiver/status"
)

func vectors() map[record.DocID][]float32 {
	return map[record.DocID][]float32{
		1: {0, 0},
		2: {1, 0},
		3: {5, 5},
		4: {10, 10},
	}
}

func TestNew_RejectsNilCollaborator(t *testing.T) {
	_, err := New(nil, nil, Query{K: 2}, nil)
	require.ErrorIs(t, err, errs.ErrHybridNoANN)
}

func TestNew_RejectsBadK(t *testing.T) {
	coll := newFakeCollaborator(vectors())
	_, err := New(nil, coll, Query{K: 0}, nil)
	require.ErrorIs(t, err, errs.ErrHybridBadK)
}

func TestNew_RejectsAdHocWithoutFilter(t *testing.T) {
	coll := newFakeCollaborator(vectors())
	_, err := New(nil, coll, Query{K: 2, Mode: ModeAdHocBF}, nil)
	require.ErrorIs(t, err, errs.ErrHybridNoFilter)
}

func TestStandardKNN_YieldsAscendingByDistance(t *testing.T) {
	coll := newFakeCollaborator(vectors())
	q := Query{QueryID: uuid.New(), Vector: []float32{0, 0}, K: 3, ScoreField: "dist"}
	it, err := New(nil, coll, q, nil)
	require.NoError(t, err)

	var got []record.DocID
	var dists []float64
	for {
		st := it.Read()
		if st == status.Eof {
			break
		}
		require.Equal(t, status.Ok, st)
		got = append(got, it.Current().DocID)
		dists = append(dists, it.Current().Metrics[0].Value)
	}
	require.Equal(t, []record.DocID{1, 2, 3}, got)
	require.True(t, dists[0] <= dists[1] && dists[1] <= dists[2])
	require.Equal(t, 1, coll.topKCalls)
}

func TestRange_FiltersByRadius(t *testing.T) {
	coll := newFakeCollaborator(vectors())
	q := Query{Vector: []float32{0, 0}, K: 1, Radius: 2, Mode: ModeRange, ScoreField: "dist"}
	it, err := New(nil, coll, q, nil)
	require.NoError(t, err)

	var got []record.DocID
	for {
		st := it.Read()
		if st == status.Eof {
			break
		}
		got = append(got, it.Current().DocID)
	}
	require.Equal(t, []record.DocID{1, 2}, got)
}

func TestAdHocBF_ScoresOnlyFilterSurvivors(t *testing.T) {
	coll := newFakeCollaborator(vectors())
	filter := iterator.NewIDList([]record.DocID{2, 4}, 1.0)
	q := Query{Vector: []float32{0, 0}, K: 2, Mode: ModeAdHocBF, ScoreField: "dist"}
	it, err := New(nil, coll, q, filter)
	require.NoError(t, err)

	var got []record.DocID
	for {
		st := it.Read()
		if st == status.Eof {
			break
		}
		got = append(got, it.Current().DocID)
		require.Equal(t, record.KindHybridMetric, it.Current().Kind)
		require.Len(t, it.Current().Children, 2)
	}
	require.ElementsMatch(t, []record.DocID{2, 4}, got)
}

func TestAdHocBF_SkipsDocsWithNoVector(t *testing.T) {
	coll := newFakeCollaborator(vectors())
	filter := iterator.NewIDList([]record.DocID{2, 99}, 1.0)
	q := Query{Vector: []float32{0, 0}, K: 5, Mode: ModeAdHocBF}
	it, err := New(nil, coll, q, filter)
	require.NoError(t, err)

	var got []record.DocID
	for {
		st := it.Read()
		if st == status.Eof {
			break
		}
		got = append(got, it.Current().DocID)
	}
	require.Equal(t, []record.DocID{2}, got)
}

func TestAdHocBF_HeapBoundsToK(t *testing.T) {
	coll := newFakeCollaborator(vectors())
	filter := iterator.NewIDList([]record.DocID{1, 2, 3, 4}, 1.0)
	q := Query{Vector: []float32{0, 0}, K: 2, Mode: ModeAdHocBF}
	it, err := New(nil, coll, q, filter)
	require.NoError(t, err)

	n := 0
	for {
		st := it.Read()
		if st == status.Eof {
			break
		}
		n++
	}
	require.Equal(t, 2, n)
}

func TestBatches_MergesFilterAndANN(t *testing.T) {
	coll := newFakeCollaborator(vectors())
	filter := iterator.NewIDList([]record.DocID{1, 2, 3, 4}, 1.0)
	q := Query{Vector: []float32{0, 0}, K: 4, Mode: ModeBatches, BatchSize: 1}
	it, err := New(nil, coll, q, filter)
	require.NoError(t, err)

	var got []record.DocID
	for {
		st := it.Read()
		if st == status.Eof {
			break
		}
		got = append(got, it.Current().DocID)
	}
	require.Len(t, got, 4)
}

func TestAuto_SmallFilterPrefersAdHoc(t *testing.T) {
	coll := newFakeCollaborator(vectors())
	filter := iterator.NewIDList([]record.DocID{2}, 1.0)
	q := Query{Vector: []float32{0, 0}, K: 1, Mode: ModeAuto}
	it, err := New(nil, coll, q, filter)
	require.NoError(t, err)

	require.Equal(t, status.Ok, it.Read())
	require.Equal(t, resolvedAdHocBF, it.mode)
}

func TestSkipTo_FindsByDocID(t *testing.T) {
	coll := newFakeCollaborator(vectors())
	q := Query{Vector: []float32{0, 0}, K: 4}
	it, err := New(nil, coll, q, nil)
	require.NoError(t, err)

	require.Equal(t, status.Ok, it.SkipTo(4))
	require.Equal(t, record.DocID(4), it.LastDocID())
}

func TestSkipTo_MissingDocIDIsEof(t *testing.T) {
	coll := newFakeCollaborator(vectors())
	q := Query{Vector: []float32{0, 0}, K: 4}
	it, err := New(nil, coll, q, nil)
	require.NoError(t, err)

	require.Equal(t, status.Eof, it.SkipTo(999))
}

func TestRewind_RerunsMode(t *testing.T) {
	coll := newFakeCollaborator(vectors())
	q := Query{Vector: []float32{0, 0}, K: 2}
	it, err := New(nil, coll, q, nil)
	require.NoError(t, err)

	it.Read()
	it.Read()
	require.Equal(t, status.Eof, it.Read())

	it.Rewind()
	require.Equal(t, status.Ok, it.Read())
	require.Equal(t, 2, coll.topKCalls)
}

func TestCosineMetric_NormalizesQueryVectorCopy(t *testing.T) {
	coll := newFakeCollaborator(vectors())
	coll.metric = MetricCosine
	filter := iterator.NewIDList([]record.DocID{2}, 1.0)
	q := Query{Vector: []float32{3, 4}, K: 1, Mode: ModeAdHocBF}
	it, err := New(nil, coll, q, filter)
	require.NoError(t, err)

	require.Equal(t, status.Ok, it.Read())
	// normalized (0.6, 0.8) to doc 2 at (1, 0) is sqrt(0.8); the raw (3, 4) would give sqrt(20).
	require.InDelta(t, 0.894427191, it.Current().Metrics[0].Value, 1e-6)
	require.Equal(t, []float32{3, 4}, q.Vector)
}
