package iterator

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/quiverdb/quiver/record"
	"github.com/quiverdb/quiver/status"
)

func TestMetric_ReadAttachesScore(t *testing.T) {
	m := NewMetric([]record.DocID{2, 4, 6}, []float64{0.9, 0.5, 0.1}, "dist", 1.0)

	require.Equal(t, status.Ok, m.Read())
	require.Equal(t, record.DocID(2), m.Current().DocID)
	require.Equal(t, []record.Metric{{Key: "dist", Value: 0.9}}, m.Current().Metrics)

	require.Equal(t, status.Ok, m.Read())
	require.Equal(t, record.DocID(4), m.Current().DocID)

	require.Equal(t, status.Ok, m.Read())
	require.Equal(t, status.Eof, m.Read())
}

func TestMetric_SkipTo_ExactAndMiss(t *testing.T) {
	m := NewMetric([]record.DocID{2, 4, 6}, []float64{0.9, 0.5, 0.1}, "dist", 1.0)
	require.Equal(t, status.Ok, m.SkipTo(4))
	require.Equal(t, record.DocID(4), m.LastDocID())

	m2 := NewMetric([]record.DocID{2, 4, 6}, []float64{0.9, 0.5, 0.1}, "dist", 1.0)
	require.Equal(t, status.NotFound, m2.SkipTo(3))
	require.Equal(t, record.DocID(4), m2.LastDocID())
}

func TestMetric_SkipTo_PastEnd(t *testing.T) {
	m := NewMetric([]record.DocID{2, 4}, []float64{0.9, 0.5}, "dist", 1.0)
	require.Equal(t, status.Eof, m.SkipTo(100))
}
