package hybrid

import (
	"context"
	"math"

	"github.com/quiverdb/quiver/record"
)

// VecMetric names the distance function a vector index was built with.
type VecMetric uint8

const (
	MetricL2 VecMetric = iota
	MetricInnerProduct
	MetricCosine
)

// Neighbor is one ANN result: a document and its distance to the query
// vector (lower is closer, regardless of metric).
type Neighbor struct {
	DocID    record.DocID
	Distance float64
}

// BatchIterator yields an ANN index's results in ascending-distance
// chunks, for the BATCHES hybrid mode's lock-step merge with a filter.
type BatchIterator interface {
	HasNext() bool
	Next(ctx context.Context, batchSize int) ([]Neighbor, error)
}

// Collaborator is the vector-index side of a hybrid query: any ANN
// library wired in behind this interface can drive StandardKNN,
// AD-HOC BF, BATCHES, and RANGE modes. Modeled on VecSimIndex's
// TopKQuery / BatchIterator / IndexSize / distance-lookup surface.
type Collaborator interface {
	Dimension() int
	Metric() VecMetric
	IndexSize() int
	TopK(ctx context.Context, query []float32, k int) ([]Neighbor, error)
	Range(ctx context.Context, query []float32, radius float64) ([]Neighbor, error)
	NewBatchIterator(ctx context.Context, query []float32) (BatchIterator, error)
	// DistanceTo returns the distance from query to docID's stored
	// vector. ok is false if docID has no vector (e.g. deleted since
	// the ANN index was built), mirroring the original's NaN-distance
	// skip in computeDistances.
	DistanceTo(ctx context.Context, docID record.DocID, query []float32) (float64, bool)
}

// normalizeCopy L2-normalizes a copy of v, used once per AD-HOC BF run
// when the index metric is cosine (VecSim_Normalize applied to a working
// copy of the query vector, never the caller's original).
func normalizeCopy(v []float32) []float32 {
	var sumSq float64
	for _, x := range v {
		sumSq += float64(x) * float64(x)
	}
	if sumSq == 0 {
		return append([]float32(nil), v...)
	}

	norm := math.Sqrt(sumSq)
	out := make([]float32, len(v))
	for i, x := range v {
		out[i] = float32(float64(x) / norm)
	}

	return out
}
