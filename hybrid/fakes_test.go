package hybrid

import (
	"context"
	"math"
	"sort"

	"github.com/quiverdb/quiver/record"
)

// fakeCollaborator is an in-memory Collaborator over a fixed docId ->
// vector map, used to exercise every hybrid mode without a real ANN
// library.
type fakeCollaborator struct {
	vectors   map[record.DocID][]float32
	indexSize int
	metric    VecMetric
	batchSize int // observed last batch size requested, for assertions

	topKCalls int
	lastQuery []float32
}

func newFakeCollaborator(vectors map[record.DocID][]float32) *fakeCollaborator {
	return &fakeCollaborator{vectors: vectors, indexSize: len(vectors)}
}

func (f *fakeCollaborator) Dimension() int    { return 2 }
func (f *fakeCollaborator) Metric() VecMetric { return f.metric }
func (f *fakeCollaborator) IndexSize() int    { return f.indexSize }

func dist(a, b []float32) float64 {
	var sum float64
	for i := range a {
		d := float64(a[i]) - float64(b[i])
		sum += d * d
	}

	return math.Sqrt(sum)
}

func (f *fakeCollaborator) TopK(ctx context.Context, query []float32, k int) ([]Neighbor, error) {
	f.topKCalls++
	f.lastQuery = query

	var all []Neighbor
	for id, v := range f.vectors {
		all = append(all, Neighbor{DocID: id, Distance: dist(query, v)})
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Distance < all[j].Distance })
	if len(all) > k {
		all = all[:k]
	}

	return all, nil
}

func (f *fakeCollaborator) Range(ctx context.Context, query []float32, radius float64) ([]Neighbor, error) {
	var all []Neighbor
	for id, v := range f.vectors {
		d := dist(query, v)
		if d <= radius {
			all = append(all, Neighbor{DocID: id, Distance: d})
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Distance < all[j].Distance })

	return all, nil
}

func (f *fakeCollaborator) DistanceTo(ctx context.Context, docID record.DocID, query []float32) (float64, bool) {
	v, ok := f.vectors[docID]
	if !ok {
		return 0, false
	}

	return dist(query, v), true
}

func (f *fakeCollaborator) NewBatchIterator(ctx context.Context, query []float32) (BatchIterator, error) {
	var all []Neighbor
	for id, v := range f.vectors {
		all = append(all, Neighbor{DocID: id, Distance: dist(query, v)})
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Distance < all[j].Distance })

	return &fakeBatchIterator{coll: f, remaining: all}, nil
}

type fakeBatchIterator struct {
	coll      *fakeCollaborator
	remaining []Neighbor
}

func (b *fakeBatchIterator) HasNext() bool { return len(b.remaining) > 0 }

func (b *fakeBatchIterator) Next(ctx context.Context, batchSize int) ([]Neighbor, error) {
	b.coll.batchSize = batchSize
	if batchSize > len(b.remaining) {
		batchSize = len(b.remaining)
	}
	out := b.remaining[:batchSize]
	b.remaining = b.remaining[batchSize:]

	return out, nil
}
