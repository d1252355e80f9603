package hybrid

import "github.com/quiverdb/quiver/record"

// scoredDoc is one candidate held in the top-k heap: its ANN distance
// and, when it also survived a filter, a deep copy of the filter's
// yielded record (kept past the filter's next Read, unlike the live
// Current() view).
type scoredDoc struct {
	docID    record.DocID
	distance float64
	childRec *record.Record
}

// maxHeap keeps the k best (smallest-distance) candidates seen so far
// by evicting the current worst (largest distance) whenever a better
// one arrives — a bounded max-heap keyed by distance, mirroring
// mm_heap_t's role in computeDistances/alternatingIterate.
type maxHeap []*scoredDoc

func (h maxHeap) Len() int           { return len(h) }
func (h maxHeap) Less(i, j int) bool { return h[i].distance > h[j].distance }
func (h maxHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }

func (h *maxHeap) Push(x any) {
	*h = append(*h, x.(*scoredDoc))
}

func (h *maxHeap) Pop() any {
	old := *h
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	*h = old[:n-1]

	return item
}
