package iterator

import "github.com/quiverdb/quiver/record"

// unionHeapItem pairs a child iterator with its last-read docId, the key
// the heap orders by.
type unionHeapItem struct {
	it    QueryIterator
	docID record.DocID
}

// unionHeap is a container/heap.Interface min-heap over active union
// children, used once the child count passes the flat-scan threshold.
type unionHeap []*unionHeapItem

func (h unionHeap) Len() int            { return len(h) }
func (h unionHeap) Less(i, j int) bool  { return h[i].docID < h[j].docID }
func (h unionHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *unionHeap) Push(x any) {
	*h = append(*h, x.(*unionHeapItem))
}

func (h *unionHeap) Pop() any {
	old := *h
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	*h = old[:n-1]

	return item
}
