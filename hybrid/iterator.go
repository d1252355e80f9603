package hybrid

import (
	"container/heap"
	"context"

	"github.com/quiverdb/quiver/errs"
	"github.com/quiverdb/quiver/iterator"
	"github.com/quiverdb/quiver/record"
	"github.com/quiverdb/quiver/status"
)

// resolvedMode is the concrete execution path chosen for a query, after
// ModeAuto (if requested) has been resolved against preferAdHoc.
type resolvedMode uint8

const (
	resolvedStandardKNN resolvedMode = iota
	resolvedRange
	resolvedAdHocBF
	resolvedBatches
)

// Iterator answers one hybrid vector Query against a Collaborator,
// optionally intersected against a filter subtree, as a
// iterator.QueryIterator. Grounded on HybridIterator in hybrid_reader.h.
type Iterator struct {
	ctx    context.Context
	ann    Collaborator
	query  Query
	filter iterator.QueryIterator
	mode   resolvedMode

	prepared bool
	prepErr  error

	// StandardKNN / Range: ascending result list + cursor.
	results []Neighbor
	pos     int

	// AdHocBF / Batches: bounded top-k heap.
	h maxHeap

	lastDocID record.DocID
	cur       record.Record
}

// New builds a hybrid iterator. filter may be nil (StandardKNN/Range
// only). Pinning ModeAdHocBF or ModeBatches without a filter is an
// error, since both require something to iterate.
func New(ctx context.Context, ann Collaborator, q Query, filter iterator.QueryIterator) (*Iterator, error) {
	if ann == nil {
		return nil, errs.ErrHybridNoANN
	}
	if q.Mode != ModeRange && q.K <= 0 {
		return nil, errs.ErrHybridBadK
	}
	if filter == nil && (q.Mode == ModeAdHocBF || q.Mode == ModeBatches) {
		return nil, errs.ErrHybridNoFilter
	}
	if q.BatchSize < 0 {
		return nil, errs.ErrHybridBadBatchSize
	}

	it := &Iterator{ctx: ctx, ann: ann, query: q, filter: filter}
	it.Rewind()

	return it, nil
}

func (it *Iterator) resolveMode() resolvedMode {
	if it.query.Mode == ModeRange {
		return resolvedRange
	}
	if it.filter == nil {
		return resolvedStandardKNN
	}
	switch it.query.Mode {
	case ModeAdHocBF:
		return resolvedAdHocBF
	case ModeBatches:
		return resolvedBatches
	case ModeStandardKNN:
		return resolvedStandardKNN
	default:
		if preferAdHoc(it.filter.NumEstimated(), it.query.K, it.ann.IndexSize()) {
			return resolvedAdHocBF
		}

		return resolvedBatches
	}
}

func (it *Iterator) ctxDone() bool {
	if it.ctx == nil {
		return false
	}
	select {
	case <-it.ctx.Done():
		return true
	default:
		return false
	}
}

// prepare runs the selected mode's search exactly once, on the first
// Read or SkipTo call, mirroring resultsPrepared.
func (it *Iterator) prepare() {
	it.mode = it.resolveMode()

	switch it.mode {
	case resolvedStandardKNN:
		it.prepErr = it.prepareStandardKNN()
	case resolvedRange:
		it.prepErr = it.prepareRange()
	case resolvedAdHocBF:
		it.prepErr = it.prepareAdHocBF()
	case resolvedBatches:
		it.prepErr = it.prepareBatches()
	}
	it.prepared = true
}

func (it *Iterator) prepareStandardKNN() error {
	res, err := it.ann.TopK(it.ctx, it.query.Vector, it.query.K)
	if err != nil {
		return err
	}
	it.results = res

	return nil
}

func (it *Iterator) prepareRange() error {
	res, err := it.ann.Range(it.ctx, it.query.Vector, it.query.Radius)
	if err != nil {
		return err
	}
	it.results = res

	return nil
}

func (it *Iterator) prepareAdHocBF() error {
	qv := it.query.Vector
	if it.ann.Metric() == MetricCosine {
		qv = normalizeCopy(qv)
	}

	it.h = it.h[:0]
	it.filter.Rewind()
	for {
		if it.ctxDone() {
			break
		}
		if st := it.filter.Read(); st == status.Eof {
			break
		}

		docID := it.filter.LastDocID()
		dist, ok := it.ann.DistanceTo(it.ctx, docID, qv)
		if !ok {
			continue
		}

		it.offer(&scoredDoc{docID: docID, distance: dist, childRec: it.filter.Current().DeepCopy()})
	}

	return nil
}

// prepareBatches walks the filter and the collaborator's batch
// iterator in lock-step, re-estimating the filter's density after each
// batch (reviewHybridSearchPolicy) and switching to AD-HOC BF when that
// becomes favorable.
//
// Simplification: batches are matched against the filter's full yield
// set via a map keyed by docId rather than a sorted merge walk (the
// original's alternatingIterate), since the filter subtree here is an
// arbitrary iterator.QueryIterator and not guaranteed cheap to
// re-position mid-scan; functionally equivalent, not asymptotically
// identical for very large batches.
func (it *Iterator) prepareBatches() error {
	it.h = it.h[:0]
	childEstimated := it.filter.NumEstimated()
	if childEstimated == 0 {
		return nil
	}
	indexSize := it.ann.IndexSize()
	if childEstimated > indexSize {
		childEstimated = indexSize
	}
	childUpperBound := childEstimated

	batchIt, err := it.ann.NewBatchIterator(it.ctx, it.query.Vector)
	if err != nil {
		return err
	}

	for batchIt.HasNext() {
		if it.ctxDone() {
			break
		}

		nResLeft := it.query.K - len(it.h)
		if nResLeft <= 0 {
			break
		}

		bs := it.query.BatchSize
		if bs == 0 {
			bs = computeBatchSize(nResLeft, indexSize, childEstimated)
		}

		neighbors, err := batchIt.Next(it.ctx, bs)
		if err != nil {
			return err
		}
		if len(neighbors) == 0 {
			break
		}

		byID := make(map[record.DocID]float64, len(neighbors))
		for _, nb := range neighbors {
			byID[nb.DocID] = nb.Distance
		}

		it.filter.Rewind()
		matched := 0
		for {
			st := it.filter.Read()
			if st == status.Eof {
				break
			}
			docID := it.filter.LastDocID()
			if dist, ok := byID[docID]; ok {
				matched++
				it.offer(&scoredDoc{docID: docID, distance: dist, childRec: it.filter.Current().DeepCopy()})
			}
		}

		if it.query.BatchSize != 0 {
			continue
		}

		newEstimate := int(float64(matched) / float64(maxInt(nResLeft, 1)) * float64(indexSize))
		childEstimated = (childEstimated + newEstimate) / 2
		if childEstimated > childUpperBound {
			childEstimated = childUpperBound
		}
		if preferAdHoc(childEstimated, it.query.K, indexSize) {
			return it.prepareAdHocBF()
		}
	}

	return nil
}

func (it *Iterator) offer(entry *scoredDoc) {
	if len(it.h) < it.query.K {
		heap.Push(&it.h, entry)

		return
	}
	if entry.distance < it.h[0].distance {
		heap.Pop(&it.h)
		heap.Push(&it.h, entry)
	}
}

func (it *Iterator) Read() status.Status {
	if !it.prepared {
		it.prepare()
	}
	if it.prepErr != nil {
		return status.Eof
	}
	if it.ctxDone() {
		return status.Timeout
	}

	switch it.mode {
	case resolvedStandardKNN, resolvedRange:
		return it.readList()
	default:
		return it.readHeap()
	}
}

func (it *Iterator) readList() status.Status {
	if it.pos >= len(it.results) {
		return status.Eof
	}
	n := it.results[it.pos]
	it.pos++
	it.fillMetric(n.DocID, n.Distance, nil)
	it.lastDocID = n.DocID

	return status.Ok
}

func (it *Iterator) readHeap() status.Status {
	if len(it.h) == 0 {
		return status.Eof
	}
	item := heap.Pop(&it.h).(*scoredDoc)
	it.fillMetric(item.docID, item.distance, item.childRec)
	it.lastDocID = item.docID

	return status.Ok
}

func (it *Iterator) fillMetric(docID record.DocID, distance float64, childRec *record.Record) {
	metric := record.NewMetric(docID, it.query.weightOrDefault(), record.Metric{Key: it.query.ScoreField, Value: distance})
	if childRec == nil {
		it.cur = *metric

		return
	}

	agg := record.NewAggregate(record.KindHybridMetric, docID, it.query.weightOrDefault())
	agg.AddChild(metric)
	agg.AddChild(childRec)
	it.cur = *agg
}

// SkipTo reads forward until target is produced or the iterator is
// exhausted. Hybrid results are ordered by score, not docId, so unlike
// every other QueryIterator in this module a miss never yields
// NotFound early — only Ok (found, eventually) or Eof/Timeout.
func (it *Iterator) SkipTo(target record.DocID) status.Status {
	for {
		st := it.Read()
		if st != status.Ok {
			return st
		}
		if it.lastDocID == target {
			return status.Ok
		}
	}
}

func (it *Iterator) Current() *record.Record { return &it.cur }
func (it *Iterator) LastDocID() record.DocID { return it.lastDocID }
func (it *Iterator) NumEstimated() int       { return it.query.K }

func (it *Iterator) Rewind() {
	it.prepared = false
	it.prepErr = nil
	it.pos = 0
	it.results = nil
	it.h = it.h[:0]
	it.lastDocID = record.NoDocID
	it.cur.Reset()
	if it.filter != nil {
		it.filter.Rewind()
	}
}

func (it *Iterator) Free() {
	if it.filter != nil {
		it.filter.Free()
	}
}

func (it *Iterator) Revalidate() status.Validate {
	if it.filter == nil {
		return status.Valid
	}

	switch it.filter.Revalidate() {
	case status.Aborted:
		return status.Aborted
	case status.Moved:
		it.Rewind()

		return status.Moved
	default:
		return status.Valid
	}
}

// Err returns the error from the mode's search call, if any.
func (it *Iterator) Err() error { return it.prepErr }
