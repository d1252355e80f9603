package iterator

import (
	"github.com/quiverdb/quiver/record"
	"github.com/quiverdb/quiver/status"
)

// Metric walks parallel docId/metric-value arrays in array order,
// attaching a (key, value) metric pair to each yielded record — used by
// the hybrid vector iterator's RANGE mode and by any node that has a
// pre-scored result set, grounded on metric_iterator.c.
type Metric struct {
	ids     []record.DocID
	values  []float64
	key     string
	weight  float64

	pos int
	cur record.Record
}

// NewMetric wraps parallel ids/values slices (ids ascending, same
// length as values) under metric name key.
func NewMetric(ids []record.DocID, values []float64, key string, weight float64) *Metric {
	m := &Metric{ids: ids, values: values, key: key, weight: weight}
	m.Rewind()

	return m
}

func (m *Metric) Read() status.Status {
	if m.pos >= len(m.ids) {
		return status.Eof
	}

	m.fill(m.pos)
	m.pos++

	return status.Ok
}

// SkipTo linearly advances from the current offset, mirroring the
// original's array-scan skipTo (no index is maintained over the array).
func (m *Metric) SkipTo(target record.DocID) status.Status {
	for m.pos < len(m.ids) && m.ids[m.pos] < target {
		m.pos++
	}
	if m.pos >= len(m.ids) {
		return status.Eof
	}

	found := m.ids[m.pos]
	m.fill(m.pos)
	m.pos++

	if found == target {
		return status.Ok
	}

	return status.NotFound
}

func (m *Metric) fill(i int) {
	m.cur.Reset()
	m.cur.Kind = record.KindMetric
	m.cur.DocID = m.ids[i]
	m.cur.Freq = 1
	m.cur.Weight = m.weight
	m.cur.Metrics = append(m.cur.Metrics, record.Metric{Key: m.key, Value: m.values[i]})
}

func (m *Metric) Current() *record.Record { return &m.cur }

func (m *Metric) LastDocID() record.DocID {
	if m.pos == 0 {
		return record.NoDocID
	}

	return m.ids[m.pos-1]
}

func (m *Metric) NumEstimated() int { return len(m.ids) - m.pos }

func (m *Metric) Rewind() {
	m.pos = 0
	m.cur.Reset()
}

func (m *Metric) Free() {}

func (m *Metric) Revalidate() status.Validate { return status.Valid }
