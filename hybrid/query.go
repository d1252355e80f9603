package hybrid

import (
	"github.com/google/uuid"
)

// Mode selects (or pins) how a hybrid query combines its vector search
// with its filter subtree.
type Mode uint8

const (
	// ModeAuto lets the iterator pick AdHocBF vs Batches per
	// preferAdHoc, or StandardKNN/Range when there is no filter.
	ModeAuto Mode = iota
	ModeStandardKNN
	ModeAdHocBF
	ModeBatches
	ModeRange
)

// Query describes one hybrid vector search: a KNN or RANGE descriptor,
// plus the knobs a caller may use to pin its execution mode or batch
// size instead of relying on the runtime heuristic.
type Query struct {
	// QueryID correlates this query's timeout context across the ANN
	// collaborator boundary (e.g. in logs or a cooperating library's
	// own cancellation bookkeeping); it has no effect on result
	// content.
	QueryID uuid.UUID

	Vector []float32
	K      int     // KNN: number of neighbors
	Radius float64 // RANGE: distance threshold

	Mode      Mode
	BatchSize int // pinned batch size for ModeBatches; 0 = auto-computed

	ScoreField     string
	Weight         float64
	IgnoreDocScore bool
}

// weightOrDefault returns q.Weight, defaulting to 1.0 when unset.
func (q Query) weightOrDefault() float64 {
	if q.Weight == 0 {
		return 1.0
	}

	return q.Weight
}
