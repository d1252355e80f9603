// Package hybrid implements the hybrid vector iterator: a QueryIterator
// (see package iterator) that answers a KNN or RANGE vector query,
// optionally intersected in-place against a Boolean filter subtree
// rather than through an enclosing intersection node.
//
// Grounded on hybrid_reader.c/.h: StandardKNN calls the collaborator's
// top-k once; AD-HOC brute force walks the filter and scores every
// survivor directly; BATCHES walks the filter and the collaborator's
// batch iterator in lock-step, re-estimating the filter's density after
// each batch and switching to AD-HOC when that becomes cheaper
// (reviewHybridSearchPolicy / VecSimIndex_PreferAdHocSearch).
package hybrid
