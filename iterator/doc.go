// Package iterator implements the query iterator algebra: a single
// QueryIterator contract (grounded on posting.Reader's method set) plus
// the composers that build a query tree over leaf readers — union,
// intersection, not, optional, wildcard, idlist, metric, empty, and a
// transparent profiling wrapper.
//
// Every composer is grounded on the corresponding file under
// iterators/ in the original C sources (union_iterator.c,
// intersection_iterator.c, not_iterator.c, idlist_iterator.c,
// metric_iterator.c, profile_iterator.c): the fixpoint/heap disciplines
// and timeout granularity mirror those files, adapted to Go's explicit
// status returns instead of C output parameters.
package iterator
