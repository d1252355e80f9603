package iterator

import (
	"fmt"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/quiverdb/quiver/record"
	"github.com/quiverdb/quiver/status"
)

// Profile transparently wraps a child iterator, counting Read/SkipTo
// calls and accumulating wall-clock time spent in the child, without
// altering what it yields. Grounded on profile_iterator.c.
type Profile struct {
	child QueryIterator

	reads   int64
	skips   int64
	elapsed time.Duration
}

// NewProfile wraps child for instrumentation; child's own position and
// Current stay authoritative, Profile only observes.
func NewProfile(child QueryIterator) *Profile {
	return &Profile{child: child}
}

func (p *Profile) Read() status.Status {
	start := time.Now()
	st := p.child.Read()
	p.elapsed += time.Since(start)
	p.reads++

	return st
}

func (p *Profile) SkipTo(target record.DocID) status.Status {
	start := time.Now()
	st := p.child.SkipTo(target)
	p.elapsed += time.Since(start)
	p.skips++

	return st
}

func (p *Profile) Current() *record.Record   { return p.child.Current() }
func (p *Profile) LastDocID() record.DocID   { return p.child.LastDocID() }
func (p *Profile) NumEstimated() int         { return p.child.NumEstimated() }
func (p *Profile) Rewind()                   { p.child.Rewind() }
func (p *Profile) Free()                     { p.child.Free() }
func (p *Profile) Revalidate() status.Validate { return p.child.Revalidate() }

// Stats is a snapshot of a Profile's accumulated counters.
type Stats struct {
	Reads   int64
	Skips   int64
	Elapsed time.Duration
}

// Stats returns the counters accumulated since construction or the last
// ResetStats call.
func (p *Profile) Stats() Stats {
	return Stats{Reads: p.reads, Skips: p.skips, Elapsed: p.elapsed}
}

// ResetStats zeroes the counters without touching the child's position.
func (p *Profile) ResetStats() {
	p.reads = 0
	p.skips = 0
	p.elapsed = 0
}

// String renders the stats in a human-readable form, e.g. for query
// explain output.
func (s Stats) String() string {
	return fmt.Sprintf("reads=%s skips=%s elapsed=%s",
		humanize.Comma(s.Reads), humanize.Comma(s.Skips), s.Elapsed)
}
