package iterator

import "context"

// timeoutGranularity is how many iterations elapse between context
// checks in the NOT candidate-enumeration loops, mirroring
// TimedOut_WithCtx_Gran's 5000-iteration granularity. Optional does not
// check a timeout.
const timeoutGranularity = 5000

// granularTimeout amortizes context.Context.Done() checks: a ctx.Done()
// channel read is cheap but not free, and these loops can run millions
// of times over a dense docId range.
type granularTimeout struct {
	ctx     context.Context
	counter int
}

func newGranularTimeout(ctx context.Context) granularTimeout {
	return granularTimeout{ctx: ctx}
}

// expired reports whether ctx has been cancelled, checking only once
// every timeoutGranularity calls.
func (g *granularTimeout) expired() bool {
	if g.ctx == nil {
		return false
	}

	g.counter++
	if g.counter < timeoutGranularity {
		return false
	}
	g.counter = 0

	select {
	case <-g.ctx.Done():
		return true
	default:
		return false
	}
}

func (g *granularTimeout) reset() {
	g.counter = 0
}
