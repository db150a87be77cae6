package searcher

import (
	"context"
	"time"
)

// StopReason tells why a search stopped.
type StopReason int

const (
	StopNone StopReason = iota
	StopSimulations
	StopTimeLimit
	StopInterrupt
)

func (r StopReason) String() string {
	switch r {
	case StopSimulations:
		return "simulations"
	case StopTimeLimit:
		return "time limit"
	case StopInterrupt:
		return "interrupt"
	default:
		return "none"
	}
}

type limiter struct {
	ctx         context.Context
	simulations int
	timeLimit   time.Duration // Zero for no limit
	start       time.Time
}

func newLimiter(ctx context.Context, simulations int, timeLimit time.Duration) *limiter {
	return &limiter{
		ctx:         ctx,
		simulations: simulations,
		timeLimit:   timeLimit,
		start:       time.Now(),
	}
}

// check returns StopNone while another iteration may run. The time limit is
// only enforced after the first simulation so every search returns a move.
func (l *limiter) check(done int) StopReason {
	select {
	case <-l.ctx.Done():
		return StopInterrupt
	default:
	}

	if done >= l.simulations {
		return StopSimulations
	}
	if l.timeLimit > 0 && done > 0 && time.Since(l.start) >= l.timeLimit {
		return StopTimeLimit
	}
	return StopNone
}

// remaining returns how many simulations the budget still allows.
func (l *limiter) remaining(done int) int {
	return l.simulations - done
}
