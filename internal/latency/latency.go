// Package latency simulates the network round trip the UI mock layer awaited
// in front of every store operation.
package latency

import (
	"context"
	"math/rand"
	"sync"
	"time"
)

// Simulator suspends callers for a randomized duration before any store work
// happens. Unlike the original mock the wait honors context cancellation.
type Simulator interface {
	Wait(ctx context.Context) error
}

type uniformSimulator struct {
	min time.Duration
	max time.Duration

	mu  sync.Mutex // rand.Rand is not safe for concurrent use
	rng *rand.Rand
}

// NewUniform returns a Simulator drawing delays uniformly from [min, max).
// The delay does not vary with payload size.
func NewUniform(min, max time.Duration) Simulator {
	if max < min {
		max = min
	}
	return &uniformSimulator{
		min: min,
		max: max,
		rng: rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// NewDefault returns the 1.0s-2.0s window used by the UI mocks.
func NewDefault() Simulator {
	return NewUniform(1000*time.Millisecond, 2000*time.Millisecond)
}

func (s *uniformSimulator) Wait(ctx context.Context) error {
	d := s.min
	if span := s.max - s.min; span > 0 {
		s.mu.Lock()
		d += time.Duration(s.rng.Int63n(int64(span)))
		s.mu.Unlock()
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

type noopSimulator struct{}

func (noopSimulator) Wait(ctx context.Context) error {
	return ctx.Err()
}

// NewNoop returns a Simulator that never waits, for tests and batch callers.
func NewNoop() Simulator {
	return noopSimulator{}
}
