// internal/sched/gate.go

package sched

import (
	"context"
	"sync"
	"sync/atomic"
)

// TerminationGate lets any number of goroutines block until the scheduler
// goroutine has exited. It is opened exactly once.
type TerminationGate struct {
	once   sync.Once
	open   atomic.Bool
	doneCh chan struct{}
}

// NewTerminationGate returns a gate that is not yet open.
func NewTerminationGate() *TerminationGate {
	return &TerminationGate{doneCh: make(chan struct{})}
}

// Open marks termination and releases every waiter. Later calls are no-ops.
func (g *TerminationGate) Open() {
	g.once.Do(func() {
		g.open.Store(true)
		close(g.doneCh)
	})
}

// IsOpen reports whether Open has been called.
func (g *TerminationGate) IsOpen() bool { return g.open.Load() }

// Done is closed when the gate opens.
func (g *TerminationGate) Done() <-chan struct{} { return g.doneCh }

// Wait blocks until the gate opens.
func (g *TerminationGate) Wait() { <-g.doneCh }

// WaitContext blocks until the gate opens or ctx is done.
func (g *TerminationGate) WaitContext(ctx context.Context) error {
	select {
	case <-g.doneCh:
		return nil
	case <-ctx.Done():
		// a gate opened concurrently with cancellation still counts
		if g.IsOpen() {
			return nil
		}
		return ctx.Err()
	}
}
