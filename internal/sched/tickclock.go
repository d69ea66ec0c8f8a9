// internal/sched/tickclock.go

package sched

import (
	"runtime"
	"time"
)

// Clock is the single time source for all interval math in the scheduler.
// Now returns monotonic time as an offset from an arbitrary epoch.
type Clock interface {
	Now() time.Duration
	Sleep(d time.Duration)
}

// monoClock reads the runtime's monotonic clock relative to its creation.
type monoClock struct {
	epoch time.Time
}

// NewClock returns a Clock backed by the system monotonic clock.
func NewClock() Clock {
	return &monoClock{epoch: time.Now()}
}

func (c *monoClock) Now() time.Duration { return time.Since(c.epoch) }

func (c *monoClock) Sleep(d time.Duration) {
	if d > 0 {
		time.Sleep(d)
	}
}

// preciseSleep blocks until the clock reaches deadline. The coarse OS sleep
// covers everything but the last offset; the remainder is a busy spin that
// re-reads the clock without yielding. The spin burns a core for up to
// offset per beat, which is the price paid for sub-millisecond accuracy.
func preciseSleep(c Clock, deadline, offset time.Duration) {
	if remaining := deadline - c.Now(); remaining > offset {
		c.Sleep(remaining - offset)
	}

	for c.Now() < deadline {
		// nothing, on purpose
	}
}

// lockThread pins the calling goroutine to its OS thread so the spin phase
// is not migrated between threads mid-wait.
func lockThread() func() {
	runtime.LockOSThread()
	return runtime.UnlockOSThread
}
