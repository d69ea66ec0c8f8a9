package listener

import (
	"sync/atomic"
	"time"

	"tictac/internal/sched"
)

// delayed stretches a listener's beats by a fixed amount.
type delayed struct {
	next  sched.Listener
	d     time.Duration
	left  atomic.Int64
	clock sched.Clock
}

// Delay wraps next so that each of its first n beats (every beat when n < 0)
// takes an extra d, slept on clock (the system clock when nil). Useful to
// provoke and observe overruns.
func Delay(next sched.Listener, d time.Duration, n int, clock sched.Clock) sched.Listener {
	if clock == nil {
		clock = sched.NewClock()
	}
	l := &delayed{next: next, d: d, clock: clock}
	l.left.Store(int64(n))
	return l
}

func (l *delayed) Beat(accent bool, bpm float64) {
	l.next.Beat(accent, bpm)
	if l.left.Load() == 0 {
		return
	}
	l.left.Add(-1)
	l.clock.Sleep(l.d)
}

func (l *delayed) MissedBeats(count int, bpm float64) {
	if ml, ok := l.next.(sched.MissedBeatsListener); ok {
		ml.MissedBeats(count, bpm)
	}
}
