// Package tempo provides TempoSource implementations for the scheduler:
// constant rates, frequencies, bounded streams, tempo timelines and a
// rolling-average tempo fed by detected onsets.
package tempo

import (
	"sync/atomic"

	"tictac/internal/sched"
)

// Fixed is a constant tempo in beats per minute.
type Fixed float64

func (f Fixed) Tempo() float64 { return float64(f) }

// Hertz returns a constant tempo of hz beats per second.
func Hertz(hz float64) Fixed { return Fixed(hz * 60) }

// Func adapts a function to a TempoSource.
func Func(f func() float64) sched.TempoSource { return sched.TempoFunc(f) }

type limited struct {
	src    sched.TempoSource
	n      int64
	served atomic.Int64
}

// Limit forwards src until it has returned n positive tempos, then reports
// end of stream. Not-ready polls do not count.
func Limit(src sched.TempoSource, n int) sched.TempoSource {
	return &limited{src: src, n: int64(n)}
}

func (l *limited) Tempo() float64 {
	if l.served.Load() >= l.n {
		return 0
	}
	bpm := l.src.Tempo()
	if bpm > 0 {
		l.served.Add(1)
	}
	return bpm
}
