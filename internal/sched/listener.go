// internal/sched/listener.go

package sched

// TempoSource is polled by the scheduler for the current rate in beats per
// minute. A value <= 0 means "not ready" before the first beat and "end of
// stream" afterwards. Tempo may block, at the cost of delaying the loop.
type TempoSource interface {
	Tempo() float64
}

// TempoFunc adapts a plain function to a TempoSource.
type TempoFunc func() float64

func (f TempoFunc) Tempo() float64 { return f() }

// Listener is notified synchronously, on the scheduler goroutine, for every
// beat. A slow Beat delays the next beat and may show up as missed beats.
//
// Listeners must not call StopAndWait or AwaitTermination from inside a
// callback; RequestStop is safe.
type Listener interface {
	Beat(accent bool, bpm float64)
}

// MissedBeatsListener is implemented by listeners that want overrun reports.
// Listeners without it ignore overruns.
type MissedBeatsListener interface {
	MissedBeats(count int, bpm float64)
}

// ListenerFunc adapts a plain function to a Listener.
type ListenerFunc func(accent bool, bpm float64)

func (f ListenerFunc) Beat(accent bool, bpm float64) { f(accent, bpm) }
