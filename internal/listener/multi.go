package listener

import "tictac/internal/sched"

type multi []sched.Listener

// Multi forwards every notification to each listener, in order.
func Multi(ls ...sched.Listener) sched.Listener {
	out := make(multi, 0, len(ls))
	for _, l := range ls {
		if l != nil {
			out = append(out, l)
		}
	}
	return out
}

func (m multi) Beat(accent bool, bpm float64) {
	for _, l := range m {
		l.Beat(accent, bpm)
	}
}

func (m multi) MissedBeats(count int, bpm float64) {
	for _, l := range m {
		if ml, ok := l.(sched.MissedBeatsListener); ok {
			ml.MissedBeats(count, bpm)
		}
	}
}
