package listener

import (
	"sync"
	"time"

	"github.com/emirpasic/gods/queues/circularbuffer"

	"tictac/internal/sched"
)

const defaultHistory = 1024

// Record is one observed beat.
type Record struct {
	At     time.Duration
	Accent bool
	BPM    float64
}

// Recorder timestamps every beat on a clock and measures the tempo actually
// delivered. It keeps the most recent beats and all overrun reports.
type Recorder struct {
	mu      sync.Mutex
	clock   sched.Clock
	history *circularbuffer.Queue
	missed  []sched.MissedBeatReport

	count int64
	first time.Duration
	last  time.Duration
}

// NewRecorder keeps the last history beats (1024 when history <= 0).
func NewRecorder(clock sched.Clock, history int) *Recorder {
	if clock == nil {
		clock = sched.NewClock()
	}
	if history <= 0 {
		history = defaultHistory
	}
	return &Recorder{clock: clock, history: circularbuffer.New(history)}
}

func (r *Recorder) Beat(accent bool, bpm float64) {
	now := r.clock.Now()

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.count == 0 {
		r.first = now
	}
	r.last = now
	r.count++
	r.history.Enqueue(Record{At: now, Accent: accent, BPM: bpm})
}

func (r *Recorder) MissedBeats(count int, bpm float64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.missed = append(r.missed, sched.MissedBeatReport{Count: count, BPM: bpm})
}

// Count is the number of beats seen.
func (r *Recorder) Count() int64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.count
}

// Beats returns the retained beats, oldest first.
func (r *Recorder) Beats() []Record {
	r.mu.Lock()
	defer r.mu.Unlock()
	values := r.history.Values()
	out := make([]Record, 0, len(values))
	for _, v := range values {
		out = append(out, v.(Record))
	}
	return out
}

// Missed returns every overrun report received.
func (r *Recorder) Missed() []sched.MissedBeatReport {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]sched.MissedBeatReport(nil), r.missed...)
}

// MeanInterval is the average spacing between delivered beats. The first
// beat has no predecessor, so at least two beats are needed.
func (r *Recorder) MeanInterval() (time.Duration, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.count < 2 {
		return 0, false
	}
	return (r.last - r.first) / time.Duration(r.count-1), true
}

// MeasuredBPM converts MeanInterval into beats per minute, 0 when unknown.
func (r *Recorder) MeasuredBPM() float64 {
	mean, ok := r.MeanInterval()
	if !ok || mean <= 0 {
		return 0
	}
	return float64(time.Minute) / float64(mean)
}
