package sched

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

// fakeClock advances by step on every read and by d on every Sleep, so the
// scheduler runs in simulated time as fast as the CPU allows.
type fakeClock struct {
	now  atomic.Int64
	step time.Duration
}

func newFakeClock() *fakeClock { return &fakeClock{step: time.Microsecond} }

func (c *fakeClock) Now() time.Duration { return time.Duration(c.now.Add(int64(c.step))) }

func (c *fakeClock) Sleep(d time.Duration) {
	if d > 0 {
		c.now.Add(int64(d))
	}
}

func (c *fakeClock) Advance(d time.Duration) { c.now.Add(int64(d)) }

type beat struct {
	at     time.Duration
	accent bool
	bpm    float64
	polls  int64
}

// recorder captures every callback; onBeat runs after the beat is recorded.
type recorder struct {
	mu     sync.Mutex
	clock  Clock
	polls  *atomic.Int64
	beats  []beat
	missed []MissedBeatReport
	onBeat func(i int)
}

func (r *recorder) Beat(accent bool, bpm float64) {
	r.mu.Lock()
	b := beat{at: r.clock.Now(), accent: accent, bpm: bpm}
	if r.polls != nil {
		b.polls = r.polls.Load()
	}
	r.beats = append(r.beats, b)
	i := len(r.beats) - 1
	hook := r.onBeat
	r.mu.Unlock()

	if hook != nil {
		hook(i)
	}
}

func (r *recorder) MissedBeats(count int, bpm float64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.missed = append(r.missed, MissedBeatReport{Count: count, BPM: bpm})
}

func (r *recorder) snapshot() ([]beat, []MissedBeatReport) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]beat(nil), r.beats...), append([]MissedBeatReport(nil), r.missed...)
}

// countedSource returns bpm for the first n polls and 0 afterwards.
type countedSource struct {
	polls atomic.Int64
	n     int64
	bpm   float64
}

func (s *countedSource) Tempo() float64 {
	if s.polls.Add(1) > s.n {
		return 0
	}
	return s.bpm
}

func waitTerminated(t *testing.T, s *Scheduler) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := s.AwaitTerminationContext(ctx); err != nil {
		t.Fatalf("scheduler did not terminate: %v", err)
	}
}
