package listener

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"tictac/internal/sched"
	"tictac/internal/tempo"
)

type manualClock struct{ now time.Duration }

func (c *manualClock) Now() time.Duration    { return c.now }
func (c *manualClock) Sleep(d time.Duration) { c.now += d }

func TestConsoleLabels(t *testing.T) {
	var buf bytes.Buffer
	c := NewConsole(&buf, false)

	c.Beat(true, 120)
	c.Beat(false, 120)
	c.MissedBeats(2, 120)

	want := "TAC   @ 120.00\n  tic @ 120.00\nmissed 2 beat(s) @ 120.00\n"
	if buf.String() != want {
		t.Errorf("Expected %q, got %q", want, buf.String())
	}
}

func TestLogRateLimitsOverruns(t *testing.T) {
	var buf bytes.Buffer
	l := NewLog(zerolog.New(&buf).Level(zerolog.DebugLevel), 1)

	l.Beat(true, 100)
	l.MissedBeats(1, 100)
	l.MissedBeats(3, 100)
	l.MissedBeats(4, 100)

	out := buf.String()
	if !strings.Contains(out, `"beat":"TAC"`) {
		t.Errorf("missing beat line: %s", out)
	}
	if n := strings.Count(out, "missed beats"); n != 1 {
		t.Errorf("Expected one overrun line, got %d: %s", n, out)
	}
	if got := l.suppressed.Load(); got != 2 {
		t.Errorf("Expected 2 suppressed warnings, got %d", got)
	}
}

func TestRecorderMeasuresTempo(t *testing.T) {
	c := &manualClock{}
	r := NewRecorder(c, 2)

	if _, ok := r.MeanInterval(); ok {
		t.Error("no interval without beats")
	}
	for i := 0; i < 5; i++ {
		r.Beat(i%4 == 0, 120)
		c.now += 500 * time.Millisecond
	}
	r.MissedBeats(1, 120)

	if mean, ok := r.MeanInterval(); !ok || mean != 500*time.Millisecond {
		t.Errorf("Expected 500ms, got %v (%v)", mean, ok)
	}
	if bpm := r.MeasuredBPM(); bpm != 120 {
		t.Errorf("Expected 120 bpm, got %v", bpm)
	}
	if r.Count() != 5 {
		t.Errorf("Expected 5 beats, got %d", r.Count())
	}
	beats := r.Beats()
	if len(beats) != 2 || beats[1].At != 2*time.Second || !beats[1].Accent {
		t.Errorf("unexpected history %+v", beats)
	}
	if m := r.Missed(); len(m) != 1 || m[0].Count != 1 {
		t.Errorf("unexpected missed %+v", m)
	}
}

func TestDelayFirstBeats(t *testing.T) {
	c := &manualClock{}
	r := NewRecorder(c, 0)
	l := Delay(r, time.Second, 2, c)

	for i := 0; i < 4; i++ {
		l.Beat(false, 60)
	}
	if c.now != 2*time.Second {
		t.Errorf("Expected two delays, clock at %v", c.now)
	}

	l.(sched.MissedBeatsListener).MissedBeats(3, 60)
	if m := r.Missed(); len(m) != 1 || m[0].Count != 3 {
		t.Errorf("MissedBeats not forwarded: %+v", m)
	}
}

func TestMulti(t *testing.T) {
	c := &manualClock{}
	a, b := NewRecorder(c, 0), NewRecorder(c, 0)
	var plain int
	l := Multi(a, nil, b, sched.ListenerFunc(func(bool, float64) { plain++ }))

	l.Beat(true, 90)
	l.(sched.MissedBeatsListener).MissedBeats(1, 90)

	if a.Count() != 1 || b.Count() != 1 || plain != 1 {
		t.Errorf("beat not fanned out: %d %d %d", a.Count(), b.Count(), plain)
	}
	if len(a.Missed()) != 1 || len(b.Missed()) != 1 {
		t.Error("missed beats not fanned out")
	}
}

// TestSlowListenerWithScheduler drives a real scheduler with a delayed
// recorder: the first beat stalls for more than two intervals at 160 bpm.
func TestSlowListenerWithScheduler(t *testing.T) {
	if testing.Short() {
		t.Skip("real-clock test")
	}

	clock := sched.NewClock()
	r := NewRecorder(clock, 0)
	l := Delay(r, 850*time.Millisecond, 1, clock)

	s := sched.New(context.Background(), tempo.Limit(tempo.Fixed(160), 6), l, sched.WithClock(clock))
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := s.AwaitTerminationContext(ctx); err != nil {
		t.Fatalf("scheduler did not terminate: %v", err)
	}

	missed := r.Missed()
	if len(missed) != 1 || missed[0].Count != 2 || missed[0].BPM != 160 {
		t.Fatalf("Expected missedBeats(2, 160), got %+v", missed)
	}
	beats := r.Beats()
	if len(beats) < 2 || beats[1].Accent {
		t.Errorf("beat index 3 must not be accented: %+v", beats)
	}
}
