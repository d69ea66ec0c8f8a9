package tempo

import (
	"sync"
	"time"

	"github.com/emirpasic/gods/queues/circularbuffer"
)

const (
	defaultWindow = 20
	defaultMinBPM = 80
	defaultMaxBPM = 180
)

// Detector turns onset timestamps (kicks, claps, taps) into a tempo: the mean
// of the most recent plausible BPM readings. It does not analyse audio; some
// other component reports onsets. Safe for concurrent use.
type Detector struct {
	mu     sync.Mutex
	window *circularbuffer.Queue
	min    float64
	max    float64
	last   time.Duration
	seen   bool
}

// DetectorOption customizes a Detector.
type DetectorOption func(*Detector)

// WithWindow sets how many recent readings are averaged.
func WithWindow(n int) DetectorOption {
	return func(d *Detector) {
		if n > 0 {
			d.window = circularbuffer.New(n)
		}
	}
}

// WithRange sets the exclusive bounds outside of which readings are dropped as suspicious.
func WithRange(min, max float64) DetectorOption {
	return func(d *Detector) {
		if min < max {
			d.min, d.max = min, max
		}
	}
}

// NewDetector averages the last 20 readings between 80 and 180 bpm unless configured otherwise.
func NewDetector(opts ...DetectorOption) *Detector {
	d := &Detector{
		window: circularbuffer.New(defaultWindow),
		min:    defaultMinBPM,
		max:    defaultMaxBPM,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Onset records an onset at monotonic time at and reports whether the reading
// it produced was kept. The first onset only sets the reference.
func (d *Detector) Onset(at time.Duration) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	prev, seen := d.last, d.seen
	d.last, d.seen = at, true
	if !seen || at <= prev {
		return false
	}

	bpm := float64(time.Minute) / float64(at-prev)
	if bpm <= d.min || bpm >= d.max {
		return false
	}
	d.window.Enqueue(bpm)
	return true
}

// Tempo returns the mean of the retained readings, or 0 while there are none.
func (d *Detector) Tempo() float64 {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.window.Empty() {
		return 0
	}
	var sum float64
	values := d.window.Values()
	for _, v := range values {
		sum += v.(float64)
	}
	return sum / float64(len(values))
}

// Reset forgets all readings and the onset reference.
func (d *Detector) Reset() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.window.Clear()
	d.seen = false
	d.last = 0
}
