package sched

import (
	"time"

	"github.com/rs/zerolog"
)

// Option customizes a Scheduler at construction.
type Option func(*options)

type options struct {
	clock            Clock
	logger           zerolog.Logger
	name             string
	beatsPerBar      int
	correctionOffset time.Duration
	pollInterval     time.Duration
}

func defaultOptions() options {
	return options{
		logger:           zerolog.Nop(),
		beatsPerBar:      defaultBeatsPerBar,
		correctionOffset: defaultCorrectionOffset,
		pollInterval:     defaultPollInterval,
	}
}

// WithClock replaces the system monotonic clock.
func WithClock(c Clock) Option {
	return func(o *options) {
		if c != nil {
			o.clock = c
		}
	}
}

// WithLogger sets the sink for faults, overruns and lifecycle messages.
func WithLogger(l zerolog.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithName labels log lines of this scheduler. Defaults to "metronome-<n>".
func WithName(name string) Option {
	return func(o *options) { o.name = name }
}

// WithBeatsPerBar sets the accent period. Non-positive values are ignored.
func WithBeatsPerBar(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.beatsPerBar = n
		}
	}
}

// WithCorrectionOffset sets how long before a deadline the coarse sleep
// hands over to the spin wait. It must stay below the shortest beat interval
// in use, otherwise every wait is spun in full. Negative values are ignored.
func WithCorrectionOffset(d time.Duration) Option {
	return func(o *options) {
		if d >= 0 {
			o.correctionOffset = d
		}
	}
}

// WithPollInterval sets the pause between polls while waiting for a first
// valid tempo. Non-positive values are ignored.
func WithPollInterval(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.pollInterval = d
		}
	}
}
