// internal/sched/scheduler.go

package sched

import (
	"context"
	"fmt"
	"math"
	"runtime/debug"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
)

// nanosPerMinute is the numerator of every beat interval.
const nanosPerMinute = float64(time.Minute)

var schedulerSeq atomic.Uint64

// Scheduler fires beats at the rate reported by a TempoSource, as close to the
// ideal instant as the OS allows, and reports beats it could not fire on time.
//
// The beat counter, the current tempo and the lifecycle state are written only
// by the scheduler goroutine. The stop flag and the termination gate are the
// only state shared with callers.
type Scheduler struct {
	source   TempoSource
	listener Listener
	missed   MissedBeatsListener // nil when the listener ignores overruns

	clock       Clock
	log         zerolog.Logger
	name        string
	beatsPerBar int64
	offset      time.Duration
	poll        time.Duration

	ctx    context.Context
	stop   atomic.Bool
	state  atomic.Int32
	reason atomic.Int32
	gate   *TerminationGate
	err    error // set before the gate opens, read after

	beats    atomic.Int64
	skipped  atomic.Int64
	overruns atomic.Int64
	faults   atomic.Int64
	bpmBits  atomic.Uint64
}

// New creates a Scheduler and starts its goroutine immediately. Cancelling ctx
// has the same effect as RequestStop. New panics if source or listener is nil.
func New(ctx context.Context, source TempoSource, listener Listener, opts ...Option) *Scheduler {
	if source == nil {
		panic("sched: nil TempoSource")
	}
	if listener == nil {
		panic("sched: nil Listener")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.clock == nil {
		o.clock = NewClock()
	}
	if o.name == "" {
		o.name = fmt.Sprintf("metronome-%d", schedulerSeq.Add(1))
	}

	s := &Scheduler{
		source:      source,
		listener:    listener,
		clock:       o.clock,
		log:         o.logger.With().Str("scheduler", o.name).Logger(),
		name:        o.name,
		beatsPerBar: int64(o.beatsPerBar),
		offset:      o.correctionOffset,
		poll:        o.pollInterval,
		ctx:         ctx,
		gate:        NewTerminationGate(),
	}
	if ml, ok := listener.(MissedBeatsListener); ok {
		s.missed = ml
	}

	go s.run()
	return s
}

// Name returns the label used in log lines.
func (s *Scheduler) Name() string { return s.name }

// RequestStop asks the loop to exit at its next iteration boundary and
// returns without waiting. Safe to call any number of times, from anywhere.
func (s *Scheduler) RequestStop() {
	if s.stop.CompareAndSwap(false, true) {
		s.log.Debug().Msg("stop requested")
	}
}

// StopAndWait requests a stop and blocks until the loop has exited.
func (s *Scheduler) StopAndWait() {
	s.RequestStop()
	s.gate.Wait()
}

// AwaitTermination blocks until the loop has exited, without requesting it.
func (s *Scheduler) AwaitTermination() { s.gate.Wait() }

// AwaitTerminationContext is AwaitTermination bounded by ctx.
func (s *Scheduler) AwaitTerminationContext(ctx context.Context) error {
	return s.gate.WaitContext(ctx)
}

// Done is closed once the loop has exited.
func (s *Scheduler) Done() <-chan struct{} { return s.gate.Done() }

// IsTerminated reports, without blocking, whether the loop has exited.
func (s *Scheduler) IsTerminated() bool { return s.gate.IsOpen() }

// Close stops the scheduler, waits for it and returns Err.
func (s *Scheduler) Close() error {
	s.StopAndWait()
	return s.Err()
}

// Err returns the source fault that ended the loop, if any.
func (s *Scheduler) Err() error {
	if !s.gate.IsOpen() {
		return nil
	}
	return s.err
}

// Reason reports why the loop exited, or ReasonNone while it still runs.
func (s *Scheduler) Reason() Reason {
	if !s.gate.IsOpen() {
		return ReasonNone
	}
	return Reason(s.reason.Load())
}

// State returns the current lifecycle phase.
func (s *Scheduler) State() State {
	if s.gate.IsOpen() {
		return StateTerminated
	}
	if s.stopRequested() {
		return StateStopRequested
	}
	return State(s.state.Load())
}

// Stats returns a snapshot of the counters.
func (s *Scheduler) Stats() Stats {
	return Stats{
		Beats:          s.beats.Load(),
		SkippedBeats:   s.skipped.Load(),
		Overruns:       s.overruns.Load(),
		ListenerFaults: s.faults.Load(),
		BPM:            math.Float64frombits(s.bpmBits.Load()),
	}
}

func (s *Scheduler) stopRequested() bool {
	return s.stop.Load() || s.ctx.Err() != nil
}

func (s *Scheduler) setBPM(bpm float64) { s.bpmBits.Store(math.Float64bits(bpm)) }

// run is the body of the scheduler goroutine. Every exit path, including a
// panicking TempoSource, goes through finish.
func (s *Scheduler) run() {
	defer s.finish()

	s.log.Debug().Dur("correction_offset", s.offset).Int64("beats_per_bar", s.beatsPerBar).Msg("metronome started")

	bpm, ok := s.awaitTempo()
	if !ok {
		s.reason.Store(int32(ReasonStopRequested))
		return
	}

	s.state.Store(int32(StateRunning))
	s.setBPM(bpm)
	s.log.Info().Float64("bpm", bpm).Msg("tempo acquired")

	s.loop(bpm)
}

func (s *Scheduler) finish() {
	if r := recover(); r != nil {
		stack := debug.Stack()
		s.err = &SourceFaultError{Value: r, Stack: stack}
		s.reason.Store(int32(ReasonSourceFault))
		s.log.Error().Interface("panic", r).Str("stack", string(stack)).Msg("tempo source fault")
	}

	s.state.Store(int32(StateTerminated))
	s.log.Info().
		Str("reason", Reason(s.reason.Load()).String()).
		Int64("beats", s.beats.Load()).
		Int64("skipped", s.skipped.Load()).
		Msg("metronome terminated")
	s.gate.Open()
}

// awaitTempo polls the source until it reports a positive tempo. A stop
// request is honoured between polls.
func (s *Scheduler) awaitTempo() (float64, bool) {
	s.state.Store(int32(StateAwaitingTempo))
	for {
		if s.stopRequested() {
			return 0, false
		}
		if bpm := s.source.Tempo(); bpm > 0 {
			return bpm, true
		}
		s.clock.Sleep(s.poll)
	}
}

// loop emits beats until the tempo stream ends or a stop is requested.
func (s *Scheduler) loop(bpm float64) {
	defer lockThread()()

	var counter int64
	for {
		// 1) check shutdown
		if s.stopRequested() {
			s.reason.Store(int32(ReasonStopRequested))
			return
		}

		// 2) boom
		fired := s.clock.Now()
		s.emitBeat(counter%s.beatsPerBar == 0, bpm)
		counter++

		// 3) refresh tempo; NaN falls through as not positive
		next := s.source.Tempo()
		if !(next > 0) {
			s.reason.Store(int32(ReasonEndOfStream))
			return
		}
		bpm = next
		s.setBPM(bpm)

		// 4) next deadline, relative to when this beat actually fired
		interval := beatInterval(bpm)
		deadline := fired + interval

		// 5) overrun: the listener or the source ate one or more whole intervals
		if now := s.clock.Now(); deadline < now {
			missed := int64((now - fired) / interval)
			deadline += time.Duration(missed) * interval
			counter += missed
			s.emitMissed(missed, bpm)
		}

		// 6) sleep, unless a stop arrived meanwhile
		if s.stopRequested() {
			s.reason.Store(int32(ReasonStopRequested))
			return
		}
		if e := s.log.Trace(); e.Enabled() {
			e.Dur("sleep", deadline-s.clock.Now()).Msg("sleeping until next beat")
		}
		preciseSleep(s.clock, deadline, s.offset)
	}
}

func (s *Scheduler) emitBeat(accent bool, bpm float64) {
	defer s.recoverListener("beat")
	s.beats.Add(1)
	s.listener.Beat(accent, bpm)
}

func (s *Scheduler) emitMissed(count int64, bpm float64) {
	s.skipped.Add(count)
	s.overruns.Add(1)
	s.log.Warn().Int64("count", count).Float64("bpm", bpm).Msg("missed beats")

	if s.missed == nil {
		return
	}
	defer s.recoverListener("missed_beats")
	s.missed.MissedBeats(int(count), bpm)
}

// recoverListener keeps a panicking listener from ending the loop.
func (s *Scheduler) recoverListener(callback string) {
	if r := recover(); r != nil {
		s.faults.Add(1)
		s.log.Error().
			Str("callback", callback).
			Interface("panic", r).
			Str("stack", string(debug.Stack())).
			Msg("listener fault")
	}
}

// beatInterval converts a positive tempo into the time between two beats.
func beatInterval(bpm float64) time.Duration {
	interval := time.Duration(nanosPerMinute / bpm)
	if interval <= 0 {
		interval = 1
	}
	return interval
}
