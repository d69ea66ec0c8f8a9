// internal/sched/schedulerEvent.go

package sched

// State is the lifecycle phase of a Scheduler.
type State int32

const (
	StateCreated State = iota
	StateAwaitingTempo
	StateRunning
	StateStopRequested
	StateTerminated
)

func (s State) String() string {
	switch s {
	case StateCreated:
		return "Created"
	case StateAwaitingTempo:
		return "AwaitingTempo"
	case StateRunning:
		return "Running"
	case StateStopRequested:
		return "StopRequested"
	case StateTerminated:
		return "Terminated"
	default:
		return "Unknown"
	}
}

// Reason records which exit path ended the scheduler loop.
type Reason int32

const (
	ReasonNone Reason = iota
	ReasonEndOfStream
	ReasonStopRequested
	ReasonSourceFault
)

func (r Reason) String() string {
	switch r {
	case ReasonNone:
		return "none"
	case ReasonEndOfStream:
		return "end of tempo stream"
	case ReasonStopRequested:
		return "stop requested"
	case ReasonSourceFault:
		return "tempo source fault"
	default:
		return "unknown"
	}
}

// BeatEvent is one emitted beat. Accent is true on the first beat of every
// bar ("TAC") and false on the others ("tic").
type BeatEvent struct {
	Accent bool
	BPM    float64
}

// Label renders the beat the way a metronome says it.
func (e BeatEvent) Label() string {
	if e.Accent {
		return "TAC"
	}
	return "tic"
}

// MissedBeatReport describes an overrun of Count (>= 1) whole beat intervals.
type MissedBeatReport struct {
	Count int
	BPM   float64
}

// Stats is a point-in-time snapshot of scheduler counters.
type Stats struct {
	Beats          int64   // beats delivered to the listener
	SkippedBeats   int64   // beats accounted for by catch-up, never delivered
	Overruns       int64   // number of missed-beat reports
	ListenerFaults int64   // recovered listener panics
	BPM            float64 // last tempo the loop used
}
