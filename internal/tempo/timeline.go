package tempo

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/emirpasic/gods/trees/redblacktree"
	yaml "github.com/goccy/go-yaml"

	"tictac/internal/sched"
)

// Step switches the tempo to BPM once At has elapsed since the timeline
// started. A step with BPM <= 0 ends the stream.
type Step struct {
	At  time.Duration
	BPM float64
}

// Timeline is a piecewise-constant tempo over elapsed time. Before its first
// step it reports "not ready". It is immutable once built.
type Timeline struct {
	tree  *redblacktree.Tree // At -> BPM
	clock sched.Clock
	start time.Duration
}

// NewTimeline starts a timeline now, measured on clock (the system clock when nil).
// Later steps with the same At replace earlier ones.
func NewTimeline(clock sched.Clock, steps ...Step) *Timeline {
	if clock == nil {
		clock = sched.NewClock()
	}
	tree := redblacktree.NewWith(cmpDuration)
	for _, s := range steps {
		tree.Put(s.At, s.BPM)
	}
	return &Timeline{tree: tree, clock: clock, start: clock.Now()}
}

func (t *Timeline) Tempo() float64 {
	node, ok := t.tree.Floor(t.clock.Now() - t.start)
	if !ok {
		return 0
	}
	return node.Value.(float64)
}

// Length is the offset of the last step.
func (t *Timeline) Length() time.Duration {
	if last := t.tree.Right(); last != nil {
		return last.Key.(time.Duration)
	}
	return 0
}

func cmpDuration(a, b any) int {
	da, db := a.(time.Duration), b.(time.Duration)
	switch {
	case da < db:
		return -1
	case da > db:
		return 1
	default:
		return 0
	}
}

// timelineFile mirrors a timeline YAML document.
type timelineFile struct {
	Steps []struct {
		At  string  `yaml:"at"`
		BPM float64 `yaml:"bpm"`
	} `yaml:"steps"`
}

// LoadTimeline reads steps from a YAML file.
func LoadTimeline(path string) ([]Step, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read timeline %s: %w", path, err)
	}
	steps, err := ParseTimeline(data)
	if err != nil {
		return nil, fmt.Errorf("timeline %s: %w", path, err)
	}
	return steps, nil
}

// ParseTimeline decodes steps of the form
//
//	steps:
//	  - at: 0s
//	    bpm: 120
//	  - at: 1m30s
//	    bpm: 0
func ParseTimeline(data []byte) ([]Step, error) {
	var doc timelineFile
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse: %w", err)
	}

	steps := make([]Step, 0, len(doc.Steps))
	for i, raw := range doc.Steps {
		at, err := time.ParseDuration(strings.TrimSpace(raw.At))
		if err != nil {
			return nil, fmt.Errorf("steps[%d].at: invalid duration %q: %w", i, raw.At, err)
		}
		if at < 0 {
			return nil, fmt.Errorf("steps[%d].at: duration must be >= 0", i)
		}
		steps = append(steps, Step{At: at, BPM: raw.BPM})
	}
	return steps, nil
}
