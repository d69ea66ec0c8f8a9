package listener

import (
	"sync/atomic"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

// Log writes beats at debug level and overruns at warn level. Overrun
// warnings are rate limited; suppressed ones are counted into the next line.
type Log struct {
	log        zerolog.Logger
	limiter    *rate.Limiter
	suppressed atomic.Int64
}

// NewLog allows at most perSec overrun warnings per second (1 when perSec <= 0).
func NewLog(l zerolog.Logger, perSec int) *Log {
	if perSec <= 0 {
		perSec = 1
	}
	return &Log{log: l, limiter: rate.NewLimiter(rate.Limit(perSec), perSec)}
}

func (l *Log) Beat(accent bool, bpm float64) {
	label := "tic"
	if accent {
		label = "TAC"
	}
	l.log.Debug().Str("beat", label).Float64("bpm", bpm).Msg("beat")
}

func (l *Log) MissedBeats(count int, bpm float64) {
	if !l.limiter.Allow() {
		l.suppressed.Add(1)
		return
	}
	l.log.Warn().
		Int("count", count).
		Float64("bpm", bpm).
		Int64("suppressed", l.suppressed.Swap(0)).
		Msg("missed beats")
}
