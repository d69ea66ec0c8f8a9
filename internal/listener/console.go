// Package listener holds ready-made beat listeners: a console printer, a
// structured logger, a recorder that measures the real tempo, and wrappers
// to delay or fan out notifications.
package listener

import (
	"io"
	"sync"

	"github.com/fatih/color"
)

// Console prints "TAC" on accents and "tic" on regular beats.
type Console struct {
	mu   sync.Mutex
	w    io.Writer
	tac  *color.Color
	tic  *color.Color
	miss *color.Color
}

// NewConsole writes to w, with ANSI colours when colored is set.
func NewConsole(w io.Writer, colored bool) *Console {
	c := &Console{
		w:    w,
		tac:  color.New(color.FgHiYellow, color.Bold),
		tic:  color.New(color.FgHiWhite),
		miss: color.New(color.FgRed, color.Bold),
	}
	for _, col := range []*color.Color{c.tac, c.tic, c.miss} {
		if colored {
			col.EnableColor()
		} else {
			col.DisableColor()
		}
	}
	return c
}

func (c *Console) Beat(accent bool, bpm float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if accent {
		c.tac.Fprintf(c.w, "TAC   @ %.2f\n", bpm)
		return
	}
	c.tic.Fprintf(c.w, "  tic @ %.2f\n", bpm)
}

func (c *Console) MissedBeats(count int, bpm float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.miss.Fprintf(c.w, "missed %d beat(s) @ %.2f\n", count, bpm)
}
