package main

import (
	"bufio"
	"io"

	"tictac/internal/sched"
	"tictac/internal/tempo"
)

// feedTaps reports one onset per line read from r, stamped on clock, until r
// is exhausted. It returns the number of taps seen.
func feedTaps(r io.Reader, d *tempo.Detector, clock sched.Clock) int {
	sc := bufio.NewScanner(r)
	n := 0
	for sc.Scan() {
		d.Onset(clock.Now())
		n++
	}
	return n
}
