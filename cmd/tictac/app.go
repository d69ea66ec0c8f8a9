package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/rs/zerolog"
	"github.com/urfave/cli"

	"tictac/internal/listener"
	"tictac/internal/logx"
	"tictac/internal/sched"
	"tictac/internal/tempo"
)

var flags = []cli.Flag{
	cli.Float64Flag{Name: "bpm, b", Value: 120, Usage: "fixed tempo in beats per minute"},
	cli.Float64Flag{Name: "hz", Usage: "fixed tempo in beats per second (overrides --bpm)"},
	cli.BoolFlag{Name: "tap", Usage: "follow the tempo tapped with Enter on stdin (overrides everything else)"},
	cli.StringFlag{Name: "timeline, t", Usage: "YAML file of tempo steps (overrides --bpm and --hz)"},
	cli.StringFlag{Name: "config, c", Value: "tictac.yml", Usage: "scheduler config file"},
	cli.DurationFlag{Name: "duration, d", Usage: "stop after this long (0 = until interrupted)"},
	cli.IntFlag{Name: "beats, n", Usage: "stop after this many beats (0 = unlimited)"},
	cli.StringFlag{Name: "log-level", Value: "info", Usage: "trace, debug, info, warn, error or off"},
	cli.BoolFlag{Name: "json", Usage: "log as JSON on stderr"},
	cli.BoolFlag{Name: "quiet, q", Usage: "do not print beats"},
}

func newApp() *cli.App {
	app := cli.NewApp()
	app.Name = "tictac"
	app.HelpName = "tictac"
	app.Usage = "a precise metronome"
	app.UsageText = "tictac [--bpm 120 | --hz 2 | --timeline steps.yml | --tap] [options]"
	app.Version = version
	app.Flags = flags
	app.Action = run
	return app
}

// run wires the source, the listeners and the scheduler, then waits for the
// first of: interrupt, --duration, or the scheduler stopping on its own.
func run(c *cli.Context) error {
	if c.NArg() > 0 {
		return fmt.Errorf("unexpected arguments: %v", c.Args())
	}

	log := logx.New(c.String("log-level"), os.Stderr, c.Bool("json"))

	cfg, err := sched.Load(c.String("config"))
	if err != nil {
		return err
	}

	clock := sched.NewClock()
	source, err := buildSource(c, clock, os.Stdin)
	if err != nil {
		return err
	}

	rec := listener.NewRecorder(clock, 0)
	listeners := []sched.Listener{rec, listener.NewLog(log, 1)}
	if !c.Bool("quiet") {
		listeners = append(listeners, listener.NewConsole(os.Stdout, !color.NoColor))
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()
	if d := c.Duration("duration"); d > 0 {
		var stop context.CancelFunc
		ctx, stop = context.WithTimeout(ctx, d)
		defer stop()
	}

	opts := append(cfg.Options(), sched.WithClock(clock), sched.WithLogger(log), sched.WithName("tictac"))
	s := sched.New(ctx, source, listener.Multi(listeners...), opts...)

	select {
	case <-ctx.Done():
	case <-s.Done():
	}
	runErr := s.Close()

	printSummary(os.Stdout, s, rec, log)
	return runErr
}

func buildSource(c *cli.Context, clock sched.Clock, stdin io.Reader) (sched.TempoSource, error) {
	var source sched.TempoSource
	switch {
	case c.Bool("tap"):
		det := tempo.NewDetector()
		go feedTaps(stdin, det, clock)
		source = det
	case c.String("timeline") != "":
		steps, err := tempo.LoadTimeline(c.String("timeline"))
		if err != nil {
			return nil, err
		}
		if len(steps) == 0 {
			return nil, fmt.Errorf("timeline %s has no steps", c.String("timeline"))
		}
		source = tempo.NewTimeline(clock, steps...)
	case c.IsSet("hz"):
		if c.Float64("hz") <= 0 {
			return nil, fmt.Errorf("--hz must be positive")
		}
		source = tempo.Hertz(c.Float64("hz"))
	default:
		if c.Float64("bpm") <= 0 {
			return nil, fmt.Errorf("--bpm must be positive")
		}
		source = tempo.Fixed(c.Float64("bpm"))
	}

	if n := c.Int("beats"); n > 0 {
		source = tempo.Limit(source, n)
	}
	return source, nil
}

func printSummary(w io.Writer, s *sched.Scheduler, rec *listener.Recorder, log zerolog.Logger) {
	st := s.Stats()
	bold := color.New(color.Bold).SprintFunc()

	fmt.Fprintf(w, "%s %d beats, %d missed in %d overrun(s), %d listener fault(s); stopped: %s\n",
		bold("tictac:"), st.Beats, st.SkippedBeats, st.Overruns, st.ListenerFaults, s.Reason())
	if mean, ok := rec.MeanInterval(); ok {
		fmt.Fprintf(w, "%s measured %.3f bpm (mean interval %s)\n",
			bold("tictac:"), rec.MeasuredBPM(), mean.Round(time.Microsecond))
	}
	log.Debug().Interface("stats", st).Msg("summary")
}
