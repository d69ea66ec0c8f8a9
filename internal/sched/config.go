package sched

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	yaml "github.com/goccy/go-yaml"
)

const (
	defaultBeatsPerBar      = 4
	defaultCorrectionOffset = 20 * time.Millisecond
	defaultPollInterval     = 200 * time.Millisecond
)

// Config mirrors tictac.yml
type Config struct {
	BeatsPerBar        int `yaml:"beats_per_bar"`        // 4 (by default)
	CorrectionOffsetMS int `yaml:"correction_offset_ms"` // 20 (by default)
	PollIntervalMS     int `yaml:"poll_interval_ms"`     // 200 (by default)
}

// If the config file is not found, we use default values
func defaultConfig() Config {
	return Config{
		BeatsPerBar:        defaultBeatsPerBar,
		CorrectionOffsetMS: int(defaultCorrectionOffset / time.Millisecond),
		PollIntervalMS:     int(defaultPollInterval / time.Millisecond),
	}
}

// Load reads YAML and overrides defaults; empty path or missing file = defaults only.
func Load(path string) (Config, error) {
	cfg := defaultConfig()

	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return defaultConfig(), fmt.Errorf("parse config %s: %w", path, err)
	}

	cfg.clamp()
	return cfg, nil
}

// sanity clamps
func (c *Config) clamp() {
	if c.BeatsPerBar <= 0 {
		c.BeatsPerBar = defaultBeatsPerBar
	}
	// zero is a legal offset: pure coarse sleep followed by a very short spin
	if c.CorrectionOffsetMS < 0 {
		c.CorrectionOffsetMS = int(defaultCorrectionOffset / time.Millisecond)
	}
	if c.PollIntervalMS <= 0 {
		c.PollIntervalMS = int(defaultPollInterval / time.Millisecond)
	}
}

// Options converts the config into scheduler options.
func (c Config) Options() []Option {
	c.clamp()
	return []Option{
		WithBeatsPerBar(c.BeatsPerBar),
		WithCorrectionOffset(time.Duration(c.CorrectionOffsetMS) * time.Millisecond),
		WithPollInterval(time.Duration(c.PollIntervalMS) * time.Millisecond),
	}
}
