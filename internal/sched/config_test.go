package sched

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	for _, path := range []string{"", filepath.Join(t.TempDir(), "missing.yml")} {
		cfg, err := Load(path)
		if err != nil {
			t.Fatalf("Load(%q): %v", path, err)
		}
		if cfg != defaultConfig() {
			t.Errorf("Load(%q) = %+v, expected defaults", path, cfg)
		}
	}
}

func TestLoadOverridesAndClamps(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tictac.yml")
	data := "beats_per_bar: 3\ncorrection_offset_ms: -4\npoll_interval_ms: 50\n"
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	want := Config{BeatsPerBar: 3, CorrectionOffsetMS: 20, PollIntervalMS: 50}
	if cfg != want {
		t.Errorf("Expected %+v, got %+v", want, cfg)
	}

	o := defaultOptions()
	for _, opt := range cfg.Options() {
		opt(&o)
	}
	if o.beatsPerBar != 3 || o.correctionOffset != 20*time.Millisecond || o.pollInterval != 50*time.Millisecond {
		t.Errorf("options not applied: %+v", o)
	}
}

func TestLoadRejectsMalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yml")
	if err := os.WriteFile(path, []byte("beats_per_bar: [nope\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("Expected a parse error")
	}
}
