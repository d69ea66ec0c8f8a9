package logx

import (
	"bytes"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]zerolog.Level{
		"debug":   zerolog.DebugLevel,
		" WARN ":  zerolog.WarnLevel,
		"warning": zerolog.WarnLevel,
		"off":     zerolog.Disabled,
		"":        zerolog.InfoLevel,
		"loud":    zerolog.InfoLevel,
	}
	for in, want := range cases {
		if got := ParseLevel(in, zerolog.InfoLevel); got != want {
			t.Errorf("ParseLevel(%q) = %v, expected %v", in, got, want)
		}
	}
}

func TestNewJSONRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	log := New("warn", &buf, true)

	log.Info().Msg("hidden")
	log.Warn().Int("count", 2).Msg("missed beats")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("info line should be filtered: %s", out)
	}
	if !strings.Contains(out, `"count":2`) || !strings.Contains(out, `"message":"missed beats"`) {
		t.Errorf("unexpected output: %s", out)
	}
}

func TestNewLeavesGlobalFieldNamesAlone(t *testing.T) {
	before := zerolog.ErrorFieldName

	var buf bytes.Buffer
	log := New("info", &buf, true)
	log.Error().Err(errTest("overrun")).Msg("listener fault")

	if zerolog.ErrorFieldName != before {
		t.Errorf("New changed zerolog.ErrorFieldName to %q", zerolog.ErrorFieldName)
	}
	if !strings.Contains(buf.String(), `"`+before+`":"overrun"`) {
		t.Errorf("unexpected output: %s", buf.String())
	}
}

type errTest string

func (e errTest) Error() string { return string(e) }
