package log

import (
	"bytes"
	"errors"
	"net"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want zerolog.Level
	}{
		{"debug", zerolog.DebugLevel},
		{"warn", zerolog.WarnLevel},
		{"error", zerolog.ErrorLevel},
		{"", zerolog.InfoLevel},
		{"loud", zerolog.InfoLevel},
	}

	for _, tt := range tests {
		if got := ParseLevel(tt.in); got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestZerologAdapter_Fields(t *testing.T) {
	var buf bytes.Buffer
	l := NewZerologAdapterWithLogger(zerolog.New(&buf))

	l.Info("sent",
		String("destination", "239.1.1.1"),
		Int("bytes", 60),
		Uint64("fingerprint", 42),
		Bool("promisc", true),
		Duration("interval", time.Second),
		Stringer("ip", net.IPv4(10, 0, 0, 1)),
		Err(errors.New("boom")),
	)

	out := buf.String()
	for _, want := range []string{
		`"destination":"239.1.1.1"`,
		`"bytes":60`,
		`"fingerprint":42`,
		`"promisc":true`,
		`"ip":"10.0.0.1"`,
		`"error":"boom"`,
		`"message":"sent"`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output %s missing %s", out, want)
		}
	}
}

func TestZerologAdapter_LevelFilter(t *testing.T) {
	var buf bytes.Buffer
	l := NewZerologAdapter(&buf, "warn")

	l.Info("hidden")
	l.Debug("hidden")
	if buf.Len() != 0 {
		t.Errorf("info/debug written at warn level: %q", buf.String())
	}

	l.Warn("shown")
	if !strings.Contains(buf.String(), "shown") {
		t.Errorf("warn not written: %q", buf.String())
	}
}

func TestZerologAdapter_With(t *testing.T) {
	var buf bytes.Buffer
	l := NewZerologAdapterWithLogger(zerolog.New(&buf)).With(String("instance", "lab"))

	l.Error("failed")
	if !strings.Contains(buf.String(), `"instance":"lab"`) {
		t.Errorf("output %s missing instance field", buf.String())
	}
}
