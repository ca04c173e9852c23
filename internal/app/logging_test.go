package app

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dshills/gapstorm/internal/config"
)

func newBufferLogger(level LogLevel) (*Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	return NewLogger(LoggerConfig{Level: level, Output: &buf, Prefix: "test"}), &buf
}

func TestLogLevelNames(t *testing.T) {
	for _, tt := range []struct {
		names []string
		level LogLevel
		str   string
	}{
		{[]string{"debug", "DEBUG"}, LogLevelDebug, "DEBUG"},
		{[]string{"info", "Info", "", "verbose"}, LogLevelInfo, "INFO"},
		{[]string{"warn", "WARNING", "Warn"}, LogLevelWarn, "WARN"},
		{[]string{"error", "ERROR"}, LogLevelError, "ERROR"},
	} {
		for _, name := range tt.names {
			if got := ParseLogLevel(name); got != tt.level {
				t.Errorf("ParseLogLevel(%q) = %v, want %v", name, got, tt.level)
			}
		}
		if tt.level.String() != tt.str {
			t.Errorf("%d.String() = %q, want %q", tt.level, tt.level.String(), tt.str)
		}
	}
	if LogLevel(42).String() != "UNKNOWN" {
		t.Error("out of range level should print UNKNOWN")
	}
}

func TestLoggerDefaults(t *testing.T) {
	cfg := DefaultLoggerConfig()
	if cfg.Level != LogLevelInfo || cfg.Output != os.Stderr || cfg.Prefix != "gapstorm" {
		t.Errorf("DefaultLoggerConfig() = %+v", cfg)
	}
	if l := NewLogger(LoggerConfig{}); l.sink.output != os.Stderr {
		t.Error("nil output should fall back to stderr")
	}
}

func TestLoggerFiltersByLevel(t *testing.T) {
	logger, buf := newBufferLogger(LogLevelWarn)

	logger.Debug("d")
	logger.Info("i")
	logger.Warn("w %s", "x")
	logger.Error("e %d", 7)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d lines: %q", len(lines), buf.String())
	}
	if !strings.HasSuffix(lines[0], "[WARN] test: w x") || !strings.HasSuffix(lines[1], "[ERROR] test: e 7") {
		t.Errorf("lines = %q", lines)
	}
}

func TestLoggerFields(t *testing.T) {
	logger, buf := newBufferLogger(LogLevelInfo)

	base := logger.WithField("doc", "a.txt")
	base.WithComponent("app").Info("saved")
	base.Info("plain")

	out := buf.String()
	if !strings.Contains(out, "saved {component=app, doc=a.txt}") {
		t.Errorf("component line missing: %q", out)
	}
	if !strings.Contains(out, "plain {doc=a.txt}\n") {
		t.Error("WithComponent must not leak into the parent logger")
	}
}

func TestLoggerSwitches(t *testing.T) {
	logger, first := newBufferLogger(LogLevelError)

	logger.Info("hidden")
	logger.SetLevel(LogLevelInfo)
	logger.Info("shown")
	if strings.Contains(first.String(), "hidden") || !strings.Contains(first.String(), "shown") {
		t.Errorf("SetLevel: %q", first.String())
	}

	var second bytes.Buffer
	logger.SetOutput(&second)
	logger.Disable()
	logger.Info("muted")
	logger.Enable()
	logger.Info("back")
	if strings.Contains(second.String(), "muted") || !strings.Contains(second.String(), "back") {
		t.Errorf("Disable/Enable: %q", second.String())
	}
}

func TestNullLogger(t *testing.T) {
	NullLogger.Error("nothing")
	NullLogger.WithComponent("x").Warn("nothing")
	NullLogger.SetLevel(LogLevelDebug)
	NullLogger.Disable()
	if NullLogger.Level() != LogLevelError {
		t.Errorf("NullLogger.Level() = %v", NullLogger.Level())
	}
}

func TestLogger_ComponentSharesLevel(t *testing.T) {
	var buf bytes.Buffer
	root := NewLogger(LoggerConfig{Level: LogLevelError, Output: &buf})
	child := root.WithComponent("watcher")

	child.Info("hidden")
	if buf.Len() != 0 {
		t.Fatal("expected no output at error level")
	}

	root.SetLevel(LogLevelDebug)
	child.Debug("visible")
	if !strings.Contains(buf.String(), "visible {component=watcher}") {
		t.Errorf("output = %q", buf.String())
	}
	if child.Level() != LogLevelDebug {
		t.Errorf("child.Level() = %v, want DEBUG", child.Level())
	}
}

func TestLogger_FieldsSorted(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(LoggerConfig{Output: &buf}).WithFields(map[string]any{
		"zeta":  1,
		"alpha": 2,
		"mid":   3,
	})
	logger.Info("x")

	if !strings.Contains(buf.String(), "{alpha=2, mid=3, zeta=1}") {
		t.Errorf("output = %q", buf.String())
	}
}

func TestOpenLogger(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gapstorm.log")

	logger, closer, err := OpenLogger(config.LoggingConfig{Level: "warn", File: path}, false)
	if err != nil {
		t.Fatalf("OpenLogger: %v", err)
	}
	logger.Info("dropped")
	logger.Warn("kept %d", 1)
	if err := closer.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(string(data), "dropped") || !strings.Contains(string(data), "[WARN] gapstorm: kept 1") {
		t.Errorf("log file = %q", data)
	}

	debug, _, err := OpenLogger(config.LoggingConfig{Level: "error"}, true)
	if err != nil {
		t.Fatal(err)
	}
	if debug.Level() != LogLevelDebug {
		t.Errorf("debug flag level = %v, want DEBUG", debug.Level())
	}

	if _, _, err := OpenLogger(config.LoggingConfig{File: filepath.Join(t.TempDir(), "no", "dir.log")}, false); err == nil {
		t.Error("expected error for unwritable log path")
	}
}
