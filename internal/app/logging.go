package app

import (
	"fmt"
	"io"
	"maps"
	"os"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/dshills/gapstorm/internal/config"
)

// LogLevel represents the severity level of a log message.
type LogLevel int

const (
	LogLevelDebug LogLevel = iota
	LogLevelInfo
	LogLevelWarn
	LogLevelError
)

var levelNames = [...]string{"DEBUG", "INFO", "WARN", "ERROR"}

func (l LogLevel) String() string {
	if l < 0 || int(l) >= len(levelNames) {
		return "UNKNOWN"
	}
	return levelNames[l]
}

// ParseLogLevel parses a level name, case-insensitively. Unknown names
// give LogLevelInfo.
func ParseLogLevel(s string) LogLevel {
	switch strings.ToLower(s) {
	case "debug":
		return LogLevelDebug
	case "info":
		return LogLevelInfo
	case "warn", "warning":
		return LogLevelWarn
	case "error":
		return LogLevelError
	default:
		return LogLevelInfo
	}
}

// sink is the destination shared by a logger and everything derived from
// it, so SetLevel on the root applies to component loggers too.
type sink struct {
	mu       sync.Mutex
	level    LogLevel
	output   io.Writer
	disabled bool
}

// Logger writes leveled log lines with optional key=value fields.
type Logger struct {
	sink   *sink
	prefix string
	fields map[string]any
}

// LoggerConfig configures the logger.
type LoggerConfig struct {
	// Level is the minimum log level to output.
	Level LogLevel
	// Output is where logs are written. Defaults to os.Stderr.
	Output io.Writer
	// Prefix is prepended to all log messages.
	Prefix string
}

// DefaultLoggerConfig returns the default logger configuration.
func DefaultLoggerConfig() LoggerConfig {
	return LoggerConfig{
		Level:  LogLevelInfo,
		Output: os.Stderr,
		Prefix: "gapstorm",
	}
}

// NewLogger creates a new logger with the given configuration.
func NewLogger(cfg LoggerConfig) *Logger {
	if cfg.Output == nil {
		cfg.Output = os.Stderr
	}
	return &Logger{
		sink:   &sink{level: cfg.Level, output: cfg.Output},
		prefix: cfg.Prefix,
	}
}

// OpenLogger builds the application logger from the logging settings.
// When a log file is configured it is opened for append and returned as
// the closer; otherwise output goes to stderr and the closer is a no-op.
// debug forces the debug level.
func OpenLogger(cfg config.LoggingConfig, debug bool) (*Logger, io.Closer, error) {
	lc := DefaultLoggerConfig()
	lc.Level = ParseLogLevel(cfg.Level)
	if debug {
		lc.Level = LogLevelDebug
	}

	var closer io.Closer = io.NopCloser(nil)
	if cfg.File != "" {
		f, err := os.OpenFile(cfg.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("opening log file: %w", err)
		}
		lc.Output = f
		closer = f
	}
	return NewLogger(lc), closer, nil
}

// WithField returns a new logger with the given field added.
func (l *Logger) WithField(key string, value any) *Logger {
	return l.WithFields(map[string]any{key: value})
}

// WithFields returns a new logger with the given fields added.
func (l *Logger) WithFields(fields map[string]any) *Logger {
	newFields := make(map[string]any, len(l.fields)+len(fields))
	maps.Copy(newFields, l.fields)
	maps.Copy(newFields, fields)

	return &Logger{
		sink:   l.sink,
		prefix: l.prefix,
		fields: newFields,
	}
}

// WithComponent returns a new logger with the component field set.
func (l *Logger) WithComponent(component string) *Logger {
	return l.WithField("component", component)
}

// update runs fn on the shared sink. The NullLogger has none.
func (l *Logger) update(fn func(*sink)) {
	if l == nil || l.sink == nil {
		return
	}
	l.sink.mu.Lock()
	defer l.sink.mu.Unlock()
	fn(l.sink)
}

// Level is the minimum level written. Loggers without a sink report
// LogLevelError.
func (l *Logger) Level() LogLevel {
	level := LogLevelError
	l.update(func(s *sink) { level = s.level })
	return level
}

// SetLevel sets the minimum level written, for every component.
func (l *Logger) SetLevel(level LogLevel) { l.update(func(s *sink) { s.level = level }) }

// SetOutput redirects log output.
func (l *Logger) SetOutput(w io.Writer) { l.update(func(s *sink) { s.output = w }) }

// Disable silences the logger.
func (l *Logger) Disable() { l.update(func(s *sink) { s.disabled = true }) }

// Enable undoes Disable.
func (l *Logger) Enable() { l.update(func(s *sink) { s.disabled = false }) }

// Debug logs at debug level. msg is a format string when args are given.
func (l *Logger) Debug(msg string, args ...any) { l.log(LogLevelDebug, msg, args...) }

// Info logs at info level.
func (l *Logger) Info(msg string, args ...any) { l.log(LogLevelInfo, msg, args...) }

// Warn logs at warn level.
func (l *Logger) Warn(msg string, args ...any) { l.log(LogLevelWarn, msg, args...) }

// Error logs at error level.
func (l *Logger) Error(msg string, args ...any) { l.log(LogLevelError, msg, args...) }

// log formats msg with args when there are any. Fields follow the
// message in key order.
func (l *Logger) log(level LogLevel, msg string, args ...any) {
	l.update(func(s *sink) {
		if s.disabled || level < s.level {
			return
		}
		if len(args) > 0 {
			msg = fmt.Sprintf(msg, args...)
		}
		_, _ = io.WriteString(s.output, l.format(time.Now(), level, msg))
	})
}

func (l *Logger) format(at time.Time, level LogLevel, msg string) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s [%s] ", at.Format("2006-01-02T15:04:05.000"), level)
	if l.prefix != "" {
		sb.WriteString(l.prefix + ": ")
	}
	sb.WriteString(msg)
	if len(l.fields) > 0 {
		pairs := make([]string, 0, len(l.fields))
		for _, k := range slices.Sorted(maps.Keys(l.fields)) {
			pairs = append(pairs, fmt.Sprintf("%s=%v", k, l.fields[k]))
		}
		sb.WriteString(" {" + strings.Join(pairs, ", ") + "}")
	}
	sb.WriteByte('\n')
	return sb.String()
}

// NullLogger is a logger that discards all output.
var NullLogger = &Logger{}
