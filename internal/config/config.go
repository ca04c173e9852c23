package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/dshills/gapstorm/internal/config/loader"
)

// Default setting values.
const (
	DefaultInitialCapacity = 64
	DefaultTabWidth        = 4
	DefaultMaxUndo         = 1000
	DefaultLogLevel        = "info"
	DefaultScriptTimeout   = 5 * time.Second
	DefaultCallStackSize   = 256
)

// Config holds every gapstorm setting. Sources are layered in order
// defaults, config file, environment; later sources win.
type Config struct {
	Engine  EngineConfig  `toml:"engine"`
	Logging LoggingConfig `toml:"logging"`
	Script  ScriptConfig  `toml:"script"`
	UI      UIConfig      `toml:"ui"`

	// Path is the file the settings were read from, empty if none.
	Path string `toml:"-"`
}

// EngineConfig configures the text engine and its gap buffer.
type EngineConfig struct {
	// InitialCapacity is the rune capacity of the first gap buffer allocation.
	InitialCapacity int `toml:"initial_capacity"`

	// TabWidth is the display width of a tab.
	TabWidth int `toml:"tab_width"`

	// LineEnding is "lf", "crlf" or "cr". Empty means detect from content.
	LineEnding string `toml:"line_ending"`

	// MaxUndo bounds the undo stack.
	MaxUndo int `toml:"max_undo"`
}

// LoggingConfig configures the application logger.
type LoggingConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `toml:"level"`

	// File receives log output. Empty means stderr.
	File string `toml:"file"`
}

// ScriptConfig limits Lua scripts.
type ScriptConfig struct {
	// Timeout cancels a script that runs longer.
	Timeout Duration `toml:"timeout"`

	// CallStackSize is the Lua call stack depth.
	CallStackSize int `toml:"call_stack_size"`
}

// UIConfig configures the terminal front end.
type UIConfig struct {
	// ShowGap draws the gap position and size in the status line.
	ShowGap bool `toml:"show_gap"`

	// ShowStatus toggles the status line.
	ShowStatus bool `toml:"show_status"`
}

// Duration is a time.Duration that decodes from "5s"-style strings or
// from integer nanoseconds.
type Duration time.Duration

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	s := string(text)
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		*d = Duration(n)
		return nil
	}
	v, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	*d = Duration(v)
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// Std returns d as a time.Duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		Engine: EngineConfig{
			InitialCapacity: DefaultInitialCapacity,
			TabWidth:        DefaultTabWidth,
			MaxUndo:         DefaultMaxUndo,
		},
		Logging: LoggingConfig{
			Level: DefaultLogLevel,
		},
		Script: ScriptConfig{
			Timeout:       Duration(DefaultScriptTimeout),
			CallStackSize: DefaultCallStackSize,
		},
		UI: UIConfig{
			ShowGap:    true,
			ShowStatus: true,
		},
	}
}

// Loader reads a Config from a file and the environment.
type Loader struct {
	fs     loader.FileSystem
	env    loader.Loader
	search []string
}

// LoaderOption configures a Loader.
type LoaderOption func(*Loader)

// WithFileSystem reads config files from fsys.
func WithFileSystem(fsys loader.FileSystem) LoaderOption {
	return func(l *Loader) {
		l.fs = fsys
	}
}

// WithEnv replaces the environment source. Pass nil to ignore the environment.
func WithEnv(env loader.Loader) LoaderOption {
	return func(l *Loader) {
		l.env = env
	}
}

// WithSearchPaths sets the files tried, in order, when Load gets no path.
func WithSearchPaths(paths ...string) LoaderOption {
	return func(l *Loader) {
		l.search = paths
	}
}

// NewLoader creates a Loader reading the OS file system and GAPSTORM_*
// environment variables.
func NewLoader(opts ...LoaderOption) *Loader {
	l := &Loader{
		fs:     loader.DefaultFS(),
		env:    loader.NewEnvLoader(loader.DefaultEnvPrefix),
		search: DefaultSearchPaths(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// DefaultSearchPaths returns the config files tried when no path is given:
// gapstorm.toml and gapstorm.yaml in the user config directory.
func DefaultSearchPaths() []string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return nil
	}
	base := filepath.Join(dir, "gapstorm")
	return []string{
		filepath.Join(base, "gapstorm.toml"),
		filepath.Join(base, "gapstorm.yaml"),
		filepath.Join(base, "gapstorm.yml"),
	}
}

// Load builds a Config from defaults, the file at path and the
// environment, then validates it. An empty path searches the default
// locations; a missing file is not an error.
func (l *Loader) Load(path string) (*Config, error) {
	var (
		data map[string]any
		err  error
	)
	if path != "" {
		data, err = l.loadFile(path)
	} else {
		for _, candidate := range l.search {
			if data, err = l.loadFile(candidate); err != nil || data != nil {
				path = candidate
				break
			}
		}
	}
	if err != nil {
		return nil, err
	}
	if data == nil {
		path = ""
	}

	if l.env != nil {
		envData, err := l.env.Load()
		if err != nil {
			return nil, fmt.Errorf("reading environment: %w", err)
		}
		data = loader.DeepMerge(data, envData)
	}

	cfg, err := decode(data)
	if err != nil {
		return nil, err
	}
	cfg.Path = path

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (l *Loader) loadFile(path string) (map[string]any, error) {
	fl, err := loader.ForPath(l.fs, path)
	if err != nil {
		return nil, err
	}
	return fl.Load()
}

// decode applies a settings map on top of the defaults. The map is
// re-encoded as TOML so that both file formats and the environment share
// one strict decoder; unknown keys are rejected.
func decode(data map[string]any) (*Config, error) {
	cfg := Default()
	if len(data) == 0 {
		return cfg, nil
	}

	raw, err := toml.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("encoding settings: %w", err)
	}

	dec := toml.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	if err := dec.Decode(cfg); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidSetting, strings.TrimSpace(err.Error()))
	}
	return cfg, nil
}

// Validate checks every setting and returns all problems at once.
func (c *Config) Validate() error {
	var errs ValidationErrors

	if c.Engine.InitialCapacity < 0 {
		errs.add("engine.initial_capacity", c.Engine.InitialCapacity, "must not be negative")
	}
	if c.Engine.TabWidth < 1 || c.Engine.TabWidth > 16 {
		errs.add("engine.tab_width", c.Engine.TabWidth, "must be between 1 and 16")
	}
	switch strings.ToLower(c.Engine.LineEnding) {
	case "", "lf", "crlf", "cr":
	default:
		errs.add("engine.line_ending", c.Engine.LineEnding, `must be "lf", "crlf" or "cr"`)
	}
	if c.Engine.MaxUndo < 1 {
		errs.add("engine.max_undo", c.Engine.MaxUndo, "must be positive")
	}
	switch strings.ToLower(c.Logging.Level) {
	case "debug", "info", "warn", "warning", "error":
	default:
		errs.add("logging.level", c.Logging.Level, "must be debug, info, warn or error")
	}
	if c.Script.Timeout <= 0 {
		errs.add("script.timeout", c.Script.Timeout.Std(), "must be positive")
	}
	if c.Script.CallStackSize < 16 {
		errs.add("script.call_stack_size", c.Script.CallStackSize, "must be at least 16")
	}

	if len(errs) == 0 {
		return nil
	}
	return errs
}
