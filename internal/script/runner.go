package script

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/gapstorm/internal/config"
	"github.com/dshills/gapstorm/internal/engine"
)

// Default limits.
const (
	DefaultTimeout       = 5 * time.Second
	DefaultCallStackSize = 256
)

// Runner executes scripts against one engine.
//
// A Runner owns a single Lua state and is safe for use by one goroutine at
// a time; Run serializes callers.
type Runner struct {
	mu sync.Mutex
	L  *lua.LState

	timeout time.Duration
	closed  bool
}

type runnerOptions struct {
	timeout       time.Duration
	callStackSize int
	output        io.Writer
}

// Option configures a Runner.
type Option func(*runnerOptions)

// WithTimeout bounds the run time of each script. Zero or negative uses
// DefaultTimeout.
func WithTimeout(d time.Duration) Option {
	return func(o *runnerOptions) {
		if d > 0 {
			o.timeout = d
		}
	}
}

// WithCallStackSize sets the maximum Lua call depth.
func WithCallStackSize(n int) Option {
	return func(o *runnerOptions) {
		if n > 0 {
			o.callStackSize = n
		}
	}
}

// WithOutput sets where print writes. Defaults to io.Discard.
func WithOutput(w io.Writer) Option {
	return func(o *runnerOptions) {
		if w != nil {
			o.output = w
		}
	}
}

// OptionsFromConfig maps the script settings onto runner options.
func OptionsFromConfig(cfg config.ScriptConfig) []Option {
	return []Option{
		WithTimeout(cfg.Timeout.Std()),
		WithCallStackSize(cfg.CallStackSize),
	}
}

// New creates a sandboxed runner bound to eng.
func New(eng *engine.Engine, opts ...Option) *Runner {
	o := runnerOptions{
		timeout:       DefaultTimeout,
		callStackSize: DefaultCallStackSize,
		output:        io.Discard,
	}
	for _, opt := range opts {
		opt(&o)
	}

	L := lua.NewState(lua.Options{
		SkipOpenLibs:  true,
		CallStackSize: o.callStackSize,
	})
	openSafeLibraries(L)
	installSandbox(L, o.output)
	(&bufModule{eng: eng}).register(L)

	return &Runner{L: L, timeout: o.timeout}
}

// Run executes code. name identifies the chunk in error messages.
func (r *Runner) Run(ctx context.Context, name, code string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return ErrClosed
	}

	fn, err := r.L.Load(strings.NewReader(code), name)
	if err != nil {
		return &Error{Name: name, Err: err}
	}
	return r.call(ctx, name, fn)
}

// RunFile executes the script at path.
func (r *Runner) RunFile(ctx context.Context, path string) error {
	code, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading script: %w", err)
	}
	return r.Run(ctx, path, string(code))
}

func (r *Runner) call(ctx context.Context, name string, fn *lua.LFunction) (err error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	r.L.SetContext(ctx)
	defer r.L.RemoveContext()

	defer func() {
		if p := recover(); p != nil {
			err = &Error{Name: name, Err: fmt.Errorf("lua panic: %v", p)}
		}
	}()

	r.L.Push(fn)
	if callErr := r.L.PCall(0, lua.MultRet, nil); callErr != nil {
		r.L.SetTop(0)
		switch ctxErr := ctx.Err(); {
		case errors.Is(ctxErr, context.DeadlineExceeded):
			return &Error{Name: name, Err: fmt.Errorf("%w after %v", ErrTimeout, r.timeout)}
		case ctxErr != nil:
			return &Error{Name: name, Err: ctxErr}
		}
		return &Error{Name: name, Err: callErr}
	}
	r.L.SetTop(0)
	return nil
}

// Close releases the Lua state. It is safe to call more than once.
func (r *Runner) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return
	}
	r.L.Close()
	r.closed = true
}
