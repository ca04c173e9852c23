// Package app runs the interactive gapstorm editor: it owns the document,
// turns terminal key events into engine edits, records and replays
// keystroke macros, draws the view and status line, and applies
// configuration reloads.
package app

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/eapache/queue"

	"github.com/dshills/gapstorm/internal/config"
	"github.com/dshills/gapstorm/internal/config/watcher"
	"github.com/dshills/gapstorm/internal/renderer"
	"github.com/dshills/gapstorm/internal/renderer/backend"
	"github.com/dshills/gapstorm/internal/renderer/statusline"
)

// Options configures the application.
type Options struct {
	// File is the file to edit. Empty opens a scratch buffer.
	File string

	// ConfigPath is watched for changes. Empty falls back to the path the
	// configuration was loaded from; if both are empty nothing is watched.
	ConfigPath string

	// Loader re-reads the configuration on change. Defaults to
	// config.NewLoader().
	Loader *config.Loader

	// ReadOnly opens the file in read-only mode.
	ReadOnly bool

	// Debug pins the log level to debug across reloads.
	Debug bool

	// Logger receives application logs. Defaults to NullLogger.
	Logger *Logger
}

// Application is the interactive editor.
type Application struct {
	mu sync.Mutex

	cfg    *config.Config
	opts   Options
	logger *Logger

	doc     *Document
	backend backend.Backend
	view    *renderer.View
	status  *statusline.StatusLine

	macro     macro
	pending   *queue.Queue
	quitArmed bool

	reloader *watcher.Reloader

	running  atomic.Bool
	done     chan struct{}
	stopOnce sync.Once
}

// New creates an Application editing opts.File with cfg.
func New(cfg *config.Config, opts Options) (*Application, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	if opts.Logger == nil {
		opts.Logger = NullLogger
	}
	if opts.Loader == nil {
		opts.Loader = config.NewLoader()
	}

	app := &Application{
		cfg:     cfg,
		opts:    opts,
		logger:  opts.Logger.WithComponent("app"),
		view:    renderer.NewView(),
		status:  statusline.New(),
		pending: queue.New(),
		done:    make(chan struct{}),
	}

	if opts.File != "" {
		doc, err := OpenDocument(opts.File, cfg, opts.ReadOnly)
		if err != nil {
			return nil, &InitError{Component: "document", Err: err}
		}
		app.doc = doc
	} else {
		app.doc = NewScratchDocument(cfg)
	}
	app.logger.Debug("opened %q (%d runes)", app.doc.Name, app.doc.Engine.Len())

	return app, nil
}

// SetBackend sets the terminal backend.
// Must be called before Run().
func (app *Application) SetBackend(b backend.Backend) error {
	app.mu.Lock()
	defer app.mu.Unlock()

	if app.running.Load() {
		return ErrAlreadyRunning
	}
	app.backend = b
	return nil
}

// Run initializes the backend and processes events until Ctrl-Q, Stop, or
// ctx is cancelled.
func (app *Application) Run(ctx context.Context) error {
	if app.backend == nil {
		return ErrNoBackend
	}
	if !app.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}
	defer app.running.Store(false)

	if err := app.backend.Init(); err != nil {
		return &InitError{Component: "backend", Err: err}
	}
	defer app.backend.Shutdown()

	app.startReloader()
	defer app.stopReloader()

	go func() {
		select {
		case <-ctx.Done():
			app.Stop()
		case <-app.done:
		}
	}()

	for {
		app.Render()

		ev := app.backend.PollEvent()
		select {
		case <-app.done:
			return nil
		default:
		}

		if err := app.HandleEvent(ev); err != nil {
			if errors.Is(err, ErrQuit) {
				app.Stop()
				return nil
			}
			app.logger.Warn("event %v: %v", ev.Key, err)
		}
	}
}

// Stop ends Run. It is safe to call more than once.
func (app *Application) Stop() {
	app.stopOnce.Do(func() {
		close(app.done)
		if app.backend != nil {
			app.backend.PostEvent(backend.Event{Type: backend.EventInterrupt})
		}
	})
}

// Close releases the document.
func (app *Application) Close() {
	app.mu.Lock()
	defer app.mu.Unlock()
	app.doc.Close()
}

// Document returns the document being edited.
func (app *Application) Document() *Document {
	return app.doc
}

// Config returns the current configuration.
func (app *Application) Config() *config.Config {
	app.mu.Lock()
	defer app.mu.Unlock()
	return app.cfg
}

// Status returns the status line.
func (app *Application) Status() *statusline.StatusLine {
	return app.status
}

// IsRunning returns true if the application is running.
func (app *Application) IsRunning() bool {
	return app.running.Load()
}

// Render draws the document and status line and positions the cursor.
func (app *Application) Render() {
	app.mu.Lock()
	defer app.mu.Unlock()

	if app.backend == nil {
		return
	}
	b := app.backend
	w, h := b.Size()

	textHeight := h
	if app.cfg.UI.ShowStatus && h > 1 {
		textHeight = h - 1
	}

	eng := app.doc.Engine
	snap := eng.Snapshot()
	cursor := eng.CursorPoint()
	x, y := app.view.Render(b, snap, cursor, renderer.Rect{Width: w, Height: textHeight})

	if textHeight < h {
		stats := eng.Stats()
		app.status.SetState(statusline.State{
			Name:      app.doc.Name,
			Modified:  app.doc.IsModified(),
			ReadOnly:  app.doc.ReadOnly,
			Recording: app.macro.recording,
			Line:      cursor.Line,
			Column:    cursor.Column,
			Offset:    eng.Cursor(),
			Len:       stats.Len,
			Capacity:  stats.Capacity,
			GapStart:  stats.Gap.Start,
			GapLen:    stats.Gap.Len(),
			ShowGap:   app.cfg.UI.ShowGap,
		})
		app.status.Render(b, h-1, w)
	}

	b.ShowCursor(x, y)
	b.Show()
}

func (app *Application) startReloader() {
	path := app.opts.ConfigPath
	if path == "" {
		path = app.cfg.Path
	}
	if path == "" {
		return
	}

	r, err := watcher.NewReloader(app.opts.Loader, path, app.applyConfig,
		watcher.WithErrorHandler(func(err error) {
			app.logger.Warn("config watcher: %v", err)
		}))
	if err != nil {
		app.logger.Warn("not watching %s: %v", path, err)
		return
	}
	app.reloader = r
	app.logger.Debug("watching %s", path)
}

func (app *Application) stopReloader() {
	if app.reloader != nil {
		_ = app.reloader.Close()
		app.reloader = nil
	}
}

// applyConfig installs a reloaded configuration. Engine capacity and undo
// depth apply to the next document; tab width, log level and UI flags
// apply immediately. A failed reload keeps the current settings.
func (app *Application) applyConfig(cfg *config.Config, err error) {
	app.mu.Lock()
	if err != nil {
		app.logger.Warn("config reload: %v", err)
		app.status.SetMessage(fmt.Sprintf("config: %v", err), statusline.MessageError)
	} else {
		app.cfg = cfg
		app.doc.Engine.SetTabWidth(cfg.Engine.TabWidth)
		if !app.opts.Debug {
			app.opts.Logger.SetLevel(ParseLogLevel(cfg.Logging.Level))
		}
		app.logger.Info("config reloaded from %s", cfg.Path)
		app.status.SetMessage("config reloaded", statusline.MessageInfo)
	}
	b := app.backend
	app.mu.Unlock()

	if b != nil && app.running.Load() {
		b.PostEvent(backend.Event{Type: backend.EventInterrupt})
	}
}
