package watcher

import (
	"errors"
	"fmt"

	"github.com/dshills/gapstorm/internal/config"
)

// ReloadFunc receives the result of a reload. On error cfg is nil and the
// previous configuration should stay in effect.
type ReloadFunc func(cfg *config.Config, err error)

// Reloader re-reads one configuration file whenever it changes.
type Reloader struct {
	w      *Watcher
	loader *config.Loader
	path   string
}

// NewReloader watches path and calls fn with the freshly loaded Config after
// every debounced change. A removed file reloads to defaults plus
// environment, matching what Load does for a missing file.
func NewReloader(l *config.Loader, path string, fn ReloadFunc, opts ...Option) (*Reloader, error) {
	if path == "" {
		return nil, errors.New("reloader needs a config path")
	}
	w, err := New(opts...)
	if err != nil {
		return nil, err
	}
	if err := w.Watch(path); err != nil {
		_ = w.Close()
		return nil, err
	}

	r := &Reloader{w: w, loader: l, path: path}
	w.OnChange(func(ev Event) {
		cfg, err := r.loader.Load(r.path)
		if err != nil {
			fn(nil, fmt.Errorf("reloading %s after %s: %w", ev.Path, ev.Op, err))
			return
		}
		fn(cfg, nil)
	})
	return r, nil
}

// Path returns the watched config file.
func (r *Reloader) Path() string {
	return r.path
}

// Close stops watching.
func (r *Reloader) Close() error {
	return r.w.Close()
}
