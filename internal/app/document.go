package app

import (
	"bytes"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sync/atomic"

	"github.com/dshills/gapstorm/internal/config"
	"github.com/dshills/gapstorm/internal/engine"
	"github.com/dshills/gapstorm/internal/engine/buffer"
)

// EngineOptions maps the engine settings onto engine options. An empty
// line ending is left for the caller to detect from content.
func EngineOptions(cfg *config.Config) []engine.Option {
	ec := cfg.Engine
	opts := []engine.Option{
		engine.WithTabWidth(ec.TabWidth),
		engine.WithMaxUndoEntries(ec.MaxUndo),
		engine.WithInitialCapacity(ec.InitialCapacity),
	}
	if ec.LineEnding != "" {
		if le, ok := buffer.ParseLineEnding(ec.LineEnding); ok {
			opts = append(opts, engine.WithLineEnding(le))
		}
	}
	return opts
}

// Document is a file loaded into an engine.
type Document struct {
	// Path is the absolute file path (empty for scratch buffers).
	Path string

	// Name is the display name.
	Name string

	// Engine holds the text.
	Engine *engine.Engine

	// ReadOnly indicates the document cannot be edited or saved.
	ReadOnly bool

	// revision of the engine when the document was last loaded or saved
	saved atomic.Uint64
}

// OpenDocument loads path into a new engine. A missing file gives an empty
// document that will be created on save. When cfg leaves the line ending
// unset it is detected from the file.
func OpenDocument(path string, cfg *config.Config, readOnly bool) (*Document, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, NewOperationError("open", path, err)
	}

	data, err := os.ReadFile(abs)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, NewOperationError("open", abs, err)
	}

	opts := EngineOptions(cfg)
	if cfg.Engine.LineEnding == "" {
		opts = append(opts, engine.WithLineEnding(buffer.DetectLineEnding(string(data))))
	}
	if readOnly {
		opts = append(opts, engine.WithReadOnly())
	}

	eng, err := engine.NewFromReader(bytes.NewReader(data), opts...)
	if err != nil {
		return nil, NewOperationError("open", abs, err)
	}

	doc := &Document{
		Path:     abs,
		Name:     filepath.Base(abs),
		Engine:   eng,
		ReadOnly: readOnly,
	}
	doc.markSaved()
	return doc, nil
}

// NewScratchDocument creates a document with no file.
func NewScratchDocument(cfg *config.Config) *Document {
	doc := &Document{
		Engine: engine.New(EngineOptions(cfg)...),
	}
	doc.markSaved()
	return doc
}

// IsScratch returns true if this is a scratch buffer (no file path).
func (d *Document) IsScratch() bool {
	return d.Path == ""
}

// IsModified reports whether the text changed since it was loaded or saved.
func (d *Document) IsModified() bool {
	return uint64(d.Engine.RevisionID()) != d.saved.Load()
}

func (d *Document) markSaved() {
	d.saved.Store(uint64(d.Engine.RevisionID()))
}

// Save writes the text to Path. The file is written to a temporary file in
// the same directory and renamed over the original.
func (d *Document) Save() error {
	if d.ReadOnly {
		return NewOperationError("save", d.Path, ErrReadOnly)
	}
	if d.IsScratch() {
		return NewOperationError("save", "", ErrNoPath)
	}
	if err := writeAtomic(d.Path, d.Engine); err != nil {
		return NewOperationError("save", d.Path, err)
	}
	d.markSaved()
	return nil
}

// SaveAs writes the text to path and makes it the document's file.
func (d *Document) SaveAs(path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return NewOperationError("save", path, err)
	}
	if err := writeAtomic(abs, d.Engine); err != nil {
		return NewOperationError("save", abs, err)
	}
	d.Path = abs
	d.Name = filepath.Base(abs)
	d.markSaved()
	return nil
}

// Close releases the engine's storage.
func (d *Document) Close() {
	d.Engine.Close()
}

func writeAtomic(path string, eng *engine.Engine) (err error) {
	mode := fs.FileMode(0o644)
	if info, statErr := os.Stat(path); statErr == nil {
		mode = info.Mode().Perm()
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = os.Remove(tmp.Name())
		}
	}()

	if _, err = eng.WriteTo(tmp); err != nil {
		_ = tmp.Close()
		return err
	}
	if err = tmp.Chmod(mode); err != nil {
		_ = tmp.Close()
		return err
	}
	if err = tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
