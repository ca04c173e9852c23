// Package loader reads gapstorm configuration sources into generic maps.
//
// File loaders parse TOML or YAML; the environment loader maps GAPSTORM_*
// variables onto dotted setting paths. Every loader returns a
// map[string]any so sources can be layered with DeepMerge before they are
// decoded into typed settings.
package loader

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// ErrUnsupportedFormat is returned for config files with an unknown extension.
var ErrUnsupportedFormat = errors.New("unsupported config format")

// Loader produces a settings map. A source that does not exist yields
// nil, nil.
type Loader interface {
	Load() (map[string]any, error)
}

// FileSystem reads whole files by path.
type FileSystem interface {
	ReadFile(path string) ([]byte, error)
}

// OSFS reads from the operating system.
type OSFS struct{}

// ReadFile reads path from disk.
func (OSFS) ReadFile(path string) ([]byte, error) { return os.ReadFile(path) }

// DefaultFS returns the operating system file system.
func DefaultFS() FileSystem { return OSFS{} }

// File loads one config file in a fixed format.
type File struct {
	fs     FileSystem
	path   string
	format Format
}

// NewFile returns a loader for path. A nil fsys reads the OS file system.
func NewFile(fsys FileSystem, path string, format Format) *File {
	if fsys == nil {
		fsys = DefaultFS()
	}
	return &File{fs: fsys, path: path, format: format}
}

// ForPath picks the format from the extension of path.
func ForPath(fsys FileSystem, path string) (*File, error) {
	format, err := FormatOf(path)
	if err != nil {
		return nil, err
	}
	return NewFile(fsys, path, format), nil
}

// Path returns the file path.
func (f *File) Path() string { return f.path }

// Format returns the format the file is parsed as.
func (f *File) Format() Format { return f.format }

// Load reads and parses the file. A missing file is not an error.
func (f *File) Load() (map[string]any, error) {
	data, err := f.fs.ReadFile(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading config file %s: %w", f.path, err)
	}
	return f.format.Parse(f.path, data)
}

// Read parses everything r yields in the loader's format.
func (f *File) Read(r io.Reader) (map[string]any, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	return f.format.Parse("<reader>", data)
}

// FormatOf maps a file extension to its Format, ignoring case.
func FormatOf(path string) (Format, error) {
	ext := strings.ToLower(filepath.Ext(path))
	for _, f := range formats {
		for _, e := range f.exts {
			if e == ext {
				return f.id, nil
			}
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(path))
}
