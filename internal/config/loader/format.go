package loader

import (
	"errors"
	"fmt"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Format is a config file syntax.
type Format int

const (
	FormatTOML Format = iota
	FormatYAML
)

type formatInfo struct {
	id     Format
	name   string
	exts   []string
	decode func(data []byte) (map[string]any, error)
}

var formats = []formatInfo{
	{FormatTOML, "toml", []string{".toml"}, decodeTOML},
	{FormatYAML, "yaml", []string{".yaml", ".yml"}, decodeYAML},
}

func (f Format) String() string {
	if f >= 0 && int(f) < len(formats) {
		return formats[f].name
	}
	return "unknown"
}

// Parse decodes data. Empty input gives an empty map; a syntax error gives
// a *ParseError naming source.
func (f Format) Parse(source string, data []byte) (map[string]any, error) {
	if f < 0 || int(f) >= len(formats) {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedFormat, int(f))
	}
	m, err := formats[f].decode(data)
	if err != nil {
		return nil, newParseError(source, err)
	}
	if m == nil {
		m = make(map[string]any)
	}
	return m, nil
}

func decodeTOML(data []byte) (map[string]any, error) {
	var m map[string]any
	err := toml.Unmarshal(data, &m)
	return m, err
}

// decodeYAML converts YAML ints to int64 so both formats yield the same
// value types.
func decodeYAML(data []byte) (map[string]any, error) {
	var m map[string]any
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	for k, v := range m {
		m[k] = widenInts(v)
	}
	return m, nil
}

func widenInts(v any) any {
	switch x := v.(type) {
	case int:
		return int64(x)
	case map[string]any:
		for k, e := range x {
			x[k] = widenInts(e)
		}
	case []any:
		for i, e := range x {
			x[i] = widenInts(e)
		}
	}
	return v
}

// ParseError reports malformed config input. Line and Column are 1-based
// and zero when the decoder gives no position.
type ParseError struct {
	Path    string
	Line    int
	Column  int
	Message string
	Err     error
}

func newParseError(source string, err error) *ParseError {
	pe := &ParseError{Path: source, Message: err.Error(), Err: err}
	var derr *toml.DecodeError
	if errors.As(err, &derr) {
		pe.Line, pe.Column = derr.Position()
	}
	return pe
}

func (e *ParseError) Error() string {
	switch {
	case e.Line > 0 && e.Column > 0:
		return fmt.Sprintf("parse error in %s at line %d, column %d: %s", e.Path, e.Line, e.Column, e.Message)
	case e.Line > 0:
		return fmt.Sprintf("parse error in %s at line %d: %s", e.Path, e.Line, e.Message)
	default:
		return fmt.Sprintf("parse error in %s: %s", e.Path, e.Message)
	}
}

func (e *ParseError) Unwrap() error { return e.Err }
