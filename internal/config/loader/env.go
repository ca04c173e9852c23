package loader

import (
	"os"
	"strconv"
	"strings"
)

// DefaultEnvPrefix is the prefix for gapstorm environment variables.
const DefaultEnvPrefix = "GAPSTORM_"

// EnvLoader turns prefixed environment variables into settings.
//
// An aliased variable goes to its alias path. Any other variable is split
// at the first underscore after the prefix, so GAPSTORM_ENGINE_TAB_WIDTH
// sets engine.tab_width. Empty values are kept.
type EnvLoader struct {
	prefix  string
	aliases map[string]string
	environ func() []string
}

// NewEnvLoader reads variables starting with prefix, which should end in
// an underscore. The short forms LOG_LEVEL, LOG_FILE, TAB_WIDTH and
// LINE_ENDING are aliased.
func NewEnvLoader(prefix string) *EnvLoader {
	l := &EnvLoader{prefix: prefix, environ: os.Environ}
	return l.
		Alias("LOG_LEVEL", "logging.level").
		Alias("LOG_FILE", "logging.file").
		Alias("TAB_WIDTH", "engine.tab_width").
		Alias("LINE_ENDING", "engine.line_ending")
}

// Alias routes prefix+name to path. An empty path drops the alias.
func (l *EnvLoader) Alias(name, path string) *EnvLoader {
	if l.aliases == nil {
		l.aliases = make(map[string]string)
	}
	if path == "" {
		delete(l.aliases, l.prefix+name)
	} else {
		l.aliases[l.prefix+name] = path
	}
	return l
}

// Load collects the prefixed variables into a nested map.
func (l *EnvLoader) Load() (map[string]any, error) {
	out := make(map[string]any)
	for _, kv := range l.environ() {
		name, value, _ := strings.Cut(kv, "=")
		if !strings.HasPrefix(name, l.prefix) {
			continue
		}
		path, ok := l.aliases[name]
		if !ok {
			path = l.envToPath(name)
		}
		if path != "" {
			setByPath(out, path, parseEnvValue(value))
		}
	}
	return out, nil
}

// envToPath maps GAPSTORM_ENGINE_TAB_WIDTH to engine.tab_width, and names
// without both a section and a setting to "".
func (l *EnvLoader) envToPath(name string) string {
	section, setting, ok := strings.Cut(strings.ToLower(strings.TrimPrefix(name, l.prefix)), "_")
	if !ok || section == "" || setting == "" {
		return ""
	}
	return section + "." + setting
}

// parseEnvValue recognizes booleans and numbers. Durations stay strings
// so they decode as they do from a file.
func parseEnvValue(s string) any {
	switch strings.ToLower(s) {
	case "true", "yes", "on":
		return true
	case "false", "no", "off":
		return false
	}
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return i
	}
	if strings.Contains(s, ".") {
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return f
		}
	}
	return s
}

func setByPath(m map[string]any, path string, v any) {
	keys := strings.Split(path, ".")
	for _, k := range keys[:len(keys)-1] {
		next, ok := m[k].(map[string]any)
		if !ok {
			next = make(map[string]any)
			m[k] = next
		}
		m = next
	}
	m[keys[len(keys)-1]] = v
}
