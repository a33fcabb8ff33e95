package loader

import (
	"os"
	"strconv"
	"strings"
)

// DefaultEnvPrefix prefixes every environment variable the loader reads.
const DefaultEnvPrefix = "TEXTCORE_"

// EnvLoader loads configuration from environment variables.
type EnvLoader struct {
	prefix  string            // Environment variable prefix (e.g., "TEXTCORE_")
	mapping map[string]string // Env var -> setting path
	environ func() []string
}

// NewEnvLoader creates a new environment variable loader.
// The prefix should include the trailing underscore (e.g., "TEXTCORE_").
func NewEnvLoader(prefix string) *EnvLoader {
	return &EnvLoader{
		prefix:  prefix,
		mapping: defaultEnvMapping(prefix),
		environ: os.Environ,
	}
}

// NewEnvLoaderWithMapping creates a loader with custom environment variable mappings.
func NewEnvLoaderWithMapping(prefix string, mapping map[string]string) *EnvLoader {
	return &EnvLoader{
		prefix:  prefix,
		mapping: mapping,
		environ: os.Environ,
	}
}

// defaultEnvMapping returns the short aliases for common settings.
func defaultEnvMapping(prefix string) map[string]string {
	return map[string]string{
		prefix + "TAB_WIDTH":   "measure.tab_width",
		prefix + "THREAD_SAFE": "editor.thread_safe",
		prefix + "LOG_LEVEL":   "logging.level",
	}
}

// Load reads environment variables and returns a map from setting path to
// value. Mapped aliases win over the generic PREFIX_SECTION_KEY form.
// Note: Empty string values are treated as valid values, not as unset.
func (l *EnvLoader) Load() (map[string]any, error) {
	config := make(map[string]any)
	env := make(map[string]string)
	for _, kv := range l.environ() {
		name, value, ok := strings.Cut(kv, "=")
		if ok && strings.HasPrefix(name, l.prefix) {
			env[name] = value
		}
	}

	for name, value := range env {
		if _, ok := l.mapping[name]; ok {
			continue
		}
		// TEXTCORE_MEASURE_TAB_AS_WHITESPACE -> measure.tab_as_whitespace
		config[l.envToPath(name)] = parseValue(value)
	}
	for name, path := range l.mapping {
		if value, ok := env[name]; ok {
			config[path] = parseValue(value)
		}
	}

	return config, nil
}

// AddMapping adds a custom environment variable mapping.
func (l *EnvLoader) AddMapping(envVar, settingPath string) {
	if l.mapping == nil {
		l.mapping = make(map[string]string)
	}
	l.mapping[envVar] = settingPath
}

// RemoveMapping removes an environment variable mapping.
func (l *EnvLoader) RemoveMapping(envVar string) {
	delete(l.mapping, envVar)
}

// envToPath converts TEXTCORE_EDITOR_LINE_ENDING to editor.line_ending.
// The first word is the section; the rest is the key.
func (l *EnvLoader) envToPath(env string) string {
	name := strings.ToLower(strings.TrimPrefix(env, l.prefix))
	section, key, ok := strings.Cut(name, "_")
	if !ok {
		return section
	}
	return section + "." + key
}

// parseValue attempts to parse the string value into an appropriate type.
// Integers stay integers; "1" and "0" are not booleans.
func parseValue(s string) any {
	if s == "" {
		return s
	}

	switch strings.ToLower(s) {
	case "true", "yes", "on":
		return true
	case "false", "no", "off":
		return false
	}

	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return i
	}

	// Only if it contains a decimal point, to avoid misinterpreting ints
	if strings.Contains(s, ".") {
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return f
		}
	}

	return s
}
