package config

import (
	"strconv"
	"strings"
)

// setting binds a path to a Config field.
type setting struct {
	get func(c *Config) any
	set func(c *Config, path string, value any) error
}

var settings = map[string]setting{
	"editor.thread_safe":            boolSetting(func(c *Config) *bool { return &c.Editor.ThreadSafe }),
	"editor.indexer_cache":          boolSetting(func(c *Config) *bool { return &c.Editor.IndexerCache }),
	"editor.indexer_cache_capacity": intSetting(func(c *Config) *int { return &c.Editor.IndexerCacheCapacity }),
	"editor.line_ending":            stringSetting(func(c *Config) *string { return &c.Editor.LineEnding }),
	"measure.tab_width":             intSetting(func(c *Config) *int { return &c.Measure.TabWidth }),
	"measure.tab_as_whitespace":     boolSetting(func(c *Config) *bool { return &c.Measure.TabAsWhitespace }),
	"measure.max_offset":            boolSetting(func(c *Config) *bool { return &c.Measure.MaxOffset }),
	"logging.level":                 stringSetting(func(c *Config) *string { return &c.Logging.Level }),
}

func typeError(path string, value any, want string) error {
	return &ValidationError{Path: path, Message: "expected " + want, Value: value}
}

func boolSetting(field func(*Config) *bool) setting {
	return setting{
		get: func(c *Config) any { return *field(c) },
		set: func(c *Config, path string, value any) error {
			var b bool
			switch v := value.(type) {
			case bool:
				b = v
			case int64:
				if v != 0 && v != 1 {
					return typeError(path, value, "bool")
				}
				b = v == 1
			case int:
				if v != 0 && v != 1 {
					return typeError(path, value, "bool")
				}
				b = v == 1
			case string:
				parsed, err := strconv.ParseBool(strings.TrimSpace(v))
				if err != nil {
					return typeError(path, value, "bool")
				}
				b = parsed
			default:
				return typeError(path, value, "bool")
			}
			*field(c) = b
			return nil
		},
	}
}

func intSetting(field func(*Config) *int) setting {
	return setting{
		get: func(c *Config) any { return *field(c) },
		set: func(c *Config, path string, value any) error {
			var n int
			switch v := value.(type) {
			case int:
				n = v
			case int64:
				n = int(v)
			case float64:
				if v != float64(int(v)) {
					return typeError(path, value, "integer")
				}
				n = int(v)
			case string:
				parsed, err := strconv.Atoi(strings.TrimSpace(v))
				if err != nil {
					return typeError(path, value, "integer")
				}
				n = parsed
			default:
				return typeError(path, value, "integer")
			}
			*field(c) = n
			return nil
		},
	}
}

func stringSetting(field func(*Config) *string) setting {
	return setting{
		get: func(c *Config) any { return *field(c) },
		set: func(c *Config, path string, value any) error {
			s, ok := value.(string)
			if !ok {
				return typeError(path, value, "string")
			}
			*field(c) = s
			return nil
		},
	}
}
