package config

import (
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
)

// Config holds every storysource setting.
type Config struct {
	Log       LogConfig       `toml:"log"`
	Highlight HighlightConfig `toml:"highlight"`
	Splice    SpliceConfig    `toml:"splice"`
	Panel     PanelConfig     `toml:"panel"`
	Watch     WatchConfig     `toml:"watch"`
	Script    ScriptConfig    `toml:"script"`
	View      ViewConfig      `toml:"view"`
}

// LogConfig controls logging.
type LogConfig struct {
	// Level is one of "none", "error", "warning", "notice", "info", "debug".
	Level string `toml:"level"`

	// File is the log file. Empty logs to stderr.
	File string `toml:"file"`
}

// HighlightConfig controls tokenization and colouring.
type HighlightConfig struct {
	// Language is the chroma lexer name or alias.
	Language string `toml:"language"`

	// Style is the chroma style name.
	Style string `toml:"style"`
}

// SpliceConfig controls edits to the active region.
type SpliceConfig struct {
	// ExactEndColumn offsets the end column of single-line replacements
	// by the start column.
	ExactEndColumn bool `toml:"exactEndColumn"`
}

// PanelConfig controls document acceptance.
type PanelConfig struct {
	// Validate rejects documents with malformed or overlapping regions.
	Validate bool `toml:"validate"`
}

// WatchConfig controls file watching.
type WatchConfig struct {
	// Debounce is the delay between the last change and the reload.
	Debounce Duration `toml:"debounce"`
}

// ScriptConfig controls the Lua navigation hook.
type ScriptConfig struct {
	// Navigate is a Lua file defining navigate(group, item). Empty
	// disables the hook.
	Navigate string `toml:"navigate"`

	// Timeout bounds a single navigate call.
	Timeout Duration `toml:"timeout"`
}

// ViewConfig controls the interactive viewer.
type ViewConfig struct {
	// Tint is how far the active region background moves toward the
	// style's foreground colour, from 0 to 1.
	Tint float64 `toml:"tint"`
}

// Duration is a time.Duration written as a string such as "250ms".
type Duration time.Duration

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}

// levels maps log levels to commonlog verbosity.
var levels = map[string]int{
	"none":    -2,
	"error":   0,
	"warning": 1,
	"notice":  2,
	"info":    3,
	"debug":   4,
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Log:       LogConfig{Level: "warning"},
		Highlight: HighlightConfig{Language: "jsx", Style: "monokai"},
		Splice:    SpliceConfig{ExactEndColumn: false},
		Panel:     PanelConfig{Validate: true},
		Watch:     WatchConfig{Debounce: Duration(100 * time.Millisecond)},
		Script:    ScriptConfig{Timeout: Duration(time.Second)},
		View:      ViewConfig{Tint: 0.12},
	}
}

// Verbosity returns the commonlog verbosity for the log level.
func (c Config) Verbosity() int {
	if v, ok := levels[c.Log.Level]; ok {
		return v
	}
	return levels["warning"]
}

// LogFile returns the log file path for commonlog.Configure, or nil for
// stderr.
func (c Config) LogFile() *string {
	if c.Log.File == "" {
		return nil
	}
	path := c.Log.File
	return &path
}

// Validate checks every setting and joins all problems found.
func (c Config) Validate() error {
	var errs []error

	if _, ok := levels[c.Log.Level]; !ok {
		names := make([]string, 0, len(levels))
		for name := range levels {
			names = append(names, name)
		}
		slices.Sort(names)
		errs = append(errs, &ValidationError{Path: "log.level", Value: c.Log.Level, Message: fmt.Sprintf("must be one of %v", names)})
	}
	if c.Highlight.Language != "" && lexers.Get(c.Highlight.Language) == nil {
		errs = append(errs, &ValidationError{Path: "highlight.language", Value: c.Highlight.Language, Message: "unknown lexer"})
	}
	if c.Highlight.Style != "" {
		if _, ok := styles.Registry[c.Highlight.Style]; !ok {
			errs = append(errs, &ValidationError{Path: "highlight.style", Value: c.Highlight.Style, Message: "unknown style"})
		}
	}
	if c.Watch.Debounce < 0 {
		errs = append(errs, &ValidationError{Path: "watch.debounce", Value: time.Duration(c.Watch.Debounce), Message: "must not be negative"})
	}
	if c.Script.Timeout < 0 {
		errs = append(errs, &ValidationError{Path: "script.timeout", Value: time.Duration(c.Script.Timeout), Message: "must not be negative"})
	}
	if c.View.Tint < 0 || c.View.Tint > 1 {
		errs = append(errs, &ValidationError{Path: "view.tint", Value: c.View.Tint, Message: "must be between 0 and 1"})
	}

	return errors.Join(errs...)
}
