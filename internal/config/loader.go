package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// EnvPrefix is the prefix of environment variables read by Load.
const EnvPrefix = "STORYSOURCE_"

// Load returns the defaults overridden by the TOML file at path and then by
// the environment. An empty path or a missing file skips the file layer.
// The result is validated.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
			// File doesn't exist, not an error
		case err != nil:
			return Config{}, fmt.Errorf("reading config file %s: %w", path, err)
		default:
			if err := decode(path, data, &cfg); err != nil {
				return Config{}, err
			}
		}
	}

	if err := ApplyEnv(&cfg, os.LookupEnv); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadFromReader returns the defaults overridden by the TOML read from r.
// The environment is not consulted.
func LoadFromReader(r io.Reader) (Config, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return Config{}, fmt.Errorf("reading config: %w", err)
	}
	cfg := Default()
	if err := decode("<reader>", data, &cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// decode overlays the TOML in data onto cfg. Unknown keys are errors.
func decode(source string, data []byte, cfg *Config) error {
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(cfg); err != nil {
		pe := &ParseError{Path: source, Message: err.Error(), Err: err}

		var derr *toml.DecodeError
		if errors.As(err, &derr) {
			pe.Line, pe.Column = derr.Position()
		}
		var serr *toml.StrictMissingError
		if errors.As(err, &serr) {
			pe.Message = serr.String()
		}
		return pe
	}
	return nil
}

// LookupFunc reports the value of an environment variable.
type LookupFunc func(key string) (string, bool)

// ApplyEnv overrides cfg from STORYSOURCE_* variables found by lookup.
func ApplyEnv(cfg *Config, lookup LookupFunc) error {
	var errs []error

	str := func(name string, dst *string) {
		if v, ok := lookup(EnvPrefix + name); ok {
			*dst = v
		}
	}
	boolean := func(name string, dst *bool) {
		v, ok := lookup(EnvPrefix + name)
		if !ok {
			return
		}
		b, err := strconv.ParseBool(v)
		if err != nil {
			errs = append(errs, &ValidationError{Path: EnvPrefix + name, Value: v, Message: "not a boolean"})
			return
		}
		*dst = b
	}

	duration := func(name string, dst *Duration) {
		v, ok := lookup(EnvPrefix + name)
		if !ok {
			return
		}
		d, err := time.ParseDuration(v)
		if err != nil {
			errs = append(errs, &ValidationError{Path: EnvPrefix + name, Value: v, Message: "not a duration"})
			return
		}
		*dst = Duration(d)
	}
	number := func(name string, dst *float64) {
		v, ok := lookup(EnvPrefix + name)
		if !ok {
			return
		}
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			errs = append(errs, &ValidationError{Path: EnvPrefix + name, Value: v, Message: "not a number"})
			return
		}
		*dst = f
	}

	str("LOG_LEVEL", &cfg.Log.Level)
	str("LOG_FILE", &cfg.Log.File)
	str("HIGHLIGHT_LANGUAGE", &cfg.Highlight.Language)
	str("HIGHLIGHT_STYLE", &cfg.Highlight.Style)
	boolean("SPLICE_EXACT_END_COLUMN", &cfg.Splice.ExactEndColumn)
	boolean("PANEL_VALIDATE", &cfg.Panel.Validate)
	duration("WATCH_DEBOUNCE", &cfg.Watch.Debounce)
	str("SCRIPT_NAVIGATE", &cfg.Script.Navigate)
	duration("SCRIPT_TIMEOUT", &cfg.Script.Timeout)
	number("VIEW_TINT", &cfg.View.Tint)

	return errors.Join(errs...)
}
