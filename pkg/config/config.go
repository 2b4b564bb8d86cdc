// Package config loads winsize settings from YAML, TOML or JSON files.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/Dicklesworthstone/winsize/pkg/model"
	"github.com/Dicklesworthstone/winsize/pkg/watcher"
)

// Size sources.
const (
	SourceTerminal = "terminal"
	SourceFile     = "file"
	SourceStatic   = "static"
)

// ErrUnsupportedFormat is returned for config files with an unknown extension.
var ErrUnsupportedFormat = errors.New("unsupported config format")

// Duration wraps time.Duration so config files can say "16ms".
type Duration time.Duration

// MarshalText renders the duration in Go syntax.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// UnmarshalText parses Go duration syntax.
func (d *Duration) UnmarshalText(b []byte) error {
	v, err := time.ParseDuration(strings.TrimSpace(string(b)))
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", b, err)
	}
	*d = Duration(v)
	return nil
}

// Config holds runtime parameters. Zero values are filled from Default by
// Load.
type Config struct {
	Quantum       Duration `json:"quantum" yaml:"quantum" toml:"quantum"`
	DefaultWidth  int      `json:"default_width" yaml:"default_width" toml:"default_width"`
	DefaultHeight int      `json:"default_height" yaml:"default_height" toml:"default_height"`
	Source        string   `json:"source" yaml:"source" toml:"source"`
	SizeFile      string   `json:"size_file" yaml:"size_file" toml:"size_file"`
	CellWidth     int      `json:"cell_width" yaml:"cell_width" toml:"cell_width"`
	CellHeight    int      `json:"cell_height" yaml:"cell_height" toml:"cell_height"`
	LogLevel      string   `json:"log_level" yaml:"log_level" toml:"log_level"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Quantum:    Duration(watcher.DefaultQuantum),
		Source:     SourceTerminal,
		CellWidth:  8,
		CellHeight: 16,
		LogLevel:   "info",
	}
}

// Fallback is the sample used while the environment is unavailable.
func (c Config) Fallback() model.SizeSample {
	return model.SizeSample{Width: c.DefaultWidth, Height: c.DefaultHeight}
}

// QuantumDuration returns the quantum as a time.Duration.
func (c Config) QuantumDuration() time.Duration {
	return time.Duration(c.Quantum)
}

// Validate checks value ranges.
func (c Config) Validate() error {
	var errs []error
	if c.Quantum <= 0 {
		errs = append(errs, fmt.Errorf("quantum must be positive, got %s", time.Duration(c.Quantum)))
	}
	if c.DefaultWidth < 0 || c.DefaultHeight < 0 {
		errs = append(errs, fmt.Errorf("default size must not be negative, got %dx%d", c.DefaultWidth, c.DefaultHeight))
	}
	if c.CellWidth <= 0 || c.CellHeight <= 0 {
		errs = append(errs, fmt.Errorf("cell size must be positive, got %dx%d", c.CellWidth, c.CellHeight))
	}
	switch c.Source {
	case SourceTerminal, SourceStatic:
	case SourceFile:
		if c.SizeFile == "" {
			errs = append(errs, errors.New("source \"file\" requires size_file"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown source %q", c.Source))
	}
	return errors.Join(errs...)
}

// Load reads a configuration file based on its extension
// (.yaml/.yml, .toml, .json), applies defaults and validates.
// An empty path returns Default().
func Load(path string) (Config, error) {
	if path == "" {
		return Default(), nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config: %w", err)
	}
	cfg, err := Parse(b, filepath.Ext(path))
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes b in the format named by ext, then applies defaults and
// validates.
func Parse(b []byte, ext string) (Config, error) {
	var cfg Config
	switch strings.ToLower(strings.TrimPrefix(ext, ".")) {
	case "yaml", "yml":
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return Config{}, err
		}
	case "toml":
		if err := toml.Unmarshal(b, &cfg); err != nil {
			return Config{}, err
		}
	case "json":
		if err := json.Unmarshal(b, &cfg); err != nil {
			return Config{}, err
		}
	default:
		return Config{}, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}

	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) applyDefaults() {
	d := Default()
	if c.Quantum == 0 {
		c.Quantum = d.Quantum
	}
	if c.Source == "" {
		c.Source = d.Source
	}
	if c.CellWidth == 0 {
		c.CellWidth = d.CellWidth
	}
	if c.CellHeight == 0 {
		c.CellHeight = d.CellHeight
	}
	if c.LogLevel == "" {
		c.LogLevel = d.LogLevel
	}
}

// Watch reloads path whenever it changes and passes valid configurations to
// onReload. Invalid edits are reported to onError and otherwise ignored.
// The returned function stops watching.
func Watch(path string, onReload func(Config), onError func(error), opts ...watcher.Option) (func(), error) {
	w, err := watcher.NewWatcher(path, func() {
		cfg, err := Load(path)
		if err != nil {
			if onError != nil {
				onError(err)
			}
			return
		}
		onReload(cfg)
	}, opts...)
	if err != nil {
		return nil, err
	}
	if err := w.Start(); err != nil {
		return nil, err
	}
	return w.Stop, nil
}
