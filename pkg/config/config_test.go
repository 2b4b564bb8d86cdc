package config

import (
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/Dicklesworthstone/winsize/pkg/watcher"
)

func TestParseFormats(t *testing.T) {
	tests := []struct {
		name string
		ext  string
		body string
	}{
		{"yaml", ".yaml", "quantum: 32ms\ndefault_width: 1024\ndefault_height: 768\nsource: static\n"},
		{"yml", ".yml", "quantum: 32ms\ndefault_width: 1024\ndefault_height: 768\nsource: static\n"},
		{"toml", ".toml", "quantum = \"32ms\"\ndefault_width = 1024\ndefault_height = 768\nsource = \"static\"\n"},
		{"json", ".json", `{"quantum":"32ms","default_width":1024,"default_height":768,"source":"static"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Parse([]byte(tt.body), tt.ext)
			if err != nil {
				t.Fatalf("Parse: %v", err)
			}
			if cfg.QuantumDuration() != 32*time.Millisecond {
				t.Errorf("Quantum = %v, want 32ms", cfg.QuantumDuration())
			}
			if f := cfg.Fallback(); f.Width != 1024 || f.Height != 768 {
				t.Errorf("Fallback = %v", f)
			}
			if cfg.Source != SourceStatic {
				t.Errorf("Source = %q", cfg.Source)
			}
			if cfg.CellWidth != 8 || cfg.LogLevel != "info" {
				t.Errorf("defaults not applied: %+v", cfg)
			}
		})
	}
}

func TestParseRejects(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"negative size", "default_width: -1\n"},
		{"bad source", "source: x11\n"},
		{"file without path", "source: file\n"},
		{"bad duration", "quantum: soon\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Parse([]byte(tt.body), "yaml"); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestParseUnsupportedFormat(t *testing.T) {
	_, err := Parse([]byte("x"), ".ini")
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("err = %v, want ErrUnsupportedFormat", err)
	}
}

func TestLoadEmptyPathIsDefault(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg != Default() {
		t.Errorf("Load(\"\") = %+v, want defaults", cfg)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Default invalid: %v", err)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected error")
	}
}

func TestWatchReloads(t *testing.T) {
	path := filepath.Join(t.TempDir(), "winsize.yaml")
	if err := os.WriteFile(path, []byte("default_width: 100\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	var mu sync.Mutex
	var widths []int
	stop, err := Watch(path, func(c Config) {
		mu.Lock()
		widths = append(widths, c.DefaultWidth)
		mu.Unlock()
	}, nil, watcher.WithDebounce(10*time.Millisecond))
	if err != nil {
		t.Fatalf("Watch: %v", err)
	}
	defer stop()

	time.Sleep(50 * time.Millisecond)
	if err := os.WriteFile(path, []byte("default_width: 1300\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		mu.Lock()
		n := len(widths)
		mu.Unlock()
		if n > 0 {
			break
		}
		time.Sleep(10 * time.Millisecond)
	}

	mu.Lock()
	defer mu.Unlock()
	if len(widths) == 0 || widths[len(widths)-1] != 1300 {
		t.Errorf("reloads = %v, want last 1300", widths)
	}
}
