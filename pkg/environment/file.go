package environment

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
	"gopkg.in/yaml.v3"

	"github.com/Dicklesworthstone/winsize/pkg/model"
	"github.com/Dicklesworthstone/winsize/pkg/watcher"
)

var dimsPattern = regexp.MustCompile(`^\s*(\d+)\s*[xX×]\s*(\d+)\s*$`)

// File reads the viewport size from a file written by another process, such
// as a kiosk compositor. The file holds either "WIDTHxHEIGHT" or a YAML/JSON
// mapping with width and height keys.
type File struct {
	path   string
	opts   []watcher.Option
	logger *log.Logger
}

// NewFile creates a file environment. The options tune the underlying file
// watcher.
func NewFile(path string, logger *log.Logger, opts ...watcher.Option) *File {
	if logger == nil {
		logger = log.Default()
	}
	return &File{
		path:   path,
		logger: logger,
		opts:   append([]watcher.Option{watcher.WithLogger(logger)}, opts...),
	}
}

// Size reads and parses the size file.
func (f *File) Size() (model.SizeSample, error) {
	b, err := os.ReadFile(f.path)
	if err != nil {
		return model.SizeSample{}, fmt.Errorf("failed to read size file: %w", err)
	}
	return ParseSize(b)
}

// Watch reloads the file on every change and forwards parseable sizes.
func (f *File) Watch(onResize func(model.SizeSample)) (func(), error) {
	if onResize == nil {
		return nil, errors.New("nil resize callback")
	}
	w, err := watcher.NewWatcher(f.path, func() {
		s, err := f.Size()
		if err != nil {
			f.logger.Debug("ignoring unreadable size file", "path", f.path, "err", err)
			return
		}
		onResize(s)
	}, f.opts...)
	if err != nil {
		return nil, err
	}
	if err := w.Start(); err != nil {
		return nil, err
	}
	return w.Stop, nil
}

// ParseSize decodes "WIDTHxHEIGHT" or a YAML/JSON document with width and
// height fields.
func ParseSize(b []byte) (model.SizeSample, error) {
	text := strings.TrimSpace(string(b))
	if text == "" {
		return model.SizeSample{}, errors.New("empty size")
	}

	if m := dimsPattern.FindStringSubmatch(text); m != nil {
		w, err := strconv.Atoi(m[1])
		if err != nil {
			return model.SizeSample{}, fmt.Errorf("bad width %q: %w", m[1], err)
		}
		h, err := strconv.Atoi(m[2])
		if err != nil {
			return model.SizeSample{}, fmt.Errorf("bad height %q: %w", m[2], err)
		}
		return model.SizeSample{Width: w, Height: h}, nil
	}

	var doc struct {
		Width  *int `yaml:"width"`
		Height *int `yaml:"height"`
	}
	if err := yaml.Unmarshal([]byte(text), &doc); err != nil {
		return model.SizeSample{}, fmt.Errorf("unrecognized size %q: %w", text, err)
	}
	if doc.Width == nil {
		return model.SizeSample{}, fmt.Errorf("size document has no width")
	}
	s := model.SizeSample{Width: *doc.Width}
	if doc.Height != nil {
		s.Height = *doc.Height
	}
	if s.Width < 0 || s.Height < 0 {
		return model.SizeSample{}, fmt.Errorf("negative size %v", s)
	}
	return s, nil
}
