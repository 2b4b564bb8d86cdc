package cli

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"

	"github.com/Dicklesworthstone/winsize/pkg/config"
	"github.com/Dicklesworthstone/winsize/pkg/environment"
	"github.com/Dicklesworthstone/winsize/pkg/loader"
	"github.com/Dicklesworthstone/winsize/pkg/model"
	"github.com/Dicklesworthstone/winsize/pkg/sampler"
)

// newEnvironment builds the size source named by cfg.Source.
func newEnvironment(cfg config.Config, logger *log.Logger) (sampler.Environment, error) {
	switch cfg.Source {
	case config.SourceTerminal:
		return environment.NewTerminal(os.Stdout,
			environment.WithCellSize(cfg.CellWidth, cfg.CellHeight),
			environment.WithTerminalLogger(logger)), nil
	case config.SourceFile:
		return environment.NewFile(cfg.SizeFile, logger), nil
	case config.SourceStatic:
		return environment.Static(cfg.Fallback()), nil
	default:
		return nil, fmt.Errorf("unknown size source %q", cfg.Source)
	}
}

// recordingEnv tees native resize notifications into a trace before they
// reach the sampler, so a replay sees the uncoalesced stream.
type recordingEnv struct {
	sampler.Environment
	rec    *loader.Recorder
	logger *log.Logger
}

func (r recordingEnv) Watch(onResize func(model.SizeSample)) (func(), error) {
	return r.Environment.Watch(func(s model.SizeSample) {
		if err := r.rec.Record(s); err != nil {
			r.logger.Warn("failed to record sample", "err", err)
		}
		onResize(s)
	})
}
