// Package cli implements the winsize command-line interface.
//
// Commands:
//   - classify: print layout descriptors for widths
//   - watch: interactive view of the terminal's live layout
//   - stream: log breakpoint changes from the configured size source
//   - replay: run a recorded resize trace through the classifier
//   - history: list sessions and changes recorded by stream --history
//   - chart: render the breakpoint table as SVG
//   - version: print build information, optionally check for updates
//
// All commands accept --config and --verbose (-v). The logger and the loaded
// configuration are carried in the command context.
package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/Dicklesworthstone/winsize/pkg/config"
	"github.com/Dicklesworthstone/winsize/pkg/version"
)

const (
	configKey ctxKey = iota + 1
	configPathKey
)

func withConfig(ctx context.Context, cfg config.Config) context.Context {
	return context.WithValue(ctx, configKey, cfg)
}

func configFromContext(ctx context.Context) config.Config {
	if cfg, ok := ctx.Value(configKey).(config.Config); ok {
		return cfg
	}
	return config.Default()
}

// rootFlags are shared by every command.
type rootFlags struct {
	configPath string
	verbose    bool
}

// NewRootCommand builds the command tree. Logs go to stderr.
func NewRootCommand(stderr io.Writer) *cobra.Command {
	var flags rootFlags

	root := &cobra.Command{
		Use:           "winsize",
		Short:         "winsize classifies viewport sizes into responsive breakpoints",
		Long:          `winsize maps window widths to breakpoint levels, size classes, grid columns and gutters, and follows a live size source with throttled updates.`,
		Version:       version.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(flags.configPath)
			if err != nil {
				return err
			}
			level := parseLevel(cfg.LogLevel)
			if flags.verbose {
				level = log.DebugLevel
			}
			logger := newLogger(stderr, level)
			logger.Debug("configuration loaded", "path", flags.configPath, "source", cfg.Source, "quantum", cfg.QuantumDuration())

			ctx := withLogger(cmd.Context(), logger)
			ctx = withConfig(ctx, cfg)
			ctx = context.WithValue(ctx, configPathKey, flags.configPath)
			cmd.SetContext(ctx)
			return nil
		},
	}

	root.SetVersionTemplate(fmt.Sprintf("winsize %s\ncommit: %s\nbuilt: %s\n", version.Version, version.Commit, version.Date))
	root.PersistentFlags().StringVar(&flags.configPath, "config", "", "config file (.yaml, .toml or .json)")
	root.PersistentFlags().BoolVarP(&flags.verbose, "verbose", "v", false, "enable verbose logging")

	root.AddCommand(newClassifyCmd())
	root.AddCommand(newWatchCmd())
	root.AddCommand(newStreamCmd())
	root.AddCommand(newReplayCmd())
	root.AddCommand(newHistoryCmd())
	root.AddCommand(newChartCmd())
	root.AddCommand(newVersionCmd())

	return root
}

func configPathFromContext(ctx context.Context) string {
	p, _ := ctx.Value(configPathKey).(string)
	return p
}

// Execute runs the CLI with ctx, typically cancelled on SIGINT.
func Execute(ctx context.Context, stderr io.Writer) error {
	return NewRootCommand(stderr).ExecuteContext(ctx)
}
