package cli

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/Dicklesworthstone/winsize/pkg/environment"
	"github.com/Dicklesworthstone/winsize/pkg/sampler"
	"github.com/Dicklesworthstone/winsize/pkg/ui"
	"github.com/Dicklesworthstone/winsize/pkg/window"
)

func newWatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Show the terminal's live layout interactively",
		Long: `watch opens a full-screen view of the current breakpoint, size class and
grid. Resizing the terminal reclassifies it; the view follows the throttled
sampler so bursts of resizes redraw once.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := loggerFromContext(ctx)
			cfg := configFromContext(ctx)

			// bubbletea reports sizes in cells; the viewer converts them and
			// feeds a manual environment, so seed it from the real terminal.
			seed := cfg.Fallback()
			term := environment.NewTerminal(os.Stdout,
				environment.WithCellSize(cfg.CellWidth, cfg.CellHeight),
				environment.WithTerminalLogger(logger))
			if s, err := term.Size(); err == nil {
				seed = s
			} else {
				logger.Debug("terminal size unavailable, using fallback", "err", err, "fallback", seed)
			}
			env := environment.NewManual(seed.Width, seed.Height)

			win := window.New(env,
				sampler.WithQuantum(cfg.QuantumDuration()),
				sampler.WithFallback(cfg.Fallback()),
				sampler.WithLogger(logger))
			if err := win.Start(); err != nil {
				return err
			}
			defer win.Close()

			m, err := ui.NewModel(win, env, ui.Options{
				CellWidth:  cfg.CellWidth,
				CellHeight: cfg.CellHeight,
			})
			if err != nil {
				return err
			}
			defer m.Close()

			p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
			if _, err := p.Run(); err != nil {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				return fmt.Errorf("viewer failed: %w", err)
			}
			return nil
		},
	}
	return cmd
}
