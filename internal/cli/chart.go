package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Dicklesworthstone/winsize/pkg/export"
)

const (
	previewPortStart = 9000
	previewPortEnd   = 9100
)

func newChartCmd() *cobra.Command {
	var (
		outPath string
		marks   []int
		title   string
		preview bool
	)

	cmd := &cobra.Command{
		Use:   "chart",
		Short: "Render the breakpoint table as an SVG chart",
		Example: `  winsize chart --out breakpoints.svg
  winsize chart --mark 375 --mark 1024 --preview`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := loggerFromContext(ctx)

			opts := export.DefaultChartOptions()
			opts.Marks = marks
			if title != "" {
				opts.Title = title
			}

			if preview {
				dir, err := os.MkdirTemp("", "winsize-preview-*")
				if err != nil {
					return fmt.Errorf("failed to create preview dir: %w", err)
				}
				defer os.RemoveAll(dir)

				if err := export.WriteBundle(dir, opts); err != nil {
					return err
				}
				port, err := export.FindAvailablePort(previewPortStart, previewPortEnd)
				if err != nil {
					return err
				}
				srv := export.NewPreviewServer(dir, port, logger)
				fmt.Fprintf(cmd.OutOrStdout(), "Preview at %s (Ctrl+C to stop)\n", srv.URL())
				return srv.Serve(ctx)
			}

			if outPath == "" || outPath == "-" {
				return export.WriteChart(cmd.OutOrStdout(), opts)
			}

			f, err := os.Create(outPath)
			if err != nil {
				return fmt.Errorf("failed to create %s: %w", outPath, err)
			}
			if err := export.WriteChart(f, opts); err != nil {
				f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return err
			}
			logger.Info("chart written", "path", outPath, "marks", len(marks))
			return nil
		},
	}

	cmd.Flags().StringVarP(&outPath, "out", "o", "", "output file (stdout when empty or -)")
	cmd.Flags().IntSliceVar(&marks, "mark", nil, "viewport width to highlight (repeatable)")
	cmd.Flags().StringVar(&title, "title", "", "chart title")
	cmd.Flags().BoolVar(&preview, "preview", false, "serve the chart on localhost instead of writing it")
	return cmd
}
