package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/Dicklesworthstone/winsize/pkg/analysis"
	"github.com/Dicklesworthstone/winsize/pkg/environment"
	"github.com/Dicklesworthstone/winsize/pkg/layout"
	"github.com/Dicklesworthstone/winsize/pkg/loader"
	"github.com/Dicklesworthstone/winsize/pkg/model"
	"github.com/Dicklesworthstone/winsize/pkg/sampler"
	"github.com/Dicklesworthstone/winsize/pkg/window"
)

type replayEvent struct {
	Burst  int              `json:"burst"`
	AtMS   int64            `json:"at_ms"`
	Layout model.Descriptor `json:"layout"`
	Size   model.SizeSample `json:"size"`
}

func newReplayCmd() *cobra.Command {
	var (
		asJSON  bool
		summary bool
		quantum time.Duration
	)

	cmd := &cobra.Command{
		Use:   "replay TRACE",
		Short: "Run a recorded resize trace through the sampler and classifier",
		Long: `replay reads a JSONL trace written by "stream --record" and groups its
entries into bursts using the quantum. Each burst is delivered as one
coalesced sample, exactly as the live sampler would, and every resulting
breakpoint change is printed.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := loggerFromContext(ctx)
			cfg := configFromContext(ctx)
			if quantum <= 0 {
				quantum = cfg.QuantumDuration()
			}

			entries, err := loader.LoadTrace(args[0])
			if err != nil {
				return err
			}
			if len(entries) == 0 {
				return fmt.Errorf("trace %s has no entries", args[0])
			}

			if summary {
				return writeSummary(cmd.OutOrStdout(), analysis.AnalyzeTrace(entries, quantum), asJSON)
			}

			first := entries[0].Sample()
			env := environment.NewManual(first.Width, first.Height)

			// Bursts are flushed explicitly, so the timer never fires on its own.
			win := window.New(env,
				sampler.WithQuantum(time.Hour),
				sampler.WithFallback(cfg.Fallback()),
				sampler.WithLogger(logger))
			if err := win.Start(); err != nil {
				return err
			}
			defer win.Close()

			bursts := loader.Bursts(entries, quantum)
			burst, at := 0, int64(0)

			out := cmd.OutOrStdout()
			enc := json.NewEncoder(out)
			var writeErr error
			if _, err := win.OnLayout(func(d model.Descriptor, s model.SizeSample) {
				if writeErr != nil {
					return
				}
				if asJSON {
					writeErr = enc.Encode(replayEvent{Burst: burst, AtMS: at, Layout: d, Size: s})
					return
				}
				_, writeErr = fmt.Fprintf(out, "%8dms  burst %-4d %-10s %s (%s)\n",
					at, burst, s, d, layout.LevelName(d.Level))
			}); err != nil {
				return err
			}

			for i, b := range bursts {
				burst, at = i+1, b[len(b)-1].AtMS
				for _, e := range b {
					env.Resize(e.Width, e.Height)
				}
				win.Flush()
				if writeErr != nil {
					return writeErr
				}
			}

			st := win.Stats()
			logger.Info("replay complete",
				"entries", len(entries),
				"bursts", len(bursts),
				"changes", st.Tracker.Changes)
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print one JSON object per breakpoint change")
	cmd.Flags().BoolVar(&summary, "summary", false, "print burst and dwell statistics instead of the changes")
	cmd.Flags().DurationVar(&quantum, "quantum", 0, "burst window (defaults to the configured quantum)")
	return cmd
}

func writeSummary(w io.Writer, r analysis.TraceReport, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(r)
	}

	label := lipgloss.NewStyle().Bold(true).Width(14)
	line := func(name, format string, args ...any) {
		fmt.Fprintf(w, "%s %s\n", label.Render(name), fmt.Sprintf(format, args...))
	}
	line("entries", "%d over %s", r.Entries, r.Duration)
	line("bursts", "%d (quantum %s)", r.Bursts, r.Quantum)
	line("burst size", "mean %.2f  sd %.2f  p50 %.0f  p95 %.0f  max %.0f",
		r.BurstSize.Mean, r.BurstSize.StdDev, r.BurstSize.P50, r.BurstSize.P95, r.BurstSize.Max)
	line("interval", "mean %.1fms  p50 %.0fms  p95 %.0fms", r.IntervalM.Mean, r.IntervalM.P50, r.IntervalM.P95)
	line("changes", "%d", r.Changes)
	for _, d := range r.Dwell {
		line("  L"+strconv.Itoa(d.Level)+" "+d.Name, "%s", d.Time)
	}
	return nil
}
