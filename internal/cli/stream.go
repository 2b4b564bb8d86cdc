package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/Dicklesworthstone/winsize/pkg/config"
	"github.com/Dicklesworthstone/winsize/pkg/history"
	"github.com/Dicklesworthstone/winsize/pkg/layout"
	"github.com/Dicklesworthstone/winsize/pkg/loader"
	"github.com/Dicklesworthstone/winsize/pkg/model"
	"github.com/Dicklesworthstone/winsize/pkg/sampler"
	"github.com/Dicklesworthstone/winsize/pkg/window"
)

type streamEvent struct {
	Layout model.Descriptor `json:"layout"`
	Size   model.SizeSample `json:"size"`
	Time   time.Time        `json:"time"`
}

func newStreamCmd() *cobra.Command {
	var (
		asJSON        bool
		recordPath    string
		historyPath   string
		statsInterval time.Duration
	)

	cmd := &cobra.Command{
		Use:   "stream",
		Short: "Log every breakpoint change from the configured size source",
		Long: `stream follows the size source from the configuration (terminal, file or
static) and reports each breakpoint level change until interrupted. Size
changes inside one level are not reported.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := loggerFromContext(ctx)
			cfg := configFromContext(ctx)

			env, err := newEnvironment(cfg, logger)
			if err != nil {
				return err
			}

			var rec *loader.Recorder
			if recordPath != "" {
				f, err := os.Create(recordPath)
				if err != nil {
					return fmt.Errorf("failed to create trace: %w", err)
				}
				defer f.Close()
				rec = loader.NewRecorder(f)
				env = recordingEnv{Environment: env, rec: rec, logger: logger}
			}

			var (
				hdb  *history.DB
				sess *history.Session
			)
			if historyPath != "" {
				hdb, err = history.OpenDB(historyPath)
				if err != nil {
					return err
				}
				defer hdb.Close()
				if sess, err = hdb.StartSession(cfg.Source); err != nil {
					return fmt.Errorf("failed to start history session: %w", err)
				}
			}

			win := window.New(env,
				sampler.WithQuantum(cfg.QuantumDuration()),
				sampler.WithFallback(cfg.Fallback()),
				sampler.WithLogger(logger))
			if err := win.Start(); err != nil {
				return err
			}
			defer win.Close()

			out := cmd.OutOrStdout()
			enc := json.NewEncoder(out)
			if _, err := win.OnLayout(func(d model.Descriptor, s model.SizeSample) {
				now := time.Now()
				if hdb != nil {
					if err := hdb.RecordChange(sess.ID, now, d, s); err != nil {
						logger.Warn("failed to record change", "err", err)
					}
				}
				if asJSON {
					if err := enc.Encode(streamEvent{Layout: d, Size: s, Time: now}); err != nil {
						logger.Warn("failed to write event", "err", err)
					}
					return
				}
				logger.Info("layout",
					"level", d.Level,
					"name", layout.LevelName(d.Level),
					"class", d.SizeClass,
					"columns", d.GridColumns,
					"gutter", d.Gutter,
					"size", s)
			}); err != nil {
				return err
			}

			g, gctx := errgroup.WithContext(ctx)

			if path := configPathFromContext(ctx); path != "" {
				stop, err := config.Watch(path, func(next config.Config) {
					win.Sampler().SetFallback(next.Fallback())
					logger.Info("configuration reloaded", "fallback", next.Fallback())
					if next.QuantumDuration() != win.Sampler().Quantum() {
						logger.Warn("quantum changes take effect on restart", "quantum", next.QuantumDuration())
					}
				}, func(err error) {
					logger.Warn("ignoring invalid configuration", "err", err)
				})
				if err != nil {
					logger.Warn("config reload disabled", "err", err)
				} else {
					defer stop()
				}
			}

			if statsInterval > 0 {
				g.Go(func() error {
					return logStats(gctx, win, statsInterval, rec)
				})
			}

			g.Go(func() error {
				<-gctx.Done()
				return nil
			})

			err = g.Wait()
			st := win.Stats()
			if hdb != nil {
				sess.Resizes, sess.Batches, sess.Changes = int64(st.Sampler.Resizes), int64(st.Sampler.Batches), int64(st.Tracker.Changes)
				if cerr := hdb.CompleteSession(sess); cerr != nil {
					logger.Warn("failed to complete history session", "err", cerr)
				}
			}
			logger.Debug("stream stopped",
				"resizes", st.Sampler.Resizes,
				"batches", st.Sampler.Batches,
				"changes", st.Tracker.Changes)
			return err
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "write JSON lines to stdout instead of log lines")
	cmd.Flags().StringVar(&recordPath, "record", "", "record raw resize notifications to a JSONL trace")
	cmd.Flags().StringVar(&historyPath, "history", "", "append breakpoint changes to a SQLite history database")
	cmd.Flags().DurationVar(&statsInterval, "stats", 0, "log sampler statistics at this interval (0 disables)")
	return cmd
}

func logStats(ctx context.Context, win *window.Window, every time.Duration, rec *loader.Recorder) error {
	logger := loggerFromContext(ctx)
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			st := win.Stats()
			kv := []any{
				"resizes", st.Sampler.Resizes,
				"coalesced", st.Sampler.Coalesced,
				"batches", st.Sampler.Batches,
				"changes", st.Tracker.Changes,
				"degraded_reads", st.Sampler.DegradedReads,
			}
			if rec != nil {
				kv = append(kv, "recorded", rec.Count())
			}
			logger.Info("stats", kv...)
		}
	}
}
