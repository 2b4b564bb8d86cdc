package cli

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/Dicklesworthstone/winsize/pkg/history"
	"github.com/Dicklesworthstone/winsize/pkg/layout"
)

func newHistoryCmd() *cobra.Command {
	var (
		dbPath string
		limit  int
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "history [SESSION]",
		Short: "List recorded stream sessions, or one session's breakpoint changes",
		Example: `  winsize stream --history ~/.winsize/history.db
  winsize history --db ~/.winsize/history.db
  winsize history --db ~/.winsize/history.db 3`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := history.OpenDB(dbPath)
			if err != nil {
				return err
			}
			defer db.Close()

			out := cmd.OutOrStdout()
			if len(args) == 1 {
				id, err := strconv.ParseInt(args[0], 10, 64)
				if err != nil {
					return fmt.Errorf("invalid session %q: %w", args[0], err)
				}
				changes, err := db.Changes(id)
				if err != nil {
					return err
				}
				if asJSON {
					return json.NewEncoder(out).Encode(changes)
				}
				fmt.Fprintln(out, renderChanges(changes))
				return nil
			}

			sessions, err := db.Sessions(limit)
			if err != nil {
				return err
			}
			if asJSON {
				return json.NewEncoder(out).Encode(sessions)
			}
			fmt.Fprintln(out, renderSessions(sessions))
			return nil
		},
	}

	cmd.Flags().StringVar(&dbPath, "db", "", "history database written by stream --history")
	cmd.Flags().IntVar(&limit, "limit", 20, "maximum sessions to list (0 for all)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON")
	_ = cmd.MarkFlagRequired("db")
	return cmd
}

// newTable returns a bordered table with a bold header row.
func newTable(headers ...string) *table.Table {
	header := lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cell := lipgloss.NewStyle().Padding(0, 1)
	return table.New().
		Border(lipgloss.NormalBorder()).
		Headers(headers...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return header
			}
			return cell
		})
}

func renderSessions(sessions []history.Session) string {
	t := newTable("ID", "SOURCE", "STARTED", "DURATION", "RESIZES", "BATCHES", "CHANGES")
	for _, s := range sessions {
		dur := "running"
		if s.CompletedAt != nil {
			dur = s.CompletedAt.Sub(s.StartedAt).Round(time.Millisecond).String()
		}
		t.Row(
			strconv.FormatInt(s.ID, 10),
			s.Source,
			s.StartedAt.Format("2006-01-02 15:04:05"),
			dur,
			strconv.FormatInt(s.Resizes, 10),
			strconv.FormatInt(s.Batches, 10),
			strconv.FormatInt(s.Changes, 10),
		)
	}
	return t.Render()
}

func renderChanges(changes []history.Change) string {
	t := newTable("AT", "SIZE", "LEVEL", "CLASS", "COLUMNS", "GUTTER")
	for _, c := range changes {
		t.Row(
			c.At.Format("15:04:05.000"),
			c.Sample.String(),
			fmt.Sprintf("%d %s", c.Descriptor.Level, layout.LevelName(c.Descriptor.Level)),
			c.Descriptor.SizeClass.String(),
			strconv.Itoa(c.Descriptor.GridColumns),
			fmt.Sprintf("%dpx", c.Descriptor.Gutter),
		)
	}
	return t.Render()
}
