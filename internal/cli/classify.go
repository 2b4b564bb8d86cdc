package cli

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/Dicklesworthstone/winsize/pkg/layout"
	"github.com/Dicklesworthstone/winsize/pkg/model"
)

type classified struct {
	Width int `json:"width"`
	model.Descriptor
}

func newClassifyCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "classify WIDTH...",
		Short: "Print the layout descriptor for each width",
		Example: `  winsize classify 479 480 944
  winsize classify --json 1024`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			results := make([]classified, 0, len(args))
			for _, arg := range args {
				w, err := strconv.Atoi(arg)
				if err != nil {
					return fmt.Errorf("invalid width %q: %w", arg, err)
				}
				results = append(results, classified{Width: w, Descriptor: layout.Classify(w)})
			}

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				for _, r := range results {
					if err := enc.Encode(r); err != nil {
						return err
					}
				}
				return nil
			}

			fmt.Fprintln(out, renderTable(results))
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print one JSON object per width")
	return cmd
}

func renderTable(results []classified) string {
	t := newTable("WIDTH", "LEVEL", "NAME", "CLASS", "COLUMNS", "GUTTER")
	for _, r := range results {
		t.Row(
			strconv.Itoa(r.Width),
			strconv.Itoa(r.Level),
			layout.LevelName(r.Level),
			r.SizeClass.String(),
			strconv.Itoa(r.GridColumns),
			fmt.Sprintf("%dpx", r.Gutter),
		)
	}
	return t.Render()
}
