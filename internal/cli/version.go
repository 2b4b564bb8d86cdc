package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/Dicklesworthstone/winsize/pkg/updater"
	"github.com/Dicklesworthstone/winsize/pkg/version"
)

func newVersionCmd() *cobra.Command {
	var check bool

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "winsize %s (commit %s, built %s)\n", version.Version, version.Commit, version.Date)
			if !check {
				return nil
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), 5*time.Second)
			defer cancel()

			tag, url, err := updater.NewChecker().Check(ctx)
			if err != nil {
				loggerFromContext(cmd.Context()).Warn("update check failed", "err", err)
				return nil
			}
			if tag == "" {
				fmt.Fprintln(out, "You are running the latest version.")
				return nil
			}
			fmt.Fprintf(out, "A new version is available: %s\n%s\n", tag, url)
			return nil
		},
	}

	cmd.Flags().BoolVar(&check, "check", false, "check GitHub for a newer release")
	return cmd
}
