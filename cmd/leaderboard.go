package cmd

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/gss/competition-registration/pkg/models"
)

var leaderboardCmd = &cobra.Command{
	Use:   "leaderboard",
	Short: "Print the current referral leaderboard",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.logger.Sync() //nolint:errcheck

		ctx, cancel := context.WithTimeout(cmd.Context(), a.cfg.RequestTimeout)
		defer cancel()

		entries, err := a.leaderboard.FetchLeaderboard(ctx)
		if err != nil {
			return err
		}
		return printLeaderboard(cmd.OutOrStdout(), entries)
	},
}

func init() {
	rootCmd.AddCommand(leaderboardCmd)
}

func printLeaderboard(out io.Writer, entries []models.LeaderboardEntry) error {
	if len(entries) == 0 {
		_, err := fmt.Fprintln(out, "No leaderboard data yet.")
		return err
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "RANK\tNAME\tREFERRALS")
	for i, entry := range entries {
		fmt.Fprintf(w, "%d\t%s\t%d\n", i+1, entry.FullName, entry.ReferralsCount)
	}
	return w.Flush()
}
