package main

import (
	"github.com/spf13/cobra"
)

var (
	historyLimit int
	historyClear bool
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List or clear recorded evaluations",
	Long: `List the most recent evaluations recorded with --history (or with
history enabled in the configuration file), newest first.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if historyClear {
			return runner.ClearHistory(cmd.Context())
		}
		return runner.PrintHistory(cmd.Context(), historyLimit)
	},
}

func init() {
	historyCmd.Flags().IntVar(&historyLimit, "limit", 20, "Maximum number of evaluations to list")
	historyCmd.Flags().BoolVar(&historyClear, "clear", false, "Delete every recorded evaluation")
	rootCmd.AddCommand(historyCmd)
}
