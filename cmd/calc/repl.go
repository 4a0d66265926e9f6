package main

import (
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var replCmd = &cobra.Command{
	Use:   "repl",
	Short: "Evaluate expressions read line by line",
	Long: `Read one expression per line from standard input and print its result.

Errors are reported and the loop continues. Type "exit" or "quit", or send
EOF, to stop. A prompt is shown only when standard input is a terminal.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		prompt := term.IsTerminal(int(os.Stdin.Fd()))
		return runner.REPL(cmd.Context(), cmd.InOrStdin(), prompt)
	},
}

func init() {
	rootCmd.AddCommand(replCmd)
}
