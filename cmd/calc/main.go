package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/graeme-hill/shuntcalc/internal/cli"
	"github.com/graeme-hill/shuntcalc/internal/config"
	"github.com/graeme-hill/shuntcalc/internal/logger"
	"github.com/graeme-hill/shuntcalc/lib"
)

var (
	configFile  string
	logLevel    string
	showPostfix bool
	showTokens  bool
	useHistory  bool

	runner  *cli.Runner
	history *lib.HistoryStore
)

var rootCmd = &cobra.Command{
	Use:   "calc <expression>",
	Short: "Evaluate an arithmetic expression",
	Long: `Calc evaluates infix arithmetic expressions.

Operators, loosest to tightest: + -, then * / % E (a E b is a * 10^b),
then ^. Operators of the same tier apply left to right and parentheses
group sub-expressions.

Examples:
  calc "3+4*2"
  calc --postfix "10/(2+3)"
  calc repl
  calc -- "2-3"`,
	Args:              cobra.ExactArgs(1),
	SilenceErrors:     true,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runner.Evaluate(cmd.Context(), args[0])
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", config.GetConfigPath(), "Configuration file (JSON)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Override the configured log level (debug, info, warn, error, none)")
	rootCmd.PersistentFlags().BoolVar(&useHistory, "history", false, "Record evaluations in the history store")
	rootCmd.PersistentFlags().BoolVar(&showPostfix, "postfix", false, "Also print the postfix form of the expression")
	rootCmd.PersistentFlags().BoolVar(&showTokens, "tokens", false, "Dump the postfix token sequence")
}

// setup loads configuration, initializes logging and opens the history
// store when it is enabled.
func setup(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}
	if useHistory {
		cfg.History.Enabled = true
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	if err := logger.Init(logger.ParseLevel(cfg.LogLevel), cfg.LogPath); err != nil {
		return err
	}

	if cfg.History.Enabled || cmd.Name() == historyCmd.Name() {
		history, err = lib.OpenHistory(cmd.Context(), cfg.History.Driver, cfg.History.DSN)
		if err != nil {
			return err
		}
	}

	runner = &cli.Runner{
		Out:         cmd.OutOrStdout(),
		History:     history,
		ShowPostfix: showPostfix,
		ShowTokens:  showTokens,
		Log:         logger.Global().WithPrefix("calc"),
	}
	return nil
}

func teardown() {
	if history != nil {
		if err := history.Close(); err != nil {
			logger.Warn("failed to close history: %v", err)
		}
	}
	logger.Global().Close()
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	go func() {
		// Restore default handling so a second signal terminates.
		<-ctx.Done()
		stop()
	}()
	err := rootCmd.ExecuteContext(ctx)
	teardown()
	stop()

	if err != nil {
		if !errors.Is(err, cli.ErrEvaluationFailed) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}
