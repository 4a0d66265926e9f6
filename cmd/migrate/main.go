package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/graeme-hill/shuntcalc/internal/config"
	"github.com/graeme-hill/shuntcalc/internal/logger"
	"github.com/graeme-hill/shuntcalc/lib"
)

var (
	configFile string
	driver     string
	dsn        string
	dir        string
	down       int
)

var rootCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply or revert history store migrations",
	Long: `Migrate brings the evaluation history schema up to date.

Driver and DSN default to the history section of the calc configuration.
The migrations compiled into the binary are used unless --dir is given.

Examples:
  migrate
  migrate --driver postgres --dsn "dbname=calc sslmode=disable"
  migrate --down 1`,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          run,
}

func init() {
	rootCmd.Flags().StringVar(&configFile, "config", config.GetConfigPath(), "Configuration file (JSON)")
	rootCmd.Flags().StringVar(&driver, "driver", "", "Database driver (sqlite3 or postgres)")
	rootCmd.Flags().StringVar(&dsn, "dsn", "", "Data source name")
	rootCmd.Flags().StringVar(&dir, "dir", "", "Read migrations from this directory instead of the built-in set")
	rootCmd.Flags().IntVar(&down, "down", 0, "Revert this many applied migrations instead of migrating up")
}

func run(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	cfg, err := config.Load(configFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if driver != "" {
		cfg.History.Driver = driver
	}
	if dsn != "" {
		cfg.History.DSN = dsn
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger.SetGlobal(logger.NewWriter(logger.ParseLevel(cfg.LogLevel), cmd.ErrOrStderr(), ""))

	migrations, err := loadMigrations(cfg.History.Driver)
	if err != nil {
		return err
	}

	db, err := lib.OpenDB(ctx, cfg.History.Driver, cfg.History.DSN)
	if err != nil {
		return err
	}
	defer db.Close()

	if down > 0 {
		return lib.RevertMigrations(ctx, db, migrations, down)
	}
	return lib.RunMigrations(ctx, db, migrations)
}

func loadMigrations(historyDriver string) ([]*lib.Migration, error) {
	if dir != "" {
		return lib.ReadMigrationsDir(dir)
	}
	return lib.EmbeddedMigrations(historyDriver)
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
