package main

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"oilrisk/internal/app"
	"oilrisk/internal/config"
)

// options holds the flags shared by every command
type options struct {
	input    string
	sheet    string
	logLevel string
	postgres bool
	dsn      string
}

func newRootCmd(stdout io.Writer) *cobra.Command {
	opts := &options{}
	root := &cobra.Command{
		Use:   config.AppName,
		Short: "Crude oil market risk index and early warning pipeline",
		Long: `oilrisk scores a daily table of market, macro and geopolitical signals
into a monthly composite risk index, attributes it to ten factors and raises
alerts. The build command exports the result, the serve command answers the
dashboard API over it.`,
		SilenceUsage: true,
	}
	root.SetOut(stdout)

	flags := root.PersistentFlags()
	flags.StringVar(&opts.input, "input", "", "source CSV or XLSX file")
	flags.StringVar(&opts.sheet, "sheet", "", "workbook sheet of an XLSX source (default first sheet)")
	flags.StringVar(&opts.logLevel, "log-level", "", "log level: debug, info, warn, error")
	flags.BoolVar(&opts.postgres, "postgres", false, "enable the Postgres store")
	flags.StringVar(&opts.dsn, "dsn", "", "Postgres connection string")

	root.AddCommand(newBuildCmd(opts))
	root.AddCommand(newServeCmd(opts))
	root.AddCommand(newVersionCmd())
	return root
}

// loadConfig resolves file and environment config, then applies the flags that were set
func loadConfig(cmd *cobra.Command, opts *options, apply func(*config.Config)) (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("input") {
		cfg.Paths.Input = opts.input
	}
	if flags.Changed("sheet") {
		cfg.Paths.Sheet = opts.sheet
	}
	if flags.Changed("log-level") {
		cfg.Logging.Level = opts.logLevel
	}
	if flags.Changed("postgres") {
		cfg.Database.Enabled = opts.postgres
	}
	if flags.Changed("dsn") {
		cfg.Database.DSN = opts.dsn
	}
	if apply != nil {
		apply(cfg)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

// withApp runs fn with an initialized application and closes it afterwards
func withApp(ctx context.Context, cfg *config.Config, stdout io.Writer, fn func(*app.Application) error) (err error) {
	a, err := app.New(ctx, cfg, stdout)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := a.Close(context.WithoutCancel(ctx)); closeErr != nil && err == nil {
			err = closeErr
		}
	}()
	return fn(a)
}
