package main

import (
	"log/slog"

	"github.com/spf13/cobra"

	"oilrisk/internal/app"
	"oilrisk/internal/config"
)

func newBuildCmd(opts *options) *cobra.Command {
	var (
		out     string
		sql     bool
		csv     bool
		xlsx    bool
		kafka   bool
		brokers []string
		topic   string
	)

	cmd := &cobra.Command{
		Use:   "build",
		Short: "Run the risk pipeline and export the data set",
		Example: `  oilrisk build --input data.csv --out dist
  oilrisk build --input data.xlsx --out dist --csv --xlsx
  oilrisk build --input data.csv --postgres --dsn postgres://localhost/oilrisk --kafka --brokers localhost:9092`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			flags := cmd.Flags()
			cfg, err := loadConfig(cmd, opts, func(cfg *config.Config) {
				if flags.Changed("out") {
					cfg.Paths.OutputDir = out
				}
				if flags.Changed("sql") {
					cfg.Sinks.SQL = sql
				}
				if flags.Changed("csv") {
					cfg.Sinks.CSV = csv
				}
				if flags.Changed("xlsx") {
					cfg.Sinks.XLSX = xlsx
				}
				if flags.Changed("kafka") {
					cfg.Kafka.Enabled = kafka
				}
				if flags.Changed("brokers") {
					cfg.Kafka.Brokers = brokers
				}
				if flags.Changed("topic") {
					cfg.Kafka.Topic = topic
				}
			})
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			return withApp(ctx, cfg, cmd.ErrOrStderr(), func(a *app.Application) error {
				dataset, err := a.BuildDataset(ctx)
				if err != nil {
					return err
				}
				if err := a.Export(ctx, dataset); err != nil {
					return err
				}
				a.Logger.InfoContext(ctx, "build completed",
					slog.String("run_id", dataset.RunID),
					slog.Int("months", len(dataset.RiskIndex)),
					slog.Int("factors", len(dataset.RiskFactors)),
					slog.Int("alerts", len(dataset.Alerts)))
				cmd.Printf("run %s: %d months, %d alerts\n", dataset.RunID, len(dataset.RiskIndex), len(dataset.Alerts))
				return nil
			})
		},
	}

	f := cmd.Flags()
	f.StringVar(&out, "out", "", "output directory of the file sinks")
	f.BoolVar(&sql, "sql", false, "write the SQL seed script")
	f.BoolVar(&csv, "csv", false, "write the three CSV tables")
	f.BoolVar(&xlsx, "xlsx", false, "write the XLSX workbook")
	f.BoolVar(&kafka, "kafka", false, "publish alerts to Kafka")
	f.StringSliceVar(&brokers, "brokers", nil, "Kafka broker addresses")
	f.StringVar(&topic, "topic", "", "Kafka topic (default "+config.DefaultKafkaTopic+")")
	return cmd
}
