package main

import (
	"github.com/spf13/cobra"

	"oilrisk/internal/app"
	"oilrisk/internal/config"
)

func newServeCmd(opts *options) *cobra.Command {
	var port int

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the dashboard API",
		Long: `serve runs the risk pipeline over --input once and answers the query API
over the result until interrupted. Without --input the data set last loaded
into Postgres is served.`,
		Example: `  oilrisk serve --input data.csv
  oilrisk serve --postgres --dsn postgres://localhost/oilrisk --port 9090`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd, opts, func(cfg *config.Config) {
				if cmd.Flags().Changed("port") {
					cfg.Server.Port = port
				}
			})
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			return withApp(ctx, cfg, cmd.ErrOrStderr(), func(a *app.Application) error {
				dataset, err := a.LoadDataset(ctx)
				if err != nil {
					return err
				}
				return a.Serve(ctx, dataset)
			})
		},
	}
	cmd.Flags().IntVar(&port, "port", config.DefaultPort, "HTTP listen port")
	return cmd
}
