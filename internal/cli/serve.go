package cli

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"github.com/matzehuels/farelock/internal/api"
)

// serveCommand creates the "serve" command.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		listen string
		record bool
	)
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Answer queries over HTTP",
		Long: `Serve the four queries over HTTP until interrupted:

  GET /v1/project/{locks|configs}?path=/abs/project
  GET /v1/packages/{locks|configs}/{name}?version=1.0.0
  GET /v1/reports?limit=20
  GET /healthz`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if listen == "" {
				listen = c.config.Server.Listen
			}
			st, err := c.openStore(ctx)
			if err != nil {
				return err
			}
			defer st.Close()

			srv := api.New(api.Config{
				Listen:       listen,
				Record:       record,
				HistoryLimit: c.config.Store.HistoryLimit,
			}, c.newEngine(), st, c.Logger)

			err = srv.Start(ctx)
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		},
	}
	cmd.Flags().StringVar(&listen, "listen", "", "listen address (default from config)")
	cmd.Flags().BoolVar(&record, "record", false, "record a report for every answered query")
	return cmd
}
