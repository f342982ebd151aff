package main

import (
	"github.com/spf13/cobra"

	"NewsAgent/internal/config"
)

func newServeCmd(root *rootOptions) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Long: `Serve GET /api/v1/news, /health and /metrics.

Examples:
  newsagent serve
  newsagent serve --addr :9090`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			application, _, err := root.application(cmd.Context(), func(cfg *config.Config) {
				if addr != "" {
					cfg.Server.Addr = addr
				}
			})
			if err != nil {
				return err
			}
			return application.Serve(cmd.Context())
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, :8080)")
	return cmd
}
