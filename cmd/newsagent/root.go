package main

import (
	"context"
	"log/slog"

	"github.com/spf13/cobra"

	"NewsAgent/internal/app"
	"NewsAgent/internal/config"
	"NewsAgent/internal/logging"
)

type rootOptions struct {
	cfgFile  string
	logLevel string
}

// newRootCmd builds the command tree; each call returns fresh flag state.
func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:   "newsagent",
		Short: "Fetch, summarize and tag top news headlines",
		Long: `newsagent acquires a requested number of news articles for a category,
substituting fresh headlines for any that cannot be extracted, and returns each
with a short summary and hashtags.

Example usage:
  newsagent fetch --category business --count 5
  newsagent serve                    # HTTP API on :8080
  newsagent schedule --now           # cron digests to Telegram`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&opts.cfgFile, "config", "", "YAML config file (default $NEWSAGENT_CONFIG)")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "override log level (debug, info, warn, error)")

	root.AddCommand(newFetchCmd(opts), newServeCmd(opts), newScheduleCmd(opts))
	return root
}

func (o *rootOptions) load() (config.Config, *slog.Logger) {
	var cfg config.Config
	if o.cfgFile != "" {
		cfg = config.LoadFile(o.cfgFile)
	} else {
		cfg = config.Load()
	}
	if o.logLevel != "" {
		cfg.Logging.Level = o.logLevel
	}
	return cfg, logging.New(cfg.Logging.Level, cfg.Logging.Format)
}

// application loads configuration, applies command-level overrides and wires the app.
func (o *rootOptions) application(ctx context.Context, overrides ...func(*config.Config)) (*app.Application, config.Config, error) {
	cfg, logger := o.load()
	for _, override := range overrides {
		override(&cfg)
	}
	application, err := app.New(ctx, cfg, logger)
	if err != nil {
		return nil, cfg, err
	}
	return application, cfg, nil
}
