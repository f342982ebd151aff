package main

import (
	"github.com/spf13/cobra"

	"NewsAgent/internal/config"
)

func newScheduleCmd(root *rootOptions) *cobra.Command {
	var (
		cronExpr string
		now      bool
	)

	cmd := &cobra.Command{
		Use:   "schedule",
		Short: "Publish digests on a cron schedule",
		Long: `Run the pipeline for every configured scheduler category on each cron
activation and publish a digest to Telegram (or log it when Telegram is not configured).

Examples:
  newsagent schedule
  newsagent schedule --cron "30 7 * * 1-5" --now`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			application, _, err := root.application(cmd.Context(), func(cfg *config.Config) {
				if cronExpr != "" {
					cfg.Scheduler.CronExpression = cronExpr
				}
			})
			if err != nil {
				return err
			}
			return application.Schedule(cmd.Context(), now)
		},
	}

	cmd.Flags().StringVar(&cronExpr, "cron", "", "cron expression (default from config)")
	cmd.Flags().BoolVar(&now, "now", false, "produce a digest immediately before waiting for the schedule")
	return cmd
}
