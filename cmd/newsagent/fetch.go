package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"NewsAgent/internal/domain"
	"NewsAgent/internal/usecase"
)

type fetchOptions struct {
	category string
	count    int
	maxExtra int
	style    string
	asJSON   bool
}

func newFetchCmd(root *rootOptions) *cobra.Command {
	opts := &fetchOptions{}

	cmd := &cobra.Command{
		Use:   "fetch",
		Short: "Fetch and summarize articles once",
		Long: `Fetch exactly --count processed articles for a category and print them.

Examples:
  newsagent fetch                                  # configured defaults
  newsagent fetch --category technology --count 3
  newsagent fetch --style standard --json`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			application, cfg, err := root.application(cmd.Context())
			if err != nil {
				return err
			}

			req := usecase.AcquireRequest{
				Category:         cfg.Pipeline.Category,
				TargetCount:      cfg.Pipeline.TargetCount,
				MaxExtraAttempts: cfg.Pipeline.MaxExtraAttempts,
			}
			if cmd.Flags().Changed("category") {
				req.Category = strings.ToLower(strings.TrimSpace(opts.category))
			}
			if cmd.Flags().Changed("count") {
				if opts.count <= 0 {
					return fmt.Errorf("--count must be positive")
				}
				req.TargetCount = opts.count
			}
			if cmd.Flags().Changed("max-extra") {
				if opts.maxExtra < 0 {
					return fmt.Errorf("--max-extra must not be negative")
				}
				req.MaxExtraAttempts = opts.maxExtra
			}
			if cmd.Flags().Changed("style") {
				style, err := domain.ParseSummaryStyle(opts.style)
				if err != nil {
					return err
				}
				req.Style = style
			}

			articles, err := application.Fetch(cmd.Context(), req)
			var exhausted *domain.ExhaustionError
			if errors.As(err, &exhausted) {
				fmt.Fprintf(cmd.ErrOrStderr(), "only processed %d of %d requested articles\n", exhausted.Achieved, exhausted.Target)
			}
			if err != nil {
				return err
			}

			if opts.asJSON {
				return writeJSON(cmd.OutOrStdout(), articles)
			}
			writeArticles(cmd.OutOrStdout(), req.Category, articles)
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.category, "category", "", "news category (business, technology, science, health, ...)")
	cmd.Flags().IntVar(&opts.count, "count", 0, "number of articles to return")
	cmd.Flags().IntVar(&opts.maxExtra, "max-extra", 0, "extra candidates allowed beyond --count")
	cmd.Flags().StringVar(&opts.style, "style", "", "summary style: tiktok or standard")
	cmd.Flags().BoolVar(&opts.asJSON, "json", false, "output as JSON")
	return cmd
}

func writeJSON(w io.Writer, articles []domain.NewsArticle) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(articles)
}

func writeArticles(w io.Writer, category string, articles []domain.NewsArticle) {
	fmt.Fprintf(w, "Top %d %s articles\n\n", len(articles), category)
	for i, a := range articles {
		fmt.Fprintf(w, "%d. %s\n", i+1, a.Title)
		fmt.Fprintf(w, "   Source: %s", a.Source)
		if !a.PublishedAt.IsZero() {
			fmt.Fprintf(w, " | Published: %s", a.PublishedAt.Format("2006-01-02 15:04 MST"))
		}
		fmt.Fprintln(w)
		fmt.Fprintf(w, "   Summary: %s\n", a.Summary)
		fmt.Fprintf(w, "   Hashtags: %s\n", strings.Join(a.Hashtags, " "))
		fmt.Fprintf(w, "   URL: %s\n\n", a.URL)
	}
}
