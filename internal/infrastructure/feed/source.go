package feed

import (
	"context"
	"fmt"
	"html"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/microcosm-cc/bluemonday"
	"github.com/mmcdole/gofeed"

	"NewsAgent/internal/config"
	"NewsAgent/internal/domain"
	"NewsAgent/internal/ports"
)

// Name identifies the source in the headlines registry.
const Name = "rss"

// Source serves headlines from one RSS or Atom feed per category.
type Source struct {
	feeds     map[string]string
	client    *http.Client
	userAgent string
	policy    *bluemonday.Policy
	logger    *slog.Logger
}

var _ ports.HeadlineSource = (*Source)(nil)

// NewSource maps configured feeds by lower-cased category.
func NewSource(feeds []config.FeedConfig, client *http.Client, userAgent string, log *slog.Logger) *Source {
	if client == nil {
		client = &http.Client{Timeout: 20 * time.Second}
	}
	byCategory := make(map[string]string, len(feeds))
	for _, f := range feeds {
		byCategory[strings.ToLower(strings.TrimSpace(f.Category))] = f.URL
	}
	return &Source{
		feeds:     byCategory,
		client:    client,
		userAgent: userAgent,
		policy:    bluemonday.StrictPolicy(),
		logger:    log,
	}
}

// Name implements ports.HeadlineSource.
func (s *Source) Name() string {
	return Name
}

// Fetch parses the category feed and returns unseen items in feed order.
func (s *Source) Fetch(ctx context.Context, category string, pageSize int, excluded map[string]struct{}) ([]domain.HeadlineRecord, error) {
	if pageSize <= 0 {
		return []domain.HeadlineRecord{}, nil
	}

	feedURL, ok := s.feeds[strings.ToLower(strings.TrimSpace(category))]
	if !ok {
		return nil, &domain.SourceUnavailableError{Source: Name, Err: fmt.Errorf("no feed configured for category %q", category)}
	}

	fp := gofeed.NewParser()
	fp.Client = s.client
	if s.userAgent != "" {
		fp.UserAgent = s.userAgent
	}
	parsed, err := fp.ParseURLWithContext(feedURL, ctx)
	if err != nil {
		return nil, &domain.SourceUnavailableError{Source: Name, Err: fmt.Errorf("parse feed %s: %w", feedURL, err)}
	}

	sourceName := strings.TrimSpace(parsed.Title)
	records := make([]domain.HeadlineRecord, 0, pageSize)
	seen := map[string]struct{}{}
	for _, item := range parsed.Items {
		if item == nil {
			continue
		}
		link := strings.TrimSpace(item.Link)
		if link == "" {
			continue
		}
		if _, skip := excluded[link]; skip {
			continue
		}
		if _, dup := seen[link]; dup {
			continue
		}
		seen[link] = struct{}{}

		records = append(records, domain.HeadlineRecord{
			Title:       s.clean(item.Title),
			URL:         link,
			SourceName:  sourceName,
			PublishedAt: publishedAt(item),
			Description: s.clean(item.Description),
		})
		if len(records) == pageSize {
			break
		}
	}

	if s.logger != nil {
		s.logger.Debug("feed parsed", "category", category, "feed", feedURL, "items", len(parsed.Items), "kept", len(records))
	}
	return records, nil
}

func (s *Source) clean(value string) string {
	return strings.TrimSpace(html.UnescapeString(s.policy.Sanitize(value)))
}

func publishedAt(item *gofeed.Item) time.Time {
	switch {
	case item.PublishedParsed != nil:
		return item.PublishedParsed.UTC()
	case item.UpdatedParsed != nil:
		return item.UpdatedParsed.UTC()
	default:
		return time.Time{}
	}
}
