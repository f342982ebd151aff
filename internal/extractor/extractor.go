package extractor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"NewsAgent/internal/cache"
	"NewsAgent/internal/domain"
	"NewsAgent/internal/metrics"
	"NewsAgent/internal/ports"
)

var errEmptyText = errors.New("page has no readable text")

// Extractor serves article content from the cache and falls back to the page parser on a miss.
// Failed extractions are never cached and never retried here.
type Extractor struct {
	parser      ports.PageParser
	cache       *cache.ContentCache
	maxKeywords int
	logger      *slog.Logger
	now         func() time.Time
}

var _ ports.ContentExtractor = (*Extractor)(nil)

// New wires a parser with a shared cache; maxKeywords <= 0 falls back to domain.MaxKeywords.
func New(parser ports.PageParser, contentCache *cache.ContentCache, maxKeywords int, log *slog.Logger) *Extractor {
	if maxKeywords <= 0 || maxKeywords > domain.MaxKeywords {
		maxKeywords = domain.MaxKeywords
	}
	return &Extractor{
		parser:      parser,
		cache:       contentCache,
		maxKeywords: maxKeywords,
		logger:      log,
		now:         time.Now,
	}
}

// Extract returns the content of rawURL.
func (e *Extractor) Extract(ctx context.Context, rawURL string) (domain.ArticleContent, error) {
	key, err := NormalizeURL(rawURL)
	if err != nil {
		return domain.ArticleContent{}, &domain.ExtractionError{URL: rawURL, Err: err}
	}

	if e.cache != nil {
		if content, ok := e.cache.Get(key); ok {
			metrics.RecordCacheLookup(true)
			e.debug("content cache hit", "url", rawURL)
			return content, nil
		}
		metrics.RecordCacheLookup(false)
	}

	if e.parser == nil {
		return domain.ArticleContent{}, &domain.ExtractionError{URL: rawURL, Err: errors.New("page parser is not configured")}
	}

	content, err := e.parser.Parse(ctx, rawURL)
	if err != nil {
		return domain.ArticleContent{}, &domain.ExtractionError{URL: rawURL, Err: err}
	}

	content.FullText = strings.TrimSpace(content.FullText)
	if content.FullText == "" {
		return domain.ArticleContent{}, &domain.ExtractionError{URL: rawURL, Err: errEmptyText}
	}
	if content.URL == "" {
		content.URL = rawURL
	}
	if len(content.Keywords) > e.maxKeywords {
		content.Keywords = content.Keywords[:e.maxKeywords]
	}
	if content.FetchedAt.IsZero() {
		content.FetchedAt = e.now().UTC()
	}

	if e.cache != nil {
		e.cache.Put(key, content)
	}
	e.debug("content extracted", "url", rawURL, "chars", len(content.FullText), "keywords", len(content.Keywords))
	return content, nil
}

// NormalizeURL produces the cache key for an article URL: scheme and host are lower-cased,
// fragments, utm_* parameters and trailing slashes are dropped.
func NormalizeURL(rawURL string) (string, error) {
	trimmed := strings.TrimSpace(rawURL)
	if trimmed == "" {
		return "", errors.New("empty url")
	}
	parsed, err := url.Parse(trimmed)
	if err != nil {
		return "", fmt.Errorf("parse url: %w", err)
	}
	if parsed.Scheme == "" || parsed.Host == "" {
		return "", fmt.Errorf("url %q is not absolute", rawURL)
	}

	parsed.Scheme = strings.ToLower(parsed.Scheme)
	parsed.Host = strings.ToLower(parsed.Host)
	parsed.Fragment = ""
	parsed.RawFragment = ""

	query := parsed.Query()
	for name := range query {
		if strings.HasPrefix(strings.ToLower(name), "utm_") {
			query.Del(name)
		}
	}
	parsed.RawQuery = query.Encode()

	if parsed.Path != "/" {
		parsed.Path = strings.TrimSuffix(parsed.Path, "/")
		parsed.RawPath = strings.TrimSuffix(parsed.RawPath, "/")
	} else {
		parsed.Path = ""
	}

	return parsed.String(), nil
}

func (e *Extractor) debug(msg string, args ...interface{}) {
	if e.logger != nil {
		e.logger.Debug(msg, args...)
	}
}
