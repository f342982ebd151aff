package ports

import (
	"context"
	"time"

	"NewsAgent/internal/domain"
)

// HeadlineSource pulls candidate headlines from a news index.
// Results never contain duplicate, empty or excluded URLs.
type HeadlineSource interface {
	Name() string
	Fetch(ctx context.Context, category string, pageSize int, excluded map[string]struct{}) ([]domain.HeadlineRecord, error)
}

// PageParser downloads one article page and turns it into text, keywords and an extractive summary.
type PageParser interface {
	Parse(ctx context.Context, url string) (domain.ArticleContent, error)
}

// ContentExtractor returns article content, served from cache when possible.
type ContentExtractor interface {
	Extract(ctx context.Context, url string) (domain.ArticleContent, error)
}

// AIClient asks a generative model for a short text following the given instructions.
type AIClient interface {
	Complete(ctx context.Context, instructions, text string) (string, error)
}

// Notifier streams digests to Telegram or other channels.
type Notifier interface {
	PublishDigest(ctx context.Context, digest string) error
}

// Scheduler controls when pipelines execute.
type Scheduler interface {
	Start(ctx context.Context, job func(time.Time)) error
	Stop(ctx context.Context) error
}
