package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"NewsAgent/internal/domain"
	"NewsAgent/internal/extractor"
	"NewsAgent/internal/hashtag"
	"NewsAgent/internal/metrics"
	"NewsAgent/internal/ports"
	"NewsAgent/internal/summarizer"
)

const (
	// DefaultBatchBuffer is how many headlines beyond the remaining need are requested per round.
	DefaultBatchBuffer = 3
	// MaxBatchSize mirrors the page-size ceiling of the headline APIs.
	MaxBatchSize = 100
)

// Summarizer is the fallback chain consumed by the pipeline.
type Summarizer interface {
	Summarize(ctx context.Context, in summarizer.Input, style domain.SummaryStyle) summarizer.Result
}

// HashtagGenerator derives hashtags for an article.
type HashtagGenerator interface {
	Generate(keywords []string, category string) []string
}

// PipelineDeps wires all driven adapters into the acquisition pipeline.
type PipelineDeps struct {
	Source      ports.HeadlineSource
	Extractor   ports.ContentExtractor
	Summarizer  Summarizer
	Hashtags    HashtagGenerator
	Logger      *slog.Logger
	Style       domain.SummaryStyle
	BatchBuffer int
}

// Pipeline acquires a requested number of fully processed articles,
// substituting fresh candidates for the ones that fail.
type Pipeline struct {
	source      ports.HeadlineSource
	extractor   ports.ContentExtractor
	summarizer  Summarizer
	hashtags    HashtagGenerator
	logger      *slog.Logger
	style       domain.SummaryStyle
	batchBuffer int
	now         func() time.Time
}

// AcquireRequest describes one acquisition run.
type AcquireRequest struct {
	Category         string
	TargetCount      int
	MaxExtraAttempts int
	Style            domain.SummaryStyle
}

// NewPipeline constructs the orchestration component.
func NewPipeline(deps PipelineDeps) *Pipeline {
	if deps.Hashtags == nil {
		deps.Hashtags = hashtag.NewGenerator(hashtag.DefaultMax)
	}
	if deps.Summarizer == nil {
		deps.Summarizer = summarizer.New(nil, summarizer.Options{}, deps.Logger)
	}
	if deps.Style == "" {
		deps.Style = domain.StyleStandard
	}
	if deps.BatchBuffer <= 0 {
		deps.BatchBuffer = DefaultBatchBuffer
	}
	return &Pipeline{
		source:      deps.Source,
		extractor:   deps.Extractor,
		summarizer:  deps.Summarizer,
		hashtags:    deps.Hashtags,
		logger:      deps.Logger,
		style:       deps.Style,
		batchBuffer: deps.BatchBuffer,
		now:         time.Now,
	}
}

// Acquire returns exactly targetCount articles for category using the pipeline's default style,
// or an *domain.ExhaustionError once targetCount+maxExtraAttempts candidates were tried.
func (p *Pipeline) Acquire(ctx context.Context, category string, targetCount, maxExtraAttempts int) ([]domain.NewsArticle, error) {
	return p.Run(ctx, AcquireRequest{
		Category:         category,
		TargetCount:      targetCount,
		MaxExtraAttempts: maxExtraAttempts,
		Style:            p.style,
	})
}

// Run executes one acquisition. Candidates are processed sequentially in the order the
// headline source returns them; results keep first-success order.
func (p *Pipeline) Run(ctx context.Context, req AcquireRequest) ([]domain.NewsArticle, error) {
	if req.TargetCount <= 0 {
		return []domain.NewsArticle{}, nil
	}
	if p.source == nil || p.extractor == nil {
		return nil, &domain.ConfigurationError{Field: "pipeline", Reason: "headline source and extractor are required"}
	}
	if strings.TrimSpace(req.Category) == "" {
		return nil, &domain.ConfigurationError{Field: "category", Reason: "category must not be blank"}
	}
	if req.MaxExtraAttempts < 0 {
		req.MaxExtraAttempts = 0
	}
	if req.Style == "" {
		req.Style = p.style
	}

	started := p.now()
	runLog := p.log().With("run_id", uuid.NewString(), "category", req.Category)
	runLog.Info("acquisition started", "target", req.TargetCount, "max_extra_attempts", req.MaxExtraAttempts, "style", req.Style)

	results, attempted, err := p.collect(ctx, req, runLog)
	if err != nil {
		metrics.RecordRun(req.Category, "error", p.now().Sub(started).Seconds())
		return nil, err
	}

	if len(results) < req.TargetCount {
		runLog.Warn("only processed part of the requested articles",
			"achieved", len(results), "target", req.TargetCount, "attempted", attempted)
		metrics.RecordRun(req.Category, "exhausted", p.now().Sub(started).Seconds())
		return nil, &domain.ExhaustionError{
			Category:  req.Category,
			Target:    req.TargetCount,
			Achieved:  len(results),
			Attempted: attempted,
		}
	}

	runLog.Info("acquisition finished", "achieved", req.TargetCount, "attempted", attempted)
	metrics.RecordRun(req.Category, "ok", p.now().Sub(started).Seconds())
	return results[:req.TargetCount], nil
}

func (p *Pipeline) collect(ctx context.Context, req AcquireRequest, runLog *slog.Logger) ([]domain.NewsArticle, int, error) {
	var (
		results   = make([]domain.NewsArticle, 0, req.TargetCount)
		seen      = map[string]struct{}{}
		canonical = map[string]struct{}{}
		budget    = req.TargetCount + req.MaxExtraAttempts
		attempted int
		rounds    int
	)

	for len(results) < req.TargetCount && attempted < budget {
		size := p.batchSize(req.TargetCount - len(results))
		rounds++

		batch, err := p.source.Fetch(ctx, req.Category, size, seen)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, attempted, ctxErr
			}
			var cfgErr *domain.ConfigurationError
			if errors.As(err, &cfgErr) {
				return nil, attempted, err
			}
			var unavailable *domain.SourceUnavailableError
			if !errors.As(err, &unavailable) {
				err = &domain.SourceUnavailableError{Source: p.source.Name(), Err: err}
			}
			if rounds == 1 && len(results) == 0 {
				return nil, attempted, err
			}
			runLog.Warn("headline source failed, treating supply as exhausted", "round", rounds, "error", err)
			break
		}
		metrics.RecordBatch(p.source.Name(), len(batch))
		runLog.Debug("headline batch received", "round", rounds, "requested", size, "received", len(batch))

		if len(batch) == 0 {
			runLog.Warn("no additional headlines available", "round", rounds)
			break
		}

		fresh := 0
		for _, candidate := range batch {
			if err := ctx.Err(); err != nil {
				return nil, attempted, err
			}
			if candidate.URL == "" {
				runLog.Warn("skipping headline without url", "title", candidate.Title)
				continue
			}
			if _, ok := seen[candidate.URL]; ok {
				continue
			}
			seen[candidate.URL] = struct{}{}
			key := canonicalKey(candidate.URL)
			if _, ok := canonical[key]; ok {
				runLog.Debug("skipping variant of a seen url", "url", candidate.URL)
				continue
			}
			canonical[key] = struct{}{}
			fresh++
			attempted++

			article, err := p.process(ctx, candidate, req)
			if err != nil {
				metrics.RecordCandidate(req.Category, "failed")
				runLog.Warn("skipping candidate", "url", candidate.URL, "title", candidate.Title, "error", err)
			} else {
				metrics.RecordCandidate(req.Category, "processed")
				results = append(results, article)
			}

			if len(results) == req.TargetCount || attempted >= budget {
				break
			}
		}

		if fresh == 0 {
			runLog.Warn("headline batch held no unseen candidates", "round", rounds)
			break
		}
	}

	return results, attempted, nil
}

// canonicalKey matches the content cache key, so tracking variants of one page count once.
func canonicalKey(rawURL string) string {
	if key, err := extractor.NormalizeURL(rawURL); err == nil {
		return key
	}
	return rawURL
}

func (p *Pipeline) batchSize(remaining int) int {
	size := remaining + p.batchBuffer
	if size > MaxBatchSize {
		size = MaxBatchSize
	}
	return size
}

// process drives one candidate through extraction, summarization and tagging.
// No article is produced unless every stage succeeded.
func (p *Pipeline) process(ctx context.Context, candidate domain.HeadlineRecord, req AcquireRequest) (domain.NewsArticle, error) {
	content, err := p.extractor.Extract(ctx, candidate.URL)
	if err != nil {
		return domain.NewsArticle{}, fmt.Errorf("extract content: %w", err)
	}

	summary := p.summarizer.Summarize(ctx, summarizer.Input{
		Content:     content,
		Title:       candidate.Title,
		Description: candidate.Description,
	}, req.Style)

	title := strings.TrimSpace(candidate.Title)
	if title == "" {
		title = "No title available"
	}
	source := candidate.SourceName
	if source == "" {
		source = "Unknown source"
	}

	return domain.NewsArticle{
		Title:       title,
		Summary:     summary.Text,
		Source:      source,
		PublishedAt: candidate.PublishedAt,
		Hashtags:    p.hashtags.Generate(content.Keywords, req.Category),
		URL:         candidate.URL,
	}, nil
}

func (p *Pipeline) log() *slog.Logger {
	if p.logger != nil {
		return p.logger
	}
	return slog.New(slog.DiscardHandler)
}

// BuildDigestMessage renders articles as a plain-text digest for notifiers.
func BuildDigestMessage(category string, articles []domain.NewsArticle) string {
	if len(articles) == 0 {
		return ""
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Top %d %s stories\n\n", len(articles), category)
	for i, article := range articles {
		fmt.Fprintf(&b, "%d. %s\n%s\nSource: %s\n%s\n%s\n\n",
			i+1,
			article.Title,
			article.Summary,
			article.Source,
			strings.Join(article.Hashtags, " "),
			article.URL)
	}
	return b.String()
}
