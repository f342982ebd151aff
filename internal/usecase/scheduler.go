package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"NewsAgent/internal/domain"
	"NewsAgent/internal/ports"
)

// Acquirer is the slice of the pipeline the scheduler needs.
type Acquirer interface {
	Acquire(ctx context.Context, category string, targetCount, maxExtraAttempts int) ([]domain.NewsArticle, error)
}

// SchedulerDeps wires the cron-like driver with the pipeline use case.
type SchedulerDeps struct {
	Driver           ports.Scheduler
	Pipeline         Acquirer
	Notifier         ports.Notifier
	Categories       []string
	TargetCount      int
	MaxExtraAttempts int
	Logger           *slog.Logger
}

// Scheduler produces one digest per configured category on every trigger.
type Scheduler struct {
	deps SchedulerDeps
}

// NewScheduler returns a helper to start/stop recurring jobs.
func NewScheduler(deps SchedulerDeps) *Scheduler {
	if deps.Logger == nil {
		deps.Logger = slog.New(slog.DiscardHandler)
	}
	return &Scheduler{deps: deps}
}

// Start registers the digest job with the provided scheduler.
func (s *Scheduler) Start(ctx context.Context) error {
	if s.deps.Driver == nil || s.deps.Pipeline == nil {
		return nil
	}

	job := func(trigger time.Time) {
		if err := s.RunOnce(ctx, trigger); err != nil {
			s.deps.Logger.Error("digest run finished with errors", "trigger", trigger, "error", err)
		}
	}

	return s.deps.Driver.Start(ctx, job)
}

// RunOnce acquires and publishes digests for every category. A failing category does not
// stop the others; all failures are joined into the returned error.
func (s *Scheduler) RunOnce(ctx context.Context, trigger time.Time) error {
	if s.deps.Pipeline == nil {
		return &domain.ConfigurationError{Field: "scheduler", Reason: "pipeline is not configured"}
	}

	var errs []error
	for _, category := range s.deps.Categories {
		if err := ctx.Err(); err != nil {
			return err
		}
		log := s.deps.Logger.With("category", category, "trigger", trigger.Format(time.RFC3339))

		articles, err := s.deps.Pipeline.Acquire(ctx, category, s.deps.TargetCount, s.deps.MaxExtraAttempts)
		if err != nil {
			log.Warn("digest acquisition failed", "error", err)
			errs = append(errs, fmt.Errorf("category %s: %w", category, err))
			continue
		}

		digest := BuildDigestMessage(category, articles)
		if s.deps.Notifier == nil {
			log.Info("digest ready", "articles", len(articles), "digest", digest)
			continue
		}
		if err := s.deps.Notifier.PublishDigest(ctx, digest); err != nil {
			log.Error("digest publish failed", "error", err)
			errs = append(errs, fmt.Errorf("publish %s: %w", category, err))
			continue
		}
		log.Info("digest published", "articles", len(articles))
	}

	return errors.Join(errs...)
}

// Stop gracefully tears down the underlying scheduler.
func (s *Scheduler) Stop(ctx context.Context) error {
	if s.deps.Driver == nil {
		return nil
	}

	return s.deps.Driver.Stop(ctx)
}
