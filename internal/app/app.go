package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"NewsAgent/internal/api"
	"NewsAgent/internal/cache"
	"NewsAgent/internal/config"
	"NewsAgent/internal/domain"
	"NewsAgent/internal/extractor"
	"NewsAgent/internal/hashtag"
	"NewsAgent/internal/headlines"
	"NewsAgent/internal/infrastructure/feed"
	"NewsAgent/internal/infrastructure/llm"
	"NewsAgent/internal/infrastructure/newsapi"
	"NewsAgent/internal/infrastructure/page"
	"NewsAgent/internal/infrastructure/scheduler"
	"NewsAgent/internal/infrastructure/telegram"
	"NewsAgent/internal/logging"
	"NewsAgent/internal/ports"
	"NewsAgent/internal/summarizer"
	"NewsAgent/internal/usecase"
)

const shutdownTimeout = 10 * time.Second

// Application wires configs to use cases and lifecycle orchestration.
type Application struct {
	cfg      config.Config
	logger   *slog.Logger
	pipeline *usecase.Pipeline
	style    domain.SummaryStyle
}

// New validates cfg and builds the pipeline with every driven adapter.
func New(ctx context.Context, cfg config.Config, baseLogger *slog.Logger) (*Application, error) {
	if baseLogger == nil {
		baseLogger = logging.New(cfg.Logging.Level, cfg.Logging.Format)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	httpClient := &http.Client{Timeout: cfg.Extractor.Timeout}

	registry := headlines.NewRegistry(
		newsapi.NewClient(cfg.NewsAPI, httpClient, baseLogger.With("component", "headlines.newsapi")),
		feed.NewSource(cfg.Feeds, httpClient, cfg.Extractor.UserAgent, baseLogger.With("component", "headlines.rss")),
	)
	source, err := registry.Resolve(cfg.Headlines.Provider)
	if err != nil {
		return nil, &domain.ConfigurationError{Field: "headlines.provider", Reason: err.Error()}
	}

	contentCache, err := cache.New(cfg.Extractor.CacheSize)
	if err != nil {
		return nil, &domain.ConfigurationError{Field: "extractor.cacheSize", Reason: err.Error()}
	}
	parser := page.NewParser(httpClient, page.NewHostLimiter(cfg.Extractor.HostInterval), page.Options{
		UserAgent:    cfg.Extractor.UserAgent,
		MaxBodyBytes: cfg.Extractor.MaxBodyBytes,
		MaxKeywords:  cfg.Extractor.MaxKeywords,
	}, baseLogger.With("component", "page"))

	aiClient, err := newAIClient(ctx, cfg.AI)
	if err != nil {
		return nil, err
	}

	style, err := domain.ParseSummaryStyle(cfg.Pipeline.Style)
	if err != nil {
		return nil, &domain.ConfigurationError{Field: "pipeline.style", Reason: err.Error()}
	}

	pipeline := usecase.NewPipeline(usecase.PipelineDeps{
		Source:    source,
		Extractor: extractor.New(parser, contentCache, cfg.Extractor.MaxKeywords, baseLogger.With("component", "extractor")),
		Summarizer: summarizer.New(aiClient, summarizer.Options{
			Instructions:  cfg.AI.Prompt,
			MaxInputChars: cfg.AI.MaxInputChars,
		}, baseLogger.With("component", "summarizer")),
		Hashtags:    hashtag.NewGenerator(cfg.Pipeline.MaxHashtags),
		Logger:      baseLogger.With("component", "pipeline"),
		Style:       style,
		BatchBuffer: cfg.Pipeline.BatchBuffer,
	})

	baseLogger.Debug("application wired",
		"headlines", source.Name(), "ai", cfg.AI.Provider, "cache_size", cfg.Extractor.CacheSize)
	return &Application{cfg: cfg, logger: baseLogger, pipeline: pipeline, style: style}, nil
}

// newAIClient returns nil when AI is disabled; the summarizer then starts at the extractive step.
func newAIClient(ctx context.Context, cfg config.AIConfig) (ports.AIClient, error) {
	switch cfg.Provider {
	case config.ProviderGemini:
		client, err := llm.NewGeminiClient(ctx, cfg)
		if err != nil {
			return nil, err
		}
		return client, nil
	case config.ProviderOpenAI:
		client, err := llm.NewChatGPTClient(cfg, &http.Client{Timeout: 60 * time.Second})
		if err != nil {
			return nil, err
		}
		return client, nil
	case config.ProviderNone:
		return nil, nil
	default:
		return nil, &domain.ConfigurationError{Field: "ai.provider", Reason: "unknown provider " + cfg.Provider}
	}
}

// Pipeline exposes the acquisition use case for direct callers.
func (a *Application) Pipeline() *usecase.Pipeline {
	return a.pipeline
}

// Fetch runs one acquisition; zero values in req fall back to configured defaults.
func (a *Application) Fetch(ctx context.Context, req usecase.AcquireRequest) ([]domain.NewsArticle, error) {
	if req.Category == "" {
		req.Category = a.cfg.Pipeline.Category
	}
	if req.TargetCount == 0 {
		req.TargetCount = a.cfg.Pipeline.TargetCount
	}
	if req.Style == "" {
		req.Style = a.style
	}
	return a.pipeline.Run(ctx, req)
}

// Serve runs the HTTP API until ctx is cancelled.
func (a *Application) Serve(ctx context.Context) error {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())

	api.NewServer(a.pipeline, api.Defaults{
		Category:         a.cfg.Pipeline.Category,
		TargetCount:      a.cfg.Pipeline.TargetCount,
		MaxExtraAttempts: a.cfg.Pipeline.MaxExtraAttempts,
		Style:            a.style,
	}, a.logger.With("component", "api")).RegisterRoutes(router)

	srv := &http.Server{
		Addr:              a.cfg.Server.Addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("starting api server", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("api server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown api server: %w", err)
	}
	a.logger.Info("api server stopped")
	return nil
}

// Schedule runs digests on the configured cron expression until ctx is cancelled.
// With runNow the first digest is produced immediately.
func (a *Application) Schedule(ctx context.Context, runNow bool) error {
	loc := a.cfg.Scheduler.Location()
	driver, err := scheduler.NewCronScheduler(a.cfg.Scheduler.CronExpression, loc, a.logger.With("component", "cron"))
	if err != nil {
		return &domain.ConfigurationError{Field: "scheduler.cronExpression", Reason: err.Error()}
	}

	var notifier ports.Notifier
	if a.cfg.Notifications.Telegram.Enabled() {
		notifier = telegram.NewNotifier(a.cfg.Notifications.Telegram, "", nil)
	} else {
		a.logger.Info("telegram is not configured, digests will be logged")
	}

	categories := a.cfg.Scheduler.Categories
	if len(categories) == 0 {
		categories = []string{a.cfg.Pipeline.Category}
	}

	digests := usecase.NewScheduler(usecase.SchedulerDeps{
		Driver:           driver,
		Pipeline:         a.pipeline,
		Notifier:         notifier,
		Categories:       categories,
		TargetCount:      a.cfg.Pipeline.TargetCount,
		MaxExtraAttempts: a.cfg.Pipeline.MaxExtraAttempts,
		Logger:           a.logger.With("component", "digest"),
	})

	if runNow {
		if err := digests.RunOnce(ctx, time.Now().In(loc)); err != nil {
			a.logger.Warn("initial digest run finished with errors", "error", err)
		}
	}

	if err := digests.Start(ctx); err != nil {
		return fmt.Errorf("start scheduler: %w", err)
	}
	a.logger.Info("scheduler started", "cron", a.cfg.Scheduler.CronExpression, "timezone", loc.String(), "next", driver.Next())

	<-ctx.Done()

	stopCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return digests.Stop(stopCtx)
}
