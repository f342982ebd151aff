package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"NewsAgent/internal/ports"
	"NewsAgent/pkg/logger"
)

// CronScheduler runs a job on a standard five-field cron expression.
type CronScheduler struct {
	spec     string
	location *time.Location
	logger   *slog.Logger

	mu       sync.Mutex
	cron     *cron.Cron
	stop     chan struct{}
	watching chan struct{}
}

var _ ports.Scheduler = (*CronScheduler)(nil)

// NewCronScheduler validates spec eagerly so a bad expression fails at startup.
func NewCronScheduler(spec string, loc *time.Location, log *slog.Logger) (*CronScheduler, error) {
	if _, err := cron.ParseStandard(spec); err != nil {
		return nil, fmt.Errorf("invalid cron expression %q: %w", spec, err)
	}
	if loc == nil {
		loc = time.UTC
	}
	return &CronScheduler{spec: spec, location: loc, logger: log}, nil
}

// Start registers job and begins the cron loop. Overlapping runs are skipped.
// The loop also stops when ctx is cancelled.
func (c *CronScheduler) Start(ctx context.Context, job func(time.Time)) error {
	if job == nil {
		return nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.cron != nil {
		return nil
	}

	cronLogger := cron.DiscardLogger
	if c.logger != nil {
		cronLogger = cron.PrintfLogger(logger.FromSlog(c.logger, "cron", slog.LevelInfo))
	}

	runner := cron.New(
		cron.WithLocation(c.location),
		cron.WithLogger(cronLogger),
		cron.WithChain(cron.Recover(cronLogger), cron.SkipIfStillRunning(cronLogger)),
	)
	loc := c.location
	if _, err := runner.AddFunc(c.spec, func() { job(time.Now().In(loc)) }); err != nil {
		return fmt.Errorf("register job: %w", err)
	}

	runner.Start()
	c.cron = runner
	c.stop = make(chan struct{})
	c.watching = make(chan struct{})

	go c.watch(ctx, c.stop, c.watching)

	return nil
}

// watch stops the loop on ctx cancellation and exits once Stop was called.
func (c *CronScheduler) watch(ctx context.Context, stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)
	select {
	case <-ctx.Done():
		_ = c.Stop(context.Background())
	case <-stop:
	}
}

// Next reports the next activation after now, or the zero time when not started.
func (c *CronScheduler) Next() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.cron == nil {
		return time.Time{}
	}
	entries := c.cron.Entries()
	if len(entries) == 0 {
		return time.Time{}
	}
	return entries[0].Next
}

// Stop halts the cron loop and waits for a running job until ctx is done.
func (c *CronScheduler) Stop(ctx context.Context) error {
	c.mu.Lock()
	runner := c.cron
	stop := c.stop
	c.cron = nil
	c.stop = nil
	c.mu.Unlock()

	if runner == nil {
		return nil
	}
	close(stop)

	done := runner.Stop()
	select {
	case <-done.Done():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
