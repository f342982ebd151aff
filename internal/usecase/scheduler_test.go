package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"NewsAgent/internal/domain"
)

type fakeAcquirer struct {
	calls []string
	fail  map[string]error
}

func (f *fakeAcquirer) Acquire(_ context.Context, category string, target, _ int) ([]domain.NewsArticle, error) {
	f.calls = append(f.calls, category)
	if err := f.fail[category]; err != nil {
		return nil, err
	}
	out := make([]domain.NewsArticle, target)
	for i := range out {
		out[i] = domain.NewsArticle{Title: category + " story", Summary: "s", Source: "Wire", URL: "https://example.com/" + category}
	}
	return out, nil
}

type fakeNotifier struct {
	digests []string
	err     error
}

func (f *fakeNotifier) PublishDigest(_ context.Context, digest string) error {
	f.digests = append(f.digests, digest)
	return f.err
}

type fakeDriver struct {
	job     func(time.Time)
	stopped bool
}

func (f *fakeDriver) Start(_ context.Context, job func(time.Time)) error {
	f.job = job
	return nil
}

func (f *fakeDriver) Stop(context.Context) error {
	f.stopped = true
	return nil
}

func TestSchedulerRunOncePublishesPerCategory(t *testing.T) {
	t.Parallel()

	acq := &fakeAcquirer{}
	notifier := &fakeNotifier{}
	s := NewScheduler(SchedulerDeps{
		Pipeline:    acq,
		Notifier:    notifier,
		Categories:  []string{"business", "technology"},
		TargetCount: 2,
	})

	require.NoError(t, s.RunOnce(context.Background(), time.Now()))
	assert.Equal(t, []string{"business", "technology"}, acq.calls)
	require.Len(t, notifier.digests, 2)
	assert.Contains(t, notifier.digests[0], "Top 2 business stories")
	assert.Contains(t, notifier.digests[1], "Top 2 technology stories")
}

func TestSchedulerContinuesAfterCategoryFailure(t *testing.T) {
	t.Parallel()

	exhausted := &domain.ExhaustionError{Category: "business", Target: 2, Achieved: 1, Attempted: 4}
	acq := &fakeAcquirer{fail: map[string]error{"business": exhausted}}
	notifier := &fakeNotifier{}
	s := NewScheduler(SchedulerDeps{
		Pipeline:    acq,
		Notifier:    notifier,
		Categories:  []string{"business", "science"},
		TargetCount: 2,
	})

	err := s.RunOnce(context.Background(), time.Now())
	require.Error(t, err)
	var got *domain.ExhaustionError
	require.True(t, errors.As(err, &got))
	assert.Equal(t, 1, got.Achieved)
	require.Len(t, notifier.digests, 1)
	assert.Contains(t, notifier.digests[0], "science")
}

func TestSchedulerReportsPublishFailure(t *testing.T) {
	t.Parallel()

	notifier := &fakeNotifier{err: errors.New("telegram down")}
	s := NewScheduler(SchedulerDeps{
		Pipeline:    &fakeAcquirer{},
		Notifier:    notifier,
		Categories:  []string{"health"},
		TargetCount: 1,
	})

	err := s.RunOnce(context.Background(), time.Now())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "telegram down")
}

func TestSchedulerWithoutNotifierLogsOnly(t *testing.T) {
	t.Parallel()

	acq := &fakeAcquirer{}
	s := NewScheduler(SchedulerDeps{Pipeline: acq, Categories: []string{"business"}, TargetCount: 1})
	require.NoError(t, s.RunOnce(context.Background(), time.Now()))
	assert.Equal(t, []string{"business"}, acq.calls)
}

func TestSchedulerStartAndStop(t *testing.T) {
	t.Parallel()

	driver := &fakeDriver{}
	acq := &fakeAcquirer{}
	s := NewScheduler(SchedulerDeps{Driver: driver, Pipeline: acq, Categories: []string{"science"}, TargetCount: 1})

	require.NoError(t, s.Start(context.Background()))
	require.NotNil(t, driver.job)
	driver.job(time.Now())
	assert.Equal(t, []string{"science"}, acq.calls)

	require.NoError(t, s.Stop(context.Background()))
	assert.True(t, driver.stopped)
}

func TestSchedulerHonoursCancelledContext(t *testing.T) {
	t.Parallel()

	acq := &fakeAcquirer{}
	s := NewScheduler(SchedulerDeps{Pipeline: acq, Categories: []string{"a", "b"}, TargetCount: 1})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.ErrorIs(t, s.RunOnce(ctx, time.Now()), context.Canceled)
	assert.Empty(t, acq.calls)
}
