package scheduler

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCronSchedulerRejectsBadSpec(t *testing.T) {
	t.Parallel()

	_, err := NewCronScheduler("every morning", time.UTC, nil)
	require.Error(t, err)
}

func TestCronSchedulerRunsJob(t *testing.T) {
	t.Parallel()

	loc := time.FixedZone("UTC+2", 2*60*60)
	s, err := NewCronScheduler("@every 1s", loc, nil)
	require.NoError(t, err)
	assert.True(t, s.Next().IsZero())

	fired := make(chan time.Time, 4)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	require.NoError(t, s.Start(ctx, func(ts time.Time) { fired <- ts }))
	require.NoError(t, s.Start(ctx, func(time.Time) { t.Error("second registration must be ignored") }))
	assert.False(t, s.Next().IsZero())

	select {
	case ts := <-fired:
		assert.Equal(t, loc, ts.Location())
	case <-time.After(3 * time.Second):
		t.Fatal("job did not fire")
	}

	require.NoError(t, s.Stop(context.Background()))
	require.NoError(t, s.Stop(context.Background()))
	assert.True(t, s.Next().IsZero())
}

func TestCronSchedulerStopsOnContext(t *testing.T) {
	t.Parallel()

	s, err := NewCronScheduler("0 6 * * *", nil, nil)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, s.Start(ctx, func(time.Time) {}))
	cancel()

	require.Eventually(t, func() bool { return s.Next().IsZero() }, time.Second, 10*time.Millisecond)
}

func TestCronSchedulerNilJob(t *testing.T) {
	t.Parallel()

	s, err := NewCronScheduler("0 6 * * *", time.UTC, nil)
	require.NoError(t, err)
	require.NoError(t, s.Start(context.Background(), nil))
	assert.True(t, s.Next().IsZero())
}

func TestCronSchedulerStopReleasesWatcher(t *testing.T) {
	t.Parallel()

	s, err := NewCronScheduler("0 6 * * *", time.UTC, nil)
	require.NoError(t, err)
	require.NoError(t, s.Start(context.Background(), func(time.Time) {}))

	s.mu.Lock()
	watching := s.watching
	s.mu.Unlock()

	require.NoError(t, s.Stop(context.Background()))

	select {
	case <-watching:
	case <-time.After(time.Second):
		t.Fatal("watcher goroutine still running after Stop")
	}
}
