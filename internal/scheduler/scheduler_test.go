package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingWarmer struct {
	calls atomic.Int32
	err   error
}

func (w *countingWarmer) Warm(context.Context) error {
	w.calls.Add(1)
	return w.err
}

func newScheduler(t *testing.T) *Scheduler {
	t.Helper()
	s, err := New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Stop() })
	return s
}

func TestCatalogRefreshRunsAfterStart(t *testing.T) {
	s := newScheduler(t)
	w := &countingWarmer{}
	require.NoError(t, s.AddCatalogRefresh("0 */6 * * *", w))

	info, ok := s.Job(CatalogRefreshJobID)
	require.True(t, ok)
	assert.Equal(t, JobStatusScheduled, info.Status)
	assert.True(t, info.InstantAfterStart)

	s.Start()
	require.Eventually(t, func() bool {
		info, _ := s.Job(CatalogRefreshJobID)
		return info.Status == JobStatusCompleted
	}, 5*time.Second, 10*time.Millisecond)

	info, _ = s.Job(CatalogRefreshJobID)
	assert.Equal(t, 1, info.RunCount)
	assert.Zero(t, info.ErrorCount)
	assert.False(t, info.NextRun.IsZero())
	assert.Equal(t, int32(1), w.calls.Load())
}

func TestFailedJob(t *testing.T) {
	s := newScheduler(t)
	w := &countingWarmer{err: errors.New("database is gone")}
	require.NoError(t, s.AddSingletonJob("warm", "Warm", "hourly", gocron.DurationJob(time.Hour), w.Warm, false))

	s.Start()
	require.NoError(t, s.RunJobNow("warm"))
	require.Eventually(t, func() bool {
		info, _ := s.Job("warm")
		return info.Status == JobStatusFailed
	}, 5*time.Second, 10*time.Millisecond)

	info, _ := s.Job("warm")
	assert.Equal(t, 1, info.ErrorCount)
	assert.Equal(t, "database is gone", info.LastError)
}

func TestDisabledJobSkips(t *testing.T) {
	s := newScheduler(t)
	w := &countingWarmer{}
	require.NoError(t, s.AddSingletonJob("warm", "Warm", "hourly", gocron.DurationJob(time.Hour), w.Warm, false))
	require.NoError(t, s.SetEnabled("warm", false))

	s.Start()
	require.NoError(t, s.RunJobNow("warm"))
	time.Sleep(100 * time.Millisecond)

	info, _ := s.Job("warm")
	assert.Zero(t, info.RunCount)
	assert.Zero(t, w.calls.Load())
}

func TestUnknownJob(t *testing.T) {
	s := newScheduler(t)
	assert.Error(t, s.RunJobNow("nope"))
	assert.Error(t, s.SetEnabled("nope", true))
	_, ok := s.Job("nope")
	assert.False(t, ok)
	assert.Empty(t, s.Jobs())
}

func TestInvalidSchedule(t *testing.T) {
	s := newScheduler(t)
	err := s.AddCatalogRefresh("not a cron", &countingWarmer{})
	assert.Error(t, err)
}
