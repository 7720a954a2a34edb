package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wisdomwealth-lab/pkg/logger"
)

type stubLocker struct {
	allow    bool
	err      error
	acquired int
	released int
	lastName string
}

func (s *stubLocker) AcquireLock(ctx context.Context, name string, ttl time.Duration) (bool, error) {
	s.acquired++
	s.lastName = name
	return s.allow, s.err
}

func (s *stubLocker) ReleaseLock(ctx context.Context, name string) {
	s.released++
}

type stubCleanup struct {
	calls     int
	days      int
	incidents int64
	alerts    int64
	err       error
	done      chan struct{}
}

func (s *stubCleanup) Cleanup(ctx context.Context, days int) (int64, int64, error) {
	s.calls++
	s.days = days
	if s.done != nil {
		select {
		case s.done <- struct{}{}:
		default:
		}
	}
	return s.incidents, s.alerts, s.err
}

func TestSweepRunsCleanupUnderLock(t *testing.T) {
	locker := &stubLocker{allow: true}
	cleanup := &stubCleanup{incidents: 3, alerts: 1}
	s := NewRetentionSweeper(cleanup, locker, time.Hour, 90, logger.NewDefault())

	s.sweep(context.Background())

	assert.Equal(t, 1, cleanup.calls)
	assert.Equal(t, 90, cleanup.days)
	assert.Equal(t, 1, locker.acquired)
	assert.Equal(t, retentionLockKey, locker.lastName)
	assert.Equal(t, 1, locker.released)
}

func TestSweepSkippedWithoutLock(t *testing.T) {
	locker := &stubLocker{allow: false}
	cleanup := &stubCleanup{}
	s := NewRetentionSweeper(cleanup, locker, time.Hour, 90, logger.NewDefault())

	s.sweep(context.Background())

	assert.Zero(t, cleanup.calls)
	assert.Zero(t, locker.released)
}

func TestSweepSkippedOnLockError(t *testing.T) {
	locker := &stubLocker{err: errors.New("redis down")}
	cleanup := &stubCleanup{}
	s := NewRetentionSweeper(cleanup, locker, time.Hour, 90, logger.NewDefault())

	s.sweep(context.Background())

	assert.Zero(t, cleanup.calls)
	assert.Zero(t, locker.released)
}

func TestSweepReleasesLockOnCleanupError(t *testing.T) {
	locker := &stubLocker{allow: true}
	cleanup := &stubCleanup{err: errors.New("delete failed")}
	s := NewRetentionSweeper(cleanup, locker, time.Hour, 90, logger.NewDefault())

	s.sweep(context.Background())

	assert.Equal(t, 1, cleanup.calls)
	assert.Equal(t, 1, locker.released)
}

func TestSweeperDefaults(t *testing.T) {
	s := NewRetentionSweeper(&stubCleanup{}, &stubLocker{}, 0, 0, logger.NewDefault())

	assert.Equal(t, 24*time.Hour, s.interval)
	assert.Equal(t, 90, s.days)
}

func TestSweeperRunsOnInterval(t *testing.T) {
	locker := &stubLocker{allow: true}
	cleanup := &stubCleanup{done: make(chan struct{}, 1)}
	s := NewRetentionSweeper(cleanup, locker, 5*time.Millisecond, 30, logger.NewDefault())

	errCh := make(chan error, 1)
	go func() { errCh <- s.Start(context.Background()) }()

	select {
	case <-cleanup.done:
	case <-time.After(2 * time.Second):
		t.Fatal("sweep never ran")
	}

	s.Stop()

	select {
	case err := <-errCh:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("sweeper did not stop")
	}

	assert.Equal(t, 30, cleanup.days)
}
