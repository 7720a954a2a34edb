package services

import (
	"context"
	"sync"
	"time"

	"wisdomwealth-lab/pkg/logger"
)

// CleanupStore runs the two-phase retention sweep: incidents past the
// cutoff first, then pending alerts whose incident no longer exists.
type CleanupStore interface {
	Cleanup(ctx context.Context, days int) (incidents int64, alerts int64, err error)
}

// SweepLocker serializes sweeps across instances.
type SweepLocker interface {
	AcquireLock(ctx context.Context, name string, ttl time.Duration) (bool, error)
	ReleaseLock(ctx context.Context, name string)
}

// RetentionSweeper deletes aged ledger rows on an interval. A
// distributed lock ensures only one instance sweeps at a time.
type RetentionSweeper struct {
	store    CleanupStore
	lock     SweepLocker
	interval time.Duration
	days     int
	logger   *logger.Logger

	mu      sync.Mutex
	running bool
	stopCh  chan struct{}
}

const retentionLockKey = "retention:sweep"

// NewRetentionSweeper creates a retention sweeper.
func NewRetentionSweeper(store CleanupStore, lock SweepLocker, interval time.Duration, days int, log *logger.Logger) *RetentionSweeper {
	if interval <= 0 {
		interval = 24 * time.Hour
	}
	if days <= 0 {
		days = 90
	}
	return &RetentionSweeper{
		store:    store,
		lock:     lock,
		interval: interval,
		days:     days,
		logger:   log.WithComponent("retention"),
		stopCh:   make(chan struct{}),
	}
}

// Start runs the sweep loop until the context is done or Stop is called.
func (s *RetentionSweeper) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return nil
	}
	s.running = true
	s.stopCh = make(chan struct{})
	s.mu.Unlock()

	s.logger.Info().Dur("interval", s.interval).Int("days", s.days).Msg("retention sweeper started")

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.Stop()
			return ctx.Err()
		case <-s.stopCh:
			return nil
		case <-ticker.C:
			s.sweep(ctx)
		}
	}
}

// Stop stops the sweep loop.
func (s *RetentionSweeper) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return
	}
	s.running = false
	close(s.stopCh)
	s.logger.Info().Msg("retention sweeper stopped")
}

func (s *RetentionSweeper) sweep(ctx context.Context) {
	acquired, err := s.lock.AcquireLock(ctx, retentionLockKey, 10*time.Minute)
	if err != nil || !acquired {
		s.logger.Debug().Msg("could not acquire retention lock, skipping sweep")
		return
	}
	defer s.lock.ReleaseLock(ctx, retentionLockKey)

	start := time.Now()
	incidents, alerts, err := s.store.Cleanup(ctx, s.days)
	if err != nil {
		s.logger.Error().Err(err).Msg("retention sweep failed")
		return
	}

	s.logger.Info().
		Int64("incidents_deleted", incidents).
		Int64("alerts_deleted", alerts).
		Dur("duration", time.Since(start)).
		Msg("retention sweep completed")
}
