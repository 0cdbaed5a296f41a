package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/aussiebroadwan/tasktrack/internal/tasks/domain"
	"github.com/aussiebroadwan/tasktrack/internal/tasks/store"
)

// Sweeper drops expired entries from an in-process revocation list.
type Sweeper interface {
	Sweep(now time.Time) int
}

// HousekeepingService periodically deletes expired refresh tokens and sweeps
// the revocation list.
type HousekeepingService struct {
	Store    store.Store
	Sweeper  Sweeper // optional
	Clock    domain.Clock
	Logger   *slog.Logger
	Interval time.Duration

	stopCh chan struct{}
	doneCh chan struct{}
}

// NewHousekeepingService creates a housekeeping service. A non-positive
// interval means one hour.
func NewHousekeepingService(
	st store.Store,
	sweeper Sweeper,
	logger *slog.Logger,
	interval time.Duration,
) *HousekeepingService {
	if interval <= 0 {
		interval = time.Hour
	}

	return &HousekeepingService{
		Store:    st,
		Sweeper:  sweeper,
		Logger:   logger,
		Interval: interval,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
}

// Start runs a cleanup now and then every Interval until Stop.
func (s *HousekeepingService) Start() {
	go s.run()
	s.Logger.Info("housekeeping service started", "interval", s.Interval)
}

// Stop blocks until any in-progress cleanup has finished.
func (s *HousekeepingService) Stop() {
	close(s.stopCh)
	<-s.doneCh
	s.Logger.Info("housekeeping service stopped")
}

func (s *HousekeepingService) run() {
	defer close(s.doneCh)

	ticker := time.NewTicker(s.Interval)
	defer ticker.Stop()

	s.Cleanup(context.Background())

	for {
		select {
		case <-ticker.C:
			s.Cleanup(context.Background())
		case <-s.stopCh:
			return
		}
	}
}

// Cleanup performs one pass. A failure in one step does not stop the next.
func (s *HousekeepingService) Cleanup(ctx context.Context) {
	now := nowFrom(s.Clock)

	n, err := s.Store.RefreshTokens().DeleteExpiredRefreshTokens(ctx, now)
	if err != nil {
		s.Logger.Error("failed to delete expired refresh tokens", "error", err)
	} else {
		s.Logger.Debug("deleted expired refresh tokens", "count", n)
	}

	if s.Sweeper != nil {
		swept := s.Sweeper.Sweep(now)
		s.Logger.Debug("swept revocation list", "count", swept)
	}

	s.Logger.Info("housekeeping cleanup completed")
}
