package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/atheneum-labs/shelfsearch/internal/core/domain"
	"github.com/atheneum-labs/shelfsearch/internal/core/ports/driving"
	"github.com/atheneum-labs/shelfsearch/internal/logger"
)

// Scheduler periodically rebuilds indexes in the background, replacing
// the cron-driven rebuild scripts an operator would otherwise maintain.
// A tick that lands while the same kind is still rebuilding is skipped,
// not queued.
type Scheduler struct {
	interval  time.Duration
	kinds     []domain.Kind
	rebuilder driving.RebuildService

	mu      sync.Mutex
	running bool
	stopCh  chan struct{}
	wg      sync.WaitGroup
}

// NewScheduler creates a scheduler that rebuilds the given kinds every
// interval.
func NewScheduler(interval time.Duration, rebuilder driving.RebuildService, kinds ...domain.Kind) *Scheduler {
	if len(kinds) == 0 {
		kinds = domain.Kinds()
	}
	return &Scheduler{
		interval:  interval,
		kinds:     kinds,
		rebuilder: rebuilder,
	}
}

// Start begins the scheduler loop. Blocks until Stop is called or the
// context is cancelled.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return nil // Already running
	}
	s.running = true
	s.stopCh = make(chan struct{})
	stopCh := s.stopCh
	s.mu.Unlock()

	logger.Info("Scheduler started: rebuilding %v every %s", s.kinds, s.interval)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.wg.Wait()
			return ctx.Err()
		case <-stopCh:
			s.wg.Wait()
			return nil
		case <-ticker.C:
			s.rebuildAll(ctx)
		}
	}
}

// Stop gracefully shuts down the scheduler and waits for any running
// rebuilds to finish.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.running = false
	close(s.stopCh)
	s.mu.Unlock()

	s.wg.Wait()
}

// rebuildAll kicks off one rebuild per kind. Kinds rebuild concurrently;
// the coordinator's in-flight guard deduplicates overlapping ticks.
func (s *Scheduler) rebuildAll(ctx context.Context) {
	for _, kind := range s.kinds {
		kind := kind
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			report, err := s.rebuilder.Rebuild(ctx, kind)
			switch {
			case errors.Is(err, domain.ErrRebuildInProgress):
				logger.Debug("Scheduled rebuild of %s skipped: already running", kind)
			case err != nil:
				logger.Warn("Scheduled rebuild of %s failed: %v", kind, err)
			default:
				logger.Info("Scheduled rebuild of %s: generation %s (%d records)",
					kind, report.GenerationID, report.RecordCount)
			}
		}()
	}
}
