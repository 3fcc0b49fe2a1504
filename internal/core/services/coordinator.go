package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/atheneum-labs/shelfsearch/internal/core/domain"
	"github.com/atheneum-labs/shelfsearch/internal/core/ports/driven"
	"github.com/atheneum-labs/shelfsearch/internal/core/ports/driving"
	"github.com/atheneum-labs/shelfsearch/internal/logger"
)

// Ensure RebuildCoordinator implements the interface.
var _ driving.RebuildService = (*RebuildCoordinator)(nil)

// DefaultRetainGenerations is how many superseded generations survive a
// prune. Keeping one predecessor gives in-flight readers of the old
// artifacts a grace period and leaves a rollback candidate on disk.
const DefaultRetainGenerations = 1

// RebuildCoordinator runs the index builder end-to-end and atomically
// promotes the result. At most one rebuild per kind is in flight at a
// time; different kinds rebuild concurrently. A failed build leaves the
// active generation untouched.
type RebuildCoordinator struct {
	builder  *IndexBuilder
	store    driven.GenerationStore
	registry *Registry
	factory  driven.VectorIndexFactory

	// buildTimeout bounds one build's wall clock. Zero means no bound.
	buildTimeout time.Duration
	retain       int

	mu       sync.Mutex
	building map[domain.Kind]bool
}

// NewRebuildCoordinator creates a rebuild coordinator.
// A negative retain falls back to DefaultRetainGenerations.
func NewRebuildCoordinator(
	builder *IndexBuilder,
	store driven.GenerationStore,
	registry *Registry,
	factory driven.VectorIndexFactory,
	buildTimeout time.Duration,
	retain int,
) *RebuildCoordinator {
	if retain < 0 {
		retain = DefaultRetainGenerations
	}
	return &RebuildCoordinator{
		builder:      builder,
		store:        store,
		registry:     registry,
		factory:      factory,
		buildTimeout: buildTimeout,
		retain:       retain,
		building:     make(map[domain.Kind]bool),
	}
}

// Rebuild implements driving.RebuildService.
func (c *RebuildCoordinator) Rebuild(ctx context.Context, kind domain.Kind) (domain.BuildReport, error) {
	if !kind.Valid() {
		return domain.BuildReport{}, fmt.Errorf("%w: unknown index kind %q", domain.ErrInvalidInput, kind)
	}

	if err := c.acquire(kind); err != nil {
		return domain.BuildReport{}, err
	}
	defer c.release(kind)

	if c.buildTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.buildTimeout)
		defer cancel()
	}

	start := time.Now()
	gen, index, err := c.builder.Build(ctx, kind)
	if err != nil {
		logger.Warn("Rebuild %s failed: %v", kind, err)
		return domain.BuildReport{}, err
	}

	// Promotion: mark the generation active on disk, then swap the
	// in-process pointer. Queries issued after the swap see the new
	// generation; in-flight queries finish against their snapshot.
	if err := c.store.SetActive(ctx, kind, gen.Info.ID); err != nil {
		return domain.BuildReport{}, fmt.Errorf("promote generation %s: %w", gen.Info.ID, err)
	}
	c.registry.Swap(kind, &Snapshot{Generation: gen, Index: index})

	if err := c.store.Prune(ctx, kind, c.retain); err != nil {
		// Old artifacts linger until the next successful prune.
		logger.Warn("Prune %s generations: %v", kind, err)
	}

	report := domain.BuildReport{
		GenerationID: gen.Info.ID,
		RecordCount:  gen.Info.RecordCount,
		Duration:     time.Since(start),
	}
	logger.Info("Rebuild %s: generation %s promoted (%d records in %s)",
		kind, report.GenerationID, report.RecordCount, report.Duration.Round(time.Millisecond))
	return report, nil
}

// Status implements driving.RebuildService.
func (c *RebuildCoordinator) Status(_ context.Context, kind domain.Kind) (domain.IndexStatus, error) {
	if !kind.Valid() {
		return domain.IndexStatus{}, fmt.Errorf("%w: unknown index kind %q", domain.ErrInvalidInput, kind)
	}

	c.mu.Lock()
	building := c.building[kind]
	c.mu.Unlock()

	status := domain.IndexStatus{Kind: kind, Building: building}
	if snap := c.registry.Get(kind); snap != nil {
		status.Ready = true
		status.ActiveGenerationID = snap.Generation.Info.ID
		status.RecordCount = snap.Generation.Info.RecordCount
		status.BuiltAt = snap.Generation.Info.BuiltAt
	}
	return status, nil
}

// Restore loads the active generation of each kind from durable storage
// into the registry. Called once at startup so queries can serve
// immediately without a rebuild.
func (c *RebuildCoordinator) Restore(ctx context.Context) error {
	for _, kind := range domain.Kinds() {
		id, err := c.store.ActiveID(ctx, kind)
		if errors.Is(err, domain.ErrNotFound) {
			logger.Debug("No active %s generation to restore", kind)
			continue
		}
		if err != nil {
			return fmt.Errorf("read active %s generation: %w", kind, err)
		}

		gen, err := c.store.Load(ctx, kind, id)
		if err != nil {
			return fmt.Errorf("load %s generation %s: %w", kind, id, err)
		}
		index, err := c.factory.Build(gen.Info.Dimensions, gen.Vectors)
		if err != nil {
			return fmt.Errorf("rebuild %s index from generation %s: %w", kind, id, err)
		}
		c.registry.Swap(kind, &Snapshot{Generation: gen, Index: index})
		logger.Info("Restored %s generation %s (%d records)", kind, id, gen.Info.RecordCount)
	}
	return nil
}

// acquire marks kind as building, rejecting a concurrent rebuild.
func (c *RebuildCoordinator) acquire(kind domain.Kind) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.building[kind] {
		return fmt.Errorf("%w: kind %q", domain.ErrRebuildInProgress, kind)
	}
	c.building[kind] = true
	return nil
}

func (c *RebuildCoordinator) release(kind domain.Kind) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.building, kind)
}
