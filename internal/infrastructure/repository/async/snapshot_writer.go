// Package async decorates a snapshot store with a fire-and-forget
// write path: the engine hands over state and moves on, a single
// background worker drains the latest version to the real store.
package async

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"

	"github.com/brcoutinho/volleyscore/internal/domain/scoreboard"
	"github.com/brcoutinho/volleyscore/internal/platform/logging"
)

const flushTimeout = 5 * time.Second

type SnapshotWriter struct {
	inner  scoreboard.Store
	logger *logging.Logger
	pool   *ants.Pool

	mu        sync.Mutex
	pending   *scoreboard.Snapshot
	scheduled bool
}

func NewSnapshotWriter(inner scoreboard.Store, logger *logging.Logger) (*SnapshotWriter, error) {
	if logger == nil {
		logger = logging.Default()
	}
	pool, err := ants.NewPool(1)
	if err != nil {
		return nil, fmt.Errorf("create save worker pool: %w", err)
	}
	return &SnapshotWriter{inner: inner, logger: logger, pool: pool}, nil
}

func (w *SnapshotWriter) Load(ctx context.Context) (scoreboard.Snapshot, bool, error) {
	return w.inner.Load(ctx)
}

// Save queues the snapshot and returns immediately. Intermediate
// versions queued while the worker is busy are coalesced; only the
// latest state reaches the store. Save never blocks on I/O and never
// surfaces write errors to the caller.
func (w *SnapshotWriter) Save(_ context.Context, snap scoreboard.Snapshot) error {
	copied := snap.Clone()

	w.mu.Lock()
	w.pending = &copied
	if w.scheduled {
		w.mu.Unlock()
		return nil
	}
	w.scheduled = true
	w.mu.Unlock()

	if err := w.pool.Submit(w.drain); err != nil {
		w.mu.Lock()
		w.scheduled = false
		w.mu.Unlock()
		w.logger.Warn("scoreboard save dropped, worker pool unavailable", "error", err)
	}
	return nil
}

// drain writes pending snapshots until none remain. At most one drain
// is ever submitted, so Save never waits on the pool.
func (w *SnapshotWriter) drain() {
	for {
		w.mu.Lock()
		snap := w.pending
		w.pending = nil
		if snap == nil {
			w.scheduled = false
			w.mu.Unlock()
			return
		}
		w.mu.Unlock()

		ctx, cancel := context.WithTimeout(context.Background(), flushTimeout)
		if err := w.inner.Save(ctx, *snap); err != nil {
			w.logger.Error("background scoreboard save failed", "error", err)
		}
		cancel()
	}
}

// Close waits for the in-flight drain to finish so the final state
// reaches disk before shutdown.
func (w *SnapshotWriter) Close() error {
	if err := w.pool.ReleaseTimeout(flushTimeout); err != nil {
		return fmt.Errorf("release save worker pool: %w", err)
	}
	return nil
}
