package memory

import (
	"context"
	"sync"

	"github.com/brcoutinho/volleyscore/internal/domain/scoreboard"
)

type SnapshotRepository struct {
	mu    sync.RWMutex
	snap  scoreboard.Snapshot
	saved bool
}

func NewSnapshotRepository() *SnapshotRepository {
	return &SnapshotRepository{}
}

func (r *SnapshotRepository) Load(_ context.Context) (scoreboard.Snapshot, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if !r.saved {
		return scoreboard.Snapshot{}, false, nil
	}
	return r.snap.Clone(), true, nil
}

func (r *SnapshotRepository) Save(_ context.Context, snap scoreboard.Snapshot) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.snap = snap.Clone()
	r.saved = true
	return nil
}
