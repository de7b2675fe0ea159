package scoreboard

import "context"

// Store persists the scoreboard snapshot between runs. Load reports
// ok=false when no snapshot has been saved yet.
type Store interface {
	Load(ctx context.Context) (Snapshot, bool, error)
	Save(ctx context.Context, snap Snapshot) error
}
