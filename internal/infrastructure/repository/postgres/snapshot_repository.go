package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/brcoutinho/volleyscore/internal/domain/scoreboard"
	"github.com/brcoutinho/volleyscore/internal/infrastructure/repository/codec"
)

type SnapshotRepository struct {
	db *sqlx.DB
}

func NewSnapshotRepository(db *sqlx.DB) *SnapshotRepository {
	return &SnapshotRepository{db: db}
}

func (r *SnapshotRepository) Load(ctx context.Context) (scoreboard.Snapshot, bool, error) {
	var row snapshotTableModel
	err := r.db.GetContext(ctx, &row,
		`SELECT id, state, updated_at FROM match_snapshots WHERE id = $1`, snapshotRowID)
	if err != nil {
		if isNotFound(err) {
			return scoreboard.Snapshot{}, false, nil
		}
		return scoreboard.Snapshot{}, false, fmt.Errorf("get scoreboard snapshot: %w", err)
	}

	snap, err := codec.Decode(row.State)
	if err != nil {
		return scoreboard.Snapshot{}, false, fmt.Errorf("decode scoreboard snapshot: %w", err)
	}
	return snap, true, nil
}

func (r *SnapshotRepository) Save(ctx context.Context, snap scoreboard.Snapshot) error {
	state, err := codec.Encode(snap)
	if err != nil {
		return fmt.Errorf("encode scoreboard snapshot: %w", err)
	}

	_, err = r.db.ExecContext(ctx, `INSERT INTO match_snapshots (id, state, updated_at)
VALUES ($1, $2, now())
ON CONFLICT (id)
DO UPDATE SET state = EXCLUDED.state, updated_at = now()`, snapshotRowID, string(state))
	if err != nil {
		return fmt.Errorf("upsert scoreboard snapshot: %w", err)
	}
	return nil
}
