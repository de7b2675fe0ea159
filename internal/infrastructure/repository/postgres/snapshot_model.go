package postgres

import "time"

// The scoreboard is one aggregate, so it lives in one row: the
// serialized snapshot as JSONB under a well-known key.
type snapshotTableModel struct {
	ID        string    `db:"id"`
	State     []byte    `db:"state"`
	UpdatedAt time.Time `db:"updated_at"`
}

const snapshotRowID = "current"
