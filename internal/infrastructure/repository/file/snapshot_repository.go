// Package file persists the scoreboard as a single JSON document on
// local disk, the default for a court-side deployment with no
// database.
package file

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/cockroachdb/errors"
	"github.com/valyala/bytebufferpool"

	"github.com/brcoutinho/volleyscore/internal/domain/scoreboard"
	"github.com/brcoutinho/volleyscore/internal/infrastructure/repository/codec"
)

type SnapshotRepository struct {
	path string
}

func NewSnapshotRepository(path string) *SnapshotRepository {
	return &SnapshotRepository{path: path}
}

func (r *SnapshotRepository) Load(_ context.Context) (scoreboard.Snapshot, bool, error) {
	data, err := os.ReadFile(r.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return scoreboard.Snapshot{}, false, nil
		}
		return scoreboard.Snapshot{}, false, errors.Wrap(err, "read scoreboard file")
	}

	snap, err := codec.Decode(data)
	if err != nil {
		return scoreboard.Snapshot{}, false, errors.Wrap(err, "decode scoreboard file")
	}
	return snap, true, nil
}

// Save writes the snapshot atomically: encode into a pooled buffer,
// write a sibling temp file, rename over the target. A crash mid-save
// leaves the previous snapshot intact.
func (r *SnapshotRepository) Save(_ context.Context, snap scoreboard.Snapshot) error {
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	if err := codec.EncodeTo(buf, snap); err != nil {
		return errors.Wrap(err, "encode scoreboard")
	}

	if dir := filepath.Dir(r.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return errors.Wrap(err, "create scoreboard directory")
		}
	}

	tmp := r.path + ".tmp"
	if err := os.WriteFile(tmp, buf.Bytes(), 0o644); err != nil {
		return errors.Wrap(err, "write scoreboard temp file")
	}
	if err := os.Rename(tmp, r.path); err != nil {
		return errors.Wrap(err, "replace scoreboard file")
	}
	return nil
}
