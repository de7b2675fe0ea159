package usecase

import "github.com/brcoutinho/volleyscore/internal/domain/scoreboard"

const (
	MinUndoDepth     = 10
	MaxUndoDepth     = 50
	DefaultUndoDepth = 30
)

// ClampUndoDepth folds an arbitrary configured depth into the
// supported range.
func ClampUndoDepth(depth int) int {
	if depth == 0 {
		return DefaultUndoDepth
	}
	if depth < MinUndoDepth {
		return MinUndoDepth
	}
	if depth > MaxUndoDepth {
		return MaxUndoDepth
	}
	return depth
}

// snapshotHistory is a bounded stack of full snapshots. The bottom
// entry is the state the scoreboard can not undo past; the top entry
// is always the current state.
type snapshotHistory struct {
	depth int
	stack []scoreboard.Snapshot
}

func newSnapshotHistory(depth int, initial scoreboard.Snapshot) *snapshotHistory {
	h := &snapshotHistory{depth: ClampUndoDepth(depth)}
	h.reset(initial)
	return h
}

// push records a committed state, evicting the oldest entries beyond
// the configured depth.
func (h *snapshotHistory) push(snap scoreboard.Snapshot) {
	h.stack = append(h.stack, snap.Clone())
	if len(h.stack) > h.depth {
		keep := h.stack[len(h.stack)-h.depth:]
		h.stack = append(make([]scoreboard.Snapshot, 0, h.depth), keep...)
	}
}

// undo drops the current state and returns the previous one. ok is
// false when only the initial state remains.
func (h *snapshotHistory) undo() (scoreboard.Snapshot, bool) {
	if len(h.stack) <= 1 {
		return scoreboard.Snapshot{}, false
	}
	h.stack = h.stack[:len(h.stack)-1]
	return h.stack[len(h.stack)-1].Clone(), true
}

// reset collapses the stack to a single fresh snapshot.
func (h *snapshotHistory) reset(snap scoreboard.Snapshot) {
	h.stack = append(h.stack[:0:0], snap.Clone())
}

func (h *snapshotHistory) canUndo() bool {
	return len(h.stack) > 1
}
