package usecase

import (
	"testing"

	"github.com/brcoutinho/volleyscore/internal/domain/match"
	"github.com/brcoutinho/volleyscore/internal/domain/scoreboard"
)

func snapWithScore(a int) scoreboard.Snapshot {
	snap := scoreboard.NewSnapshot(match.DefaultConfig())
	snap.Match.ScoreA = a
	return snap
}

func TestHistoryUndoAtInitialStateIsNoOp(t *testing.T) {
	h := newSnapshotHistory(DefaultUndoDepth, snapWithScore(0))

	if h.canUndo() {
		t.Fatal("fresh history should not be undoable")
	}
	if _, ok := h.undo(); ok {
		t.Fatal("undo past the initial state must fail")
	}
}

func TestHistoryUndoReturnsPreviousState(t *testing.T) {
	h := newSnapshotHistory(DefaultUndoDepth, snapWithScore(0))
	h.push(snapWithScore(1))
	h.push(snapWithScore(2))

	got, ok := h.undo()
	if !ok {
		t.Fatal("undo should succeed")
	}
	if got.Match.ScoreA != 1 {
		t.Fatalf("undo restored scoreA=%d, want 1", got.Match.ScoreA)
	}
}

func TestHistoryEvictsOldestBeyondDepth(t *testing.T) {
	h := newSnapshotHistory(MinUndoDepth, snapWithScore(0))
	for i := 1; i <= MinUndoDepth+5; i++ {
		h.push(snapWithScore(i))
	}

	if len(h.stack) != MinUndoDepth {
		t.Fatalf("stack depth = %d, want %d", len(h.stack), MinUndoDepth)
	}

	// Undo all the way down; the floor is the oldest surviving state.
	var last scoreboard.Snapshot
	for {
		snap, ok := h.undo()
		if !ok {
			break
		}
		last = snap
	}
	if want := MinUndoDepth + 5 - (MinUndoDepth - 1); last.Match.ScoreA != want {
		t.Fatalf("deepest undo reached scoreA=%d, want %d", last.Match.ScoreA, want)
	}
}

func TestHistoryResetCollapsesStack(t *testing.T) {
	h := newSnapshotHistory(DefaultUndoDepth, snapWithScore(0))
	h.push(snapWithScore(1))
	h.push(snapWithScore(2))

	h.reset(snapWithScore(9))
	if h.canUndo() {
		t.Fatal("reset history should not be undoable")
	}
	if _, ok := h.undo(); ok {
		t.Fatal("undo after reset must fail")
	}
}

func TestClampUndoDepth(t *testing.T) {
	tests := []struct{ in, want int }{
		{0, DefaultUndoDepth},
		{5, MinUndoDepth},
		{25, 25},
		{500, MaxUndoDepth},
	}
	for _, tt := range tests {
		if got := ClampUndoDepth(tt.in); got != tt.want {
			t.Fatalf("ClampUndoDepth(%d) = %d, want %d", tt.in, got, tt.want)
		}
	}
}
