package async

import (
	"testing"
	"time"

	"github.com/brcoutinho/volleyscore/internal/domain/match"
	"github.com/brcoutinho/volleyscore/internal/domain/scoreboard"
	"github.com/brcoutinho/volleyscore/internal/infrastructure/repository/memory"
)

func TestSaveEventuallyReachesInnerStore(t *testing.T) {
	inner := memory.NewSnapshotRepository()
	writer, err := NewSnapshotWriter(inner, nil)
	if err != nil {
		t.Fatalf("NewSnapshotWriter: %v", err)
	}
	defer writer.Close()

	snap := scoreboard.NewSnapshot(match.DefaultConfig())
	snap.Match.ScoreA = 7
	if err := writer.Save(t.Context(), snap); err != nil {
		t.Fatalf("Save: %v", err)
	}

	deadline := time.After(2 * time.Second)
	for {
		got, ok, err := inner.Load(t.Context())
		if err != nil {
			t.Fatalf("Load: %v", err)
		}
		if ok && got.Match.ScoreA == 7 {
			return
		}
		select {
		case <-deadline:
			t.Fatal("snapshot never reached the inner store")
		case <-time.After(5 * time.Millisecond):
		}
	}
}

func TestCloseFlushesLatestState(t *testing.T) {
	inner := memory.NewSnapshotRepository()
	writer, err := NewSnapshotWriter(inner, nil)
	if err != nil {
		t.Fatalf("NewSnapshotWriter: %v", err)
	}

	// Queue a burst; intermediate versions may coalesce but the last
	// one must survive Close.
	for i := 1; i <= 20; i++ {
		snap := scoreboard.NewSnapshot(match.DefaultConfig())
		snap.Match.ScoreA = i
		if err := writer.Save(t.Context(), snap); err != nil {
			t.Fatalf("Save %d: %v", i, err)
		}
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	got, ok, err := inner.Load(t.Context())
	if err != nil || !ok {
		t.Fatalf("Load: ok=%v err=%v", ok, err)
	}
	if got.Match.ScoreA != 20 {
		t.Fatalf("latest state lost, scoreA = %d", got.Match.ScoreA)
	}
}

func TestLoadDelegates(t *testing.T) {
	inner := memory.NewSnapshotRepository()
	snap := scoreboard.NewSnapshot(match.DefaultConfig())
	snap.Match.ScoreB = 4
	if err := inner.Save(t.Context(), snap); err != nil {
		t.Fatalf("seed inner store: %v", err)
	}

	writer, err := NewSnapshotWriter(inner, nil)
	if err != nil {
		t.Fatalf("NewSnapshotWriter: %v", err)
	}
	defer writer.Close()

	got, ok, err := writer.Load(t.Context())
	if err != nil || !ok {
		t.Fatalf("Load: ok=%v err=%v", ok, err)
	}
	if got.Match.ScoreB != 4 {
		t.Fatalf("scoreB = %d", got.Match.ScoreB)
	}
}
