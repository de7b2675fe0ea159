package usecase

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/brcoutinho/volleyscore/internal/domain/match"
	"github.com/brcoutinho/volleyscore/internal/domain/scoreboard"
	"github.com/brcoutinho/volleyscore/internal/infrastructure/repository/memory"
	"github.com/brcoutinho/volleyscore/internal/platform/id"
)

type fakeTimer struct {
	mu      sync.Mutex
	running bool
	starts  int
	stops   int
}

func (f *fakeTimer) Start() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.running {
		f.running = true
		f.starts++
	}
}

func (f *fakeTimer) Stop() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.running {
		f.running = false
		f.stops++
	}
}

func (f *fakeTimer) isRunning() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.running
}

type brokenStore struct{}

func (brokenStore) Load(context.Context) (scoreboard.Snapshot, bool, error) {
	return scoreboard.Snapshot{}, false, errors.New("disk on fire")
}

func (brokenStore) Save(context.Context, scoreboard.Snapshot) error {
	return errors.New("disk on fire")
}

func newTestService(t *testing.T) (*ScoreboardService, *memory.SnapshotRepository) {
	t.Helper()
	store := memory.NewSnapshotRepository()
	svc := NewScoreboardService(store, id.NewRandomGenerator(), match.DefaultConfig(), DefaultUndoDepth, nil)
	return svc, store
}

func seedRoster(t *testing.T, svc *ScoreboardService, names int) scoreboard.Snapshot {
	t.Helper()
	parts := make([]string, 0, names)
	for i := 1; i <= names; i++ {
		parts = append(parts, "Player "+string(rune('A'+i-1)))
	}
	snap, err := svc.GenerateTeams(t.Context(), GenerateTeamsInput{Names: strings.Join(parts, ",")})
	if err != nil {
		t.Fatalf("GenerateTeams: %v", err)
	}
	return snap
}

func finishMatch(t *testing.T, svc *ScoreboardService, winner match.Side) scoreboard.Snapshot {
	t.Helper()
	var snap scoreboard.Snapshot
	for set := 0; set < match.DefaultConfig().SetsToWinMatch(); set++ {
		for p := 0; p < match.DefaultConfig().PointsPerSet; p++ {
			snap = svc.AddPoint(t.Context(), winner)
		}
	}
	if !snap.Match.IsMatchOver {
		t.Fatalf("match should be over, state: %d-%d sets %d-%d",
			snap.Match.ScoreA, snap.Match.ScoreB, snap.Match.SetsA, snap.Match.SetsB)
	}
	return snap
}

func TestAddPointPersistsEveryMutation(t *testing.T) {
	svc, store := newTestService(t)

	svc.AddPoint(t.Context(), match.SideA)
	snap := svc.AddPoint(t.Context(), match.SideA)
	if snap.Match.ScoreA != 2 {
		t.Fatalf("scoreA = %d", snap.Match.ScoreA)
	}

	saved, ok, err := store.Load(t.Context())
	if err != nil || !ok {
		t.Fatalf("Load: ok=%v err=%v", ok, err)
	}
	if saved.Match.ScoreA != 2 {
		t.Fatalf("persisted scoreA = %d", saved.Match.ScoreA)
	}
}

func TestUndoRestoresPreviousStateAndStopsAtInitial(t *testing.T) {
	svc, _ := newTestService(t)

	svc.AddPoint(t.Context(), match.SideA)
	svc.AddPoint(t.Context(), match.SideB)
	svc.AddPoint(t.Context(), match.SideA)

	snap := svc.Undo(t.Context())
	if snap.Match.ScoreA != 1 || snap.Match.ScoreB != 1 {
		t.Fatalf("after undo: %d-%d, want 1-1", snap.Match.ScoreA, snap.Match.ScoreB)
	}

	svc.Undo(t.Context())
	snap = svc.Undo(t.Context())
	if snap.Match.ScoreA != 0 || snap.Match.ScoreB != 0 {
		t.Fatalf("after full unwind: %d-%d, want 0-0", snap.Match.ScoreA, snap.Match.ScoreB)
	}
	if svc.CanUndo() {
		t.Fatal("initial state should not be undoable")
	}

	again := svc.Undo(t.Context())
	if again.Match.ScoreA != 0 || again.Match.ScoreB != 0 {
		t.Fatal("undo past the initial state must leave it unchanged")
	}
}

func TestNoOpMutationsSkipTheUndoStack(t *testing.T) {
	svc, _ := newTestService(t)

	svc.SubtractPoint(t.Context(), match.SideA) // floor at zero
	if svc.CanUndo() {
		t.Fatal("a no-op must not land on the undo stack")
	}

	svc.AddPoint(t.Context(), match.SideA)
	svc.UseTimeout(t.Context(), match.SideB)
	svc.UseTimeout(t.Context(), match.SideB)
	svc.UseTimeout(t.Context(), match.SideB) // capped, no-op

	snap := svc.Undo(t.Context())
	if snap.Match.TimeoutsB != 1 {
		t.Fatalf("undo should step over the capped timeout, timeoutsB = %d", snap.Match.TimeoutsB)
	}
}

func TestTimerFollowsMatchLifecycle(t *testing.T) {
	svc, _ := newTestService(t)
	timer := &fakeTimer{}
	svc.SetTimer(timer)

	if timer.isRunning() {
		t.Fatal("timer must not run before the first point")
	}

	svc.AddPoint(t.Context(), match.SideA)
	if !timer.isRunning() {
		t.Fatal("first point should arm the timer")
	}

	finishMatch(t, svc, match.SideA)
	if timer.isRunning() {
		t.Fatal("match end should disarm the timer")
	}
}

func TestTickAdvancesClockWithoutTouchingUndo(t *testing.T) {
	svc, store := newTestService(t)

	svc.AddPoint(t.Context(), match.SideA)
	svc.Tick()
	svc.Tick()

	snap := svc.Snapshot(t.Context())
	if snap.Match.MatchDurationSeconds != 2 {
		t.Fatalf("duration = %d, want 2", snap.Match.MatchDurationSeconds)
	}

	saved, _, _ := store.Load(t.Context())
	if saved.Match.MatchDurationSeconds != 2 {
		t.Fatalf("persisted duration = %d, want 2", saved.Match.MatchDurationSeconds)
	}

	undone := svc.Undo(t.Context())
	if undone.Match.ScoreA != 0 {
		t.Fatalf("undo should revert the point, not a tick; scoreA = %d", undone.Match.ScoreA)
	}
}

func TestMatchEndStoresRotationPreviewWithoutMutatingQueue(t *testing.T) {
	svc, _ := newTestService(t)
	seeded := seedRoster(t, svc, 14) // 6 + 6 on court, 2 in queue

	snap := finishMatch(t, svc, match.SideA)

	if snap.RotationReport == nil {
		t.Fatal("match end with a waiting queue should attach a preview report")
	}
	if snap.RotationReport.WinnerTeamName != seeded.Roster.CourtA.Name {
		t.Fatalf("preview winner = %q", snap.RotationReport.WinnerTeamName)
	}
	if len(snap.Roster.Queue) != 1 {
		t.Fatalf("preview must not touch the queue, len = %d", len(snap.Roster.Queue))
	}
	if snap.Roster.CourtB.ID != seeded.Roster.CourtB.ID {
		t.Fatal("preview must not swap the courts")
	}
}

func TestPreviewRotationIsPure(t *testing.T) {
	svc, _ := newTestService(t)
	seedRoster(t, svc, 14)

	if _, ok := svc.PreviewRotation(t.Context()); ok {
		t.Fatal("no preview before the match is decided")
	}

	finishMatch(t, svc, match.SideB)

	report, ok := svc.PreviewRotation(t.Context())
	if !ok {
		t.Fatal("preview should be available after match end")
	}
	before := svc.Snapshot(t.Context())
	svc.PreviewRotation(t.Context())
	after := svc.Snapshot(t.Context())
	if len(before.Roster.Queue) != len(after.Roster.Queue) {
		t.Fatal("preview mutated the queue")
	}
	if report.LoserTeamName != before.Roster.CourtA.Name {
		t.Fatalf("preview loser = %q", report.LoserTeamName)
	}
}

func TestRotateTeamsCommitsAndStartsFreshMatch(t *testing.T) {
	svc, _ := newTestService(t)
	seeded := seedRoster(t, svc, 14)
	finishMatch(t, svc, match.SideA)

	snap := svc.RotateTeams(t.Context())

	if snap.Match.IsMatchOver || snap.Match.ScoreA != 0 || snap.Match.SetsA != 0 {
		t.Fatalf("commit should reset the match: %+v", snap.Match)
	}
	if snap.Roster.CourtB.ID == seeded.Roster.CourtB.ID {
		t.Fatal("loser should have left the court")
	}
	if len(snap.Roster.Queue) != 1 || snap.Roster.Queue[0].ID != seeded.Roster.CourtB.ID {
		t.Fatalf("loser should be at the back of the queue: %+v", snap.Roster.Queue)
	}
	if snap.RotationReport == nil || !snap.RotationReport.WasCompleted {
		t.Fatalf("committed report should record the borrowing: %+v", snap.RotationReport)
	}
	if snap.Match.TeamBName != snap.Roster.CourtB.Name {
		t.Fatal("display names should track the entering team")
	}
	if svc.CanUndo() {
		t.Fatal("commit should clear the undo stack")
	}
}

func TestRotateTeamsNoOpWithoutWinnerOrQueue(t *testing.T) {
	svc, _ := newTestService(t)

	snap := svc.RotateTeams(t.Context())
	if snap.Match.IsMatchOver {
		t.Fatal("rotate before a winner must be a no-op")
	}

	// Decided match, but nobody waiting.
	finishMatch(t, svc, match.SideA)
	snap = svc.RotateTeams(t.Context())
	if !snap.Match.IsMatchOver {
		t.Fatal("rotate with an empty queue must be a no-op")
	}
}

func TestResetMatchKeepsNamesAndOrientation(t *testing.T) {
	svc, _ := newTestService(t)
	if _, err := svc.ApplySettings(t.Context(), match.DefaultConfig(), "Reds", "Blues"); err != nil {
		t.Fatalf("ApplySettings: %v", err)
	}
	svc.ToggleSides(t.Context())
	svc.AddPoint(t.Context(), match.SideA)

	snap, err := svc.ResetMatch(t.Context(), nil)
	if err != nil {
		t.Fatalf("ResetMatch: %v", err)
	}
	if snap.Match.ScoreA != 0 || snap.Match.CurrentSet != 1 {
		t.Fatalf("reset state: %+v", snap.Match)
	}
	if snap.Match.TeamAName != "Reds" || snap.Match.TeamBName != "Blues" {
		t.Fatalf("names lost on reset: %q/%q", snap.Match.TeamAName, snap.Match.TeamBName)
	}
	if !snap.Match.SwappedSides {
		t.Fatal("side orientation lost on reset")
	}
	if svc.CanUndo() {
		t.Fatal("reset should clear the undo stack")
	}
}

func TestResetMatchRejectsInvalidConfig(t *testing.T) {
	svc, _ := newTestService(t)

	bad := match.DefaultConfig()
	bad.MaxSets = 4
	if _, err := svc.ResetMatch(t.Context(), &bad); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestApplySettingsRenamesCourtRosters(t *testing.T) {
	svc, _ := newTestService(t)

	cfg := match.DefaultConfig()
	cfg.DeuceType = match.DeuceTypeSuddenDeath3
	snap, err := svc.ApplySettings(t.Context(), cfg, "Reds", "Blues")
	if err != nil {
		t.Fatalf("ApplySettings: %v", err)
	}

	if snap.Match.Config.DeuceType != match.DeuceTypeSuddenDeath3 {
		t.Fatalf("config not applied: %+v", snap.Match.Config)
	}
	if snap.Roster.CourtA.Name != "Reds" || snap.Roster.CourtB.Name != "Blues" {
		t.Fatalf("roster names not mirrored: %q/%q", snap.Roster.CourtA.Name, snap.Roster.CourtB.Name)
	}
}

func TestGenerateTeamsRejectsTooFewNames(t *testing.T) {
	svc, _ := newTestService(t)

	if _, err := svc.GenerateTeams(t.Context(), GenerateTeamsInput{Names: "Solo"}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestUpdateTeamNameMirrorsCourtDisplayName(t *testing.T) {
	svc, _ := newTestService(t)
	snap := svc.Snapshot(t.Context())

	updated, err := svc.UpdateTeamName(t.Context(), snap.Roster.CourtB.ID, "Visitors")
	if err != nil {
		t.Fatalf("UpdateTeamName: %v", err)
	}
	if updated.Roster.CourtB.Name != "Visitors" || updated.Match.TeamBName != "Visitors" {
		t.Fatalf("rename not mirrored: roster=%q match=%q",
			updated.Roster.CourtB.Name, updated.Match.TeamBName)
	}

	if _, err := svc.UpdateTeamName(t.Context(), snap.Roster.CourtB.ID, "  "); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for blank name, got %v", err)
	}
}

func TestMovePlayerKeepsUniqueness(t *testing.T) {
	svc, _ := newTestService(t)
	snap := seedRoster(t, svc, 14)
	p := snap.Roster.CourtA.Players[0]

	moved := svc.MovePlayer(t.Context(), p.ID, snap.Roster.CourtA.ID, snap.Roster.Queue[0].ID)
	if err := moved.Roster.Validate(); err != nil {
		t.Fatalf("uniqueness broken: %v", err)
	}
	if len(moved.Roster.CourtA.Players) != 5 {
		t.Fatalf("court A has %d players", len(moved.Roster.CourtA.Players))
	}
}

func TestRestoreFromStore(t *testing.T) {
	store := memory.NewSnapshotRepository()
	saved := scoreboard.NewSnapshot(match.DefaultConfig())
	saved.Match.ScoreA, saved.Match.ScoreB = 19, 17
	saved.Match.IsTimerRunning = true
	if err := store.Save(t.Context(), saved); err != nil {
		t.Fatalf("seed store: %v", err)
	}

	svc := NewScoreboardService(store, id.NewRandomGenerator(), match.DefaultConfig(), DefaultUndoDepth, nil)
	timer := &fakeTimer{}
	svc.SetTimer(timer)
	svc.Restore(t.Context())

	snap := svc.Snapshot(t.Context())
	if snap.Match.ScoreA != 19 || snap.Match.ScoreB != 17 {
		t.Fatalf("restored %d-%d", snap.Match.ScoreA, snap.Match.ScoreB)
	}
	if !timer.isRunning() {
		t.Fatal("restoring a live match should re-arm the timer")
	}
	if svc.CanUndo() {
		t.Fatal("restored state is the new undo floor")
	}
}

func TestBrokenStoreNeverBreaksTheMatch(t *testing.T) {
	svc := NewScoreboardService(brokenStore{}, id.NewRandomGenerator(), match.DefaultConfig(), DefaultUndoDepth, nil)

	svc.Restore(t.Context())
	snap := svc.Snapshot(t.Context())
	if snap.Match.CurrentSet != 1 || snap.Match.ScoreA != 0 {
		t.Fatalf("broken store should fall back to a fresh match: %+v", snap.Match)
	}

	snap = svc.AddPoint(t.Context(), match.SideA)
	if snap.Match.ScoreA != 1 {
		t.Fatal("save failures must not block scoring")
	}
}
