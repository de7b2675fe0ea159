package usecase

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/brcoutinho/volleyscore/internal/domain/match"
	"github.com/brcoutinho/volleyscore/internal/domain/roster"
	"github.com/brcoutinho/volleyscore/internal/domain/rotation"
	"github.com/brcoutinho/volleyscore/internal/domain/scoreboard"
	"github.com/brcoutinho/volleyscore/internal/platform/id"
	"github.com/brcoutinho/volleyscore/internal/platform/logging"
)

// TimerControl is the periodic tick collaborator the service arms and
// disarms alongside the match timer flag. Both calls are idempotent.
type TimerControl interface {
	Start()
	Stop()
}

type nopTimer struct{}

func (nopTimer) Start() {}
func (nopTimer) Stop()  {}

// ScoreboardService owns the live scoreboard snapshot. Every mutation
// is serialized behind one mutex, applied as a pure transition on a
// clone, recorded on the undo stack, and handed to the store without
// awaiting durability.
type ScoreboardService struct {
	store  scoreboard.Store
	ids    id.Generator
	logger *logging.Logger

	mu      sync.Mutex
	current scoreboard.Snapshot
	history *snapshotHistory
	timer   TimerControl
}

func NewScoreboardService(store scoreboard.Store, ids id.Generator, defaults match.Config, undoDepth int, logger *logging.Logger) *ScoreboardService {
	if logger == nil {
		logger = logging.Default()
	}
	if err := defaults.Validate(); err != nil {
		logger.Warn("invalid default match config, using built-in defaults", "error", err)
		defaults = match.DefaultConfig()
	}

	snap := scoreboard.NewSnapshot(defaults)
	return &ScoreboardService{
		store:   store,
		ids:     ids,
		logger:  logger,
		current: snap,
		history: newSnapshotHistory(undoDepth, snap),
		timer:   nopTimer{},
	}
}

// SetTimer attaches the tick collaborator. Call before serving traffic.
func (s *ScoreboardService) SetTimer(timer TimerControl) {
	if timer == nil {
		timer = nopTimer{}
	}
	s.mu.Lock()
	s.timer = timer
	want := s.current.Match.IsTimerRunning
	s.mu.Unlock()
	s.syncTimer(want)
}

// Restore loads the last saved snapshot. Any load failure degrades to
// the fresh default state; a saved match never blocks startup.
func (s *ScoreboardService) Restore(ctx context.Context) {
	snap, ok, err := s.store.Load(ctx)
	if err != nil {
		s.logger.WarnContext(ctx, "loading saved scoreboard failed, starting fresh", "error", err)
		return
	}
	if !ok {
		return
	}
	if err := snap.Match.Config.Validate(); err != nil {
		s.logger.WarnContext(ctx, "saved scoreboard carries an invalid config, starting fresh", "error", err)
		return
	}
	if err := snap.Roster.Validate(); err != nil {
		s.logger.WarnContext(ctx, "saved roster is inconsistent, starting fresh", "error", err)
		return
	}

	s.mu.Lock()
	s.current = snap.Clone()
	s.history.reset(snap)
	want := snap.Match.IsTimerRunning
	s.mu.Unlock()
	s.syncTimer(want)
}

// Snapshot returns a copy of the current state.
func (s *ScoreboardService) Snapshot(ctx context.Context) scoreboard.Snapshot {
	_, span := startUsecaseSpan(ctx, "scoreboard.snapshot")
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current.Clone()
}

func (s *ScoreboardService) CanUndo() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.history.canUndo()
}

// AddPoint scores one point. When the point decides the match and
// teams are waiting, the snapshot also picks up a read-only rotation
// preview so the caller can show who comes in next.
func (s *ScoreboardService) AddPoint(ctx context.Context, side match.Side) scoreboard.Snapshot {
	return s.mutate(ctx, "scoreboard.add_point", func(snap *scoreboard.Snapshot) bool {
		next, changed := match.AddPoint(snap.Match, side)
		if !changed {
			return false
		}
		snap.Match = next

		if next.IsMatchOver && next.MatchWinner != nil {
			if res, ok := rotation.Compute(*next.MatchWinner, snap.Roster); ok {
				report := res.Report
				snap.RotationReport = &report
			}
		}
		return true
	})
}

func (s *ScoreboardService) SubtractPoint(ctx context.Context, side match.Side) scoreboard.Snapshot {
	return s.mutate(ctx, "scoreboard.subtract_point", func(snap *scoreboard.Snapshot) bool {
		next, changed := match.SubtractPoint(snap.Match, side)
		if !changed {
			return false
		}
		snap.Match = next
		return true
	})
}

func (s *ScoreboardService) ToggleService(ctx context.Context) scoreboard.Snapshot {
	return s.mutate(ctx, "scoreboard.toggle_service", func(snap *scoreboard.Snapshot) bool {
		next, changed := match.ToggleService(snap.Match)
		if !changed {
			return false
		}
		snap.Match = next
		return true
	})
}

func (s *ScoreboardService) UseTimeout(ctx context.Context, side match.Side) scoreboard.Snapshot {
	return s.mutate(ctx, "scoreboard.use_timeout", func(snap *scoreboard.Snapshot) bool {
		next, changed := match.UseTimeout(snap.Match, side)
		if !changed {
			return false
		}
		snap.Match = next
		return true
	})
}

func (s *ScoreboardService) ToggleSides(ctx context.Context) scoreboard.Snapshot {
	return s.mutate(ctx, "scoreboard.toggle_sides", func(snap *scoreboard.Snapshot) bool {
		next, changed := match.ToggleSides(snap.Match)
		if !changed {
			return false
		}
		snap.Match = next
		return true
	})
}

// Undo restores the previous snapshot. A no-op when only the initial
// state remains.
func (s *ScoreboardService) Undo(ctx context.Context) scoreboard.Snapshot {
	ctx, span := startUsecaseSpan(ctx, "scoreboard.undo")
	defer span.End()

	s.mu.Lock()
	snap, ok := s.history.undo()
	if !ok {
		out := s.current.Clone()
		s.mu.Unlock()
		return out
	}
	s.current = snap
	want := snap.Match.IsTimerRunning
	out := snap.Clone()
	s.mu.Unlock()

	s.syncTimer(want)
	s.persist(ctx, out)
	return out
}

// ResetMatch starts the match over, keeping rosters, team names, and
// the side orientation. A non-nil cfg replaces the match rules.
func (s *ScoreboardService) ResetMatch(ctx context.Context, cfg *match.Config) (scoreboard.Snapshot, error) {
	if cfg != nil {
		if err := cfg.Validate(); err != nil {
			return s.Snapshot(ctx), fmt.Errorf("%w: %s", ErrInvalidInput, err)
		}
	}

	return s.replace(ctx, "scoreboard.reset_match", func(snap *scoreboard.Snapshot) {
		next := cfg
		if next == nil {
			c := snap.Match.Config
			next = &c
		}
		snap.Match = freshMatchState(*next, snap.Match)
		snap.RotationReport = nil
	}), nil
}

// ApplySettings replaces the match rules and team names and starts a
// fresh match, mirroring the names onto the court rosters.
func (s *ScoreboardService) ApplySettings(ctx context.Context, cfg match.Config, teamAName, teamBName string) (scoreboard.Snapshot, error) {
	if err := cfg.Validate(); err != nil {
		return s.Snapshot(ctx), fmt.Errorf("%w: %s", ErrInvalidInput, err)
	}

	return s.replace(ctx, "scoreboard.apply_settings", func(snap *scoreboard.Snapshot) {
		st := freshMatchState(cfg, snap.Match)
		if name := strings.TrimSpace(teamAName); name != "" {
			st.TeamAName = name
			snap.Roster.CourtA.Name = name
		}
		if name := strings.TrimSpace(teamBName); name != "" {
			st.TeamBName = name
			snap.Roster.CourtB.Name = name
		}
		snap.Match = st
		snap.RotationReport = nil
	}), nil
}

// GenerateTeamsInput is the raw roster-generation request. TeamNames
// overrides default names positionally (court A, court B, queue...).
type GenerateTeamsInput struct {
	Names      string
	TeamNames  []string
	FixedSides map[string]match.Side
}

// GenerateTeams rebuilds the whole roster system from a name list and
// starts a fresh match between the two new court teams.
func (s *ScoreboardService) GenerateTeams(ctx context.Context, input GenerateTeamsInput) (scoreboard.Snapshot, error) {
	sys, err := roster.Generate(s.ids, input.Names, input.TeamNames, input.FixedSides)
	if err != nil {
		return s.Snapshot(ctx), fmt.Errorf("%w: %s", ErrInvalidInput, err)
	}

	return s.replace(ctx, "scoreboard.generate_teams", func(snap *scoreboard.Snapshot) {
		st := freshMatchState(snap.Match.Config, snap.Match)
		st.TeamAName = sys.CourtA.Name
		st.TeamBName = sys.CourtB.Name
		snap.Match = st
		snap.Roster = sys
		snap.RotationReport = nil
	}), nil
}

func (s *ScoreboardService) MovePlayer(ctx context.Context, playerID, sourceTeamID, targetTeamID string) scoreboard.Snapshot {
	return s.mutate(ctx, "scoreboard.move_player", func(snap *scoreboard.Snapshot) bool {
		return snap.Roster.MovePlayer(playerID, sourceTeamID, targetTeamID)
	})
}

func (s *ScoreboardService) RemovePlayer(ctx context.Context, playerID string) scoreboard.Snapshot {
	return s.mutate(ctx, "scoreboard.remove_player", func(snap *scoreboard.Snapshot) bool {
		return snap.Roster.RemovePlayer(playerID)
	})
}

func (s *ScoreboardService) TogglePlayerFixed(ctx context.Context, playerID string) scoreboard.Snapshot {
	return s.mutate(ctx, "scoreboard.toggle_player_fixed", func(snap *scoreboard.Snapshot) bool {
		return snap.Roster.ToggleFixed(playerID)
	})
}

// UpdateTeamName renames a team and mirrors the name into the match
// display state when the team is on court.
func (s *ScoreboardService) UpdateTeamName(ctx context.Context, teamID, name string) (scoreboard.Snapshot, error) {
	if strings.TrimSpace(name) == "" {
		return s.Snapshot(ctx), fmt.Errorf("%w: team name is required", ErrInvalidInput)
	}

	return s.mutate(ctx, "scoreboard.update_team_name", func(snap *scoreboard.Snapshot) bool {
		if !snap.Roster.RenameTeam(teamID, name) {
			return false
		}
		trimmed := strings.TrimSpace(name)
		if snap.Roster.CourtA.ID == teamID {
			snap.Match.TeamAName = trimmed
		}
		if snap.Roster.CourtB.ID == teamID {
			snap.Match.TeamBName = trimmed
		}
		return true
	}), nil
}

// PreviewRotation computes the rotation that a commit would perform,
// without touching any state. ok is false when no match winner exists
// yet or the queue is empty.
func (s *ScoreboardService) PreviewRotation(ctx context.Context) (rotation.Report, bool) {
	_, span := startUsecaseSpan(ctx, "scoreboard.preview_rotation")
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	winner := s.current.Match.MatchWinner
	if !s.current.Match.IsMatchOver || winner == nil {
		return rotation.Report{}, false
	}
	res, ok := rotation.Compute(*winner, s.current.Roster)
	if !ok {
		return rotation.Report{}, false
	}
	return res.Report, true
}

// RotateTeams commits the rotation: the loser goes to the back of the
// queue, the next team enters, and a fresh match starts between the
// new court teams. A no-op unless a winner is decided and the queue is
// non-empty.
func (s *ScoreboardService) RotateTeams(ctx context.Context) scoreboard.Snapshot {
	ctx, span := startUsecaseSpan(ctx, "scoreboard.rotate_teams")
	defer span.End()

	s.mu.Lock()
	winner := s.current.Match.MatchWinner
	if !s.current.Match.IsMatchOver || winner == nil {
		out := s.current.Clone()
		s.mu.Unlock()
		return out
	}
	res, ok := rotation.Compute(*winner, s.current.Roster)
	if !ok {
		out := s.current.Clone()
		s.mu.Unlock()
		return out
	}

	report := res.Report
	st := freshMatchState(s.current.Match.Config, s.current.Match)
	st.TeamAName = res.Roster.CourtA.Name
	st.TeamBName = res.Roster.CourtB.Name

	snap := scoreboard.Snapshot{
		Match:          st,
		Roster:         res.Roster,
		RotationReport: &report,
	}
	s.current = snap
	s.history.reset(snap)
	out := snap.Clone()
	s.mu.Unlock()

	s.syncTimer(false)
	s.persist(ctx, out)

	s.logger.InfoContext(ctx, "rotation committed",
		"winner", report.WinnerTeamName,
		"entering", report.EnteringTeamName,
		"borrowed", len(report.BorrowedPlayers),
	)
	return out
}

// Tick advances the elapsed-match clock by one second. Ticks persist
// but deliberately skip the undo stack; a 1 Hz counter would flush it
// within seconds.
func (s *ScoreboardService) Tick() {
	s.mu.Lock()
	next, changed := match.Tick(s.current.Match)
	if !changed {
		s.mu.Unlock()
		return
	}
	s.current.Match = next
	out := s.current.Clone()
	s.mu.Unlock()

	s.persist(context.Background(), out)
}

// mutate applies fn to a clone of the current snapshot. When fn
// reports a change, the result becomes current, lands on the undo
// stack, and is persisted. No-ops return the unchanged state.
func (s *ScoreboardService) mutate(ctx context.Context, name string, fn func(*scoreboard.Snapshot) bool) scoreboard.Snapshot {
	ctx, span := startUsecaseSpan(ctx, name)
	defer span.End()

	s.mu.Lock()
	next := s.current.Clone()
	if !fn(&next) {
		out := s.current.Clone()
		s.mu.Unlock()
		return out
	}
	s.current = next
	s.history.push(next)
	want := next.Match.IsTimerRunning
	out := next.Clone()
	s.mu.Unlock()

	s.syncTimer(want)
	s.persist(ctx, out)
	return out
}

// replace is mutate for operations that start the match over: the undo
// stack collapses to the new state instead of growing.
func (s *ScoreboardService) replace(ctx context.Context, name string, fn func(*scoreboard.Snapshot)) scoreboard.Snapshot {
	ctx, span := startUsecaseSpan(ctx, name)
	defer span.End()

	s.mu.Lock()
	next := s.current.Clone()
	fn(&next)
	s.current = next
	s.history.reset(next)
	want := next.Match.IsTimerRunning
	out := next.Clone()
	s.mu.Unlock()

	s.syncTimer(want)
	s.persist(ctx, out)
	return out
}

func (s *ScoreboardService) syncTimer(run bool) {
	s.mu.Lock()
	timer := s.timer
	s.mu.Unlock()

	if run {
		timer.Start()
		return
	}
	timer.Stop()
}

func (s *ScoreboardService) persist(ctx context.Context, snap scoreboard.Snapshot) {
	if err := s.store.Save(ctx, snap); err != nil {
		s.logger.ErrorContext(ctx, "saving scoreboard failed", "error", err)
	}
}

// freshMatchState builds the initial state for cfg while carrying over
// the display names and side orientation of the previous match.
func freshMatchState(cfg match.Config, prev match.State) match.State {
	st := match.NewState(cfg)
	st.TeamAName = prev.TeamAName
	st.TeamBName = prev.TeamBName
	st.SwappedSides = prev.SwappedSides
	return st
}
