package scoreboard

import (
	"github.com/brcoutinho/volleyscore/internal/domain/match"
	"github.com/brcoutinho/volleyscore/internal/domain/roster"
	"github.com/brcoutinho/volleyscore/internal/domain/rotation"
)

// Snapshot is the full persisted and undoable scoreboard aggregate:
// the match scoring state, the roster system, and the latest rotation
// report (preview or committed), if any.
type Snapshot struct {
	Match          match.State
	Roster         roster.System
	RotationReport *rotation.Report
}

func NewSnapshot(cfg match.Config) Snapshot {
	return Snapshot{
		Match:  match.NewState(cfg),
		Roster: roster.NewSystem(),
	}
}

func (s Snapshot) Clone() Snapshot {
	out := s
	out.Match = s.Match.Clone()
	out.Roster = s.Roster.Clone()
	if s.RotationReport != nil {
		report := s.RotationReport.Clone()
		out.RotationReport = &report
	}
	return out
}
