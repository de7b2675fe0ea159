package rotation

import (
	"github.com/brcoutinho/volleyscore/internal/domain/match"
	"github.com/brcoutinho/volleyscore/internal/domain/roster"
)

// Report is the human-auditable record of one rotation. It is produced
// as a read-only preview the moment a match ends and replaced by the
// committed version when the operator confirms the rotation.
type Report struct {
	WinnerTeamName   string
	LoserTeamName    string
	EnteringTeamName string
	EnteringPlayers  []string
	GoingToQueue     []string
	WasCompleted     bool
	BorrowedPlayers  []string
	DonorTeamName    string
}

func (r Report) Clone() Report {
	out := r
	out.EnteringPlayers = append([]string(nil), r.EnteringPlayers...)
	out.GoingToQueue = append([]string(nil), r.GoingToQueue...)
	out.BorrowedPlayers = append([]string(nil), r.BorrowedPlayers...)
	return out
}

// Result is the roster system after rotation plus the audit report.
type Result struct {
	Roster roster.System
	Report Report
}

// Compute rotates the losing court team out in favor of the front of
// the queue. The winner keeps their side. Fixed players of the loser
// stay on the court and join the entering team. When the entering team
// is short of a full six, non-fixed players are borrowed from the next
// team in line first, then from the outgoing loser's own leftovers,
// always from the back of the donor's list. Compute never mutates its
// input; ok is false when the queue is empty and no rotation applies.
func Compute(winner match.Side, sys roster.System) (Result, bool) {
	if len(sys.Queue) == 0 {
		return Result{}, false
	}
	sys = sys.Clone()

	winnerTeam, loserTeam := sys.CourtA, sys.CourtB
	if winner == match.SideB {
		winnerTeam, loserTeam = sys.CourtB, sys.CourtA
	}

	var staying, leaving []roster.Player
	for _, p := range loserTeam.Players {
		if p.IsFixed {
			staying = append(staying, p)
		} else {
			leaving = append(leaving, p)
		}
	}

	entering := sys.Queue[0].Clone()
	rest := sys.Queue[1:]
	entering.Players = append(append([]roster.Player(nil), staying...), entering.Players...)

	outgoing := roster.Team{ID: loserTeam.ID, Name: loserTeam.Name, Players: leaving}

	var borrowed []string
	donorName := ""
	donors := make([]*roster.Team, 0, 2)
	if len(rest) > 0 {
		donors = append(donors, &rest[0])
	}
	donors = append(donors, &outgoing)

	for _, donor := range donors {
		took := borrowInto(&entering, donor, roster.TeamCapacity-len(entering.Players))
		if len(took) > 0 && donorName == "" {
			donorName = donor.Name
		}
		borrowed = append(borrowed, took...)
		if len(entering.Players) >= roster.TeamCapacity {
			break
		}
	}

	newQueue := make([]roster.Team, 0, len(rest)+1)
	newQueue = append(newQueue, rest...)
	newQueue = append(newQueue, outgoing)

	out := sys
	out.Queue = newQueue
	if winner == match.SideA {
		out.CourtA, out.CourtB = winnerTeam, entering
	} else {
		out.CourtA, out.CourtB = entering, winnerTeam
	}

	report := Report{
		WinnerTeamName:   winnerTeam.Name,
		LoserTeamName:    loserTeam.Name,
		EnteringTeamName: entering.Name,
		EnteringPlayers:  entering.PlayerNames(),
		GoingToQueue:     outgoing.PlayerNames(),
		WasCompleted:     len(borrowed) > 0,
		BorrowedPlayers:  borrowed,
		DonorTeamName:    donorName,
	}

	return Result{Roster: out, Report: report}, true
}

// borrowInto moves up to need non-fixed players from the back of the
// donor's list into the entering team, returning their names.
func borrowInto(entering, donor *roster.Team, need int) []string {
	if need <= 0 {
		return nil
	}

	var names []string
	for i := len(donor.Players) - 1; i >= 0 && need > 0; i-- {
		p := donor.Players[i]
		if p.IsFixed {
			continue
		}
		donor.Players = append(donor.Players[:i], donor.Players[i+1:]...)
		entering.Players = append(entering.Players, p)
		names = append(names, p.Name)
		need--
	}
	return names
}
