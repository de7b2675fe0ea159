package roster

import (
	"errors"
	"fmt"
	"strings"

	"github.com/brcoutinho/volleyscore/internal/domain/match"
)

var ErrNotEnoughPlayers = errors.New("at least two player names are required")

// IDSource mints ids for generated players and queue teams.
type IDSource interface {
	NewID() (string, error)
}

// SplitNames breaks a raw newline/comma separated name list into
// trimmed, non-empty names.
func SplitNames(raw string) []string {
	fields := strings.FieldsFunc(raw, func(r rune) bool {
		return r == '\n' || r == '\r' || r == ','
	})

	names := make([]string, 0, len(fields))
	for _, field := range fields {
		name := strings.TrimSpace(field)
		if name != "" {
			names = append(names, name)
		}
	}
	return names
}

// Generate builds a fresh roster system from a raw name list. Players
// with a fixed-side assignment are seeded to that court first and
// locked there; the rest fill court A, then court B, up to capacity.
// Whatever remains is chunked into waiting-queue teams of up to six.
// teamNames overrides the default names positionally: index 0 is court
// A, 1 is court B, 2 onwards the queue teams.
func Generate(ids IDSource, raw string, teamNames []string, fixedSides map[string]match.Side) (System, error) {
	names := SplitNames(raw)
	if len(names) < 2 {
		return System{}, ErrNotEnoughPlayers
	}

	var fixedA, fixedB, floating []Player
	for _, name := range names {
		playerID, err := ids.NewID()
		if err != nil {
			return System{}, fmt.Errorf("generate player id: %w", err)
		}
		p := Player{ID: playerID, Name: name}

		side, ok := fixedSides[name]
		if !ok {
			floating = append(floating, p)
			continue
		}
		p.IsFixed = true
		if side == match.SideA {
			fixedA = append(fixedA, p)
		} else {
			fixedB = append(fixedB, p)
		}
	}

	// Fixed players beyond a court's capacity fall back to the pool,
	// keeping their lock so they stay put after the next rotation.
	if len(fixedA) > TeamCapacity {
		floating = append(floating, fixedA[TeamCapacity:]...)
		fixedA = fixedA[:TeamCapacity]
	}
	if len(fixedB) > TeamCapacity {
		floating = append(floating, fixedB[TeamCapacity:]...)
		fixedB = fixedB[:TeamCapacity]
	}

	sys := NewSystem()
	sys.CourtA.Players, floating = fillTeam(fixedA, floating)
	sys.CourtB.Players, floating = fillTeam(fixedB, floating)
	sys.CourtA.Name = teamNameAt(teamNames, 0, sys.CourtA.Name)
	sys.CourtB.Name = teamNameAt(teamNames, 1, sys.CourtB.Name)

	for i := 0; len(floating) > 0; i++ {
		chunk := floating
		if len(chunk) > TeamCapacity {
			chunk = chunk[:TeamCapacity]
		}
		floating = floating[len(chunk):]

		teamID, err := ids.NewID()
		if err != nil {
			return System{}, fmt.Errorf("generate team id: %w", err)
		}
		name := teamNameAt(teamNames, 2+i, fmt.Sprintf("Team %c", 'C'+i))
		sys.Queue = append(sys.Queue, Team{
			ID:      teamID,
			Name:    name,
			Players: append([]Player(nil), chunk...),
		})
	}

	return sys, nil
}

func fillTeam(seed, pool []Player) (players, rest []Player) {
	players = append([]Player(nil), seed...)
	for len(players) < TeamCapacity && len(pool) > 0 {
		players = append(players, pool[0])
		pool = pool[1:]
	}
	return players, pool
}

func teamNameAt(overrides []string, index int, fallback string) string {
	if index < len(overrides) {
		if name := strings.TrimSpace(overrides[index]); name != "" {
			return name
		}
	}
	return fallback
}

// MovePlayer transfers a player between two teams. Capacity is not
// enforced here; callers check it before invoking.
func (s *System) MovePlayer(playerID, sourceTeamID, targetTeamID string) bool {
	if sourceTeamID == targetTeamID {
		return false
	}
	source := s.teamByID(sourceTeamID)
	target := s.teamByID(targetTeamID)
	if source == nil || target == nil {
		return false
	}

	for i, p := range source.Players {
		if p.ID != playerID {
			continue
		}
		source.Players = append(source.Players[:i], source.Players[i+1:]...)
		target.Players = append(target.Players, p)
		return true
	}
	return false
}

// RemovePlayer deletes a player from whichever team holds them.
func (s *System) RemovePlayer(playerID string) bool {
	for _, team := range s.allTeams() {
		for i, p := range team.Players {
			if p.ID == playerID {
				team.Players = append(team.Players[:i], team.Players[i+1:]...)
				return true
			}
		}
	}
	return false
}

// ToggleFixed flips a player's lock state.
func (s *System) ToggleFixed(playerID string) bool {
	for _, team := range s.allTeams() {
		for i := range team.Players {
			if team.Players[i].ID == playerID {
				team.Players[i].IsFixed = !team.Players[i].IsFixed
				return true
			}
		}
	}
	return false
}

// RenameTeam renames a team. The caller mirrors court-team names into
// the match display names.
func (s *System) RenameTeam(teamID, name string) bool {
	name = strings.TrimSpace(name)
	if name == "" {
		return false
	}
	team := s.teamByID(teamID)
	if team == nil {
		return false
	}
	team.Name = name
	return true
}
