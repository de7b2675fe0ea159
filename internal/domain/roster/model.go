package roster

import "fmt"

// TeamCapacity is the number of players a full court team fields.
const TeamCapacity = 6

// Player belongs to exactly one team at a time. IsFixed marks a player
// who stays with their court through rotations and is never borrowed.
type Player struct {
	ID      string
	Name    string
	IsFixed bool
}

type Team struct {
	ID      string
	Name    string
	Players []Player
}

func (t Team) Clone() Team {
	out := t
	out.Players = append([]Player(nil), t.Players...)
	return out
}

func (t Team) PlayerNames() []string {
	names := make([]string, 0, len(t.Players))
	for _, p := range t.Players {
		names = append(names, p.Name)
	}
	return names
}

// System holds the two court teams and the FIFO waiting queue. Queue
// index 0 is next up. A player id appears in exactly one team across
// the whole system.
type System struct {
	CourtA Team
	CourtB Team
	Queue  []Team
}

func NewSystem() System {
	return System{
		CourtA: Team{ID: "team-a", Name: "Team A"},
		CourtB: Team{ID: "team-b", Name: "Team B"},
	}
}

func (s System) Clone() System {
	out := s
	out.CourtA = s.CourtA.Clone()
	out.CourtB = s.CourtB.Clone()
	out.Queue = make([]Team, 0, len(s.Queue))
	for _, team := range s.Queue {
		out.Queue = append(out.Queue, team.Clone())
	}
	return out
}

// Validate checks the player-id uniqueness invariant. A violation is a
// programmer error, not user input.
func (s System) Validate() error {
	seen := make(map[string]string)
	for _, team := range s.allTeams() {
		for _, p := range team.Players {
			if p.ID == "" {
				return fmt.Errorf("player %q has no id", p.Name)
			}
			if owner, ok := seen[p.ID]; ok {
				return fmt.Errorf("player %s belongs to both %s and %s", p.ID, owner, team.Name)
			}
			seen[p.ID] = team.Name
		}
	}

	return nil
}

func (s *System) allTeams() []*Team {
	teams := make([]*Team, 0, 2+len(s.Queue))
	teams = append(teams, &s.CourtA, &s.CourtB)
	for i := range s.Queue {
		teams = append(teams, &s.Queue[i])
	}
	return teams
}

func (s *System) teamByID(id string) *Team {
	for _, team := range s.allTeams() {
		if team.ID == id {
			return team
		}
	}
	return nil
}

// TeamOf returns the team currently holding the player.
func (s *System) TeamOf(playerID string) (*Team, bool) {
	for _, team := range s.allTeams() {
		for _, p := range team.Players {
			if p.ID == playerID {
				return team, true
			}
		}
	}
	return nil, false
}
