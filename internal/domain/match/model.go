package match

import "fmt"

// Side identifies one of the two court sides.
type Side string

const (
	SideA Side = "A"
	SideB Side = "B"
)

var AllSides = map[Side]struct{}{
	SideA: {},
	SideB: {},
}

func ParseSide(raw string) (Side, error) {
	side := Side(raw)
	if _, ok := AllSides[side]; !ok {
		return "", fmt.Errorf("unknown side: %q", raw)
	}
	return side, nil
}

func (s Side) Other() Side {
	if s == SideA {
		return SideB
	}
	return SideA
}

// DeuceType selects how a tied score at the win threshold is resolved.
type DeuceType string

const (
	// DeuceTypeStandard is the classic win-by-2 rule with no upper bound.
	DeuceTypeStandard DeuceType = "standard"
	// DeuceTypeSuddenDeath3 resets a deuced set to 0-0 and plays first-to-3.
	DeuceTypeSuddenDeath3 DeuceType = "sudden_death_3pt"
)

var AllDeuceTypes = map[DeuceType]struct{}{
	DeuceTypeStandard:     {},
	DeuceTypeSuddenDeath3: {},
}

const (
	MaxTimeoutsPerSet = 2
	SuddenDeathTarget = 3
	MinWinLead        = 2
)

// Config stores the rules of one match. It is immutable once a match
// starts; changing it means starting a new match.
type Config struct {
	PointsPerSet   int
	TieBreakPoints int
	HasTieBreak    bool
	MaxSets        int
	DeuceType      DeuceType
}

func DefaultConfig() Config {
	return Config{
		PointsPerSet:   25,
		TieBreakPoints: 15,
		HasTieBreak:    true,
		MaxSets:        5,
		DeuceType:      DeuceTypeStandard,
	}
}

func (c Config) Validate() error {
	if c.PointsPerSet <= 0 {
		return fmt.Errorf("points per set must be greater than zero")
	}
	if c.TieBreakPoints <= 0 {
		return fmt.Errorf("tie break points must be greater than zero")
	}
	if c.MaxSets < 1 || c.MaxSets%2 == 0 {
		return fmt.Errorf("max sets must be an odd number of at least 1")
	}
	if _, ok := AllDeuceTypes[c.DeuceType]; !ok {
		return fmt.Errorf("unknown deuce type: %q", c.DeuceType)
	}

	return nil
}

// SetsToWinMatch is the number of sets a team needs to take the match.
func (c Config) SetsToWinMatch() int {
	return c.MaxSets/2 + 1
}

// SetResult records one finished set. History entries are append-only.
type SetResult struct {
	SetNumber int
	ScoreA    int
	ScoreB    int
	Winner    Side
}

// State is the full scoring state of one match.
type State struct {
	TeamAName            string
	TeamBName            string
	ScoreA               int
	ScoreB               int
	SetsA                int
	SetsB                int
	CurrentSet           int
	History              []SetResult
	IsMatchOver          bool
	MatchWinner          *Side
	ServingTeam          *Side
	TimeoutsA            int
	TimeoutsB            int
	InSuddenDeath        bool
	SwappedSides         bool
	Config               Config
	MatchDurationSeconds int
	IsTimerRunning       bool
}

func NewState(cfg Config) State {
	return State{
		TeamAName:  "Team A",
		TeamBName:  "Team B",
		CurrentSet: 1,
		Config:     cfg,
	}
}

func (s State) Clone() State {
	out := s
	out.History = append([]SetResult(nil), s.History...)
	out.MatchWinner = cloneSide(s.MatchWinner)
	out.ServingTeam = cloneSide(s.ServingTeam)
	return out
}

func (s State) Score(side Side) int {
	if side == SideA {
		return s.ScoreA
	}
	return s.ScoreB
}

func (s State) SetsWon(side Side) int {
	if side == SideA {
		return s.SetsA
	}
	return s.SetsB
}

func (s State) TimeoutsUsed(side Side) int {
	if side == SideA {
		return s.TimeoutsA
	}
	return s.TimeoutsB
}

func (s State) TeamName(side Side) string {
	if side == SideA {
		return s.TeamAName
	}
	return s.TeamBName
}

func cloneSide(side *Side) *Side {
	if side == nil {
		return nil
	}
	copied := *side
	return &copied
}
