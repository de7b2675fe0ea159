// Package codec owns the serialized form of the scoreboard snapshot,
// shared by the file and postgres stores. Decoding tolerates unknown
// and missing fields so older blobs keep loading.
package codec

import (
	"io"

	"github.com/bytedance/sonic"

	"github.com/brcoutinho/volleyscore/internal/domain/match"
	"github.com/brcoutinho/volleyscore/internal/domain/roster"
	"github.com/brcoutinho/volleyscore/internal/domain/rotation"
	"github.com/brcoutinho/volleyscore/internal/domain/scoreboard"
)

type snapshotBlob struct {
	Match          matchBlob   `json:"match"`
	Roster         rosterBlob  `json:"roster"`
	RotationReport *reportBlob `json:"rotationReport,omitempty"`
}

type matchBlob struct {
	TeamAName            string          `json:"teamAName"`
	TeamBName            string          `json:"teamBName"`
	ScoreA               int             `json:"scoreA"`
	ScoreB               int             `json:"scoreB"`
	SetsA                int             `json:"setsA"`
	SetsB                int             `json:"setsB"`
	CurrentSet           int             `json:"currentSet"`
	History              []setResultBlob `json:"history"`
	IsMatchOver          bool            `json:"isMatchOver"`
	MatchWinner          *string         `json:"matchWinner"`
	ServingTeam          *string         `json:"servingTeam"`
	TimeoutsA            int             `json:"timeoutsA"`
	TimeoutsB            int             `json:"timeoutsB"`
	InSuddenDeath        bool            `json:"inSuddenDeath"`
	SwappedSides         bool            `json:"swappedSides"`
	Config               configBlob      `json:"config"`
	MatchDurationSeconds int             `json:"matchDurationSeconds"`
	IsTimerRunning       bool            `json:"isTimerRunning"`
}

type configBlob struct {
	PointsPerSet   int    `json:"pointsPerSet"`
	TieBreakPoints int    `json:"tieBreakPoints"`
	HasTieBreak    bool   `json:"hasTieBreak"`
	MaxSets        int    `json:"maxSets"`
	DeuceType      string `json:"deuceType"`
}

type setResultBlob struct {
	SetNumber int    `json:"setNumber"`
	ScoreA    int    `json:"scoreA"`
	ScoreB    int    `json:"scoreB"`
	Winner    string `json:"winner"`
}

type rosterBlob struct {
	CourtA teamBlob   `json:"courtA"`
	CourtB teamBlob   `json:"courtB"`
	Queue  []teamBlob `json:"queue"`
}

type teamBlob struct {
	ID      string       `json:"id"`
	Name    string       `json:"name"`
	Players []playerBlob `json:"players"`
}

type playerBlob struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	IsFixed bool   `json:"isFixed"`
}

type reportBlob struct {
	WinnerTeamName   string   `json:"winnerTeamName"`
	LoserTeamName    string   `json:"loserTeamName"`
	EnteringTeamName string   `json:"enteringTeamName"`
	EnteringPlayers  []string `json:"enteringPlayers"`
	GoingToQueue     []string `json:"goingToQueue"`
	WasCompleted     bool     `json:"wasCompleted"`
	BorrowedPlayers  []string `json:"borrowedPlayers"`
	DonorTeamName    string   `json:"donorTeamName,omitempty"`
}

func Encode(snap scoreboard.Snapshot) ([]byte, error) {
	return sonic.Marshal(toBlob(snap))
}

func EncodeTo(w io.Writer, snap scoreboard.Snapshot) error {
	return sonic.ConfigDefault.NewEncoder(w).Encode(toBlob(snap))
}

func Decode(data []byte) (scoreboard.Snapshot, error) {
	var blob snapshotBlob
	if err := sonic.Unmarshal(data, &blob); err != nil {
		return scoreboard.Snapshot{}, err
	}
	return fromBlob(blob), nil
}

func toBlob(snap scoreboard.Snapshot) snapshotBlob {
	m := snap.Match
	blob := snapshotBlob{
		Match: matchBlob{
			TeamAName:            m.TeamAName,
			TeamBName:            m.TeamBName,
			ScoreA:               m.ScoreA,
			ScoreB:               m.ScoreB,
			SetsA:                m.SetsA,
			SetsB:                m.SetsB,
			CurrentSet:           m.CurrentSet,
			History:              make([]setResultBlob, 0, len(m.History)),
			IsMatchOver:          m.IsMatchOver,
			MatchWinner:          sideToString(m.MatchWinner),
			ServingTeam:          sideToString(m.ServingTeam),
			TimeoutsA:            m.TimeoutsA,
			TimeoutsB:            m.TimeoutsB,
			InSuddenDeath:        m.InSuddenDeath,
			SwappedSides:         m.SwappedSides,
			MatchDurationSeconds: m.MatchDurationSeconds,
			IsTimerRunning:       m.IsTimerRunning,
			Config: configBlob{
				PointsPerSet:   m.Config.PointsPerSet,
				TieBreakPoints: m.Config.TieBreakPoints,
				HasTieBreak:    m.Config.HasTieBreak,
				MaxSets:        m.Config.MaxSets,
				DeuceType:      string(m.Config.DeuceType),
			},
		},
		Roster: rosterBlob{
			CourtA: teamToBlob(snap.Roster.CourtA),
			CourtB: teamToBlob(snap.Roster.CourtB),
			Queue:  make([]teamBlob, 0, len(snap.Roster.Queue)),
		},
	}

	for _, res := range m.History {
		blob.Match.History = append(blob.Match.History, setResultBlob{
			SetNumber: res.SetNumber,
			ScoreA:    res.ScoreA,
			ScoreB:    res.ScoreB,
			Winner:    string(res.Winner),
		})
	}
	for _, team := range snap.Roster.Queue {
		blob.Roster.Queue = append(blob.Roster.Queue, teamToBlob(team))
	}
	if snap.RotationReport != nil {
		r := *snap.RotationReport
		blob.RotationReport = &reportBlob{
			WinnerTeamName:   r.WinnerTeamName,
			LoserTeamName:    r.LoserTeamName,
			EnteringTeamName: r.EnteringTeamName,
			EnteringPlayers:  r.EnteringPlayers,
			GoingToQueue:     r.GoingToQueue,
			WasCompleted:     r.WasCompleted,
			BorrowedPlayers:  r.BorrowedPlayers,
			DonorTeamName:    r.DonorTeamName,
		}
	}

	return blob
}

func fromBlob(blob snapshotBlob) scoreboard.Snapshot {
	m := blob.Match
	state := match.State{
		TeamAName:            m.TeamAName,
		TeamBName:            m.TeamBName,
		ScoreA:               m.ScoreA,
		ScoreB:               m.ScoreB,
		SetsA:                m.SetsA,
		SetsB:                m.SetsB,
		CurrentSet:           m.CurrentSet,
		IsMatchOver:          m.IsMatchOver,
		MatchWinner:          sideFromString(m.MatchWinner),
		ServingTeam:          sideFromString(m.ServingTeam),
		TimeoutsA:            m.TimeoutsA,
		TimeoutsB:            m.TimeoutsB,
		InSuddenDeath:        m.InSuddenDeath,
		SwappedSides:         m.SwappedSides,
		MatchDurationSeconds: m.MatchDurationSeconds,
		IsTimerRunning:       m.IsTimerRunning,
		Config: match.Config{
			PointsPerSet:   m.Config.PointsPerSet,
			TieBreakPoints: m.Config.TieBreakPoints,
			HasTieBreak:    m.Config.HasTieBreak,
			MaxSets:        m.Config.MaxSets,
			DeuceType:      match.DeuceType(m.Config.DeuceType),
		},
	}
	if state.CurrentSet < 1 {
		state.CurrentSet = 1
	}
	for _, res := range m.History {
		state.History = append(state.History, match.SetResult{
			SetNumber: res.SetNumber,
			ScoreA:    res.ScoreA,
			ScoreB:    res.ScoreB,
			Winner:    match.Side(res.Winner),
		})
	}

	snap := scoreboard.Snapshot{
		Match: state,
		Roster: roster.System{
			CourtA: teamFromBlob(blob.Roster.CourtA),
			CourtB: teamFromBlob(blob.Roster.CourtB),
		},
	}
	for _, team := range blob.Roster.Queue {
		snap.Roster.Queue = append(snap.Roster.Queue, teamFromBlob(team))
	}
	if blob.RotationReport != nil {
		r := *blob.RotationReport
		snap.RotationReport = &rotation.Report{
			WinnerTeamName:   r.WinnerTeamName,
			LoserTeamName:    r.LoserTeamName,
			EnteringTeamName: r.EnteringTeamName,
			EnteringPlayers:  r.EnteringPlayers,
			GoingToQueue:     r.GoingToQueue,
			WasCompleted:     r.WasCompleted,
			BorrowedPlayers:  r.BorrowedPlayers,
			DonorTeamName:    r.DonorTeamName,
		}
	}

	return snap
}

func teamToBlob(team roster.Team) teamBlob {
	blob := teamBlob{ID: team.ID, Name: team.Name, Players: make([]playerBlob, 0, len(team.Players))}
	for _, p := range team.Players {
		blob.Players = append(blob.Players, playerBlob{ID: p.ID, Name: p.Name, IsFixed: p.IsFixed})
	}
	return blob
}

func teamFromBlob(blob teamBlob) roster.Team {
	team := roster.Team{ID: blob.ID, Name: blob.Name}
	for _, p := range blob.Players {
		team.Players = append(team.Players, roster.Player{ID: p.ID, Name: p.Name, IsFixed: p.IsFixed})
	}
	return team
}

func sideToString(side *match.Side) *string {
	if side == nil {
		return nil
	}
	s := string(*side)
	return &s
}

func sideFromString(raw *string) *match.Side {
	if raw == nil {
		return nil
	}
	side, err := match.ParseSide(*raw)
	if err != nil {
		return nil
	}
	return &side
}
