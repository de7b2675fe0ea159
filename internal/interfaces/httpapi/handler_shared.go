package httpapi

import (
	"context"
	"strings"

	"github.com/brcoutinho/volleyscore/internal/domain/match"
	"github.com/brcoutinho/volleyscore/internal/domain/roster"
	"github.com/brcoutinho/volleyscore/internal/domain/rotation"
	"github.com/brcoutinho/volleyscore/internal/domain/scoreboard"
)

type matchConfigPayload struct {
	PointsPerSet   int    `json:"pointsPerSet" validate:"required,gt=0"`
	TieBreakPoints int    `json:"tieBreakPoints" validate:"required,gt=0"`
	HasTieBreak    bool   `json:"hasTieBreak"`
	MaxSets        int    `json:"maxSets" validate:"required,gt=0"`
	DeuceType      string `json:"deuceType" validate:"required,oneof=standard sudden_death_3pt"`
}

type resetMatchRequest struct {
	Config *matchConfigPayload `json:"config" validate:"omitempty"`
}

type applySettingsRequest struct {
	Config    matchConfigPayload `json:"config" validate:"required"`
	TeamAName string             `json:"teamAName" validate:"omitempty,max=60"`
	TeamBName string             `json:"teamBName" validate:"omitempty,max=60"`
}

type generateTeamsRequest struct {
	Names      string            `json:"names" validate:"required"`
	TeamNames  []string          `json:"teamNames" validate:"omitempty,max=12,dive,max=60"`
	FixedSides map[string]string `json:"fixedSides" validate:"omitempty,dive,oneof=A B"`
}

type movePlayerRequest struct {
	PlayerID     string `json:"playerId" validate:"required"`
	SourceTeamID string `json:"sourceTeamId" validate:"required"`
	TargetTeamID string `json:"targetTeamId" validate:"required"`
}

type updateTeamNameRequest struct {
	Name string `json:"name" validate:"required,max=60"`
}

type scoreboardDTO struct {
	Match          matchStateDTO      `json:"match"`
	Roster         rosterDTO          `json:"roster"`
	RotationReport *rotationReportDTO `json:"rotationReport,omitempty"`
	CanUndo        bool               `json:"canUndo"`
}

type matchStateDTO struct {
	TeamAName            string          `json:"teamAName"`
	TeamBName            string          `json:"teamBName"`
	ScoreA               int             `json:"scoreA"`
	ScoreB               int             `json:"scoreB"`
	SetsA                int             `json:"setsA"`
	SetsB                int             `json:"setsB"`
	CurrentSet           int             `json:"currentSet"`
	History              []setResultDTO  `json:"history"`
	IsMatchOver          bool            `json:"isMatchOver"`
	MatchWinner          *string         `json:"matchWinner,omitempty"`
	ServingTeam          *string         `json:"servingTeam,omitempty"`
	TimeoutsA            int             `json:"timeoutsA"`
	TimeoutsB            int             `json:"timeoutsB"`
	InSuddenDeath        bool            `json:"inSuddenDeath"`
	SwappedSides         bool            `json:"swappedSides"`
	Config               matchConfigDTO  `json:"config"`
	MatchDurationSeconds int             `json:"matchDurationSeconds"`
	IsTimerRunning       bool            `json:"isTimerRunning"`
}

type matchConfigDTO struct {
	PointsPerSet   int    `json:"pointsPerSet"`
	TieBreakPoints int    `json:"tieBreakPoints"`
	HasTieBreak    bool   `json:"hasTieBreak"`
	MaxSets        int    `json:"maxSets"`
	DeuceType      string `json:"deuceType"`
}

type setResultDTO struct {
	SetNumber int    `json:"setNumber"`
	ScoreA    int    `json:"scoreA"`
	ScoreB    int    `json:"scoreB"`
	Winner    string `json:"winner"`
}

type rosterDTO struct {
	CourtA rosterTeamDTO   `json:"courtA"`
	CourtB rosterTeamDTO   `json:"courtB"`
	Queue  []rosterTeamDTO `json:"queue"`
}

type rosterTeamDTO struct {
	ID      string      `json:"id"`
	Name    string      `json:"name"`
	Players []playerDTO `json:"players"`
}

type playerDTO struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	IsFixed bool   `json:"isFixed"`
}

type rotationReportDTO struct {
	WinnerTeamName   string   `json:"winnerTeamName"`
	LoserTeamName    string   `json:"loserTeamName"`
	EnteringTeamName string   `json:"enteringTeamName"`
	EnteringPlayers  []string `json:"enteringPlayers"`
	GoingToQueue     []string `json:"goingToQueue"`
	WasCompleted     bool     `json:"wasCompleted"`
	BorrowedPlayers  []string `json:"borrowedPlayers,omitempty"`
	DonorTeamName    string   `json:"donorTeamName,omitempty"`
}

func snapshotToDTO(ctx context.Context, snap scoreboard.Snapshot, canUndo bool) scoreboardDTO {
	ctx, span := startSpan(ctx, "httpapi.snapshotToDTO")
	defer span.End()

	dto := scoreboardDTO{
		Match:   matchStateToDTO(ctx, snap.Match),
		Roster:  rosterToDTO(ctx, snap.Roster),
		CanUndo: canUndo,
	}
	if snap.RotationReport != nil {
		report := rotationReportToDTO(ctx, *snap.RotationReport)
		dto.RotationReport = &report
	}
	return dto
}

func matchStateToDTO(ctx context.Context, st match.State) matchStateDTO {
	ctx, span := startSpan(ctx, "httpapi.matchStateToDTO")
	defer span.End()

	history := make([]setResultDTO, 0, len(st.History))
	for _, set := range st.History {
		history = append(history, setResultDTO{
			SetNumber: set.SetNumber,
			ScoreA:    set.ScoreA,
			ScoreB:    set.ScoreB,
			Winner:    string(set.Winner),
		})
	}

	return matchStateDTO{
		TeamAName:            st.TeamAName,
		TeamBName:            st.TeamBName,
		ScoreA:               st.ScoreA,
		ScoreB:               st.ScoreB,
		SetsA:                st.SetsA,
		SetsB:                st.SetsB,
		CurrentSet:           st.CurrentSet,
		History:              history,
		IsMatchOver:          st.IsMatchOver,
		MatchWinner:          sideToString(st.MatchWinner),
		ServingTeam:          sideToString(st.ServingTeam),
		TimeoutsA:            st.TimeoutsA,
		TimeoutsB:            st.TimeoutsB,
		InSuddenDeath:        st.InSuddenDeath,
		SwappedSides:         st.SwappedSides,
		Config:               matchConfigToDTO(st.Config),
		MatchDurationSeconds: st.MatchDurationSeconds,
		IsTimerRunning:       st.IsTimerRunning,
	}
}

func matchConfigToDTO(cfg match.Config) matchConfigDTO {
	return matchConfigDTO{
		PointsPerSet:   cfg.PointsPerSet,
		TieBreakPoints: cfg.TieBreakPoints,
		HasTieBreak:    cfg.HasTieBreak,
		MaxSets:        cfg.MaxSets,
		DeuceType:      string(cfg.DeuceType),
	}
}

func configFromPayload(payload matchConfigPayload) match.Config {
	return match.Config{
		PointsPerSet:   payload.PointsPerSet,
		TieBreakPoints: payload.TieBreakPoints,
		HasTieBreak:    payload.HasTieBreak,
		MaxSets:        payload.MaxSets,
		DeuceType:      match.DeuceType(payload.DeuceType),
	}
}

func rosterToDTO(ctx context.Context, sys roster.System) rosterDTO {
	ctx, span := startSpan(ctx, "httpapi.rosterToDTO")
	defer span.End()

	queue := make([]rosterTeamDTO, 0, len(sys.Queue))
	for _, team := range sys.Queue {
		queue = append(queue, rosterTeamToDTO(team))
	}

	return rosterDTO{
		CourtA: rosterTeamToDTO(sys.CourtA),
		CourtB: rosterTeamToDTO(sys.CourtB),
		Queue:  queue,
	}
}

func rosterTeamToDTO(team roster.Team) rosterTeamDTO {
	players := make([]playerDTO, 0, len(team.Players))
	for _, p := range team.Players {
		players = append(players, playerDTO{
			ID:      p.ID,
			Name:    p.Name,
			IsFixed: p.IsFixed,
		})
	}

	return rosterTeamDTO{
		ID:      team.ID,
		Name:    team.Name,
		Players: players,
	}
}

func rotationReportToDTO(ctx context.Context, report rotation.Report) rotationReportDTO {
	ctx, span := startSpan(ctx, "httpapi.rotationReportToDTO")
	defer span.End()

	return rotationReportDTO{
		WinnerTeamName:   report.WinnerTeamName,
		LoserTeamName:    report.LoserTeamName,
		EnteringTeamName: report.EnteringTeamName,
		EnteringPlayers:  append([]string(nil), report.EnteringPlayers...),
		GoingToQueue:     append([]string(nil), report.GoingToQueue...),
		WasCompleted:     report.WasCompleted,
		BorrowedPlayers:  append([]string(nil), report.BorrowedPlayers...),
		DonorTeamName:    report.DonorTeamName,
	}
}

func sideToString(side *match.Side) *string {
	if side == nil {
		return nil
	}
	v := string(*side)
	return &v
}

func fixedSidesFromRequest(raw map[string]string) map[string]match.Side {
	if len(raw) == 0 {
		return nil
	}
	out := make(map[string]match.Side, len(raw))
	for name, side := range raw {
		parsed, err := match.ParseSide(side)
		if err != nil {
			continue
		}
		out[strings.TrimSpace(name)] = parsed
	}
	return out
}
