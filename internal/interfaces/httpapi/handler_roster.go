package httpapi

import (
	"fmt"
	"net/http"
	"strings"

	sonic "github.com/bytedance/sonic"

	"github.com/brcoutinho/volleyscore/internal/usecase"
)

func (h *Handler) GenerateTeams(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GenerateTeams")
	defer span.End()

	decoder := sonic.ConfigDefault.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()

	var req generateTeamsRequest
	if err := decoder.Decode(&req); err != nil {
		writeError(ctx, w, fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err))
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	snap, err := h.scoreboardService.GenerateTeams(ctx, usecase.GenerateTeamsInput{
		Names:      req.Names,
		TeamNames:  req.TeamNames,
		FixedSides: fixedSidesFromRequest(req.FixedSides),
	})
	if err != nil {
		h.logger.WarnContext(ctx, "generate teams failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, snapshotToDTO(ctx, snap, h.scoreboardService.CanUndo()))
}

func (h *Handler) MovePlayer(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.MovePlayer")
	defer span.End()

	decoder := sonic.ConfigDefault.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()

	var req movePlayerRequest
	if err := decoder.Decode(&req); err != nil {
		writeError(ctx, w, fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err))
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	snap := h.scoreboardService.MovePlayer(ctx, req.PlayerID, req.SourceTeamID, req.TargetTeamID)
	writeSuccess(ctx, w, http.StatusOK, snapshotToDTO(ctx, snap, h.scoreboardService.CanUndo()))
}

func (h *Handler) RemovePlayer(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RemovePlayer")
	defer span.End()

	playerID := strings.TrimSpace(r.PathValue("playerID"))
	if playerID == "" {
		writeError(ctx, w, fmt.Errorf("%w: player id is required", usecase.ErrInvalidInput))
		return
	}

	snap := h.scoreboardService.RemovePlayer(ctx, playerID)
	writeSuccess(ctx, w, http.StatusOK, snapshotToDTO(ctx, snap, h.scoreboardService.CanUndo()))
}

func (h *Handler) TogglePlayerFixed(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.TogglePlayerFixed")
	defer span.End()

	playerID := strings.TrimSpace(r.PathValue("playerID"))
	if playerID == "" {
		writeError(ctx, w, fmt.Errorf("%w: player id is required", usecase.ErrInvalidInput))
		return
	}

	snap := h.scoreboardService.TogglePlayerFixed(ctx, playerID)
	writeSuccess(ctx, w, http.StatusOK, snapshotToDTO(ctx, snap, h.scoreboardService.CanUndo()))
}

func (h *Handler) UpdateTeamName(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.UpdateTeamName")
	defer span.End()

	teamID := strings.TrimSpace(r.PathValue("teamID"))
	if teamID == "" {
		writeError(ctx, w, fmt.Errorf("%w: team id is required", usecase.ErrInvalidInput))
		return
	}

	decoder := sonic.ConfigDefault.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()

	var req updateTeamNameRequest
	if err := decoder.Decode(&req); err != nil {
		writeError(ctx, w, fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err))
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	snap, err := h.scoreboardService.UpdateTeamName(ctx, teamID, req.Name)
	if err != nil {
		h.logger.WarnContext(ctx, "update team name failed", "team_id", teamID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, snapshotToDTO(ctx, snap, h.scoreboardService.CanUndo()))
}
