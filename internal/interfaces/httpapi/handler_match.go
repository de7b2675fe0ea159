package httpapi

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	sonic "github.com/bytedance/sonic"

	"github.com/brcoutinho/volleyscore/internal/domain/match"
	"github.com/brcoutinho/volleyscore/internal/usecase"
)

func (h *Handler) AddPoint(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.AddPoint")
	defer span.End()

	side, err := match.ParseSide(r.PathValue("team"))
	if err != nil {
		writeError(ctx, w, fmt.Errorf("%w: %s", usecase.ErrInvalidInput, err))
		return
	}

	snap := h.scoreboardService.AddPoint(ctx, side)
	writeSuccess(ctx, w, http.StatusOK, snapshotToDTO(ctx, snap, h.scoreboardService.CanUndo()))
}

func (h *Handler) SubtractPoint(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SubtractPoint")
	defer span.End()

	side, err := match.ParseSide(r.PathValue("team"))
	if err != nil {
		writeError(ctx, w, fmt.Errorf("%w: %s", usecase.ErrInvalidInput, err))
		return
	}

	snap := h.scoreboardService.SubtractPoint(ctx, side)
	writeSuccess(ctx, w, http.StatusOK, snapshotToDTO(ctx, snap, h.scoreboardService.CanUndo()))
}

func (h *Handler) ToggleService(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ToggleService")
	defer span.End()

	snap := h.scoreboardService.ToggleService(ctx)
	writeSuccess(ctx, w, http.StatusOK, snapshotToDTO(ctx, snap, h.scoreboardService.CanUndo()))
}

func (h *Handler) UseTimeout(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.UseTimeout")
	defer span.End()

	side, err := match.ParseSide(r.PathValue("team"))
	if err != nil {
		writeError(ctx, w, fmt.Errorf("%w: %s", usecase.ErrInvalidInput, err))
		return
	}

	snap := h.scoreboardService.UseTimeout(ctx, side)
	writeSuccess(ctx, w, http.StatusOK, snapshotToDTO(ctx, snap, h.scoreboardService.CanUndo()))
}

func (h *Handler) ToggleSides(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ToggleSides")
	defer span.End()

	snap := h.scoreboardService.ToggleSides(ctx)
	writeSuccess(ctx, w, http.StatusOK, snapshotToDTO(ctx, snap, h.scoreboardService.CanUndo()))
}

func (h *Handler) Undo(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Undo")
	defer span.End()

	snap := h.scoreboardService.Undo(ctx)
	writeSuccess(ctx, w, http.StatusOK, snapshotToDTO(ctx, snap, h.scoreboardService.CanUndo()))
}

func (h *Handler) ResetMatch(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ResetMatch")
	defer span.End()

	decoder := sonic.ConfigDefault.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()

	// An empty body resets with the current match config.
	var req resetMatchRequest
	if err := decoder.Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeError(ctx, w, fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err))
		return
	}

	var cfg *match.Config
	if req.Config != nil {
		parsed := configFromPayload(*req.Config)
		cfg = &parsed
	}

	snap, err := h.scoreboardService.ResetMatch(ctx, cfg)
	if err != nil {
		h.logger.WarnContext(ctx, "reset match failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, snapshotToDTO(ctx, snap, h.scoreboardService.CanUndo()))
}

func (h *Handler) ApplySettings(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ApplySettings")
	defer span.End()

	decoder := sonic.ConfigDefault.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()

	var req applySettingsRequest
	if err := decoder.Decode(&req); err != nil {
		writeError(ctx, w, fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err))
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	snap, err := h.scoreboardService.ApplySettings(ctx, configFromPayload(req.Config), req.TeamAName, req.TeamBName)
	if err != nil {
		h.logger.WarnContext(ctx, "apply settings failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, snapshotToDTO(ctx, snap, h.scoreboardService.CanUndo()))
}
