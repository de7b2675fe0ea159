package httpapi

import (
	"net/http"
)

func (h *Handler) PreviewRotation(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.PreviewRotation")
	defer span.End()

	report, ok := h.scoreboardService.PreviewRotation(ctx)
	if !ok {
		writeSuccess(ctx, w, http.StatusOK, nil)
		return
	}

	dto := rotationReportToDTO(ctx, report)
	writeSuccess(ctx, w, http.StatusOK, &dto)
}

func (h *Handler) CommitRotation(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.CommitRotation")
	defer span.End()

	snap := h.scoreboardService.RotateTeams(ctx)
	writeSuccess(ctx, w, http.StatusOK, snapshotToDTO(ctx, snap, h.scoreboardService.CanUndo()))
}
