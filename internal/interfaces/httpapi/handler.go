package httpapi

import (
	"context"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/brcoutinho/volleyscore/internal/platform/logging"
	"github.com/brcoutinho/volleyscore/internal/usecase"
)

type Handler struct {
	scoreboardService *usecase.ScoreboardService
	logger            *logging.Logger
	validator         *validator.Validate
}

func NewHandler(
	scoreboardService *usecase.ScoreboardService,
	logger *logging.Logger,
) *Handler {
	if logger == nil {
		logger = logging.Default()
	}

	return &Handler{
		scoreboardService: scoreboardService,
		logger:            logger,
		validator:         validator.New(),
	}
}

func (h *Handler) validateRequest(ctx context.Context, payload any) error {
	ctx, span := startSpan(ctx, "httpapi.Handler.validateRequest")
	defer span.End()

	if err := h.validator.StructCtx(ctx, payload); err != nil {
		return fmt.Errorf("%w: validation failed: %v", usecase.ErrInvalidInput, err)
	}

	return nil
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Healthz")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) GetScoreboard(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetScoreboard")
	defer span.End()

	snap := h.scoreboardService.Snapshot(ctx)
	writeSuccess(ctx, w, http.StatusOK, snapshotToDTO(ctx, snap, h.scoreboardService.CanUndo()))
}
