package httpapi

import (
	"fmt"
	"net/http"

	"github.com/riskibarqy/football-manager/internal/usecase"
)

func (h *Handler) RunSweepJob(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunSweepJob")
	defer span.End()

	if h.sweepService == nil {
		writeError(ctx, w, fmt.Errorf("%w: sweep service is not configured", usecase.ErrDependencyUnavailable))
		return
	}

	result, err := h.sweepService.Run(ctx)
	if err != nil {
		h.logger.WarnContext(ctx, "run sweep job failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	h.logger.InfoContext(ctx, "sweep job completed",
		"cancelled", result.Cancelled,
		"finished", result.Finished,
		"deleted", result.Deleted,
		"failed", result.Failed,
	)
	writeSuccess(ctx, w, http.StatusOK, result)
}
