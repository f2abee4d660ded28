package httpapi

import "net/http"

func (h *Handler) GetMyManager(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetMyManager")
	defer span.End()

	managerID, ok := h.requireManagerID(ctx, w)
	if !ok {
		return
	}

	dashboard, err := h.managerService.Dashboard(ctx, managerID)
	if err != nil {
		h.logger.WarnContext(ctx, "get manager failed", "manager_id", managerID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, managerToDTO(dashboard))
}

func (h *Handler) ListMyHistory(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListMyHistory")
	defer span.End()

	managerID, ok := h.requireManagerID(ctx, w)
	if !ok {
		return
	}
	limit, err := queryInt(r, "limit", 0)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	items, err := h.managerService.History(ctx, managerID, limit)
	if err != nil {
		h.logger.WarnContext(ctx, "list history failed", "manager_id", managerID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, historyToDTO(items))
}
