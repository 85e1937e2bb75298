package httpapi

import "net/http"

// GetLive returns the in-progress game, or the next scheduled one when
// nothing is live.
func (h *Handler) GetLive(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetLive")
	defer span.End()

	view, err := h.queries.GetLive(ctx)
	if err != nil {
		h.logger.WarnContext(ctx, "get live view failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	out := liveDTO{Live: view.Snapshot != nil}
	if view.Snapshot != nil {
		snap := liveSnapshotToDTO(*view.Snapshot)
		out.Snapshot = &snap
	}
	if view.NextGame != nil {
		next := gameToDTO(*view.NextGame)
		out.NextGame = &next
	}
	writeSuccess(ctx, w, http.StatusOK, out)
}
