package httpapi

import "net/http"

// HandleHealth returns API health status and menu size
func (h *Handler) HandleHealth(w http.ResponseWriter, _ *http.Request) {
	count := h.catalog.Count()

	h.logger.Debug().Int("item_count", count).Msg("health check")

	writeJSON(w, http.StatusOK, HealthResponse{
		Status:    "healthy",
		ItemCount: count,
	})
}
