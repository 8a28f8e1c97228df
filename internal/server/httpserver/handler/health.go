package handler

import (
	"net/http"

	"github.com/ohrn/loghive-go/internal/infra/buildinfo"
)

// Health handles GET /healthz.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	count := h.miner.ClusterCount()
	h.mu.Unlock()

	h.writeJSON(w, http.StatusOK, HealthResponse{
		Status:   "ok",
		RunID:    h.miner.RunID(),
		Clusters: count,
		Version:  buildinfo.Version,
	})
}
