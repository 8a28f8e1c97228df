package handler

import "net/http"

// Clusters handles GET /api/v1/clusters.
func (h *Handler) Clusters(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	clusters := h.miner.Clusters()
	h.mu.Unlock()

	views := make([]ClusterView, 0, len(clusters))
	for _, c := range clusters {
		views = append(views, ClusterView{
			ID:       c.ID,
			Size:     c.Size,
			Template: c.Template(),
		})
	}

	h.writeJSON(w, http.StatusOK, ClustersResponse{
		Clusters: views,
		Total:    len(views),
	})
}
