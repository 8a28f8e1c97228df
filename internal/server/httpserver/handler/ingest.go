package handler

import (
	"encoding/json"
	"net/http"

	"github.com/ohrn/loghive-go/internal/core/domain"
)

// maxIngestBody caps the request body at 8 MiB.
const maxIngestBody = 8 << 20

// Ingest handles POST /api/v1/logs: each line runs through the full
// pipeline in order, including any snapshot the policy triggers.
func (h *Handler) Ingest(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxIngestBody)

	var req IngestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "", "invalid JSON body: "+err.Error())
		return
	}
	if len(req.Lines) == 0 {
		h.writeError(w, http.StatusBadRequest, "", "lines must not be empty")
		return
	}

	results := make([]*domain.MineResult, 0, len(req.Lines))

	h.mu.Lock()
	for _, line := range req.Lines {
		res, err := h.miner.Process(r.Context(), line)
		if err != nil {
			h.mu.Unlock()
			// Lines before the failing one are already clustered and
			// possibly persisted; the caller sees how far we got.
			h.log.Warn("ingest aborted", "processed", len(results), "total", len(req.Lines))
			h.handleMinerError(w, err)
			return
		}
		results = append(results, res)
	}
	h.mu.Unlock()

	h.writeJSON(w, http.StatusOK, IngestResponse{Results: results})
}
