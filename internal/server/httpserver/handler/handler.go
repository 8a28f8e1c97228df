package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"sync"

	"github.com/ohrn/loghive-go/internal/core/domain"
	"github.com/ohrn/loghive-go/internal/core/miner"
	"github.com/ohrn/loghive-go/internal/telemetry/logger"
)

// Handler carries the miner and shared helpers for all endpoints.
type Handler struct {
	miner *miner.Miner
	log   logger.Logger

	// mu serializes miner access: Process mutates engine state and is
	// not safe for concurrent use.
	mu sync.Mutex
}

// New creates a Handler around the given miner.
func New(m *miner.Miner, log logger.Logger) *Handler {
	return &Handler{
		miner: m,
		log:   log,
	}
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.log.Error("encode response", "error", err)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	if code != "" {
		w.Header().Set("X-Error-Code", code)
	}
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(ErrorResponse{Code: code, Message: message})
}

// handleMinerError maps pipeline errors to HTTP responses.
func (h *Handler) handleMinerError(w http.ResponseWriter, err error) {
	var de *domain.DomainError
	if errors.As(err, &de) {
		h.log.Error("pipeline error", "code", de.Code, "error", err)
		h.writeError(w, errorCodeToHTTPStatus(de.Code), de.Code, de.Message)
		return
	}

	h.log.Error("internal error", "error", err)
	h.writeError(w, http.StatusInternalServerError, "", "internal server error")
}

// errorCodeToHTTPStatus maps domain error codes to HTTP statuses. A
// store failure is a dependency outage; everything else from the
// pipeline is a server-side fault.
func errorCodeToHTTPStatus(code string) int {
	if strings.HasPrefix(code, "LH-STOR-") {
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}
