package handler

import "github.com/ohrn/loghive-go/internal/core/domain"

// IngestRequest is the body of POST /api/v1/logs.
type IngestRequest struct {
	// Lines are raw log lines, processed in order.
	Lines []string `json:"lines"`
}

// IngestResponse returns one result record per ingested line.
type IngestResponse struct {
	Results []*domain.MineResult `json:"results"`
}

// ClusterView is the API representation of one mined cluster.
type ClusterView struct {
	ID       int64  `json:"id"`
	Size     int64  `json:"size"`
	Template string `json:"template"`
}

// ClustersResponse is the body of GET /api/v1/clusters.
type ClustersResponse struct {
	Clusters []ClusterView `json:"clusters"`
	Total    int           `json:"total"`
}

// HealthResponse is the body of GET /healthz.
type HealthResponse struct {
	Status   string `json:"status"`
	RunID    string `json:"run_id"`
	Clusters int    `json:"clusters"`
	Version  string `json:"version"`
}

// ErrorResponse is the error body for all endpoints.
type ErrorResponse struct {
	Code    string `json:"code,omitempty"`
	Message string `json:"message"`
}
