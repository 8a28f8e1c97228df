// Package handler implements the loghive HTTP endpoints.
//
//   - ingest.go: POST /api/v1/logs
//   - clusters.go: GET /api/v1/clusters
//   - health.go: GET /healthz
//
// Handlers parse and validate the request, call the miner, and map
// domain error codes to HTTP status codes. The miner is single-writer;
// ingest serializes calls with a mutex.
package handler
