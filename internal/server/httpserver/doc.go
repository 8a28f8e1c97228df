// Package httpserver provides the HTTP API for loghive using stdlib
// net/http:
//
//   - POST /api/v1/logs: ingest raw log lines through the miner
//   - GET  /api/v1/clusters: list mined clusters
//   - GET  /healthz: liveness and build info
//   - GET  /metrics: Prometheus exposition
//
// Requests pass a middleware chain of panic recovery, request IDs and
// optional per-client rate limiting. The miner is a single-writer
// structure; the ingest handler serializes access with a mutex.
package httpserver
