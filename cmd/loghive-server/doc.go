// Package main provides the entry point for loghive-server.
//
// The server runs a single mining pipeline behind an HTTP API:
//
//   - POST /api/v1/logs ingests raw log lines
//   - GET /api/v1/clusters lists the mined clusters
//   - GET /healthz reports liveness
//   - GET /metrics exposes Prometheus metrics
//
// Usage:
//
//	loghive-server [flags]
//	loghive-server --config /path/to/config.yaml
//
// The server loads configuration, restores the newest snapshot from the
// configured store, and serves until it receives SIGINT or SIGTERM. On
// shutdown it flushes a final snapshot so no mined state is lost.
package main
