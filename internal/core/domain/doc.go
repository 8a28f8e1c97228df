// Package domain defines the core domain models for loghive.
//
// Domain models are pure value objects and entities without any
// IO dependencies or framework coupling:
//
//   - LogCluster: a group of log lines sharing one mined template
//   - ChangeType: classification of the clustering outcome for one line
//   - MineResult: the per-line result record returned to callers
//   - DomainError: business errors with structured error codes
package domain
