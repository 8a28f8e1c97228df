// Package drain implements the incremental log clustering engine.
//
// The engine groups masked log lines into clusters sharing one template.
// Lines are routed through a fixed-depth prefix tree: the first layer is
// keyed by token count, deeper layers by the token at that position, with
// numeric-bearing tokens collapsed onto a parameter branch. Leaves hold
// candidate cluster IDs; the best candidate above the similarity
// threshold wins, and its template is generalized position-wise against
// the new line. When no candidate qualifies, a new cluster is created.
//
// When a maximum cluster count is configured, the least recently matched
// clusters are evicted; leaf ID lists are re-filtered against the live
// cluster set on insert.
//
// The engine is not safe for concurrent use. Callers own serialization.
package drain
