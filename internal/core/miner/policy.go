package miner

import (
	"fmt"
	"time"

	"github.com/ohrn/loghive-go/internal/core/domain"
)

// PeriodicReason is the snapshot reason recorded for time-debounced saves.
const PeriodicReason = "periodic"

// SnapshotReason decides whether a snapshot is due after one processed
// line and returns the reason to record, or "" for no snapshot.
//
// The policy is edge-triggered: a structural change (cluster created or
// template generalized) always fires immediately, regardless of elapsed
// time. Absent structural change, saves are purely time-debounced against
// the last successful save. Structural events are rare and expensive to
// lose; plain matches are frequent and cheap to lose a few seconds of.
func SnapshotReason(change domain.ChangeType, clusterID int64, now, lastSave time.Time, interval time.Duration) string {
	if change.Structural() {
		return fmt.Sprintf("%s (%d)", change, clusterID)
	}
	if now.Sub(lastSave) >= interval {
		return PeriodicReason
	}
	return ""
}
