// Package policy decides which snapshots the lifecycle workflows act upon.
// Everything here is pure: no I/O, no logging, inputs are never mutated.
package policy

import (
	"sort"
	"time"
)

// SnapshotType mirrors the provider's snapshot type string.
type SnapshotType string

const (
	Manual    SnapshotType = "manual"
	Automated SnapshotType = "automated"
)

// Snapshot is one snapshot as reported by the provider.
type Snapshot struct {
	ID         string       `json:"id"`
	InstanceID string       `json:"instanceId"`
	CreatedAt  time.Time    `json:"createdAt"`
	Type       SnapshotType `json:"type"`
}

// FinalSnapshotName is the snapshot requested when an instance is torn down,
// and later used as the restore source.
func FinalSnapshotName(instanceID string) string {
	return instanceID + "-snapshot"
}

// FilterManual returns the manual snapshots of snaps, preserving order.
func FilterManual(snaps []Snapshot) []Snapshot {
	out := make([]Snapshot, 0, len(snaps))
	for _, s := range snaps {
		if s.Type == Manual {
			out = append(out, s)
		}
	}
	return out
}

// OrderNewestFirst returns a copy of snaps sorted by CreatedAt descending.
// Snapshots with equal timestamps keep their relative input order.
func OrderNewestFirst(snaps []Snapshot) []Snapshot {
	out := make([]Snapshot, len(snaps))
	copy(out, snaps)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}

// SelectLatest returns the head of a newest-first sequence.
func SelectLatest(ordered []Snapshot) (Snapshot, bool) {
	if len(ordered) == 0 {
		return Snapshot{}, false
	}
	return ordered[0], true
}

// SelectForPruning returns the snapshots to delete before a teardown.
// Every manual snapshot is pruned; the final snapshot taken by the teardown
// becomes the only one left for the next restore.
func SelectForPruning(ordered []Snapshot) []Snapshot {
	return FilterManual(ordered)
}
