package provider

import (
	"context"
	"errors"

	"github.com/Chapsvision-dev/rds-lifecycle-operator/internal/policy"
)

// Provider defines the contract for the managed database backend.
// Every method is one remote call; implementations hold no workflow state.
type Provider interface {
	// ListManualSnapshots returns the instance's manual snapshots, newest first.
	ListManualSnapshots(ctx context.Context, instanceID string) ([]policy.Snapshot, error)

	DeleteSnapshot(ctx context.Context, req DeleteSnapshotRequest) (Receipt, error)

	// DeleteInstance deletes the instance. A non-empty FinalSnapshotName asks the
	// backend for a final snapshot with that exact name and deletes automated
	// backups; an empty one skips the final snapshot.
	DeleteInstance(ctx context.Context, req DeleteInstanceRequest) (Receipt, error)

	// RestoreInstance creates InstanceID from SnapshotID. Placement is always
	// single-AZ and not publicly accessible.
	RestoreInstance(ctx context.Context, req RestoreInstanceRequest) (Receipt, error)

	// Name returns the provider identifier (e.g. "rds").
	Name() string
}

type DeleteSnapshotRequest struct {
	SnapshotID string
}

type DeleteInstanceRequest struct {
	InstanceID        string
	FinalSnapshotName string
}

type RestoreInstanceRequest struct {
	InstanceID string
	SnapshotID string
	Network    NetworkConfig
}

// NetworkConfig is the configured placement for restored instances.
type NetworkConfig struct {
	SubnetGroup      string
	SecurityGroupIDs []string
}

// Receipt describes a mutating call. In dry-run mode Request is the input
// that would have been sent and nothing reached the backend.
type Receipt struct {
	Operation string `json:"operation"`
	DryRun    bool   `json:"dryRun"`
	Request   any    `json:"request,omitempty"`
}

var (
	ErrSnapshotNotFound = errors.New("snapshot not found")
	ErrInstanceNotFound = errors.New("instance not found")
)

// ProviderError wraps any failed remote call.
type ProviderError struct {
	Op     string
	Target string
	Err    error
}

func (e *ProviderError) Error() string {
	return e.Op + " " + e.Target + ": " + e.Err.Error()
}

func (e *ProviderError) Unwrap() error { return e.Err }
