package rds

import (
	"context"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/rds"
	"github.com/rs/zerolog/log"

	"github.com/Chapsvision-dev/rds-lifecycle-operator/internal/policy"
	"github.com/Chapsvision-dev/rds-lifecycle-operator/internal/provider"
)

// Operation names, as used in receipts, errors and logs.
const (
	OpDescribeSnapshots = "DescribeDBSnapshots"
	OpDeleteSnapshot    = "DeleteDBSnapshot"
	OpDeleteInstance    = "DeleteDBInstance"
	OpRestoreInstance   = "RestoreDBInstanceFromDBSnapshot"
)

// RDSProvider implements provider.Provider on top of the RDS API.
type RDSProvider struct {
	api    API
	region string
	// dryRun short-circuits every mutating call after its input is built.
	dryRun bool
}

// New wraps an RDS API client. Listing is always performed, even in dry-run.
func New(api API, region string, dryRun bool) *RDSProvider {
	return &RDSProvider{api: api, region: region, dryRun: dryRun}
}

func (p *RDSProvider) Name() string { return "rds" }

// ListManualSnapshots pages through DescribeDBSnapshots for the instance and
// returns its manual snapshots newest first.
func (p *RDSProvider) ListManualSnapshots(ctx context.Context, instanceID string) ([]policy.Snapshot, error) {
	start := time.Now()
	var all []policy.Snapshot

	pager := rds.NewDescribeDBSnapshotsPaginator(p.api, describeSnapshotsInput(instanceID))
	for pager.HasMorePages() {
		page, err := pager.NextPage(ctx)
		if err != nil {
			log.Debug().Err(err).Str("action", "rds_describe_snapshots").Str("instance", instanceID).
				Dur("elapsed_ms", time.Since(start)).Msg("describe failed")
			return nil, wrapErr(OpDescribeSnapshots, instanceID, err)
		}
		for _, s := range page.DBSnapshots {
			all = append(all, policy.Snapshot{
				ID:         aws.ToString(s.DBSnapshotIdentifier),
				InstanceID: aws.ToString(s.DBInstanceIdentifier),
				CreatedAt:  aws.ToTime(s.SnapshotCreateTime),
				Type:       policy.SnapshotType(aws.ToString(s.SnapshotType)),
			})
		}
	}

	manual := policy.OrderNewestFirst(policy.FilterManual(all))
	log.Debug().
		Str("action", "rds_describe_snapshots").
		Str("instance", instanceID).
		Int("total", len(all)).
		Int("manual", len(manual)).
		Dur("elapsed_ms", time.Since(start)).
		Msg("snapshots listed")
	return manual, nil
}

func (p *RDSProvider) DeleteSnapshot(ctx context.Context, req provider.DeleteSnapshotRequest) (provider.Receipt, error) {
	in := deleteSnapshotInput(req)
	if p.dryRun {
		return p.dryRunReceipt(OpDeleteSnapshot, req.SnapshotID, in), nil
	}

	start := time.Now()
	if _, err := p.api.DeleteDBSnapshot(ctx, in); err != nil {
		return provider.Receipt{}, wrapErr(OpDeleteSnapshot, req.SnapshotID, err)
	}
	log.Debug().Str("action", "rds_delete_snapshot").Str("snapshot", req.SnapshotID).
		Dur("elapsed_ms", time.Since(start)).Msg("snapshot deletion requested")
	return provider.Receipt{Operation: OpDeleteSnapshot, Request: in}, nil
}

func (p *RDSProvider) DeleteInstance(ctx context.Context, req provider.DeleteInstanceRequest) (provider.Receipt, error) {
	in := deleteInstanceInput(req)
	if p.dryRun {
		return p.dryRunReceipt(OpDeleteInstance, req.InstanceID, in), nil
	}

	start := time.Now()
	if _, err := p.api.DeleteDBInstance(ctx, in); err != nil {
		return provider.Receipt{}, wrapErr(OpDeleteInstance, req.InstanceID, err)
	}
	log.Debug().Str("action", "rds_delete_instance").Str("instance", req.InstanceID).
		Str("final_snapshot", req.FinalSnapshotName).
		Dur("elapsed_ms", time.Since(start)).Msg("instance deletion requested")
	return provider.Receipt{Operation: OpDeleteInstance, Request: in}, nil
}

func (p *RDSProvider) RestoreInstance(ctx context.Context, req provider.RestoreInstanceRequest) (provider.Receipt, error) {
	in := restoreInput(req)
	if p.dryRun {
		return p.dryRunReceipt(OpRestoreInstance, req.InstanceID, in), nil
	}

	start := time.Now()
	if _, err := p.api.RestoreDBInstanceFromDBSnapshot(ctx, in); err != nil {
		return provider.Receipt{}, wrapErr(OpRestoreInstance, req.InstanceID, err)
	}
	log.Debug().Str("action", "rds_restore_instance").Str("instance", req.InstanceID).
		Str("snapshot", req.SnapshotID).
		Dur("elapsed_ms", time.Since(start)).Msg("restore requested")
	return provider.Receipt{Operation: OpRestoreInstance, Request: in}, nil
}

func (p *RDSProvider) dryRunReceipt(op, target string, in any) provider.Receipt {
	log.Info().
		Str("action", "rds_dry_run").
		Str("operation", op).
		Str("target", target).
		Str("region", p.region).
		Interface("request", in).
		Msg("dry-run: request not sent")
	return provider.Receipt{Operation: op, DryRun: true, Request: in}
}
