package rds

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/rds"

	"github.com/Chapsvision-dev/rds-lifecycle-operator/internal/config"
	"github.com/Chapsvision-dev/rds-lifecycle-operator/internal/provider"
)

// API is the subset of *rds.Client used by the provider.
type API interface {
	DescribeDBSnapshots(ctx context.Context, in *rds.DescribeDBSnapshotsInput, optFns ...func(*rds.Options)) (*rds.DescribeDBSnapshotsOutput, error)
	DeleteDBSnapshot(ctx context.Context, in *rds.DeleteDBSnapshotInput, optFns ...func(*rds.Options)) (*rds.DeleteDBSnapshotOutput, error)
	DeleteDBInstance(ctx context.Context, in *rds.DeleteDBInstanceInput, optFns ...func(*rds.Options)) (*rds.DeleteDBInstanceOutput, error)
	RestoreDBInstanceFromDBSnapshot(ctx context.Context, in *rds.RestoreDBInstanceFromDBSnapshotInput, optFns ...func(*rds.Options)) (*rds.RestoreDBInstanceFromDBSnapshotOutput, error)
}

// newClientFromConfig builds an RDS client from the default credential chain.
// SDK retries are disabled: a failed call is terminal for its step.
func newClientFromConfig(ctx context.Context, c config.Config) (*rds.Client, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(c.Region),
		awsconfig.WithRetryer(func() aws.Retryer { return aws.NopRetryer{} }),
	)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	return rds.NewFromConfig(awsCfg, func(o *rds.Options) {
		if c.RDS.Endpoint != "" {
			o.BaseEndpoint = aws.String(c.RDS.Endpoint)
		}
	}), nil
}

func init() {
	provider.Register("rds", func(c config.Config) (provider.Provider, error) {
		client, err := newClientFromConfig(context.Background(), c)
		if err != nil {
			return nil, err
		}
		return New(client, c.Region, c.DryRun), nil
	})
}
