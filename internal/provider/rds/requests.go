package rds

import (
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/rds"
	"github.com/aws/aws-sdk-go-v2/service/rds/types"

	"github.com/Chapsvision-dev/rds-lifecycle-operator/internal/provider"
)

const filterInstanceID = "db-instance-id"

func describeSnapshotsInput(instanceID string) *rds.DescribeDBSnapshotsInput {
	return &rds.DescribeDBSnapshotsInput{
		Filters: []types.Filter{{
			Name:   aws.String(filterInstanceID),
			Values: []string{instanceID},
		}},
	}
}

func deleteSnapshotInput(req provider.DeleteSnapshotRequest) *rds.DeleteDBSnapshotInput {
	return &rds.DeleteDBSnapshotInput{
		DBSnapshotIdentifier: aws.String(req.SnapshotID),
	}
}

func deleteInstanceInput(req provider.DeleteInstanceRequest) *rds.DeleteDBInstanceInput {
	in := &rds.DeleteDBInstanceInput{
		DBInstanceIdentifier:   aws.String(req.InstanceID),
		SkipFinalSnapshot:      aws.Bool(req.FinalSnapshotName == ""),
		DeleteAutomatedBackups: aws.Bool(true),
	}
	if req.FinalSnapshotName != "" {
		in.FinalDBSnapshotIdentifier = aws.String(req.FinalSnapshotName)
	}
	return in
}

// restoreInput pins MultiAZ and PubliclyAccessible to false whatever the request.
func restoreInput(req provider.RestoreInstanceRequest) *rds.RestoreDBInstanceFromDBSnapshotInput {
	in := &rds.RestoreDBInstanceFromDBSnapshotInput{
		DBInstanceIdentifier: aws.String(req.InstanceID),
		DBSnapshotIdentifier: aws.String(req.SnapshotID),
		MultiAZ:              aws.Bool(false),
		PubliclyAccessible:   aws.Bool(false),
	}
	if req.Network.SubnetGroup != "" {
		in.DBSubnetGroupName = aws.String(req.Network.SubnetGroup)
	}
	if len(req.Network.SecurityGroupIDs) > 0 {
		in.VpcSecurityGroupIds = append([]string(nil), req.Network.SecurityGroupIDs...)
	}
	return in
}
