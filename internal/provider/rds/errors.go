package rds

import (
	"errors"
	"fmt"

	"github.com/aws/smithy-go"

	"github.com/Chapsvision-dev/rds-lifecycle-operator/internal/provider"
)

// wrapErr converts an SDK error into a *provider.ProviderError, mapping the
// not-found faults onto the provider sentinels.
func wrapErr(op, target string, err error) error {
	if err == nil {
		return nil
	}
	var ae smithy.APIError
	if errors.As(err, &ae) {
		switch ae.ErrorCode() {
		case "DBSnapshotNotFound", "DBSnapshotNotFoundFault":
			err = fmt.Errorf("%w: %w", provider.ErrSnapshotNotFound, err)
		case "DBInstanceNotFound", "DBInstanceNotFoundFault":
			err = fmt.Errorf("%w: %w", provider.ErrInstanceNotFound, err)
		}
	}
	return &provider.ProviderError{Op: op, Target: target, Err: err}
}
