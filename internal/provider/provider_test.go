package provider

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Chapsvision-dev/rds-lifecycle-operator/internal/config"
	"github.com/Chapsvision-dev/rds-lifecycle-operator/internal/policy"
)

type nopProvider struct{ region string }

func (nopProvider) Name() string { return "nop" }
func (nopProvider) ListManualSnapshots(context.Context, string) ([]policy.Snapshot, error) {
	return nil, nil
}
func (nopProvider) DeleteSnapshot(context.Context, DeleteSnapshotRequest) (Receipt, error) {
	return Receipt{}, nil
}
func (nopProvider) DeleteInstance(context.Context, DeleteInstanceRequest) (Receipt, error) {
	return Receipt{}, nil
}
func (nopProvider) RestoreInstance(context.Context, RestoreInstanceRequest) (Receipt, error) {
	return Receipt{}, nil
}

func TestRegistry(t *testing.T) {
	Register("nop", func(c config.Config) (Provider, error) {
		return nopProvider{region: c.Region}, nil
	})
	t.Cleanup(func() { delete(registry, "nop") })

	p, err := New("nop", config.Config{Region: "eu-west-1"})
	require.NoError(t, err)
	assert.Equal(t, "nop", p.Name())
	assert.Equal(t, "eu-west-1", p.(nopProvider).region)
	assert.Contains(t, Names(), "nop")

	_, err = New("missing", config.Config{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "provider not found: missing")
}

func TestProviderError_UnwrapsSentinels(t *testing.T) {
	err := fmt.Errorf("prune: %w", &ProviderError{Op: "DeleteDBSnapshot", Target: "snap-1", Err: ErrSnapshotNotFound})

	assert.True(t, errors.Is(err, ErrSnapshotNotFound))
	assert.False(t, errors.Is(err, ErrInstanceNotFound))

	var pe *ProviderError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, "DeleteDBSnapshot snap-1: snapshot not found", pe.Error())
}
