package lifecycle

import (
	"context"
	"sync"

	"github.com/Chapsvision-dev/rds-lifecycle-operator/internal/policy"
	"github.com/Chapsvision-dev/rds-lifecycle-operator/internal/provider"
)

// fakeProvider is an in-memory provider. Behaviour is scripted per instance
// or snapshot id; every call is appended to events in arrival order.
type fakeProvider struct {
	mu     sync.Mutex
	events []string

	snaps   map[string][]policy.Snapshot
	listErr map[string]error
	delErr  map[string]error // by snapshot id
	instErr map[string]error // by instance id, used for delete and restore

	// onDelete, when set, runs inside DeleteSnapshot before it returns.
	onDelete func(id string)

	deletedInstances []provider.DeleteInstanceRequest
	restores         []provider.RestoreInstanceRequest
}

func newFake() *fakeProvider {
	return &fakeProvider{
		snaps:   map[string][]policy.Snapshot{},
		listErr: map[string]error{},
		delErr:  map[string]error{},
		instErr: map[string]error{},
	}
}

func (f *fakeProvider) log(ev string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, ev)
}

func (f *fakeProvider) Events() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.events...)
}

func (f *fakeProvider) Name() string { return "fake" }

func (f *fakeProvider) ListManualSnapshots(_ context.Context, id string) ([]policy.Snapshot, error) {
	f.log("list:" + id)
	if err := f.listErr[id]; err != nil {
		return nil, err
	}
	return policy.OrderNewestFirst(policy.FilterManual(f.snaps[id])), nil
}

func (f *fakeProvider) DeleteSnapshot(_ context.Context, req provider.DeleteSnapshotRequest) (provider.Receipt, error) {
	f.log("delete-snapshot-start:" + req.SnapshotID)
	if f.onDelete != nil {
		f.onDelete(req.SnapshotID)
	}
	f.log("delete-snapshot-done:" + req.SnapshotID)
	if err := f.delErr[req.SnapshotID]; err != nil {
		return provider.Receipt{}, err
	}
	return provider.Receipt{Operation: "DeleteSnapshot"}, nil
}

func (f *fakeProvider) DeleteInstance(_ context.Context, req provider.DeleteInstanceRequest) (provider.Receipt, error) {
	f.log("delete-instance:" + req.InstanceID)
	if err := f.instErr[req.InstanceID]; err != nil {
		return provider.Receipt{}, err
	}
	f.mu.Lock()
	f.deletedInstances = append(f.deletedInstances, req)
	f.mu.Unlock()
	return provider.Receipt{Operation: "DeleteInstance"}, nil
}

func (f *fakeProvider) RestoreInstance(_ context.Context, req provider.RestoreInstanceRequest) (provider.Receipt, error) {
	f.log("restore:" + req.InstanceID)
	if err := f.instErr[req.InstanceID]; err != nil {
		return provider.Receipt{}, err
	}
	f.mu.Lock()
	f.restores = append(f.restores, req)
	f.mu.Unlock()
	return provider.Receipt{Operation: "RestoreInstance"}, nil
}
