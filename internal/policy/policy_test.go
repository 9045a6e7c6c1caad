package policy

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

func snap(id string, offset time.Duration, typ SnapshotType) Snapshot {
	return Snapshot{ID: id, InstanceID: "db1", CreatedAt: t0.Add(offset), Type: typ}
}

func ids(snaps []Snapshot) []string {
	out := make([]string, 0, len(snaps))
	for _, s := range snaps {
		out = append(out, s.ID)
	}
	return out
}

func TestFilterManual(t *testing.T) {
	in := []Snapshot{
		snap("a", 0, Manual),
		snap("b", time.Hour, Automated),
		snap("c", 2*time.Hour, Manual),
		snap("d", 3*time.Hour, SnapshotType("awsbackup")),
	}

	got := FilterManual(in)
	assert.Equal(t, []string{"a", "c"}, ids(got))
	for _, s := range got {
		assert.Equal(t, Manual, s.Type)
	}
}

func TestFilterManual_AllAutomatedIsEmpty(t *testing.T) {
	in := []Snapshot{snap("a", 0, Automated), snap("b", time.Minute, Automated)}

	got := FilterManual(in)
	require.NotNil(t, got)
	assert.Empty(t, got)
}

func TestOrderNewestFirst(t *testing.T) {
	in := []Snapshot{
		snap("old", 0, Manual),
		snap("new", 48*time.Hour, Manual),
		snap("mid", 24*time.Hour, Manual),
	}

	got := OrderNewestFirst(in)
	assert.Equal(t, []string{"new", "mid", "old"}, ids(got))
	for i := 1; i < len(got); i++ {
		assert.False(t, got[i].CreatedAt.After(got[i-1].CreatedAt), "sequence must be non-increasing at %d", i)
	}

	// input untouched
	assert.Equal(t, []string{"old", "new", "mid"}, ids(in))
}

func TestOrderNewestFirst_StableOnEqualTimestamps(t *testing.T) {
	in := []Snapshot{
		snap("first", time.Hour, Manual),
		snap("older", 0, Manual),
		snap("second", time.Hour, Manual),
		snap("third", time.Hour, Manual),
	}

	for i := 0; i < 10; i++ {
		got := OrderNewestFirst(in)
		assert.Equal(t, []string{"first", "second", "third", "older"}, ids(got))
	}
}

func TestSelectLatest(t *testing.T) {
	_, ok := SelectLatest(nil)
	assert.False(t, ok)

	in := []Snapshot{
		snap("b", time.Hour, Manual),
		snap("c", 3*time.Hour, Manual),
		snap("a", 0, Manual),
	}
	got, ok := SelectLatest(OrderNewestFirst(in))
	require.True(t, ok)
	assert.Equal(t, "c", got.ID)
}

func TestSelectForPruning_ReturnsEveryManualSnapshot(t *testing.T) {
	in := OrderNewestFirst([]Snapshot{
		snap("a", 0, Manual),
		snap("b", time.Hour, Manual),
		snap("c", 2*time.Hour, Automated),
		snap("d", 3*time.Hour, Manual),
		snap("e", 4*time.Hour, Manual),
	})

	got := SelectForPruning(in)
	assert.Equal(t, []string{"e", "d", "b", "a"}, ids(got))
}

func TestFinalSnapshotName(t *testing.T) {
	assert.Equal(t, "orders-db-snapshot", FinalSnapshotName("orders-db"))
}
