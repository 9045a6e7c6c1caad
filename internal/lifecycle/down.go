package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/Chapsvision-dev/rds-lifecycle-operator/internal/policy"
	"github.com/Chapsvision-dev/rds-lifecycle-operator/internal/provider"
)

// RunDown tears every configured instance down: prune its manual snapshots,
// then delete it with a final snapshot named "<id>-snapshot".
func (o *Orchestrator) RunDown(ctx context.Context) WorkflowResult {
	start := time.Now()
	res := o.newResult(WorkflowDown)

	log.Info().
		Str("action", "down").
		Int("instances", len(o.opts.Instances)).
		Bool("dry_run", o.opts.DryRun).
		Msg("starting teardown")

	for _, id := range o.opts.Instances {
		r := o.downOne(ctx, id)
		res.Results = append(res.Results, r)

		ev := log.Info()
		if r.Phase == PhaseFailed {
			ev = log.Error().Str("error", r.Error)
		}
		ev.Str("action", "down").
			Str("instance", id).
			Str("phase", string(r.Phase)).
			Int("pruned", r.Pruned).
			Msg("instance teardown finished")
	}

	o.opts.Metrics.observeRun(res, time.Since(start))
	log.Info().
		Str("action", "down").
		Int("completed", res.Completed()).
		Int("failed", res.Failed()).
		Dur("elapsed_ms", time.Since(start)).
		Msg("teardown finished")
	return res
}

func (o *Orchestrator) downOne(ctx context.Context, id string) LifecycleResult {
	trace(WorkflowDown, id, statePending)

	trace(WorkflowDown, id, stateListing)
	snaps, err := o.p.ListManualSnapshots(ctx, id)
	if err != nil {
		return failed(id, fmt.Errorf("list snapshots: %w", err))
	}
	log.Info().Str("action", "down").Str("instance", id).Int("snapshots", len(snaps)).Msg("manual snapshots found")

	trace(WorkflowDown, id, statePruning)
	victims := policy.SelectForPruning(snaps)
	pruned, err := o.prune(ctx, id, victims)
	o.opts.Metrics.addPruned(pruned)
	if err != nil {
		r := failed(id, fmt.Errorf("prune snapshots: %w", err))
		r.Pruned = pruned
		return r
	}

	trace(WorkflowDown, id, stateMutating)
	final := ""
	if !o.opts.SkipFinalSnapshot {
		final = policy.FinalSnapshotName(id)
	}
	start := time.Now()
	if _, err := o.p.DeleteInstance(ctx, provider.DeleteInstanceRequest{
		InstanceID:        id,
		FinalSnapshotName: final,
	}); err != nil {
		if errors.Is(err, provider.ErrInstanceNotFound) {
			log.Warn().Str("action", "delete_instance").Str("instance", id).Msg("instance no longer exists")
		}
		r := failed(id, fmt.Errorf("delete instance: %w", err))
		r.Pruned = pruned
		return r
	}
	log.Info().
		Str("action", "delete_instance").
		Str("instance", id).
		Str("final_snapshot", final).
		Dur("elapsed_ms", time.Since(start)).
		Msg("instance deletion OK")

	return LifecycleResult{InstanceID: id, Phase: PhaseCompleted, Snapshot: final, Pruned: pruned}
}

// prune deletes snaps concurrently. A snapshot that is already gone counts as
// deleted. The join waits for every deletion to return, even after one has
// failed, and then reports the first error; in-flight deletions are not
// cancelled. The returned count therefore includes deletions that finished
// after the first failure.
func (o *Orchestrator) prune(ctx context.Context, id string, snaps []policy.Snapshot) (int, error) {
	if len(snaps) == 0 {
		return 0, nil
	}

	start := time.Now()
	var done atomic.Int64
	var g errgroup.Group
	if o.opts.DeleteConcurrency > 0 {
		g.SetLimit(o.opts.DeleteConcurrency)
	}

	for _, s := range snaps {
		s := s
		g.Go(func() error {
			_, err := o.p.DeleteSnapshot(ctx, provider.DeleteSnapshotRequest{SnapshotID: s.ID})
			switch {
			case err == nil:
			case errors.Is(err, provider.ErrSnapshotNotFound):
				log.Warn().Str("action", "delete_snapshot").Str("instance", id).Str("snapshot", s.ID).
					Msg("snapshot already gone")
			default:
				log.Debug().Err(err).Str("action", "delete_snapshot").Str("instance", id).Str("snapshot", s.ID).
					Msg("snapshot deletion failed")
				return err
			}
			done.Add(1)
			return nil
		})
	}
	err := g.Wait()

	log.Info().
		Str("action", "prune").
		Str("instance", id).
		Int("requested", len(snaps)).
		Int64("deleted", done.Load()).
		Dur("elapsed_ms", time.Since(start)).
		Msg("snapshot pruning finished")
	return int(done.Load()), err
}
