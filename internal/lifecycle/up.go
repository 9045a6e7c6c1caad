package lifecycle

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/Chapsvision-dev/rds-lifecycle-operator/internal/policy"
	"github.com/Chapsvision-dev/rds-lifecycle-operator/internal/provider"
)

// RunUp restores every configured instance from its newest manual snapshot.
//
// The first instance without any manual snapshot ends the run: it is recorded
// as skipped and the instances after it are not attempted, so they have no
// entry in the result.
func (o *Orchestrator) RunUp(ctx context.Context) WorkflowResult {
	start := time.Now()
	res := o.newResult(WorkflowUp)

	log.Info().
		Str("action", "up").
		Int("instances", len(o.opts.Instances)).
		Bool("dry_run", o.opts.DryRun).
		Msg("starting restore")

	for _, id := range o.opts.Instances {
		r, stop := o.upOne(ctx, id)
		res.Results = append(res.Results, r)

		ev := log.Info()
		if r.Phase == PhaseFailed {
			ev = log.Error().Str("error", r.Error)
		}
		ev.Str("action", "up").
			Str("instance", id).
			Str("phase", string(r.Phase)).
			Str("snapshot", r.Snapshot).
			Msg("instance restore finished")

		if stop {
			log.Warn().
				Str("action", "up").
				Str("instance", id).
				Int("not_attempted", len(o.opts.Instances)-len(res.Results)).
				Msg("no manual snapshot found, stopping restore run")
			break
		}
	}

	o.opts.Metrics.observeRun(res, time.Since(start))
	log.Info().
		Str("action", "up").
		Int("completed", res.Completed()).
		Int("skipped", res.Skipped()).
		Int("failed", res.Failed()).
		Dur("elapsed_ms", time.Since(start)).
		Msg("restore finished")
	return res
}

// upOne restores one instance. stop reports that the instance had no manual
// snapshot and the run must end.
func (o *Orchestrator) upOne(ctx context.Context, id string) (r LifecycleResult, stop bool) {
	trace(WorkflowUp, id, statePending)

	trace(WorkflowUp, id, stateListing)
	snaps, err := o.p.ListManualSnapshots(ctx, id)
	if err != nil {
		return LifecycleResult{
			InstanceID: id,
			Phase:      PhaseSkipped,
			Error:      fmt.Sprintf("list snapshots: %v", err),
		}, false
	}

	trace(WorkflowUp, id, stateSelecting)
	latest, ok := policy.SelectLatest(snaps)
	if !ok {
		return LifecycleResult{InstanceID: id, Phase: PhaseSkipped}, true
	}

	trace(WorkflowUp, id, stateMutating)
	start := time.Now()
	if _, err := o.p.RestoreInstance(ctx, provider.RestoreInstanceRequest{
		InstanceID: id,
		SnapshotID: latest.ID,
		Network:    o.opts.Network,
	}); err != nil {
		r := failed(id, fmt.Errorf("restore instance: %w", err))
		r.Snapshot = latest.ID
		return r, false
	}
	log.Info().
		Str("action", "restore_instance").
		Str("instance", id).
		Str("snapshot", latest.ID).
		Time("snapshot_created_at", latest.CreatedAt).
		Dur("elapsed_ms", time.Since(start)).
		Msg("restore OK")

	return LifecycleResult{InstanceID: id, Phase: PhaseCompleted, Snapshot: latest.ID}, false
}
