// Package lifecycle drives the down (teardown) and up (restore) workflows
// across the configured database instances.
//
// Instances are processed one at a time in configured order. A failure is
// recorded against its instance and never aborts the others, with one
// exception kept on purpose: RunUp stops at the first instance that has no
// manual snapshot. Nothing is retried.
package lifecycle

import (
	"errors"

	"github.com/rs/zerolog/log"

	"github.com/Chapsvision-dev/rds-lifecycle-operator/internal/config"
	"github.com/Chapsvision-dev/rds-lifecycle-operator/internal/provider"
)

// Options configures an Orchestrator. It is copied at construction.
type Options struct {
	Instances []string
	Network   provider.NetworkConfig

	// SkipFinalSnapshot deletes instances without a final snapshot (force mode).
	SkipFinalSnapshot bool
	// DeleteConcurrency bounds parallel snapshot deletions; 0 means unbounded.
	DeleteConcurrency int
	// DryRun is reported in results; the provider does the short-circuiting.
	DryRun bool

	Metrics *Metrics
}

// Orchestrator runs the down and up workflows against one provider.
type Orchestrator struct {
	p    provider.Provider
	opts Options
}

// New returns an orchestrator bound to p. The instance list must not be empty.
func New(p provider.Provider, opts Options) (*Orchestrator, error) {
	if p == nil {
		return nil, errors.New("lifecycle: nil provider")
	}
	if len(opts.Instances) == 0 {
		return nil, errors.New("lifecycle: no instances configured")
	}
	opts.Instances = append([]string(nil), opts.Instances...)
	opts.Network.SecurityGroupIDs = append([]string(nil), opts.Network.SecurityGroupIDs...)
	if opts.DeleteConcurrency < 0 {
		opts.DeleteConcurrency = 0
	}
	return &Orchestrator{p: p, opts: opts}, nil
}

// OptionsFromConfig maps the process configuration onto orchestrator options.
func OptionsFromConfig(cfg config.Config, m *Metrics) Options {
	return Options{
		Instances: cfg.Instances,
		Network: provider.NetworkConfig{
			SubnetGroup:      cfg.SubnetGroup,
			SecurityGroupIDs: cfg.SecurityGroupIDs(),
		},
		SkipFinalSnapshot: cfg.SkipFinalSnapshot,
		DeleteConcurrency: cfg.DeleteConcurrency,
		DryRun:            cfg.DryRun,
		Metrics:           m,
	}
}

// Instances returns a copy of the configured instance identifiers.
func (o *Orchestrator) Instances() []string {
	return append([]string(nil), o.opts.Instances...)
}

// Per-instance states, logged at debug level as the workflow advances.
const (
	statePending   = "pending"
	stateListing   = "listing"
	statePruning   = "pruning"
	stateSelecting = "selecting"
	stateMutating  = "mutating"
)

func trace(workflow, instance, state string) {
	log.Debug().
		Str("action", "lifecycle_state").
		Str("workflow", workflow).
		Str("instance", instance).
		Str("state", state).
		Msg("state transition")
}

func failed(id string, err error) LifecycleResult {
	return LifecycleResult{InstanceID: id, Phase: PhaseFailed, Error: err.Error()}
}

func (o *Orchestrator) newResult(workflow string) WorkflowResult {
	return WorkflowResult{
		Workflow: workflow,
		DryRun:   o.opts.DryRun,
		Results:  make([]LifecycleResult, 0, len(o.opts.Instances)),
	}
}
