package lifecycle

import (
	"errors"
	"fmt"
	"strings"
)

// Phase is the terminal state of one instance within a workflow run.
type Phase string

const (
	PhaseSkipped   Phase = "skipped"
	PhaseCompleted Phase = "completed"
	PhaseFailed    Phase = "failed"
)

const (
	WorkflowDown = "down"
	WorkflowUp   = "up"
)

// LifecycleResult is the outcome for one configured instance.
type LifecycleResult struct {
	InstanceID string `json:"instanceId"`
	Phase      Phase  `json:"phase"`
	// Snapshot is the final snapshot requested (down) or the restore source (up).
	Snapshot string `json:"snapshot,omitempty"`
	Pruned   int    `json:"pruned,omitempty"`
	Error    string `json:"error,omitempty"`
}

// WorkflowResult holds one entry per processed instance, in configured order.
type WorkflowResult struct {
	Workflow string            `json:"workflow"`
	DryRun   bool              `json:"dryRun"`
	Results  []LifecycleResult `json:"results"`
}

func (w WorkflowResult) count(p Phase) int {
	n := 0
	for _, r := range w.Results {
		if r.Phase == p {
			n++
		}
	}
	return n
}

func (w WorkflowResult) Completed() int { return w.count(PhaseCompleted) }
func (w WorkflowResult) Skipped() int   { return w.count(PhaseSkipped) }
func (w WorkflowResult) Failed() int    { return w.count(PhaseFailed) }

// Err summarises failed instances, or returns nil when none failed.
func (w WorkflowResult) Err() error {
	var msgs []string
	for _, r := range w.Results {
		if r.Phase == PhaseFailed {
			msgs = append(msgs, fmt.Sprintf("%s: %s", r.InstanceID, r.Error))
		}
	}
	if len(msgs) == 0 {
		return nil
	}
	return errors.New(w.Workflow + " failed for " + strings.Join(msgs, "; "))
}
