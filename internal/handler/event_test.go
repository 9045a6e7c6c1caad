package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Chapsvision-dev/rds-lifecycle-operator/internal/lifecycle"
)

type stubRunner struct {
	down, up int
	result   lifecycle.WorkflowResult
	panicVal any
}

func (s *stubRunner) RunDown(context.Context) lifecycle.WorkflowResult {
	s.down++
	if s.panicVal != nil {
		panic(s.panicVal)
	}
	return s.result
}

func (s *stubRunner) RunUp(context.Context) lifecycle.WorkflowResult {
	s.up++
	return s.result
}

type body struct {
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func decode(t *testing.T, s string) body {
	t.Helper()
	var b body
	require.NoError(t, json.Unmarshal([]byte(s), &b))
	return b
}

func TestHandle_MissingAction(t *testing.T) {
	r := &stubRunner{}
	h := New(r)

	for _, ev := range []*Event{nil, {}} {
		resp, err := h.Handle(context.Background(), ev)
		require.NoError(t, err)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "Missing action parameter", decode(t, resp.Body).Message)
	}
	assert.Zero(t, r.down+r.up)
}

func TestHandle_DatabaseDownReturnsStructuredResult(t *testing.T) {
	r := &stubRunner{result: lifecycle.WorkflowResult{
		Workflow: lifecycle.WorkflowDown,
		Results: []lifecycle.LifecycleResult{
			{InstanceID: "a", Phase: lifecycle.PhaseFailed, Error: "boom"},
			{InstanceID: "b", Phase: lifecycle.PhaseCompleted, Snapshot: "b-snapshot"},
		},
	}}

	resp, err := New(r).Handle(context.Background(), &Event{Action: ActionDown})
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Headers["Content-Type"])
	assert.Equal(t, 1, r.down)

	b := decode(t, resp.Body)
	assert.Equal(t, "ok", b.Message)
	var got lifecycle.WorkflowResult
	require.NoError(t, json.Unmarshal(b.Data, &got))
	assert.Equal(t, r.result, got)
}

func TestHandle_DatabaseUp(t *testing.T) {
	r := &stubRunner{result: lifecycle.WorkflowResult{Workflow: lifecycle.WorkflowUp}}

	resp, err := New(r).Handle(context.Background(), &Event{Action: ActionUp})
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 1, r.up)
	assert.Equal(t, 0, r.down)
}

func TestHandle_UnknownActionIsNoop(t *testing.T) {
	r := &stubRunner{}

	resp, err := New(r).Handle(context.Background(), &Event{Action: "databaseSideways"})
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Invalid action", decode(t, resp.Body).Message)
	assert.Zero(t, r.down+r.up)
}

func TestHandle_BlankActionIsPresentButInvalid(t *testing.T) {
	r := &stubRunner{}

	resp, err := New(r).Handle(context.Background(), &Event{Action: "  "})
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Invalid action", decode(t, resp.Body).Message)
	assert.Zero(t, r.down+r.up)
}

func TestHandle_PanicBecomes500WithMessage(t *testing.T) {
	r := &stubRunner{panicVal: errors.New("credentials expired")}

	resp, err := New(r).Handle(context.Background(), &Event{Action: ActionDown})
	require.NoError(t, err)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)

	b := decode(t, resp.Body)
	assert.Equal(t, "Internal server error", b.Message)
	assert.JSONEq(t, `"credentials expired"`, string(b.Data))
}

func TestValidationError(t *testing.T) {
	err := validate(nil)
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "action: missing", ve.Error())
	assert.NoError(t, validate(&Event{Action: ActionUp}))
}
