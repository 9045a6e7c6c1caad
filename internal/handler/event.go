// Package handler adapts Lambda invocations of the form {"action": "..."} to
// the lifecycle workflows.
package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"github.com/rs/zerolog/log"

	"github.com/Chapsvision-dev/rds-lifecycle-operator/internal/lifecycle"
)

const (
	ActionDown = "databaseDown"
	ActionUp   = "databaseUp"
)

// Event is the invocation payload.
type Event struct {
	Action string `json:"action"`
}

// Response is the JSON body of every reply.
type Response struct {
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

// ValidationError reports a malformed payload.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string { return e.Field + ": " + e.Reason }

// Runner is the workflow surface the handler drives.
type Runner interface {
	RunDown(ctx context.Context) lifecycle.WorkflowResult
	RunUp(ctx context.Context) lifecycle.WorkflowResult
}

type Handler struct {
	runner Runner
}

func New(r Runner) *Handler { return &Handler{runner: r} }

// Handle dispatches the event. It never returns an error to the Lambda
// runtime; failures are encoded in the status code and body.
//
//   - missing action      -> 400 {"message":"Missing action parameter"}
//   - databaseDown / Up   -> 200 {"message":"ok","data":<WorkflowResult>}
//   - unknown action      -> 200 {"message":"Invalid action"}
//   - panic while running -> 500 {"message":"Internal server error","data":"<msg>"}
func (h *Handler) Handle(ctx context.Context, ev *Event) (resp events.APIGatewayProxyResponse, err error) {
	if err := validate(ev); err != nil {
		log.Warn().Err(err).Str("action", "event_validate").Msg("rejected event")
		return reply(http.StatusBadRequest, Response{Message: "Missing action parameter"}), nil
	}

	start := time.Now()
	defer func() {
		if rec := recover(); rec != nil {
			msg := fmt.Sprint(rec)
			if e, ok := rec.(error); ok {
				msg = e.Error()
			}
			log.Error().Str("action", "event_"+ev.Action).Str("error", msg).
				Dur("elapsed_ms", time.Since(start)).Msg("error executing action")
			resp, err = reply(http.StatusInternalServerError, Response{Message: "Internal server error", Data: msg}), nil
		}
	}()

	var res lifecycle.WorkflowResult
	switch ev.Action {
	case ActionDown:
		res = h.runner.RunDown(ctx)
	case ActionUp:
		res = h.runner.RunUp(ctx)
	default:
		log.Info().Str("action", "event_dispatch").Str("event_action", ev.Action).Msg("ignoring unknown action")
		return reply(http.StatusOK, Response{Message: "Invalid action"}), nil
	}

	log.Info().
		Str("action", "event_"+ev.Action).
		Int("completed", res.Completed()).
		Int("skipped", res.Skipped()).
		Int("failed", res.Failed()).
		Dur("elapsed_ms", time.Since(start)).
		Msg("event handled")
	return reply(http.StatusOK, Response{Message: "ok", Data: res}), nil
}

func validate(ev *Event) error {
	if ev == nil || ev.Action == "" {
		return &ValidationError{Field: "action", Reason: "missing"}
	}
	return nil
}

func reply(status int, body Response) events.APIGatewayProxyResponse {
	b, err := json.Marshal(body)
	if err != nil {
		status = http.StatusInternalServerError
		b = []byte(`{"message":"Internal server error"}`)
	}
	return events.APIGatewayProxyResponse{
		StatusCode: status,
		Headers:    map[string]string{"Content-Type": "application/json"},
		Body:       string(b),
	}
}
