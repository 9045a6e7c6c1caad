package server

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"

	"github.com/Chapsvision-dev/rds-lifecycle-operator/internal/lifecycle"
	"github.com/Chapsvision-dev/rds-lifecycle-operator/internal/version"
)

// Runner is the workflow surface the HTTP adapter drives.
type Runner interface {
	RunDown(ctx context.Context) lifecycle.WorkflowResult
	RunUp(ctx context.Context) lifecycle.WorkflowResult
}

// NewRouter creates the chi router.
//
// Routes:
//   - GET /         - service banner
//   - GET /healthz  - liveness
//   - GET /down-dbs - run the teardown workflow, replies "down"
//   - GET /up-dbs   - run the restore workflow, replies "up"
//   - GET /metrics  - Prometheus metrics from gatherer (omitted when nil)
//
// The workflow routes wait for the run to finish and always reply 200 with
// the plain status word; per-instance outcomes are only in logs and metrics.
func NewRouter(runner Runner, gatherer prometheus.Gatherer) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)

	r.Get("/", func(w http.ResponseWriter, _ *http.Request) {
		writeText(w, http.StatusOK, version.Banner())
	})
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeText(w, http.StatusOK, "ok")
	})
	r.Get("/down-dbs", workflowHandler(lifecycle.WorkflowDown, runner.RunDown))
	r.Get("/up-dbs", workflowHandler(lifecycle.WorkflowUp, runner.RunUp))

	if gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	}
	return r
}

func workflowHandler(name string, run func(context.Context) lifecycle.WorkflowResult) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		// A client hanging up must not stop a teardown half way.
		ctx := context.WithoutCancel(r.Context())
		res := run(ctx)
		log.Info().
			Str("action", "http_"+name).
			Str("request_id", middleware.GetReqID(r.Context())).
			Int("completed", res.Completed()).
			Int("skipped", res.Skipped()).
			Int("failed", res.Failed()).
			Msg("workflow request served")
		writeText(w, http.StatusOK, name)
	}
}

func writeText(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(body))
}

// requestLogger logs each request at debug on start and info on completion.
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		requestID := middleware.GetReqID(r.Context())

		log.Debug().
			Str("request_id", requestID).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Str("remote_addr", r.RemoteAddr).
			Msg("API request started")

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		log.Info().
			Str("request_id", requestID).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Int("bytes", ww.BytesWritten()).
			Dur("elapsed_ms", time.Since(start)).
			Msg("API request completed")
	})
}
