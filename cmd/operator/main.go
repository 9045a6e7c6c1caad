package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog/log"

	"github.com/Chapsvision-dev/rds-lifecycle-operator/internal/config"
	"github.com/Chapsvision-dev/rds-lifecycle-operator/internal/lifecycle"
	"github.com/Chapsvision-dev/rds-lifecycle-operator/internal/logx"
	"github.com/Chapsvision-dev/rds-lifecycle-operator/internal/provider"
	"github.com/Chapsvision-dev/rds-lifecycle-operator/internal/server"
	"github.com/Chapsvision-dev/rds-lifecycle-operator/internal/version"

	_ "github.com/Chapsvision-dev/rds-lifecycle-operator/internal/provider/rds"
)

// Test seams: overridden in unit tests. Keep signatures in sync with packages.
var (
	loadConfig  func() (config.Config, error)                                                  = config.Load
	newProvider func(name string, cfg config.Config) (provider.Provider, error)                = provider.New
	serve       func(context.Context, config.Config, server.Runner, prometheus.Gatherer) error = serveHTTP
	exit        func(int)                                                                      = os.Exit
)

const usage = `
Usage:
  operator serve
  operator down [db1,db2,...]
  operator up   [db1,db2,...]
  operator version | --version | -v
  operator help    | --help    | -h

Notes:
  - Instances default to DB (comma-separated); an argument overrides DB
    (DB must still be set).
  - DEBUG=true is a dry run: requests are logged, never sent.
  - Restore placement: DB_SUBNET_GROUP_NAME, VPC_SECURITY_GROUP_ID.
  - HTTP (serve): HTTP_ADDR (default :3000), GET /down-dbs, GET /up-dbs.
`

// main wires CLI -> config -> provider -> orchestrator -> workflow/server.
// Exit codes: 0 success, 1 runtime error or failed instances, 2 usage error.
func main() {
	_ = godotenv.Load() // best-effort
	logx.InitFromEnv()

	args := os.Args[1:]
	if len(args) < 1 {
		fmt.Print(usage)
		exit(2)
		return
	}
	action := strings.ToLower(args[0])

	// Handle version command
	if action == "version" || action == "--version" || action == "-v" {
		fmt.Println(version.Banner())
		exit(0)
		return
	}

	// Handle help command
	if action == "help" || action == "--help" || action == "-h" {
		fmt.Print(usage)
		exit(0)
		return
	}

	if action != "serve" && action != "down" && action != "up" {
		fmt.Print(usage)
		exit(2)
		return
	}

	cfg, err := loadConfig()
	if err != nil {
		log.Error().Err(err).Msg("config error")
		exit(1)
		return
	}
	if action != "serve" {
		cfg.Instances = config.SplitInstances(pickArgOrEnv(2, "DB", strings.Join(cfg.Instances, ",")))
	}

	p, err := newProvider(cfg.Provider, cfg)
	if err != nil {
		log.Error().Err(err).Str("provider", cfg.Provider).Msg("provider init error")
		exit(1)
		return
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	orch, err := lifecycle.New(p, lifecycle.OptionsFromConfig(cfg, lifecycle.NewMetrics(reg)))
	if err != nil {
		log.Error().Err(err).Msg("orchestrator init error")
		exit(1)
		return
	}

	ctx := withSignals(context.Background())
	log.Info().
		Str("action", action).
		Str("provider", p.Name()).
		Str("region", cfg.Region).
		Strs("instances", orch.Instances()).
		Bool("dry_run", cfg.DryRun).
		Msg("operator starting")

	switch action {
	case "serve":
		if err := serve(ctx, cfg, orch, reg); err != nil {
			log.Error().Err(err).Str("action", "serve").Msg("server failed")
			exit(1)
			return
		}

	case "down", "up":
		start := time.Now()
		var res lifecycle.WorkflowResult
		if action == "down" {
			res = orch.RunDown(ctx)
		} else {
			res = orch.RunUp(ctx)
		}
		if err := res.Err(); err != nil {
			log.Error().Err(err).Str("action", action).Dur("elapsed_ms", time.Since(start)).Msg("workflow finished with failures")
			exit(1)
			return
		}
		log.Info().
			Str("action", action).
			Int("completed", res.Completed()).
			Int("skipped", res.Skipped()).
			Dur("elapsed_ms", time.Since(start)).
			Msg(action + " OK")
	}
}

func serveHTTP(ctx context.Context, cfg config.Config, r server.Runner, g prometheus.Gatherer) error {
	return server.New(cfg.HTTPAddr, server.NewRouter(r, g), cfg.HTTPShutdownTimeout).ListenAndServe(ctx)
}

func pickArgOrEnv(idx int, env string, def string) string {
	if len(os.Args) > idx && os.Args[idx] != "" {
		return os.Args[idx]
	}
	if v, ok := os.LookupEnv(env); ok && v != "" {
		return v
	}
	return def
}

func withSignals(parent context.Context) context.Context {
	ctx, cancel := context.WithCancel(parent)
	go func() {
		ch := make(chan os.Signal, 1)
		signal.Notify(ch, os.Interrupt, syscall.SIGTERM)
		<-ch
		cancel()
	}()
	return ctx
}
