package main

import (
	"github.com/aws/aws-lambda-go/lambda"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"github.com/Chapsvision-dev/rds-lifecycle-operator/internal/config"
	"github.com/Chapsvision-dev/rds-lifecycle-operator/internal/handler"
	"github.com/Chapsvision-dev/rds-lifecycle-operator/internal/lifecycle"
	"github.com/Chapsvision-dev/rds-lifecycle-operator/internal/logx"
	"github.com/Chapsvision-dev/rds-lifecycle-operator/internal/provider"

	_ "github.com/Chapsvision-dev/rds-lifecycle-operator/internal/provider/rds"
)

// build wires config -> provider -> orchestrator -> event handler.
func build() (*handler.Handler, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	p, err := provider.New(cfg.Provider, cfg)
	if err != nil {
		return nil, err
	}
	orch, err := lifecycle.New(p, lifecycle.OptionsFromConfig(cfg, nil))
	if err != nil {
		return nil, err
	}
	return handler.New(orch), nil
}

func main() {
	_ = godotenv.Load() // best-effort
	logx.InitFromEnv()

	h, err := build()
	if err != nil {
		log.Fatal().Err(err).Msg("lambda init error")
	}
	lambda.Start(h.Handle)
}
