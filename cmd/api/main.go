package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/asynkron/protoactor-go/actor"
	zLog "github.com/rs/zerolog/log"

	investigator "github.com/trylogarithm/FixGPT/internal/agents/investigator/actor"
	"github.com/trylogarithm/FixGPT/internal/api"
	"github.com/trylogarithm/FixGPT/internal/gateway"
	"github.com/trylogarithm/FixGPT/internal/loop"
	"github.com/trylogarithm/FixGPT/internal/planner"
	"github.com/trylogarithm/FixGPT/internal/toolset"
	"github.com/trylogarithm/FixGPT/pkg/config"
	"github.com/trylogarithm/FixGPT/pkg/logger"
)

// Configuration is read from the file named by FIXGPT_CONFIG, falling back to
// config.yaml next to the binary. OPENAI_API_KEY must be set for planning.
func main() {
	log.Println("starting server")

	path := os.Getenv("FIXGPT_CONFIG")
	if path == "" {
		path = "config.yaml"
	}
	cfg, err := config.Load(path)
	if err != nil {
		log.Panicf("failed to load config: %v", err)
	}

	if err := logger.NewGlobal(cfg.Global.LogLevel, cfg.Global.PrettyLogging); err != nil {
		log.Panicf("failed to initialize logger: %v", err)
	}

	registry, err := toolset.Build(cfg)
	if err != nil {
		zLog.Panic().Err(err).Msg("failed to build tool registry")
	}

	llm, err := planner.NewLLM()
	if err != nil {
		zLog.Panic().Err(err).Msg("failed to initialize planner")
	}

	deps := investigator.Deps{
		LoopConfig: loop.Config{
			MaxSteps:    cfg.Global.MaxSteps,
			StallWindow: cfg.Global.StallWindow,
			ToolTimeout: cfg.Global.ToolTimeout(),
			PlanTimeout: cfg.Global.PlanTimeout(),
		},
		Planner:  llm,
		Gateway:  gateway.New(registry),
		Registry: registry,
	}

	system := actor.NewActorSystem().Root
	app := api.New(system, deps, cfg.Server.Port)

	go func() {
		err := app.Start()
		if err != nil {
			zLog.Panic().Err(err).Msg("server crash")
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	stop()
	zLog.Info().Msg("shutting down gracefully")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := app.Stop(ctx); err != nil {
		zLog.Panic().Err(err).Msg("server forced to shutdown")
	}

	zLog.Info().Msg("server exiting")
}
