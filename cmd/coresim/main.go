package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/danmuck/coresim/internal/arch"
	"github.com/danmuck/coresim/internal/config"
	"github.com/danmuck/coresim/internal/logging"
	"github.com/danmuck/coresim/internal/observability"
	"github.com/danmuck/coresim/internal/server"
	"github.com/danmuck/coresim/internal/sim"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "coresim: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var configPath string
	flag.StringVar(&configPath, "config", "", "path to coresim TOML config")
	flag.Parse()

	logging.ConfigureRuntime()
	logger := observability.InitLogger("coresim")

	cfg := config.Default()
	if configPath != "" {
		loaded, err := config.Load(configPath)
		if err != nil {
			return err
		}
		cfg = loaded
	}

	cfg.Sim.Logger = logger
	cfg.Sim.Observe = observability.DispatchObserver()
	cfg.Sim.OnRetire = func(ins *arch.Instruction) {
		observability.RecordRetirement(ins.Fault != arch.FaultNone)
	}

	simulator, err := sim.New(cfg.Sim)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.AdminAddr != "" {
		admin := server.New(cfg.AdminAddr, simulator, cfg.CorsOrigins, logger)
		go func() {
			if err := admin.Serve(ctx); err != nil {
				logger.Error().Err(err).Msg("admin server failed")
			}
		}()
	}

	snap, err := simulator.Run(ctx)
	if err != nil {
		return err
	}
	if snap.Retired+snap.Discarded < snap.Issued {
		logger.Warn().
			Uint64("issued", snap.Issued).
			Uint64("retired", snap.Retired).
			Uint64("discarded", snap.Discarded).
			Msg("workload abandoned before completion")
	}
	return nil
}
