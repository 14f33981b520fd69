package main

import (
	"context"
	stdlog "log"
	"os/signal"
	"syscall"

	"github.com/corvidlabs/voicegate/app"
	"github.com/corvidlabs/voicegate/config"
	"github.com/corvidlabs/voicegate/log"
)

func main() {
	// 1. Load Configuration
	cfg, err := config.Load()
	if err != nil {
		stdlog.Fatalf("Fatal error loading config: %v", err)
	}

	// 2. Run until interrupted
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 3. Assemble the pipeline
	gateway, err := app.NewFromConfig(ctx, cfg)
	if err != nil {
		log.Fatal("Error assembling voice gateway", err)
	}

	if err := gateway.Run(ctx); err != nil {
		log.Error("Voice gateway exited", err)
	}
	gateway.Shutdown()
}
