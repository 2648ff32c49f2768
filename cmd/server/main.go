package main

import (
	"context"
	"log"
	"os"

	"github.com/dmitrijs2005/imunetrack/internal/logging"
	"github.com/dmitrijs2005/imunetrack/internal/server"
	"github.com/dmitrijs2005/imunetrack/internal/server/config"
)

func main() {

	ctx := context.Background()
	cfg, err := config.LoadConfig(os.Args[1:])
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger, err := logging.NewZapForEnvironment(cfg.Environment)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	app, err := server.NewApp(ctx, cfg, logger)
	if err != nil {
		logger.Error(ctx, "startup failed", "error", err)
		_ = logger.Sync()
		os.Exit(1)
	}

	if err := app.Run(ctx); err != nil {
		logger.Error(ctx, "server stopped with error", "error", err)
		_ = logger.Sync()
		os.Exit(1)
	}

}
