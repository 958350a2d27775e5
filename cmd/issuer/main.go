package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/dmitrijs2005/tokenbridge/internal/issuer"
	"github.com/dmitrijs2005/tokenbridge/internal/issuer/config"
	"github.com/dmitrijs2005/tokenbridge/internal/logging"
)

func main() {

	ctx := context.Background()
	logger := logging.NewJSONLogger("issuer", slog.LevelInfo)

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error(ctx, "config", "error", err)
		os.Exit(1)
	}

	app, err := issuer.NewApp(ctx, cfg, logger)
	if err != nil {
		logger.Error(ctx, "startup failed", "error", err)
		os.Exit(1)
	}

	if err := app.Run(ctx); err != nil {
		logger.Error(ctx, "issuer stopped with error", "error", err)
		os.Exit(1)
	}

}
