// Command web serves the spending forecast upload page and API.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/agam25rpro/Personal-Finance-Webapp/internal/app"
	"github.com/agam25rpro/Personal-Finance-Webapp/internal/config"
	"github.com/agam25rpro/Personal-Finance-Webapp/internal/infrastructure"
)

func main() {
	if err := run(context.Background()); err != nil {
		slog.Error("Application error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer infrastructure.CloseLogFile()

	application, err := app.NewApplication(cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize application: %w", err)
	}
	return application.Run(ctx)
}
