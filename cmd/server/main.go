// Package main provides the entry point for the OntoCraft API server.
package main

import (
	"log/slog"

	"github.com/joho/godotenv"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"

	"github.com/ontocraft/ontocraft/domain/catalog"
	"github.com/ontocraft/ontocraft/domain/drafts"
	"github.com/ontocraft/ontocraft/domain/export"
	"github.com/ontocraft/ontocraft/domain/graph"
	"github.com/ontocraft/ontocraft/domain/health"
	"github.com/ontocraft/ontocraft/domain/overlay"
	"github.com/ontocraft/ontocraft/domain/rebase"
	"github.com/ontocraft/ontocraft/domain/scheduler"
	"github.com/ontocraft/ontocraft/domain/validation"
	"github.com/ontocraft/ontocraft/domain/versions"
	"github.com/ontocraft/ontocraft/internal/config"
	"github.com/ontocraft/ontocraft/internal/database"
	"github.com/ontocraft/ontocraft/internal/server"
	"github.com/ontocraft/ontocraft/pkg/logger"
)

func main() {
	// Load .env files if present (for local development)
	// Note: Load() won't overwrite existing vars, Overload() will
	_ = godotenv.Load(".env")
	_ = godotenv.Overload(".env.local")

	fx.New(
		// Logging
		fx.WithLogger(func(log *slog.Logger) fxevent.Logger {
			return &fxevent.SlogLogger{Logger: log}
		}),

		// Infrastructure modules
		logger.Module,
		config.Module,
		database.Module,
		server.Module,

		// Domain modules
		health.Module,
		versions.Module,
		catalog.Module,
		drafts.Module,
		overlay.Module,
		graph.Module,
		validation.Module,
		rebase.Module,
		export.Module,
		scheduler.Module,
	).Run()
}
