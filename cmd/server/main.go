// File: cmd/server/main.go
package main

import (
	"context"
	"errors"
	"flag"
	"log" // Standard log for messages before/after zap is active
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"estate_leads_backend/internal/app"
	"estate_leads_backend/internal/config"
	"estate_leads_backend/internal/platform/database"
	"estate_leads_backend/internal/platform/elasticsearch"
	"estate_leads_backend/internal/platform/logger"
	"estate_leads_backend/internal/property"

	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("FATAL: Failed to load configuration: %v", err)
	}
	appLogger, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize logger: %v", err)
	}
	defer func() { _ = appLogger.Sync() }()

	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "sync-properties":
			syncCmd := flag.NewFlagSet("sync-properties", flag.ExitOnError)
			batchSize := syncCmd.Int("batch-size", 500, "Number of properties per bulk request")
			esRefresh := syncCmd.Bool("es-refresh", false, "Refresh the index after each batch")
			_ = syncCmd.Parse(os.Args[2:])

			if err := runPropertySync(cfg, appLogger, *batchSize, *esRefresh); err != nil {
				appLogger.Fatal("Property synchronization failed", zap.Error(err))
			}
			return
		case "migrate":
			if err := runMigrate(cfg, appLogger, true); err != nil {
				appLogger.Fatal("Migration failed", zap.Error(err))
			}
			return
		}
	}

	startServer(cfg, appLogger)
}

func startServer(cfg *config.Config, appLogger *zap.Logger) {
	if err := runMigrate(cfg, appLogger, cfg.DBAutoMigrate); err != nil {
		appLogger.Fatal("Migration failed", zap.Error(err))
	}

	server, cleanup, err := initializeServer(cfg, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to initialize server", zap.Error(err))
	}
	defer cleanup()

	go func() {
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLogger.Fatal("Server failed to start or crashed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	appLogger.Info("Received signal, shutting down server", zap.String("signal", sig.String()))

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), cfg.ServerTimeout)
	defer cancelShutdown()

	if err := server.Shutdown(shutdownCtx); err != nil {
		appLogger.Error("Server forced to shutdown", zap.Error(err))
	} else {
		appLogger.Info("Server shutdown complete")
	}
}

// runMigrate opens the service tier just long enough to migrate. The serve
// command migrates only with DB_AUTO_MIGRATE.
func runMigrate(cfg *config.Config, appLogger *zap.Logger, enabled bool) error {
	if !enabled {
		return nil
	}
	db, cleanup, err := database.NewServiceDB(cfg, appLogger)
	if err != nil {
		return err
	}
	defer cleanup()
	return app.Migrate(context.Background(), db, appLogger)
}

// runPropertySync pushes every property into Elasticsearch in batches.
func runPropertySync(cfg *config.Config, appLogger *zap.Logger, batchSize int, refresh bool) error {
	db, cleanup, err := database.NewServiceDB(cfg, appLogger)
	if err != nil {
		return err
	}
	defer cleanup()

	esClient, err := elasticsearch.NewClient(cfg, appLogger)
	if err != nil {
		return err
	}
	if esClient == nil {
		return errors.New("ELASTICSEARCH_URL must be set to sync properties")
	}
	indexer, err := property.NewIndexer(esClient, appLogger)
	if err != nil {
		return err
	}

	admin := property.NewAdminService(property.NewGORMAdminRepository(db), indexer, property.NewPresenter(cfg), appLogger)
	appLogger.Info("Starting property synchronization", zap.Int("batchSize", batchSize), zap.Bool("refresh", refresh))

	ctx := database.WithTier(context.Background(), database.TierService)
	total, err := admin.Reindex(ctx, batchSize, refresh)
	if err != nil {
		return err
	}
	appLogger.Info("Property synchronization completed", zap.Int("indexed", total))
	return nil
}
