package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/couchcryptid/drill-recommendation-service/internal/adapter/httpadapter"
	kafkaadapter "github.com/couchcryptid/drill-recommendation-service/internal/adapter/kafka"
	"github.com/couchcryptid/drill-recommendation-service/internal/adapter/sqlite"
	"github.com/couchcryptid/drill-recommendation-service/internal/config"
	"github.com/couchcryptid/drill-recommendation-service/internal/domain"
	"github.com/couchcryptid/drill-recommendation-service/internal/observability"
	"github.com/couchcryptid/drill-recommendation-service/internal/pipeline"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	// A missing .env is normal outside local development.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	catalog, err := loadCatalog(cfg)
	if err != nil {
		logger.Error("failed to load hazard catalog", "path", cfg.CatalogPath, "error", err)
		os.Exit(1)
	}
	domain.InstallCatalog(catalog)
	metrics.CatalogLocations.Set(float64(len(catalog.Locations())))
	metrics.CatalogEntries.Set(float64(catalog.Len()))
	logger.Info("hazard catalog loaded",
		"version", catalog.Version(),
		"locations", len(catalog.Locations()),
		"entries", catalog.Len(),
	)

	store, err := sqlite.Open(cfg.DrillDBPath, logger)
	if err != nil {
		logger.Error("failed to open drill store", "path", cfg.DrillDBPath, "error", err)
		os.Exit(1)
	}

	reader := kafkaadapter.NewReader(cfg, logger)
	writer := kafkaadapter.NewWriter(cfg, logger)
	transformer := pipeline.NewTransformer(catalog, logger, metrics)

	p := pipeline.New(reader, transformer, writer, logger, metrics, cfg.BatchSize)

	gin.SetMode(gin.ReleaseMode)
	api := httpadapter.NewAPI(catalog, store, metrics, logger)
	srv := httpadapter.NewServer(cfg.HTTPAddr, api, httpadapter.AllReady(p, store), logger, httpadapter.Options{
		RateLimit:      cfg.APIRateLimit,
		AllowedOrigins: cfg.CORSAllowedOrigins,
		Metrics:        metrics,
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	go func() {
		if err := p.Run(ctx); err != nil {
			logger.Error("pipeline error", "error", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	if err := reader.Close(); err != nil {
		logger.Error("kafka reader close error", "error", err)
	}
	if err := writer.Close(); err != nil {
		logger.Error("kafka writer close error", "error", err)
	}
	if err := store.Close(); err != nil {
		logger.Error("drill store close error", "error", err)
	}

	logger.Info("shutdown complete")
}

func loadCatalog(cfg *config.Config) (*domain.Catalog, error) {
	if cfg.CatalogPath != "" {
		return domain.LoadCatalogFile(cfg.CatalogPath)
	}
	return domain.LoadEmbeddedCatalog()
}
