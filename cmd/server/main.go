package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"inkwell/internal/cache"
	"inkwell/internal/config"
	"inkwell/internal/database"
	"inkwell/internal/events"
	"inkwell/internal/repositories"
	"inkwell/internal/router"
	"inkwell/internal/services"

	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger, err := initLogger(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("Starting inkwell engine",
		zap.String("environment", cfg.Server.Environment),
		zap.String("port", cfg.Server.Port),
	)

	dbManager, err := database.NewManager(&cfg.Database, logger)
	if err != nil {
		logger.Fatal("Failed to initialize database", zap.Error(err))
	}
	defer dbManager.Close()

	if err := dbManager.Migrate(cfg.Database.MigrationsPath); err != nil {
		logger.Fatal("Failed to run migrations", zap.Error(err))
	}

	cacheInstance, err := cache.NewCache(&cache.Config{
		Provider: cfg.Cache.Provider,
		RedisURL: cfg.Cache.RedisURL,
		TTL:      cfg.Cache.TTL,
		MaxKeys:  cfg.Cache.MaxKeys,
		PoolSize: cfg.Cache.PoolSize,
	}, logger)
	if err != nil {
		logger.Fatal("Failed to create cache", zap.Error(err))
	}
	defer cacheInstance.Close()

	bus := events.NewEventBus(&events.EventBusConfig{
		BufferSize:     cfg.Engine.EventBufferSize,
		WorkerCount:    cfg.Engine.EventWorkers,
		HandlerTimeout: cfg.Engine.HandlerTimeout,
	}, logger)

	repoCollection := repositories.NewCollection(dbManager, logger)
	serviceCollection := services.NewCollection(&services.CollectionConfig{
		Repositories:         repoCollection,
		Cache:                cacheInstance,
		Logger:               logger,
		Bus:                  bus,
		RankingTTL:           cfg.Engine.RankingTTL,
		NotificationPageSize: cfg.Engine.NotificationPageSize,
	})

	if err := services.RegisterEventHandlers(bus, serviceCollection.Notifier); err != nil {
		logger.Fatal("Failed to register event handlers", zap.Error(err))
	}
	if err := bus.Start(context.Background()); err != nil {
		logger.Fatal("Failed to start event bus", zap.Error(err))
	}

	handler := router.New(&router.Dependencies{
		Config:   cfg,
		DB:       dbManager,
		Cache:    cacheInstance,
		Bus:      bus,
		Services: serviceCollection,
		Logger:   logger,
	})

	server := &http.Server{
		Addr:              cfg.Server.Addr(),
		Handler:           handler,
		ReadTimeout:       cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
		MaxHeaderBytes:    cfg.Server.MaxHeaderBytes,
		ReadHeaderTimeout: 10 * time.Second,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		logger.Info("HTTP server listening", zap.String("address", server.Addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.GracefulTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}
	if err := bus.Stop(shutdownCtx); err != nil {
		logger.Error("Event bus forced to stop", zap.Error(err))
	}

	metrics := dbManager.Metrics()
	logger.Info("Final database metrics",
		zap.Int64("query_count", metrics.QueryCount),
		zap.Int64("error_count", metrics.ErrorCount),
		zap.Int64("slow_queries", metrics.SlowQueryCount),
		zap.Duration("avg_query_duration", metrics.AvgQueryDuration),
	)

	logger.Info("Shutdown completed")
}

// initLogger builds the structured logger from configuration.
func initLogger(cfg *config.Config) (*zap.Logger, error) {
	var zapConfig zap.Config
	if cfg.Logging.Development {
		zapConfig = zap.NewDevelopmentConfig()
	} else {
		zapConfig = zap.NewProductionConfig()
	}

	level, err := zap.ParseAtomicLevel(cfg.Logging.Level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", cfg.Logging.Level, err)
	}
	zapConfig.Level = level

	return zapConfig.Build()
}
