// Command seed writes the shipped achievement catalog into storage. Entries
// are upserted by key, so re-running after a catalog change updates metadata
// without touching unlock history.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"inkwell/internal/config"
	"inkwell/internal/database"
	"inkwell/internal/repositories"
	"inkwell/internal/services"

	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger, err := zap.NewProduction()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	dbManager, err := database.NewManager(&cfg.Database, logger)
	if err != nil {
		logger.Fatal("Failed to initialize database", zap.Error(err))
	}
	defer dbManager.Close()

	if err := dbManager.Migrate(cfg.Database.MigrationsPath); err != nil {
		logger.Fatal("Failed to run migrations", zap.Error(err))
	}

	repo := repositories.NewAchievementRepository(dbManager, logger)
	catalog := services.DefaultCatalog()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	for _, def := range catalog.All() {
		if err := repo.UpsertDefinition(ctx, &def); err != nil {
			logger.Fatal("Failed to seed achievement",
				zap.String("key", def.Key),
				zap.Error(err),
			)
		}
		logger.Info("Seeded achievement", zap.String("key", def.Key))
	}

	logger.Info("Catalog seeding completed", zap.Int("count", catalog.Len()))
}
