// file: internal/services/service_collection.go
package services

import (
	"time"

	"inkwell/internal/cache"
	"inkwell/internal/events"
	"inkwell/internal/repositories"

	"go.uber.org/zap"
)

// Collection bundles every service for handler wiring.
type Collection struct {
	Achievements  AchievementService
	Notifications NotificationService
	Notifier      ActivityNotifier
	Catalog       *Catalog
}

// CollectionConfig holds everything needed to build the service collection
type CollectionConfig struct {
	Repositories *repositories.Collection
	Cache        cache.Cache
	Logger       *zap.Logger

	// Bus receives the achievement.unlocked events the coordinator emits.
	Bus events.EventBus

	// Catalog overrides the shipped catalog; nil means DefaultCatalog.
	Catalog *Catalog

	// RankingTTL overrides the author ranking cache lifetime.
	RankingTTL time.Duration

	// NotificationPageSize overrides the default notification list page size.
	NotificationPageSize int
}

// NewCollection wires the service graph over the repository collection.
func NewCollection(cfg *CollectionConfig) *Collection {
	catalog := cfg.Catalog
	if catalog == nil {
		catalog = DefaultCatalog()
	}

	notifications := NewNotificationService(&NotificationServiceConfig{
		Repo:     cfg.Repositories.Notification,
		Users:    cfg.Repositories.User,
		Cache:    cfg.Cache,
		Logger:   cfg.Logger,
		PageSize: cfg.NotificationPageSize,
	})

	achievements := NewAchievementService(&AchievementServiceConfig{
		Catalog:       catalog,
		Achievements:  cfg.Repositories.Achievement,
		Activity:      cfg.Repositories.Activity,
		Users:         cfg.Repositories.User,
		Notifications: notifications,
		Bus:           cfg.Bus,
		Cache:         cfg.Cache,
		Logger:        cfg.Logger,
		RankingTTL:    cfg.RankingTTL,
	})

	return &Collection{
		Achievements:  achievements,
		Notifications: notifications,
		Notifier:      NewActivityNotifier(notifications, achievements, cfg.Logger),
		Catalog:       catalog,
	}
}
