// file: internal/repositories/collection.go
package repositories

import (
	"inkwell/internal/database"

	"go.uber.org/zap"
)

// NewCollection wires every repository over one database manager.
func NewCollection(db *database.Manager, logger *zap.Logger) *Collection {
	return &Collection{
		Activity:     NewActivityRepository(db, logger),
		Achievement:  NewAchievementRepository(db, logger),
		Notification: NewNotificationRepository(db, logger),
		User:         NewUserRepository(db, logger),
	}
}
