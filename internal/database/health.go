package database

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// HealthStatus represents the current health of the database.
type HealthStatus struct {
	Status       string                 `json:"status"` // healthy, degraded, unhealthy
	Timestamp    time.Time              `json:"timestamp"`
	ResponseTime time.Duration          `json:"response_time"`
	Errors       []string               `json:"errors,omitempty"`
	Details      map[string]interface{} `json:"details,omitempty"`
}

// HealthChecker probes the database on demand.
type HealthChecker struct {
	manager *Manager
	logger  *zap.Logger

	timeout        time.Duration
	criticalTables []string
	stopCh         chan struct{}
}

// NewHealthChecker creates a new health checker
func NewHealthChecker(manager *Manager, logger *zap.Logger) *HealthChecker {
	return &HealthChecker{
		manager: manager,
		logger:  logger,
		timeout: 5 * time.Second,
		criticalTables: []string{
			"users",
			"achievements",
			"user_achievements",
			"notifications",
		},
		stopCh: make(chan struct{}),
	}
}

// Check runs connectivity and schema probes and classifies the result. A
// failed ping is unhealthy; a missing table or saturated pool is degraded.
func (h *HealthChecker) Check(ctx context.Context) *HealthStatus {
	start := time.Now()
	status := &HealthStatus{
		Status:    "healthy",
		Timestamp: start,
		Details:   make(map[string]interface{}),
	}

	checkCtx, cancel := context.WithTimeout(ctx, h.timeout)
	defer cancel()

	if err := h.manager.DB().PingContext(checkCtx); err != nil {
		status.Status = "unhealthy"
		status.Errors = append(status.Errors, fmt.Sprintf("ping failed: %v", err))
		status.ResponseTime = time.Since(start)
		h.logger.Error("Database health check failed", zap.Error(err))
		return status
	}

	for _, table := range h.criticalTables {
		var exists bool
		err := h.manager.DB().QueryRowContext(checkCtx,
			`SELECT EXISTS (SELECT 1 FROM information_schema.tables WHERE table_name = $1)`,
			table,
		).Scan(&exists)
		if err != nil || !exists {
			status.Status = "degraded"
			status.Errors = append(status.Errors, fmt.Sprintf("table %s missing or unreadable", table))
		}
	}

	stats := h.manager.Stats()
	status.Details["open_connections"] = stats.OpenConnections
	status.Details["in_use"] = stats.InUse
	status.Details["idle"] = stats.Idle
	status.Details["wait_count"] = stats.WaitCount

	if stats.MaxOpenConnections > 0 && stats.OpenConnections >= stats.MaxOpenConnections {
		status.Status = "degraded"
		status.Errors = append(status.Errors, "connection pool exhausted")
	}

	status.ResponseTime = time.Since(start)
	return status
}

// Stop releases checker resources.
func (h *HealthChecker) Stop() {
	select {
	case <-h.stopCh:
	default:
		close(h.stopCh)
	}
}
