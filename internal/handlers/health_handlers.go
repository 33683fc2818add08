package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

const healthCheckTimeout = 2 * time.Second

// Pinger is any dependency that can report its reachability
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandlers handles health check and monitoring endpoints
type HealthHandlers struct {
	version string
	db      Pinger
	redis   Pinger // nil when redis is disabled
	storage Pinger // nil when object storage is disabled
	started time.Time
}

// NewHealthHandlers creates a new health handlers instance. redis and storage may be nil.
func NewHealthHandlers(version string, db, redis, storage Pinger) *HealthHandlers {
	return &HealthHandlers{
		version: version,
		db:      db,
		redis:   redis,
		storage: storage,
		started: time.Now(),
	}
}

// HealthStatus represents the overall health status
type HealthStatus struct {
	Status    string            `json:"status"`
	Timestamp string            `json:"timestamp"`
	Services  map[string]string `json:"services"`
	Uptime    string            `json:"uptime"`
	Version   string            `json:"version"`
}

func (h *HealthHandlers) check(ctx context.Context, p Pinger) string {
	if p == nil {
		return "disabled"
	}
	ctx, cancel := context.WithTimeout(ctx, healthCheckTimeout)
	defer cancel()
	if err := p.Ping(ctx); err != nil {
		return "unhealthy"
	}
	return "healthy"
}

// HealthCheck handles GET /health
func (h *HealthHandlers) HealthCheck(c echo.Context) error {
	ctx := c.Request().Context()
	health := &HealthStatus{
		Status:    "healthy",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Services: map[string]string{
			"database": h.check(ctx, h.db),
			"redis":    h.check(ctx, h.redis),
			"storage":  h.check(ctx, h.storage),
		},
		Uptime:  time.Since(h.started).Round(time.Second).String(),
		Version: h.version,
	}
	for _, state := range health.Services {
		if state == "unhealthy" {
			health.Status = "degraded"
		}
	}
	return c.JSON(http.StatusOK, health)
}

// ReadinessCheck handles GET /health/ready; the database and redis are critical
func (h *HealthHandlers) ReadinessCheck(c echo.Context) error {
	ctx := c.Request().Context()
	if h.check(ctx, h.db) == "unhealthy" || h.check(ctx, h.redis) == "unhealthy" {
		return c.JSON(http.StatusServiceUnavailable, map[string]string{
			"status":  "not_ready",
			"message": "Critical services unavailable",
		})
	}
	return c.JSON(http.StatusOK, map[string]string{
		"status":  "ready",
		"message": "All systems operational",
	})
}

// LivenessCheck handles GET /health/live
func (h *HealthHandlers) LivenessCheck(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status":    "alive",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}
