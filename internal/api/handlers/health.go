package handlers

import (
	"context"
	"net/http"
	"time"

	"wisdomwealth-lab/internal/agents"
	"wisdomwealth-lab/internal/infrastructure/cache"
	"wisdomwealth-lab/internal/infrastructure/database/repository"
	"wisdomwealth-lab/internal/patterns"
	"wisdomwealth-lab/pkg/logger"
)

// HealthHandler handles health check endpoints
type HealthHandler struct {
	cache     *cache.RedisCache
	repos     *repository.Repositories
	registry  *agents.Registry
	patterns  *patterns.Store
	version   string
	logger    *logger.Logger
	startTime time.Time
}

// NewHealthHandler creates a new HealthHandler
func NewHealthHandler(c *cache.RedisCache, repos *repository.Repositories, registry *agents.Registry, store *patterns.Store, version string, log *logger.Logger) *HealthHandler {
	if version == "" {
		version = "1.0.0"
	}
	return &HealthHandler{
		cache:     c,
		repos:     repos,
		registry:  registry,
		patterns:  store,
		version:   version,
		logger:    log.WithComponent("health"),
		startTime: time.Now(),
	}
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status    string          `json:"status"`
	Version   string          `json:"version"`
	Uptime    string          `json:"uptime"`
	Agents    map[string]bool `json:"agents,omitempty"`
	Database  map[string]bool `json:"database,omitempty"`
	Timestamp string          `json:"timestamp"`
}

// Check handles GET /health
func (h *HealthHandler) Check(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{
		Status:    "healthy",
		Version:   h.version,
		Uptime:    time.Since(h.startTime).String(),
		Agents:    h.registry.Availability(),
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}

// Ready handles GET /ready - checks all dependencies
func (h *HealthHandler) Ready(w http.ResponseWriter, r *http.Request) {
	database := make(map[string]bool)
	status := http.StatusOK
	overallStatus := "ready"

	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if h.cache != nil {
		if err := h.cache.Ping(ctx); err != nil {
			database["redis"] = false
			status = http.StatusServiceUnavailable
			overallStatus = "not ready"
		} else {
			database["redis"] = true
		}
	}

	if h.repos != nil {
		if _, err := h.repos.Incidents.ListRecent(ctx, "healthcheck", 1); err != nil {
			database["postgres"] = false
			status = http.StatusServiceUnavailable
			overallStatus = "not ready"
		} else {
			database["postgres"] = true
		}
	}

	database["patterns"] = h.patterns != nil && h.patterns.Ready()

	writeJSON(w, status, HealthResponse{
		Status:    overallStatus,
		Version:   h.version,
		Uptime:    time.Since(h.startTime).String(),
		Agents:    h.registry.Availability(),
		Database:  database,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}
