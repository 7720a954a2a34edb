package handlers

import (
	"wisdomwealth-lab/internal/agents"
	"wisdomwealth-lab/internal/config"
	"wisdomwealth-lab/internal/domain/services"
	"wisdomwealth-lab/internal/infrastructure/cache"
	"wisdomwealth-lab/internal/infrastructure/database/repository"
	"wisdomwealth-lab/internal/patterns"
	"wisdomwealth-lab/pkg/logger"
)

// Handlers holds all API handlers
type Handlers struct {
	Health      *HealthHandler
	Advisory    *AdvisoryHandler
	Incidents   *IncidentsHandler
	Alerts      *AlertsHandler
	Preferences *PreferencesHandler
	Patterns    *PatternsHandler
}

// Dependencies holds dependencies for handlers
type Dependencies struct {
	Config      *config.Config
	Coordinator *services.Coordinator
	Registry    *agents.Registry
	Patterns    *patterns.Store
	Cache       *cache.RedisCache
	Repos       *repository.Repositories
	Logger      *logger.Logger
}

// NewHandlers creates all handlers
func NewHandlers(deps Dependencies) *Handlers {
	var prefCache PreferenceCache
	if deps.Cache != nil {
		prefCache = deps.Cache
	}

	return &Handlers{
		Health:      NewHealthHandler(deps.Cache, deps.Repos, deps.Registry, deps.Patterns, deps.Config.App.Version, deps.Logger),
		Advisory:    NewAdvisoryHandler(deps.Coordinator, deps.Config.Agents.MaxInputChars, deps.Logger),
		Incidents:   NewIncidentsHandler(deps.Repos.Incidents, deps.Logger),
		Alerts:      NewAlertsHandler(deps.Repos, deps.Logger),
		Preferences: NewPreferencesHandler(deps.Repos.Preferences, prefCache, deps.Logger),
		Patterns:    NewPatternsHandler(deps.Patterns, deps.Logger),
	}
}
