// Package handlers contains the HTTP handlers for the honeypot API.
package handlers

import (
	"honeypot-lab/internal/infrastructure/cache"
	"honeypot-lab/internal/infrastructure/database"
	"honeypot-lab/pkg/logger"
)

// Handlers aggregates all HTTP handlers
type Handlers struct {
	Health   *HealthHandler
	Analysis *AnalysisHandler
}

// New creates all handlers with their dependencies
func New(analyzer Analyzer, c *cache.RedisCache, db *database.PostgresDB, log *logger.Logger) *Handlers {
	return &Handlers{
		Health:   NewHealthHandler(c, db, log),
		Analysis: NewAnalysisHandler(analyzer, log),
	}
}
