package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/beneficlub/backoffice/internal/shared/logger"
)

const healthCheckTimeout = 2 * time.Second

// HealthChecker reports whether a dependency answers.
type HealthChecker interface {
	Ping(ctx context.Context) error
}

// HealthChecks maps a dependency name to its checker; nil entries are skipped.
type HealthChecks map[string]HealthChecker

type HealthHandler struct {
	checks HealthChecks
	logger logger.Interface
}

func NewHealthHandler(checks HealthChecks, logger logger.Interface) *HealthHandler {
	return &HealthHandler{checks: checks, logger: logger}
}

// Health handles GET /health. Any failing dependency turns the answer 503.
// @Summary		Health check
// @Tags			system
// @Produce		json
// @Success		200	{object}	map[string]interface{}
// @Failure		503	{object}	map[string]interface{}	"Dependency unavailable"
// @Router			/health [get]
func (h *HealthHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), healthCheckTimeout)
	defer cancel()

	status := http.StatusOK
	deps := make(map[string]string, len(h.checks))
	for name, check := range h.checks {
		if check == nil {
			continue
		}
		if err := check.Ping(ctx); err != nil {
			h.logger.Warnw("health check failed", "dependency", name, "error", err)
			deps[name] = "down"
			status = http.StatusServiceUnavailable
			continue
		}
		deps[name] = "up"
	}

	overall := "ok"
	if status != http.StatusOK {
		overall = "degraded"
	}
	c.JSON(status, gin.H{"status": overall, "dependencies": deps})
}
