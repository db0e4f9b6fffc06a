package api

import (
	"net/http"
	"time"

	respond "github.com/ecfrdash/ecfr-dashboard/internal/api/respond"
	"github.com/ecfrdash/ecfr-dashboard/internal/health"
)

// HealthHandler handles health check endpoints
type HealthHandler struct {
	checker *health.ServiceHealthChecker
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(checker *health.ServiceHealthChecker) *HealthHandler {
	return &HealthHandler{checker: checker}
}

// CheckHealth handles GET /api/health
// Always returns 200; body reports healthy/unhealthy. 500 indicates handler failure only.
func (h *HealthHandler) CheckHealth(w http.ResponseWriter, r *http.Request) {
	report := h.checker.Check(r.Context())
	status := "unhealthy"
	if report.Healthy {
		status = "healthy"
	}
	response := map[string]interface{}{
		"status":    status,
		"timestamp": time.Now().Format(time.RFC3339),
		"checks":    report.Checks,
	}
	respond.WriteJSON(w, http.StatusOK, response)
}
