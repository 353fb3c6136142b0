package api

import (
	"net/http"
	"time"

	"github.com/dineguide/dineguide/internal/api/respond"
)

// ServiceHealth is the aggregated view the health endpoint reports.
type ServiceHealth interface {
	IsHealthy() bool
	Components() map[string]bool
}

// HealthHandler handles health check endpoints
type HealthHandler struct {
	health ServiceHealth
}

func NewHealthHandler(h ServiceHealth) *HealthHandler { return &HealthHandler{health: h} }

// CheckHealth handles GET /api/health.
// Always returns 200; the body reports healthy/unhealthy per component.
func (h *HealthHandler) CheckHealth(w http.ResponseWriter, r *http.Request) {
	status := "unhealthy"
	components := map[string]bool{}
	if h.health != nil {
		if h.health.IsHealthy() {
			status = "healthy"
		}
		components = h.health.Components()
	}
	respond.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"status":     status,
		"components": components,
		"timestamp":  time.Now().Format(time.RFC3339),
	})
}
