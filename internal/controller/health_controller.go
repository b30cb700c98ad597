package controller

import (
	"net/http"

	"github.com/sony/gobreaker/v2"
)

type HealthController struct {
	registry ConnectorRegistry
}

func NewHealthController(registry ConnectorRegistry) *HealthController {
	return &HealthController{registry: registry}
}

func (h *HealthController) Health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *HealthController) Liveness(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "alive"})
}

// Readiness fails only when no connector can take traffic.
func (h *HealthController) Readiness(w http.ResponseWriter, _ *http.Request) {
	names := h.registry.Names()
	if len(names) == 0 {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{
			"status": "not ready",
			"reason": "no connectors registered",
		})
		return
	}

	for _, name := range names {
		if h.registry.BreakerState(name) != gobreaker.StateOpen {
			writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
			return
		}
	}

	writeJSON(w, http.StatusServiceUnavailable, map[string]string{
		"status": "not ready",
		"reason": "all connector circuits open",
	})
}
