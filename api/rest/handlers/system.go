package handlers

import (
	"net/http"

	"text-playground/core/monitoring"
	"text-playground/core/repository"
)

// SystemHandler serves health, stats and metrics endpoints
type SystemHandler struct {
	repo    repository.Store
	metrics *monitoring.MetricsExporter
}

// NewSystemHandler creates a system handler
func NewSystemHandler(repo repository.Store, metrics *monitoring.MetricsExporter) *SystemHandler {
	return &SystemHandler{repo: repo, metrics: metrics}
}

// Health handles GET /health
func (h *SystemHandler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{"status": "healthy"})
}

// Stats handles GET /stats
func (h *SystemHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.repo.Stats()
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"stats": stats})
}

// Metrics handles GET /metrics in Prometheus text format
func (h *SystemHandler) Metrics(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; version=0.0.4")
	w.Write([]byte(h.metrics.GetPrometheusMetrics()))
}
