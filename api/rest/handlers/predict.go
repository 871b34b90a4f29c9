package handlers

import (
	"net/http"

	"github.com/gorilla/mux"

	"text-playground/core/monitoring"
	"text-playground/core/predictor"
	"text-playground/storage"
)

// PredictHandler handles prediction and model lifecycle requests
type PredictHandler struct {
	predictor *predictor.Service
	manager   *storage.ModelManager
	metrics   *monitoring.MetricsExporter
}

// NewPredictHandler creates a predict handler
func NewPredictHandler(svc *predictor.Service, manager *storage.ModelManager, metrics *monitoring.MetricsExporter) *PredictHandler {
	return &PredictHandler{predictor: svc, manager: manager, metrics: metrics}
}

// PredictRequest represents a prediction request
type PredictRequest struct {
	Text string `json:"text"`
}

// Predict handles POST /projects/{id}/predict
func (h *PredictHandler) Predict(w http.ResponseWriter, r *http.Request) {
	var req PredictRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}

	result, err := h.predictor.Predict(r.Context(), mux.Vars(r)["id"], req.Text)
	if err != nil {
		writeError(w, err)
		return
	}
	h.metrics.IncPredictions()
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"label":        result.Label,
		"confidence":   result.Confidence,
		"alternatives": result.Alternatives,
	})
}

// DeleteModel handles DELETE /projects/{id}/model. Idempotent: deleting a
// project with no model still succeeds.
func (h *PredictHandler) DeleteModel(w http.ResponseWriter, r *http.Request) {
	if err := h.manager.DeleteProjectModels(r.Context(), mux.Vars(r)["id"]); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"message": "model deleted"})
}
