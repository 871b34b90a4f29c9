package handlers

import (
	"net/http"

	"github.com/gorilla/mux"

	"text-playground/core/models"
	"text-playground/core/monitoring"
	"text-playground/core/repository"
	"text-playground/core/scheduler"
)

// TrainingHandler handles training lifecycle requests
type TrainingHandler struct {
	repo      repository.Store
	scheduler *scheduler.Scheduler
	metrics   *monitoring.MetricsExporter
}

// NewTrainingHandler creates a training handler
func NewTrainingHandler(repo repository.Store, sched *scheduler.Scheduler, metrics *monitoring.MetricsExporter) *TrainingHandler {
	return &TrainingHandler{repo: repo, scheduler: sched, metrics: metrics}
}

// TrainRequest carries optional training parameters; omitted fields fall
// back to the defaults.
type TrainRequest struct {
	Epochs          *int     `json:"epochs"`
	BatchSize       *int     `json:"batchSize"`
	LearningRate    *float64 `json:"learningRate"`
	ValidationSplit *float64 `json:"validationSplit"`
}

// StartTraining handles POST /projects/{id}/train
func (h *TrainingHandler) StartTraining(w http.ResponseWriter, r *http.Request) {
	var req TrainRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}

	cfg := models.DefaultTrainingConfig()
	if req.Epochs != nil {
		cfg.Epochs = *req.Epochs
	}
	if req.BatchSize != nil {
		cfg.BatchSize = *req.BatchSize
	}
	if req.LearningRate != nil {
		cfg.LearningRate = *req.LearningRate
	}
	if req.ValidationSplit != nil {
		cfg.ValidationSplit = *req.ValidationSplit
	}

	job, err := h.scheduler.EnqueueTraining(r.Context(), mux.Vars(r)["id"], cfg)
	if err != nil {
		writeError(w, err)
		return
	}
	h.metrics.IncTrainings()
	writeJSON(w, http.StatusAccepted, map[string]interface{}{"jobId": job.ID})
}

// GetTraining handles GET /projects/{id}/train
func (h *TrainingHandler) GetTraining(w http.ResponseWriter, r *http.Request) {
	status, err := h.scheduler.GetStatus(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"projectStatus": status.ProjectStatus,
		"currentJob":    status.CurrentJob,
		"allJobs":       status.AllJobs,
		"totalJobs":     status.TotalJobs,
	})
}

// GetJob handles GET /jobs/{id}
func (h *TrainingHandler) GetJob(w http.ResponseWriter, r *http.Request) {
	job, err := h.repo.GetJob(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"job": job})
}

// CancelJob handles POST /jobs/{id}/cancel
func (h *TrainingHandler) CancelJob(w http.ResponseWriter, r *http.Request) {
	jobID := mux.Vars(r)["id"]
	if err := h.scheduler.CancelJob(jobID); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"jobId":  jobID,
		"status": string(models.JobStatusFailed),
	})
}

// GetJobEvents handles GET /jobs/{id}/events
func (h *TrainingHandler) GetJobEvents(w http.ResponseWriter, r *http.Request) {
	jobID := mux.Vars(r)["id"]
	if _, err := h.repo.GetJob(jobID); err != nil {
		writeError(w, err)
		return
	}
	events, err := h.repo.GetJobEvents(jobID, 100)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"items": events})
}
