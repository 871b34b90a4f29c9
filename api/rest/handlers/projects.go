package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"text-playground/core/models"
	"text-playground/core/repository"
	"text-playground/storage"
)

// ProjectHandler handles project CRUD requests
type ProjectHandler struct {
	repo    repository.Store
	manager *storage.ModelManager
}

// NewProjectHandler creates a project handler
func NewProjectHandler(repo repository.Store, manager *storage.ModelManager) *ProjectHandler {
	return &ProjectHandler{repo: repo, manager: manager}
}

// CreateProjectRequest represents the request to create a project
type CreateProjectRequest struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Type        string   `json:"type"`
	CreatedBy   string   `json:"createdBy"`
	Tags        []string `json:"tags"`
	Notes       string   `json:"notes"`
}

// CreateProject handles POST /projects
func (h *ProjectHandler) CreateProject(w http.ResponseWriter, r *http.Request) {
	var req CreateProjectRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if req.Name == "" {
		writeError(w, &models.ValidationError{Msg: "name is required"})
		return
	}

	projectType := models.ProjectType(req.Type)
	if req.Type == "" {
		projectType = models.ProjectTypeTextRecognition
	}
	if projectType != models.ProjectTypeTextRecognition && projectType != models.ProjectTypeClassification {
		writeError(w, &models.ValidationError{Msg: "type must be text-recognition or classification"})
		return
	}

	now := time.Now().UTC()
	project := &models.Project{
		ID:          uuid.New().String(),
		Name:        req.Name,
		Description: req.Description,
		Type:        projectType,
		Status:      models.ProjectStatusDraft,
		CreatedBy:   req.CreatedBy,
		Tags:        req.Tags,
		Notes:       req.Notes,
		Config:      models.DefaultTrainingConfig(),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := h.repo.CreateProject(project); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]interface{}{"project": project})
}

// ListProjects handles GET /projects
func (h *ProjectHandler) ListProjects(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := repository.ProjectFilter{
		Status:    q.Get("status"),
		Type:      q.Get("type"),
		CreatedBy: q.Get("createdBy"),
		Search:    q.Get("search"),
		Limit:     50,
	}
	if limit := q.Get("limit"); limit != "" {
		if n, err := strconv.Atoi(limit); err == nil && n > 0 {
			filter.Limit = n
		}
	}
	if offset := q.Get("offset"); offset != "" {
		if n, err := strconv.Atoi(offset); err == nil && n >= 0 {
			filter.Offset = n
		}
	}

	projects, total, err := h.repo.ListProjects(filter)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"items": projects,
		"total": total,
	})
}

// GetProject handles GET /projects/{id}
func (h *ProjectHandler) GetProject(w http.ResponseWriter, r *http.Request) {
	project, err := h.repo.GetProject(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"project": project})
}

// UpdateProjectRequest carries the mutable project fields; nil fields are
// left unchanged.
type UpdateProjectRequest struct {
	Name        *string   `json:"name"`
	Description *string   `json:"description"`
	Tags        *[]string `json:"tags"`
	Notes       *string   `json:"notes"`
}

// UpdateProject handles PUT /projects/{id}
func (h *ProjectHandler) UpdateProject(w http.ResponseWriter, r *http.Request) {
	var req UpdateProjectRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}

	project, err := h.repo.GetProject(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}

	if req.Name != nil {
		if *req.Name == "" {
			writeError(w, &models.ValidationError{Msg: "name must not be empty"})
			return
		}
		project.Name = *req.Name
	}
	if req.Description != nil {
		project.Description = *req.Description
	}
	if req.Tags != nil {
		project.Tags = *req.Tags
	}
	if req.Notes != nil {
		project.Notes = *req.Notes
	}

	if err := h.repo.UpdateProject(project); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"project": project})
}

// DeleteProject handles DELETE /projects/{id}. Model artifacts go first so
// no blobs are orphaned by the row cascade.
func (h *ProjectHandler) DeleteProject(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if err := h.manager.DeleteProjectModels(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	if err := h.repo.DeleteProject(id); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"message": "project deleted"})
}

// GetProjectStatus handles GET /projects/{id}/status
func (h *ProjectHandler) GetProjectStatus(w http.ResponseWriter, r *http.Request) {
	project, err := h.repo.GetProject(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"projectStatus": project.Status,
		"dataset":       project.Dataset,
		"model":         project.Model,
		"currentJobId":  project.CurrentJobID,
	})
}
