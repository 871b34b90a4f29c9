package handlers

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"text-playground/core/models"
	"text-playground/core/repository"
)

// ExampleHandler handles labeled-example requests
type ExampleHandler struct {
	repo repository.Store
}

// NewExampleHandler creates an example handler
func NewExampleHandler(repo repository.Store) *ExampleHandler {
	return &ExampleHandler{repo: repo}
}

// AddExamplesRequest represents a batch of texts for one label
type AddExamplesRequest struct {
	Label    string   `json:"label"`
	Examples []string `json:"examples"`
}

// AddExamples handles POST /projects/{id}/examples. The batch is atomic:
// one invalid example rejects the whole request.
func (h *ExampleHandler) AddExamples(w http.ResponseWriter, r *http.Request) {
	var req AddExamplesRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if len(req.Examples) == 0 {
		writeError(w, &models.ValidationError{Msg: "examples must not be empty"})
		return
	}

	added, err := h.repo.AddExamples(mux.Vars(r)["id"], req.Label, req.Examples)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"addedCount": added})
}

// ListExamples handles GET /projects/{id}/examples
func (h *ExampleHandler) ListExamples(w http.ResponseWriter, r *http.Request) {
	dataset, err := h.repo.ListExamples(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"records":  dataset.Records,
		"labels":   dataset.Labels,
		"examples": dataset.Examples,
	})
}

// DeleteExample handles DELETE /projects/{id}/examples/{label}/{index}.
// Index positions count the label's examples in insertion order.
func (h *ExampleHandler) DeleteExample(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	index, err := strconv.Atoi(vars["index"])
	if err != nil || index < 0 {
		writeError(w, &models.InvalidInputError{Msg: "index must be a non-negative integer"})
		return
	}
	if err := h.repo.DeleteExample(vars["id"], vars["label"], index); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"message": "example deleted"})
}

// DeleteLabel handles DELETE /projects/{id}/examples/{label}
func (h *ExampleHandler) DeleteLabel(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	if err := h.repo.DeleteLabel(vars["id"], vars["label"]); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"message": "label deleted"})
}
