package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"

	"text-playground/core/models"
)

// writeJSON writes a success envelope with the given payload fields
func writeJSON(w http.ResponseWriter, status int, payload map[string]interface{}) {
	body := map[string]interface{}{"success": true}
	for k, v := range payload {
		body[k] = v
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Printf("Failed to encode response: %v", err)
	}
}

// writeError maps domain errors to HTTP status codes and writes a failure
// envelope.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError

	var (
		validationErr   *models.ValidationError
		insufficientErr *models.InsufficientDataError
		invalidErr      *models.InvalidInputError
		conflictErr     *models.ConflictError
		notReadyErr     *models.ModelNotReadyError
		notFoundErr     *models.NotFoundError
	)
	switch {
	case errors.As(err, &validationErr),
		errors.As(err, &insufficientErr),
		errors.As(err, &invalidErr):
		status = http.StatusUnprocessableEntity
	case errors.As(err, &conflictErr):
		status = http.StatusConflict
	case errors.As(err, &notReadyErr), errors.As(err, &notFoundErr):
		status = http.StatusNotFound
	}

	if status == http.StatusInternalServerError {
		log.Printf("Internal error: %v", err)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"success": false,
		"error":   err.Error(),
	})
}

// decodeBody decodes a JSON request body. An empty body leaves dst
// untouched, so endpoints with all-optional fields accept no body at all.
func decodeBody(r *http.Request, dst interface{}) error {
	err := json.NewDecoder(r.Body).Decode(dst)
	if err == nil || errors.Is(err, io.EOF) {
		return nil
	}
	return &models.InvalidInputError{Msg: "invalid request body: " + err.Error()}
}
