package models

import "fmt"

// ValidationError indicates a malformed input (bad shape or length).
// Callers can fix the input and retry.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

// InsufficientDataError indicates the dataset is not trainable yet
type InsufficientDataError struct {
	Msg string
}

func (e *InsufficientDataError) Error() string { return e.Msg }

// ConflictError indicates a training job is already active for the project
type ConflictError struct {
	Msg string
}

func (e *ConflictError) Error() string { return e.Msg }

// ModelNotReadyError indicates no ready model exists for the project
type ModelNotReadyError struct {
	ProjectID string
}

func (e *ModelNotReadyError) Error() string {
	return fmt.Sprintf("no trained model for project %s", e.ProjectID)
}

// InvalidInputError indicates unusable prediction input
type InvalidInputError struct {
	Msg string
}

func (e *InvalidInputError) Error() string { return e.Msg }

// NotFoundError indicates a missing resource
type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Resource, e.ID)
}
