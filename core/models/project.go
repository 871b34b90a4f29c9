package models

import "time"

// Project represents a text-classification project built in the playground
type Project struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Type        ProjectType    `json:"type"`
	Status      ProjectStatus  `json:"status"`
	CreatedBy   string         `json:"createdBy"`
	Tags        []string       `json:"tags"`
	Notes       string         `json:"notes"`
	Config      TrainingConfig `json:"config"`
	Dataset     DatasetSummary `json:"dataset"`
	Model       ModelInfo      `json:"model"`
	CurrentJobID string        `json:"currentJobId,omitempty"`
	CreatedAt   time.Time      `json:"createdAt"`
	UpdatedAt   time.Time      `json:"updatedAt"`
}

// ProjectType represents the kind of project
type ProjectType string

const (
	ProjectTypeTextRecognition ProjectType = "text-recognition"
	ProjectTypeClassification  ProjectType = "classification"
)

// ProjectStatus represents the lifecycle state of a project
type ProjectStatus string

const (
	ProjectStatusDraft    ProjectStatus = "draft"
	ProjectStatusQueued   ProjectStatus = "queued"
	ProjectStatusTraining ProjectStatus = "training"
	ProjectStatusTrained  ProjectStatus = "trained"
	ProjectStatusFailed   ProjectStatus = "failed"
)

// DatasetSummary is the per-project dataset summary kept in sync with the
// stored examples: records is the example count, labels the distinct label set.
type DatasetSummary struct {
	Records int      `json:"records"`
	Labels  []string `json:"labels"`
}

// ModelInfo describes the currently published model for a project.
// A zero URI means no trained model exists.
type ModelInfo struct {
	URI       string     `json:"uri,omitempty"`
	Version   int        `json:"version,omitempty"`
	ModelType string     `json:"modelType,omitempty"`
	Accuracy  float64    `json:"accuracy,omitempty"`
	Labels    []string   `json:"labels,omitempty"`
	TrainedAt *time.Time `json:"trainedAt,omitempty"`
}

// ModelTypeSoftmaxRegression is the only model family the engine trains.
const ModelTypeSoftmaxRegression = "softmax_regression"
