package models

import "time"

// TrainingJob represents one asynchronous training run for a project
type TrainingJob struct {
	ID          string          `json:"id"`
	ProjectID   string          `json:"projectId"`
	Status      JobStatus       `json:"status"`
	CreatedAt   time.Time       `json:"createdAt"`
	StartedAt   *time.Time      `json:"startedAt,omitempty"`
	CompletedAt *time.Time      `json:"completedAt,omitempty"`
	Error       string          `json:"error,omitempty"`
	Progress    float64         `json:"progress"`
	Config      TrainingConfig  `json:"config"`
	Result      *TrainingResult `json:"result,omitempty"`
}

// JobStatus represents the current status of a training job
type JobStatus string

const (
	JobStatusPending JobStatus = "pending"
	JobStatusRunning JobStatus = "running"
	JobStatusReady   JobStatus = "ready"
	JobStatusFailed  JobStatus = "failed"
)

// Terminal reports whether a job can no longer change state
func (s JobStatus) Terminal() bool {
	return s == JobStatusReady || s == JobStatusFailed
}

// TrainingConfig holds the per-job training parameters. Only ValidationSplit
// affects the solver; the other fields are recorded with the job for
// interface compatibility with the UI.
type TrainingConfig struct {
	Epochs          int     `json:"epochs"`
	BatchSize       int     `json:"batchSize"`
	LearningRate    float64 `json:"learningRate"`
	ValidationSplit float64 `json:"validationSplit"`
}

// DefaultTrainingConfig returns the UI defaults
func DefaultTrainingConfig() TrainingConfig {
	return TrainingConfig{
		Epochs:          100,
		BatchSize:       32,
		LearningRate:    0.001,
		ValidationSplit: 0.2,
	}
}

// TrainingResult is the summary produced by a successful training run.
// Accuracy is a percentage in [0,100] rounded to two decimals.
type TrainingResult struct {
	Accuracy           float64             `json:"accuracy"`
	TrainingExamples   int                 `json:"training_examples"`
	ValidationExamples int                 `json:"validation_examples"`
	TotalFeatures      int                 `json:"total_features"`
	Labels             []string            `json:"labels"`
	FeatureImportance  map[string][]string `json:"feature_importance"`
}

// Alternative is a non-top label with its confidence
type Alternative struct {
	Label      string  `json:"label"`
	Confidence float64 `json:"confidence"`
}

// PredictionResult is the scored outcome of classifying one text.
// Confidence values are percentages in [0,100] rounded to two decimals;
// alternatives exclude the top label and are sorted by confidence descending.
type PredictionResult struct {
	Label        string  `json:"label"`
	Confidence   float64 `json:"confidence"`
	Alternatives []Alternative `json:"alternatives"`
}
