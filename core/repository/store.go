package repository

import "text-playground/core/models"

// ProjectFilter narrows project listings
type ProjectFilter struct {
	Status    string
	Type      string
	CreatedBy string
	Search    string
	Limit     int
	Offset    int
}

// ProjectRepository persists projects and their labeled examples. Example
// mutations update the project's dataset summary atomically, so readers
// never observe a summary that disagrees with the stored examples.
type ProjectRepository interface {
	CreateProject(p *models.Project) error
	GetProject(id string) (*models.Project, error)
	ListProjects(f ProjectFilter) ([]*models.Project, int, error)
	UpdateProject(p *models.Project) error
	DeleteProject(id string) error

	AddExamples(projectID, label string, texts []string) (int, error)
	ListExamples(projectID string) (*models.Dataset, error)
	DeleteExample(projectID, label string, index int) error
	DeleteLabel(projectID, label string) error

	SetProjectStatus(projectID string, status models.ProjectStatus, currentJobID string) error
	SetProjectModel(projectID string, info models.ModelInfo, status models.ProjectStatus) error
}

// JobRepository persists training jobs and their event log. Status
// transitions are guarded: terminal jobs are never modified, so a late
// completion cannot overwrite a cancellation or vice versa.
type JobRepository interface {
	// CreateJob inserts a pending job. At most one non-terminal job may
	// exist per project; a second insert fails with ConflictError, enforced
	// inside the store so concurrent creates cannot both succeed.
	CreateJob(j *models.TrainingJob) error
	GetJob(id string) (*models.TrainingJob, error)
	// GetActiveJob returns the pending or running job for a project, or nil.
	GetActiveJob(projectID string) (*models.TrainingJob, error)
	ListJobs(projectID string, limit int) ([]*models.TrainingJob, error)
	CountJobs(projectID string) (int, error)
	ListJobsByStatus(status models.JobStatus, limit int) ([]*models.TrainingJob, error)

	// MarkJobRunning transitions pending -> running; it fails if the job is
	// in any other state.
	MarkJobRunning(id string) error
	UpdateJobProgress(id string, progress float64) error
	// CompleteJob transitions to ready with the result. No-op on terminal jobs.
	CompleteJob(id string, result *models.TrainingResult) error
	// FailJob transitions to failed with an error message. No-op on terminal jobs.
	FailJob(id string, errMsg, reason string) error

	GetJobEvents(jobID string, limit int) ([]models.JobEvent, error)
}

// ModelRepository tracks published model artifact versions per project
type ModelRepository interface {
	NextModelVersion(projectID string) (int, error)
	CreateModelVersion(projectID string, info models.ModelInfo) error
	ListModelVersions(projectID string) ([]models.ModelInfo, error)
	// DeleteModelVersions removes all versions and returns their artifact URIs.
	DeleteModelVersions(projectID string) ([]string, error)
}

// StatsRepository aggregates counts for observability endpoints
type StatsRepository interface {
	Stats() (*models.SystemStats, error)
}

// Store is the full persistence surface of the service
type Store interface {
	ProjectRepository
	JobRepository
	ModelRepository
	StatsRepository
}
