package scheduler

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"text-playground/core/models"
	"text-playground/core/repository"
	"text-playground/dispatch"
)

// statusHistoryLimit caps the job history returned with a training status
const statusHistoryLimit = 50

// Canceller interrupts a job executing in this process. Nil when jobs run
// in a separate worker process.
type Canceller interface {
	Cancel(jobID string) bool
}

// Scheduler accepts training requests, enforces the one-active-job-per-
// project rule and hands accepted jobs to the dispatcher.
type Scheduler struct {
	repo       repository.Store
	dispatcher dispatch.Dispatcher
	canceller  Canceller
}

// TrainingStatus is the poll view of a project's training activity
type TrainingStatus struct {
	ProjectStatus models.ProjectStatus  `json:"projectStatus"`
	CurrentJob    *models.TrainingJob   `json:"currentJob"`
	AllJobs       []*models.TrainingJob `json:"allJobs"`
	TotalJobs     int                   `json:"totalJobs"`
}

// NewScheduler creates a scheduler. canceller may be nil.
func NewScheduler(repo repository.Store, dispatcher dispatch.Dispatcher, canceller Canceller) *Scheduler {
	return &Scheduler{
		repo:       repo,
		dispatcher: dispatcher,
		canceller:  canceller,
	}
}

// EnqueueTraining creates a pending job for the project and dispatches it.
// A project with a pending or running job rejects further requests until
// that job reaches a terminal state.
func (s *Scheduler) EnqueueTraining(ctx context.Context, projectID string, cfg models.TrainingConfig) (*models.TrainingJob, error) {
	if err := validateConfig(cfg); err != nil {
		return nil, err
	}
	if _, err := s.repo.GetProject(projectID); err != nil {
		return nil, err
	}

	// Early check for the friendlier message; CreateJob enforces the rule
	// atomically, so concurrent requests that both pass this point still
	// resolve to a single created job.
	active, err := s.repo.GetActiveJob(projectID)
	if err != nil {
		return nil, err
	}
	if active != nil {
		return nil, &models.ConflictError{
			Msg: fmt.Sprintf("training already in progress for project %s (job %s is %s)", projectID, active.ID, active.Status),
		}
	}

	job := &models.TrainingJob{
		ID:        uuid.New().String(),
		ProjectID: projectID,
		Status:    models.JobStatusPending,
		CreatedAt: time.Now().UTC(),
		Config:    cfg,
	}
	if err := s.repo.CreateJob(job); err != nil {
		return nil, err
	}
	if err := s.repo.SetProjectStatus(projectID, models.ProjectStatusQueued, job.ID); err != nil {
		return nil, err
	}

	if err := s.dispatcher.Publish(ctx, job.ID); err != nil {
		log.Printf("Failed to dispatch job %s: %v", job.ID, err)
		if ferr := s.repo.FailJob(job.ID, "dispatch failed: "+err.Error(), "dispatch_failed"); ferr != nil {
			log.Printf("Failed to mark job %s failed: %v", job.ID, ferr)
		}
		if serr := s.repo.SetProjectStatus(projectID, models.ProjectStatusFailed, ""); serr != nil {
			log.Printf("Failed to mark project %s failed: %v", projectID, serr)
		}
		return nil, fmt.Errorf("dispatch job: %w", err)
	}

	log.Printf("Enqueued training job %s for project %s", job.ID, projectID)
	return job, nil
}

// GetStatus returns the project's training state: the active job when one
// exists, otherwise the most recent job, plus recent history.
func (s *Scheduler) GetStatus(projectID string) (*TrainingStatus, error) {
	project, err := s.repo.GetProject(projectID)
	if err != nil {
		return nil, err
	}

	current, err := s.repo.GetActiveJob(projectID)
	if err != nil {
		return nil, err
	}
	jobs, err := s.repo.ListJobs(projectID, statusHistoryLimit)
	if err != nil {
		return nil, err
	}
	if current == nil && len(jobs) > 0 {
		current = jobs[0]
	}
	total, err := s.repo.CountJobs(projectID)
	if err != nil {
		return nil, err
	}

	return &TrainingStatus{
		ProjectStatus: project.Status,
		CurrentJob:    current,
		AllJobs:       jobs,
		TotalJobs:     total,
	}, nil
}

// CancelJob cancels a pending or running job. Cancellation of a running
// job is best-effort: the executing goroutine is interrupted, and the job
// is marked failed so later polls see the outcome.
func (s *Scheduler) CancelJob(jobID string) error {
	job, err := s.repo.GetJob(jobID)
	if err != nil {
		return err
	}
	if job.Status.Terminal() {
		return &models.ConflictError{
			Msg: fmt.Sprintf("job %s already finished with status %s", jobID, job.Status),
		}
	}

	if s.canceller != nil {
		s.canceller.Cancel(jobID)
	}
	if err := s.repo.FailJob(jobID, "cancelled", "user_cancelled"); err != nil {
		return err
	}

	// FailJob no-ops if the job went terminal between our check and now. Re-
	// read the outcome: the project only moves to failed when the
	// cancellation actually landed, so a completion that won the race keeps
	// its trained state.
	job, err = s.repo.GetJob(jobID)
	if err != nil {
		return err
	}
	if job.Status != models.JobStatusFailed {
		return &models.ConflictError{
			Msg: fmt.Sprintf("job %s already finished with status %s", jobID, job.Status),
		}
	}
	if err := s.repo.SetProjectStatus(job.ProjectID, models.ProjectStatusFailed, ""); err != nil {
		return err
	}
	log.Printf("Cancelled job %s for project %s", jobID, job.ProjectID)
	return nil
}

func validateConfig(cfg models.TrainingConfig) error {
	if cfg.Epochs <= 0 {
		return &models.ValidationError{Msg: "epochs must be positive"}
	}
	if cfg.BatchSize <= 0 {
		return &models.ValidationError{Msg: "batchSize must be positive"}
	}
	if cfg.LearningRate <= 0 {
		return &models.ValidationError{Msg: "learningRate must be positive"}
	}
	if cfg.ValidationSplit < 0 || cfg.ValidationSplit >= 1 {
		return &models.ValidationError{Msg: "validationSplit must be in [0, 1)"}
	}
	return nil
}
