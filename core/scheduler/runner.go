package scheduler

import (
	"context"
	"log"
	"sync"

	"text-playground/core/engine"
	"text-playground/core/models"
	"text-playground/core/repository"
	"text-playground/storage"
)

// Runner executes a single training job end to end: load the dataset,
// train, publish the model and record the outcome. Jobs for the same
// project are serialized; distinct projects train concurrently.
type Runner struct {
	repo    repository.Store
	manager *storage.ModelManager
	engCfg  engine.Config

	mu           sync.Mutex
	projectLocks map[string]*sync.Mutex
	cancels      map[string]context.CancelFunc
}

// NewRunner creates a job runner. engCfg carries the deployment-wide
// training knobs (seed, per-label example bounds); the per-job validation
// split comes from the job itself.
func NewRunner(repo repository.Store, manager *storage.ModelManager, engCfg engine.Config) *Runner {
	return &Runner{
		repo:         repo,
		manager:      manager,
		engCfg:       engCfg,
		projectLocks: make(map[string]*sync.Mutex),
		cancels:      make(map[string]context.CancelFunc),
	}
}

// Run executes one job. Jobs that are no longer pending are skipped, so a
// cancelled or duplicate dispatch is harmless.
func (r *Runner) Run(ctx context.Context, jobID string) {
	job, err := r.repo.GetJob(jobID)
	if err != nil {
		log.Printf("Failed to fetch job %s: %v", jobID, err)
		return
	}
	if job.Status != models.JobStatusPending {
		log.Printf("Skipping job %s in state %s", jobID, job.Status)
		return
	}

	lock := r.projectLock(job.ProjectID)
	lock.Lock()
	defer lock.Unlock()

	runCtx, cancel := context.WithCancel(ctx)
	r.mu.Lock()
	r.cancels[jobID] = cancel
	r.mu.Unlock()
	defer func() {
		cancel()
		r.mu.Lock()
		delete(r.cancels, jobID)
		r.mu.Unlock()
	}()

	// Claim the job. Losing this race means it was cancelled while queued.
	if err := r.repo.MarkJobRunning(jobID); err != nil {
		log.Printf("Job %s not claimable: %v", jobID, err)
		return
	}
	if err := r.repo.SetProjectStatus(job.ProjectID, models.ProjectStatusTraining, jobID); err != nil {
		log.Printf("Failed to mark project %s training: %v", job.ProjectID, err)
	}
	r.progress(jobID, 10)

	dataset, err := r.repo.ListExamples(job.ProjectID)
	if err != nil {
		r.fail(job, "load examples: "+err.Error(), "load_failed")
		return
	}
	r.progress(jobID, 25)

	cfg := r.engCfg
	cfg.ValidationSplit = job.Config.ValidationSplit
	trainer := engine.NewTrainer(cfg)

	result, model, err := trainer.Train(dataset.Examples)
	if err != nil {
		r.fail(job, err.Error(), "training_failed")
		return
	}
	if runCtx.Err() != nil {
		r.fail(job, "cancelled", "user_cancelled")
		return
	}
	r.progress(jobID, 70)

	info, err := r.manager.Publish(runCtx, job.ProjectID, model, result)
	if err != nil {
		r.fail(job, "publish model: "+err.Error(), "publish_failed")
		return
	}
	r.progress(jobID, 90)

	if err := r.repo.CompleteJob(jobID, result); err != nil {
		log.Printf("Failed to complete job %s: %v", jobID, err)
		return
	}

	// CompleteJob no-ops if a cancellation already made the job terminal.
	// Only a job that actually ended ready gets to flip the project's model
	// pointer, so a cancelled training never surfaces its artifact.
	done, err := r.repo.GetJob(jobID)
	if err != nil {
		log.Printf("Failed to fetch job %s after completion: %v", jobID, err)
		return
	}
	if done.Status != models.JobStatusReady {
		log.Printf("Job %s ended %s after publish; project model left untouched", jobID, done.Status)
		return
	}
	if err := r.repo.SetProjectModel(job.ProjectID, info, models.ProjectStatusTrained); err != nil {
		log.Printf("Failed to set model for project %s: %v", job.ProjectID, err)
		return
	}
	log.Printf("Job %s trained model v%d for project %s (accuracy %.2f)",
		jobID, info.Version, job.ProjectID, result.Accuracy)
}

// Cancel interrupts a running job's context. Returns false when the job is
// not currently executing here.
func (r *Runner) Cancel(jobID string) bool {
	r.mu.Lock()
	cancel, ok := r.cancels[jobID]
	r.mu.Unlock()
	if ok {
		cancel()
	}
	return ok
}

func (r *Runner) fail(job *models.TrainingJob, errMsg, reason string) {
	log.Printf("Job %s failed: %s", job.ID, errMsg)
	if err := r.repo.FailJob(job.ID, errMsg, reason); err != nil {
		log.Printf("Failed to mark job %s failed: %v", job.ID, err)
	}
	if err := r.repo.SetProjectStatus(job.ProjectID, models.ProjectStatusFailed, ""); err != nil {
		log.Printf("Failed to mark project %s failed: %v", job.ProjectID, err)
	}
}

func (r *Runner) progress(jobID string, pct float64) {
	if err := r.repo.UpdateJobProgress(jobID, pct); err != nil {
		log.Printf("Failed to update progress for job %s: %v", jobID, err)
	}
}

func (r *Runner) projectLock(projectID string) *sync.Mutex {
	r.mu.Lock()
	defer r.mu.Unlock()
	lock, ok := r.projectLocks[projectID]
	if !ok {
		lock = &sync.Mutex{}
		r.projectLocks[projectID] = lock
	}
	return lock
}
