package monitoring

import (
	"context"
	"log"
	"time"

	"text-playground/core/models"
	"text-playground/core/repository"
)

// JobMonitor watches for stuck jobs. A running job whose start time is
// older than the timeout is assumed orphaned (e.g. its worker died) and is
// failed so the project can train again.
type JobMonitor struct {
	repo     repository.Store
	timeout  time.Duration
	interval time.Duration
	stopChan chan struct{}
}

// NewJobMonitor creates a job monitor with the given stuck-job timeout
func NewJobMonitor(repo repository.Store, timeout time.Duration) *JobMonitor {
	if timeout <= 0 {
		timeout = 10 * time.Minute
	}
	return &JobMonitor{
		repo:     repo,
		timeout:  timeout,
		interval: 30 * time.Second,
		stopChan: make(chan struct{}),
	}
}

// Start runs the monitoring loop until the context is done
func (jm *JobMonitor) Start(ctx context.Context) {
	ticker := time.NewTicker(jm.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-jm.stopChan:
			return
		case <-ticker.C:
			jm.checkRunningJobs()
		}
	}
}

// Stop stops the monitoring loop
func (jm *JobMonitor) Stop() {
	close(jm.stopChan)
}

// checkRunningJobs fails running jobs that exceeded the timeout
func (jm *JobMonitor) checkRunningJobs() {
	jobs, err := jm.repo.ListJobsByStatus(models.JobStatusRunning, 100)
	if err != nil {
		log.Printf("Failed to fetch running jobs: %v", err)
		return
	}

	for _, job := range jobs {
		if job.StartedAt == nil {
			continue
		}
		elapsed := time.Since(*job.StartedAt)
		if elapsed < jm.timeout {
			continue
		}

		log.Printf("Job %s stuck for %s, failing it", job.ID, elapsed.Round(time.Second))
		if err := jm.repo.FailJob(job.ID, "training timed out", "watchdog_timeout"); err != nil {
			log.Printf("Failed to fail stuck job %s: %v", job.ID, err)
			continue
		}
		if err := jm.repo.SetProjectStatus(job.ProjectID, models.ProjectStatusFailed, ""); err != nil {
			log.Printf("Failed to mark project %s failed: %v", job.ProjectID, err)
		}
	}
}
