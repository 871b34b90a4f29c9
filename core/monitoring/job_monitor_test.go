package monitoring

import (
	"testing"
	"time"

	"text-playground/core/models"
	"text-playground/core/repository"
)

func TestJobMonitorFailsStuckJobs(t *testing.T) {
	repo := repository.NewMemoryStore()
	p := &models.Project{Name: "mood detector"}
	if err := repo.CreateProject(p); err != nil {
		t.Fatalf("CreateProject() error: %v", err)
	}
	job := &models.TrainingJob{ProjectID: p.ID}
	if err := repo.CreateJob(job); err != nil {
		t.Fatalf("CreateJob() error: %v", err)
	}
	if err := repo.MarkJobRunning(job.ID); err != nil {
		t.Fatalf("MarkJobRunning() error: %v", err)
	}

	jm := NewJobMonitor(repo, time.Millisecond)
	time.Sleep(5 * time.Millisecond)
	jm.checkRunningJobs()

	got, err := repo.GetJob(job.ID)
	if err != nil {
		t.Fatalf("GetJob() error: %v", err)
	}
	if got.Status != models.JobStatusFailed {
		t.Errorf("job status = %q, want failed", got.Status)
	}
	if got.Error != "training timed out" {
		t.Errorf("job error = %q", got.Error)
	}

	project, err := repo.GetProject(p.ID)
	if err != nil {
		t.Fatalf("GetProject() error: %v", err)
	}
	if project.Status != models.ProjectStatusFailed {
		t.Errorf("project status = %q, want failed", project.Status)
	}
}

func TestJobMonitorLeavesFreshJobsAlone(t *testing.T) {
	repo := repository.NewMemoryStore()
	p := &models.Project{Name: "mood detector"}
	if err := repo.CreateProject(p); err != nil {
		t.Fatalf("CreateProject() error: %v", err)
	}
	job := &models.TrainingJob{ProjectID: p.ID}
	if err := repo.CreateJob(job); err != nil {
		t.Fatalf("CreateJob() error: %v", err)
	}
	if err := repo.MarkJobRunning(job.ID); err != nil {
		t.Fatalf("MarkJobRunning() error: %v", err)
	}

	jm := NewJobMonitor(repo, time.Hour)
	jm.checkRunningJobs()

	got, err := repo.GetJob(job.ID)
	if err != nil {
		t.Fatalf("GetJob() error: %v", err)
	}
	if got.Status != models.JobStatusRunning {
		t.Errorf("job status = %q, want running", got.Status)
	}
}
