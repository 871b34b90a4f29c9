package scheduler

import (
	"context"
	"testing"
	"time"

	"text-playground/core/engine"
	"text-playground/core/models"
	"text-playground/core/repository"
	"text-playground/dispatch"
	"text-playground/storage"
)

func TestWorkerRunsDispatchedJob(t *testing.T) {
	repo := repository.NewMemoryStore()
	store, err := storage.NewFSStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFSStore() error: %v", err)
	}
	manager := storage.NewModelManager(store, repo)
	runner := NewRunner(repo, manager, engine.Config{})

	dispatcher := dispatch.NewInProcDispatcher()
	defer dispatcher.Close()
	sched := NewScheduler(repo, dispatcher, runner)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	worker := NewWorker(repo, runner, dispatcher, 2)
	if err := worker.Start(ctx); err != nil {
		t.Fatalf("Start() error: %v", err)
	}
	defer worker.Stop()

	p := &models.Project{Name: "mood detector"}
	if err := repo.CreateProject(p); err != nil {
		t.Fatalf("CreateProject() error: %v", err)
	}
	for label, texts := range trainableExamples() {
		if _, err := repo.AddExamples(p.ID, label, texts); err != nil {
			t.Fatalf("AddExamples() error: %v", err)
		}
	}

	job, err := sched.EnqueueTraining(ctx, p.ID, models.DefaultTrainingConfig())
	if err != nil {
		t.Fatalf("EnqueueTraining() error: %v", err)
	}

	deadline := time.Now().Add(15 * time.Second)
	for {
		got, err := repo.GetJob(job.ID)
		if err != nil {
			t.Fatalf("GetJob() error: %v", err)
		}
		if got.Status.Terminal() {
			if got.Status != models.JobStatusReady {
				t.Fatalf("job finished %q (error %q), want ready", got.Status, got.Error)
			}
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("job still %q after deadline", got.Status)
		}
		time.Sleep(50 * time.Millisecond)
	}

	project, err := repo.GetProject(p.ID)
	if err != nil {
		t.Fatalf("GetProject() error: %v", err)
	}
	if project.Status != models.ProjectStatusTrained {
		t.Errorf("project status = %q, want trained", project.Status)
	}
}
