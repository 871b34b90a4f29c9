package storage

import (
	"context"
	"testing"

	"text-playground/core/engine"
	"text-playground/core/models"
	"text-playground/core/repository"
)

func newTestManager(t *testing.T) (*ModelManager, repository.Store) {
	t.Helper()
	repo := repository.NewMemoryStore()
	store, err := NewFSStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFSStore() error: %v", err)
	}
	return NewModelManager(store, repo), repo
}

func trainTestModel(t *testing.T) (*models.TrainingResult, *engine.Model) {
	t.Helper()
	examples := []models.Example{
		{Text: "love sunny mornings", Label: "happy"},
		{Text: "joyful wonderful feeling", Label: "happy"},
		{Text: "terrible awful pain", Label: "sad"},
		{Text: "gloomy miserable rain", Label: "sad"},
	}
	result, model, err := engine.NewTrainer(engine.Config{ValidationSplit: 0}).Train(examples)
	if err != nil {
		t.Fatalf("Train() error: %v", err)
	}
	return result, model
}

func TestPublishRecordsVersionWithoutTouchingProject(t *testing.T) {
	manager, repo := newTestManager(t)
	p := &models.Project{Name: "mood detector"}
	if err := repo.CreateProject(p); err != nil {
		t.Fatalf("CreateProject() error: %v", err)
	}
	result, model := trainTestModel(t)

	info, err := manager.Publish(context.Background(), p.ID, model, result)
	if err != nil {
		t.Fatalf("Publish() error: %v", err)
	}
	if info.Version != 1 {
		t.Errorf("Version = %d, want 1", info.Version)
	}
	if info.ModelType != models.ModelTypeSoftmaxRegression {
		t.Errorf("ModelType = %q", info.ModelType)
	}

	// Flipping the project's pointer is the job runner's decision, taken
	// after the job reaches ready. Publish itself must leave it alone.
	project, err := repo.GetProject(p.ID)
	if err != nil {
		t.Fatalf("GetProject() error: %v", err)
	}
	if project.Model.URI != "" {
		t.Errorf("project model URI = %q, want empty after bare Publish", project.Model.URI)
	}

	versions, err := repo.ListModelVersions(p.ID)
	if err != nil {
		t.Fatalf("ListModelVersions() error: %v", err)
	}
	if len(versions) != 1 || versions[0].URI != info.URI {
		t.Errorf("versions = %v, want the published info", versions)
	}

	loaded, err := manager.Load(context.Background(), info.URI)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if loaded.Version != 1 {
		t.Errorf("loaded version = %d, want 1", loaded.Version)
	}
}

func TestPublishSupersedesPreviousVersion(t *testing.T) {
	manager, repo := newTestManager(t)
	p := &models.Project{Name: "mood detector"}
	if err := repo.CreateProject(p); err != nil {
		t.Fatalf("CreateProject() error: %v", err)
	}

	result, model := trainTestModel(t)
	if _, err := manager.Publish(context.Background(), p.ID, model, result); err != nil {
		t.Fatalf("Publish() error: %v", err)
	}
	result2, model2 := trainTestModel(t)
	info, err := manager.Publish(context.Background(), p.ID, model2, result2)
	if err != nil {
		t.Fatalf("second Publish() error: %v", err)
	}
	if info.Version != 2 {
		t.Errorf("Version = %d, want 2", info.Version)
	}

	versions, err := repo.ListModelVersions(p.ID)
	if err != nil {
		t.Fatalf("ListModelVersions() error: %v", err)
	}
	if len(versions) != 2 {
		t.Errorf("len(versions) = %d, want 2", len(versions))
	}
}

func TestDeleteProjectModels(t *testing.T) {
	manager, repo := newTestManager(t)
	p := &models.Project{Name: "mood detector"}
	if err := repo.CreateProject(p); err != nil {
		t.Fatalf("CreateProject() error: %v", err)
	}
	result, model := trainTestModel(t)
	info, err := manager.Publish(context.Background(), p.ID, model, result)
	if err != nil {
		t.Fatalf("Publish() error: %v", err)
	}

	if err := manager.DeleteProjectModels(context.Background(), p.ID); err != nil {
		t.Fatalf("DeleteProjectModels() error: %v", err)
	}

	project, err := repo.GetProject(p.ID)
	if err != nil {
		t.Fatalf("GetProject() error: %v", err)
	}
	if project.Status != models.ProjectStatusDraft {
		t.Errorf("project status = %q, want draft", project.Status)
	}
	if project.Model.URI != "" {
		t.Errorf("project model URI = %q, want empty", project.Model.URI)
	}
	if _, err := manager.Load(context.Background(), info.URI); err == nil {
		t.Error("Load() after delete did not fail")
	}

	// Idempotent: deleting with no model succeeds
	if err := manager.DeleteProjectModels(context.Background(), p.ID); err != nil {
		t.Fatalf("second DeleteProjectModels() error: %v", err)
	}
}
