package predictor

import (
	"context"
	"errors"
	"testing"

	"text-playground/core/engine"
	"text-playground/core/models"
	"text-playground/core/repository"
	"text-playground/storage"
)

func newTestService(t *testing.T) (*Service, repository.Store, *storage.ModelManager) {
	t.Helper()
	repo := repository.NewMemoryStore()
	store, err := storage.NewFSStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFSStore() error: %v", err)
	}
	manager := storage.NewModelManager(store, repo)
	svc, err := NewService(repo, manager)
	if err != nil {
		t.Fatalf("NewService() error: %v", err)
	}
	t.Cleanup(svc.Close)
	return svc, repo, manager
}

func trainAndPublish(t *testing.T, repo repository.Store, manager *storage.ModelManager) *models.Project {
	t.Helper()
	p := &models.Project{Name: "mood detector", Type: models.ProjectTypeTextRecognition}
	if err := repo.CreateProject(p); err != nil {
		t.Fatalf("CreateProject() error: %v", err)
	}

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
	info, err := manager.Publish(context.Background(), p.ID, model, result)
	if err != nil {
		t.Fatalf("Publish() error: %v", err)
	}
	if err := repo.SetProjectModel(p.ID, info, models.ProjectStatusTrained); err != nil {
		t.Fatalf("SetProjectModel() error: %v", err)
	}
	return p
}

func TestPredict(t *testing.T) {
	svc, repo, manager := newTestService(t)
	p := trainAndPublish(t, repo, manager)

	result, err := svc.Predict(context.Background(), p.ID, "joyful sunny feeling")
	if err != nil {
		t.Fatalf("Predict() error: %v", err)
	}
	if result.Label != "happy" {
		t.Errorf("Label = %q, want happy", result.Label)
	}
	if len(result.Alternatives) != 1 || result.Alternatives[0].Label != "sad" {
		t.Errorf("Alternatives = %v, want [sad]", result.Alternatives)
	}

	// Second call is served from cache and must agree
	again, err := svc.Predict(context.Background(), p.ID, "joyful sunny feeling")
	if err != nil {
		t.Fatalf("Predict() error: %v", err)
	}
	if again.Label != result.Label || again.Confidence != result.Confidence {
		t.Error("cached prediction disagrees with the first")
	}
}

func TestPredictEmptyText(t *testing.T) {
	svc, repo, manager := newTestService(t)
	p := trainAndPublish(t, repo, manager)

	_, err := svc.Predict(context.Background(), p.ID, "")
	var invalidErr *models.InvalidInputError
	if !errors.As(err, &invalidErr) {
		t.Fatalf("Predict(\"\") error = %v, want InvalidInputError", err)
	}
}

func TestPredictModelNotReady(t *testing.T) {
	svc, repo, _ := newTestService(t)
	p := &models.Project{Name: "untrained", Type: models.ProjectTypeTextRecognition}
	if err := repo.CreateProject(p); err != nil {
		t.Fatalf("CreateProject() error: %v", err)
	}

	_, err := svc.Predict(context.Background(), p.ID, "anything")
	var notReadyErr *models.ModelNotReadyError
	if !errors.As(err, &notReadyErr) {
		t.Fatalf("Predict() error = %v, want ModelNotReadyError", err)
	}
}

func TestPredictUnknownProject(t *testing.T) {
	svc, _, _ := newTestService(t)
	_, err := svc.Predict(context.Background(), "missing", "anything")
	var notFoundErr *models.NotFoundError
	if !errors.As(err, &notFoundErr) {
		t.Fatalf("Predict() error = %v, want NotFoundError", err)
	}
}

func TestPredictAfterModelDeleted(t *testing.T) {
	svc, repo, manager := newTestService(t)
	p := trainAndPublish(t, repo, manager)

	if err := manager.DeleteProjectModels(context.Background(), p.ID); err != nil {
		t.Fatalf("DeleteProjectModels() error: %v", err)
	}

	_, err := svc.Predict(context.Background(), p.ID, "joyful sunny feeling")
	var notReadyErr *models.ModelNotReadyError
	if !errors.As(err, &notReadyErr) {
		t.Fatalf("Predict() after delete error = %v, want ModelNotReadyError", err)
	}
}
