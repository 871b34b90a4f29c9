package storage

import (
	"context"
	"fmt"
	"log"

	"text-playground/core/engine"
	"text-playground/core/models"
	"text-playground/core/repository"
)

// ModelManager owns the model artifact lifecycle: publishing new versions,
// loading blobs and deleting a project's models. Publish order is blob then
// registry row; the caller flips the project's model pointer only after the
// job's terminal transition succeeds, so readers following the pointer
// always find a fully written artifact and a cancelled job never surfaces
// its model.
type ModelManager struct {
	store ArtifactStore
	repo  repository.Store
}

// NewModelManager creates a model manager
func NewModelManager(store ArtifactStore, repo repository.Store) *ModelManager {
	return &ModelManager{store: store, repo: repo}
}

// ModelKey is the artifact key for a project's model version
func ModelKey(projectID string, version int) string {
	return fmt.Sprintf("models/%s/v%d.model", projectID, version)
}

// Publish serializes the model, stores the blob and records the version in
// the registry. The project's current-model pointer is not touched here.
func (mm *ModelManager) Publish(ctx context.Context, projectID string, model *engine.Model, result *models.TrainingResult) (models.ModelInfo, error) {
	version, err := mm.repo.NextModelVersion(projectID)
	if err != nil {
		return models.ModelInfo{}, err
	}
	model.ProjectID = projectID
	model.Version = version

	data, err := model.Encode()
	if err != nil {
		return models.ModelInfo{}, err
	}

	key := ModelKey(projectID, version)
	if err := mm.store.Put(ctx, key, data); err != nil {
		return models.ModelInfo{}, fmt.Errorf("store model artifact: %w", err)
	}

	trainedAt := model.TrainedAt
	info := models.ModelInfo{
		URI:       key,
		Version:   version,
		ModelType: models.ModelTypeSoftmaxRegression,
		Accuracy:  result.Accuracy,
		Labels:    result.Labels,
		TrainedAt: &trainedAt,
	}
	if err := mm.repo.CreateModelVersion(projectID, info); err != nil {
		return models.ModelInfo{}, err
	}
	return info, nil
}

// Load fetches and decodes a model artifact by key
func (mm *ModelManager) Load(ctx context.Context, key string) (*engine.Model, error) {
	data, err := mm.store.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	return engine.DecodeModel(data)
}

// DeleteProjectModels removes every model version for a project and resets
// it to draft. Idempotent: deleting when no model exists succeeds.
func (mm *ModelManager) DeleteProjectModels(ctx context.Context, projectID string) error {
	if _, err := mm.repo.GetProject(projectID); err != nil {
		return err
	}

	uris, err := mm.repo.DeleteModelVersions(projectID)
	if err != nil {
		return err
	}
	for _, uri := range uris {
		if err := mm.store.Delete(ctx, uri); err != nil {
			// Registry row is already gone; an orphaned blob is harmless.
			log.Printf("Failed to delete model artifact %s: %v", uri, err)
		}
	}
	return mm.repo.SetProjectModel(projectID, models.ModelInfo{}, models.ProjectStatusDraft)
}
