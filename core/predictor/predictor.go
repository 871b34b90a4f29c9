// Package predictor serves classifications from trained models.
package predictor

import (
	"context"
	"fmt"

	"github.com/dgraph-io/ristretto/v2"

	"text-playground/core/engine"
	"text-playground/core/models"
	"text-playground/core/repository"
	"text-playground/storage"
)

// maxCachedModels bounds the number of decoded models held in memory
const maxCachedModels = 64

// Service answers predictions for projects with a trained model. Decoded
// models are cached by artifact key; keys embed the version, so publishing
// a new model naturally bypasses stale cache entries.
type Service struct {
	repo    repository.Store
	manager *storage.ModelManager
	cache   *ristretto.Cache[string, *engine.Model]
}

// NewService creates a prediction service
func NewService(repo repository.Store, manager *storage.ModelManager) (*Service, error) {
	cache, err := ristretto.NewCache(&ristretto.Config[string, *engine.Model]{
		NumCounters: maxCachedModels * 10,
		MaxCost:     maxCachedModels,
		BufferItems: 64,
	})
	if err != nil {
		return nil, fmt.Errorf("create model cache: %w", err)
	}
	return &Service{
		repo:    repo,
		manager: manager,
		cache:   cache,
	}, nil
}

// Predict classifies text against the project's current model
func (s *Service) Predict(ctx context.Context, projectID, text string) (*models.PredictionResult, error) {
	if text == "" {
		return nil, &models.InvalidInputError{Msg: "text must not be empty"}
	}

	project, err := s.repo.GetProject(projectID)
	if err != nil {
		return nil, err
	}
	if project.Model.URI == "" {
		return nil, &models.ModelNotReadyError{ProjectID: projectID}
	}

	model, err := s.model(ctx, project.Model.URI)
	if err != nil {
		return nil, err
	}
	return model.Predict(text)
}

// Close releases the cache
func (s *Service) Close() {
	s.cache.Close()
}

func (s *Service) model(ctx context.Context, key string) (*engine.Model, error) {
	if m, ok := s.cache.Get(key); ok {
		return m, nil
	}
	m, err := s.manager.Load(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("load model %s: %w", key, err)
	}
	s.cache.Set(key, m, 1)
	return m, nil
}
