package routes

import (
	"net/http"

	"github.com/gorilla/mux"

	"text-playground/api/rest/handlers"
	"text-playground/core/monitoring"
	"text-playground/core/predictor"
	"text-playground/core/repository"
	"text-playground/core/scheduler"
	"text-playground/storage"
)

// SetupRoutes configures all API routes
func SetupRoutes(
	r *mux.Router,
	repo repository.Store,
	manager *storage.ModelManager,
	sched *scheduler.Scheduler,
	predictSvc *predictor.Service,
	metrics *monitoring.MetricsExporter,
) {
	projectHandler := handlers.NewProjectHandler(repo, manager)
	exampleHandler := handlers.NewExampleHandler(repo)
	trainingHandler := handlers.NewTrainingHandler(repo, sched, metrics)
	predictHandler := handlers.NewPredictHandler(predictSvc, manager, metrics)
	systemHandler := handlers.NewSystemHandler(repo, metrics)

	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			metrics.IncRequests()
			next.ServeHTTP(w, req)
		})
	})

	// Project endpoints
	r.HandleFunc("/projects", projectHandler.CreateProject).Methods("POST")
	r.HandleFunc("/projects", projectHandler.ListProjects).Methods("GET")
	r.HandleFunc("/projects/{id}", projectHandler.GetProject).Methods("GET")
	r.HandleFunc("/projects/{id}", projectHandler.UpdateProject).Methods("PUT")
	r.HandleFunc("/projects/{id}", projectHandler.DeleteProject).Methods("DELETE")
	r.HandleFunc("/projects/{id}/status", projectHandler.GetProjectStatus).Methods("GET")

	// Example endpoints
	r.HandleFunc("/projects/{id}/examples", exampleHandler.AddExamples).Methods("POST")
	r.HandleFunc("/projects/{id}/examples", exampleHandler.ListExamples).Methods("GET")
	r.HandleFunc("/projects/{id}/examples/{label}", exampleHandler.DeleteLabel).Methods("DELETE")
	r.HandleFunc("/projects/{id}/examples/{label}/{index}", exampleHandler.DeleteExample).Methods("DELETE")

	// Training endpoints
	r.HandleFunc("/projects/{id}/train", trainingHandler.StartTraining).Methods("POST")
	r.HandleFunc("/projects/{id}/train", trainingHandler.GetTraining).Methods("GET")
	r.HandleFunc("/jobs/{id}", trainingHandler.GetJob).Methods("GET")
	r.HandleFunc("/jobs/{id}/cancel", trainingHandler.CancelJob).Methods("POST")
	r.HandleFunc("/jobs/{id}/events", trainingHandler.GetJobEvents).Methods("GET")

	// Prediction and model endpoints
	r.HandleFunc("/projects/{id}/predict", predictHandler.Predict).Methods("POST")
	r.HandleFunc("/projects/{id}/model", predictHandler.DeleteModel).Methods("DELETE")

	// System endpoints
	r.HandleFunc("/health", systemHandler.Health).Methods("GET")
	r.HandleFunc("/stats", systemHandler.Stats).Methods("GET")
	r.HandleFunc("/metrics", systemHandler.Metrics).Methods("GET")
}
