package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"

	"text-playground/api/rest/routes"
	"text-playground/config"
	"text-playground/core/engine"
	"text-playground/core/monitoring"
	"text-playground/core/predictor"
	"text-playground/core/repository"
	"text-playground/core/scheduler"
	"text-playground/dispatch"
	"text-playground/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Persistence: Postgres when configured, in-memory otherwise
	var repo repository.Store
	if cfg.DatabaseURL != "" {
		db, err := repository.NewDB(cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("Failed to connect to database: %v", err)
		}
		defer db.Close()
		repo = repository.NewPostgresStore(db)
		log.Println("Database connected successfully")
	} else {
		repo = repository.NewMemoryStore()
		log.Println("Using in-memory store")
	}

	// Artifact storage: S3 when a bucket is configured, filesystem otherwise
	var store storage.ArtifactStore
	if cfg.S3Bucket != "" {
		s3Store, err := storage.NewS3Store(ctx, cfg.S3Bucket, cfg.AWSRegion)
		if err != nil {
			log.Fatalf("Failed to create S3 store: %v", err)
		}
		store = s3Store
		log.Printf("Storing model artifacts in s3://%s", cfg.S3Bucket)
	} else {
		fsStore, err := storage.NewFSStore(cfg.ArtifactDir)
		if err != nil {
			log.Fatalf("Failed to create artifact dir: %v", err)
		}
		store = fsStore
		log.Printf("Storing model artifacts in %s", cfg.ArtifactDir)
	}

	manager := storage.NewModelManager(store, repo)

	// Dispatch: NATS when configured, in-process otherwise
	var dispatcher dispatch.Dispatcher
	runLocalWorker := cfg.NATSURL == ""
	if runLocalWorker {
		dispatcher = dispatch.NewInProcDispatcher()
	} else {
		natsDispatcher, err := dispatch.NewNATSDispatcher(cfg.NATSURL)
		if err != nil {
			log.Fatalf("Failed to connect to NATS: %v", err)
		}
		dispatcher = natsDispatcher
	}
	defer dispatcher.Close()

	engCfg := engine.Config{
		ValidationSplit:     cfg.ValidationSplit,
		Seed:                cfg.TrainSeed,
		MinExamplesPerLabel: cfg.MinExamplesPerLabel,
		MaxExamplesPerLabel: cfg.MaxExamplesPerLabel,
	}
	runner := scheduler.NewRunner(repo, manager, engCfg)

	// With NATS the jobs run in separate worker processes; without it the
	// server hosts the worker pool itself.
	var canceller scheduler.Canceller
	if runLocalWorker {
		worker := scheduler.NewWorker(repo, runner, dispatcher, int64(cfg.MaxConcurrentJobs))
		if err := worker.Start(ctx); err != nil {
			log.Fatalf("Failed to start worker: %v", err)
		}
		defer worker.Stop()
		canceller = runner
	}

	sched := scheduler.NewScheduler(repo, dispatcher, canceller)

	monitor := monitoring.NewJobMonitor(repo, time.Duration(cfg.JobTimeoutMinutes)*time.Minute)
	go monitor.Start(ctx)
	defer monitor.Stop()

	predictSvc, err := predictor.NewService(repo, manager)
	if err != nil {
		log.Fatalf("Failed to create predictor: %v", err)
	}
	defer predictSvc.Close()

	metrics := monitoring.NewMetricsExporter(repo)

	r := mux.NewRouter()
	routes.SetupRoutes(r, repo, manager, sched, predictSvc, metrics)

	server := &http.Server{
		Addr:    ":" + cfg.ServerPort,
		Handler: r,
	}

	// Graceful shutdown
	go func() {
		log.Printf("Starting server on port %s", cfg.ServerPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	if err := server.Shutdown(context.Background()); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}
	log.Println("Server exited")
}
