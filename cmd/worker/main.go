package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"text-playground/config"
	"text-playground/core/engine"
	"text-playground/core/monitoring"
	"text-playground/core/repository"
	"text-playground/core/scheduler"
	"text-playground/dispatch"
	"text-playground/storage"
)

// The worker consumes training jobs from NATS. It needs the shared
// database and artifact store, so both must be configured.
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if cfg.DatabaseURL == "" {
		log.Fatal("DATABASE_URL is required for the worker")
	}
	if cfg.NATSURL == "" {
		log.Fatal("NATS_URL is required for the worker")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	db, err := repository.NewDB(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()
	repo := repository.NewPostgresStore(db)

	var store storage.ArtifactStore
	if cfg.S3Bucket != "" {
		s3Store, err := storage.NewS3Store(ctx, cfg.S3Bucket, cfg.AWSRegion)
		if err != nil {
			log.Fatalf("Failed to create S3 store: %v", err)
		}
		store = s3Store
	} else {
		fsStore, err := storage.NewFSStore(cfg.ArtifactDir)
		if err != nil {
			log.Fatalf("Failed to create artifact dir: %v", err)
		}
		store = fsStore
	}
	manager := storage.NewModelManager(store, repo)

	dispatcher, err := dispatch.NewNATSDispatcher(cfg.NATSURL)
	if err != nil {
		log.Fatalf("Failed to connect to NATS: %v", err)
	}
	defer dispatcher.Close()

	engCfg := engine.Config{
		ValidationSplit:     cfg.ValidationSplit,
		Seed:                cfg.TrainSeed,
		MinExamplesPerLabel: cfg.MinExamplesPerLabel,
		MaxExamplesPerLabel: cfg.MaxExamplesPerLabel,
	}
	runner := scheduler.NewRunner(repo, manager, engCfg)

	worker := scheduler.NewWorker(repo, runner, dispatcher, int64(cfg.MaxConcurrentJobs))
	if err := worker.Start(ctx); err != nil {
		log.Fatalf("Failed to start worker: %v", err)
	}
	defer worker.Stop()

	monitor := monitoring.NewJobMonitor(repo, time.Duration(cfg.JobTimeoutMinutes)*time.Minute)
	go monitor.Start(ctx)
	defer monitor.Stop()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Worker shutting down...")
}
