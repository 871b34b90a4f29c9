package scheduler

import (
	"context"
	"log"
	"sync"
	"time"

	"golang.org/x/sync/semaphore"

	"text-playground/core/models"
	"text-playground/core/repository"
	"text-playground/dispatch"
)

// pollInterval is how often the worker drains its local queue
const pollInterval = 200 * time.Millisecond

// Worker consumes dispatched job IDs and runs them through the Runner,
// bounded to maxConcurrent jobs at a time.
type Worker struct {
	repo          repository.Store
	runner        *Runner
	dispatcher    dispatch.Dispatcher
	queue         *JobQueue
	sem           *semaphore.Weighted
	maxConcurrent int64

	wg       sync.WaitGroup
	stopSub  func()
	stopChan chan struct{}
}

// NewWorker creates a worker pool
func NewWorker(repo repository.Store, runner *Runner, dispatcher dispatch.Dispatcher, maxConcurrent int64) *Worker {
	if maxConcurrent <= 0 {
		maxConcurrent = 3
	}
	return &Worker{
		repo:          repo,
		runner:        runner,
		dispatcher:    dispatcher,
		queue:         NewJobQueue(),
		sem:           semaphore.NewWeighted(maxConcurrent),
		maxConcurrent: maxConcurrent,
		stopChan:      make(chan struct{}),
	}
}

// Start subscribes to the dispatcher and begins processing. Pending jobs
// left over from a previous run are requeued first.
func (w *Worker) Start(ctx context.Context) error {
	w.loadPendingJobs()

	stop, err := w.dispatcher.Subscribe(ctx, func(jobID string) {
		w.queue.Enqueue(jobID)
	})
	if err != nil {
		return err
	}
	w.stopSub = stop

	go w.loop(ctx)
	log.Printf("Worker started (max %d concurrent jobs)", w.maxConcurrent)
	return nil
}

// Stop unsubscribes and waits for in-flight jobs to finish
func (w *Worker) Stop() {
	close(w.stopChan)
	if w.stopSub != nil {
		w.stopSub()
	}
	w.wg.Wait()
}

// loadPendingJobs requeues jobs that were dispatched but never run,
// e.g. after a process restart.
func (w *Worker) loadPendingJobs() {
	jobs, err := w.repo.ListJobsByStatus(models.JobStatusPending, 100)
	if err != nil {
		log.Printf("Failed to load pending jobs: %v", err)
		return
	}
	for _, job := range jobs {
		w.queue.Enqueue(job.ID)
	}
	if len(jobs) > 0 {
		log.Printf("Requeued %d pending jobs", len(jobs))
	}
}

func (w *Worker) loop(ctx context.Context) {
	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stopChan:
			return
		case <-ticker.C:
			w.drain(ctx)
		}
	}
}

func (w *Worker) drain(ctx context.Context) {
	for {
		jobID := w.queue.PopJob()
		if jobID == "" {
			return
		}
		if err := w.sem.Acquire(ctx, 1); err != nil {
			return
		}
		w.wg.Add(1)
		go func(id string) {
			defer w.wg.Done()
			defer w.sem.Release(1)
			w.runner.Run(ctx, id)
		}(jobID)
	}
}
