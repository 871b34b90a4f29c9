// Package dispatch moves training job IDs from the API to workers, either
// in-process or over NATS.
package dispatch

import (
	"context"
	"fmt"
	"sync"
)

// Handler processes one dispatched training job
type Handler func(jobID string)

// Dispatcher hands training job IDs to a worker
type Dispatcher interface {
	Publish(ctx context.Context, jobID string) error
	// Subscribe registers a handler and returns a stop function.
	Subscribe(ctx context.Context, handler Handler) (func(), error)
	Close() error
}

// InProcDispatcher is a channel-backed dispatcher for single-process
// deployments, the default when no NATS URL is configured.
type InProcDispatcher struct {
	ch   chan string
	done chan struct{}
}

// NewInProcDispatcher creates an in-process dispatcher
func NewInProcDispatcher() *InProcDispatcher {
	return &InProcDispatcher{
		ch:   make(chan string, 256),
		done: make(chan struct{}),
	}
}

// Publish enqueues a job ID for the local worker
func (d *InProcDispatcher) Publish(ctx context.Context, jobID string) error {
	select {
	case d.ch <- jobID:
		return nil
	case <-d.done:
		return fmt.Errorf("dispatcher closed")
	case <-ctx.Done():
		return ctx.Err()
	default:
		return fmt.Errorf("dispatch queue full")
	}
}

// Subscribe consumes job IDs until the context is done or stop is called
func (d *InProcDispatcher) Subscribe(ctx context.Context, handler Handler) (func(), error) {
	stop := make(chan struct{})
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case <-d.done:
				return
			case <-stop:
				return
			case jobID := <-d.ch:
				handler(jobID)
			}
		}
	}()
	var once sync.Once
	return func() {
		once.Do(func() { close(stop) })
	}, nil
}

// Close shuts the dispatcher down
func (d *InProcDispatcher) Close() error {
	close(d.done)
	return nil
}
