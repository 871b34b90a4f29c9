package dispatch

import (
	"context"
	"sync"
	"testing"
	"time"
)

func TestInProcDispatcherDelivers(t *testing.T) {
	d := NewInProcDispatcher()
	defer d.Close()

	received := make(chan string, 1)
	stop, err := d.Subscribe(context.Background(), func(jobID string) {
		received <- jobID
	})
	if err != nil {
		t.Fatalf("Subscribe() error: %v", err)
	}
	defer stop()

	if err := d.Publish(context.Background(), "job-1"); err != nil {
		t.Fatalf("Publish() error: %v", err)
	}

	select {
	case got := <-received:
		if got != "job-1" {
			t.Errorf("received %q, want job-1", got)
		}
	case <-time.After(time.Second):
		t.Fatal("job was not delivered")
	}
}

func TestInProcDispatcherPublishAfterClose(t *testing.T) {
	d := NewInProcDispatcher()
	d.Close()

	if err := d.Publish(context.Background(), "job-1"); err == nil {
		t.Error("Publish() after Close() did not fail")
	}
}

func TestInProcDispatcherStopIdempotent(t *testing.T) {
	d := NewInProcDispatcher()
	defer d.Close()

	stop, err := d.Subscribe(context.Background(), func(string) {})
	if err != nil {
		t.Fatalf("Subscribe() error: %v", err)
	}
	stop()
	stop()
}

func TestInProcDispatcherStopConcurrent(t *testing.T) {
	d := NewInProcDispatcher()
	defer d.Close()

	stop, err := d.Subscribe(context.Background(), func(string) {})
	if err != nil {
		t.Fatalf("Subscribe() error: %v", err)
	}

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			stop()
		}()
	}
	wg.Wait()
}
