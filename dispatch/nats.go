package dispatch

import (
	"context"
	"fmt"
	"log"

	"github.com/nats-io/nats.go"
)

const (
	// subject carries training job IDs
	subject = "training.jobs"
	// queueGroup load-balances jobs across worker processes
	queueGroup = "training-workers"
)

// NATSDispatcher dispatches training jobs over NATS so workers can run in
// separate processes.
type NATSDispatcher struct {
	nc *nats.Conn
}

// NewNATSDispatcher connects to a NATS server
func NewNATSDispatcher(url string) (*NATSDispatcher, error) {
	nc, err := nats.Connect(url)
	if err != nil {
		return nil, fmt.Errorf("nats connect: %w", err)
	}
	log.Printf("Connected to NATS at %s", url)
	return &NATSDispatcher{nc: nc}, nil
}

// Publish sends a job ID to the worker queue group
func (d *NATSDispatcher) Publish(_ context.Context, jobID string) error {
	if err := d.nc.Publish(subject, []byte(jobID)); err != nil {
		return fmt.Errorf("nats publish: %w", err)
	}
	return nil
}

// Subscribe joins the worker queue group; each job is delivered to exactly
// one subscriber.
func (d *NATSDispatcher) Subscribe(_ context.Context, handler Handler) (func(), error) {
	sub, err := d.nc.QueueSubscribe(subject, queueGroup, func(msg *nats.Msg) {
		handler(string(msg.Data))
	})
	if err != nil {
		return nil, fmt.Errorf("nats subscribe: %w", err)
	}
	return func() {
		if err := sub.Unsubscribe(); err != nil {
			log.Printf("Failed to unsubscribe: %v", err)
		}
	}, nil
}

// Close drains and closes the connection
func (d *NATSDispatcher) Close() error {
	return d.nc.Drain()
}
