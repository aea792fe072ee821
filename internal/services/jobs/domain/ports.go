package domain

import (
	"context"
	"time"
)

// Leased is one job handed to a worker together with its queue bookkeeping.
// DecodeErr is set instead of Task when the row's payload failed to decode;
// such poison rows are dropped by the worker after logging
type Leased struct {
	JobID     string
	Attempts  int
	Task      Task
	DecodeErr error
}

// EnqueuePort pushes tasks onto the queue, fire and forget
type EnqueuePort interface {
	Enqueue(ctx context.Context, t Task) error
}

// QueuePort is the full queue surface the worker drives
type QueuePort interface {
	EnqueuePort
	Lease(ctx context.Context, workerID string, limit int, leaseFor time.Duration) ([]Leased, error)
	Complete(ctx context.Context, jobID string) error
	Requeue(ctx context.Context, jobID string, nextAttemptAt time.Time) error
}
