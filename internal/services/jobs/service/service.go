// Package service implements the queue worker and the enqueue facade
package service

import (
	"context"
	"time"

	"editledger/internal/modkit/repokit"
	"editledger/internal/platform/logger"
	contribdomain "editledger/internal/services/contributions/domain"
	identdomain "editledger/internal/services/ident/domain"
	"editledger/internal/services/jobs/domain"
	"editledger/internal/services/jobs/repo"
)

// Config controls the worker loop
type Config struct {
	WorkerID       string
	Concurrency    int
	QueueTakeBatch int
	LeaseFor       time.Duration
	PollEvery      time.Duration
	RetryBaseMs    int
	MaxAttempts    int
}

// Deps are the collaborator ports the dispatcher drives
type Deps struct {
	Compute      contribdomain.ComputePort
	Writer       contribdomain.WriterPort
	Housekeeping contribdomain.HousekeepingPort
	Ident        identdomain.WriterPort
}

// Svc implements the enqueue facade and the worker
type Svc struct {
	db     repokit.TxRunner
	binder repokit.Binder[domain.QueuePort]
	queue  domain.QueuePort

	d   Deps
	cfg Config
	log logger.Logger
}

// New constructs the jobs service. Deps may be zero on an API-only process
// that never calls Run
func New(db repokit.TxRunner, d Deps, cfg Config) *Svc {
	if db == nil {
		panic("jobs.Service requires a non-nil TxRunner")
	}
	if cfg.WorkerID == "" {
		cfg.WorkerID = "editledger-worker"
	}
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = 4
	}
	if cfg.QueueTakeBatch <= 0 {
		cfg.QueueTakeBatch = 16
	}
	if cfg.LeaseFor <= 0 {
		cfg.LeaseFor = 60 * time.Second
	}
	if cfg.PollEvery <= 0 {
		cfg.PollEvery = 500 * time.Millisecond
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 8
	}
	b := repo.NewPG()
	return &Svc{
		db:     db,
		binder: b,
		queue:  b.Bind(db),
		d:      d,
		cfg:    cfg,
		log:    *logger.Named("jobs"),
	}
}

var _ domain.EnqueuePort = (*Svc)(nil)

// WireDispatch installs the dispatcher ports after construction.
// The jobs service is built before the contributions module that supplies
// them, so the wiring injects them here before the worker calls Run
func (s *Svc) WireDispatch(d Deps) { s.d = d }

// Enqueue implements domain.EnqueuePort
func (s *Svc) Enqueue(ctx context.Context, t domain.Task) error {
	return s.queue.Enqueue(ctx, t)
}

func durationMs(ms int) time.Duration {
	if ms <= 0 {
		return 500 * time.Millisecond
	}
	return time.Duration(ms) * time.Millisecond
}

// nextAfter is an exponential backoff from the base, capped at 30s.
// The shift amount is bounded so large attempt counts cannot overflow
// into zero or negative delays
func nextAfter(attempt int, baseMs int) time.Time {
	const capMs = int64(30 * time.Second / time.Millisecond)
	shift := uint(attempt)
	if shift > 20 {
		shift = 20
	}
	ms := int64(durationMs(baseMs)/time.Millisecond) << shift
	if ms <= 0 || ms > capMs {
		ms = capMs
	}
	return time.Now().UTC().Add(time.Duration(ms) * time.Millisecond)
}
