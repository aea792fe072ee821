package service

import (
	"context"
	"time"

	"editledger/internal/platform/logger"
)

// Run starts the worker loop and blocks until ctx is done
func (s *Svc) Run(ctx context.Context) error {
	if s.d.Compute == nil || s.d.Writer == nil || s.d.Housekeeping == nil || s.d.Ident == nil {
		panic("jobs worker requires all dispatcher ports")
	}

	log := logger.Named("jobs-worker")
	sem := make(chan struct{}, s.cfg.Concurrency)
	ticker := time.NewTicker(s.cfg.PollEvery)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			// lease a small batch; process concurrently with a simple semaphore
			jobs, err := s.queue.Lease(ctx, s.cfg.WorkerID, s.cfg.QueueTakeBatch, s.cfg.LeaseFor)
			if err != nil {
				log.Error().Err(err).Msg("lease jobs failed")
				continue
			}
			for i := range jobs {
				sem <- struct{}{}
				j := jobs[i]
				go func() {
					defer func() { <-sem }()
					if err := s.handleJob(ctx, j); err != nil {
						log.Warn().Err(err).Str("job_id", j.JobID).Msg("job failed")
					}
				}()
			}
		}
	}
}
