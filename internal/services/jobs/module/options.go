package module

import (
	"time"

	"editledger/internal/platform/config"
	"editledger/internal/services/jobs/service"
)

// FromConfig reads the worker settings from config
func FromConfig(cfg config.Conf) service.Config {
	jf := cfg.Prefix("JOBS_")
	return service.Config{
		WorkerID:       jf.MayString("WORKER_ID", "editledger-worker"),
		Concurrency:    jf.MayInt("CONCURRENCY", 4),
		QueueTakeBatch: jf.MayInt("TAKE_BATCH", 16),
		LeaseFor:       jf.MayDuration("LEASE_FOR", 60*time.Second),
		PollEvery:      jf.MayDuration("POLL_EVERY", 500*time.Millisecond),
		RetryBaseMs:    jf.MayInt("RETRY_BASE_MS", 500),
		MaxAttempts:    jf.MayInt("MAX_ATTEMPTS", 8),
	}
}
