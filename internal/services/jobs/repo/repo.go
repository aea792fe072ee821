// Package repo provides the Postgres-backed job queue
package repo

import (
	"context"
	"time"

	"github.com/google/uuid"

	"editledger/internal/modkit/repokit"
	perr "editledger/internal/platform/errors"
	"editledger/internal/services/jobs/domain"
)

type (
	pg     struct{ q repokit.Queryer }
	binder struct{}
)

// NewPG constructs a new repo binder for Postgres
func NewPG() repokit.Binder[domain.QueuePort] { return binder{} }

// Bind implements repokit.Binder
func (binder) Bind(q repokit.Queryer) domain.QueuePort { return &pg{q: q} }

// Enqueue implements domain.EnqueuePort
func (s *pg) Enqueue(ctx context.Context, t domain.Task) error {
	kind, payload, err := domain.Encode(t)
	if err != nil {
		return err
	}
	const sqlq = `
		INSERT INTO jobs (job_id, kind, payload, attempts, next_attempt_at)
		VALUES ($1, $2, $3, 0, now())
	`
	if _, err := s.q.Exec(ctx, sqlq, uuid.NewString(), string(kind), payload); err != nil {
		return perr.FromPostgres(err, "enqueue job")
	}
	return nil
}

// Lease implements domain.QueuePort: claims up to limit ready jobs with a TTL.
// Expired leases become claimable again so a crashed worker's jobs recover
func (s *pg) Lease(
	ctx context.Context,
	workerID string,
	limit int,
	leaseFor time.Duration,
) ([]domain.Leased, error) {
	if workerID == "" {
		workerID = uuid.NewString()
	}
	const sqlq = `
		WITH ready AS (
			SELECT job_id
			  FROM jobs
			 WHERE (leased_by IS NULL OR lease_expires_at <= now())
			   AND next_attempt_at <= now()
			 ORDER BY next_attempt_at ASC
			 LIMIT $1
			 FOR UPDATE SKIP LOCKED
		), upd AS (
			UPDATE jobs j
			   SET leased_by = $2,
				   lease_expires_at = now() + $3::interval,
				   updated_at = now()
			 WHERE j.job_id IN (SELECT job_id FROM ready)
			RETURNING j.job_id, j.kind, j.payload, j.attempts
		)
		SELECT job_id::text, kind, payload, attempts FROM upd
	`
	rows, err := s.q.Query(ctx, sqlq, limit, workerID, leaseFor.String())
	if err != nil {
		return nil, perr.FromPostgres(err, "lease jobs")
	}
	defer rows.Close()

	var out []domain.Leased
	for rows.Next() {
		var (
			l       domain.Leased
			kind    string
			payload []byte
		)
		if err := rows.Scan(&l.JobID, &kind, &payload, &l.Attempts); err != nil {
			return nil, perr.FromPostgres(err, "scan leased job")
		}
		task, err := domain.Decode(domain.Kind(kind), payload)
		if err != nil {
			// poison row: hand it back flagged so the worker drops it
			// instead of failing the whole batch
			l.DecodeErr = err
		} else {
			l.Task = task
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

// Complete implements domain.QueuePort: success removes the row
func (s *pg) Complete(ctx context.Context, jobID string) error {
	if _, err := s.q.Exec(ctx, `DELETE FROM jobs WHERE job_id = $1`, jobID); err != nil {
		return perr.FromPostgres(err, "complete job")
	}
	return nil
}

// Requeue implements domain.QueuePort: clears the lease and backs off
func (s *pg) Requeue(ctx context.Context, jobID string, nextAttemptAt time.Time) error {
	const sqlq = `
		UPDATE jobs
		   SET attempts = attempts + 1,
			   next_attempt_at = $2,
			   leased_by = NULL,
			   lease_expires_at = NULL,
			   updated_at = now()
		 WHERE job_id = $1
	`
	if _, err := s.q.Exec(ctx, sqlq, jobID, nextAttemptAt); err != nil {
		return perr.FromPostgres(err, "requeue job")
	}
	return nil
}
