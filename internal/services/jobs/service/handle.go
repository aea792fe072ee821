package service

import (
	"context"

	perr "editledger/internal/platform/errors"
	"editledger/internal/services/jobs/domain"
)

// handleJob dispatches one leased job to its handler. Success and poison rows
// complete the job; transient failures requeue with backoff until the attempt
// budget runs out, then the job is dropped with an error log so one bad row
// cannot wedge the queue
func (s *Svc) handleJob(ctx context.Context, j domain.Leased) error {
	if j.DecodeErr != nil {
		s.log.Error().Err(j.DecodeErr).Str("job_id", j.JobID).Msg("dropping undecodable job")
		return s.queue.Complete(ctx, j.JobID)
	}

	err := s.dispatch(ctx, j.Task)
	if err == nil {
		return s.queue.Complete(ctx, j.JobID)
	}

	// permanent domain rejections never succeed on retry
	if perr.IsCode(err, perr.ErrorCodeInvalidArgument) || perr.IsCode(err, perr.ErrorCodeForbidden) {
		s.log.Error().Err(err).Str("job_id", j.JobID).Str("kind", string(j.Task.Kind())).Msg("dropping rejected job")
		return s.queue.Complete(ctx, j.JobID)
	}

	if j.Attempts+1 >= s.cfg.MaxAttempts {
		s.log.Error().Err(err).Str("job_id", j.JobID).Int("attempts", j.Attempts+1).Msg("dropping job, attempt budget spent")
		return s.queue.Complete(ctx, j.JobID)
	}
	if rqErr := s.queue.Requeue(ctx, j.JobID, nextAfter(j.Attempts, s.cfg.RetryBaseMs)); rqErr != nil {
		return rqErr
	}
	return err
}

func (s *Svc) dispatch(ctx context.Context, t domain.Task) error {
	switch task := t.(type) {
	case *domain.ContributionTask:
		c, err := s.d.Compute.ComputeContribution(ctx, task.Wiki, task.RevisionID, task.EventID, task.UserID)
		if err != nil {
			return err
		}
		return s.d.Writer.SaveContribution(ctx, c)

	case *domain.PageMovedTask:
		return s.d.Housekeeping.UpdateTitle(ctx, task.Wiki, task.PageID, task.NewTitle)

	case *domain.PageDeletedTask:
		return s.d.Housekeeping.MarkPageDeleted(ctx, task.Wiki, task.PageID)

	case *domain.PageRestoredTask:
		return s.d.Housekeeping.MarkPageRestored(ctx, task.Wiki, task.PageID)

	case *domain.RevisionVisibilityTask:
		return s.d.Housekeeping.UpdateRevisionVisibility(ctx, task.Wiki, task.PageID, task.DeletedRevIDs, task.RestoredRevIDs)

	case *domain.UserRenamedTask:
		// identity mirror first, then the denormalized rows
		if err := s.d.Ident.Rename(ctx, task.UserID, task.NewName); err != nil {
			return err
		}
		return s.d.Housekeeping.UpdateUserName(ctx, task.UserID, task.NewName)

	case *domain.UserVisibilityTask:
		if err := s.d.Ident.SetVisibility(ctx, task.UserID, task.Hidden); err != nil {
			return err
		}
		return s.d.Housekeeping.UpdateUserVisibility(ctx, task.UserID, task.Hidden, task.UserName)

	default:
		return perr.InvalidArgf("no handler for job kind %q", t.Kind())
	}
}
