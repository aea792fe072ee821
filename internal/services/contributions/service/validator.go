package service

import (
	"context"

	perr "editledger/internal/platform/errors"
	jobsdomain "editledger/internal/services/jobs/domain"
)

// ValidateAndSchedule implements domain.ValidatorPort: the gatekeeper for
// "may revision R be associated with event E", and the only place that
// enqueues contribution work. Preconditions run in a fixed order and fail
// on the first violation; nothing expensive happens here
func (s *Svc) ValidateAndSchedule(
	ctx context.Context,
	eventID, revisionID int64,
	wiki string,
	performer int64,
) error {
	// 1. performer must carry a central identity
	if performer <= 0 {
		return perr.Forbiddenf("performer has no central identity")
	}

	// 2. duplicate check: same event is an idempotent no-op, a different
	// event is a conflict. The unique index on (wiki, revision_id) still
	// backstops the race between this check and the job's insert
	existing, found, err := s.binder.Bind(s.db).FindByRevision(ctx, wiki, revisionID)
	if err != nil {
		return err
	}
	if found {
		if existing.EventID == eventID {
			return nil
		}
		return perr.InvalidArgf("revision %d on %s is already associated with another event", revisionID, wiki)
	}

	ev, err := s.events.GetEvent(ctx, eventID)
	if err != nil {
		return err
	}

	// 3. tracking must be enabled
	if !ev.TrackingEnabled {
		return perr.InvalidArgf("contribution tracking is disabled for event %d", eventID)
	}

	// 4. event must not be soft-deleted
	if ev.Deleted {
		return perr.NotFoundf("event %d is deleted", eventID)
	}

	// 5. event must be ongoing
	if !ev.Ongoing(s.now()) {
		return perr.InvalidArgf("event %d is not active", eventID)
	}

	// 6. wiki must be in the event's scope
	if !ev.InScope(wiki) {
		return perr.InvalidArgf("%s is not a target wiki of event %d", wiki, eventID)
	}

	// 7. the revision must exist on that wiki
	rev, err := s.revs.GetRevision(ctx, wiki, revisionID)
	if err != nil {
		return err
	}

	// 8. the edit author must resolve to a central id and the performer must
	// be authorized to add a contribution for that author
	if rev.UserID == 0 {
		return perr.Forbiddenf("revision author has no central identity")
	}
	if err := s.events.CanAddContribution(ctx, performer, ev, rev.UserID); err != nil {
		return err
	}

	return s.queue.Enqueue(ctx, jobsdomain.ContributionTask{
		EventID:    eventID,
		RevisionID: revisionID,
		UserID:     rev.UserID,
		Wiki:       wiki,
	})
}
