// Package service provides the events service implementation
package service

import (
	"context"
	"time"

	"editledger/internal/modkit/repokit"
	perr "editledger/internal/platform/errors"
	"editledger/internal/services/events/domain"
	"editledger/internal/services/events/repo"
)

// Svc implements domain.Ports over the events repo
type Svc struct {
	db     repokit.TxRunner
	binder repokit.Binder[repo.Storage]
	now    func() time.Time // seam
}

// New constructs the events service
func New(db repokit.TxRunner, binder repokit.Binder[repo.Storage]) *Svc {
	if db == nil {
		panic("events.Service requires a non-nil TxRunner")
	}
	if binder == nil {
		panic("events.Service requires a non-nil Storage binder")
	}
	return &Svc{db: db, binder: binder, now: time.Now}
}

var _ domain.Ports = (*Svc)(nil)

// GetEvent implements domain.ReaderPort
func (s *Svc) GetEvent(ctx context.Context, id int64) (domain.Event, error) {
	return s.binder.Bind(s.db).GetEvent(ctx, id)
}

// GetParticipant implements domain.ReaderPort
func (s *Svc) GetParticipant(ctx context.Context, eventID, userID int64) (domain.Participant, bool, error) {
	return s.binder.Bind(s.db).GetParticipant(ctx, eventID, userID)
}

// CreateEvent implements domain.WriterPort
func (s *Svc) CreateEvent(ctx context.Context, in domain.CreateEventInput) (domain.Event, error) {
	if in.Name == "" {
		return domain.Event{}, perr.InvalidArgf("event name is required")
	}
	if !in.EndUTC.After(in.StartUTC) {
		return domain.Event{}, perr.InvalidArgf("event end must be after start")
	}
	if len(in.Wikis) == 0 {
		return domain.Event{}, perr.InvalidArgf("event needs at least one wiki or %q", domain.WikiAll)
	}

	// event row, scope rows and organizer registration commit atomically
	var ev domain.Event
	err := s.db.Tx(ctx, func(q repokit.Queryer) error {
		var err error
		ev, err = s.binder.Bind(q).CreateEvent(ctx, in)
		return err
	})
	return ev, err
}

// RegisterParticipant implements domain.WriterPort
func (s *Svc) RegisterParticipant(ctx context.Context, p domain.Participant) error {
	if p.EventID == 0 || p.UserID == 0 {
		return perr.InvalidArgf("participant needs event_id and user_id")
	}
	if _, err := s.GetEvent(ctx, p.EventID); err != nil {
		return err
	}
	return s.binder.Bind(s.db).RegisterParticipant(ctx, p)
}

// CanAddContribution implements domain.PermissionPort.
// The performer must be the edit author or an event organizer, and the
// author must be a registered participant of the event either way
func (s *Svc) CanAddContribution(ctx context.Context, performer int64, ev domain.Event, author int64) error {
	_, registered, err := s.GetParticipant(ctx, ev.ID, author)
	if err != nil {
		return err
	}
	if !registered {
		return perr.Forbiddenf("user %d is not a participant of event %d", author, ev.ID)
	}
	if performer == author {
		return nil
	}
	p, ok, err := s.GetParticipant(ctx, ev.ID, performer)
	if err != nil {
		return err
	}
	if !ok || !p.Organizer {
		return perr.Forbiddenf("user %d may not add contributions for user %d", performer, author)
	}
	return nil
}

// IsOrganizer reports whether user organizes the event
func (s *Svc) IsOrganizer(ctx context.Context, eventID, userID int64) (bool, error) {
	p, ok, err := s.GetParticipant(ctx, eventID, userID)
	if err != nil {
		return false, err
	}
	return ok && p.Organizer, nil
}

// Now exposes the service clock for callers that share its notion of time
func (s *Svc) Now() time.Time { return s.now() }
