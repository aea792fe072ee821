// Package service provides the contributions service implementation
package service

import (
	"context"
	"time"

	"editledger/internal/modkit/repokit"
	perr "editledger/internal/platform/errors"
	"editledger/internal/platform/logger"
	"editledger/internal/services/contributions/domain"
	"editledger/internal/services/contributions/repo"
	eventsdomain "editledger/internal/services/events/domain"
	identdomain "editledger/internal/services/ident/domain"
	jobsdomain "editledger/internal/services/jobs/domain"
)

// Config for the contributions service
type Config struct {
	ListHardLimit int
}

// Deps are the injected collaborator ports
type Deps struct {
	Events   eventsdomain.Ports
	Ident    identdomain.Ports
	Revs     domain.RevisionPort
	Renderer domain.RendererPort
	Queue    jobsdomain.EnqueuePort
}

// Svc implements the contribution write/read/compute surface
type Svc struct {
	db     repokit.TxRunner
	binder repokit.Binder[repo.Storage]

	events   eventsdomain.Ports
	ident    identdomain.Ports
	revs     domain.RevisionPort
	renderer domain.RendererPort
	queue    jobsdomain.EnqueuePort

	cfg Config
	log logger.Logger
	now func() time.Time // seam
}

// New constructs the contributions service
func New(db repokit.TxRunner, binder repokit.Binder[repo.Storage], d Deps, cfg Config) *Svc {
	if db == nil {
		panic("contributions.Service requires a non-nil TxRunner")
	}
	if d.Events == nil || d.Ident == nil || d.Revs == nil || d.Renderer == nil || d.Queue == nil {
		panic("contributions.Service requires all collaborator ports")
	}
	if cfg.ListHardLimit <= 0 {
		cfg.ListHardLimit = 50
	}
	return &Svc{
		db:       db,
		binder:   binder,
		events:   d.Events,
		ident:    d.Ident,
		revs:     d.Revs,
		renderer: d.Renderer,
		queue:    d.Queue,
		cfg:      cfg,
		log:      *logger.Named("contributions"),
		now:      time.Now,
	}
}

var (
	_ domain.ComputePort   = (*Svc)(nil)
	_ domain.ValidatorPort = (*Svc)(nil)
	_ domain.WriterPort    = (*Svc)(nil)
	_ domain.QueryPort     = (*Svc)(nil)
)

// SaveContribution implements domain.WriterPort. Called from the job; a
// duplicate key here means another delivery already persisted the row, which
// at-least-once semantics make a success
func (s *Svc) SaveContribution(ctx context.Context, c domain.Contribution) error {
	err := s.binder.Bind(s.db).Insert(ctx, c)
	if err != nil && perr.IsCode(err, perr.ErrorCodeDuplicateKey) {
		s.log.Debug().
			Str("wiki", c.Wiki).
			Int64("rev", c.RevisionID).
			Msg("contribution already persisted, treating as success")
		return nil
	}
	return err
}

// DeleteContribution implements domain.WriterPort: explicit row removal,
// restricted to organizers of the owning event
func (s *Svc) DeleteContribution(ctx context.Context, id int64, performer int64) error {
	st := s.binder.Bind(s.db)
	eventID, err := st.EventIDOf(ctx, id)
	if err != nil {
		return err
	}
	p, ok, err := s.events.GetParticipant(ctx, eventID, performer)
	if err != nil {
		return err
	}
	if !ok || !p.Organizer {
		return perr.Forbiddenf("only event organizers may remove contributions")
	}
	n, err := st.DeleteByID(ctx, id)
	if err != nil {
		return err
	}
	if n == 0 {
		return perr.NotFoundf("contribution %d not found", id)
	}
	return nil
}

// EventSummary implements domain.QueryPort
func (s *Svc) EventSummary(ctx context.Context, eventID, callerID int64, includePrivate bool) (domain.Summary, error) {
	if _, err := s.events.GetEvent(ctx, eventID); err != nil {
		return domain.Summary{}, err
	}
	return s.binder.Bind(s.db).Summary(ctx, eventID, callerID, includePrivate)
}

// List implements domain.QueryPort. After the query, hidden authors are
// batch-resolved through ident in one pass so the listing never issues a
// per-row identity lookup
func (s *Svc) List(ctx context.Context, q domain.ListQuery) ([]domain.Row, string, error) {
	if _, err := s.events.GetEvent(ctx, q.EventID); err != nil {
		return nil, "", err
	}
	if q.Sort != "" && !q.Sort.Valid() {
		return nil, "", perr.InvalidArgf("unknown sort key %q", q.Sort)
	}
	if q.Limit <= 0 || q.Limit > s.cfg.ListHardLimit {
		q.Limit = s.cfg.ListHardLimit
	}

	rows, next, err := s.binder.Bind(s.db).List(ctx, q)
	if err != nil {
		return nil, "", err
	}

	var hiddenIDs []int64
	for i := range rows {
		if rows[i].UserHidden {
			hiddenIDs = append(hiddenIDs, rows[i].UserID)
		}
	}
	if len(hiddenIDs) > 0 {
		users, err := s.ident.ResolveNames(ctx, hiddenIDs)
		if err != nil {
			return nil, "", err
		}
		for i := range rows {
			if !rows[i].UserHidden {
				continue
			}
			if u, ok := users[rows[i].UserID]; ok && !u.Hidden {
				// visibility was restored since the row was written
				rows[i].UserName = u.Name
				rows[i].UserHidden = false
			} else {
				rows[i].UserName = ""
			}
		}
	}
	return rows, next, nil
}

// Housekeeping forwards the narrow lifecycle updates to the repo.
// Exposed as a HousekeepingPort for the worker dispatcher
func (s *Svc) Housekeeping() domain.HousekeepingPort {
	return housekeeping{s: s}
}

type housekeeping struct{ s *Svc }

func (h housekeeping) UpdateTitle(ctx context.Context, wiki string, pageID int64, newTitle string) error {
	return h.s.binder.Bind(h.s.db).UpdateTitle(ctx, wiki, pageID, newTitle)
}

func (h housekeeping) MarkPageDeleted(ctx context.Context, wiki string, pageID int64) error {
	return h.s.binder.Bind(h.s.db).MarkPageDeleted(ctx, wiki, pageID)
}

func (h housekeeping) MarkPageRestored(ctx context.Context, wiki string, pageID int64) error {
	return h.s.binder.Bind(h.s.db).MarkPageRestored(ctx, wiki, pageID)
}

func (h housekeeping) UpdateRevisionVisibility(
	ctx context.Context,
	wiki string,
	pageID int64,
	deletedRevIDs, restoredRevIDs []int64,
) error {
	return h.s.binder.Bind(h.s.db).UpdateRevisionVisibility(ctx, wiki, pageID, deletedRevIDs, restoredRevIDs)
}

func (h housekeeping) UpdateUserName(ctx context.Context, userID int64, newName string) error {
	return h.s.db.Tx(ctx, func(q repokit.Queryer) error {
		return h.s.binder.Bind(q).UpdateUserName(ctx, userID, newName)
	})
}

func (h housekeeping) UpdateUserVisibility(ctx context.Context, userID int64, hidden bool, userName string) error {
	return h.s.db.Tx(ctx, func(q repokit.Queryer) error {
		return h.s.binder.Bind(q).UpdateUserVisibility(ctx, userID, hidden, userName)
	})
}
