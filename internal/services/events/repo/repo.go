// Package repo provides Postgres bindings for the events service
package repo

import (
	"context"

	"editledger/internal/modkit/repokit"
	perr "editledger/internal/platform/errors"
	"editledger/internal/services/events/domain"
)

type (
	pg     struct{ q repokit.Queryer }
	binder struct{}
)

// NewPG constructs a new repo binder for Postgres
func NewPG() repokit.Binder[Storage] { return binder{} }

// Bind implements repokit.Binder
func (binder) Bind(q repokit.Queryer) Storage { return &pg{q: q} }

// Storage defines the events repository
type Storage interface {
	GetEvent(ctx context.Context, id int64) (domain.Event, error)
	CreateEvent(ctx context.Context, in domain.CreateEventInput) (domain.Event, error)
	GetParticipant(ctx context.Context, eventID, userID int64) (domain.Participant, bool, error)
	RegisterParticipant(ctx context.Context, p domain.Participant) error
}

// GetEvent implements Storage. Soft-deleted events are still returned;
// callers decide whether deletion matters for their operation
func (s *pg) GetEvent(ctx context.Context, id int64) (domain.Event, error) {
	const sqlq = `
		SELECT id, name, start_utc, end_utc, all_wikis, tracking_enabled, deleted, created_at
		FROM events
		WHERE id = $1
	`
	var ev domain.Event
	err := s.q.QueryRow(ctx, sqlq, id).Scan(
		&ev.ID, &ev.Name, &ev.StartUTC, &ev.EndUTC,
		&ev.AllWikis, &ev.TrackingEnabled, &ev.Deleted, &ev.CreatedAt,
	)
	if err != nil {
		if perr.IsNoRows(err) {
			return domain.Event{}, perr.NotFoundf("event %d not found", id)
		}
		return domain.Event{}, perr.FromPostgres(err, "get event")
	}
	if !ev.AllWikis {
		wikis, err := s.eventWikis(ctx, id)
		if err != nil {
			return domain.Event{}, err
		}
		ev.Wikis = wikis
	}
	return ev, nil
}

func (s *pg) eventWikis(ctx context.Context, id int64) ([]string, error) {
	rows, err := s.q.Query(ctx, `SELECT wiki FROM event_wikis WHERE event_id = $1 ORDER BY wiki`, id)
	if err != nil {
		return nil, perr.FromPostgres(err, "event wikis")
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var w string
		if err := rows.Scan(&w); err != nil {
			return nil, perr.FromPostgres(err, "scan event wiki")
		}
		out = append(out, w)
	}
	return out, rows.Err()
}

// CreateEvent implements Storage. The organizer is registered as a public
// organizer participant in the same transaction scope as the event row
func (s *pg) CreateEvent(ctx context.Context, in domain.CreateEventInput) (domain.Event, error) {
	allWikis := false
	for _, w := range in.Wikis {
		if w == domain.WikiAll {
			allWikis = true
			break
		}
	}

	const ins = `
		INSERT INTO events (name, start_utc, end_utc, all_wikis, tracking_enabled, deleted)
		VALUES ($1, $2, $3, $4, $5, FALSE)
		RETURNING id, created_at
	`
	var ev domain.Event
	ev.Name = in.Name
	ev.StartUTC = in.StartUTC
	ev.EndUTC = in.EndUTC
	ev.AllWikis = allWikis
	ev.TrackingEnabled = in.TrackingEnabled
	if err := s.q.QueryRow(ctx, ins, in.Name, in.StartUTC, in.EndUTC, allWikis, in.TrackingEnabled).
		Scan(&ev.ID, &ev.CreatedAt); err != nil {
		return domain.Event{}, perr.FromPostgres(err, "insert event")
	}

	if !allWikis {
		for _, w := range in.Wikis {
			if _, err := s.q.Exec(ctx,
				`INSERT INTO event_wikis (event_id, wiki) VALUES ($1, $2) ON CONFLICT DO NOTHING`,
				ev.ID, w,
			); err != nil {
				return domain.Event{}, perr.FromPostgres(err, "insert event wiki")
			}
			ev.Wikis = append(ev.Wikis, w)
		}
	}

	if in.Organizer != 0 {
		if err := s.RegisterParticipant(ctx, domain.Participant{
			EventID:   ev.ID,
			UserID:    in.Organizer,
			Organizer: true,
		}); err != nil {
			return domain.Event{}, err
		}
	}
	return ev, nil
}

// GetParticipant implements Storage
func (s *pg) GetParticipant(ctx context.Context, eventID, userID int64) (domain.Participant, bool, error) {
	const sqlq = `
		SELECT event_id, user_id, private, organizer
		FROM participants
		WHERE event_id = $1 AND user_id = $2
	`
	var p domain.Participant
	err := s.q.QueryRow(ctx, sqlq, eventID, userID).Scan(&p.EventID, &p.UserID, &p.Private, &p.Organizer)
	if err != nil {
		if perr.IsNoRows(err) {
			return domain.Participant{}, false, nil
		}
		return domain.Participant{}, false, perr.FromPostgres(err, "get participant")
	}
	return p, true, nil
}

// RegisterParticipant implements Storage; re-registration updates flags
func (s *pg) RegisterParticipant(ctx context.Context, p domain.Participant) error {
	const sqlq = `
		INSERT INTO participants (event_id, user_id, private, organizer)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (event_id, user_id)
		DO UPDATE SET private = EXCLUDED.private, organizer = EXCLUDED.organizer
	`
	if _, err := s.q.Exec(ctx, sqlq, p.EventID, p.UserID, p.Private, p.Organizer); err != nil {
		return perr.FromPostgres(err, "register participant")
	}
	return nil
}
