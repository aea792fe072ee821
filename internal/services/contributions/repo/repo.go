// Package repo provides the contributions repository implementation
package repo

import (
	"context"

	"editledger/internal/modkit/repokit"
	perr "editledger/internal/platform/errors"
	"editledger/internal/services/contributions/domain"
)

type (
	pg     struct{ q repokit.Queryer }
	binder struct{}
)

// NewPG constructs a new repo binder for Postgres
func NewPG() repokit.Binder[Storage] { return binder{} }

// Bind implements repokit.Binder
func (binder) Bind(q repokit.Queryer) Storage { return &pg{q: q} }

// Storage defines the contributions repository
type Storage interface {
	Insert(ctx context.Context, c domain.Contribution) error
	FindByRevision(ctx context.Context, wiki string, revisionID int64) (domain.Contribution, bool, error)
	DeleteByID(ctx context.Context, id int64) (int64, error)
	EventIDOf(ctx context.Context, id int64) (int64, error)

	Summary(ctx context.Context, eventID, callerID int64, includePrivate bool) (domain.Summary, error)
	List(ctx context.Context, q domain.ListQuery) ([]domain.Row, string, error)

	// housekeeping, intentionally narrow single-column updates
	UpdateTitle(ctx context.Context, wiki string, pageID int64, newTitle string) error
	MarkPageDeleted(ctx context.Context, wiki string, pageID int64) error
	MarkPageRestored(ctx context.Context, wiki string, pageID int64) error
	UpdateRevisionVisibility(ctx context.Context, wiki string, pageID int64, deletedRevIDs, restoredRevIDs []int64) error
	UpdateUserName(ctx context.Context, userID int64, newName string) error
	UpdateUserVisibility(ctx context.Context, userID int64, hidden bool, userName string) error
}

// Insert implements Storage. The unique index on (wiki, revision_id) is the
// last line of defense against concurrent duplicate submission; a 23505 maps
// to the duplicate-key code so the caller can treat it as already-associated
func (s *pg) Insert(ctx context.Context, c domain.Contribution) error {
	const sqlq = `
		INSERT INTO contributions
			(event_id, user_id, user_name, user_hidden, wiki, page_title, page_id,
			revision_id, edit_flags, bytes_delta, links_delta, edit_ts, deleted, page_deleted)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,FALSE)
	`
	_, err := s.q.Exec(ctx, sqlq,
		c.EventID, c.UserID, c.UserName, c.UserHidden, c.Wiki, c.PageTitle, c.PageID,
		c.RevisionID, c.EditFlags, c.BytesDelta, c.LinksDelta, c.EditTS, c.Deleted,
	)
	if err != nil {
		if perr.IsDuplicateKey(err) {
			return perr.DuplicateKeyf("revision %d on %s is already associated", c.RevisionID, c.Wiki)
		}
		return perr.FromPostgres(err, "insert contribution")
	}
	return nil
}

// FindByRevision implements Storage; used by the validator's duplicate check
func (s *pg) FindByRevision(ctx context.Context, wiki string, revisionID int64) (domain.Contribution, bool, error) {
	const sqlq = `
		SELECT ` + rowColumns + `
		FROM contributions
		WHERE wiki = $1 AND revision_id = $2
	`
	row := s.q.QueryRow(ctx, sqlq, wiki, revisionID)
	c, err := scanContribution(row)
	if err != nil {
		if perr.IsNoRows(err) {
			return domain.Contribution{}, false, nil
		}
		return domain.Contribution{}, false, err
	}
	return c, true, nil
}

// DeleteByID implements Storage; returns the number of removed rows
func (s *pg) DeleteByID(ctx context.Context, id int64) (int64, error) {
	tag, err := s.q.Exec(ctx, `DELETE FROM contributions WHERE id = $1`, id)
	if err != nil {
		return 0, perr.FromPostgres(err, "delete contribution")
	}
	return tag.RowsAffected(), nil
}

// EventIDOf implements Storage
func (s *pg) EventIDOf(ctx context.Context, id int64) (int64, error) {
	var eventID int64
	err := s.q.QueryRow(ctx, `SELECT event_id FROM contributions WHERE id = $1`, id).Scan(&eventID)
	if err != nil {
		if perr.IsNoRows(err) {
			return 0, perr.NotFoundf("contribution %d not found", id)
		}
		return 0, perr.FromPostgres(err, "contribution event lookup")
	}
	return eventID, nil
}

// rowColumns is the canonical column list for contribution scans.
// scanContribution must stay in field order with it
const rowColumns = `id, event_id, user_id, user_name, user_hidden, wiki, page_title, page_id,
	revision_id, edit_flags, bytes_delta, links_delta, edit_ts, deleted, page_deleted`

// scanContribution maps one row into the entity. A scan failure means schema
// drift; surfaced as invalid-argument to fail loudly rather than produce a
// partial entity
func scanContribution(row repokit.Row) (domain.Contribution, error) {
	var c domain.Contribution
	err := row.Scan(
		&c.ID, &c.EventID, &c.UserID, &c.UserName, &c.UserHidden, &c.Wiki, &c.PageTitle, &c.PageID,
		&c.RevisionID, &c.EditFlags, &c.BytesDelta, &c.LinksDelta, &c.EditTS, &c.Deleted, &c.PageDelete,
	)
	if err != nil {
		if perr.IsNoRows(err) {
			return domain.Contribution{}, err
		}
		return domain.Contribution{}, perr.InvalidArgf("invalid contribution row: %v", err)
	}
	return c, nil
}

// UpdateTitle implements Storage (page move)
func (s *pg) UpdateTitle(ctx context.Context, wiki string, pageID int64, newTitle string) error {
	_, err := s.q.Exec(ctx,
		`UPDATE contributions SET page_title = $3 WHERE wiki = $1 AND page_id = $2`,
		wiki, pageID, newTitle,
	)
	return perr.FromPostgres(err, "update title")
}

// MarkPageDeleted implements Storage
func (s *pg) MarkPageDeleted(ctx context.Context, wiki string, pageID int64) error {
	_, err := s.q.Exec(ctx,
		`UPDATE contributions SET page_deleted = TRUE WHERE wiki = $1 AND page_id = $2`,
		wiki, pageID,
	)
	return perr.FromPostgres(err, "mark page deleted")
}

// MarkPageRestored implements Storage
func (s *pg) MarkPageRestored(ctx context.Context, wiki string, pageID int64) error {
	_, err := s.q.Exec(ctx,
		`UPDATE contributions SET page_deleted = FALSE WHERE wiki = $1 AND page_id = $2`,
		wiki, pageID,
	)
	return perr.FromPostgres(err, "mark page restored")
}

// UpdateRevisionVisibility implements Storage; flips deleted per revision list
func (s *pg) UpdateRevisionVisibility(
	ctx context.Context,
	wiki string,
	pageID int64,
	deletedRevIDs, restoredRevIDs []int64,
) error {
	if len(deletedRevIDs) > 0 {
		_, err := s.q.Exec(ctx,
			`UPDATE contributions SET deleted = TRUE
			 WHERE wiki = $1 AND page_id = $2 AND revision_id = ANY($3::bigint[])`,
			wiki, pageID, deletedRevIDs,
		)
		if err != nil {
			return perr.FromPostgres(err, "mark revisions deleted")
		}
	}
	if len(restoredRevIDs) > 0 {
		_, err := s.q.Exec(ctx,
			`UPDATE contributions SET deleted = FALSE
			 WHERE wiki = $1 AND page_id = $2 AND revision_id = ANY($3::bigint[])`,
			wiki, pageID, restoredRevIDs,
		)
		if err != nil {
			return perr.FromPostgres(err, "mark revisions restored")
		}
	}
	return nil
}

// UpdateUserName implements Storage (user rename; central id is stable)
func (s *pg) UpdateUserName(ctx context.Context, userID int64, newName string) error {
	_, err := s.q.Exec(ctx,
		`UPDATE contributions SET user_name = $2 WHERE user_id = $1`,
		userID, newName,
	)
	return perr.FromPostgres(err, "update user name")
}

// UpdateUserVisibility implements Storage
func (s *pg) UpdateUserVisibility(ctx context.Context, userID int64, hidden bool, userName string) error {
	_, err := s.q.Exec(ctx,
		`UPDATE contributions SET user_hidden = $2, user_name = $3 WHERE user_id = $1`,
		userID, hidden, userName,
	)
	return perr.FromPostgres(err, "update user visibility")
}
