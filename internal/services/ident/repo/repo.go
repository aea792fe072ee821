// Package repo provides Postgres bindings for the ident service
package repo

import (
	"context"

	"editledger/internal/modkit/repokit"
	perr "editledger/internal/platform/errors"
	"editledger/internal/services/ident/domain"
)

type (
	pg     struct{ q repokit.Queryer }
	binder struct{}
)

// NewPG constructs a new repo binder for Postgres
func NewPG() repokit.Binder[Storage] { return binder{} }

// Bind implements repokit.Binder
func (binder) Bind(q repokit.Queryer) Storage { return &pg{q: q} }

// Storage defines the ident repository
type Storage interface {
	Get(ctx context.Context, userID int64) (domain.User, bool, error)
	GetBatch(ctx context.Context, userIDs []int64) (map[int64]domain.User, error)
	Upsert(ctx context.Context, u domain.User) error
	Rename(ctx context.Context, userID int64, newName string) error
	SetVisibility(ctx context.Context, userID int64, hidden bool) error
}

// Get implements Storage
func (s *pg) Get(ctx context.Context, userID int64) (domain.User, bool, error) {
	var u domain.User
	err := s.q.QueryRow(ctx,
		`SELECT user_id, name, hidden FROM users WHERE user_id = $1`, userID,
	).Scan(&u.ID, &u.Name, &u.Hidden)
	if err != nil {
		if perr.IsNoRows(err) {
			return domain.User{}, false, nil
		}
		return domain.User{}, false, perr.FromPostgres(err, "get user")
	}
	return u, true, nil
}

// GetBatch implements Storage; one query for the pager's preload pass
func (s *pg) GetBatch(ctx context.Context, userIDs []int64) (map[int64]domain.User, error) {
	out := make(map[int64]domain.User, len(userIDs))
	if len(userIDs) == 0 {
		return out, nil
	}
	rows, err := s.q.Query(ctx,
		`SELECT user_id, name, hidden FROM users WHERE user_id = ANY($1::bigint[])`, userIDs,
	)
	if err != nil {
		return nil, perr.FromPostgres(err, "batch get users")
	}
	defer rows.Close()

	for rows.Next() {
		var u domain.User
		if err := rows.Scan(&u.ID, &u.Name, &u.Hidden); err != nil {
			return nil, perr.FromPostgres(err, "scan user")
		}
		out[u.ID] = u
	}
	return out, rows.Err()
}

// Upsert implements Storage
func (s *pg) Upsert(ctx context.Context, u domain.User) error {
	_, err := s.q.Exec(ctx, `
		INSERT INTO users (user_id, name, hidden)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id) DO UPDATE SET name = EXCLUDED.name, hidden = EXCLUDED.hidden
	`, u.ID, u.Name, u.Hidden)
	return perr.FromPostgres(err, "upsert user")
}

// Rename implements Storage
func (s *pg) Rename(ctx context.Context, userID int64, newName string) error {
	_, err := s.q.Exec(ctx, `UPDATE users SET name = $2 WHERE user_id = $1`, userID, newName)
	return perr.FromPostgres(err, "rename user")
}

// SetVisibility implements Storage
func (s *pg) SetVisibility(ctx context.Context, userID int64, hidden bool) error {
	_, err := s.q.Exec(ctx, `UPDATE users SET hidden = $2 WHERE user_id = $1`, userID, hidden)
	return perr.FromPostgres(err, "set user visibility")
}
