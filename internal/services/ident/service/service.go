// Package service provides the ident service implementation
package service

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"editledger/internal/modkit/repokit"
	perr "editledger/internal/platform/errors"
	"editledger/internal/services/ident/domain"
	"editledger/internal/services/ident/repo"
)

// Svc implements domain.Ports over the users mirror
type Svc struct {
	db     repokit.TxRunner
	binder repokit.Binder[repo.Storage]
}

// New constructs the ident service
func New(db repokit.TxRunner, binder repokit.Binder[repo.Storage]) *Svc {
	if db == nil {
		panic("ident.Service requires a non-nil TxRunner")
	}
	if binder == nil {
		panic("ident.Service requires a non-nil Storage binder")
	}
	return &Svc{db: db, binder: binder}
}

var _ domain.Ports = (*Svc)(nil)

// ResolveName implements domain.ResolverPort
func (s *Svc) ResolveName(ctx context.Context, userID int64) (string, error) {
	u, ok, err := s.binder.Bind(s.db).Get(ctx, userID)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", perr.NotFoundf("user %d not found", userID)
	}
	if u.Hidden {
		return "", perr.Forbiddenf("user %d is hidden", userID)
	}
	return u.Name, nil
}

// ResolveNames implements domain.ResolverPort
func (s *Svc) ResolveNames(ctx context.Context, userIDs []int64) (map[int64]domain.User, error) {
	return s.binder.Bind(s.db).GetBatch(ctx, userIDs)
}

// Ensure implements domain.WriterPort
func (s *Svc) Ensure(ctx context.Context, u domain.User) error {
	if u.ID == 0 {
		return perr.InvalidArgf("user needs a central id")
	}
	return s.binder.Bind(s.db).Upsert(ctx, u)
}

// Rename implements domain.WriterPort
func (s *Svc) Rename(ctx context.Context, userID int64, newName string) error {
	if newName == "" {
		return perr.InvalidArgf("new name must not be empty")
	}
	return s.binder.Bind(s.db).Rename(ctx, userID, newName)
}

// SetVisibility implements domain.WriterPort
func (s *Svc) SetVisibility(ctx context.Context, userID int64, hidden bool) error {
	return s.binder.Bind(s.db).SetVisibility(ctx, userID, hidden)
}

// HeaderAuth is the middleware.AuthPort implementation: the upstream wiki
// frontend forwards the acting central user in a trusted header
type HeaderAuth struct {
	Header string // defaults to X-Central-User-Id
}

// Parse implements middleware.AuthPort
func (a HeaderAuth) Parse(r *http.Request) (int64, error) {
	name := a.Header
	if name == "" {
		name = "X-Central-User-Id"
	}
	raw := strings.TrimSpace(r.Header.Get(name))
	if raw == "" {
		// no header means an anonymous request; writes enforce identity
		return 0, nil
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, perr.Unauthorizedf("invalid %s header", name)
	}
	return id, nil
}
