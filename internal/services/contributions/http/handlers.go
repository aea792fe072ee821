// Package http provides HTTP transport for direct contribution operations
package http

import (
	stdhttp "net/http"
	"strconv"

	"editledger/internal/modkit/httpkit"
	perr "editledger/internal/platform/errors"
	svc "editledger/internal/services/contributions/service"
)

// Register mounts contribution endpoints on the given router.
// Association and listing live on the events routes; this is the
// organizer-facing removal surface
func Register(r httpkit.Router, s *svc.Svc) {
	h := &handlers{svc: s}

	httpkit.Delete(r, "/{id}", h.deleteContribution)
}

type handlers struct{ svc *svc.Svc }

func (h *handlers) deleteContribution(r *stdhttp.Request) (any, error) {
	id, err := strconv.ParseInt(httpkit.Param(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		return nil, perr.InvalidArgf("malformed contribution id")
	}
	performer, err := httpkit.Performer(r)
	if err != nil {
		return nil, err
	}
	if err := h.svc.DeleteContribution(r.Context(), id, performer); err != nil {
		return nil, err
	}
	return httpkit.NoContent(), nil
}
