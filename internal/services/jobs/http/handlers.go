// Package http provides the housekeeping hook endpoints
package http

import (
	stdhttp "net/http"

	"editledger/internal/modkit/httpkit"
	"editledger/internal/services/jobs/domain"
)

// Register mounts the hook endpoints on the given router.
// Hooks only enqueue; the worker applies the updates
func Register(r httpkit.Router, q domain.EnqueuePort) {
	h := &handlers{queue: q}

	httpkit.PostJSON[domain.PageHookReq](r, "/page", h.pageHook)
	httpkit.PostJSON[domain.UserHookReq](r, "/user", h.userHook)
}

type handlers struct{ queue domain.EnqueuePort }

func (h *handlers) pageHook(r *stdhttp.Request, in domain.PageHookReq) (any, error) {
	t, err := in.Task()
	if err != nil {
		return nil, err
	}
	if err := h.queue.Enqueue(r.Context(), t); err != nil {
		return nil, err
	}
	return httpkit.Accepted(nil), nil
}

func (h *handlers) userHook(r *stdhttp.Request, in domain.UserHookReq) (any, error) {
	t, err := in.Task()
	if err != nil {
		return nil, err
	}
	if err := h.queue.Enqueue(r.Context(), t); err != nil {
		return nil, err
	}
	return httpkit.Accepted(nil), nil
}
