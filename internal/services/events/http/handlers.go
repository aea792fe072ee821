// Package http provides HTTP transport for events and their contributions
package http

import (
	stdhttp "net/http"
	"strconv"

	"editledger/internal/modkit/httpkit"
	perr "editledger/internal/platform/errors"
	pnet "editledger/internal/platform/net"
	contribdomain "editledger/internal/services/contributions/domain"
	"editledger/internal/services/events/domain"
	svc "editledger/internal/services/events/service"
)

// ContribPorts are the contribution ports the events routes drive.
// Owned here so the events module does not import the contributions module
type ContribPorts struct {
	Validator contribdomain.ValidatorPort
	Query     contribdomain.QueryPort
}

// Register mounts event endpoints on the given router
func Register(r httpkit.Router, s *svc.Svc, contribs ContribPorts) {
	h := &handlers{svc: s, contribs: contribs}

	httpkit.PostJSON[domain.CreateEventReq](r, "/", h.createEvent)
	httpkit.Get(r, "/{id}", h.getEvent)
	httpkit.PostJSON[domain.RegisterParticipantReq](r, "/{id}/participants", h.registerParticipant)

	httpkit.PostJSON[contribdomain.AssociateReq](r, "/{id}/contributions", h.associateContribution)
	httpkit.Get(r, "/{id}/contributions", h.listContributions)
	httpkit.Get(r, "/{id}/contributions/summary", h.contributionSummary)
}

type handlers struct {
	svc      *svc.Svc
	contribs ContribPorts
}

func eventID(r *stdhttp.Request) (int64, error) {
	id, err := strconv.ParseInt(httpkit.Param(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, perr.InvalidArgf("malformed event id")
	}
	return id, nil
}

func (h *handlers) createEvent(r *stdhttp.Request, in domain.CreateEventReq) (any, error) {
	performer, err := httpkit.Performer(r)
	if err != nil {
		return nil, err
	}
	tracking := true
	if in.TrackingEnabled != nil {
		tracking = *in.TrackingEnabled
	}
	ev, err := h.svc.CreateEvent(r.Context(), domain.CreateEventInput{
		Name:            in.Name,
		StartUTC:        in.StartUTC,
		EndUTC:          in.EndUTC,
		Wikis:           in.Wikis,
		TrackingEnabled: tracking,
		Organizer:       performer,
	})
	if err != nil {
		return nil, err
	}
	return httpkit.Created(domain.EventRespFrom(ev)), nil
}

func (h *handlers) getEvent(r *stdhttp.Request) (any, error) {
	id, err := eventID(r)
	if err != nil {
		return nil, err
	}
	ev, err := h.svc.GetEvent(r.Context(), id)
	if err != nil {
		return nil, err
	}
	return domain.EventRespFrom(ev), nil
}

func (h *handlers) registerParticipant(r *stdhttp.Request, in domain.RegisterParticipantReq) (any, error) {
	id, err := eventID(r)
	if err != nil {
		return nil, err
	}
	performer, err := httpkit.Performer(r)
	if err != nil {
		return nil, err
	}
	if err := h.svc.RegisterParticipant(r.Context(), domain.Participant{
		EventID: id,
		UserID:  performer,
		Private: in.Private,
	}); err != nil {
		return nil, err
	}
	return httpkit.NoContent(), nil
}

// associateContribution is the sole write entry point on the request path;
// heavy work happens in the queue, hence 202
func (h *handlers) associateContribution(r *stdhttp.Request, in contribdomain.AssociateReq) (any, error) {
	id, err := eventID(r)
	if err != nil {
		return nil, err
	}
	performer, err := httpkit.Performer(r)
	if err != nil {
		return nil, err
	}
	if err := h.contribs.Validator.ValidateAndSchedule(r.Context(), id, in.RevisionID, in.Wiki, performer); err != nil {
		return nil, err
	}
	return httpkit.Accepted(in), nil
}

func (h *handlers) contributionSummary(r *stdhttp.Request) (any, error) {
	id, err := eventID(r)
	if err != nil {
		return nil, err
	}
	caller := pnet.CentralUser(r.Context())
	includePrivate, err := h.viewPrivate(r, id, caller)
	if err != nil {
		return nil, err
	}
	return h.contribs.Query.EventSummary(r.Context(), id, caller, includePrivate)
}

func (h *handlers) listContributions(r *stdhttp.Request) (any, error) {
	id, err := eventID(r)
	if err != nil {
		return nil, err
	}
	caller := pnet.CentralUser(r.Context())
	includePrivate, err := h.viewPrivate(r, id, caller)
	if err != nil {
		return nil, err
	}

	q := contribdomain.ListQuery{
		EventID:        id,
		Sort:           contribdomain.SortKey(r.URL.Query().Get("sort")),
		Cursor:         r.URL.Query().Get("cursor"),
		CallerID:       caller,
		IncludePrivate: includePrivate,
	}
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			return nil, perr.InvalidArgf("malformed limit %q", raw)
		}
		q.Limit = n
	}

	rows, next, err := h.contribs.Query.List(r.Context(), q)
	if err != nil {
		return nil, err
	}
	items := make([]contribdomain.ContributionResp, len(rows))
	for i, row := range rows {
		items[i] = contribdomain.ContributionRespFrom(row)
	}
	return httpkit.List(items, len(items), next), nil
}

// viewPrivate: organizers of the event see private participants
func (h *handlers) viewPrivate(r *stdhttp.Request, eventID, caller int64) (bool, error) {
	if caller == 0 {
		return false, nil
	}
	return h.svc.IsOrganizer(r.Context(), eventID, caller)
}
