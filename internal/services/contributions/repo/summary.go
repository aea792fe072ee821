package repo

import (
	"context"
	"fmt"
	"strings"

	perr "editledger/internal/platform/errors"
	"editledger/internal/services/contributions/domain"
)

// Summary implements Storage: one aggregation pass over the event's live rows.
// Deleted revisions and deleted pages are excluded; rows by privately
// registered participants are excluded unless includePrivate, except the
// caller's own rows which are always visible to them
func (s *pg) Summary(
	ctx context.Context,
	eventID, callerID int64,
	includePrivate bool,
) (domain.Summary, error) {
	var sb strings.Builder
	var args []any
	arg := func(v any) string { args = append(args, v); return fmt.Sprintf("$%d", len(args)) }

	sb.WriteString(`
		SELECT
			COUNT(DISTINCT c.user_id),
			COUNT(DISTINCT c.wiki),
			COUNT(*) FILTER (WHERE c.edit_flags & 1 = 1),
			COUNT(DISTINCT (c.wiki, c.page_id)),
			COUNT(*),
			COALESCE(SUM(c.bytes_delta) FILTER (WHERE c.bytes_delta > 0), 0),
			COALESCE(-SUM(c.bytes_delta) FILTER (WHERE c.bytes_delta < 0), 0),
			COALESCE(SUM(c.links_delta) FILTER (WHERE c.links_delta > 0), 0),
			COALESCE(-SUM(c.links_delta) FILTER (WHERE c.links_delta < 0), 0)
		FROM contributions c
		JOIN participants p ON p.event_id = c.event_id AND p.user_id = c.user_id
		WHERE c.event_id = ` + arg(eventID) + `
			AND NOT c.deleted
			AND NOT c.page_deleted
	`)
	if !includePrivate {
		sb.WriteString("  AND (NOT p.private OR c.user_id = " + arg(callerID) + ")\n")
	}

	var out domain.Summary
	err := s.q.QueryRow(ctx, sb.String(), args...).Scan(
		&out.Participants, &out.WikisEdited,
		&out.ArticlesCreated, &out.ArticlesEdited, &out.EditsTotal,
		&out.BytesAdded, &out.BytesRemoved,
		&out.LinksAdded, &out.LinksRemoved,
	)
	if err != nil {
		return domain.Summary{}, perr.FromPostgres(err, "event summary")
	}
	return out, nil
}
