package repo

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	perr "editledger/internal/platform/errors"
	"editledger/internal/services/contributions/domain"
)

// rowColumnsQualified mirrors rowColumns with the contributions alias for
// joined queries where event_id/user_id would otherwise be ambiguous
const rowColumnsQualified = `c.id, c.event_id, c.user_id, c.user_name, c.user_hidden, c.wiki,
	c.page_title, c.page_id, c.revision_id, c.edit_flags, c.bytes_delta, c.links_delta,
	c.edit_ts, c.deleted, c.page_deleted`

// sortSpec describes one whitelisted compound ordering.
// Every ordering ends in the c.id tiebreaker so pagination stays
// deterministic when primary sort values repeat
type sortSpec struct {
	column string // primary sort column
	desc   bool
}

var sortSpecs = map[domain.SortKey]sortSpec{
	domain.SortByTime:     {column: "c.edit_ts", desc: true},
	domain.SortByPage:     {column: "c.page_title"},
	domain.SortByWiki:     {column: "c.wiki"},
	domain.SortByUsername: {column: "c.user_name"},
	domain.SortByBytes:    {column: "c.bytes_delta", desc: true},
}

// List implements Storage: keyset-paginated, privacy-filtered listing.
// Rows with a deleted revision are excluded. Rows on a deleted page stay
// listed with their page_deleted marker, unlike Summary which drops them
// from the aggregates; the page may come back and the row is still an edit
// someone made. Without the view-private right the caller sees
// public-participant rows OR their own rows, joined live against
// participants so later privacy changes apply to history immediately
func (s *pg) List(ctx context.Context, q domain.ListQuery) ([]domain.Row, string, error) {
	key := q.Sort
	if key == "" {
		key = domain.SortByTime
	}
	spec, ok := sortSpecs[key]
	if !ok {
		return nil, "", perr.InvalidArgf("unknown sort key %q", key)
	}

	var sb strings.Builder
	var args []any
	arg := func(v any) string { args = append(args, v); return fmt.Sprintf("$%d", len(args)) }

	sb.WriteString(`
		SELECT ` + rowColumnsQualified + `, p.private
		FROM contributions c
		JOIN participants p ON p.event_id = c.event_id AND p.user_id = c.user_id
		WHERE c.event_id = ` + arg(q.EventID) + `
			AND NOT c.deleted
	`)
	if !q.IncludePrivate {
		sb.WriteString("  AND (NOT p.private OR c.user_id = " + arg(q.CallerID) + ")\n")
	}

	if q.Cursor != "" {
		cur, err := decodeCursor(q.Cursor)
		if err != nil {
			return nil, "", err
		}
		v, err := cursorValue(key, cur.V)
		if err != nil {
			return nil, "", err
		}
		cmp := ">"
		if spec.desc {
			cmp = "<"
		}
		sb.WriteString("  AND (" + spec.column + ", c.id) " + cmp + " (" + arg(v) + ", " + arg(cur.ID) + ")\n")
	}

	dir := "ASC"
	if spec.desc {
		dir = "DESC"
	}
	sb.WriteString("ORDER BY " + spec.column + " " + dir + ", c.id " + dir + "\n")
	sb.WriteString("LIMIT " + arg(q.Limit))

	// the SELECT list must match scanContribution plus the privacy flag
	rows, err := s.q.Query(ctx, sb.String(), args...)
	if err != nil {
		return nil, "", perr.FromPostgres(err, "list contributions")
	}
	defer rows.Close()

	out := make([]domain.Row, 0, q.Limit)
	var last cursor
	for rows.Next() {
		var r domain.Row
		if err := rows.Scan(
			&r.ID, &r.EventID, &r.UserID, &r.UserName, &r.UserHidden, &r.Wiki, &r.PageTitle, &r.PageID,
			&r.RevisionID, &r.EditFlags, &r.BytesDelta, &r.LinksDelta, &r.EditTS, &r.Deleted, &r.PageDelete,
			&r.AuthorPrivate,
		); err != nil {
			return nil, "", perr.InvalidArgf("invalid contribution row: %v", err)
		}
		out = append(out, r)
		last = cursor{V: sortValue(key, r), ID: r.ID}
	}
	if err := rows.Err(); err != nil {
		return nil, "", perr.FromPostgres(err, "list contributions")
	}

	next := ""
	if len(out) == q.Limit && q.Limit > 0 {
		next = encodeCursor(last)
	}
	return out, next, nil
}

// sortValue serializes the row's primary sort value for the cursor
func sortValue(key domain.SortKey, r domain.Row) string {
	switch key {
	case domain.SortByPage:
		return r.PageTitle
	case domain.SortByWiki:
		return r.Wiki
	case domain.SortByUsername:
		return r.UserName
	case domain.SortByBytes:
		return strconv.FormatInt(r.BytesDelta, 10)
	default:
		return r.EditTS.UTC().Format(time.RFC3339Nano)
	}
}

// cursorValue parses the serialized sort value back into a query argument
func cursorValue(key domain.SortKey, v string) (any, error) {
	switch key {
	case domain.SortByPage, domain.SortByWiki, domain.SortByUsername:
		return v, nil
	case domain.SortByBytes:
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return nil, perr.InvalidArgf("malformed cursor")
		}
		return n, nil
	default:
		ts, err := time.Parse(time.RFC3339Nano, v)
		if err != nil {
			return nil, perr.InvalidArgf("malformed cursor")
		}
		return ts, nil
	}
}
