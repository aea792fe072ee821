package service

import (
	"context"

	"editledger/internal/core/wikilinks"
	"editledger/internal/services/contributions/domain"
)

// ComputeContribution implements domain.ComputePort: derive metrics for one
// revision against its direct parent and build the entity.
// Runs only inside the async job, never on the request path
func (s *Svc) ComputeContribution(
	ctx context.Context,
	wiki string,
	revisionID, eventID, userID int64,
) (domain.Contribution, error) {
	rev, err := s.revs.GetRevision(ctx, wiki, revisionID)
	if err != nil {
		return domain.Contribution{}, err
	}

	flags := 0
	var parentSize int64
	var parentLinks int64
	if rev.ParentID == 0 {
		flags |= domain.EditFlagCreation
	} else {
		parent, err := s.revs.GetRevision(ctx, wiki, rev.ParentID)
		if err != nil {
			return domain.Contribution{}, err
		}
		parentSize = parent.Size
		parentLinks = s.countLinks(ctx, wiki, parent.ID)
	}

	c := domain.Contribution{
		EventID:    eventID,
		UserID:     userID,
		UserName:   rev.UserName,
		Wiki:       wiki,
		PageTitle:  rev.PageTitle,
		PageID:     rev.PageID,
		RevisionID: rev.ID,
		EditFlags:  flags,
		BytesDelta: rev.Size - parentSize,
		LinksDelta: s.countLinks(ctx, wiki, rev.ID) - parentLinks,
		EditTS:     rev.Timestamp,
		Deleted:    rev.Visibility != 0,
	}

	// prefer the identity mirror for display name and hidden flag; the
	// revision's author name is the fallback when the mirror has no row
	if users, err := s.ident.ResolveNames(ctx, []int64{userID}); err == nil {
		if u, ok := users[userID]; ok {
			c.UserName = u.Name
			c.UserHidden = u.Hidden
		}
	}
	return c, nil
}

// countLinks renders the revision and counts internal wiki links.
// Best effort: any failure yields zero so an approximate link delta never
// blocks recording the contribution
func (s *Svc) countLinks(ctx context.Context, wiki string, revID int64) int64 {
	src, err := s.renderer.Render(ctx, wiki, revID)
	if err != nil {
		s.log.Warn().Err(err).Str("wiki", wiki).Int64("rev", revID).Msg("render failed, counting zero links")
		return 0
	}
	n, err := wikilinks.Count(src)
	if err != nil {
		s.log.Warn().Err(err).Str("wiki", wiki).Int64("rev", revID).Msg("link count failed, counting zero")
		return 0
	}
	return int64(n)
}
