package mediawiki

import (
	"context"
	"encoding/json"
	"net/url"
	"strconv"

	perr "editledger/internal/platform/errors"
	"editledger/internal/services/contributions/domain"
)

var (
	_ domain.RevisionPort = (*Client)(nil)
	_ domain.RendererPort = (*Client)(nil)
)

// GetRevision implements domain.RevisionPort.
// A missing or invalid revision id yields not-found
func (c *Client) GetRevision(ctx context.Context, wiki string, revID int64) (domain.Revision, error) {
	params := url.Values{}
	params.Set("action", "query")
	params.Set("prop", "revisions")
	params.Set("revids", strconv.FormatInt(revID, 10))
	params.Set("rvprop", "ids|size|timestamp|user|userid|flags")

	body, err := c.Do(ctx, wiki, params)
	if err != nil {
		return domain.Revision{}, err
	}

	var out queryResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return domain.Revision{}, perr.Wrapf(err, perr.ErrorCodeJSON, "mediawiki decode query response")
	}
	if out.Error != nil {
		return domain.Revision{}, perr.Newf(perr.ErrorCodeUnknown, "mediawiki api error %s: %s", out.Error.Code, out.Error.Info)
	}
	if out.Query == nil {
		return domain.Revision{}, perr.Newf(perr.ErrorCodeUnknown, "mediawiki query response missing body")
	}
	if len(out.Query.BadRevIDs) > 0 {
		return domain.Revision{}, perr.NotFoundf("revision %d not found on %s", revID, wiki)
	}

	for _, p := range out.Query.Pages {
		if p.Missing {
			continue
		}
		for _, r := range p.Revisions {
			if r.RevID != revID {
				continue
			}
			userID := r.UserID
			if r.Anon {
				userID = 0
			}
			return domain.Revision{
				ID:         r.RevID,
				ParentID:   r.ParentID,
				Size:       r.Size,
				Timestamp:  r.Timestamp,
				Visibility: r.visibility(),
				PageID:     p.PageID,
				PageTitle:  p.Title,
				UserID:     userID,
				UserName:   r.User,
			}, nil
		}
	}
	return domain.Revision{}, perr.NotFoundf("revision %d not found on %s", revID, wiki)
}

// Render implements domain.RendererPort: fetch the parsed HTML of one
// revision. Callers already treat failures as best-effort
func (c *Client) Render(ctx context.Context, wiki string, revID int64) (string, error) {
	params := url.Values{}
	params.Set("action", "parse")
	params.Set("oldid", strconv.FormatInt(revID, 10))
	params.Set("prop", "text")

	body, err := c.Do(ctx, wiki, params)
	if err != nil {
		return "", err
	}

	var out parseResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return "", perr.Wrapf(err, perr.ErrorCodeJSON, "mediawiki decode parse response")
	}
	if out.Error != nil {
		if out.Error.Code == "nosuchrevid" || out.Error.Code == "missingtitle" {
			return "", perr.NotFoundf("revision %d not found on %s", revID, wiki)
		}
		return "", perr.Newf(perr.ErrorCodeUnknown, "mediawiki api error %s: %s", out.Error.Code, out.Error.Info)
	}
	if out.Parse == nil {
		return "", perr.Newf(perr.ErrorCodeUnknown, "mediawiki parse response missing body")
	}
	return out.Parse.Text, nil
}
