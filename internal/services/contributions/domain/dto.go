package domain

import "time"

// AssociateReq asks to associate one revision with an event.
// Accepted work is computed asynchronously
type AssociateReq struct {
	RevisionID int64  `json:"revision_id" validate:"required,min=1"`
	Wiki       string `json:"wiki"        validate:"required,wikiid"`
}

// ContributionResp is the transport shape of one recorded contribution.
// UserName is blank when the author is hidden from the caller
type ContributionResp struct {
	ID         int64     `json:"id"`
	UserID     int64     `json:"user_id"`
	UserName   string    `json:"user_name,omitempty"`
	UserHidden bool      `json:"user_hidden,omitempty"`
	Wiki       string    `json:"wiki"`
	PageTitle  string    `json:"page_title"`
	PageID     int64     `json:"page_id"`
	RevisionID int64     `json:"revision_id"`
	Created    bool      `json:"created"`
	BytesDelta int64     `json:"bytes_delta"`
	LinksDelta int64     `json:"links_delta"`
	EditTS     time.Time `json:"edit_ts"`
	Private    bool      `json:"private,omitempty"`
}

// ContributionRespFrom maps a listing row to its transport shape
func ContributionRespFrom(r Row) ContributionResp {
	return ContributionResp{
		ID:         r.ID,
		UserID:     r.UserID,
		UserName:   r.UserName,
		UserHidden: r.UserHidden,
		Wiki:       r.Wiki,
		PageTitle:  r.PageTitle,
		PageID:     r.PageID,
		RevisionID: r.RevisionID,
		Created:    r.Created(),
		BytesDelta: r.BytesDelta,
		LinksDelta: r.LinksDelta,
		EditTS:     r.EditTS,
		Private:    r.AuthorPrivate,
	}
}
