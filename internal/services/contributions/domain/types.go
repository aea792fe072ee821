// Package domain defines the types and interfaces for the contributions service
package domain

import "time"

// EditFlagCreation marks a revision that created its page (bit 0)
const EditFlagCreation = 1 << 0

// Contribution is one edit-to-event association plus derived metrics.
// Immutable after computation; later changes go through the narrow
// housekeeping updates only
type Contribution struct {
	ID         int64
	EventID    int64
	UserID     int64 // central author id
	UserName   string
	UserHidden bool
	Wiki       string
	PageTitle  string // prefixed display title at recording time
	PageID     int64
	RevisionID int64
	EditFlags  int
	BytesDelta int64
	LinksDelta int64
	EditTS     time.Time
	Deleted    bool // revision suppressed/deleted
	PageDelete bool // page-level deletion marker
}

// Created reports whether the creation bit is set
func (c Contribution) Created() bool { return c.EditFlags&EditFlagCreation != 0 }

// Summary is the aggregate reporting view for one event
type Summary struct {
	Participants    int64 `json:"participants"`
	WikisEdited     int64 `json:"wikis_edited"`
	ArticlesCreated int64 `json:"articles_created"`
	ArticlesEdited  int64 `json:"articles_edited"`
	EditsTotal      int64 `json:"edits_total"`
	BytesAdded      int64 `json:"bytes_added"`
	BytesRemoved    int64 `json:"bytes_removed"`
	LinksAdded      int64 `json:"links_added"`
	LinksRemoved    int64 `json:"links_removed"`
}

// SortKey selects one of the whitelisted compound orderings
type SortKey string

// Whitelisted sort keys; every compound ordering ends in the id tiebreaker
const (
	SortByTime     SortKey = "time" // default, descending
	SortByPage     SortKey = "page"
	SortByWiki     SortKey = "wiki"
	SortByUsername SortKey = "user"
	SortByBytes    SortKey = "bytes"
)

// Valid reports whether k is one of the whitelisted keys
func (k SortKey) Valid() bool {
	switch k {
	case SortByTime, SortByPage, SortByWiki, SortByUsername, SortByBytes:
		return true
	}
	return false
}

// ListQuery shapes one page of the contribution listing
type ListQuery struct {
	EventID int64
	Sort    SortKey
	Cursor  string // opaque keyset cursor, empty for the first page
	Limit   int

	// privacy scope
	CallerID       int64
	IncludePrivate bool // caller holds the view-private-participants right
}

// Row is one listing row: the persisted fields plus the joined privacy flag
type Row struct {
	Contribution
	AuthorPrivate bool
}
