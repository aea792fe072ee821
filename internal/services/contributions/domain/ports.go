package domain

import (
	"context"
	"time"
)

// Revision is the shape of a revision lookup result
type Revision struct {
	ID         int64
	ParentID   int64 // 0 when the revision created the page
	Size       int64
	Timestamp  time.Time
	Visibility int // non-zero when any part of the revision is suppressed
	PageID     int64
	PageTitle  string // wiki-qualified display title
	UserID     int64  // central author id, 0 when unresolvable
	UserName   string
}

// RevisionPort looks up revisions on a wiki.
// A missing revision yields a not-found error
type RevisionPort interface {
	GetRevision(ctx context.Context, wiki string, revID int64) (Revision, error)
}

// RendererPort renders a revision to HTML for link counting.
// Callers treat failures as best-effort (zero links)
type RendererPort interface {
	Render(ctx context.Context, wiki string, revID int64) (string, error)
}

// ComputePort derives metrics and builds a Contribution
type ComputePort interface {
	ComputeContribution(ctx context.Context, wiki string, revisionID, eventID, userID int64) (Contribution, error)
}

// ValidatorPort is the sole write entry point on the request path
type ValidatorPort interface {
	ValidateAndSchedule(ctx context.Context, eventID, revisionID int64, wiki string, performer int64) error
}

// WriterPort persists and removes contributions (job side)
type WriterPort interface {
	SaveContribution(ctx context.Context, c Contribution) error
	DeleteContribution(ctx context.Context, id int64, performer int64) error
}

// QueryPort serves the read side
type QueryPort interface {
	EventSummary(ctx context.Context, eventID, callerID int64, includePrivate bool) (Summary, error)
	List(ctx context.Context, q ListQuery) ([]Row, string, error)
}

// HousekeepingPort applies lifecycle updates to persisted rows
type HousekeepingPort interface {
	UpdateTitle(ctx context.Context, wiki string, pageID int64, newTitle string) error
	MarkPageDeleted(ctx context.Context, wiki string, pageID int64) error
	MarkPageRestored(ctx context.Context, wiki string, pageID int64) error
	UpdateRevisionVisibility(ctx context.Context, wiki string, pageID int64, deletedRevIDs, restoredRevIDs []int64) error
	UpdateUserName(ctx context.Context, userID int64, newName string) error
	UpdateUserVisibility(ctx context.Context, userID int64, hidden bool, userName string) error
}
