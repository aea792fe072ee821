// Package domain defines the job task variants and queue interfaces
package domain

import (
	"encoding/json"

	perr "editledger/internal/platform/errors"
)

// Kind discriminates queue rows into task variants
type Kind string

// Queue row kinds
const (
	KindContribution       Kind = "contribution"
	KindPageMoved          Kind = "page-moved"
	KindPageDeleted        Kind = "page-deleted"
	KindPageRestored       Kind = "page-restored"
	KindRevisionVisibility Kind = "revision-visibility"
	KindUserRenamed        Kind = "user-renamed"
	KindUserVisibility     Kind = "user-visibility"
)

// Task is one unit of asynchronous work. Each variant carries only its own
// required fields; Validate fails fast on a structurally incomplete task so
// bad payloads never reach a handler
type Task interface {
	Kind() Kind
	Validate() error
}

// ContributionTask computes metrics for one associated edit and persists it
type ContributionTask struct {
	EventID    int64  `json:"event_id"`
	RevisionID int64  `json:"revision_id"`
	UserID     int64  `json:"user_id"` // edit author's central id
	Wiki       string `json:"wiki"`
}

// Kind implements Task
func (ContributionTask) Kind() Kind { return KindContribution }

// Validate implements Task
func (t ContributionTask) Validate() error {
	if t.EventID == 0 || t.RevisionID == 0 || t.UserID == 0 || t.Wiki == "" {
		return perr.InvalidArgf("contribution task requires event_id, revision_id, user_id and wiki")
	}
	return nil
}

// PageMovedTask propagates a page move into recorded titles
type PageMovedTask struct {
	Wiki     string `json:"wiki"`
	PageID   int64  `json:"page_id"`
	NewTitle string `json:"new_title"`
}

// Kind implements Task
func (PageMovedTask) Kind() Kind { return KindPageMoved }

// Validate implements Task
func (t PageMovedTask) Validate() error {
	if t.Wiki == "" || t.PageID == 0 || t.NewTitle == "" {
		return perr.InvalidArgf("page-moved task requires wiki, page_id and new_title")
	}
	return nil
}

// PageDeletedTask marks a page's rows page-deleted
type PageDeletedTask struct {
	Wiki   string `json:"wiki"`
	PageID int64  `json:"page_id"`
}

// Kind implements Task
func (PageDeletedTask) Kind() Kind { return KindPageDeleted }

// Validate implements Task
func (t PageDeletedTask) Validate() error {
	if t.Wiki == "" || t.PageID == 0 {
		return perr.InvalidArgf("page-deleted task requires wiki and page_id")
	}
	return nil
}

// PageRestoredTask clears the page-deleted marker
type PageRestoredTask struct {
	Wiki   string `json:"wiki"`
	PageID int64  `json:"page_id"`
}

// Kind implements Task
func (PageRestoredTask) Kind() Kind { return KindPageRestored }

// Validate implements Task
func (t PageRestoredTask) Validate() error {
	if t.Wiki == "" || t.PageID == 0 {
		return perr.InvalidArgf("page-restored task requires wiki and page_id")
	}
	return nil
}

// RevisionVisibilityTask re-synchronizes per-revision deleted flags
type RevisionVisibilityTask struct {
	Wiki           string  `json:"wiki"`
	PageID         int64   `json:"page_id"`
	DeletedRevIDs  []int64 `json:"deleted_rev_ids"`
	RestoredRevIDs []int64 `json:"restored_rev_ids"`
}

// Kind implements Task
func (RevisionVisibilityTask) Kind() Kind { return KindRevisionVisibility }

// Validate implements Task
func (t RevisionVisibilityTask) Validate() error {
	if t.Wiki == "" || t.PageID == 0 {
		return perr.InvalidArgf("revision-visibility task requires wiki and page_id")
	}
	if len(t.DeletedRevIDs) == 0 && len(t.RestoredRevIDs) == 0 {
		return perr.InvalidArgf("revision-visibility task requires at least one revision id")
	}
	return nil
}

// UserRenamedTask propagates a central-user rename
type UserRenamedTask struct {
	UserID  int64  `json:"user_id"`
	NewName string `json:"new_name"`
}

// Kind implements Task
func (UserRenamedTask) Kind() Kind { return KindUserRenamed }

// Validate implements Task
func (t UserRenamedTask) Validate() error {
	if t.UserID == 0 || t.NewName == "" {
		return perr.InvalidArgf("user-renamed task requires user_id and new_name")
	}
	return nil
}

// UserVisibilityTask propagates a central-user suppression or unsuppression.
// UserName is the replacement display value to store alongside the flag
type UserVisibilityTask struct {
	UserID   int64  `json:"user_id"`
	Hidden   bool   `json:"hidden"`
	UserName string `json:"user_name"`
}

// Kind implements Task
func (UserVisibilityTask) Kind() Kind { return KindUserVisibility }

// Validate implements Task
func (t UserVisibilityTask) Validate() error {
	if t.UserID == 0 {
		return perr.InvalidArgf("user-visibility task requires user_id")
	}
	return nil
}

// Encode serializes a task for the queue payload column
func Encode(t Task) (Kind, []byte, error) {
	if err := t.Validate(); err != nil {
		return "", nil, err
	}
	b, err := json.Marshal(t)
	if err != nil {
		return "", nil, perr.Wrap(err, perr.ErrorCodeJSON, "encode task")
	}
	return t.Kind(), b, nil
}

// Decode maps a queue row back into its typed variant. Unknown kinds and
// structurally invalid payloads fail with invalid-argument so the row
// surfaces loudly instead of silently doing the wrong work
func Decode(kind Kind, payload []byte) (Task, error) {
	unmarshal := func(dst Task) (Task, error) {
		if err := json.Unmarshal(payload, dst); err != nil {
			return nil, perr.InvalidArgf("malformed %s payload: %v", kind, err)
		}
		return dst, nil
	}

	var t Task
	var err error
	switch kind {
	case KindContribution:
		t, err = unmarshal(&ContributionTask{})
	case KindPageMoved:
		t, err = unmarshal(&PageMovedTask{})
	case KindPageDeleted:
		t, err = unmarshal(&PageDeletedTask{})
	case KindPageRestored:
		t, err = unmarshal(&PageRestoredTask{})
	case KindRevisionVisibility:
		t, err = unmarshal(&RevisionVisibilityTask{})
	case KindUserRenamed:
		t, err = unmarshal(&UserRenamedTask{})
	case KindUserVisibility:
		t, err = unmarshal(&UserVisibilityTask{})
	default:
		return nil, perr.InvalidArgf("unknown job kind %q", kind)
	}
	if err != nil {
		return nil, err
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return t, nil
}
