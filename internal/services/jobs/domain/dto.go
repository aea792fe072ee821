package domain

import perr "editledger/internal/platform/errors"

// Hook actions accepted on the page lifecycle endpoint
const (
	PageActionMoved              = "moved"
	PageActionDeleted            = "deleted"
	PageActionRestored           = "restored"
	PageActionRevisionVisibility = "revision-visibility"
)

// Hook actions accepted on the user lifecycle endpoint
const (
	UserActionRenamed    = "renamed"
	UserActionVisibility = "visibility"
)

// PageHookReq is one page lifecycle notification
type PageHookReq struct {
	Action         string  `json:"action"  validate:"required,oneof=moved deleted restored revision-visibility"`
	Wiki           string  `json:"wiki"    validate:"required,wikiid"`
	PageID         int64   `json:"page_id" validate:"required,min=1"`
	NewTitle       string  `json:"new_title,omitempty"`
	DeletedRevIDs  []int64 `json:"deleted_rev_ids,omitempty"`
	RestoredRevIDs []int64 `json:"restored_rev_ids,omitempty"`
}

// Task maps the notification onto its queue task
func (in PageHookReq) Task() (Task, error) {
	switch in.Action {
	case PageActionMoved:
		return PageMovedTask{Wiki: in.Wiki, PageID: in.PageID, NewTitle: in.NewTitle}, nil
	case PageActionDeleted:
		return PageDeletedTask{Wiki: in.Wiki, PageID: in.PageID}, nil
	case PageActionRestored:
		return PageRestoredTask{Wiki: in.Wiki, PageID: in.PageID}, nil
	case PageActionRevisionVisibility:
		return RevisionVisibilityTask{
			Wiki:           in.Wiki,
			PageID:         in.PageID,
			DeletedRevIDs:  in.DeletedRevIDs,
			RestoredRevIDs: in.RestoredRevIDs,
		}, nil
	}
	return nil, perr.InvalidArgf("unknown page action %q", in.Action)
}

// UserHookReq is one central-user lifecycle notification
type UserHookReq struct {
	Action   string `json:"action"  validate:"required,oneof=renamed visibility"`
	UserID   int64  `json:"user_id" validate:"required,min=1"`
	NewName  string `json:"new_name,omitempty"`
	Hidden   bool   `json:"hidden,omitempty"`
	UserName string `json:"user_name,omitempty"`
}

// Task maps the notification onto its queue task
func (in UserHookReq) Task() (Task, error) {
	switch in.Action {
	case UserActionRenamed:
		return UserRenamedTask{UserID: in.UserID, NewName: in.NewName}, nil
	case UserActionVisibility:
		return UserVisibilityTask{UserID: in.UserID, Hidden: in.Hidden, UserName: in.UserName}, nil
	}
	return nil, perr.InvalidArgf("unknown user action %q", in.Action)
}
