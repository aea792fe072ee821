package mediawiki

import (
	"io"
	"net/http"
	"strconv"
	"time"
)

// apiError is the error envelope the Action API returns alongside HTTP 200
type apiError struct {
	Code string `json:"code"`
	Info string `json:"info"`
}

// revisionDoc is one revision as returned by prop=revisions formatversion=2
type revisionDoc struct {
	RevID         int64     `json:"revid"`
	ParentID      int64     `json:"parentid"`
	Size          int64     `json:"size"`
	Timestamp     time.Time `json:"timestamp"`
	User          string    `json:"user"`
	UserID        int64     `json:"userid"`
	Anon          bool      `json:"anon"`
	UserHidden    bool      `json:"userhidden"`
	TextHidden    bool      `json:"texthidden"`
	CommentHidden bool      `json:"commenthidden"`
	Suppressed    bool      `json:"suppressed"`
}

// revision deletion bits, matching the rev_deleted bitfield
const (
	revDeletedText    = 1
	revDeletedComment = 2
	revDeletedUser    = 4
	revDeletedAll     = 8
)

// visibility folds the per-field hidden flags back into the bitfield
func (r revisionDoc) visibility() int {
	v := 0
	if r.TextHidden {
		v |= revDeletedText
	}
	if r.CommentHidden {
		v |= revDeletedComment
	}
	if r.UserHidden {
		v |= revDeletedUser
	}
	if r.Suppressed {
		v |= revDeletedAll
	}
	return v
}

type pageDoc struct {
	PageID    int64         `json:"pageid"`
	Title     string        `json:"title"`
	Missing   bool          `json:"missing"`
	Revisions []revisionDoc `json:"revisions"`
}

type badRevID struct {
	Missing bool `json:"missing"`
}

type queryBody struct {
	BadRevIDs map[string]badRevID `json:"badrevids"`
	Pages     []pageDoc           `json:"pages"`
}

type queryResponse struct {
	Error *apiError  `json:"error"`
	Query *queryBody `json:"query"`
}

type parseBody struct {
	Title string `json:"title"`
	Text  string `json:"text"`
}

type parseResponse struct {
	Error *apiError  `json:"error"`
	Parse *parseBody `json:"parse"`
}

func retryAfter(h http.Header) time.Duration {
	s := h.Get("Retry-After")
	if s == "" {
		return 0
	}
	sec, err := strconv.Atoi(s)
	if err != nil || sec <= 0 {
		return 0
	}
	return time.Duration(sec) * time.Second
}

func drainAndClose(rc io.ReadCloser) error {
	_, _ = io.Copy(io.Discard, io.LimitReader(rc, 512))
	return rc.Close()
}
