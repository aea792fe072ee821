package repo

import (
	"encoding/base64"
	"encoding/json"

	perr "editledger/internal/platform/errors"
)

// cursor is the decoded keyset position: the primary sort value of the last
// row plus the id tiebreaker
type cursor struct {
	V  string `json:"v"`
	ID int64  `json:"id"`
}

func encodeCursor(c cursor) string {
	b, _ := json.Marshal(c)
	return base64.RawURLEncoding.EncodeToString(b)
}

func decodeCursor(s string) (cursor, error) {
	raw, err := base64.RawURLEncoding.DecodeString(s)
	if err != nil {
		return cursor{}, perr.InvalidArgf("malformed cursor")
	}
	var c cursor
	if err := json.Unmarshal(raw, &c); err != nil {
		return cursor{}, perr.InvalidArgf("malformed cursor")
	}
	if c.ID == 0 {
		return cursor{}, perr.InvalidArgf("malformed cursor")
	}
	return c, nil
}
