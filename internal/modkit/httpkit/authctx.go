package httpkit

import (
	"net/http"

	perrs "editledger/internal/platform/errors"
	pnet "editledger/internal/platform/net"
)

// Performer returns the acting central user id from the request context
func Performer(r *http.Request) (int64, error) {
	uid := pnet.CentralUser(r.Context())
	if uid == 0 {
		return 0, perrs.Unauthorizedf("missing performer identity")
	}
	return uid, nil
}

// MustPerformer returns the acting central user id or panics
// only use on routes protected by the identity middleware
func MustPerformer(r *http.Request) int64 {
	uid, err := Performer(r)
	if err != nil {
		panic(err)
	}
	return uid
}
