package middleware

import (
	"net/http"

	pnet "editledger/internal/platform/net"
)

// AuthPort is the seam the identity layer implements.
// It resolves the acting central user from the request
type AuthPort interface {
	Parse(r *http.Request) (centralID int64, err error)
}

// Auth resolves the performer and stores it on context.
// A nil port leaves the request anonymous
func Auth(p AuthPort, write func(w http.ResponseWriter, status int, body any)) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if p == nil {
				next.ServeHTTP(w, r)
				return
			}
			uid, err := p.Parse(r)
			if err != nil {
				status, body := pnet.Error(err, pnet.RequestID(r.Context()))
				write(w, status, body)
				return
			}
			ctx := pnet.WithCentralUser(r.Context(), uid)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
