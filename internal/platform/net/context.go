// Package net provides utilities for working with request contexts
package net

import (
	"context"

	chimw "github.com/go-chi/chi/v5/middleware"
)

// ctxKey is an unexported key type for context values
type ctxKey string

const keyCentralUser ctxKey = "central_user"

// WithRequest annotates context with the request id
func WithRequest(ctx context.Context, reqID string) context.Context {
	if reqID != "" {
		// set chi RequestID so chimw.GetReqID can retrieve it
		ctx = context.WithValue(ctx, chimw.RequestIDKey, reqID)
	}
	return ctx
}

// WithCentralUser annotates context with the authenticated central user id
func WithCentralUser(ctx context.Context, userID int64) context.Context {
	if userID != 0 {
		ctx = context.WithValue(ctx, keyCentralUser, userID)
	}
	return ctx
}

// RequestID returns the request id on the context if present
func RequestID(ctx context.Context) string {
	if v := chimw.GetReqID(ctx); v != "" {
		return v
	}
	return ""
}

// CentralUser returns the authenticated central user id, 0 when absent
func CentralUser(ctx context.Context) int64 {
	if v, ok := ctx.Value(keyCentralUser).(int64); ok {
		return v
	}
	return 0
}
