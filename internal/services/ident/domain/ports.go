package domain

import "context"

// ResolverPort resolves central user ids to display names.
// ResolveName fails with not-found for unknown ids and forbidden for hidden
// users; ResolveNames is the batch form the pager uses and reports hidden
// users through the User flag instead of an error
type ResolverPort interface {
	ResolveName(ctx context.Context, userID int64) (string, error)
	ResolveNames(ctx context.Context, userIDs []int64) (map[int64]User, error)
}

// WriterPort mutates the identity mirror
type WriterPort interface {
	Ensure(ctx context.Context, u User) error
	Rename(ctx context.Context, userID int64, newName string) error
	SetVisibility(ctx context.Context, userID int64, hidden bool) error
}

// Ports is the full ident surface
type Ports interface {
	ResolverPort
	WriterPort
}
