package domain

import "context"

// ReaderPort reads events and participant state
type ReaderPort interface {
	GetEvent(ctx context.Context, id int64) (Event, error)
	GetParticipant(ctx context.Context, eventID, userID int64) (Participant, bool, error)
}

// WriterPort registers events and participants
type WriterPort interface {
	CreateEvent(ctx context.Context, in CreateEventInput) (Event, error)
	RegisterParticipant(ctx context.Context, p Participant) error
}

// PermissionPort decides whether performer may attach a contribution
// authored by author to the given event
type PermissionPort interface {
	CanAddContribution(ctx context.Context, performer int64, ev Event, author int64) error
}

// Ports is the full event surface other modules consume
type Ports interface {
	ReaderPort
	WriterPort
	PermissionPort
}
