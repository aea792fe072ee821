// Package domain defines the types and interfaces for the events service
package domain

import "time"

// WikiAll is the scope sentinel meaning "every wiki"
const WikiAll = "*"

// Event is one tracked outreach event
type Event struct {
	ID              int64
	Name            string
	StartUTC        time.Time
	EndUTC          time.Time
	AllWikis        bool
	Wikis           []string
	TrackingEnabled bool
	Deleted         bool
	CreatedAt       time.Time
}

// Ongoing reports whether the event has started and not yet ended at now
func (e Event) Ongoing(now time.Time) bool {
	return !now.Before(e.StartUTC) && now.Before(e.EndUTC)
}

// InScope reports whether wiki falls inside the event's wiki scope
func (e Event) InScope(wiki string) bool {
	if e.AllWikis {
		return true
	}
	for _, w := range e.Wikis {
		if w == wiki {
			return true
		}
	}
	return false
}

// Participant is one registered participant row for an event
type Participant struct {
	EventID   int64
	UserID    int64
	Private   bool
	Organizer bool
}

// CreateEventInput is the write shape for event registration
type CreateEventInput struct {
	Name            string
	StartUTC        time.Time
	EndUTC          time.Time
	Wikis           []string // contains WikiAll for an all-wiki event
	TrackingEnabled bool
	Organizer       int64
}
