package domain

import "time"

// CreateEventReq is the write shape for event registration.
// Wikis accepts explicit wiki ids or the "*" sentinel for every wiki
type CreateEventReq struct {
	Name            string    `json:"name"       validate:"required,max=255"`
	StartUTC        time.Time `json:"start_utc"  validate:"required"`
	EndUTC          time.Time `json:"end_utc"    validate:"required"`
	Wikis           []string  `json:"wikis"      validate:"required,min=1,dive,wikiid"`
	TrackingEnabled *bool     `json:"tracking_enabled,omitempty"`
}

// RegisterParticipantReq registers the performer for an event
type RegisterParticipantReq struct {
	Private bool `json:"private,omitempty"`
}

// EventResp is the transport shape of one event
type EventResp struct {
	ID              int64     `json:"id"`
	Name            string    `json:"name"`
	StartUTC        time.Time `json:"start_utc"`
	EndUTC          time.Time `json:"end_utc"`
	AllWikis        bool      `json:"all_wikis"`
	Wikis           []string  `json:"wikis,omitempty"`
	TrackingEnabled bool      `json:"tracking_enabled"`
	CreatedAt       time.Time `json:"created_at"`
}

// EventRespFrom maps an Event to its transport shape
func EventRespFrom(e Event) EventResp {
	return EventResp{
		ID:              e.ID,
		Name:            e.Name,
		StartUTC:        e.StartUTC,
		EndUTC:          e.EndUTC,
		AllWikis:        e.AllWikis,
		Wikis:           e.Wikis,
		TrackingEnabled: e.TrackingEnabled,
		CreatedAt:       e.CreatedAt,
	}
}
