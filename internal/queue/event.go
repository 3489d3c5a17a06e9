// Package queue defines message payloads exchanged over the message broker
// and the consumer that records them.
package queue

import "time"

// ActivityQueueName is the durable queue carrying ActivityEvent messages.
const ActivityQueueName = "weather.activity"

// Activity event types.
const (
	EventUserRegistered  = "user.registered"
	EventFavoriteAdded   = "favorite.added"
	EventFavoriteRemoved = "favorite.removed"
)

// ActivityEvent is published after a signup or a favorite change commits.
// Coordinates are only set for favorite.added.
type ActivityEvent struct {
	Type       string   `json:"type"`
	UserID     uint64   `json:"user_id"`
	Username   string   `json:"username,omitempty"`
	CityName   string   `json:"city_name,omitempty"`
	Lat        *float64 `json:"lat,omitempty"`
	Lon        *float64 `json:"lon,omitempty"`
	OccurredAt string   `json:"occurred_at"`
}

// NewActivityEvent stamps an event with the current UTC time.
func NewActivityEvent(typ string, userID uint64) ActivityEvent {
	return ActivityEvent{Type: typ, UserID: userID, OccurredAt: time.Now().UTC().Format(time.RFC3339)}
}
