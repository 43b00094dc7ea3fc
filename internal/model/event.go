package model

import "time"

type EventStatus string

const (
	EventStatusScheduled EventStatus = "scheduled"
	EventStatusLive      EventStatus = "live"
	EventStatusEnded     EventStatus = "ended"
)

// EventType mirrors the matchmaking compatibility rule
type EventType string

const (
	EventTypeStraight EventType = "straight"
	EventTypeGay      EventType = "gay"
	EventTypeBisexual EventType = "bisexual"
)

type EventSettings struct {
	MaxParticipants int  `json:"maxParticipants" bson:"maxParticipants"`
	VideoEnabled    bool `json:"videoEnabled" bson:"videoEnabled"`
}

// Event is one scheduled speed-dating event
type Event struct {
	Code        string        `json:"code" bson:"code"`
	Title       string        `json:"title" bson:"title"`
	Type        EventType     `json:"type" bson:"type"`
	HostID      string        `json:"hostId" bson:"hostId"`
	Status      EventStatus   `json:"status" bson:"status"`
	Settings    EventSettings `json:"settings" bson:"settings"`
	ScheduledAt time.Time     `json:"scheduledAt" bson:"scheduledAt"`
	CreatedAt   time.Time     `json:"createdAt" bson:"createdAt"`
	StartedAt   *time.Time    `json:"startedAt,omitempty" bson:"startedAt,omitempty"`
	EndedAt     *time.Time    `json:"endedAt,omitempty" bson:"endedAt,omitempty"`
}

// EventMeta is the Redis-cached view of an event used on hot paths
// (booking checks, websocket joins)
type EventMeta struct {
	Title        string      `json:"title"`
	Type         EventType   `json:"type"`
	HostID       string      `json:"hostId"`
	Status       EventStatus `json:"status"`
	SettingsJSON string      `json:"settingsJson"`
	ScheduledAt  time.Time   `json:"scheduledAt"`
	CreatedAt    time.Time   `json:"createdAt"`
}
