package model

import "time"

// Booking is a participant's durable spot at an event; it is the roster
// of record that the live coordinator consults when a websocket joins
type Booking struct {
	ID           string    `json:"id" bson:"_id,omitempty"`
	EventCode    string    `json:"eventCode" bson:"eventCode"`
	Nickname     string    `json:"nickname" bson:"nickname"`
	Gender       string    `json:"gender" bson:"gender"`
	InterestedIn string    `json:"interestedIn" bson:"interestedIn"`
	BookedAt     time.Time `json:"bookedAt" bson:"bookedAt"`
	LastActiveAt time.Time `json:"lastActiveAt" bson:"lastActiveAt"`
}

// BookingResponse is returned when a participant books a spot
type BookingResponse struct {
	ParticipantID string     `json:"participantId"`
	Token         string     `json:"token"`
	EventMeta     *EventMeta `json:"eventMeta"`
}
