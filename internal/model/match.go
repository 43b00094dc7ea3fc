package model

import "time"

// MatchRecord is the persisted outcome of one formed pair, written when
// the host completes the event
type MatchRecord struct {
	ID        string    `json:"id" bson:"_id,omitempty"`
	EventCode string    `json:"eventCode" bson:"eventCode"`
	Round     int       `json:"round" bson:"round"`
	User1ID   string    `json:"user1Id" bson:"user1Id"`
	User2ID   string    `json:"user2Id" bson:"user2Id"`
	ChannelID string    `json:"channelId" bson:"channelId"`
	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
}

// HasUser reports whether userID is one side of the match
func (m *MatchRecord) HasUser(userID string) bool {
	return m.User1ID == userID || m.User2ID == userID
}

// OtherUser returns the opposite side of the match, false when userID is
// not part of it
func (m *MatchRecord) OtherUser(userID string) (string, bool) {
	if m.User1ID == userID {
		return m.User2ID, true
	}
	if m.User2ID == userID {
		return m.User1ID, true
	}
	return "", false
}
