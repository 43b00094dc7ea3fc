package matchmaking

import "time"

// MessageType defines the outbound message contract with the transport
type MessageType string

const (
	MsgParticipantCountUpdate MessageType = "participant_count_update"
	MsgPartnerAssigned        MessageType = "partner_assigned"
	MsgWaitingForPartner      MessageType = "waiting_for_partner"
	MsgPhaseChanged           MessageType = "phase_changed"
	MsgRoundEnded             MessageType = "round_ended"
	MsgEventComplete          MessageType = "event_complete"
	MsgPartnerDisconnected    MessageType = "partner_disconnected"
)

// ParticipantInfo is the public snapshot of one participant
type ParticipantInfo struct {
	UserID     string `json:"userId"`
	Gender     Gender `json:"gender"`
	IsOnline   bool   `json:"isOnline"`
	IsReady    bool   `json:"isReady"`
	HasPartner bool   `json:"hasPartner"`
}

// ParticipantCountUpdate is broadcast whenever the roster changes
type ParticipantCountUpdate struct {
	Count        int               `json:"count"`
	Participants []ParticipantInfo `json:"participants"`
}

// PartnerAssigned tells one side of a pair who their date is
type PartnerAssigned struct {
	Round          int       `json:"round"`
	Phase          Phase     `json:"phase"`
	PhaseDuration  int       `json:"phaseDuration"` // seconds
	PhaseStartTime time.Time `json:"phaseStartTime"`
	Partner        string    `json:"partner"`
	ChannelID      string    `json:"channelId"`
	IsRematch      bool      `json:"isRematch"`
}

// WaitingForPartner tells an unpaired participant to sit the round out
type WaitingForPartner struct {
	Round              int    `json:"round"`
	Message            string `json:"message"`
	TimeUntilNextRound int    `json:"timeUntilNextRound"` // seconds
}

// PhaseChanged is broadcast on every phase transition
type PhaseChanged struct {
	Round          int       `json:"round"`
	Phase          Phase     `json:"phase"`
	PhaseStartTime time.Time `json:"phaseStartTime"`
	PhaseDuration  int       `json:"phaseDuration"` // seconds
}

// RoundEnded is broadcast when the feedback phase finishes
type RoundEnded struct{}

// EventComplete is broadcast once no further valid pairing exists
type EventComplete struct {
	Message string `json:"message"`
}

// PartnerDisconnected tells the abandoned side their date ended early
type PartnerDisconnected struct {
	Message      string `json:"message"`
	WasInDate    bool   `json:"wasInDate"`
	CurrentPhase Phase  `json:"currentPhase"`
	CurrentRound int    `json:"currentRound"`
}
