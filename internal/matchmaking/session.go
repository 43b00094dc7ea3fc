package matchmaking

import (
	"fmt"
	"sync"
	"time"
)

// EventType determines which gender combinations can be paired
type EventType string

const (
	EventStraight EventType = "straight"
	EventGay      EventType = "gay"
	EventBisexual EventType = "bisexual"
)

// ValidEventType reports whether t is one of the supported event types
func ValidEventType(t EventType) bool {
	switch t {
	case EventStraight, EventGay, EventBisexual:
		return true
	}
	return false
}

// Gender values used by the compatibility predicate
type Gender string

const (
	GenderMan   Gender = "man"
	GenderWoman Gender = "woman"
)

// Phase is one of the timed stages within a round
type Phase string

const (
	PhaseWaiting  Phase = "waiting"
	PhaseLobby    Phase = "lobby"
	PhaseDate     Phase = "date"
	PhaseFeedback Phase = "feedback"
)

// Participant is one user's live matchmaking state within a session.
// Identity (UserID) is stable across reconnects; Handle is the current
// transport connection and is replaced on every reconnect.
type Participant struct {
	UserID          string
	Handle          string
	Gender          Gender
	InterestedIn    string
	Online          bool
	Ready           bool
	Partner         string // userID of current partner, empty when unpaired
	RoundsCompleted int

	// seq fixes the insertion order used as the pairing tie-break,
	// so output does not depend on map iteration order
	seq int
}

// Pair is one formed date within a round
type Pair struct {
	User1     string `json:"user1"`
	User2     string `json:"user2"`
	ChannelID string `json:"channelId"`
}

// Other returns the opposite side of the pair, false if userID is not in it
func (p Pair) Other(userID string) (string, bool) {
	if p.User1 == userID {
		return p.User2, true
	}
	if p.User2 == userID {
		return p.User1, true
	}
	return "", false
}

// Session holds all matchmaking state for one live event.
// All mutation goes through the coordinator, which holds mu.
type Session struct {
	mu sync.Mutex

	eventID      string
	eventType    EventType
	participants map[string]*Participant
	// history keys are unordered ("min-max"); the set only ever grows,
	// guaranteeing no two participants date twice in the same event
	history map[string]struct{}

	round      int
	phase      Phase
	phaseStart time.Time
	// pairings per round, kept for the session lifetime for
	// auditing and reconnect replay
	pairings map[int][]Pair

	complete bool
	nextSeq  int
	timer    *time.Timer
}

func newSession(eventID string) *Session {
	return &Session{
		eventID:      eventID,
		participants: make(map[string]*Participant),
		history:      make(map[string]struct{}),
		phase:        PhaseWaiting,
		pairings:     make(map[int][]Pair),
	}
}

// pairKey builds the unordered history key for two user ids
func pairKey(a, b string) string {
	if a > b {
		a, b = b, a
	}
	return fmt.Sprintf("%s-%s", a, b)
}

func (s *Session) inHistory(a, b string) bool {
	_, ok := s.history[pairKey(a, b)]
	return ok
}

// clearPartnersLocked drops every partner link on both sides
func (s *Session) clearPartnersLocked() {
	for _, p := range s.participants {
		p.Partner = ""
	}
}

// unlinkLocked clears the partnership of p on both sides, returning the
// former partner's id (empty if p had none)
func (s *Session) unlinkLocked(p *Participant) string {
	partnerID := p.Partner
	if partnerID == "" {
		return ""
	}
	p.Partner = ""
	if q, ok := s.participants[partnerID]; ok {
		q.Partner = ""
	}
	return partnerID
}

// pairForUserLocked finds the pair containing userID in the given round
func (s *Session) pairForUserLocked(round int, userID string) (Pair, bool) {
	for _, pr := range s.pairings[round] {
		if _, ok := pr.Other(userID); ok {
			return pr, true
		}
	}
	return Pair{}, false
}

func (s *Session) onlineCountLocked() int {
	n := 0
	for _, p := range s.participants {
		if p.Online {
			n++
		}
	}
	return n
}

func (s *Session) stopTimerLocked() {
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}
