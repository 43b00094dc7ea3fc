package matchmaking

import (
	"fmt"
	"log"
	"sort"
	"time"

	"github.com/samber/lo"
)

// Coordinator is the single authoritative entry point for all live
// matchmaking operations. Per-session mutation is serialized by the
// session mutex; operations on different events run in parallel.
type Coordinator struct {
	registry  *Registry
	notifier  Notifier
	durations PhaseDurations

	// now is swappable for tests
	now func() time.Time
}

// NewCoordinator creates a coordinator delivering output through n
func NewCoordinator(n Notifier, d PhaseDurations) *Coordinator {
	return &Coordinator{
		registry:  NewRegistry(),
		notifier:  n,
		durations: d,
		now:       time.Now,
	}
}

// JoinRequest carries the compatibility attributes supplied at join time
type JoinRequest struct {
	UserID       string
	Handle       string
	Gender       Gender
	InterestedIn string
	EventType    EventType // hint; adopted by the session first-writer-wins
}

// Join registers a participant in the event's session, creating the
// session on first join. Re-joining with a new handle is how reconnects
// work: identity-keyed state (partner, history, rounds completed) is
// preserved and only the handle and online/ready flags change.
func (c *Coordinator) Join(eventID string, req JoinRequest) error {
	if req.EventType != "" && !ValidEventType(req.EventType) {
		return fmt.Errorf("invalid event type %q", req.EventType)
	}

	s := c.registry.GetOrCreate(eventID)
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.eventType == "" && req.EventType != "" {
		s.eventType = req.EventType
		log.Printf("matchmaking: event %s type set to %s", eventID, req.EventType)
	}

	if p, ok := s.participants[req.UserID]; ok {
		p.Handle = req.Handle
		p.Online = true
		p.Ready = true
		log.Printf("matchmaking: participant %s reconnected to event %s", req.UserID, eventID)

		// replay the live assignment so a reconnecting client can resync
		if p.Partner != "" {
			if pair, found := s.pairForUserLocked(s.round, p.UserID); found {
				c.notifier.SendToParticipant(eventID, p.UserID, MsgPartnerAssigned, PartnerAssigned{
					Round:          s.round,
					Phase:          s.phase,
					PhaseDuration:  int(c.phaseDuration(s.phase).Seconds()),
					PhaseStartTime: s.phaseStart,
					Partner:        p.Partner,
					ChannelID:      pair.ChannelID,
					IsRematch:      false,
				})
			}
		}
	} else {
		s.participants[req.UserID] = &Participant{
			UserID:       req.UserID,
			Handle:       req.Handle,
			Gender:       req.Gender,
			InterestedIn: req.InterestedIn,
			Online:       true,
			Ready:        true,
			seq:          s.nextSeq,
		}
		s.nextSeq++
		log.Printf("matchmaking: participant %s joined event %s", req.UserID, eventID)
	}

	c.broadcastCountLocked(s)
	return nil
}

// Leave marks the participant offline and not ready and dissolves any
// partnership on both sides. The former partner stays online and ready
// and becomes eligible again on the next pairing pass. Unknown sessions
// and participants are benign no-ops.
func (c *Coordinator) Leave(eventID, userID string) {
	s, ok := c.registry.Get(eventID)
	if !ok {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.participants[userID]
	if !ok {
		return
	}
	p.Online = false
	p.Ready = false
	p.Handle = ""
	s.unlinkLocked(p)
	log.Printf("matchmaking: participant %s left event %s", userID, eventID)

	c.broadcastCountLocked(s)
}

// MarkReady flags the participant as eligible for the next pairing pass.
// A no-op when the session or participant does not exist.
func (c *Coordinator) MarkReady(eventID, userID string) {
	s, ok := c.registry.Get(eventID)
	if !ok {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if p, ok := s.participants[userID]; ok {
		p.Ready = true
	}
}

// Participants returns a point-in-time roster snapshot, insertion-ordered
func (c *Coordinator) Participants(eventID string) []ParticipantInfo {
	s, ok := c.registry.Get(eventID)
	if !ok {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// RoundResult is the audit record of one completed round
type RoundResult struct {
	Round int    `json:"round"`
	Pairs []Pair `json:"pairs"`
}

// Results returns every pairing formed so far, by round, for persistence
// at event completion
func (c *Coordinator) Results(eventID string) []RoundResult {
	s, ok := c.registry.Get(eventID)
	if !ok {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	results := make([]RoundResult, 0, len(s.pairings))
	for round, pairs := range s.pairings {
		results = append(results, RoundResult{Round: round, Pairs: pairs})
	}
	sort.Slice(results, func(i, j int) bool { return results[i].Round < results[j].Round })
	return results
}

// Cleanup tears down the event's session and cancels its phase timer
func (c *Coordinator) Cleanup(eventID string) {
	c.registry.Cleanup(eventID)
}

func (s *Session) snapshotLocked() []ParticipantInfo {
	parts := lo.Values(s.participants)
	sort.Slice(parts, func(i, j int) bool { return parts[i].seq < parts[j].seq })
	return lo.Map(parts, func(p *Participant, _ int) ParticipantInfo {
		return ParticipantInfo{
			UserID:     p.UserID,
			Gender:     p.Gender,
			IsOnline:   p.Online,
			IsReady:    p.Ready,
			HasPartner: p.Partner != "",
		}
	})
}

func (c *Coordinator) broadcastCountLocked(s *Session) {
	update := ParticipantCountUpdate{
		Count:        s.onlineCountLocked(),
		Participants: s.snapshotLocked(),
	}
	c.notifier.BroadcastToEvent(s.eventID, MsgParticipantCountUpdate, update)
	c.notifier.SendToHost(s.eventID, MsgParticipantCountUpdate, update)
}

func (c *Coordinator) broadcastLocked(s *Session, msgType MessageType, payload interface{}) {
	c.notifier.BroadcastToEvent(s.eventID, msgType, payload)
	c.notifier.SendToHost(s.eventID, msgType, payload)
}
