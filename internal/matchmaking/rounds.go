package matchmaking

import (
	"log"
	"time"
)

// PhaseDurations is the timing configuration for one round. The server is
// authoritative: clients only render the countdowns they are told.
type PhaseDurations struct {
	Lobby    time.Duration
	Date     time.Duration
	Feedback time.Duration
}

// DefaultPhaseDurations returns the standard 60s/180s/60s round timing
func DefaultPhaseDurations() PhaseDurations {
	return PhaseDurations{
		Lobby:    60 * time.Second,
		Date:     180 * time.Second,
		Feedback: 60 * time.Second,
	}
}

func (c *Coordinator) phaseDuration(phase Phase) time.Duration {
	switch phase {
	case PhaseLobby:
		return c.durations.Lobby
	case PhaseDate:
		return c.durations.Date
	case PhaseFeedback:
		return c.durations.Feedback
	}
	return 0
}

func (c *Coordinator) roundDuration() time.Duration {
	return c.durations.Lobby + c.durations.Date + c.durations.Feedback
}

// timeUntilRoundEndLocked estimates how long a waiting participant sits
// out before the next pairing pass
func (c *Coordinator) timeUntilRoundEndLocked(s *Session) time.Duration {
	elapsed := c.now().Sub(s.phaseStart)
	var remaining time.Duration
	switch s.phase {
	case PhaseLobby:
		remaining = c.durations.Lobby - elapsed + c.durations.Date + c.durations.Feedback
	case PhaseDate:
		remaining = c.durations.Date - elapsed + c.durations.Feedback
	case PhaseFeedback:
		remaining = c.durations.Feedback - elapsed
	}
	if remaining < 0 {
		remaining = 0
	}
	return remaining
}

// RoundStart is returned to the caller (admin endpoint or timer chain)
// when a round begins
type RoundStart struct {
	Round          int       `json:"round"`
	Phase          Phase     `json:"phase"`
	PhaseStartTime time.Time `json:"phaseStartTime"`
	Pairs          []Pair    `json:"pairs"`
	Waiting        []string  `json:"waiting"`
	Complete       bool      `json:"complete"`
}

// StartRound begins a new round for the event: partners are cleared, the
// round counter advances, the pairing engine runs, and the lobby timer is
// armed. When every possible pairing is already in the history the event
// is complete instead and no round starts. Returns nil when no session
// exists for the event.
func (c *Coordinator) StartRound(eventID string) *RoundStart {
	s, ok := c.registry.Get(eventID)
	if !ok {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return c.startRoundLocked(s)
}

func (c *Coordinator) startRoundLocked(s *Session) *RoundStart {
	s.stopTimerLocked()

	// complete is terminal: late joiners never resurrect the event, and
	// the completion broadcast goes out exactly once
	if s.complete {
		return &RoundStart{Round: s.round, Phase: PhaseWaiting, Complete: true}
	}

	// with fewer than two online participants exhaustion is vacuous,
	// not terminal; the round just runs with everyone waiting
	if s.onlineCountLocked() >= 2 && s.allPairingsExhaustedLocked() {
		s.complete = true
		s.phase = PhaseWaiting
		log.Printf("matchmaking: event %s complete after %d round(s)", s.eventID, s.round)
		c.broadcastLocked(s, MsgEventComplete, EventComplete{
			Message: "You've met everyone you could at this event. Thanks for coming!",
		})
		return &RoundStart{Round: s.round, Phase: PhaseWaiting, Complete: true}
	}

	s.clearPartnersLocked()
	s.round++
	s.phase = PhaseLobby
	s.phaseStart = c.now()

	pairs := s.createPairingsLocked()
	log.Printf("matchmaking: event %s round %d started with %d pair(s)", s.eventID, s.round, len(pairs))

	c.broadcastLocked(s, MsgPhaseChanged, PhaseChanged{
		Round:          s.round,
		Phase:          s.phase,
		PhaseStartTime: s.phaseStart,
		PhaseDuration:  int(c.durations.Lobby.Seconds()),
	})

	for _, pair := range pairs {
		c.sendAssignmentLocked(s, pair, pair.User1, pair.User2, false)
		c.sendAssignmentLocked(s, pair, pair.User2, pair.User1, false)
	}

	var waiting []string
	for _, p := range s.participants {
		if p.Online && p.Ready && p.Partner == "" {
			waiting = append(waiting, p.UserID)
			c.notifier.SendToParticipant(s.eventID, p.UserID, MsgWaitingForPartner, WaitingForPartner{
				Round:              s.round,
				Message:            "No partner this round. Hang tight, you're first in line for the next one.",
				TimeUntilNextRound: int(c.roundDuration().Seconds()),
			})
		}
	}

	c.armPhaseTimerLocked(s, c.durations.Lobby)

	return &RoundStart{
		Round:          s.round,
		Phase:          s.phase,
		PhaseStartTime: s.phaseStart,
		Pairs:          pairs,
		Waiting:        waiting,
	}
}

// AdvancePhase moves the session to the next phase in the fixed
// lobby -> date -> feedback order. After feedback it ends the round and
// immediately starts the next one (or signals completion). Normally the
// phase timer drives this; the endpoint exists for manual control and for
// recovery after a restart mid-event. Returns nil when no session exists,
// the event is complete, or no round is running.
func (c *Coordinator) AdvancePhase(eventID string) *PhaseChanged {
	s, ok := c.registry.Get(eventID)
	if !ok {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.complete {
		return nil
	}
	return c.advancePhaseLocked(s)
}

func (c *Coordinator) advancePhaseLocked(s *Session) *PhaseChanged {
	switch s.phase {
	case PhaseLobby:
		return c.enterPhaseLocked(s, PhaseDate)
	case PhaseDate:
		return c.enterPhaseLocked(s, PhaseFeedback)
	case PhaseFeedback:
		c.endRoundLocked(s)
		started := c.startRoundLocked(s)
		return &PhaseChanged{
			Round:          started.Round,
			Phase:          started.Phase,
			PhaseStartTime: started.PhaseStartTime,
			PhaseDuration:  int(c.phaseDuration(started.Phase).Seconds()),
		}
	}
	return nil
}

func (c *Coordinator) enterPhaseLocked(s *Session, phase Phase) *PhaseChanged {
	s.stopTimerLocked()
	s.phase = phase
	s.phaseStart = c.now()

	duration := c.phaseDuration(phase)
	changed := PhaseChanged{
		Round:          s.round,
		Phase:          phase,
		PhaseStartTime: s.phaseStart,
		PhaseDuration:  int(duration.Seconds()),
	}
	c.broadcastLocked(s, MsgPhaseChanged, changed)
	c.armPhaseTimerLocked(s, duration)
	log.Printf("matchmaking: event %s round %d entered %s", s.eventID, s.round, phase)
	return &changed
}

// endRoundLocked credits everyone who had a date this round and resets
// partner links. Readiness survives: participants do not re-signal it
// between rounds.
func (c *Coordinator) endRoundLocked(s *Session) {
	for _, p := range s.participants {
		if p.Online && p.Partner != "" {
			p.RoundsCompleted++
		}
	}
	s.clearPartnersLocked()
	s.phase = PhaseWaiting
	c.broadcastLocked(s, MsgRoundEnded, RoundEnded{})
	log.Printf("matchmaking: event %s round %d ended", s.eventID, s.round)
}

// armPhaseTimerLocked schedules the one-shot transition out of the current
// phase. The previous timer is always stopped first, so at most one timer
// is live per session.
func (c *Coordinator) armPhaseTimerLocked(s *Session, d time.Duration) {
	s.stopTimerLocked()
	eventID, round, phase := s.eventID, s.round, s.phase
	s.timer = time.AfterFunc(d, func() {
		c.onPhaseTimer(eventID, round, phase)
	})
}

// onPhaseTimer fires when a phase's time is up. A stale callback, one
// scheduled for a round or phase the session has already moved past, is
// detected by comparing its origin against current state and dropped.
func (c *Coordinator) onPhaseTimer(eventID string, round int, phase Phase) {
	s, ok := c.registry.Get(eventID)
	if !ok {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.complete || s.round != round || s.phase != phase {
		log.Printf("matchmaking: dropping stale timer for event %s (round %d, %s)", eventID, round, phase)
		return
	}
	c.advancePhaseLocked(s)
}
