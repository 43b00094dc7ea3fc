package matchmaking

import "log"

// Disconnect handles a dropped transport connection. The roster change is
// the same as Leave; on top of it the abandoned partner (if any) is told
// their date ended early and a replacement is spliced in mid-phase when
// one exists. Delivering the same disconnect twice is a no-op: an already
// offline participant has nothing left to dissolve, so the history cannot
// be double-counted.
//
// handle identifies the connection reporting the drop; when it no longer
// matches (the participant already reconnected on a new handle) the
// disconnect is stale and ignored. An empty handle skips the check, for
// administrative signals.
func (c *Coordinator) Disconnect(eventID, userID, handle string) {
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
	if !p.Online {
		log.Printf("matchmaking: duplicate disconnect for %s in event %s ignored", userID, eventID)
		return
	}
	if handle != "" && p.Handle != handle {
		log.Printf("matchmaking: stale disconnect for %s in event %s ignored", userID, eventID)
		return
	}

	phase := s.phase
	p.Online = false
	p.Ready = false
	p.Handle = ""
	partnerID := s.unlinkLocked(p)
	log.Printf("matchmaking: participant %s disconnected from event %s", userID, eventID)

	c.broadcastCountLocked(s)

	if partnerID == "" {
		return
	}
	partner, ok := s.participants[partnerID]
	if !ok || !partner.Online {
		return
	}

	wasInDate := phase == PhaseDate
	if wasInDate {
		c.notifier.SendToParticipant(eventID, partnerID, MsgPartnerDisconnected, PartnerDisconnected{
			Message:      "Your date left early. Looking for someone else for you...",
			WasInDate:    true,
			CurrentPhase: phase,
			CurrentRound: s.round,
		})
	}

	if s.complete || phase == PhaseWaiting {
		return
	}

	if replacement := c.findReplacementLocked(s, partner); replacement != nil {
		partner.Partner = replacement.UserID
		replacement.Partner = partner.UserID
		s.history[pairKey(partner.UserID, replacement.UserID)] = struct{}{}

		pair := Pair{
			User1:     partner.UserID,
			User2:     replacement.UserID,
			ChannelID: newChannelID(),
		}
		s.pairings[s.round] = append(s.pairings[s.round], pair)
		log.Printf("matchmaking: event %s rematched %s with %s mid-round %d",
			eventID, partner.UserID, replacement.UserID, s.round)

		c.sendAssignmentLocked(s, pair, pair.User1, pair.User2, true)
		c.sendAssignmentLocked(s, pair, pair.User2, pair.User1, true)
		return
	}

	c.notifier.SendToParticipant(eventID, partnerID, MsgWaitingForPartner, WaitingForPartner{
		Round:              s.round,
		Message:            "No one else is free right now. You'll be paired in the next round.",
		TimeUntilNextRound: int(c.timeUntilRoundEndLocked(s).Seconds()),
	})
}

// findReplacementLocked is a single best-effort pass over the waiting
// participants using the pairing predicate, not a re-run of the full
// greedy matcher: live dates are never broken to improve the matching.
func (c *Coordinator) findReplacementLocked(s *Session, abandoned *Participant) *Participant {
	for _, candidate := range s.orderedCandidatesLocked() {
		if candidate.UserID == abandoned.UserID {
			continue
		}
		if canPair(abandoned, candidate, s.eventType, s.history) {
			return candidate
		}
	}
	return nil
}

// sendAssignmentLocked delivers one side's partner_assigned for a pair,
// stamped with the current phase timing
func (c *Coordinator) sendAssignmentLocked(s *Session, pair Pair, to, partner string, rematch bool) {
	c.notifier.SendToParticipant(s.eventID, to, MsgPartnerAssigned, PartnerAssigned{
		Round:          s.round,
		Phase:          s.phase,
		PhaseDuration:  int(c.phaseDuration(s.phase).Seconds()),
		PhaseStartTime: s.phaseStart,
		Partner:        partner,
		ChannelID:      pair.ChannelID,
		IsRematch:      rematch,
	})
}
