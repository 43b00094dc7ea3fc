package matchmaking

import (
	"sort"

	"github.com/google/uuid"
	"github.com/samber/lo"
)

// gendersCompatible applies the event-type rule to a candidate pair:
// straight events pair (man, woman) in either order, gay events pair equal
// genders, bisexual events accept any combination.
func gendersCompatible(a, b Gender, eventType EventType) bool {
	switch eventType {
	case EventStraight:
		return (a == GenderMan && b == GenderWoman) || (a == GenderWoman && b == GenderMan)
	case EventGay:
		return a == b
	case EventBisexual:
		return true
	}
	return false
}

// canPair is the full pairing predicate: both sides online, ready,
// unpartnered, gender-compatible for the event type, and never paired
// together before in this session.
func canPair(a, b *Participant, eventType EventType, history map[string]struct{}) bool {
	if a.UserID == b.UserID {
		return false
	}
	if !a.Online || !a.Ready || !b.Online || !b.Ready {
		return false
	}
	if a.Partner != "" || b.Partner != "" {
		return false
	}
	if !gendersCompatible(a.Gender, b.Gender, eventType) {
		return false
	}
	_, used := history[pairKey(a.UserID, b.UserID)]
	return !used
}

// orderedCandidatesLocked returns the pairing candidates in the stable
// order the greedy pass iterates: insertion order, with men first for
// straight events. The gender split carries no meaning beyond making the
// greedy output deterministic.
func (s *Session) orderedCandidatesLocked() []*Participant {
	candidates := lo.Filter(lo.Values(s.participants), func(p *Participant, _ int) bool {
		return p.Online && p.Ready && p.Partner == ""
	})
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].seq < candidates[j].seq
	})
	if s.eventType == EventStraight {
		sort.SliceStable(candidates, func(i, j int) bool {
			return candidates[i].Gender == GenderMan && candidates[j].Gender != GenderMan
		})
	}
	return candidates
}

// createPairingsLocked runs one greedy pass over the eligible participants,
// binding partners on both sides and recording every new pair in the
// history. Participants left over stay unpartnered; producing fewer pairs
// than participants is a normal outcome, not an error.
func (s *Session) createPairingsLocked() []Pair {
	candidates := s.orderedCandidatesLocked()

	var pairs []Pair
	for i, a := range candidates {
		if a.Partner != "" {
			continue
		}
		for _, b := range candidates[i+1:] {
			if b.Partner != "" {
				continue
			}
			if !canPair(a, b, s.eventType, s.history) {
				continue
			}
			a.Partner = b.UserID
			b.Partner = a.UserID
			s.history[pairKey(a.UserID, b.UserID)] = struct{}{}
			pairs = append(pairs, Pair{
				User1:     a.UserID,
				User2:     b.UserID,
				ChannelID: newChannelID(),
			})
			break
		}
	}

	s.pairings[s.round] = pairs
	return pairs
}

// allPairingsExhaustedLocked reports whether any unused, gender-compatible
// pair remains among the currently online participants. Ready and partner
// state are deliberately ignored: a participant mid-date still counts as a
// candidate, since only the history matters for "has everyone dated
// everyone they could".
func (s *Session) allPairingsExhaustedLocked() bool {
	online := lo.Filter(lo.Values(s.participants), func(p *Participant, _ int) bool {
		return p.Online
	})
	for i, a := range online {
		for _, b := range online[i+1:] {
			if !gendersCompatible(a.Gender, b.Gender, s.eventType) {
				continue
			}
			if !s.inHistory(a.UserID, b.UserID) {
				return false
			}
		}
	}
	return true
}

// newChannelID mints the identifier both clients use to establish their
// date channel
func newChannelID() string {
	return "ch_" + uuid.New().String()[:8]
}
