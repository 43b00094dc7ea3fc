package matchmaking

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestJoin_RejectsInvalidEventType(t *testing.T) {
	req := require.New(t)
	c, _ := newTestCoordinator()

	err := c.Join("ev1", JoinRequest{UserID: "u1", EventType: EventType("pansexual")})

	req.Error(err)
	req.Equal(0, c.registry.Len())
}

func TestJoin_EventTypeIsFirstWriterWins(t *testing.T) {
	req := require.New(t)
	c, _ := newTestCoordinator()
	defer c.Cleanup("ev1")

	// Given the first joiner declares a straight event
	join(c, "ev1", "m1", GenderMan, EventStraight)

	// When a later joiner hints a different type
	join(c, "ev1", "m2", GenderMan, EventBisexual)
	join(c, "ev1", "w1", GenderWoman, EventStraight)

	// Then pairing still follows the first declaration
	started := c.StartRound("ev1")
	req.Len(started.Pairs, 1)
	partners := pairSet(started.Pairs)
	req.Equal("w1", partners["m1"])
}

func TestJoin_BroadcastsRosterToEventAndHost(t *testing.T) {
	req := require.New(t)
	c, n := newTestCoordinator()
	defer c.Cleanup("ev1")

	join(c, "ev1", "m1", GenderMan, EventStraight)
	join(c, "ev1", "w1", GenderWoman, EventStraight)

	updates := n.broadcastsOfType(MsgParticipantCountUpdate)
	req.Len(updates, 2)
	last := updates[1].Payload.(ParticipantCountUpdate)
	req.Equal(2, last.Count)
	req.Len(last.Participants, 2)
	req.Equal("m1", last.Participants[0].UserID)
	req.Equal("w1", last.Participants[1].UserID)

	// The host dashboard mirrors every roster update
	req.Len(n.host, 2)
}

func TestJoin_ReconnectPreservesIdentityState(t *testing.T) {
	req := require.New(t)
	c, n := newTestCoordinator()
	defer c.Cleanup("ev1")

	join(c, "ev1", "m1", GenderMan, EventStraight)
	join(c, "ev1", "w1", GenderWoman, EventStraight)
	started := c.StartRound("ev1")
	req.Len(started.Pairs, 1)
	channel := started.Pairs[0].ChannelID
	n.reset()

	// When the partnered participant reconnects with a new handle
	err := c.Join("ev1", JoinRequest{UserID: "m1", Handle: "h-new", EventType: EventStraight})
	req.NoError(err)

	// Then the live assignment is replayed with the original channel
	replays := n.toParticipant("m1", MsgPartnerAssigned)
	req.Len(replays, 1)
	assigned := replays[0].Payload.(PartnerAssigned)
	req.Equal("w1", assigned.Partner)
	req.Equal(channel, assigned.ChannelID)
	req.False(assigned.IsRematch)

	// And the roster still shows a single m1
	roster := c.Participants("ev1")
	req.Len(roster, 2)
	req.Equal("m1", roster[0].UserID)
	req.True(roster[0].IsOnline)
	req.True(roster[0].HasPartner)
}

func TestLeave_DissolvesPartnershipOnBothSides(t *testing.T) {
	req := require.New(t)
	c, _ := newTestCoordinator()
	defer c.Cleanup("ev1")

	join(c, "ev1", "m1", GenderMan, EventStraight)
	join(c, "ev1", "w1", GenderWoman, EventStraight)
	c.StartRound("ev1")

	c.Leave("ev1", "m1")

	roster := c.Participants("ev1")
	req.False(roster[0].IsOnline)
	req.False(roster[0].HasPartner)
	req.True(roster[1].IsOnline, "the former partner stays online")
	req.False(roster[1].HasPartner)
}

func TestLeave_UnknownSessionAndParticipantAreNoOps(t *testing.T) {
	c, _ := newTestCoordinator()
	defer c.Cleanup("ev1")

	c.Leave("missing", "u1")

	join(c, "ev1", "m1", GenderMan, EventStraight)
	c.Leave("ev1", "ghost")
	c.MarkReady("missing", "u1")
	c.MarkReady("ev1", "ghost")
}

func TestParticipants_ReturnsNilForUnknownEvent(t *testing.T) {
	req := require.New(t)
	c, _ := newTestCoordinator()

	req.Nil(c.Participants("missing"))
	req.Nil(c.StartRound("missing"))
	req.Nil(c.AdvancePhase("missing"))
	req.Nil(c.Results("missing"))
}

func TestResults_ReturnsPairingsByRound(t *testing.T) {
	req := require.New(t)
	c, _ := newTestCoordinator()
	defer c.Cleanup("ev1")

	join(c, "ev1", "m1", GenderMan, EventStraight)
	join(c, "ev1", "w1", GenderWoman, EventStraight)
	join(c, "ev1", "m2", GenderMan, EventStraight)
	join(c, "ev1", "w2", GenderWoman, EventStraight)

	c.StartRound("ev1")
	c.StartRound("ev1")

	results := c.Results("ev1")
	req.Len(results, 2)
	req.Equal(1, results[0].Round)
	req.Equal(2, results[1].Round)
	req.Len(results[0].Pairs, 2)
	req.Len(results[1].Pairs, 2)
}
