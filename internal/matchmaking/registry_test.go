package matchmaking

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRegistry_GetOrCreateIsIdempotent(t *testing.T) {
	req := require.New(t)
	r := NewRegistry()

	first := r.GetOrCreate("ev1")
	second := r.GetOrCreate("ev1")

	req.Same(first, second)
	req.Equal(1, r.Len())
}

func TestRegistry_GetNeverCreates(t *testing.T) {
	req := require.New(t)
	r := NewRegistry()

	_, ok := r.Get("ev1")
	req.False(ok)
	req.Equal(0, r.Len())
}

func TestRegistry_CleanupRemovesSession(t *testing.T) {
	req := require.New(t)
	r := NewRegistry()
	r.GetOrCreate("ev1")
	r.GetOrCreate("ev2")

	r.Cleanup("ev1")

	_, ok := r.Get("ev1")
	req.False(ok)
	req.Equal(1, r.Len())

	// Cleaning up a missing session is harmless
	r.Cleanup("ev1")
	req.Equal(1, r.Len())
}

func TestRegistry_SessionsAreIsolatedPerEvent(t *testing.T) {
	req := require.New(t)
	c, _ := newTestCoordinator()
	defer c.Cleanup("ev1")
	defer c.Cleanup("ev2")

	join(c, "ev1", "m1", GenderMan, EventStraight)
	join(c, "ev2", "m1", GenderMan, EventBisexual)
	join(c, "ev2", "m2", GenderMan, EventBisexual)

	req.Len(c.Participants("ev1"), 1)
	req.Len(c.Participants("ev2"), 2)

	// A round in one event leaves the other untouched
	started := c.StartRound("ev2")
	req.Len(started.Pairs, 1)

	ev1, _ := c.registry.Get("ev1")
	ev1.mu.Lock()
	req.Equal(0, ev1.round)
	req.Equal(PhaseWaiting, ev1.phase)
	ev1.mu.Unlock()
}
