package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"sparkmatch/internal/matchmaking"
	"sparkmatch/internal/model"
)

func newTestEventService() (*EventService, *fakeEventRepo, *fakeMatchRepo, *fakeEventCache, *matchmaking.Coordinator) {
	eventRepo := newFakeEventRepo()
	matchRepo := &fakeMatchRepo{}
	eventCache := newFakeEventCache()
	presence := newFakePresenceCache()
	coordinator := matchmaking.NewCoordinator(dropNotifier{}, matchmaking.DefaultPhaseDurations())
	svc := NewEventService(eventRepo, matchRepo, eventCache, presence, coordinator)
	return svc, eventRepo, matchRepo, eventCache, coordinator
}

func TestCreateEvent_PersistsAndCachesMeta(t *testing.T) {
	req := require.New(t)
	svc, eventRepo, _, eventCache, _ := newTestEventService()
	ctx := context.Background()

	event, err := svc.CreateEvent(ctx, "host_1", "Friday Night", model.EventType("straight"), time.Now().Add(time.Hour), &model.EventSettings{})

	req.NoError(err)
	req.Len(event.Code, 6)
	req.Equal(model.EventStatusScheduled, event.Status)

	stored, err := eventRepo.GetByCode(ctx, event.Code)
	req.NoError(err)
	req.Equal("Friday Night", stored.Title)

	meta, err := eventCache.GetMeta(ctx, event.Code)
	req.NoError(err)
	req.Equal(model.EventType("straight"), meta.Type)
	req.Equal(model.EventStatusScheduled, meta.Status)
}

func TestCreateEvent_RejectsUnknownType(t *testing.T) {
	req := require.New(t)
	svc, _, _, _, _ := newTestEventService()

	_, err := svc.CreateEvent(context.Background(), "host_1", "Bad", model.EventType("platonic"), time.Now(), &model.EventSettings{})

	req.Error(err)
}

func TestCreateEvent_CodesAreUnique(t *testing.T) {
	req := require.New(t)
	svc, _, _, _, _ := newTestEventService()
	ctx := context.Background()

	seen := make(map[string]bool)
	for i := 0; i < 20; i++ {
		event, err := svc.CreateEvent(ctx, "host_1", "Night", model.EventType("bisexual"), time.Now(), &model.EventSettings{})
		req.NoError(err)
		req.False(seen[event.Code], "duplicate code %s", event.Code)
		seen[event.Code] = true
	}
}

func TestOpenEvent_TransitionsScheduledToLive(t *testing.T) {
	req := require.New(t)
	svc, eventRepo, _, eventCache, _ := newTestEventService()
	ctx := context.Background()

	event, err := svc.CreateEvent(ctx, "host_1", "Night", model.EventType("gay"), time.Now(), &model.EventSettings{})
	req.NoError(err)

	req.NoError(svc.OpenEvent(ctx, event.Code, "host_1"))

	stored, _ := eventRepo.GetByCode(ctx, event.Code)
	req.Equal(model.EventStatusLive, stored.Status)
	req.NotNil(stored.StartedAt)

	meta, _ := eventCache.GetMeta(ctx, event.Code)
	req.Equal(model.EventStatusLive, meta.Status)

	// Opening twice fails: the event is no longer scheduled
	req.Error(svc.OpenEvent(ctx, event.Code, "host_1"))
}

func TestOpenEvent_OnlyTheHostMayOpen(t *testing.T) {
	req := require.New(t)
	svc, _, _, _, _ := newTestEventService()
	ctx := context.Background()

	event, err := svc.CreateEvent(ctx, "host_1", "Night", model.EventType("gay"), time.Now(), &model.EventSettings{})
	req.NoError(err)

	req.Error(svc.OpenEvent(ctx, event.Code, "host_2"))
	req.Error(svc.OpenEvent(ctx, "NOPE42", "host_1"))
}

func TestCompleteEvent_PersistsPairingsAndTearsDown(t *testing.T) {
	req := require.New(t)
	svc, eventRepo, matchRepo, _, coordinator := newTestEventService()
	ctx := context.Background()

	event, err := svc.CreateEvent(ctx, "host_1", "Night", model.EventType("straight"), time.Now(), &model.EventSettings{})
	req.NoError(err)
	req.NoError(svc.OpenEvent(ctx, event.Code, "host_1"))

	// A live session with one completed pairing
	req.NoError(coordinator.Join(event.Code, matchmaking.JoinRequest{UserID: "m1", Handle: "h1", Gender: matchmaking.GenderMan, EventType: matchmaking.EventStraight}))
	req.NoError(coordinator.Join(event.Code, matchmaking.JoinRequest{UserID: "w1", Handle: "h2", Gender: matchmaking.GenderWoman, EventType: matchmaking.EventStraight}))
	started := coordinator.StartRound(event.Code)
	req.Len(started.Pairs, 1)

	req.NoError(svc.CompleteEvent(ctx, event.Code, "host_1"))

	stored, _ := eventRepo.GetByCode(ctx, event.Code)
	req.Equal(model.EventStatusEnded, stored.Status)
	req.NotNil(stored.EndedAt)

	matches, err := svc.ListMatches(ctx, event.Code)
	req.NoError(err)
	req.Len(matches, 1)
	req.Equal(1, matches[0].Round)
	req.True(matches[0].HasUser("m1"))
	req.True(matches[0].HasUser("w1"))
	req.Len(matchRepo.records, 1)

	// The in-memory session is gone
	req.Nil(coordinator.Participants(event.Code))
}

func TestListMatchesForUser_FiltersToOneParticipant(t *testing.T) {
	req := require.New(t)
	svc, _, matchRepo, _, _ := newTestEventService()
	ctx := context.Background()

	req.NoError(matchRepo.InsertMany(ctx, []*model.MatchRecord{
		{EventCode: "ABC123", Round: 1, User1ID: "p_a", User2ID: "p_b"},
		{EventCode: "ABC123", Round: 1, User1ID: "p_c", User2ID: "p_d"},
		{EventCode: "ABC123", Round: 2, User1ID: "p_a", User2ID: "p_d"},
		{EventCode: "XYZ789", Round: 1, User1ID: "p_a", User2ID: "p_e"},
	}))

	matches, err := svc.ListMatchesForUser(ctx, "ABC123", "p_a")

	req.NoError(err)
	req.Len(matches, 2)
	for _, m := range matches {
		req.True(m.HasUser("p_a"))
		req.Equal("ABC123", m.EventCode)
	}
}
