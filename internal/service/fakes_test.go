package service

import (
	"context"
	"sync"

	"sparkmatch/internal/matchmaking"
	"sparkmatch/internal/model"
)

// In-memory doubles for the Mongo repos and Redis caches.

type fakeEventRepo struct {
	mu     sync.Mutex
	events map[string]*model.Event
}

func newFakeEventRepo() *fakeEventRepo {
	return &fakeEventRepo{events: make(map[string]*model.Event)}
}

func (r *fakeEventRepo) Create(_ context.Context, event *model.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events[event.Code] = event
	return nil
}

func (r *fakeEventRepo) GetByCode(_ context.Context, code string) (*model.Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.events[code], nil
}

func (r *fakeEventRepo) Update(_ context.Context, event *model.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events[event.Code] = event
	return nil
}

func (r *fakeEventRepo) Delete(_ context.Context, code string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.events, code)
	return nil
}

type fakeBookingRepo struct {
	mu       sync.Mutex
	bookings map[string]*model.Booking
}

func newFakeBookingRepo() *fakeBookingRepo {
	return &fakeBookingRepo{bookings: make(map[string]*model.Booking)}
}

func (r *fakeBookingRepo) Create(_ context.Context, booking *model.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.bookings[booking.ID] = booking
	return nil
}

func (r *fakeBookingRepo) GetByID(_ context.Context, id string) (*model.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.bookings[id], nil
}

func (r *fakeBookingRepo) GetByEventAndID(_ context.Context, eventCode, id string) (*model.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.bookings[id]
	if !ok || b.EventCode != eventCode {
		return nil, nil
	}
	return b, nil
}

func (r *fakeBookingRepo) ListByEvent(_ context.Context, eventCode string) ([]*model.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*model.Booking
	for _, b := range r.bookings {
		if b.EventCode == eventCode {
			out = append(out, b)
		}
	}
	return out, nil
}

func (r *fakeBookingRepo) Update(_ context.Context, booking *model.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.bookings[booking.ID] = booking
	return nil
}

func (r *fakeBookingRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.bookings, id)
	return nil
}

type fakeMatchRepo struct {
	mu      sync.Mutex
	records []*model.MatchRecord
}

func (r *fakeMatchRepo) InsertMany(_ context.Context, matches []*model.MatchRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records = append(r.records, matches...)
	return nil
}

func (r *fakeMatchRepo) ListByEvent(_ context.Context, eventCode string) ([]*model.MatchRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*model.MatchRecord
	for _, m := range r.records {
		if m.EventCode == eventCode {
			out = append(out, m)
		}
	}
	return out, nil
}

func (r *fakeMatchRepo) ListByUser(_ context.Context, eventCode, userID string) ([]*model.MatchRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*model.MatchRecord
	for _, m := range r.records {
		if m.EventCode == eventCode && m.HasUser(userID) {
			out = append(out, m)
		}
	}
	return out, nil
}

type fakeEventCache struct {
	mu    sync.Mutex
	metas map[string]*model.EventMeta
}

func newFakeEventCache() *fakeEventCache {
	return &fakeEventCache{metas: make(map[string]*model.EventMeta)}
}

func (c *fakeEventCache) SetMeta(_ context.Context, code string, meta *model.EventMeta) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.metas[code] = meta
	return nil
}

func (c *fakeEventCache) GetMeta(_ context.Context, code string) (*model.EventMeta, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.metas[code], nil
}

func (c *fakeEventCache) SetStatus(_ context.Context, code string, status model.EventStatus) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if meta, ok := c.metas[code]; ok {
		meta.Status = status
	}
	return nil
}

func (c *fakeEventCache) Delete(_ context.Context, code string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.metas, code)
	return nil
}

func (c *fakeEventCache) Exists(_ context.Context, code string) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.metas[code]
	return ok, nil
}

type fakePresenceCache struct {
	mu      sync.Mutex
	members map[string]map[string]struct{}
}

func newFakePresenceCache() *fakePresenceCache {
	return &fakePresenceCache{members: make(map[string]map[string]struct{})}
}

func (c *fakePresenceCache) Add(_ context.Context, eventCode, participantID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.members[eventCode] == nil {
		c.members[eventCode] = make(map[string]struct{})
	}
	c.members[eventCode][participantID] = struct{}{}
	return nil
}

func (c *fakePresenceCache) Remove(_ context.Context, eventCode, participantID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.members[eventCode], participantID)
	return nil
}

func (c *fakePresenceCache) Count(_ context.Context, eventCode string) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return int64(len(c.members[eventCode])), nil
}

func (c *fakePresenceCache) Members(_ context.Context, eventCode string) ([]string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	var out []string
	for id := range c.members[eventCode] {
		out = append(out, id)
	}
	return out, nil
}

func (c *fakePresenceCache) Clear(_ context.Context, eventCode string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.members, eventCode)
	return nil
}

type dropNotifier struct{}

func (dropNotifier) SendToParticipant(string, string, matchmaking.MessageType, interface{}) {}
func (dropNotifier) SendToHost(string, matchmaking.MessageType, interface{})                {}
func (dropNotifier) BroadcastToEvent(string, matchmaking.MessageType, interface{})          {}
