package service

import (
	"context"
	"crypto/rand"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"sparkmatch/internal/cache"
	"sparkmatch/internal/matchmaking"
	"sparkmatch/internal/model"
	"sparkmatch/internal/repository"
)

// EventService handles event lifecycle operations
type EventService struct {
	eventRepo     repository.EventRepo
	matchRepo     repository.MatchRepo
	eventCache    cache.EventCache
	presenceCache cache.PresenceCache
	coordinator   *matchmaking.Coordinator
}

// NewEventService creates a new event service
func NewEventService(
	eventRepo repository.EventRepo,
	matchRepo repository.MatchRepo,
	eventCache cache.EventCache,
	presenceCache cache.PresenceCache,
	coordinator *matchmaking.Coordinator,
) *EventService {
	return &EventService{
		eventRepo:     eventRepo,
		matchRepo:     matchRepo,
		eventCache:    eventCache,
		presenceCache: presenceCache,
		coordinator:   coordinator,
	}
}

// CreateEvent creates a new scheduled event for a host
func (s *EventService) CreateEvent(ctx context.Context, hostID, title string, eventType model.EventType, scheduledAt time.Time, settings *model.EventSettings) (*model.Event, error) {
	if !matchmaking.ValidEventType(matchmaking.EventType(eventType)) {
		return nil, fmt.Errorf("invalid event type %q", eventType)
	}

	code, err := s.generateEventCode(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to generate event code: %w", err)
	}

	event := &model.Event{
		Code:        code,
		Title:       title,
		Type:        eventType,
		HostID:      hostID,
		Status:      model.EventStatusScheduled,
		Settings:    *settings,
		ScheduledAt: scheduledAt,
		CreatedAt:   time.Now(),
	}

	if err := s.eventRepo.Create(ctx, event); err != nil {
		return nil, fmt.Errorf("failed to create event: %w", err)
	}

	settingsJSON, _ := json.Marshal(settings)
	meta := &model.EventMeta{
		Title:        event.Title,
		Type:         event.Type,
		HostID:       hostID,
		Status:       event.Status,
		SettingsJSON: string(settingsJSON),
		ScheduledAt:  scheduledAt,
		CreatedAt:    event.CreatedAt,
	}
	if err := s.eventCache.SetMeta(ctx, code, meta); err != nil {
		return nil, fmt.Errorf("failed to cache event: %w", err)
	}

	return event, nil
}

// GetEvent retrieves an event by code
func (s *EventService) GetEvent(ctx context.Context, code string) (*model.Event, error) {
	return s.eventRepo.GetByCode(ctx, code)
}

// GetEventMeta retrieves event metadata from Redis
func (s *EventService) GetEventMeta(ctx context.Context, code string) (*model.EventMeta, error) {
	return s.eventCache.GetMeta(ctx, code)
}

// OpenEvent transitions an event to LIVE so participants can connect
func (s *EventService) OpenEvent(ctx context.Context, code, hostID string) error {
	event, err := s.eventRepo.GetByCode(ctx, code)
	if err != nil {
		return err
	}
	if event == nil {
		return fmt.Errorf("event not found")
	}
	if event.HostID != hostID {
		return fmt.Errorf("unauthorized: not event host")
	}
	if event.Status != model.EventStatusScheduled {
		return fmt.Errorf("event is not in scheduled status")
	}

	now := time.Now()
	event.Status = model.EventStatusLive
	event.StartedAt = &now

	if err := s.eventRepo.Update(ctx, event); err != nil {
		return err
	}
	return s.eventCache.SetStatus(ctx, code, model.EventStatusLive)
}

// CompleteEvent ends a live event: the final pairing record is persisted,
// the in-memory session is torn down, and presence is cleared
func (s *EventService) CompleteEvent(ctx context.Context, code, hostID string) error {
	event, err := s.eventRepo.GetByCode(ctx, code)
	if err != nil {
		return err
	}
	if event == nil {
		return fmt.Errorf("event not found")
	}
	if event.HostID != hostID {
		return fmt.Errorf("unauthorized: not event host")
	}

	if err := s.persistResults(ctx, code); err != nil {
		// still tear the event down; results are an audit trail, not a gate
		log.Printf("Warning: failed to persist match results for event %s: %v", code, err)
	}
	s.coordinator.Cleanup(code)
	if err := s.presenceCache.Clear(ctx, code); err != nil {
		log.Printf("Warning: failed to clear presence for event %s: %v", code, err)
	}

	now := time.Now()
	event.Status = model.EventStatusEnded
	event.EndedAt = &now

	if err := s.eventRepo.Update(ctx, event); err != nil {
		return err
	}
	return s.eventCache.SetStatus(ctx, code, model.EventStatusEnded)
}

// ListMatches returns the persisted pairing outcomes for an event
func (s *EventService) ListMatches(ctx context.Context, code string) ([]*model.MatchRecord, error) {
	return s.matchRepo.ListByEvent(ctx, code)
}

// ListMatchesForUser returns the persisted pairings one participant was
// part of, for the post-event recap
func (s *EventService) ListMatchesForUser(ctx context.Context, code, userID string) ([]*model.MatchRecord, error) {
	return s.matchRepo.ListByUser(ctx, code, userID)
}

func (s *EventService) persistResults(ctx context.Context, code string) error {
	results := s.coordinator.Results(code)
	if len(results) == 0 {
		return nil
	}

	now := time.Now()
	var records []*model.MatchRecord
	for _, round := range results {
		for _, pair := range round.Pairs {
			records = append(records, &model.MatchRecord{
				EventCode: code,
				Round:     round.Round,
				User1ID:   pair.User1,
				User2ID:   pair.User2,
				ChannelID: pair.ChannelID,
				CreatedAt: now,
			})
		}
	}
	return s.matchRepo.InsertMany(ctx, records)
}

// generateEventCode creates a 6-char alphanumeric code
func (s *EventService) generateEventCode(ctx context.Context) (string, error) {
	const chars = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
	const codeLen = 6

	for attempts := 0; attempts < 10; attempts++ {
		b := make([]byte, codeLen)
		if _, err := rand.Read(b); err != nil {
			return "", err
		}

		code := make([]byte, codeLen)
		for i := range code {
			code[i] = chars[int(b[i])%len(chars)]
		}
		codeStr := string(code)

		exists, err := s.eventCache.Exists(ctx, codeStr)
		if err != nil {
			return "", err
		}
		if !exists {
			return codeStr, nil
		}
	}

	return "", fmt.Errorf("failed to generate unique event code")
}
