package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"sparkmatch/internal/cache"
	"sparkmatch/internal/model"
	"sparkmatch/internal/repository"
)

// BookingService handles participants booking spots at events
type BookingService struct {
	bookingRepo repository.BookingRepo
	eventCache  cache.EventCache
	authSvc     *AuthService
}

// NewBookingService creates a new booking service
func NewBookingService(
	bookingRepo repository.BookingRepo,
	eventCache cache.EventCache,
	authSvc *AuthService,
) *BookingService {
	return &BookingService{
		bookingRepo: bookingRepo,
		eventCache:  eventCache,
		authSvc:     authSvc,
	}
}

// Book reserves a spot at an event and returns the participant's
// event-scoped token
func (s *BookingService) Book(ctx context.Context, eventCode, nickname, gender, interestedIn string) (*model.BookingResponse, error) {
	meta, err := s.eventCache.GetMeta(ctx, eventCode)
	if err != nil {
		return nil, fmt.Errorf("failed to get event: %w", err)
	}
	if meta == nil {
		return nil, fmt.Errorf("event not found")
	}
	if meta.Status == model.EventStatusEnded {
		return nil, fmt.Errorf("event has ended")
	}

	participantID := "p_" + uuid.New().String()[:8]
	token, err := s.authSvc.GenerateParticipantToken(eventCode, participantID)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	now := time.Now()
	booking := &model.Booking{
		ID:           participantID,
		EventCode:    eventCode,
		Nickname:     nickname,
		Gender:       gender,
		InterestedIn: interestedIn,
		BookedAt:     now,
		LastActiveAt: now,
	}

	if err := s.bookingRepo.Create(ctx, booking); err != nil {
		return nil, fmt.Errorf("failed to save booking: %w", err)
	}

	return &model.BookingResponse{
		ParticipantID: participantID,
		Token:         token,
		EventMeta:     meta,
	}, nil
}

// GetBooking retrieves a participant's booking for an event
func (s *BookingService) GetBooking(ctx context.Context, eventCode, participantID string) (*model.Booking, error) {
	return s.bookingRepo.GetByEventAndID(ctx, eventCode, participantID)
}

// ListBookings returns every booking for an event
func (s *BookingService) ListBookings(ctx context.Context, eventCode string) ([]*model.Booking, error) {
	return s.bookingRepo.ListByEvent(ctx, eventCode)
}

// TouchBooking records participant activity (connect/reconnect)
func (s *BookingService) TouchBooking(ctx context.Context, booking *model.Booking) error {
	booking.LastActiveAt = time.Now()
	return s.bookingRepo.Update(ctx, booking)
}
