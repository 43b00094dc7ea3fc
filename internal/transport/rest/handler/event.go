package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"sparkmatch/internal/model"
	"sparkmatch/internal/service"
	"sparkmatch/internal/transport/rest/middleware"
)

// EventHandler handles event lifecycle endpoints
type EventHandler struct {
	eventSvc   *service.EventService
	bookingSvc *service.BookingService
}

// NewEventHandler creates a new event handler
func NewEventHandler(eventSvc *service.EventService, bookingSvc *service.BookingService) *EventHandler {
	return &EventHandler{
		eventSvc:   eventSvc,
		bookingSvc: bookingSvc,
	}
}

// CreateEventRequest is the request body for creating an event
type CreateEventRequest struct {
	Title       string               `json:"title"`
	Type        model.EventType      `json:"type"`
	ScheduledAt time.Time            `json:"scheduledAt"`
	Settings    *model.EventSettings `json:"settings,omitempty"`
}

// Create handles POST /v1/events
func (h *EventHandler) Create(w http.ResponseWriter, r *http.Request) {
	hostID := middleware.GetHostID(r.Context())
	if hostID == "" {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req CreateEventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	settings := &model.EventSettings{}
	if req.Settings != nil {
		settings = req.Settings
	}

	event, err := h.eventSvc.CreateEvent(r.Context(), hostID, req.Title, req.Type, req.ScheduledAt, settings)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, event)
}

// Get handles GET /v1/events/{code}
func (h *EventHandler) Get(w http.ResponseWriter, r *http.Request) {
	code := mux.Vars(r)["code"]

	event, err := h.eventSvc.GetEvent(r.Context(), code)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if event == nil {
		writeError(w, http.StatusNotFound, "event not found")
		return
	}

	writeJSON(w, http.StatusOK, event)
}

// Open handles POST /v1/events/{code}/open
func (h *EventHandler) Open(w http.ResponseWriter, r *http.Request) {
	code := mux.Vars(r)["code"]
	hostID := middleware.GetHostID(r.Context())

	if err := h.eventSvc.OpenEvent(r.Context(), code, hostID); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": string(model.EventStatusLive)})
}

// Complete handles POST /v1/events/{code}/complete
func (h *EventHandler) Complete(w http.ResponseWriter, r *http.Request) {
	code := mux.Vars(r)["code"]
	hostID := middleware.GetHostID(r.Context())

	if err := h.eventSvc.CompleteEvent(r.Context(), code, hostID); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": string(model.EventStatusEnded)})
}

// BookRequest is the request body for booking a spot
type BookRequest struct {
	Nickname     string `json:"nickname"`
	Gender       string `json:"gender"`
	InterestedIn string `json:"interestedIn"`
}

// Book handles POST /v1/events/{code}/book
func (h *EventHandler) Book(w http.ResponseWriter, r *http.Request) {
	code := mux.Vars(r)["code"]

	var req BookRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Nickname == "" || req.Gender == "" {
		writeError(w, http.StatusBadRequest, "nickname and gender are required")
		return
	}

	resp, err := h.bookingSvc.Book(r.Context(), code, req.Nickname, req.Gender, req.InterestedIn)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, resp)
}

// Matches handles GET /v1/events/{code}/matches
func (h *EventHandler) Matches(w http.ResponseWriter, r *http.Request) {
	code := mux.Vars(r)["code"]

	matches, err := h.eventSvc.ListMatches(r.Context(), code)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"eventCode": code,
		"matches":   matches,
	})
}

// Bookings handles GET /v1/events/{code}/bookings
func (h *EventHandler) Bookings(w http.ResponseWriter, r *http.Request) {
	code := mux.Vars(r)["code"]

	bookings, err := h.bookingSvc.ListBookings(r.Context(), code)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"eventCode": code,
		"count":     len(bookings),
		"bookings":  bookings,
	})
}

// MyBooking handles GET /v1/events/{code}/bookings/me
func (h *EventHandler) MyBooking(w http.ResponseWriter, r *http.Request) {
	code := mux.Vars(r)["code"]
	participantID := middleware.GetParticipantID(r.Context())

	if middleware.GetEventCode(r.Context()) != code {
		writeError(w, http.StatusForbidden, "token not valid for this event")
		return
	}

	booking, err := h.bookingSvc.GetBooking(r.Context(), code, participantID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if booking == nil {
		writeError(w, http.StatusNotFound, "no booking for this event")
		return
	}

	writeJSON(w, http.StatusOK, booking)
}

// MatchSummary is one entry in a participant's post-event recap
type MatchSummary struct {
	Round     int    `json:"round"`
	Partner   string `json:"partner"`
	ChannelID string `json:"channelId"`
}

// MyMatches handles GET /v1/events/{code}/matches/me
func (h *EventHandler) MyMatches(w http.ResponseWriter, r *http.Request) {
	code := mux.Vars(r)["code"]
	participantID := middleware.GetParticipantID(r.Context())

	if middleware.GetEventCode(r.Context()) != code {
		writeError(w, http.StatusForbidden, "token not valid for this event")
		return
	}

	matches, err := h.eventSvc.ListMatchesForUser(r.Context(), code, participantID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	summaries := make([]MatchSummary, 0, len(matches))
	for _, m := range matches {
		partner, ok := m.OtherUser(participantID)
		if !ok {
			continue
		}
		summaries = append(summaries, MatchSummary{
			Round:     m.Round,
			Partner:   partner,
			ChannelID: m.ChannelID,
		})
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"eventCode": code,
		"matches":   summaries,
	})
}
