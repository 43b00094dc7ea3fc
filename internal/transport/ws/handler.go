package ws

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"

	"sparkmatch/internal/cache"
	"sparkmatch/internal/matchmaking"
	"sparkmatch/internal/model"
	"sparkmatch/internal/service"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins for dev
	},
}

// Handler handles WebSocket connections
type Handler struct {
	hub         *Hub
	authSvc     *service.AuthService
	bookingSvc  *service.BookingService
	eventSvc    *service.EventService
	coordinator *matchmaking.Coordinator
	presence    cache.PresenceCache
}

// NewHandler creates a new WebSocket handler
func NewHandler(
	hub *Hub,
	authSvc *service.AuthService,
	bookingSvc *service.BookingService,
	eventSvc *service.EventService,
	coordinator *matchmaking.Coordinator,
	presence cache.PresenceCache,
) *Handler {
	return &Handler{
		hub:         hub,
		authSvc:     authSvc,
		bookingSvc:  bookingSvc,
		eventSvc:    eventSvc,
		coordinator: coordinator,
		presence:    presence,
	}
}

// HostWS handles GET /v1/ws/events/{code}/host
func (h *Handler) HostWS(w http.ResponseWriter, r *http.Request) {
	code := mux.Vars(r)["code"]
	token := r.URL.Query().Get("token")

	if token == "" {
		http.Error(w, "missing token", http.StatusUnauthorized)
		return
	}

	claims, err := h.authSvc.ValidateHostToken(token)
	if err != nil {
		http.Error(w, "invalid token", http.StatusUnauthorized)
		return
	}

	wsConn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("WebSocket upgrade error: %v", err)
		return
	}

	conn := &Connection{
		EventCode: code,
		IsHost:    true,
		Send:      make(chan []byte, 256),
		Hub:       h.hub,
	}

	h.hub.Register(conn)

	log.Printf("Host %s connected to event %s via WebSocket", claims.HostID, code)

	go h.writePump(wsConn, conn)
	go h.readPump(wsConn, conn)
}

// ParticipantWS handles GET /v1/ws/events/{code}/participant
func (h *Handler) ParticipantWS(w http.ResponseWriter, r *http.Request) {
	code := mux.Vars(r)["code"]
	token := r.URL.Query().Get("token")

	if token == "" {
		http.Error(w, "missing token", http.StatusUnauthorized)
		return
	}

	claims, err := h.authSvc.ValidateParticipantToken(token)
	if err != nil {
		http.Error(w, "invalid token", http.StatusUnauthorized)
		return
	}

	if claims.EventCode != code {
		http.Error(w, "token not valid for this event", http.StatusForbidden)
		return
	}

	meta, err := h.eventSvc.GetEventMeta(r.Context(), code)
	if err != nil || meta == nil {
		http.Error(w, "event not found", http.StatusNotFound)
		return
	}
	if meta.Status != model.EventStatusLive {
		http.Error(w, "event is not live", http.StatusConflict)
		return
	}

	booking, err := h.bookingSvc.GetBooking(r.Context(), code, claims.ParticipantID)
	if err != nil || booking == nil {
		http.Error(w, "no booking for this event", http.StatusForbidden)
		return
	}

	wsConn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("WebSocket upgrade error: %v", err)
		return
	}

	conn := &Connection{
		EventCode:     code,
		ParticipantID: claims.ParticipantID,
		Handle:        uuid.New().String(),
		Send:          make(chan []byte, 256),
		Hub:           h.hub,
	}

	h.hub.Register(conn)

	if err := h.presence.Add(r.Context(), code, claims.ParticipantID); err != nil {
		log.Printf("Warning: failed to record presence for %s: %v", claims.ParticipantID, err)
	}
	if err := h.bookingSvc.TouchBooking(r.Context(), booking); err != nil {
		log.Printf("Warning: failed to touch booking for %s: %v", claims.ParticipantID, err)
	}

	if err := h.coordinator.Join(code, matchmaking.JoinRequest{
		UserID:       claims.ParticipantID,
		Handle:       conn.Handle,
		Gender:       matchmaking.Gender(booking.Gender),
		InterestedIn: booking.InterestedIn,
		EventType:    matchmaking.EventType(meta.Type),
	}); err != nil {
		log.Printf("Join rejected for %s in event %s: %v", claims.ParticipantID, code, err)
		wsConn.Close()
		return
	}

	log.Printf("Participant %s connected to event %s via WebSocket", claims.ParticipantID, code)

	go h.writePump(wsConn, conn)
	go h.readPump(wsConn, conn)
}

func (h *Handler) readPump(wsConn *websocket.Conn, conn *Connection) {
	defer func() {
		if !conn.IsHost {
			// stale closes are filtered by the handle check
			h.coordinator.Disconnect(conn.EventCode, conn.ParticipantID, conn.Handle)
			if err := h.presence.Remove(context.Background(), conn.EventCode, conn.ParticipantID); err != nil {
				log.Printf("Warning: failed to remove presence for %s: %v", conn.ParticipantID, err)
			}
		}
		h.hub.Unregister(conn)
		wsConn.Close()
	}()

	wsConn.SetReadLimit(maxMessageSize)
	wsConn.SetReadDeadline(time.Now().Add(pongWait))
	wsConn.SetPongHandler(func(string) error {
		wsConn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, data, err := wsConn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("WebSocket error: %v", err)
			}
			break
		}
		if conn.IsHost {
			continue // hosts only listen
		}

		var msg ClientMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			log.Printf("Ignoring malformed message from %s: %v", conn.ParticipantID, err)
			continue
		}

		switch msg.Type {
		case ClientMsgReady:
			h.coordinator.MarkReady(conn.EventCode, conn.ParticipantID)
		case ClientMsgLeave:
			h.coordinator.Leave(conn.EventCode, conn.ParticipantID)
			return
		}
	}
}

func (h *Handler) writePump(wsConn *websocket.Conn, conn *Connection) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		wsConn.Close()
	}()

	for {
		select {
		case message, ok := <-conn.Send:
			wsConn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				wsConn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			w, err := wsConn.NextWriter(websocket.TextMessage)
			if err != nil {
				return
			}
			w.Write(message)

			if err := w.Close(); err != nil {
				return
			}

		case <-ticker.C:
			wsConn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := wsConn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
