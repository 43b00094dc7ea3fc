package ws

import (
	"encoding/json"
	"log"
	"sync"

	"sparkmatch/internal/matchmaking"
)

// Message is the WebSocket envelope format
type Message struct {
	Type    matchmaking.MessageType `json:"type"`
	Payload json.RawMessage         `json:"payload"`
}

// ClientMessage is what participants send upstream
type ClientMessage struct {
	Type string `json:"type"`
}

// Client message types
const (
	ClientMsgReady = "ready"
	ClientMsgLeave = "leave"
)

// Hub manages WebSocket connections for events. It implements
// matchmaking.Notifier, so coordinator output flows straight to clients.
type Hub struct {
	// Event code -> connections
	hostConns        map[string]*Connection
	participantConns map[string]map[string]*Connection // eventCode -> participantID -> conn

	mu sync.RWMutex

	// Channels for coordination
	register   chan *Connection
	unregister chan *Connection
	broadcast  chan *BroadcastMessage
}

// Connection represents a WebSocket connection
type Connection struct {
	EventCode     string
	ParticipantID string // empty for host connections
	Handle        string // unique per connection, passed to the coordinator
	IsHost        bool
	Send          chan []byte
	Hub           *Hub
}

// BroadcastMessage is a message to deliver
type BroadcastMessage struct {
	EventCode     string
	ToHost        bool
	ToParticipant string // empty means all participants, specific ID means one
	Message       *Message
}

// NewHub creates a new WebSocket hub
func NewHub() *Hub {
	h := &Hub{
		hostConns:        make(map[string]*Connection),
		participantConns: make(map[string]map[string]*Connection),
		register:         make(chan *Connection),
		unregister:       make(chan *Connection),
		broadcast:        make(chan *BroadcastMessage, 256),
	}
	go h.run()
	return h
}

func (h *Hub) run() {
	for {
		select {
		case conn := <-h.register:
			h.mu.Lock()
			if conn.IsHost {
				if old, ok := h.hostConns[conn.EventCode]; ok && old != conn {
					close(old.Send)
				}
				h.hostConns[conn.EventCode] = conn
				log.Printf("Host connected to event %s", conn.EventCode)
			} else {
				if h.participantConns[conn.EventCode] == nil {
					h.participantConns[conn.EventCode] = make(map[string]*Connection)
				}
				// a reconnect supersedes the previous connection
				if old, ok := h.participantConns[conn.EventCode][conn.ParticipantID]; ok && old != conn {
					close(old.Send)
				}
				h.participantConns[conn.EventCode][conn.ParticipantID] = conn
				log.Printf("Participant %s connected to event %s", conn.ParticipantID, conn.EventCode)
			}
			h.mu.Unlock()

		case conn := <-h.unregister:
			h.mu.Lock()
			if conn.IsHost {
				if existing, ok := h.hostConns[conn.EventCode]; ok && existing == conn {
					delete(h.hostConns, conn.EventCode)
					close(conn.Send)
					log.Printf("Host disconnected from event %s", conn.EventCode)
				}
			} else {
				if participants, ok := h.participantConns[conn.EventCode]; ok {
					if existing, ok := participants[conn.ParticipantID]; ok && existing == conn {
						delete(participants, conn.ParticipantID)
						close(conn.Send)
						log.Printf("Participant %s disconnected from event %s", conn.ParticipantID, conn.EventCode)
					}
				}
			}
			h.mu.Unlock()

		case msg := <-h.broadcast:
			h.mu.RLock()
			data, _ := json.Marshal(msg.Message)

			if msg.ToHost {
				if conn, ok := h.hostConns[msg.EventCode]; ok {
					select {
					case conn.Send <- data:
					default:
						// Drop message if buffer full
					}
				}
			} else if msg.ToParticipant != "" {
				// Send to specific participant
				if participants, ok := h.participantConns[msg.EventCode]; ok {
					if conn, ok := participants[msg.ToParticipant]; ok {
						select {
						case conn.Send <- data:
						default:
						}
					}
				}
			} else {
				// Broadcast to all participants
				if participants, ok := h.participantConns[msg.EventCode]; ok {
					for _, conn := range participants {
						select {
						case conn.Send <- data:
						default:
						}
					}
				}
			}
			h.mu.RUnlock()
		}
	}
}

// Register adds a connection
func (h *Hub) Register(conn *Connection) {
	h.register <- conn
}

// Unregister removes a connection
func (h *Hub) Unregister(conn *Connection) {
	h.unregister <- conn
}

// SendToParticipant sends a message to a specific participant (implements matchmaking.Notifier)
func (h *Hub) SendToParticipant(eventCode, participantID string, msgType matchmaking.MessageType, payload interface{}) {
	data, _ := json.Marshal(payload)
	h.broadcast <- &BroadcastMessage{
		EventCode:     eventCode,
		ToParticipant: participantID,
		Message: &Message{
			Type:    msgType,
			Payload: data,
		},
	}
}

// SendToHost sends a message to the event host (implements matchmaking.Notifier)
func (h *Hub) SendToHost(eventCode string, msgType matchmaking.MessageType, payload interface{}) {
	data, _ := json.Marshal(payload)
	h.broadcast <- &BroadcastMessage{
		EventCode: eventCode,
		ToHost:    true,
		Message: &Message{
			Type:    msgType,
			Payload: data,
		},
	}
}

// BroadcastToEvent sends a message to all participants of an event
// (implements matchmaking.Notifier)
func (h *Hub) BroadcastToEvent(eventCode string, msgType matchmaking.MessageType, payload interface{}) {
	data, _ := json.Marshal(payload)
	h.broadcast <- &BroadcastMessage{
		EventCode:     eventCode,
		ToParticipant: "", // empty means all
		Message: &Message{
			Type:    msgType,
			Payload: data,
		},
	}
}
