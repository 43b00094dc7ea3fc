package matchmaking

import (
	"sync"
	"time"
)

// fakeNotifier records every delivery so tests can assert on the
// outbound message stream.
type fakeNotifier struct {
	mu         sync.Mutex
	direct     []recordedMessage
	host       []recordedMessage
	broadcasts []recordedMessage
}

type recordedMessage struct {
	EventID string
	UserID  string
	Type    MessageType
	Payload interface{}
}

func (f *fakeNotifier) SendToParticipant(eventID, userID string, msgType MessageType, payload interface{}) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.direct = append(f.direct, recordedMessage{EventID: eventID, UserID: userID, Type: msgType, Payload: payload})
}

func (f *fakeNotifier) SendToHost(eventID string, msgType MessageType, payload interface{}) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.host = append(f.host, recordedMessage{EventID: eventID, Type: msgType, Payload: payload})
}

func (f *fakeNotifier) BroadcastToEvent(eventID string, msgType MessageType, payload interface{}) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.broadcasts = append(f.broadcasts, recordedMessage{EventID: eventID, Type: msgType, Payload: payload})
}

func (f *fakeNotifier) toParticipant(userID string, msgType MessageType) []recordedMessage {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []recordedMessage
	for _, m := range f.direct {
		if m.UserID == userID && m.Type == msgType {
			out = append(out, m)
		}
	}
	return out
}

func (f *fakeNotifier) broadcastsOfType(msgType MessageType) []recordedMessage {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []recordedMessage
	for _, m := range f.broadcasts {
		if m.Type == msgType {
			out = append(out, m)
		}
	}
	return out
}

func (f *fakeNotifier) reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.direct = nil
	f.host = nil
	f.broadcasts = nil
}

// newTestCoordinator builds a coordinator with long phase durations so
// real timers never fire during a test run.
func newTestCoordinator() (*Coordinator, *fakeNotifier) {
	n := &fakeNotifier{}
	c := NewCoordinator(n, PhaseDurations{
		Lobby:    time.Hour,
		Date:     time.Hour,
		Feedback: time.Hour,
	})
	return c, n
}

func join(c *Coordinator, eventID, userID string, gender Gender, eventType EventType) {
	_ = c.Join(eventID, JoinRequest{
		UserID:       userID,
		Handle:       "h-" + userID,
		Gender:       gender,
		InterestedIn: "",
		EventType:    eventType,
	})
}
