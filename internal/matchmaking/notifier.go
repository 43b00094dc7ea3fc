package matchmaking

// Notifier delivers coordinator output to connected clients. The websocket
// hub implements it; keeping it an interface here avoids an import cycle
// and lets tests record deliveries.
type Notifier interface {
	SendToParticipant(eventID, userID string, msgType MessageType, payload interface{})
	SendToHost(eventID string, msgType MessageType, payload interface{})
	BroadcastToEvent(eventID string, msgType MessageType, payload interface{})
}
