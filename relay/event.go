package relay

import (
	"encoding/json"
	"errors"
	"time"
)

// EventType enumerates the closed set of relay events. WebRTC negotiation
// payloads stay opaque; chat messages are structured.
type EventType string

const (
	EventJoin         EventType = "join"
	EventLeave        EventType = "leave"
	EventOffer        EventType = "offer"
	EventAnswer       EventType = "answer"
	EventICECandidate EventType = "ice-candidate"
	EventCallAccepted EventType = "call-accepted"
	EventCallRejected EventType = "call-rejected"
	EventChatMessage  EventType = "chat-message"

	// Server-emitted only.
	EventPeerLeft EventType = "peer-left"
	EventError    EventType = "error"
)

// Event is one wire frame, always scoped to a room.
type Event struct {
	Type    EventType       `json:"type"`
	RoomID  string          `json:"roomId"`
	Payload json.RawMessage `json:"payload,omitempty"`
	Chat    *ChatPayload    `json:"chat,omitempty"`
	// SenderID is stamped by the relay on forwarded events; client-supplied
	// values are overwritten.
	SenderID string `json:"senderId,omitempty"`
	Message  string `json:"message,omitempty"`
}

// ChatPayload is the structured body of a chat-message event.
type ChatPayload struct {
	SenderID    string    `json:"senderId"`
	Content     string    `json:"content"`
	MessageType string    `json:"messageType"`
	Timestamp   time.Time `json:"timestamp"`
}

var (
	errUnknownEvent = errors.New("unknown event type")
	errMissingRoom  = errors.New("event missing roomId")
	errMissingChat  = errors.New("chat-message event missing chat body")
)

// Validate rejects frames outside the closed event set and frames missing
// their required fields. Server-emitted kinds are not accepted from clients.
func (e *Event) Validate() error {
	switch e.Type {
	case EventJoin, EventLeave, EventOffer, EventAnswer, EventICECandidate,
		EventCallAccepted, EventCallRejected:
	case EventChatMessage:
		if e.Chat == nil || e.Chat.Content == "" {
			return errMissingChat
		}
	default:
		return errUnknownEvent
	}
	if e.RoomID == "" {
		return errMissingRoom
	}
	return nil
}

func errorEvent(roomID, message string) Event {
	return Event{Type: EventError, RoomID: roomID, Message: message}
}

func peerLeftEvent(roomID, peerID string) Event {
	return Event{Type: EventPeerLeft, RoomID: roomID, SenderID: peerID}
}
