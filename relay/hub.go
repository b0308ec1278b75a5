package relay

import (
	"context"
	"sync"
	"time"

	"medicall/models"
	"medicall/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ChatSink durably records a chat message before it is relayed. A sink
// failure suppresses fan-out for that message: anything a peer could have
// seen live must be recoverable from history.
type ChatSink interface {
	Persist(ctx context.Context, msg *models.ChatMessage) error
}

// Hub is the room-scoped fan-out registry. It holds no durable state; a
// restart empties every room and clients rejoin.
type Hub struct {
	mu    sync.RWMutex
	rooms map[string]map[*Client]struct{}

	sink   ChatSink
	logger *zap.Logger
}

// NewHub creates an empty hub. sink may be nil, in which case chat messages
// are rejected (persistence is mandatory for chat).
func NewHub(sink ChatSink) *Hub {
	return &Hub{
		rooms:  make(map[string]map[*Client]struct{}),
		sink:   sink,
		logger: utils.GetLogger(),
	}
}

// HandleEvent dispatches one validated inbound frame from a client.
func (h *Hub) HandleEvent(c *Client, evt Event) {
	switch evt.Type {
	case EventJoin:
		h.join(c, evt.RoomID)
	case EventLeave:
		h.leave(c, evt.RoomID)
		c.forgetRoom(evt.RoomID)
	case EventChatMessage:
		h.handleChat(c, evt)
	default:
		// WebRTC negotiation events: forward verbatim.
		h.broadcast(evt.RoomID, c, evt)
	}
}

func (h *Hub) join(c *Client, roomID string) {
	h.mu.Lock()
	members, ok := h.rooms[roomID]
	if !ok {
		members = make(map[*Client]struct{})
		h.rooms[roomID] = members
	}
	members[c] = struct{}{}
	h.mu.Unlock()

	c.rememberRoom(roomID)
	h.logger.Debug("Client joined room",
		zap.String("connId", c.ID), zap.String("roomId", roomID))
}

func (h *Hub) leave(c *Client, roomID string) {
	h.mu.Lock()
	if members, ok := h.rooms[roomID]; ok {
		delete(members, c)
		if len(members) == 0 {
			delete(h.rooms, roomID)
		}
	}
	h.mu.Unlock()

	h.logger.Debug("Client left room",
		zap.String("connId", c.ID), zap.String("roomId", roomID))
}

// Disconnect removes the client from every room it joined and announces its
// departure to the remaining members. Called on explicit close and on
// abrupt connection loss alike.
func (h *Hub) Disconnect(c *Client) {
	for _, roomID := range c.joinedRooms() {
		h.leave(c, roomID)
		h.broadcast(roomID, c, peerLeftEvent(roomID, c.UserID))
	}
	c.closeSend()
}

// handleChat implements persist-then-relay. On persistence failure the
// sender gets an explicit error event and nothing is forwarded.
func (h *Hub) handleChat(c *Client, evt Event) {
	if h.sink == nil {
		c.trySend(errorEvent(evt.RoomID, "chat persistence unavailable"))
		return
	}

	chat := evt.Chat
	msg := &models.ChatMessage{
		ID:          uuid.New().String(),
		RoomID:      evt.RoomID,
		SenderID:    c.UserID,
		Content:     chat.Content,
		MessageType: chat.MessageType,
		CreatedAt:   chat.Timestamp,
	}
	if msg.CreatedAt.IsZero() {
		msg.CreatedAt = time.Now()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := h.sink.Persist(ctx, msg); err != nil {
		h.logger.Error("Chat persistence failed",
			zap.String("roomId", evt.RoomID), zap.Error(err))
		c.trySend(errorEvent(evt.RoomID, "message could not be saved"))
		return
	}

	evt.Chat.SenderID = c.UserID
	h.broadcast(evt.RoomID, c, evt)
}

// broadcast forwards the event to every member of the room except the
// sender. Delivery is best-effort: a member whose outbound queue is full is
// dropped rather than blocking the sender; a room with no other members is
// a silent no-op. Per-sender FIFO order is preserved because each sender's
// events are enqueued from its single read loop.
func (h *Hub) broadcast(roomID string, sender *Client, evt Event) {
	evt.SenderID = sender.UserID

	h.mu.RLock()
	members := make([]*Client, 0, len(h.rooms[roomID]))
	for member := range h.rooms[roomID] {
		if member != sender {
			members = append(members, member)
		}
	}
	h.mu.RUnlock()

	var slow []*Client
	for _, member := range members {
		if !member.trySend(evt) {
			slow = append(slow, member)
		}
	}
	for _, member := range slow {
		h.logger.Warn("Dropping slow consumer, outbound queue full",
			zap.String("connId", member.ID), zap.String("roomId", roomID))
		h.Disconnect(member)
	}
}

// Stats reports current room and connection counts for the liveness check.
func (h *Hub) Stats() (rooms, connections int) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	seen := make(map[*Client]struct{})
	for _, members := range h.rooms {
		for member := range members {
			seen[member] = struct{}{}
		}
	}
	return len(h.rooms), len(seen)
}
