package chat

import (
	"context"
	"fmt"

	chatRepo "medicall/database/repository/chat"
	"medicall/models"
	"medicall/utils"
)

// Bridge is the durable side of room chat. The relay hands every
// chat-message here before fan-out (persist-then-relay); history reads
// serve reconnect catch-up and survive relay restarts.
type Bridge struct {
	Repo chatRepo.ChatRepository
}

// NewBridge constructs the chat persistence bridge.
func NewBridge(repo chatRepo.ChatRepository) *Bridge {
	return &Bridge{Repo: repo}
}

// Persist appends the message to the room's durable log. Implements
// relay.ChatSink.
func (b *Bridge) Persist(ctx context.Context, msg *models.ChatMessage) error {
	if msg.RoomID == "" || msg.SenderID == "" || msg.Content == "" {
		return utils.NewValidationError("chat message missing required fields")
	}
	if err := b.Repo.Append(ctx, msg); err != nil {
		return utils.NewPersistenceFailure("failed to persist chat message", err)
	}
	return nil
}

// History returns the room's full ordered log, ascending createdAt with
// insertion-order tiebreak. limit <= 0 returns everything.
func (b *Bridge) History(ctx context.Context, roomID string, limit int64) ([]models.ChatMessage, error) {
	if roomID == "" {
		return nil, utils.NewValidationError("roomId is required")
	}
	messages, err := b.Repo.History(ctx, roomID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to load chat history for room %s: %w", roomID, err)
	}
	if messages == nil {
		messages = []models.ChatMessage{}
	}
	return messages, nil
}
