package chat

import (
	"context"
	"errors"
	"testing"
	"time"

	"medicall/models"
	"medicall/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeChatRepo struct {
	messages  []models.ChatMessage
	appendErr error
	histErr   error
}

func (r *fakeChatRepo) Append(_ context.Context, msg *models.ChatMessage) error {
	if r.appendErr != nil {
		return r.appendErr
	}
	r.messages = append(r.messages, *msg)
	return nil
}

func (r *fakeChatRepo) History(_ context.Context, roomID string, limit int64) ([]models.ChatMessage, error) {
	if r.histErr != nil {
		return nil, r.histErr
	}
	var out []models.ChatMessage
	for _, m := range r.messages {
		if m.RoomID == roomID {
			out = append(out, m)
		}
	}
	if limit > 0 && int64(len(out)) > limit {
		out = out[int64(len(out))-limit:]
	}
	return out, nil
}

func message(room, sender, content string) *models.ChatMessage {
	return &models.ChatMessage{
		ID:          sender + "-" + content,
		RoomID:      room,
		SenderID:    sender,
		Content:     content,
		MessageType: "text",
		CreatedAt:   time.Now(),
	}
}

func TestPersist_AppendsMessage(t *testing.T) {
	repo := &fakeChatRepo{}
	bridge := NewBridge(repo)

	err := bridge.Persist(context.Background(), message("room-1", "alice", "hello"))
	require.NoError(t, err)
	require.Len(t, repo.messages, 1)
	assert.Equal(t, "hello", repo.messages[0].Content)
}

func TestPersist_RejectsIncompleteMessages(t *testing.T) {
	tests := []struct {
		name string
		msg  *models.ChatMessage
	}{
		{name: "missing room", msg: &models.ChatMessage{SenderID: "alice", Content: "hi"}},
		{name: "missing sender", msg: &models.ChatMessage{RoomID: "room-1", Content: "hi"}},
		{name: "empty content", msg: &models.ChatMessage{RoomID: "room-1", SenderID: "alice"}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			repo := &fakeChatRepo{}
			bridge := NewBridge(repo)

			err := bridge.Persist(context.Background(), tc.msg)
			require.Error(t, err)
			assert.True(t, utils.HasCode(err, utils.CodeValidation))
			assert.Empty(t, repo.messages)
		})
	}
}

func TestPersist_SurfacesStorageFailure(t *testing.T) {
	repo := &fakeChatRepo{appendErr: errors.New("mongo down")}
	bridge := NewBridge(repo)

	err := bridge.Persist(context.Background(), message("room-1", "alice", "hello"))
	require.Error(t, err)
	assert.True(t, utils.HasCode(err, utils.CodePersistenceFailure))
}

func TestHistory_ReturnsRoomMessages(t *testing.T) {
	repo := &fakeChatRepo{}
	bridge := NewBridge(repo)
	require.NoError(t, bridge.Persist(context.Background(), message("room-1", "alice", "one")))
	require.NoError(t, bridge.Persist(context.Background(), message("room-1", "bob", "two")))
	require.NoError(t, bridge.Persist(context.Background(), message("room-2", "carol", "elsewhere")))

	messages, err := bridge.History(context.Background(), "room-1", 0)
	require.NoError(t, err)
	require.Len(t, messages, 2)
	assert.Equal(t, "one", messages[0].Content)
	assert.Equal(t, "two", messages[1].Content)
}

func TestHistory_Limit(t *testing.T) {
	repo := &fakeChatRepo{}
	bridge := NewBridge(repo)
	for _, content := range []string{"one", "two", "three"} {
		require.NoError(t, bridge.Persist(context.Background(), message("room-1", "alice", content)))
	}

	messages, err := bridge.History(context.Background(), "room-1", 2)
	require.NoError(t, err)
	require.Len(t, messages, 2)
	assert.Equal(t, "two", messages[0].Content)
	assert.Equal(t, "three", messages[1].Content)
}

func TestHistory_EmptyRoomReturnsEmptySlice(t *testing.T) {
	bridge := NewBridge(&fakeChatRepo{})

	messages, err := bridge.History(context.Background(), "room-1", 0)
	require.NoError(t, err)
	assert.NotNil(t, messages)
	assert.Empty(t, messages)
}

func TestHistory_RequiresRoom(t *testing.T) {
	bridge := NewBridge(&fakeChatRepo{})

	_, err := bridge.History(context.Background(), "", 0)
	require.Error(t, err)
	assert.True(t, utils.HasCode(err, utils.CodeValidation))
}
