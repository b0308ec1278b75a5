package chatRepo

import (
	"context"
	"fmt"
	"time"

	"medicall/database"
	"medicall/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ChatRepository is the durable, append-only chat log. Rows are immutable
// once written.
type ChatRepository interface {
	Append(ctx context.Context, msg *models.ChatMessage) error
	// History returns the room's messages in ascending createdAt order,
	// insertion order breaking ties. limit > 0 returns only the most
	// recent N; limit <= 0 means no limit.
	History(ctx context.Context, roomID string, limit int64) ([]models.ChatMessage, error)
}

// MongoChatRepo implements ChatRepository using MongoDB.
type MongoChatRepo struct {
	coll *mongo.Collection
}

// NewMongoChatRepo creates a new instance of ChatRepository using MongoDB.
func NewMongoChatRepo() ChatRepository {
	return &MongoChatRepo{coll: database.DB().Collection("chat_messages")}
}

func (r *MongoChatRepo) Append(ctx context.Context, msg *models.ChatMessage) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if _, err := r.coll.InsertOne(ctx, msg); err != nil {
		return fmt.Errorf("error appending chat message to room %s: %w", msg.RoomID, err)
	}
	return nil
}

func (r *MongoChatRepo) History(ctx context.Context, roomID string, limit int64) ([]models.ChatMessage, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	// The ObjectId tiebreak preserves insertion order for equal timestamps.
	// A limit selects the most recent N, so the query runs newest-first and
	// the result is reversed back to chronological order.
	sortDir := 1
	if limit > 0 {
		sortDir = -1
	}
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: sortDir}, {Key: "_id", Value: sortDir}})
	if limit > 0 {
		opts = opts.SetLimit(limit)
	}
	cursor, err := r.coll.Find(ctx, bson.M{"roomId": roomID}, opts)
	if err != nil {
		return nil, fmt.Errorf("error fetching chat history for room %s: %w", roomID, err)
	}
	defer cursor.Close(ctx)

	var messages []models.ChatMessage
	if err := cursor.All(ctx, &messages); err != nil {
		return nil, fmt.Errorf("error decoding chat history for room %s: %w", roomID, err)
	}
	if sortDir == -1 {
		for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
			messages[i], messages[j] = messages[j], messages[i]
		}
	}
	return messages, nil
}

// EnsureIndexes creates the necessary indexes on the chat_messages collection.
func (r *MongoChatRepo) EnsureIndexes() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	indexModels := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "roomId", Value: 1}, {Key: "createdAt", Value: 1}},
			Options: options.Index().SetName("room_created_idx"),
		},
	}
	if _, err := r.coll.Indexes().CreateMany(ctx, indexModels); err != nil {
		return fmt.Errorf("failed to create chat indexes: %w", err)
	}
	return nil
}
