package models

import "time"

// ChatMessage is one immutable chat line persisted for a room. RoomID
// correlates 1:1 with a live session for that session's lifetime; history
// outlives the relay process.
type ChatMessage struct {
	ID          string    `bson:"id" json:"id"`
	RoomID      string    `bson:"roomId" json:"roomId"`
	SenderID    string    `bson:"senderId" json:"senderId"`
	Content     string    `bson:"content" json:"content"`
	MessageType string    `bson:"messageType" json:"messageType"`
	CreatedAt   time.Time `bson:"createdAt" json:"createdAt"`
}
