// internal/domain/models/chat.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	ChannelCommunity = "community"
	ChannelModerated = "moderated"
)

// ChatMessage is an append-only community chat entry. CreatedAt is assigned by the server.
type ChatMessage struct {
	ID         primitive.ObjectID `bson:"_id" json:"id"`
	Channel    string             `bson:"channel" json:"channel"`
	AuthorID   string             `bson:"author_id" json:"author_id"`
	AuthorName string             `bson:"author_name" json:"author_name"`
	Text       string             `bson:"text" json:"text"`
	CreatedAt  time.Time          `bson:"created_at" json:"created_at"`
}
