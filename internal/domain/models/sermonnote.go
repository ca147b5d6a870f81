// internal/domain/models/sermonnote.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// SermonNote is a private journal entry.
type SermonNote struct {
	ID         primitive.ObjectID `bson:"_id" json:"id"`
	UserID     string             `bson:"user_id" json:"user_id"`
	Title      string             `bson:"title" json:"title"`
	Content    string             `bson:"content" json:"content"`
	SermonDate string             `bson:"sermon_date" json:"sermon_date"` // YYYY-MM-DD
	CreatedAt  time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt  time.Time          `bson:"updated_at" json:"updated_at"`
}
