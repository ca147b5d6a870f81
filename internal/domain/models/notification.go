// internal/domain/models/notification.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	SeverityInfo    = "info"
	SeverityAlert   = "alert"
	SeveritySuccess = "success"
)

// Notification is a broadcast message created by an admin.
type Notification struct {
	ID        primitive.ObjectID `bson:"_id" json:"id"`
	Title     string             `bson:"title" json:"title"`
	Message   string             `bson:"message" json:"message"`
	Severity  string             `bson:"severity" json:"severity"`
	CreatedBy string             `bson:"created_by" json:"created_by"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
}
