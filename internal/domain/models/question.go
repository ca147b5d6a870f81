// internal/domain/models/question.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	QuestionPending  = "pending"
	QuestionAnswered = "answered"
)

// Question is a Bishop Q&A submission.
type Question struct {
	ID         primitive.ObjectID `bson:"_id" json:"id"`
	UserID     string             `bson:"user_id" json:"user_id"`
	UserName   string             `bson:"user_name" json:"user_name"`
	Content    string             `bson:"content" json:"content"`
	IsPublic   bool               `bson:"is_public" json:"is_public"`
	Status     string             `bson:"status" json:"status"`
	Answer     string             `bson:"answer,omitempty" json:"answer,omitempty"`
	CreatedAt  time.Time          `bson:"created_at" json:"created_at"`
	AnsweredAt *time.Time         `bson:"answered_at,omitempty" json:"answered_at,omitempty"`
}
