// internal/domain/models/thread.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Thread subjects a member can open a conversation about.
const (
	SubjectPrayer     = "prayer"
	SubjectCounseling = "counseling"
	SubjectTestimony  = "testimony"
	SubjectQuestion   = "question"
)

// Thread statuses. A staff reply flips to replied, a member follow-up back to new.
const (
	ThreadNew     = "new"
	ThreadReplied = "replied"
)

// Message senders.
const (
	SenderUser  = "user"
	SenderAdmin = "admin"
)

// ThreadMessage is one entry in a pastor conversation. Messages are append-only.
type ThreadMessage struct {
	Sender    string    `bson:"sender" json:"sender"`
	AdminName string    `bson:"admin_name,omitempty" json:"admin_name,omitempty"`
	Text      string    `bson:"text" json:"text"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}

// Thread is a private conversation between one member and church staff.
type Thread struct {
	ID            primitive.ObjectID `bson:"_id" json:"id"`
	OwnerID       string             `bson:"owner_id" json:"owner_id"`
	OwnerName     string             `bson:"owner_name" json:"owner_name"`
	Subject       string             `bson:"subject" json:"subject"`
	Status        string             `bson:"status" json:"status"`
	Messages      []ThreadMessage    `bson:"messages" json:"messages"`
	CreatedAt     time.Time          `bson:"created_at" json:"created_at"`
	LastMessageAt time.Time          `bson:"last_message_at" json:"last_message_at"`
}

// ValidSubject reports whether s is a known thread subject.
func ValidSubject(s string) bool {
	switch s {
	case SubjectPrayer, SubjectCounseling, SubjectTestimony, SubjectQuestion:
		return true
	}
	return false
}
