// internal/domain/models/prayer.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	VisibilityPublic  = "public"
	VisibilityPrivate = "private"
)

// AnonymousAuthor replaces the author name of anonymous requests.
const AnonymousAuthor = "Anonymous Vessel"

// DefaultPrayerCategory is used when the form leaves category blank.
const DefaultPrayerCategory = "General"

// PrayerCategories offered on the prayer wall form.
var PrayerCategories = []string{"General", "Healing", "Family", "Finances", "Salvation", "Guidance", "Praise Report"}

// PrayerRequest is a prayer wall entry. PrayedCount only ever increases.
type PrayerRequest struct {
	ID          primitive.ObjectID `bson:"_id" json:"id"`
	AuthorID    string             `bson:"author_id" json:"author_id"`
	AuthorName  string             `bson:"author_name" json:"author_name"`
	Content     string             `bson:"content" json:"content"`
	Category    string             `bson:"category" json:"category"`
	Visibility  string             `bson:"visibility" json:"visibility"`
	Anonymous   bool               `bson:"anonymous" json:"anonymous"`
	PrayedCount int64              `bson:"prayed_count" json:"prayed_count"`
	CreatedAt   time.Time          `bson:"created_at" json:"created_at"`
}

// VisibleTo reports whether viewer may see the request on the wall.
func (p PrayerRequest) VisibleTo(viewerID string) bool {
	return p.Visibility != VisibilityPrivate || p.AuthorID == viewerID
}

// ForWall returns the request as other members see it. Anonymous requests
// carry neither the author's name nor id.
func (p PrayerRequest) ForWall() PrayerRequest {
	if p.Anonymous {
		p.AuthorID = ""
		p.AuthorName = AnonymousAuthor
	}
	return p
}
