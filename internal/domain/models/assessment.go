// internal/domain/models/assessment.go
package models

import "time"

const AssessmentSpiritualGifts = "spiritual_gifts"

// Assessment stores the latest spiritual gifts result for a user (one per user).
type Assessment struct {
	UserID      string         `bson:"_id" json:"user_id"`
	Type        string         `bson:"type" json:"type"`
	Scores      map[string]int `bson:"scores" json:"scores"`
	TopGifts    []string       `bson:"top_gifts" json:"top_gifts"`
	CompletedAt time.Time      `bson:"completed_at" json:"completed_at"`
}
