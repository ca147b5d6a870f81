// internal/domain/models/streamconfig.go
package models

import "time"

// StreamConfigID is the fixed document id in the config collection.
const StreamConfigID = "livestream"

// StreamConfig controls the live stream page.
type StreamConfig struct {
	ID        string    `bson:"_id" json:"-"`
	VideoID   string    `bson:"video_id" json:"video_id"`
	IsLive    bool      `bson:"is_live" json:"is_live"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}
