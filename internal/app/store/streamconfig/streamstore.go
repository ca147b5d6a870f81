// internal/app/store/streamconfig/streamstore.go
package streamstore

import (
	"context"
	"errors"
	"time"

	"github.com/chosenvessel/vesselhub/internal/app/system/live"
	"github.com/chosenvessel/vesselhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Store holds the single live stream configuration document.
type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("config")}
}

// Get returns the stream config. A missing document is an offline stream
// with no video.
func (s *Store) Get(ctx context.Context) (models.StreamConfig, error) {
	var cfg models.StreamConfig
	err := s.c.FindOne(ctx, bson.M{"_id": models.StreamConfigID}).Decode(&cfg)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.StreamConfig{ID: models.StreamConfigID}, nil
	}
	return cfg, err
}

// Set replaces the stream config.
func (s *Store) Set(ctx context.Context, videoID string, live bool) (models.StreamConfig, error) {
	cfg := models.StreamConfig{
		ID:        models.StreamConfigID,
		VideoID:   videoID,
		IsLive:    live,
		UpdatedAt: time.Now().UTC(),
	}
	_, err := s.c.ReplaceOne(ctx, bson.M{"_id": cfg.ID}, cfg, options.Replace().SetUpsert(true))
	if err != nil {
		return models.StreamConfig{}, err
	}
	return cfg, nil
}

// Feed follows the config document so an open stream page notices when the
// broadcast goes live. The list holds at most one item.
func (s *Store) Feed() live.Source[models.StreamConfig] {
	return live.MongoSource[models.StreamConfig]{Coll: s.c, Filter: bson.M{"_id": models.StreamConfigID}, Limit: 1}
}
