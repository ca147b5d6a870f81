// internal/app/store/chat/chatstore.go
package chatstore

import (
	"context"
	"errors"
	"time"

	"github.com/chosenvessel/vesselhub/internal/app/system/live"
	"github.com/chosenvessel/vesselhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

var ErrInvalidChannel = errors.New("invalid channel")

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("community_messages")}
}

// Send appends a message. The timestamp is assigned here, never by the client.
func (s *Store) Send(ctx context.Context, channel, authorID, authorName, text string) (models.ChatMessage, error) {
	if channel != models.ChannelCommunity && channel != models.ChannelModerated {
		return models.ChatMessage{}, ErrInvalidChannel
	}
	m := models.ChatMessage{
		ID:         primitive.NewObjectID(),
		Channel:    channel,
		AuthorID:   authorID,
		AuthorName: authorName,
		Text:       text,
		CreatedAt:  time.Now().UTC(),
	}
	if _, err := s.c.InsertOne(ctx, m); err != nil {
		return models.ChatMessage{}, err
	}
	return m, nil
}

func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// Feed lists every message in the channel, oldest first. The feed is not
// capped: N writes always present N messages.
func (s *Store) Feed(channel string) live.Source[models.ChatMessage] {
	return live.MongoSource[models.ChatMessage]{
		Coll:   s.c,
		Filter: bson.M{"channel": channel},
		Sort:   bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}},
	}
}
