// internal/app/store/notifications/notificationstore.go
package notificationstore

import (
	"context"
	"errors"
	"time"

	"github.com/chosenvessel/vesselhub/internal/app/system/live"
	"github.com/chosenvessel/vesselhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var ErrInvalidSeverity = errors.New("invalid severity")

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("notifications")}
}

func (s *Store) Create(ctx context.Context, title, message, severity, createdBy string) (models.Notification, error) {
	switch severity {
	case "":
		severity = models.SeverityInfo
	case models.SeverityInfo, models.SeverityAlert, models.SeveritySuccess:
	default:
		return models.Notification{}, ErrInvalidSeverity
	}
	n := models.Notification{
		ID:        primitive.NewObjectID(),
		Title:     title,
		Message:   message,
		Severity:  severity,
		CreatedBy: createdBy,
		CreatedAt: time.Now().UTC(),
	}
	if _, err := s.c.InsertOne(ctx, n); err != nil {
		return models.Notification{}, err
	}
	return n, nil
}

func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

var newestFirst = bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}

// Latest returns the newest limit notifications.
func (s *Store) Latest(ctx context.Context, limit int64) ([]models.Notification, error) {
	cur, err := s.c.Find(ctx, bson.M{}, options.Find().SetSort(newestFirst).SetLimit(limit))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	out := []models.Notification{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Feed lists notifications newest first.
func (s *Store) Feed(limit int64) live.Source[models.Notification] {
	return live.MongoSource[models.Notification]{Coll: s.c, Sort: newestFirst, Limit: limit}
}
