// internal/app/store/notes/notestore.go
package notestore

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

var ErrNotFound = errors.New("note not found")

// Store manages private sermon notes. Every write is scoped to the owner.
type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("sermon_notes")}
}

func (s *Store) Create(ctx context.Context, uid, title, content, sermonDate string) (models.SermonNote, error) {
	now := time.Now().UTC()
	n := models.SermonNote{
		ID:         primitive.NewObjectID(),
		UserID:     uid,
		Title:      title,
		Content:    content,
		SermonDate: sermonDate,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if _, err := s.c.InsertOne(ctx, n); err != nil {
		return models.SermonNote{}, err
	}
	return n, nil
}

func (s *Store) Update(ctx context.Context, uid string, id primitive.ObjectID, title, content, sermonDate string) error {
	res, err := s.c.UpdateOne(ctx, bson.M{"_id": id, "user_id": uid}, bson.M{"$set": bson.M{
		"title":       title,
		"content":     content,
		"sermon_date": sermonDate,
		"updated_at":  time.Now().UTC(),
	}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) Get(ctx context.Context, uid string, id primitive.ObjectID) (models.SermonNote, error) {
	var n models.SermonNote
	err := s.c.FindOne(ctx, bson.M{"_id": id, "user_id": uid}).Decode(&n)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.SermonNote{}, ErrNotFound
	}
	return n, err
}

func (s *Store) Delete(ctx context.Context, uid string, id primitive.ObjectID) error {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id, "user_id": uid})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// Feed lists the member's notes, newest first.
func (s *Store) Feed(uid string) live.Source[models.SermonNote] {
	return live.MongoSource[models.SermonNote]{
		Coll:   s.c,
		Filter: bson.M{"user_id": uid},
		Sort:   bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}},
	}
}
