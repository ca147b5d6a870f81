// internal/app/store/prayers/prayerstore.go
package prayerstore

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

var (
	ErrNotFound          = errors.New("prayer request not found")
	ErrInvalidVisibility = errors.New("invalid visibility")
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("prayers")}
}

// NewRequest is the input for Create. Tier checks for private visibility
// belong to the caller.
type NewRequest struct {
	AuthorID   string
	AuthorName string
	Content    string
	Category   string
	Visibility string
	Anonymous  bool
}

func (s *Store) Create(ctx context.Context, in NewRequest) (models.PrayerRequest, error) {
	if in.Visibility == "" {
		in.Visibility = models.VisibilityPublic
	}
	if in.Visibility != models.VisibilityPublic && in.Visibility != models.VisibilityPrivate {
		return models.PrayerRequest{}, ErrInvalidVisibility
	}
	if in.Category == "" {
		in.Category = models.DefaultPrayerCategory
	}
	name := in.AuthorName
	if in.Anonymous {
		name = models.AnonymousAuthor
	}
	p := models.PrayerRequest{
		ID:         primitive.NewObjectID(),
		AuthorID:   in.AuthorID,
		AuthorName: name,
		Content:    in.Content,
		Category:   in.Category,
		Visibility: in.Visibility,
		Anonymous:  in.Anonymous,
		CreatedAt:  time.Now().UTC(),
	}
	if _, err := s.c.InsertOne(ctx, p); err != nil {
		return models.PrayerRequest{}, err
	}
	return p, nil
}

// IncrementPrayed bumps prayed_count by one. The count never decreases.
func (s *Store) IncrementPrayed(ctx context.Context, id primitive.ObjectID) error {
	res, err := s.c.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$inc": bson.M{"prayed_count": 1}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) Get(ctx context.Context, id primitive.ObjectID) (models.PrayerRequest, error) {
	var p models.PrayerRequest
	err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&p)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.PrayerRequest{}, ErrNotFound
	}
	return p, err
}

func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

func (s *Store) Count(ctx context.Context) (int64, error) {
	return s.c.CountDocuments(ctx, bson.M{})
}

var newestFirst = bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}

// WallFeed lists public requests plus the viewer's own private ones,
// newest first. The $or over visibility and author is evaluated in
// process and the limit applied after it, so the result matches the
// compound query. Anonymous requests are emitted without their author id.
func (s *Store) WallFeed(viewerID string, limit int64) (live.Source[models.PrayerRequest], *live.Fallback[models.PrayerRequest]) {
	src := live.MongoSource[models.PrayerRequest]{Coll: s.c, Sort: newestFirst}
	return src, &live.Fallback[models.PrayerRequest]{
		Filter: func(p models.PrayerRequest) bool { return p.VisibleTo(viewerID) },
		Max:    int(limit),
		Map:    models.PrayerRequest.ForWall,
	}
}

// AdminFeed lists every request, newest first.
func (s *Store) AdminFeed() live.Source[models.PrayerRequest] {
	return live.MongoSource[models.PrayerRequest]{Coll: s.c, Sort: newestFirst}
}
