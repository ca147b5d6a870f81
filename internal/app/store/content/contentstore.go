// internal/app/store/content/contentstore.go
package contentstore

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/chosenvessel/vesselhub/internal/app/system/live"
	"github.com/chosenvessel/vesselhub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	ErrNotFound    = errors.New("content not found")
	ErrInvalidKind = errors.New("invalid content kind")
)

// Store reads and writes every content variant. Each kind lives in the
// collection named by ContentKind.Collection and carries its kind in the
// type field, so kinds sharing a collection stay apart.
type Store struct {
	db  *mongo.Database
	now func() time.Time
}

func New(db *mongo.Database) *Store {
	return &Store{db: db, now: func() time.Time { return time.Now().UTC() }}
}

func (s *Store) coll(kind models.ContentKind) *mongo.Collection {
	return s.db.Collection(kind.Collection())
}

// Create assigns id, kind and timestamps and inserts the item.
func (s *Store) Create(ctx context.Context, c models.Content) error {
	kind := c.Kind()
	if !kind.Valid() {
		return ErrInvalidKind
	}
	b := c.Base()
	now := s.now()
	b.ID = primitive.NewObjectID()
	b.Type = kind
	b.CreatedAt = now
	b.UpdatedAt = now
	_, err := s.coll(kind).InsertOne(ctx, c)
	return err
}

// Update overwrites every field of an existing item except id and
// created_at.
func (s *Store) Update(ctx context.Context, c models.Content) error {
	kind := c.Kind()
	b := c.Base()
	b.Type = kind
	b.UpdatedAt = s.now()

	raw, err := bson.Marshal(c)
	if err != nil {
		return err
	}
	var set bson.M
	if err := bson.Unmarshal(raw, &set); err != nil {
		return err
	}
	delete(set, "_id")
	delete(set, "created_at")

	res, err := s.coll(kind).UpdateOne(ctx,
		bson.M{"_id": b.ID, "type": kind},
		bson.M{"$set": set})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// Get loads one item of kind into its variant type.
func (s *Store) Get(ctx context.Context, kind models.ContentKind, id primitive.ObjectID) (models.Content, error) {
	c, ok := models.NewContent(kind)
	if !ok {
		return nil, ErrInvalidKind
	}
	err := s.coll(kind).FindOne(ctx, bson.M{"_id": id, "type": kind}).Decode(c)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (s *Store) Delete(ctx context.Context, kind models.ContentKind, id primitive.ObjectID) (int64, error) {
	if !kind.Valid() {
		return 0, ErrInvalidKind
	}
	res, err := s.coll(kind).DeleteOne(ctx, bson.M{"_id": id, "type": kind})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

func (s *Store) Count(ctx context.Context, kind models.ContentKind) (int64, error) {
	return s.coll(kind).CountDocuments(ctx, bson.M{"type": kind})
}

// List returns every item of kind, newest first, for the admin console.
func (s *Store) List(ctx context.Context, kind models.ContentKind) ([]models.Content, error) {
	if !kind.Valid() {
		return nil, ErrInvalidKind
	}
	cur, err := s.coll(kind).Find(ctx, bson.M{"type": kind},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []models.Content{}
	for cur.Next(ctx) {
		c, _ := models.NewContent(kind)
		if err := cur.Decode(c); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, cur.Err()
}

func find[T any](ctx context.Context, c *mongo.Collection, filter bson.M, opts *options.FindOptions) ([]T, error) {
	cur, err := c.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	out := []T{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Sermons returns recorded sermons, newest first.
func (s *Store) Sermons(ctx context.Context, limit int64) ([]models.Sermon, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	if limit > 0 {
		opts.SetLimit(limit)
	}
	return find[models.Sermon](ctx, s.coll(models.KindSermon), bson.M{"type": models.KindSermon}, opts)
}

// Events returns events in ascending date order. An empty category means all.
func (s *Store) Events(ctx context.Context, category string) ([]models.Event, error) {
	filter := bson.M{"type": models.KindEvent}
	if category != "" {
		filter["category"] = category
	}
	return find[models.Event](ctx, s.coll(models.KindEvent), filter,
		options.Find().SetSort(bson.D{{Key: "date", Value: 1}, {Key: "time", Value: 1}}))
}

// DailyBread returns the devotional dated today, else the latest by date.
// found is false when there are no devotionals at all.
func (s *Store) DailyBread(ctx context.Context, today string) (models.Devotional, bool, error) {
	c := s.coll(models.KindDevotional)
	var d models.Devotional
	err := c.FindOne(ctx, bson.M{"type": models.KindDevotional, "date": today}).Decode(&d)
	if err == nil {
		return d, true, nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return models.Devotional{}, false, err
	}
	err = c.FindOne(ctx, bson.M{"type": models.KindDevotional},
		options.FindOne().SetSort(bson.D{{Key: "date", Value: -1}})).Decode(&d)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Devotional{}, false, nil
	}
	if err != nil {
		return models.Devotional{}, false, err
	}
	return d, true, nil
}

// Devotionals returns recent devotionals by date, newest first.
func (s *Store) Devotionals(ctx context.Context, limit int64) ([]models.Devotional, error) {
	opts := options.Find().SetSort(bson.D{{Key: "date", Value: -1}})
	if limit > 0 {
		opts.SetLimit(limit)
	}
	return find[models.Devotional](ctx, s.coll(models.KindDevotional), bson.M{"type": models.KindDevotional}, opts)
}

// Kids returns Kids Kingdom items, newest first. An empty ageGroup means all.
func (s *Store) Kids(ctx context.Context, ageGroup string) ([]models.KidResource, error) {
	filter := bson.M{"type": models.KindKid}
	if ageGroup != "" {
		filter["age_group"] = ageGroup
	}
	return find[models.KidResource](ctx, s.coll(models.KindKid), filter,
		options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
}

// LibraryQuery narrows the resource library.
type LibraryQuery struct {
	Search       string // matched against title and author, case and accent folded
	ResourceType string
}

// Library returns library resources by date, newest first.
func (s *Store) Library(ctx context.Context, q LibraryQuery) ([]models.LibraryResource, error) {
	filter := bson.M{"type": models.KindResource}
	if q.ResourceType != "" {
		filter["resource_type"] = q.ResourceType
	}
	items, err := find[models.LibraryResource](ctx, s.coll(models.KindResource), filter,
		options.Find().SetSort(bson.D{{Key: "date", Value: -1}, {Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, err
	}
	needle := text.Fold(strings.TrimSpace(q.Search))
	if needle == "" {
		return items, nil
	}
	out := items[:0]
	for _, it := range items {
		if strings.Contains(text.Fold(it.Title), needle) || strings.Contains(text.Fold(it.Author), needle) {
			out = append(out, it)
		}
	}
	return out, nil
}

// AnnouncementFeed lists announcements for the given groups, newest first.
// Membership is applied in process so the change stream stays unfiltered.
func (s *Store) AnnouncementFeed(groupIDs []string) (live.Source[models.GroupAnnouncement], *live.Fallback[models.GroupAnnouncement]) {
	src := live.MongoSource[models.GroupAnnouncement]{
		Coll:   s.coll(models.KindGroupAnnouncement),
		Filter: bson.M{"type": models.KindGroupAnnouncement},
		Sort:   bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}},
	}
	member := make(map[string]bool, len(groupIDs))
	for _, id := range groupIDs {
		member[id] = true
	}
	return src, &live.Fallback[models.GroupAnnouncement]{
		Filter: func(a models.GroupAnnouncement) bool { return member[a.GroupID] },
	}
}
