// internal/app/store/groups/groupstore.go
package groupstore

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/chosenvessel/vesselhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var ErrNotFound = errors.New("group not found")

// Store keeps group membership and admin overrides. Groups without a
// document fall back to the built-in seed definition.
type Store struct {
	c    *mongo.Collection
	seed []models.Group
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("groups"), seed: models.SeedGroups}
}

func (s *Store) seedByID(id string) (models.Group, bool) {
	for _, g := range s.seed {
		if g.ID == id {
			return g, true
		}
	}
	return models.Group{}, false
}

// merge lays a stored document over its seed. Empty stored fields keep the
// seed value; members always come from the store.
func merge(seed, stored models.Group) models.Group {
	out := seed
	if stored.Name != "" {
		out.Name = stored.Name
	}
	if stored.Description != "" {
		out.Description = stored.Description
	}
	if stored.Category != "" {
		out.Category = stored.Category
	}
	if stored.MeetDay != "" {
		out.MeetDay = stored.MeetDay
	}
	if stored.MeetTime != "" {
		out.MeetTime = stored.MeetTime
	}
	if stored.Location != "" {
		out.Location = stored.Location
	}
	if stored.Leader != "" {
		out.Leader = stored.Leader
	}
	out.Members = stored.Members
	out.UpdatedAt = stored.UpdatedAt
	return out
}

// List returns the seed groups merged with stored documents, followed by
// any admin-created groups in name order.
func (s *Store) List(ctx context.Context) ([]models.Group, error) {
	cur, err := s.c.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var stored []models.Group
	if err := cur.All(ctx, &stored); err != nil {
		return nil, err
	}
	byID := make(map[string]models.Group, len(stored))
	for _, g := range stored {
		byID[g.ID] = g
	}

	out := make([]models.Group, 0, len(s.seed)+len(stored))
	for _, sg := range s.seed {
		if g, ok := byID[sg.ID]; ok {
			out = append(out, merge(sg, g))
			delete(byID, sg.ID)
			continue
		}
		out = append(out, sg)
	}
	extra := make([]models.Group, 0, len(byID))
	for _, g := range byID {
		extra = append(extra, g)
	}
	sort.Slice(extra, func(i, j int) bool { return extra[i].Name < extra[j].Name })
	return append(out, extra...), nil
}

// Get returns one group merged with its seed.
func (s *Store) Get(ctx context.Context, id string) (models.Group, error) {
	var g models.Group
	err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&g)
	seed, seeded := s.seedByID(id)
	switch {
	case errors.Is(err, mongo.ErrNoDocuments):
		if seeded {
			return seed, nil
		}
		return models.Group{}, ErrNotFound
	case err != nil:
		return models.Group{}, err
	}
	if seeded {
		return merge(seed, g), nil
	}
	return g, nil
}

// Join adds uid to the member set. Joining twice leaves one entry. The
// returned group is the stored document after the write.
func (s *Store) Join(ctx context.Context, id, uid string) (models.Group, error) {
	return s.updateMembers(ctx, id, bson.M{"$addToSet": bson.M{"members": uid}})
}

// Leave removes uid from the member set.
func (s *Store) Leave(ctx context.Context, id, uid string) (models.Group, error) {
	return s.updateMembers(ctx, id, bson.M{"$pull": bson.M{"members": uid}})
}

func (s *Store) updateMembers(ctx context.Context, id string, update bson.M) (models.Group, error) {
	seed, seeded := s.seedByID(id)
	update["$set"] = bson.M{"updated_at": time.Now().UTC()}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	if seeded {
		// First membership change on a seed group creates its document.
		opts.SetUpsert(true)
	}

	var g models.Group
	err := s.c.FindOneAndUpdate(ctx, bson.M{"_id": id}, update, opts).Decode(&g)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Group{}, ErrNotFound
	}
	if err != nil {
		return models.Group{}, err
	}
	if seeded {
		return merge(seed, g), nil
	}
	return g, nil
}

// MemberOf returns the ids of groups uid belongs to.
func (s *Store) MemberOf(ctx context.Context, uid string) ([]string, error) {
	cur, err := s.c.Find(ctx, bson.M{"members": uid},
		options.Find().SetProjection(bson.M{"_id": 1}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var rows []struct {
		ID string `bson:"_id"`
	}
	if err := cur.All(ctx, &rows); err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(rows))
	for _, r := range rows {
		ids = append(ids, r.ID)
	}
	return ids, nil
}
