package live

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoSource queries one collection and watches it with a change stream.
// Change streams need a replica set (a single-node set is enough).
type MongoSource[T any] struct {
	Coll   *mongo.Collection
	Filter bson.M
	Sort   bson.D
	Limit  int64
	// Match narrows the change stream, e.g. bson.D{{Key: "fullDocument.owner_id", Value: uid}}.
	// Deletes carry no fullDocument, so leave it empty for feeds that show deletions.
	Match bson.D
}

// Query runs the find with the configured filter, sort and limit.
func (m MongoSource[T]) Query(ctx context.Context) ([]T, error) {
	filter := m.Filter
	if filter == nil {
		filter = bson.M{}
	}
	opts := options.Find()
	if len(m.Sort) > 0 {
		opts.SetSort(m.Sort)
	}
	if m.Limit > 0 {
		opts.SetLimit(m.Limit)
	}

	cur, err := m.Coll.Find(ctx, filter, opts)
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

// Watch opens a change stream on the collection.
func (m MongoSource[T]) Watch(ctx context.Context) (Stream, error) {
	pipeline := mongo.Pipeline{}
	if len(m.Match) > 0 {
		pipeline = append(pipeline, bson.D{{Key: "$match", Value: m.Match}})
	}
	cs, err := m.Coll.Watch(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	return cs, nil
}
