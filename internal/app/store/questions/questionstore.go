// internal/app/store/questions/questionstore.go
package questionstore

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

var ErrNotFound = errors.New("question not found")

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("questions")}
}

// Submit records a pending question.
func (s *Store) Submit(ctx context.Context, uid, userName, content string, public bool) (models.Question, error) {
	q := models.Question{
		ID:        primitive.NewObjectID(),
		UserID:    uid,
		UserName:  userName,
		Content:   content,
		IsPublic:  public,
		Status:    models.QuestionPending,
		CreatedAt: time.Now().UTC(),
	}
	if _, err := s.c.InsertOne(ctx, q); err != nil {
		return models.Question{}, err
	}
	return q, nil
}

// Answer sets the answer and marks the question answered. Answering again
// replaces the previous answer.
func (s *Store) Answer(ctx context.Context, id primitive.ObjectID, answer string) (models.Question, error) {
	now := time.Now().UTC()
	var q models.Question
	err := s.c.FindOneAndUpdate(ctx, bson.M{"_id": id},
		bson.M{"$set": bson.M{"answer": answer, "status": models.QuestionAnswered, "answered_at": now}},
		options.FindOneAndUpdate().SetReturnDocument(options.After)).Decode(&q)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Question{}, ErrNotFound
	}
	if err != nil {
		return models.Question{}, err
	}
	return q, nil
}

func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

var newestFirst = bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}

// MineFeed lists the member's own questions, newest first.
func (s *Store) MineFeed(uid string) live.Source[models.Question] {
	return live.MongoSource[models.Question]{Coll: s.c, Filter: bson.M{"user_id": uid}, Sort: newestFirst}
}

// CommunityFeed lists public answered questions, newest first.
func (s *Store) CommunityFeed() live.Source[models.Question] {
	return live.MongoSource[models.Question]{
		Coll:   s.c,
		Filter: bson.M{"is_public": true, "status": models.QuestionAnswered},
		Sort:   newestFirst,
	}
}

// List returns questions for staff, pending ones first, then newest first.
func (s *Store) List(ctx context.Context) ([]models.Question, error) {
	cur, err := s.c.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{
		{Key: "status", Value: -1}, // pending sorts after answered ascending
		{Key: "created_at", Value: -1},
	}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	out := []models.Question{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}
