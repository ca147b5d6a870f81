// internal/app/store/assessments/assessmentstore.go
package assessmentstore

import (
	"context"
	"errors"
	"time"

	"github.com/chosenvessel/vesselhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var ErrNotFound = errors.New("assessment not found")

// Store keeps one spiritual gifts result per member.
type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("assessments")}
}

// Save scores answers and overwrites the member's previous result.
func (s *Store) Save(ctx context.Context, uid string, answers []int) (models.Assessment, error) {
	scores, top, err := Score(answers)
	if err != nil {
		return models.Assessment{}, err
	}
	a := models.Assessment{
		UserID:      uid,
		Type:        models.AssessmentSpiritualGifts,
		Scores:      scores,
		TopGifts:    top,
		CompletedAt: time.Now().UTC(),
	}
	_, err = s.c.ReplaceOne(ctx, bson.M{"_id": uid}, a, options.Replace().SetUpsert(true))
	if err != nil {
		return models.Assessment{}, err
	}
	return a, nil
}

func (s *Store) Get(ctx context.Context, uid string) (models.Assessment, error) {
	var a models.Assessment
	err := s.c.FindOne(ctx, bson.M{"_id": uid}).Decode(&a)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Assessment{}, ErrNotFound
	}
	return a, err
}
