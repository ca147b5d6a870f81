// internal/app/store/threads/threadstore.go
package threadstore

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

var (
	ErrNotFound       = errors.New("conversation not found")
	ErrInvalidSubject = errors.New("invalid subject")
	ErrInvalidSender  = errors.New("invalid sender")
)

// Store manages pastor conversations (pastor_interactions).
type Store struct {
	c   *mongo.Collection
	now func() time.Time
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("pastor_interactions"), now: func() time.Time { return time.Now().UTC() }}
}

// Create opens a thread with the member's first message.
func (s *Store) Create(ctx context.Context, ownerID, ownerName, subject, text string) (models.Thread, error) {
	if !models.ValidSubject(subject) {
		return models.Thread{}, ErrInvalidSubject
	}
	now := s.now()
	th := models.Thread{
		ID:        primitive.NewObjectID(),
		OwnerID:   ownerID,
		OwnerName: ownerName,
		Subject:   subject,
		Status:    models.ThreadNew,
		Messages: []models.ThreadMessage{
			{Sender: models.SenderUser, Text: text, CreatedAt: now},
		},
		CreatedAt:     now,
		LastMessageAt: now,
	}
	if _, err := s.c.InsertOne(ctx, th); err != nil {
		return models.Thread{}, err
	}
	return th, nil
}

// Append adds a message with an atomic $push, so concurrent appends from
// member and staff both survive. A staff message marks the thread
// replied; a member follow-up marks it new again. ownerID, when non-empty,
// restricts the append to that member's own thread.
func (s *Store) Append(ctx context.Context, id primitive.ObjectID, ownerID string, msg models.ThreadMessage) (models.Thread, error) {
	status := models.ThreadNew
	switch msg.Sender {
	case models.SenderUser:
	case models.SenderAdmin:
		status = models.ThreadReplied
	default:
		return models.Thread{}, ErrInvalidSender
	}
	msg.CreatedAt = s.now()

	filter := bson.M{"_id": id}
	if ownerID != "" {
		filter["owner_id"] = ownerID
	}
	update := bson.M{
		"$push": bson.M{"messages": msg},
		"$set":  bson.M{"status": status, "last_message_at": msg.CreatedAt},
	}
	var th models.Thread
	err := s.c.FindOneAndUpdate(ctx, filter, update,
		options.FindOneAndUpdate().SetReturnDocument(options.After)).Decode(&th)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Thread{}, ErrNotFound
	}
	if err != nil {
		return models.Thread{}, err
	}
	return th, nil
}

func (s *Store) Get(ctx context.Context, id primitive.ObjectID) (models.Thread, error) {
	var th models.Thread
	err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&th)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Thread{}, ErrNotFound
	}
	return th, err
}

func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

var byLastMessage = bson.D{{Key: "last_message_at", Value: -1}, {Key: "_id", Value: -1}}

// OwnerFeed is one member's threads, most recent activity first.
func (s *Store) OwnerFeed(ownerID string) live.Source[models.Thread] {
	return live.MongoSource[models.Thread]{
		Coll:   s.c,
		Filter: bson.M{"owner_id": ownerID},
		Sort:   byLastMessage,
	}
}

// InboxFeed is every thread for staff, most recent activity first. status
// filters to new or replied; "" means all. The status filter is applied in
// process so the stream query stays a single sort.
func (s *Store) InboxFeed(status string) (live.Source[models.Thread], *live.Fallback[models.Thread]) {
	src := live.MongoSource[models.Thread]{Coll: s.c, Sort: byLastMessage}
	if status == "" {
		return src, nil
	}
	return src, &live.Fallback[models.Thread]{
		Filter: func(t models.Thread) bool { return t.Status == status },
	}
}
