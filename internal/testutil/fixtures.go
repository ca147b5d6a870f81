package testutil

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/chosenvessel/vesselhub/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// WithChiURLParam adds a chi URL parameter to the request context.
func WithChiURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.RouteContext(r.Context())
	if rctx == nil {
		rctx = chi.NewRouteContext()
	}
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// Fixtures inserts documents directly, bypassing the stores under test.
type Fixtures struct {
	db *mongo.Database
	t  *testing.T
}

func NewFixtures(t *testing.T, db *mongo.Database) *Fixtures {
	t.Helper()
	return &Fixtures{db: db, t: t}
}

func (f *Fixtures) DB() *mongo.Database { return f.db }

func (f *Fixtures) insert(ctx context.Context, coll string, doc any) {
	f.t.Helper()
	if _, err := f.db.Collection(coll).InsertOne(ctx, doc); err != nil {
		f.t.Fatalf("insert into %s: %v", coll, err)
	}
}

// CreateProfile inserts a profile with the given role and tier.
func (f *Fixtures) CreateProfile(ctx context.Context, name, role, tier string) models.Profile {
	f.t.Helper()
	p := models.Profile{
		ID:          primitive.NewObjectID().Hex(),
		DisplayName: name,
		Email:       name + "@example.com",
		Role:        role,
		Tier:        tier,
		Badges:      []string{models.BadgeNewMember},
		CreatedAt:   time.Now().UTC(),
	}
	f.insert(ctx, "users", p)
	return p
}

// CreatePrayer inserts a prayer request.
func (f *Fixtures) CreatePrayer(ctx context.Context, authorID, content, visibility string, at time.Time) models.PrayerRequest {
	f.t.Helper()
	p := models.PrayerRequest{
		ID:         primitive.NewObjectID(),
		AuthorID:   authorID,
		AuthorName: "Member",
		Content:    content,
		Category:   models.DefaultPrayerCategory,
		Visibility: visibility,
		CreatedAt:  at.UTC(),
	}
	f.insert(ctx, "prayers", p)
	return p
}

// CreateNotification inserts a site notification.
func (f *Fixtures) CreateNotification(ctx context.Context, title string, at time.Time) models.Notification {
	f.t.Helper()
	n := models.Notification{
		ID:        primitive.NewObjectID(),
		Title:     title,
		Message:   title + " message",
		Severity:  models.SeverityInfo,
		CreatedBy: "admin",
		CreatedAt: at.UTC(),
	}
	f.insert(ctx, "notifications", n)
	return n
}

// CreateThread inserts a pastor thread with one member message.
func (f *Fixtures) CreateThread(ctx context.Context, ownerID, subject, text string) models.Thread {
	f.t.Helper()
	now := time.Now().UTC()
	th := models.Thread{
		ID:        primitive.NewObjectID(),
		OwnerID:   ownerID,
		OwnerName: "Member",
		Subject:   subject,
		Status:    models.ThreadNew,
		Messages: []models.ThreadMessage{
			{Sender: models.SenderUser, Text: text, CreatedAt: now},
		},
		CreatedAt:     now,
		LastMessageAt: now,
	}
	f.insert(ctx, "pastor_interactions", th)
	return th
}
