// internal/app/store/profiles/profilestore.go
package profilestore

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"time"

	"github.com/chosenvessel/vesselhub/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	ErrNotFound    = errors.New("profile not found")
	ErrExists      = errors.New("profile already exists")
	ErrInvalidRole = errors.New("invalid role")
	ErrInvalidTier = errors.New("invalid tier")
	ErrEmptyUID    = errors.New("profile id is required")
)

// ErrSubscriptionTaken means the payment already upgraded another profile.
var ErrSubscriptionTaken = errors.New("subscription payment already used")

// Store manages member profiles in the users collection. A profile's _id
// is the identity id it belongs to.
type Store struct {
	c   *mongo.Collection
	now func() time.Time
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("users"), now: func() time.Time { return time.Now().UTC() }}
}

// Collection exposes the backing collection for live feeds.
func (s *Store) Collection() *mongo.Collection { return s.c }

func (s *Store) Get(ctx context.Context, uid string) (*models.Profile, error) {
	var p models.Profile
	err := s.c.FindOne(ctx, bson.M{"_id": uid}).Decode(&p)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Create inserts the profile written at sign-up.
func (s *Store) Create(ctx context.Context, p models.Profile) (*models.Profile, error) {
	if p.ID == "" {
		return nil, ErrEmptyUID
	}
	now := s.now()
	if p.Role == "" {
		p.Role = models.RoleMember
	}
	if p.Tier == "" {
		p.Tier = models.TierVessel
	}
	if p.Badges == nil {
		p.Badges = []string{models.BadgeNewMember}
	}
	p.CreatedAt = now
	p.LastLogin = &now
	if _, err := s.c.InsertOne(ctx, p); err != nil {
		if wafflemongo.IsDup(err) {
			return nil, ErrExists
		}
		return nil, err
	}
	return &p, nil
}

// EnsureDefault returns the profile for the identity, creating a default
// member profile badged "recovered" when none exists. It is a single
// upsert, so concurrent first sign-ins produce exactly one document.
// created reports whether this call inserted it.
func (s *Store) EnsureDefault(ctx context.Context, uid, email, displayName string) (p *models.Profile, created bool, err error) {
	if uid == "" {
		return nil, false, ErrEmptyUID
	}
	if strings.TrimSpace(displayName) == "" {
		displayName = defaultName(email)
	}
	now := s.now()
	update := bson.M{
		"$setOnInsert": bson.M{
			"display_name": displayName,
			"email":        email,
			"role":         models.RoleMember,
			"tier":         models.TierVessel,
			"badges":       []string{models.BadgeRecovered},
			"created_at":   now,
		},
		"$set": bson.M{"last_login": now},
	}
	res, err := s.c.UpdateOne(ctx, bson.M{"_id": uid}, update, options.Update().SetUpsert(true))
	if err != nil {
		// Two racing upserts can both miss and one then hits the _id index.
		if !wafflemongo.IsDup(err) {
			return nil, false, err
		}
	}
	created = res != nil && res.UpsertedCount == 1
	p, err = s.Get(ctx, uid)
	if err != nil {
		return nil, false, err
	}
	return p, created, nil
}

func defaultName(email string) string {
	if at := strings.IndexByte(email, '@'); at > 0 {
		return email[:at]
	}
	return "Vessel"
}

// TouchLogin records a sign-in time.
func (s *Store) TouchLogin(ctx context.Context, uid string) error {
	_, err := s.c.UpdateByID(ctx, uid, bson.M{"$set": bson.M{"last_login": s.now()}})
	return err
}

// SetTier writes only the tier field.
func (s *Store) SetTier(ctx context.Context, uid, tier string) error {
	if tier != models.TierVessel && tier != models.TierGoldenVessel {
		return ErrInvalidTier
	}
	return s.setField(ctx, uid, "tier", tier)
}

// SetRole writes only the role field.
func (s *Store) SetRole(ctx context.Context, uid, role string) error {
	switch role {
	case models.RoleMember, models.RoleAdmin, models.RolePastor:
	default:
		return ErrInvalidRole
	}
	return s.setField(ctx, uid, "role", role)
}

func (s *Store) setField(ctx context.Context, uid, field, value string) error {
	res, err := s.c.UpdateByID(ctx, uid, bson.M{"$set": bson.M{field: value}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// ProfileUpdate is a member's self-edit. Nil ContactInfo leaves it unchanged.
type ProfileUpdate struct {
	DisplayName string
	Bio         string
	ContactInfo *models.ContactInfo
}

func (s *Store) UpdateProfile(ctx context.Context, uid string, u ProfileUpdate) (*models.Profile, error) {
	set := bson.M{
		"display_name": u.DisplayName,
		"bio":          u.Bio,
	}
	if u.ContactInfo != nil {
		set["contact_info"] = u.ContactInfo
	}
	var p models.Profile
	err := s.c.FindOneAndUpdate(ctx, bson.M{"_id": uid}, bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After)).Decode(&p)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Upgrade records a paid subscription: tier, badge, subscription details
// and contact info in one write. subscription_id is unique across profiles,
// so a payment that already upgraded someone else fails with
// ErrSubscriptionTaken.
func (s *Store) Upgrade(ctx context.Context, uid, subscriptionID string, contact *models.ContactInfo) (*models.Profile, error) {
	set := bson.M{
		"tier":              models.TierGoldenVessel,
		"subscription_id":   subscriptionID,
		"subscription_date": s.now(),
	}
	if contact != nil {
		set["contact_info"] = contact
	}
	var p models.Profile
	err := s.c.FindOneAndUpdate(ctx, bson.M{"_id": uid},
		bson.M{"$set": set, "$addToSet": bson.M{"badges": models.BadgeGoldenVessel}},
		options.FindOneAndUpdate().SetReturnDocument(options.After)).Decode(&p)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if wafflemongo.IsDup(err) {
		return nil, ErrSubscriptionTaken
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// ListPage returns profiles newest first, skipping skip and returning at
// most limit. Callers pass paging.LimitPlusOne to detect a following page.
func (s *Store) ListPage(ctx context.Context, skip, limit int64) ([]models.Profile, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: 1}}).
		SetSkip(skip).
		SetLimit(limit)
	cur, err := s.c.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	out := []models.Profile{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Delete removes a profile. The identity remains; a later sign-in recreates
// a default profile through EnsureDefault.
func (s *Store) Delete(ctx context.Context, uid string) (int64, error) {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": uid})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

func (s *Store) Count(ctx context.Context) (int64, error) {
	return s.c.CountDocuments(ctx, bson.M{})
}

// PromoteByEmail grants the admin role to every profile whose email matches,
// ignoring case. It returns how many profiles changed.
func (s *Store) PromoteByEmail(ctx context.Context, email string) (int64, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return 0, nil
	}
	filter := bson.M{
		"email": primitive.Regex{Pattern: "^" + regexp.QuoteMeta(email) + "$", Options: "i"},
		"role":  bson.M{"$ne": models.RoleAdmin},
	}
	res, err := s.c.UpdateMany(ctx, filter, bson.M{"$set": bson.M{"role": models.RoleAdmin}})
	if err != nil {
		return 0, err
	}
	return res.ModifiedCount, nil
}
