// internal/app/store/identities/identitystore.go
package identitystore

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/chosenvessel/vesselhub/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"golang.org/x/crypto/bcrypt"
)

const (
	ProviderPassword = "password"
	ProviderGoogle   = "google"
)

// MinPasswordLength matches the sign-up form.
const MinPasswordLength = 6

var (
	ErrEmailTaken         = errors.New("an account with this email already exists")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrWeakPassword       = errors.New("password must be at least 6 characters")
	ErrNotFound           = errors.New("identity not found")
	ErrSamePassword       = errors.New("new password must differ from the current one")
)

// Store holds sign-in identities: who someone is, separate from their
// church profile.
type Store struct {
	c    *mongo.Collection
	cost int
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("identities"), cost: bcrypt.DefaultCost}
}

// WithCost lowers the bcrypt cost (tests).
func (s *Store) WithCost(cost int) *Store {
	s.cost = cost
	return s
}

func normalizeEmail(email string) string {
	return text.Fold(strings.TrimSpace(email))
}

// CreatePassword registers an email/password identity.
func (s *Store) CreatePassword(ctx context.Context, email, password, displayName string) (models.Identity, error) {
	if len(password) < MinPasswordLength {
		return models.Identity{}, ErrWeakPassword
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return models.Identity{}, err
	}
	id := models.Identity{
		ID:           primitive.NewObjectID(),
		Email:        strings.TrimSpace(email),
		EmailCI:      normalizeEmail(email),
		DisplayName:  strings.TrimSpace(displayName),
		Provider:     ProviderPassword,
		PasswordHash: string(hash),
		CreatedAt:    time.Now().UTC(),
	}
	if _, err := s.c.InsertOne(ctx, id); err != nil {
		if wafflemongo.IsDup(err) {
			return models.Identity{}, ErrEmailTaken
		}
		return models.Identity{}, err
	}
	return id, nil
}

// Authenticate checks an email/password pair. Unknown emails and wrong
// passwords both return ErrInvalidCredentials; found tells them apart for
// auditing.
func (s *Store) Authenticate(ctx context.Context, email, password string) (id models.Identity, found bool, err error) {
	err = s.c.FindOne(ctx, bson.M{"email_ci": normalizeEmail(email)}).Decode(&id)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Identity{}, false, ErrInvalidCredentials
	}
	if err != nil {
		return models.Identity{}, false, err
	}
	if id.PasswordHash == "" {
		return models.Identity{}, true, ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(id.PasswordHash), []byte(password)) != nil {
		return models.Identity{}, true, ErrInvalidCredentials
	}
	return id, true, nil
}

// UpsertGoogle finds the identity for a Google account, linking it to an
// existing identity with the same email, or creates one. created reports
// a new identity.
func (s *Store) UpsertGoogle(ctx context.Context, sub, email, name string) (id models.Identity, created bool, err error) {
	err = s.c.FindOne(ctx, bson.M{"google_sub": sub}).Decode(&id)
	if err == nil {
		return id, false, nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return models.Identity{}, false, err
	}

	// Link by email when a password identity already exists.
	err = s.c.FindOneAndUpdate(ctx,
		bson.M{"email_ci": normalizeEmail(email)},
		bson.M{"$set": bson.M{"google_sub": sub}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&id)
	if err == nil {
		return id, false, nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return models.Identity{}, false, err
	}

	id = models.Identity{
		ID:          primitive.NewObjectID(),
		Email:       strings.TrimSpace(email),
		EmailCI:     normalizeEmail(email),
		DisplayName: strings.TrimSpace(name),
		Provider:    ProviderGoogle,
		GoogleSub:   sub,
		CreatedAt:   time.Now().UTC(),
	}
	if _, err := s.c.InsertOne(ctx, id); err != nil {
		if wafflemongo.IsDup(err) {
			// Lost a race with a concurrent first sign-in.
			var existing models.Identity
			if ferr := s.c.FindOne(ctx, bson.M{"google_sub": sub}).Decode(&existing); ferr == nil {
				return existing, false, nil
			}
		}
		return models.Identity{}, false, err
	}
	return id, true, nil
}

func (s *Store) Get(ctx context.Context, uid string) (models.Identity, error) {
	oid, err := primitive.ObjectIDFromHex(uid)
	if err != nil {
		return models.Identity{}, ErrNotFound
	}
	var id models.Identity
	err = s.c.FindOne(ctx, bson.M{"_id": oid}).Decode(&id)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Identity{}, ErrNotFound
	}
	return id, err
}

// ChangePassword replaces the password of a password identity after
// checking the current one. Google-only identities get ErrInvalidCredentials.
func (s *Store) ChangePassword(ctx context.Context, uid, current, next string) error {
	id, err := s.Get(ctx, uid)
	if err != nil {
		return err
	}
	if id.PasswordHash == "" || bcrypt.CompareHashAndPassword([]byte(id.PasswordHash), []byte(current)) != nil {
		return ErrInvalidCredentials
	}
	if len(next) < MinPasswordLength {
		return ErrWeakPassword
	}
	if next == current {
		return ErrSamePassword
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(next), s.cost)
	if err != nil {
		return err
	}
	_, err = s.c.UpdateOne(ctx, bson.M{"_id": id.ID}, bson.M{"$set": bson.M{"password_hash": string(hash)}})
	return err
}
