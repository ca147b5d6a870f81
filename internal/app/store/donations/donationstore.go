// internal/app/store/donations/donationstore.go
package donationstore

import (
	"context"
	"errors"
	"time"

	"github.com/chosenvessel/vesselhub/internal/app/system/live"
	"github.com/chosenvessel/vesselhub/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ErrDuplicate means the transaction id was already recorded.
var ErrDuplicate = errors.New("donation already recorded")

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("donations")}
}

// Record writes a confirmed donation. The unique transaction index makes
// a replayed capture fail with ErrDuplicate instead of double-counting.
func (s *Store) Record(ctx context.Context, d models.Donation) (models.Donation, error) {
	d.ID = primitive.NewObjectID()
	if d.UserID == "" {
		d.UserID = models.AnonymousUser
	}
	if d.Currency == "" {
		d.Currency = "USD"
	}
	d.Type = models.NormalizeDonationType(d.Type)
	d.CreatedAt = time.Now().UTC()
	if _, err := s.c.InsertOne(ctx, d); err != nil {
		if wafflemongo.IsDup(err) {
			return models.Donation{}, ErrDuplicate
		}
		return models.Donation{}, err
	}
	return d, nil
}

// PaymentUsed reports whether a donation was already recorded for the
// order or the transaction. Empty ids never match.
func (s *Store) PaymentUsed(ctx context.Context, orderID, transactionID string) (bool, error) {
	var or []bson.M
	if orderID != "" {
		or = append(or, bson.M{"order_id": orderID})
	}
	if transactionID != "" {
		or = append(or, bson.M{"transaction_id": transactionID})
	}
	if len(or) == 0 {
		return false, nil
	}
	n, err := s.c.CountDocuments(ctx, bson.M{"$or": or}, options.Count().SetLimit(1))
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// HistoryFeed lists one member's donations, newest first. Ordering is
// applied in process so the query needs only the user index.
func (s *Store) HistoryFeed(uid string) (live.Source[models.Donation], *live.Fallback[models.Donation]) {
	src := live.MongoSource[models.Donation]{Coll: s.c, Filter: bson.M{"user_id": uid}}
	return src, &live.Fallback[models.Donation]{
		Less: func(a, b models.Donation) bool { return a.CreatedAt.After(b.CreatedAt) },
	}
}

// TypeTotal is the sum given to one donation type.
type TypeTotal struct {
	Type   string
	Amount float64
	Count  int
}

// Summary totals a donation history.
type Summary struct {
	Total  float64
	Count  int
	ByType []TypeTotal // in models.DonationTypes order, zero types omitted
}

// Summarize totals donations and breaks them down by type.
func Summarize(items []models.Donation) Summary {
	sums := map[string]*TypeTotal{}
	var sum Summary
	for _, d := range items {
		sum.Total += d.Amount
		sum.Count++
		t := models.NormalizeDonationType(d.Type)
		tt, ok := sums[t]
		if !ok {
			tt = &TypeTotal{Type: t}
			sums[t] = tt
		}
		tt.Amount += d.Amount
		tt.Count++
	}
	for _, t := range models.DonationTypes {
		if tt, ok := sums[t]; ok {
			sum.ByType = append(sum.ByType, *tt)
		}
	}
	return sum
}
