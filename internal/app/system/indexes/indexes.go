// internal/app/system/indexes/indexes.go
package indexes

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// Set is the desired index list for one collection.
type Set struct {
	Collection string
	Models     []mongo.IndexModel
}

/*
EnsureAll is called at startup from EnsureSchema. Each set is reconciled
idempotently; problems are aggregated so startup fails with the full list.
*/
func EnsureAll(ctx context.Context, db *mongo.Database, logger *zap.Logger) error {
	if logger == nil {
		logger = zap.NewNop()
	}
	var problems []string
	for _, s := range Sets() {
		if err := ensureIndexSet(ctx, db.Collection(s.Collection), s.Models, logger); err != nil {
			problems = append(problems, s.Collection+": "+err.Error())
		}
	}
	if len(problems) > 0 {
		return errors.New(strings.Join(problems, "; "))
	}
	return nil
}

/* -------------------------------------------------------------------------- */
/* Reconcile                                                                  */
/* -------------------------------------------------------------------------- */

type existingIndex struct {
	Name        string `bson:"name"`
	Key         bson.D `bson:"key"`
	Unique      *bool  `bson:"unique,omitempty"`
	ExpireAfter *int32 `bson:"expireAfterSeconds,omitempty"`
}

func keySig(keys bson.D) string {
	parts := make([]string, 0, len(keys))
	for _, kv := range keys {
		parts = append(parts, fmt.Sprintf("%s:%v", kv.Key, kv.Value))
	}
	return strings.Join(parts, ", ")
}

func boolOf(b *bool) bool { return b != nil && *b }

func ttlOf(i *int32) int32 {
	if i == nil {
		return -1
	}
	return *i
}

type desired struct {
	name   string
	sig    string
	unique bool
	ttl    int32
}

func describe(m mongo.IndexModel) desired {
	d := desired{sig: keySig(m.Keys.(bson.D)), ttl: -1}
	if m.Options != nil {
		if m.Options.Name != nil {
			d.name = *m.Options.Name
		}
		d.unique = boolOf(m.Options.Unique)
		if m.Options.ExpireAfterSeconds != nil {
			d.ttl = *m.Options.ExpireAfterSeconds
		}
	}
	return d
}

func listExisting(ctx context.Context, coll *mongo.Collection, logger *zap.Logger) map[string]existingIndex {
	out := map[string]existingIndex{}
	cur, err := coll.Indexes().List(ctx)
	if err != nil {
		// A missing collection has no indexes yet.
		return out
	}
	defer cur.Close(ctx)
	for cur.Next(ctx) {
		var idx existingIndex
		if err := cur.Decode(&idx); err != nil {
			logger.Warn("failed to decode existing index",
				zap.String("collection", coll.Name()),
				zap.Error(err))
			continue
		}
		out[keySig(idx.Key)] = idx
	}
	return out
}

func ensureIndexSet(ctx context.Context, coll *mongo.Collection, models []mongo.IndexModel, logger *zap.Logger) error {
	var errs []string
	existing := listExisting(ctx, coll, logger)

	for _, m := range models {
		d := describe(m)
		start := time.Now()
		log := logger.With(
			zap.String("collection", coll.Name()),
			zap.String("name", d.name),
			zap.String("keys", d.sig))

		if ex, ok := existing[d.sig]; ok {
			sameOpts := boolOf(ex.Unique) == d.unique && ttlOf(ex.ExpireAfter) == d.ttl
			if sameOpts && (d.name == "" || ex.Name == d.name) {
				log.Debug("reusing existing index")
				continue
			}
			// Same keys, different name or options: drop and recreate.
			if _, err := coll.Indexes().DropOne(ctx, ex.Name); err != nil {
				log.Warn("drop existing index failed", zap.String("existing", ex.Name), zap.Error(err))
				errs = append(errs, fmt.Sprintf("%s: drop %s failed: %v", d.name, ex.Name, err))
				continue
			}
		}

		if _, err := coll.Indexes().CreateOne(ctx, m); err != nil {
			if wafflemongo.IsDup(err) && d.unique {
				errs = append(errs, fmt.Sprintf("%s: cannot create unique index (duplicates present)", d.name))
			} else {
				errs = append(errs, fmt.Sprintf("%s: %v", d.name, err))
			}
			log.Warn("index ensure failed", zap.Error(err))
			continue
		}
		log.Info("index ensured",
			zap.Bool("unique", d.unique),
			zap.Duration("took", time.Since(start)))
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

/* -------------------------------------------------------------------------- */
/* Collection index sets                                                      */
/* -------------------------------------------------------------------------- */

func idx(name string, keys bson.D) mongo.IndexModel {
	return mongo.IndexModel{Keys: keys, Options: options.Index().SetName(name)}
}

func uniq(name string, keys bson.D) mongo.IndexModel {
	return mongo.IndexModel{Keys: keys, Options: options.Index().SetName(name).SetUnique(true)}
}

// Sets lists every collection's desired indexes.
func Sets() []Set {
	return []Set{
		{"identities", []mongo.IndexModel{
			uniq("uniq_identities_email_ci", bson.D{{Key: "email_ci", Value: 1}}),
			{
				Keys: bson.D{{Key: "google_sub", Value: 1}},
				Options: options.Index().SetName("uniq_identities_google_sub").SetUnique(true).
					SetPartialFilterExpression(bson.M{"google_sub": bson.M{"$type": "string"}}),
			},
		}},
		{"users", []mongo.IndexModel{
			idx("idx_users_role", bson.D{{Key: "role", Value: 1}}),
			idx("idx_users_created", bson.D{{Key: "created_at", Value: -1}}),
			{
				Keys: bson.D{{Key: "subscription_id", Value: 1}},
				Options: options.Index().SetName("uniq_users_subscription").SetUnique(true).
					SetPartialFilterExpression(bson.M{"subscription_id": bson.M{"$type": "string"}}),
			},
		}},
		{"pastor_interactions", []mongo.IndexModel{
			idx("idx_threads_owner_last", bson.D{{Key: "owner_id", Value: 1}, {Key: "last_message_at", Value: -1}}),
			idx("idx_threads_status_last", bson.D{{Key: "status", Value: 1}, {Key: "last_message_at", Value: -1}}),
			idx("idx_threads_last", bson.D{{Key: "last_message_at", Value: -1}}),
		}},
		{"prayers", []mongo.IndexModel{
			idx("idx_prayers_visibility_created", bson.D{{Key: "visibility", Value: 1}, {Key: "created_at", Value: -1}}),
			idx("idx_prayers_author_created", bson.D{{Key: "author_id", Value: 1}, {Key: "created_at", Value: -1}}),
		}},
		{"groups", []mongo.IndexModel{
			idx("idx_groups_members", bson.D{{Key: "members", Value: 1}}),
		}},
		{"community_messages", []mongo.IndexModel{
			idx("idx_chat_channel_created", bson.D{{Key: "channel", Value: 1}, {Key: "created_at", Value: 1}}),
		}},
		{"notifications", []mongo.IndexModel{
			idx("idx_notifications_created", bson.D{{Key: "created_at", Value: -1}}),
		}},
		{"content", []mongo.IndexModel{
			idx("idx_content_type_created", bson.D{{Key: "type", Value: 1}, {Key: "created_at", Value: -1}}),
			idx("idx_content_group_created", bson.D{{Key: "group_id", Value: 1}, {Key: "created_at", Value: -1}}),
		}},
		{"events", []mongo.IndexModel{
			idx("idx_events_date", bson.D{{Key: "date", Value: 1}}),
		}},
		{"devotionals", []mongo.IndexModel{
			idx("idx_devotionals_date", bson.D{{Key: "date", Value: -1}}),
		}},
		{"kids_content", []mongo.IndexModel{
			idx("idx_kids_age_created", bson.D{{Key: "age_group", Value: 1}, {Key: "created_at", Value: -1}}),
		}},
		{"resources", []mongo.IndexModel{
			idx("idx_resources_date", bson.D{{Key: "date", Value: -1}}),
		}},
		{"donations", []mongo.IndexModel{
			idx("idx_donations_user_created", bson.D{{Key: "user_id", Value: 1}, {Key: "created_at", Value: -1}}),
			{
				Keys: bson.D{{Key: "transaction_id", Value: 1}},
				Options: options.Index().SetName("uniq_donations_txn").SetUnique(true).
					SetPartialFilterExpression(bson.M{"transaction_id": bson.M{"$type": "string"}}),
			},
			idx("idx_donations_order", bson.D{{Key: "order_id", Value: 1}}),
		}},
		{"questions", []mongo.IndexModel{
			idx("idx_questions_user_created", bson.D{{Key: "user_id", Value: 1}, {Key: "created_at", Value: -1}}),
			idx("idx_questions_public_status_created", bson.D{{Key: "is_public", Value: 1}, {Key: "status", Value: 1}, {Key: "created_at", Value: -1}}),
		}},
		{"sermon_notes", []mongo.IndexModel{
			idx("idx_notes_user_created", bson.D{{Key: "user_id", Value: 1}, {Key: "created_at", Value: -1}}),
		}},
		{"oauth_states", []mongo.IndexModel{
			uniq("idx_oauth_state", bson.D{{Key: "state", Value: 1}}),
			{
				Keys:    bson.D{{Key: "expires_at", Value: 1}},
				Options: options.Index().SetExpireAfterSeconds(0).SetName("idx_oauth_ttl"),
			},
		}},
		{"audit_events", []mongo.IndexModel{
			idx("idx_audit_timestamp", bson.D{{Key: "timestamp", Value: -1}}),
			idx("idx_audit_category_timestamp", bson.D{{Key: "category", Value: 1}, {Key: "timestamp", Value: -1}}),
			idx("idx_audit_user_timestamp", bson.D{{Key: "user_id", Value: 1}, {Key: "timestamp", Value: -1}}),
		}},
	}
}
