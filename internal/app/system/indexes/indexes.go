// internal/app/system/indexes/indexes.go
package indexes

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

/*
EnsureAll is called at startup. Each collection's index set is reconciled
idempotently; problems are aggregated so startup can fail fast with the full
picture.
*/
func EnsureAll(ctx context.Context, db *mongo.Database) error {
	var problems []string
	for _, s := range Specs() {
		if err := ensureIndexSet(ctx, db.Collection(s.Collection), s.Models); err != nil {
			problems = append(problems, s.Collection+": "+err.Error())
		}
	}
	if len(problems) > 0 {
		return errors.New(strings.Join(problems, "; "))
	}
	return nil
}

// Spec is the desired index set of one collection.
type Spec struct {
	Collection string
	Models     []mongo.IndexModel
}

func idx(name string, keys bson.D) mongo.IndexModel {
	return mongo.IndexModel{Keys: keys, Options: options.Index().SetName(name)}
}

func uniq(name string, keys bson.D) mongo.IndexModel {
	return mongo.IndexModel{Keys: keys, Options: options.Index().SetUnique(true).SetName(name)}
}

func asc(fields ...string) bson.D {
	d := make(bson.D, 0, len(fields))
	for _, f := range fields {
		d = append(d, bson.E{Key: f, Value: 1})
	}
	return d
}

// categorySpec serves both categories and article_categories.
func categorySpec(coll, short string) Spec {
	return Spec{Collection: coll, Models: []mongo.IndexModel{
		uniq("uniq_"+short+"_slug", asc("slug")),
		uniq("uniq_"+short+"_name_ci", asc("name_ci")),
		idx("idx_"+short+"_active_order_name", asc("is_active", "order", "name")),
	}}
}

// Specs lists every collection's indexes.
func Specs() []Spec {
	return []Spec{
		{Collection: "admins", Models: []mongo.IndexModel{
			uniq("uniq_admins_email", asc("email")),
		}},
		categorySpec("categories", "categories"),
		categorySpec("article_categories", "artcat"),
		{Collection: "services", Models: []mongo.IndexModel{
			uniq("uniq_services_slug", asc("slug")),
			idx("idx_services_category_title", asc("category", "title")),
			idx("idx_services_featured_created", bson.D{{Key: "featured", Value: 1}, {Key: "created_at", Value: -1}}),
		}},
		{Collection: "articles", Models: []mongo.IndexModel{
			uniq("uniq_articles_slug", asc("slug")),
			idx("idx_articles_published_at", bson.D{{Key: "published", Value: 1}, {Key: "published_at", Value: -1}}),
			idx("idx_articles_category_published", bson.D{{Key: "category", Value: 1}, {Key: "published", Value: 1}, {Key: "published_at", Value: -1}}),
			idx("idx_articles_tags", asc("tags")),
		}},
		{Collection: "bookings", Models: []mongo.IndexModel{
			uniq("uniq_bookings_reference", asc("booking_reference")),
			idx("idx_bookings_status_created", bson.D{{Key: "status", Value: 1}, {Key: "created_at", Value: -1}}),
			idx("idx_bookings_created", bson.D{{Key: "created_at", Value: -1}}),
			idx("idx_bookings_scheduled", asc("scheduled_at")),
		}},
		{Collection: "memberships", Models: []mongo.IndexModel{
			idx("idx_memberships_order_price", asc("order", "price")),
		}},
		{Collection: "member_registrations", Models: []mongo.IndexModel{
			uniq("uniq_registrations_email", asc("email")),
			idx("idx_registrations_status_created", bson.D{{Key: "status", Value: 1}, {Key: "created_at", Value: -1}}),
			idx("idx_registrations_plan", asc("plan")),
		}},
		{Collection: "testimonials", Models: []mongo.IndexModel{
			idx("idx_testimonials_created", bson.D{{Key: "created_at", Value: -1}}),
		}},
		{Collection: "settings", Models: []mongo.IndexModel{
			uniq("uniq_settings_key", asc("key")),
		}},
		{Collection: "gallery_images", Models: []mongo.IndexModel{
			idx("idx_gallery_published_order", bson.D{{Key: "is_published", Value: 1}, {Key: "order", Value: 1}, {Key: "created_at", Value: -1}}),
			idx("idx_gallery_tags", asc("tags")),
			idx("idx_gallery_public_id", asc("public_id")),
		}},
		{Collection: "site_content", Models: []mongo.IndexModel{
			uniq("uniq_site_content_singleton", asc("singleton")),
		}},
		{Collection: "rate_limits", Models: []mongo.IndexModel{
			uniq("uniq_ratelimit_key", asc("key")),
			// drop stale lockout records after a day
			{
				Keys:    asc("last_attempt"),
				Options: options.Index().SetExpireAfterSeconds(86400).SetName("idx_ratelimit_ttl"),
			},
		}},
	}
}

/* -------------------------------------------------------------------------- */
/* Reconcile a set of desired indexes for one collection                       */
/* -------------------------------------------------------------------------- */

type existingIndex struct {
	Name   string `bson:"name"`
	Key    bson.D `bson:"key"`
	Unique *bool  `bson:"unique,omitempty"`
}

func keySig(keys bson.D) string {
	parts := make([]string, 0, len(keys))
	for _, kv := range keys {
		parts = append(parts, fmt.Sprintf("%s:%v", kv.Key, kv.Value))
	}
	return strings.Join(parts, ", ")
}

func sameBoolPtr(a, b *bool) bool {
	return (a != nil && *a) == (b != nil && *b)
}

// isDuplicateKeyErr detects E11000 across server vendors.
func isDuplicateKeyErr(err error) bool {
	if err == nil {
		return false
	}
	var we mongo.WriteException
	if errors.As(err, &we) {
		for _, e := range we.WriteErrors {
			if e.Code == 11000 {
				return true
			}
		}
	}
	var ce mongo.CommandError
	if errors.As(err, &ce) && ce.Code == 11000 {
		return true
	}
	s := err.Error()
	return strings.Contains(s, "E11000") || strings.Contains(strings.ToLower(s), "duplicate key")
}

// isOptionsConflictErr: an index with the same keys exists under a different
// name or with different options.
func isOptionsConflictErr(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(err.Error(), "IndexOptionsConflict")
}

func listIndexes(ctx context.Context, coll *mongo.Collection) map[string]existingIndex {
	existing := map[string]existingIndex{}
	cur, err := coll.Indexes().List(ctx)
	if err != nil {
		// collection may not exist yet; CreateOne will create it
		return existing
	}
	defer cur.Close(ctx)
	for cur.Next(ctx) {
		var ix existingIndex
		if err := cur.Decode(&ix); err != nil {
			zap.L().Warn("failed to decode existing index",
				zap.String("collection", coll.Name()),
				zap.Error(err))
			continue
		}
		existing[keySig(ix.Key)] = ix
	}
	return existing
}

func ensureIndexSet(ctx context.Context, coll *mongo.Collection, models []mongo.IndexModel) error {
	var errs []string
	existing := listIndexes(ctx, coll)

	for _, m := range models {
		name := ""
		var unique *bool
		if m.Options != nil {
			if m.Options.Name != nil {
				name = *m.Options.Name
			}
			unique = m.Options.Unique
		}
		sig := keySig(m.Keys.(bson.D))
		isUnique := unique != nil && *unique
		start := time.Now()

		fail := func(err error) {
			zap.L().Warn("index ensure failed",
				zap.String("collection", coll.Name()),
				zap.String("name", name),
				zap.String("keys", sig),
				zap.Error(err))
			if isDuplicateKeyErr(err) && isUnique {
				errs = append(errs, fmt.Sprintf("%s(%s): cannot create unique index (duplicates present)", coll.Name(), name))
				return
			}
			errs = append(errs, fmt.Sprintf("%s(%s): %v", coll.Name(), name, err))
		}

		if ex, ok := existing[sig]; ok {
			if sameBoolPtr(unique, ex.Unique) {
				zap.L().Debug("reusing existing index",
					zap.String("collection", coll.Name()),
					zap.String("name", ex.Name),
					zap.String("keys", sig))
				continue
			}
			// uniqueness changed: drop and recreate
			if _, err := coll.Indexes().DropOne(ctx, ex.Name); err != nil {
				fail(fmt.Errorf("drop failed: %w", err))
				continue
			}
		}

		created, err := coll.Indexes().CreateOne(ctx, m)
		if err != nil {
			if isOptionsConflictErr(err) {
				zap.L().Warn("index options conflict",
					zap.String("collection", coll.Name()),
					zap.String("name", name))
			}
			fail(err)
			continue
		}
		zap.L().Info("index ensured",
			zap.String("collection", coll.Name()),
			zap.String("name", created),
			zap.String("keys", sig),
			zap.Bool("unique", isUnique),
			zap.Duration("took", time.Since(start)))
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}
