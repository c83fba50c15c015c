// internal/app/system/validators/validators.go
package validators

import (
	"context"
	"errors"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// EnsureAll creates every collection (if missing) and attaches its
// JSON-Schema validator. Servers without collMod/validator support (some
// DocumentDB versions) are logged and skipped.
func EnsureAll(ctx context.Context, db *mongo.Database) error {
	var problems []string

	// helper: ensure collection exists (with truthful logging) and then validator (if provided)
	ensure := func(coll string, schema bson.M) {
		if _, err := ensureCollection(ctx, db, coll); err != nil {
			problems = append(problems, coll+": "+err.Error())
			return
		}
		if schema == nil {
			return
		}
		if err := setValidator(ctx, db, coll, schema); err != nil {
			// DocumentDB or other deployments may not support collMod/validators.
			if isNoSuchCommand(err) || isNotImplemented(err) {
				zap.L().Info("validator skipped (unsupported)", zap.String("collection", coll))
				return
			}
			problems = append(problems, coll+": "+err.Error())
		}
	}

	for _, coll := range Collections() {
		ensure(coll.Name, coll.Schema)
	}

	if len(problems) > 0 {
		return errors.New(strings.Join(problems, "; "))
	}
	return nil
}

/* ---------------------- collection helpers & logging ---------------------- */

// collectionExists returns true when <name> already exists.
// Uses ListCollectionNames to avoid "created collection" log when it didn't.
func collectionExists(ctx context.Context, db *mongo.Database, name string) (bool, error) {
	names, err := db.ListCollectionNames(ctx, bson.M{})
	if err != nil {
		return false, err
	}
	for _, n := range names {
		if n == name {
			return true, nil
		}
	}
	return false, nil
}

// ensureCollection idempotently makes sure <name> exists.
// Returns created==true only if we actually created it.
func ensureCollection(ctx context.Context, db *mongo.Database, name string) (created bool, err error) {
	exists, listErr := collectionExists(ctx, db, name)
	if listErr == nil && exists {
		zap.L().Info("collection exists", zap.String("collection", name))
		return false, nil
	}
	// If listing failed, fall back to create-and-handle-race.
	if err := db.CreateCollection(ctx, name); err != nil {
		// NamespaceExists / already exists is fine (race or prior run).
		if isNamespaceExistsErr(err) {
			zap.L().Info("collection exists", zap.String("collection", name))
			return false, nil
		}
		zap.L().Warn("createCollection failed", zap.String("collection", name), zap.Error(err))
		return false, err
	}
	zap.L().Info("created collection", zap.String("collection", name))
	return true, nil
}

/* ------------------------------ validators ------------------------------- */

func setValidator(ctx context.Context, db *mongo.Database, name string, validator bson.M) error {
	cmd := bson.D{
		{Key: "collMod", Value: name},
		{Key: "validator", Value: validator},
		{Key: "validationLevel", Value: "moderate"},
		{Key: "validationAction", Value: "error"},
	}
	var out bson.M
	if err := db.RunCommand(ctx, cmd).Decode(&out); err != nil {
		return err
	}
	zap.L().Info("validator ensured", zap.String("collection", name))
	return nil
}

/* ------------------------- error helpers ------------------------- */

func isNamespaceExistsErr(err error) bool {
	if err == nil {
		return false
	}
	var ce mongo.CommandError
	if errors.As(err, &ce) && (ce.Code == 48 || strings.Contains(strings.ToLower(ce.Message), "already exists")) {
		return true
	}
	s := strings.ToLower(err.Error())
	return strings.Contains(s, "already exists") || strings.Contains(s, "namespace exists")
}

func isNoSuchCommand(err error) bool {
	if err == nil {
		return false
	}
	var ce mongo.CommandError
	if errors.As(err, &ce) && (ce.Code == 59 || strings.Contains(strings.ToLower(ce.Message), "no such command")) {
		return true
	}
	return strings.Contains(strings.ToLower(err.Error()), "no such command")
}

func isNotImplemented(err error) bool {
	if err == nil {
		return false
	}
	var ce mongo.CommandError
	if errors.As(err, &ce) && (ce.Code == 115 ||
		strings.Contains(strings.ToLower(ce.Message), "not implemented") ||
		strings.Contains(strings.ToLower(ce.Message), "not supported")) {
		return true
	}
	s := strings.ToLower(err.Error())
	return strings.Contains(s, "not implemented") || strings.Contains(s, "not supported")
}

/* ------------------------- JSON-Schema docs ---------------------- */

// Collection pairs a collection name with its validator (nil for none).
type Collection struct {
	Name   string
	Schema bson.M
}

// Collections lists every collection the backend owns.
func Collections() []Collection {
	return []Collection{
		{"admins", adminsSchema()},
		{"categories", categorySchema()},
		{"article_categories", categorySchema()},
		{"services", servicesSchema()},
		{"articles", articlesSchema()},
		{"bookings", bookingsSchema()},
		{"memberships", membershipsSchema()},
		{"member_registrations", registrationsSchema()},
		{"testimonials", testimonialsSchema()},
		{"settings", settingsSchema()},
		{"gallery_images", gallerySchema()},
		{"site_content", siteContentSchema()},
		{"rate_limits", nil},
	}
}

var (
	nonBlank = bson.M{"bsonType": "string", "minLength": 1, "pattern": ".*\\S.*"}
	slugStr  = bson.M{"bsonType": "string", "pattern": "^[a-z0-9]+(-[a-z0-9]+)*$"}
	number   = bson.M{"bsonType": bson.A{"double", "int", "long", "decimal"}}
	intType  = bson.M{"bsonType": bson.A{"int", "long"}}
	strArray = bson.M{"bsonType": "array", "items": bson.M{"bsonType": "string"}}
	optStr   = bson.M{"bsonType": bson.A{"string", "null"}}
)

func object(required bson.A, props bson.M) bson.M {
	return bson.M{
		"$jsonSchema": bson.M{
			"bsonType":   "object",
			"required":   required,
			"properties": props,
		},
	}
}

func adminsSchema() bson.M {
	return object(bson.A{"email", "password_hash"}, bson.M{
		"email":         nonBlank,
		"password_hash": nonBlank,
	})
}

func categorySchema() bson.M {
	return object(bson.A{"name", "slug"}, bson.M{
		"name":        nonBlank,
		"name_ci":     bson.M{"bsonType": "string"},
		"slug":        slugStr,
		"description": optStr,
		"image":       optStr,
		"order":       intType,
		"is_active":   bson.M{"bsonType": "bool"},
	})
}

func servicesSchema() bson.M {
	return object(bson.A{"title", "slug", "category", "short_desc"}, bson.M{
		"title":      nonBlank,
		"slug":       slugStr,
		"category":   bson.M{"bsonType": "objectId"},
		"short_desc": nonBlank,
		"benefits":   strArray,
		"images":     strArray,
		"featured":   bson.M{"bsonType": "bool"},
		"durations": bson.M{
			"bsonType": "array",
			"items": bson.M{
				"bsonType": "object",
				"required": bson.A{"minutes", "price"},
				"properties": bson.M{
					"minutes": intType,
					"price":   number,
				},
			},
		},
	})
}

func articlesSchema() bson.M {
	return object(bson.A{"title", "slug", "excerpt", "content", "category", "author"}, bson.M{
		"title":     nonBlank,
		"slug":      slugStr,
		"excerpt":   nonBlank,
		"content":   nonBlank,
		"category":  bson.M{"bsonType": "objectId"},
		"author":    nonBlank,
		"published": bson.M{"bsonType": "bool"},
		"tags":      strArray,
		"read_time": intType,
	})
}

func bookingsSchema() bson.M {
	return object(bson.A{"name", "email", "mobile", "address", "booking_date", "booking_time", "status", "booking_reference"}, bson.M{
		"name":              nonBlank,
		"email":             nonBlank,
		"mobile":            nonBlank,
		"address":           nonBlank,
		"booking_date":      bson.M{"bsonType": "date"},
		"booking_time":      nonBlank,
		"service_duration":  intType,
		"service_price":     number,
		"status":            bson.M{"enum": bson.A{"pending", "confirmed", "cancelled"}},
		"booking_reference": bson.M{"bsonType": "string", "pattern": "^BK[0-9]+$"},
	})
}

func membershipsSchema() bson.M {
	return object(bson.A{"name", "price", "billing_cycle"}, bson.M{
		"name":          nonBlank,
		"price":         number,
		"billing_cycle": bson.M{"enum": bson.A{"monthly", "yearly", "one-time"}},
		"perks":         strArray,
		"order":         intType,
	})
}

func registrationsSchema() bson.M {
	return object(bson.A{"name", "email", "mobile", "plan", "status"}, bson.M{
		"name":   nonBlank,
		"email":  nonBlank,
		"mobile": nonBlank,
		"plan":   bson.M{"bsonType": "objectId"},
		"status": bson.M{"enum": bson.A{"pending", "approved", "rejected"}},
	})
}

func testimonialsSchema() bson.M {
	return object(bson.A{"name", "quote", "rating"}, bson.M{
		"name":   nonBlank,
		"quote":  nonBlank,
		"rating": bson.M{"bsonType": bson.A{"int", "long"}, "minimum": 1, "maximum": 5},
	})
}

func settingsSchema() bson.M {
	return object(bson.A{"key", "value"}, bson.M{
		"key":   nonBlank,
		"value": bson.M{"bsonType": "string"},
	})
}

func gallerySchema() bson.M {
	return object(bson.A{"url"}, bson.M{
		"url":          nonBlank,
		"tags":         strArray,
		"is_published": bson.M{"bsonType": "bool"},
		"order":        intType,
		"width":        intType,
		"height":       intType,
	})
}

func siteContentSchema() bson.M {
	return object(bson.A{"singleton"}, bson.M{
		"singleton": bson.M{"enum": bson.A{"homepage", "about"}},
	})
}
