// internal/app/store/storeutil/storeutil.go
package storeutil

import (
	"context"
	"regexp"
	"strings"

	"github.com/dalemusser/stratawell/internal/app/system/lookup"
	"github.com/dalemusser/stratawell/internal/app/system/paging"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Paginate returns *options.FindOptions with skip/limit for p.
func Paginate(p paging.Params) *options.FindOptions {
	return options.Find().SetLimit(p.Limit).SetSkip(p.Skip())
}

// SearchFilter builds a case-insensitive substring match of term across
// fields. It returns nil for a blank term.
func SearchFilter(term string, fields ...string) bson.M {
	term = strings.TrimSpace(term)
	if term == "" || len(fields) == 0 {
		return nil
	}
	pattern := regexp.QuoteMeta(term)
	or := make(bson.A, 0, len(fields))
	for _, f := range fields {
		or = append(or, bson.M{f: bson.M{"$regex": pattern, "$options": "i"}})
	}
	return bson.M{"$or": or}
}

// Merge combines filters with $and, skipping nil and empty ones.
func Merge(filters ...bson.M) bson.M {
	var parts bson.A
	for _, f := range filters {
		if len(f) > 0 {
			parts = append(parts, f)
		}
	}
	switch len(parts) {
	case 0:
		return bson.M{}
	case 1:
		return parts[0].(bson.M)
	default:
		return bson.M{"$and": parts}
	}
}

// FindOneByKey resolves k against c, trying each of its filters in order
// (slug first). extra, when non-nil, is ANDed into every attempt.
// Returns mongo.ErrNoDocuments when nothing matches.
func FindOneByKey[T any](ctx context.Context, c *mongo.Collection, k lookup.Key, extra bson.M) (T, error) {
	var out T
	for _, f := range k.Filters() {
		err := c.FindOne(ctx, Merge(f, extra)).Decode(&out)
		if err == nil {
			return out, nil
		}
		if err != mongo.ErrNoDocuments {
			return out, err
		}
	}
	return out, mongo.ErrNoDocuments
}

// FindPage runs a counted, paginated find.
func FindPage[T any](ctx context.Context, c *mongo.Collection, filter bson.M, sort bson.D, p paging.Params) ([]T, int64, error) {
	total, err := c.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	opts := Paginate(p)
	if len(sort) > 0 {
		opts.SetSort(sort)
	}
	cur, err := c.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, err
	}
	defer cur.Close(ctx)

	out := make([]T, 0)
	if err := cur.All(ctx, &out); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

// FindAll returns every document matching filter, sorted. The result is
// never nil so it encodes as [].
func FindAll[T any](ctx context.Context, c *mongo.Collection, filter bson.M, sort bson.D) ([]T, error) {
	opts := options.Find()
	if len(sort) > 0 {
		opts.SetSort(sort)
	}
	cur, err := c.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := make([]T, 0)
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ReturnAfter makes FindOneAndUpdate return the updated document.
func ReturnAfter() *options.FindOneAndUpdateOptions {
	return options.FindOneAndUpdate().SetReturnDocument(options.After)
}

// DeleteByKey resolves k and deletes the first match, returning the
// deleted document. Returns mongo.ErrNoDocuments when nothing matches.
func DeleteByKey[T any](ctx context.Context, c *mongo.Collection, k lookup.Key) (T, error) {
	var zero T
	for _, f := range k.Filters() {
		var out T
		err := c.FindOneAndDelete(ctx, f).Decode(&out)
		if err == nil {
			return out, nil
		}
		if err != mongo.ErrNoDocuments {
			return zero, err
		}
	}
	return zero, mongo.ErrNoDocuments
}
