// internal/app/store/settings/settingsstore.go
package settingsstore

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/dalemusser/stratawell/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Collection is the settings collection name.
const Collection = "settings"

// ErrEmptyKey is returned when a setting key is blank.
var ErrEmptyKey = errors.New("setting key is required")

// Store provides access to the flat key/value settings collection.
type Store struct {
	c *mongo.Collection
}

// New creates a new settings store.
func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection(Collection)}
}

// All returns every setting as one map, with models.DefaultSettings filling
// keys that have never been saved.
func (s *Store) All(ctx context.Context) (map[string]string, error) {
	out := make(map[string]string, len(models.DefaultSettings))
	for k, v := range models.DefaultSettings {
		out[k] = v
	}

	cur, err := s.c.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	for cur.Next(ctx) {
		var st models.Setting
		if err := cur.Decode(&st); err != nil {
			return nil, err
		}
		out[st.Key] = st.Value
	}
	if err := cur.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Get returns the value of key. A missing key with a default returns the
// default; a missing key without one returns mongo.ErrNoDocuments.
func (s *Store) Get(ctx context.Context, key string) (models.Setting, error) {
	key = strings.TrimSpace(key)
	var st models.Setting
	err := s.c.FindOne(ctx, bson.M{"key": key}).Decode(&st)
	if err == mongo.ErrNoDocuments {
		if def, ok := models.DefaultSettings[key]; ok {
			return models.Setting{Key: key, Value: def}, nil
		}
	}
	return st, err
}

// Set upserts one key. The key itself comes from the equality filter on insert.
func (s *Store) Set(ctx context.Context, key, value string) (models.Setting, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return models.Setting{}, ErrEmptyKey
	}
	now := time.Now().UTC()
	update := bson.M{
		"$set": bson.M{
			"value":      value,
			"updated_at": now,
		},
		"$setOnInsert": bson.M{
			"_id":        primitive.NewObjectID(),
			"created_at": now,
		},
	}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)

	var st models.Setting
	err := s.c.FindOneAndUpdate(ctx, bson.M{"key": key}, update, opts).Decode(&st)
	return st, err
}

// SetMany upserts every pair in one bulk write, then returns the merged map.
func (s *Store) SetMany(ctx context.Context, values map[string]string) (map[string]string, error) {
	now := time.Now().UTC()
	writes := make([]mongo.WriteModel, 0, len(values))
	for k, v := range values {
		k = strings.TrimSpace(k)
		if k == "" {
			return nil, ErrEmptyKey
		}
		writes = append(writes, mongo.NewUpdateOneModel().
			SetFilter(bson.M{"key": k}).
			SetUpdate(bson.M{
				"$set":         bson.M{"value": v, "updated_at": now},
				"$setOnInsert": bson.M{"_id": primitive.NewObjectID(), "created_at": now},
			}).
			SetUpsert(true))
	}
	if len(writes) > 0 {
		if _, err := s.c.BulkWrite(ctx, writes, options.BulkWrite().SetOrdered(false)); err != nil {
			return nil, err
		}
	}
	return s.All(ctx)
}

// Delete removes a saved key so its default (if any) applies again.
func (s *Store) Delete(ctx context.Context, key string) error {
	res, err := s.c.DeleteOne(ctx, bson.M{"key": strings.TrimSpace(key)})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// SeedDefaults inserts every default key that is not stored yet and
// reports how many were added.
func (s *Store) SeedDefaults(ctx context.Context) (int, error) {
	now := time.Now().UTC()
	added := 0
	for k, v := range models.DefaultSettings {
		res, err := s.c.UpdateOne(ctx, bson.M{"key": k}, bson.M{
			"$setOnInsert": bson.M{
				"_id":        primitive.NewObjectID(),
				"value":      v,
				"created_at": now,
				"updated_at": now,
			},
		}, options.Update().SetUpsert(true))
		if err != nil {
			return added, err
		}
		if res.UpsertedCount > 0 {
			added++
		}
	}
	return added, nil
}
