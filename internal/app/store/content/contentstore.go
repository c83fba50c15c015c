// internal/app/store/content/contentstore.go
package content

import (
	"context"
	"time"

	"github.com/dalemusser/stratawell/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Collection holds one document per singleton name, enforced by a unique
// index on the singleton field.
const Collection = "site_content"

// Doc is a singleton page document.
type Doc interface {
	models.HomepageContent | models.AboutContent
}

// Store reads and writes one named singleton. The document is created with
// defaults on first read.
type Store[T Doc] struct {
	c        *mongo.Collection
	name     string
	defaults func() T
}

// NewHomepage returns the homepage singleton store.
func NewHomepage(db *mongo.Database) *Store[models.HomepageContent] {
	return &Store[models.HomepageContent]{c: db.Collection(Collection), name: models.SingletonHomepage, defaults: models.DefaultHomepage}
}

// NewAbout returns the about page singleton store.
func NewAbout(db *mongo.Database) *Store[models.AboutContent] {
	return &Store[models.AboutContent]{c: db.Collection(Collection), name: models.SingletonAbout, defaults: models.DefaultAbout}
}

// Name is the singleton marker value.
func (s *Store[T]) Name() string {
	return s.name
}

// fields flattens doc to the content fields written by $set / $setOnInsert.
func fields(doc any) (bson.M, error) {
	raw, err := bson.Marshal(doc)
	if err != nil {
		return nil, err
	}
	var m bson.M
	if err := bson.Unmarshal(raw, &m); err != nil {
		return nil, err
	}
	for _, k := range []string{"_id", "singleton", "created_at", "updated_at"} {
		delete(m, k)
	}
	return m, nil
}

// Get returns the singleton, inserting the defaults atomically if it does
// not exist yet. Concurrent first reads converge on one document.
func (s *Store[T]) Get(ctx context.Context) (T, error) {
	var zero T
	init, err := fields(s.defaults())
	if err != nil {
		return zero, err
	}
	now := time.Now().UTC()
	init["created_at"] = now
	init["updated_at"] = now

	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)
	var out T
	err = s.c.FindOneAndUpdate(ctx, bson.M{"singleton": s.name}, bson.M{"$setOnInsert": init}, opts).Decode(&out)
	if wafflemongo.IsDup(err) {
		// lost the insert race; the winner's document is there now
		err = s.c.FindOne(ctx, bson.M{"singleton": s.name}).Decode(&out)
	}
	if err != nil {
		return zero, err
	}
	return out, nil
}

// Save replaces the content fields of the singleton with doc's and returns
// the stored document. Identity and created_at are preserved.
func (s *Store[T]) Save(ctx context.Context, doc T) (T, error) {
	var zero T
	if _, err := s.Get(ctx); err != nil {
		return zero, err
	}
	set, err := fields(doc)
	if err != nil {
		return zero, err
	}
	set["updated_at"] = time.Now().UTC()

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var out T
	if err := s.c.FindOneAndUpdate(ctx, bson.M{"singleton": s.name}, bson.M{"$set": set}, opts).Decode(&out); err != nil {
		return zero, err
	}
	return out, nil
}

// Reset restores the defaults.
func (s *Store[T]) Reset(ctx context.Context) (T, error) {
	return s.Save(ctx, s.defaults())
}
