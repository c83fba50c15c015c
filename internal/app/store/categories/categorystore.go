// internal/app/store/categories/categorystore.go
package categories

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/dalemusser/stratawell/internal/app/store/storeutil"
	"github.com/dalemusser/stratawell/internal/app/system/lookup"
	"github.com/dalemusser/stratawell/internal/app/system/normalize"
	"github.com/dalemusser/stratawell/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// Collections sharing the Category shape.
const (
	CollectionCategories        = "categories"
	CollectionArticleCategories = "article_categories"
)

// Store manages one category collection.
type Store struct {
	c *mongo.Collection
}

// New returns a store over the named collection.
func New(db *mongo.Database, collection string) *Store {
	return &Store{c: db.Collection(collection)}
}

// CreateInput is the payload for a new category. IsActive defaults to true.
type CreateInput struct {
	Name        string
	Description string
	Image       string
	Order       int
	IsActive    *bool
}

// Create derives the slug from the name and inserts the category.
// Returns storeutil.ErrDuplicateName or storeutil.ErrDuplicateSlug on conflict.
func (s *Store) Create(ctx context.Context, in CreateInput) (models.Category, error) {
	name := normalize.Name(in.Name)
	slug := normalize.Slug(name)
	if slug == "" {
		return models.Category{}, storeutil.ErrEmptySlug
	}
	if err := s.checkUnique(ctx, name, slug, primitive.NilObjectID); err != nil {
		return models.Category{}, err
	}

	active := true
	if in.IsActive != nil {
		active = *in.IsActive
	}
	now := time.Now().UTC()
	cat := models.Category{
		ID:          primitive.NewObjectID(),
		Name:        name,
		NameCI:      text.Fold(name),
		Slug:        slug,
		Description: strings.TrimSpace(in.Description),
		Image:       strings.TrimSpace(in.Image),
		Order:       in.Order,
		IsActive:    active,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if _, err := s.c.InsertOne(ctx, cat); err != nil {
		if wafflemongo.IsDup(err) {
			return models.Category{}, storeutil.ErrDuplicateSlug
		}
		return models.Category{}, err
	}
	return cat, nil
}

// checkUnique reports a name or slug already held by a category other than self.
func (s *Store) checkUnique(ctx context.Context, name, slug string, self primitive.ObjectID) error {
	notSelf := bson.M{}
	if !self.IsZero() {
		notSelf = bson.M{"_id": bson.M{"$ne": self}}
	}
	n, err := s.c.CountDocuments(ctx, storeutil.Merge(bson.M{"name_ci": text.Fold(name)}, notSelf))
	if err != nil {
		return err
	}
	if n > 0 {
		return storeutil.ErrDuplicateName
	}
	n, err = s.c.CountDocuments(ctx, storeutil.Merge(bson.M{"slug": slug}, notSelf))
	if err != nil {
		return err
	}
	if n > 0 {
		return storeutil.ErrDuplicateSlug
	}
	return nil
}

// List returns categories sorted by order then name. activeOnly hides
// inactive ones.
func (s *Store) List(ctx context.Context, activeOnly bool) ([]models.Category, error) {
	filter := bson.M{}
	if activeOnly {
		filter["is_active"] = true
	}
	return storeutil.FindAll[models.Category](ctx, s.c, filter, bson.D{{Key: "order", Value: 1}, {Key: "name", Value: 1}})
}

// Get resolves k (slug first). Returns mongo.ErrNoDocuments if absent.
func (s *Store) Get(ctx context.Context, k lookup.Key) (models.Category, error) {
	return storeutil.FindOneByKey[models.Category](ctx, s.c, k, nil)
}

// GetActiveBySlug is the public lookup used by nested article routes.
func (s *Store) GetActiveBySlug(ctx context.Context, slug string) (models.Category, error) {
	return storeutil.FindOneByKey[models.Category](ctx, s.c, lookup.BySlug(slug), bson.M{"is_active": true})
}

// Exists reports whether a category with id exists.
func (s *Store) Exists(ctx context.Context, id primitive.ObjectID) (bool, error) {
	n, err := s.c.CountDocuments(ctx, bson.M{"_id": id})
	return n > 0, err
}

// UpdateInput holds the fields to change; nil leaves a field untouched.
type UpdateInput struct {
	Name        *string
	Description *string
	Image       *string
	Order       *int
	IsActive    *bool
}

// Update applies in to the category matched by k. The slug is re-derived
// only when the name actually changes, and only if the new slug is free.
func (s *Store) Update(ctx context.Context, k lookup.Key, in UpdateInput) (models.Category, error) {
	cur, err := s.Get(ctx, k)
	if err != nil {
		return models.Category{}, err
	}

	set := bson.M{"updated_at": time.Now().UTC()}
	if in.Name != nil {
		name := normalize.Name(*in.Name)
		if name != cur.Name {
			slug := normalize.Slug(name)
			if slug == "" {
				return models.Category{}, storeutil.ErrEmptySlug
			}
			if err := s.checkUnique(ctx, name, slug, cur.ID); err != nil {
				return models.Category{}, err
			}
			set["name"] = name
			set["name_ci"] = text.Fold(name)
			set["slug"] = slug
		}
	}
	if in.Description != nil {
		set["description"] = strings.TrimSpace(*in.Description)
	}
	if in.Image != nil {
		set["image"] = strings.TrimSpace(*in.Image)
	}
	if in.Order != nil {
		set["order"] = *in.Order
	}
	if in.IsActive != nil {
		set["is_active"] = *in.IsActive
	}

	var out models.Category
	err = s.c.FindOneAndUpdate(ctx, bson.M{"_id": cur.ID}, bson.M{"$set": set}, storeutil.ReturnAfter()).Decode(&out)
	if err != nil {
		if wafflemongo.IsDup(err) {
			return models.Category{}, storeutil.ErrDuplicateSlug
		}
		return models.Category{}, err
	}
	return out, nil
}

// Delete removes the category matched by k. Dependent services or articles
// keep their (now dangling) reference.
func (s *Store) Delete(ctx context.Context, k lookup.Key) (models.Category, error) {
	cur, err := s.Get(ctx, k)
	if err != nil {
		return models.Category{}, err
	}
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": cur.ID})
	if err != nil {
		return models.Category{}, err
	}
	if res.DeletedCount == 0 {
		return models.Category{}, mongo.ErrNoDocuments
	}
	return cur, nil
}

// IsConflict reports whether err is a uniqueness failure from this store.
func IsConflict(err error) bool {
	return errors.Is(err, storeutil.ErrDuplicateName) || errors.Is(err, storeutil.ErrDuplicateSlug)
}
