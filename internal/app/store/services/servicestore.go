// internal/app/store/services/servicestore.go
package services

import (
	"context"
	"strings"
	"time"

	"github.com/dalemusser/stratawell/internal/app/store/storeutil"
	"github.com/dalemusser/stratawell/internal/app/system/lookup"
	"github.com/dalemusser/stratawell/internal/app/system/normalize"
	"github.com/dalemusser/stratawell/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// Collection is the services collection name.
const Collection = "services"

// Store wraps the services collection.
type Store struct {
	c *mongo.Collection
}

// New returns a Store over db.
func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection(Collection)}
}

// CreateInput is the payload for a new service. Category must already be
// resolved to an existing category id.
type CreateInput struct {
	Title             string
	Category          primitive.ObjectID
	ShortDesc         string
	LongDesc          string
	Benefits          []string
	Durations         []models.ServiceDuration
	Images            []string
	Featured          bool
	Contraindications string
	FAQs              []models.FAQ
}

// Create slugs the title and inserts the service.
func (s *Store) Create(ctx context.Context, in CreateInput) (models.Service, error) {
	title := normalize.Name(in.Title)
	slug := normalize.Slug(title)
	if slug == "" {
		return models.Service{}, storeutil.ErrEmptySlug
	}

	now := time.Now().UTC()
	svc := models.Service{
		ID:                primitive.NewObjectID(),
		Title:             title,
		Slug:              slug,
		Category:          in.Category,
		ShortDesc:         strings.TrimSpace(in.ShortDesc),
		LongDesc:          strings.TrimSpace(in.LongDesc),
		Benefits:          normalize.Tags(in.Benefits),
		Durations:         durations(in.Durations),
		Images:            normalize.Tags(in.Images),
		Featured:          in.Featured,
		Contraindications: strings.TrimSpace(in.Contraindications),
		FAQs:              faqs(in.FAQs),
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if _, err := s.c.InsertOne(ctx, svc); err != nil {
		if wafflemongo.IsDup(err) {
			return models.Service{}, storeutil.ErrDuplicateSlug
		}
		return models.Service{}, err
	}
	return svc, nil
}

func durations(in []models.ServiceDuration) []models.ServiceDuration {
	if in == nil {
		return []models.ServiceDuration{}
	}
	return in
}

func faqs(in []models.FAQ) []models.FAQ {
	out := make([]models.FAQ, 0, len(in))
	for _, f := range in {
		q, a := strings.TrimSpace(f.Question), strings.TrimSpace(f.Answer)
		if q == "" && a == "" {
			continue
		}
		out = append(out, models.FAQ{Question: q, Answer: a})
	}
	return out
}

// ListFilter narrows List. Zero values match everything.
type ListFilter struct {
	Category *primitive.ObjectID
	Featured *bool
}

// List returns services newest first.
func (s *Store) List(ctx context.Context, f ListFilter) ([]models.Service, error) {
	filter := bson.M{}
	if f.Category != nil {
		filter["category"] = *f.Category
	}
	if f.Featured != nil {
		filter["featured"] = *f.Featured
	}
	return storeutil.FindAll[models.Service](ctx, s.c, filter, bson.D{{Key: "created_at", Value: -1}})
}

// Get resolves k. Returns mongo.ErrNoDocuments if absent.
func (s *Store) Get(ctx context.Context, k lookup.Key) (models.Service, error) {
	return storeutil.FindOneByKey[models.Service](ctx, s.c, k, nil)
}

// UpdateInput holds the fields to change; nil leaves a field untouched.
type UpdateInput struct {
	Title             *string
	Category          *primitive.ObjectID
	ShortDesc         *string
	LongDesc          *string
	Benefits          *[]string
	Durations         *[]models.ServiceDuration
	Images            *[]string
	Featured          *bool
	Contraindications *string
	FAQs              *[]models.FAQ
}

// Update applies in. A changed title re-derives the slug.
func (s *Store) Update(ctx context.Context, k lookup.Key, in UpdateInput) (models.Service, error) {
	cur, err := s.Get(ctx, k)
	if err != nil {
		return models.Service{}, err
	}

	set := bson.M{"updated_at": time.Now().UTC()}
	if in.Title != nil {
		title := normalize.Name(*in.Title)
		if title != cur.Title {
			slug := normalize.Slug(title)
			if slug == "" {
				return models.Service{}, storeutil.ErrEmptySlug
			}
			set["title"] = title
			set["slug"] = slug
		}
	}
	if in.Category != nil {
		set["category"] = *in.Category
	}
	if in.ShortDesc != nil {
		set["short_desc"] = strings.TrimSpace(*in.ShortDesc)
	}
	if in.LongDesc != nil {
		set["long_desc"] = strings.TrimSpace(*in.LongDesc)
	}
	if in.Benefits != nil {
		set["benefits"] = normalize.Tags(*in.Benefits)
	}
	if in.Durations != nil {
		set["durations"] = durations(*in.Durations)
	}
	if in.Images != nil {
		set["images"] = normalize.Tags(*in.Images)
	}
	if in.Featured != nil {
		set["featured"] = *in.Featured
	}
	if in.Contraindications != nil {
		set["contraindications"] = strings.TrimSpace(*in.Contraindications)
	}
	if in.FAQs != nil {
		set["faqs"] = faqs(*in.FAQs)
	}

	var out models.Service
	err = s.c.FindOneAndUpdate(ctx, bson.M{"_id": cur.ID}, bson.M{"$set": set}, storeutil.ReturnAfter()).Decode(&out)
	if err != nil {
		if wafflemongo.IsDup(err) {
			return models.Service{}, storeutil.ErrDuplicateSlug
		}
		return models.Service{}, err
	}
	return out, nil
}

// Delete removes the service matched by k and returns it.
func (s *Store) Delete(ctx context.Context, k lookup.Key) (models.Service, error) {
	return storeutil.DeleteByKey[models.Service](ctx, s.c, k)
}
