// internal/app/store/testimonials/testimonialstore.go
package testimonials

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/dalemusser/stratawell/internal/app/store/storeutil"
	"github.com/dalemusser/stratawell/internal/app/system/normalize"
	"github.com/dalemusser/stratawell/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// Collection is the testimonials collection name.
const Collection = "testimonials"

// ErrInvalidRating is returned for a rating outside 1..5.
var ErrInvalidRating = errors.New("rating must be between 1 and 5")

// Store wraps the testimonials collection.
type Store struct {
	c *mongo.Collection
}

// New returns a Store over db.
func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection(Collection)}
}

// CreateInput is a new testimonial. A zero Rating means DefaultRating.
type CreateInput struct {
	Name      string
	Quote     string
	Rating    int
	AvatarURL string
}

func checkRating(r int) error {
	if r < models.MinRating || r > models.MaxRating {
		return ErrInvalidRating
	}
	return nil
}

func (s *Store) Create(ctx context.Context, in CreateInput) (models.Testimonial, error) {
	rating := in.Rating
	if rating == 0 {
		rating = models.DefaultRating
	}
	if err := checkRating(rating); err != nil {
		return models.Testimonial{}, err
	}
	now := time.Now().UTC()
	tm := models.Testimonial{
		ID:        primitive.NewObjectID(),
		Name:      normalize.Name(in.Name),
		Quote:     strings.TrimSpace(in.Quote),
		Rating:    rating,
		AvatarURL: strings.TrimSpace(in.AvatarURL),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if _, err := s.c.InsertOne(ctx, tm); err != nil {
		return models.Testimonial{}, err
	}
	return tm, nil
}

// List returns testimonials newest first.
func (s *Store) List(ctx context.Context) ([]models.Testimonial, error) {
	return storeutil.FindAll[models.Testimonial](ctx, s.c, bson.M{}, bson.D{{Key: "created_at", Value: -1}})
}

func (s *Store) Get(ctx context.Context, id primitive.ObjectID) (models.Testimonial, error) {
	var tm models.Testimonial
	err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&tm)
	return tm, err
}

type UpdateInput struct {
	Name      *string
	Quote     *string
	Rating    *int
	AvatarURL *string
}

func (s *Store) Update(ctx context.Context, id primitive.ObjectID, in UpdateInput) (models.Testimonial, error) {
	set := bson.M{"updated_at": time.Now().UTC()}
	if in.Name != nil {
		set["name"] = normalize.Name(*in.Name)
	}
	if in.Quote != nil {
		set["quote"] = strings.TrimSpace(*in.Quote)
	}
	if in.Rating != nil {
		if err := checkRating(*in.Rating); err != nil {
			return models.Testimonial{}, err
		}
		set["rating"] = *in.Rating
	}
	if in.AvatarURL != nil {
		set["avatar_url"] = strings.TrimSpace(*in.AvatarURL)
	}

	var out models.Testimonial
	err := s.c.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, storeutil.ReturnAfter()).Decode(&out)
	return out, err
}

func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}
