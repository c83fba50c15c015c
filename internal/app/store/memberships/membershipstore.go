// internal/app/store/memberships/membershipstore.go
package memberships

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

// Collection is the memberships collection name.
const Collection = "memberships"

// ErrInvalidBillingCycle is returned for a cycle outside monthly, yearly, one-time.
var ErrInvalidBillingCycle = errors.New("invalid billing cycle")

// Store wraps the memberships collection.
type Store struct {
	c *mongo.Collection
}

// New returns a Store over db.
func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection(Collection)}
}

// CreateInput describes a new plan.
type CreateInput struct {
	Name         string
	Price        float64
	BillingCycle string
	Perks        []string
	Terms        string
	Order        int
}

func (s *Store) Create(ctx context.Context, in CreateInput) (models.Membership, error) {
	cycle := normalize.Status(in.BillingCycle)
	if !models.IsValidBillingCycle(cycle) {
		return models.Membership{}, ErrInvalidBillingCycle
	}
	now := time.Now().UTC()
	m := models.Membership{
		ID:           primitive.NewObjectID(),
		Name:         normalize.Name(in.Name),
		Price:        in.Price,
		BillingCycle: cycle,
		Perks:        normalize.Tags(in.Perks),
		Terms:        strings.TrimSpace(in.Terms),
		Order:        in.Order,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if _, err := s.c.InsertOne(ctx, m); err != nil {
		return models.Membership{}, err
	}
	return m, nil
}

// List returns every plan sorted by display order, then price.
func (s *Store) List(ctx context.Context) ([]models.Membership, error) {
	return storeutil.FindAll[models.Membership](ctx, s.c, bson.M{}, bson.D{{Key: "order", Value: 1}, {Key: "price", Value: 1}})
}

func (s *Store) Get(ctx context.Context, id primitive.ObjectID) (models.Membership, error) {
	var m models.Membership
	err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&m)
	return m, err
}

// Exists reports whether a plan with id exists.
func (s *Store) Exists(ctx context.Context, id primitive.ObjectID) (bool, error) {
	n, err := s.c.CountDocuments(ctx, bson.M{"_id": id})
	return n > 0, err
}

type UpdateInput struct {
	Name         *string
	Price        *float64
	BillingCycle *string
	Perks        *[]string
	Terms        *string
	Order        *int
}

func (s *Store) Update(ctx context.Context, id primitive.ObjectID, in UpdateInput) (models.Membership, error) {
	set := bson.M{"updated_at": time.Now().UTC()}
	if in.Name != nil {
		set["name"] = normalize.Name(*in.Name)
	}
	if in.Price != nil {
		set["price"] = *in.Price
	}
	if in.BillingCycle != nil {
		cycle := normalize.Status(*in.BillingCycle)
		if !models.IsValidBillingCycle(cycle) {
			return models.Membership{}, ErrInvalidBillingCycle
		}
		set["billing_cycle"] = cycle
	}
	if in.Perks != nil {
		set["perks"] = normalize.Tags(*in.Perks)
	}
	if in.Terms != nil {
		set["terms"] = strings.TrimSpace(*in.Terms)
	}
	if in.Order != nil {
		set["order"] = *in.Order
	}

	var out models.Membership
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
