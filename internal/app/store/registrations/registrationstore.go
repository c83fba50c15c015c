// internal/app/store/registrations/registrationstore.go
package registrations

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/dalemusser/stratawell/internal/app/store/storeutil"
	"github.com/dalemusser/stratawell/internal/app/system/normalize"
	"github.com/dalemusser/stratawell/internal/app/system/paging"
	"github.com/dalemusser/stratawell/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// Collection is the member registrations collection name.
const Collection = "member_registrations"

var (
	// ErrDuplicateEmail means the email has already registered.
	ErrDuplicateEmail = errors.New("email already registered")
	// ErrInvalidStatus is returned for a status outside the registration enum.
	ErrInvalidStatus = errors.New("invalid status")
)

// Store wraps the member_registrations collection.
type Store struct {
	c *mongo.Collection
}

// New returns a Store over db.
func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection(Collection)}
}

// CreateInput is a sign-up. Plan must reference an existing membership.
type CreateInput struct {
	Name   string
	Email  string
	Mobile string
	Plan   primitive.ObjectID
}

// Create records a pending registration. Returns ErrDuplicateEmail when the
// email is already registered.
func (s *Store) Create(ctx context.Context, in CreateInput) (models.MemberRegistration, error) {
	now := time.Now().UTC()
	reg := models.MemberRegistration{
		ID:               primitive.NewObjectID(),
		Name:             normalize.Name(in.Name),
		Email:            normalize.Email(in.Email),
		Mobile:           strings.TrimSpace(in.Mobile),
		Plan:             in.Plan,
		Status:           models.RegistrationPending,
		RegistrationDate: now,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if _, err := s.c.InsertOne(ctx, reg); err != nil {
		if wafflemongo.IsDup(err) {
			return models.MemberRegistration{}, ErrDuplicateEmail
		}
		return models.MemberRegistration{}, err
	}
	return reg, nil
}

// ListFilter narrows List. Status must already be valid or empty.
type ListFilter struct {
	Status string
	Search string
	Plan   *primitive.ObjectID
}

// List returns one page of registrations, newest first.
func (s *Store) List(ctx context.Context, f ListFilter, p paging.Params) ([]models.MemberRegistration, int64, error) {
	filter := bson.M{}
	if f.Status != "" {
		filter["status"] = f.Status
	}
	if f.Plan != nil {
		filter["plan"] = *f.Plan
	}
	filter = storeutil.Merge(filter, storeutil.SearchFilter(f.Search, "name", "email", "mobile"))
	return storeutil.FindPage[models.MemberRegistration](ctx, s.c, filter, bson.D{{Key: "created_at", Value: -1}}, p)
}

func (s *Store) Get(ctx context.Context, id primitive.ObjectID) (models.MemberRegistration, error) {
	var reg models.MemberRegistration
	err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&reg)
	return reg, err
}

// UpdateStatus moves a registration to status. Transitions are unconstrained.
func (s *Store) UpdateStatus(ctx context.Context, id primitive.ObjectID, status string) (models.MemberRegistration, error) {
	status = normalize.Status(status)
	if !models.IsValidRegistrationStatus(status) {
		return models.MemberRegistration{}, ErrInvalidStatus
	}
	var out models.MemberRegistration
	err := s.c.FindOneAndUpdate(ctx, bson.M{"_id": id},
		bson.M{"$set": bson.M{"status": status, "updated_at": time.Now().UTC()}},
		storeutil.ReturnAfter()).Decode(&out)
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
