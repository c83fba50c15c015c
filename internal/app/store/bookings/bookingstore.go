// internal/app/store/bookings/bookingstore.go
package bookings

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
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

// Collection is the bookings collection name.
const Collection = "bookings"

// referenceAttempts bounds retries when a generated reference collides.
const referenceAttempts = 5

var (
	// ErrDuplicateReference means every generated reference collided.
	ErrDuplicateReference = errors.New("could not generate a unique booking reference")
	// ErrInvalidStatus is returned for a status outside the booking enum.
	ErrInvalidStatus = errors.New("invalid status")
)

// Store wraps the bookings collection.
type Store struct {
	c   *mongo.Collection
	now func() time.Time
}

// New returns a Store over db.
func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection(Collection), now: time.Now}
}

// NewReference formats a booking reference: "BK", the Unix millisecond
// timestamp, and a zero-padded three digit random suffix.
func NewReference(at time.Time) string {
	return fmt.Sprintf("BK%d%03d", at.UnixMilli(), rand.IntN(1000))
}

// CreateInput is a validated booking request. ScheduledAt is the combined
// date and time; the caller has already rejected past values.
type CreateInput struct {
	Name            string
	Email           string
	Mobile          string
	Address         string
	BookingDate     time.Time
	BookingTime     string
	ScheduledAt     time.Time
	ServiceCategory primitive.ObjectID
	ServiceID       primitive.ObjectID
	ServiceDuration int
	ServicePrice    float64
	Notes           string
}

// Create inserts a pending booking with a fresh reference, regenerating the
// reference if it collides.
func (s *Store) Create(ctx context.Context, in CreateInput) (models.Booking, error) {
	now := s.now().UTC()
	b := models.Booking{
		Name:            normalize.Name(in.Name),
		Email:           normalize.Email(in.Email),
		Mobile:          strings.TrimSpace(in.Mobile),
		Address:         strings.TrimSpace(in.Address),
		BookingDate:     in.BookingDate.UTC(),
		BookingTime:     strings.TrimSpace(in.BookingTime),
		ScheduledAt:     in.ScheduledAt.UTC(),
		ServiceCategory: in.ServiceCategory,
		ServiceID:       in.ServiceID,
		ServiceDuration: in.ServiceDuration,
		ServicePrice:    in.ServicePrice,
		Notes:           strings.TrimSpace(in.Notes),
		Status:          models.BookingPending,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	for i := 0; i < referenceAttempts; i++ {
		b.ID = primitive.NewObjectID()
		b.BookingReference = NewReference(s.now())
		_, err := s.c.InsertOne(ctx, b)
		if err == nil {
			return b, nil
		}
		if !wafflemongo.IsDup(err) {
			return models.Booking{}, err
		}
	}
	return models.Booking{}, ErrDuplicateReference
}

// ListFilter narrows List. Status must already be a valid status or empty.
type ListFilter struct {
	Status string
	Search string
}

// List returns one page of bookings, newest first.
func (s *Store) List(ctx context.Context, f ListFilter, p paging.Params) ([]models.Booking, int64, error) {
	filter := bson.M{}
	if f.Status != "" {
		filter["status"] = f.Status
	}
	filter = storeutil.Merge(filter, storeutil.SearchFilter(f.Search, "name", "email", "mobile", "booking_reference"))
	return storeutil.FindPage[models.Booking](ctx, s.c, filter, bson.D{{Key: "created_at", Value: -1}}, p)
}

// Get returns a booking by id. Returns mongo.ErrNoDocuments if absent.
func (s *Store) Get(ctx context.Context, id primitive.ObjectID) (models.Booking, error) {
	var b models.Booking
	err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&b)
	return b, err
}

// GetByReference returns the booking with the given reference.
func (s *Store) GetByReference(ctx context.Context, ref string) (models.Booking, error) {
	var b models.Booking
	err := s.c.FindOne(ctx, bson.M{"booking_reference": strings.ToUpper(strings.TrimSpace(ref))}).Decode(&b)
	return b, err
}

// UpdateInput holds editable booking fields. Status and reference are not
// editable here.
type UpdateInput struct {
	Name            *string
	Email           *string
	Mobile          *string
	Address         *string
	BookingDate     *time.Time
	BookingTime     *string
	ScheduledAt     *time.Time
	ServiceCategory *primitive.ObjectID
	ServiceID       *primitive.ObjectID
	ServiceDuration *int
	ServicePrice    *float64
	Notes           *string
}

// Update applies in to the booking with id.
func (s *Store) Update(ctx context.Context, id primitive.ObjectID, in UpdateInput) (models.Booking, error) {
	set := bson.M{"updated_at": s.now().UTC()}
	if in.Name != nil {
		set["name"] = normalize.Name(*in.Name)
	}
	if in.Email != nil {
		set["email"] = normalize.Email(*in.Email)
	}
	if in.Mobile != nil {
		set["mobile"] = strings.TrimSpace(*in.Mobile)
	}
	if in.Address != nil {
		set["address"] = strings.TrimSpace(*in.Address)
	}
	if in.BookingDate != nil {
		set["booking_date"] = in.BookingDate.UTC()
	}
	if in.BookingTime != nil {
		set["booking_time"] = strings.TrimSpace(*in.BookingTime)
	}
	if in.ScheduledAt != nil {
		set["scheduled_at"] = in.ScheduledAt.UTC()
	}
	if in.ServiceCategory != nil {
		set["service_category"] = *in.ServiceCategory
	}
	if in.ServiceID != nil {
		set["service_id"] = *in.ServiceID
	}
	if in.ServiceDuration != nil {
		set["service_duration"] = *in.ServiceDuration
	}
	if in.ServicePrice != nil {
		set["service_price"] = *in.ServicePrice
	}
	if in.Notes != nil {
		set["notes"] = strings.TrimSpace(*in.Notes)
	}
	return s.apply(ctx, id, set)
}

// UpdateStatus sets the status of the booking with id. Any status may move
// to any other.
func (s *Store) UpdateStatus(ctx context.Context, id primitive.ObjectID, status string) (models.Booking, error) {
	status = normalize.Status(status)
	if !models.IsValidBookingStatus(status) {
		return models.Booking{}, ErrInvalidStatus
	}
	return s.apply(ctx, id, bson.M{"status": status, "updated_at": s.now().UTC()})
}

func (s *Store) apply(ctx context.Context, id primitive.ObjectID, set bson.M) (models.Booking, error) {
	var out models.Booking
	err := s.c.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, storeutil.ReturnAfter()).Decode(&out)
	return out, err
}

// Delete removes the booking with id.
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
