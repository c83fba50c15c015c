// internal/app/store/ratelimit/store.go
package ratelimit

import (
	"context"
	"time"

	"github.com/dalemusser/stratawell/internal/app/system/normalize"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Collection holds one lockout record per key. A TTL index on last_attempt
// removes records a day after the last failure.
const Collection = "rate_limits"

// Attempt tracks failed logins for one key (the normalized admin email).
type Attempt struct {
	ID           primitive.ObjectID `bson:"_id,omitempty"`
	Key          string             `bson:"key"`
	AttemptCount int                `bson:"attempt_count"`
	WindowStart  time.Time          `bson:"window_start"`
	LockedUntil  *time.Time         `bson:"locked_until"`
	LastAttempt  time.Time          `bson:"last_attempt"`
	CreatedAt    time.Time          `bson:"created_at"`
	UpdatedAt    time.Time          `bson:"updated_at"`
}

// Policy is the lockout rule: MaxAttempts failures inside Window lock the
// key for Lockout.
type Policy struct {
	MaxAttempts int
	Window      time.Duration
	Lockout     time.Duration
}

// Decision is the outcome of a check or a recorded failure.
type Decision struct {
	Allowed     bool
	Remaining   int // attempts left before lockout; 0 when locked
	LockedUntil *time.Time
}

// Store manages login lockouts.
type Store struct {
	c      *mongo.Collection
	policy Policy
	now    func() time.Time
}

// New creates a lockout store for policy.
func New(db *mongo.Database, policy Policy) *Store {
	return &Store{c: db.Collection(Collection), policy: policy, now: time.Now}
}

// Policy returns the configured policy.
func (s *Store) Policy() Policy {
	return s.policy
}

func (s *Store) decide(a Attempt, now time.Time) Decision {
	if a.LockedUntil != nil && now.Before(*a.LockedUntil) {
		return Decision{Allowed: false, LockedUntil: a.LockedUntil}
	}
	if now.After(a.WindowStart.Add(s.policy.Window)) {
		return Decision{Allowed: true, Remaining: s.policy.MaxAttempts}
	}
	remaining := s.policy.MaxAttempts - a.AttemptCount
	if remaining <= 0 {
		return Decision{Allowed: false}
	}
	return Decision{Allowed: true, Remaining: remaining}
}

// Check reports whether key may attempt a login now. Callers decide how to
// treat a non-nil error; login fails open.
func (s *Store) Check(ctx context.Context, key string) (Decision, error) {
	var a Attempt
	err := s.c.FindOne(ctx, bson.M{"key": normalize.Email(key)}).Decode(&a)
	if err == mongo.ErrNoDocuments {
		return Decision{Allowed: true, Remaining: s.policy.MaxAttempts}, nil
	}
	if err != nil {
		return Decision{Allowed: true, Remaining: s.policy.MaxAttempts}, err
	}
	return s.decide(a, s.now()), nil
}

// RecordFailure counts one failed login and locks the key once the policy
// limit is reached within the window. The counter is updated atomically.
func (s *Store) RecordFailure(ctx context.Context, key string) (Decision, error) {
	key = normalize.Email(key)
	now := s.now()

	// an expired window starts over
	_, err := s.c.UpdateOne(ctx,
		bson.M{"key": key, "window_start": bson.M{"$lt": now.Add(-s.policy.Window)}},
		bson.M{"$set": bson.M{"attempt_count": 0, "window_start": now, "locked_until": nil}},
	)
	if err != nil {
		return Decision{}, err
	}

	a, err := s.increment(ctx, key, now)
	if wafflemongo.IsDup(err) {
		// concurrent first failure inserted the record; count against it
		a, err = s.increment(ctx, key, now)
	}
	if err != nil {
		return Decision{}, err
	}

	if a.AttemptCount >= s.policy.MaxAttempts && (a.LockedUntil == nil || !now.Before(*a.LockedUntil)) {
		until := now.Add(s.policy.Lockout)
		if _, err := s.c.UpdateOne(ctx, bson.M{"_id": a.ID}, bson.M{"$set": bson.M{"locked_until": until}}); err != nil {
			return Decision{}, err
		}
		a.LockedUntil = &until
	}
	return s.decide(a, now), nil
}

func (s *Store) increment(ctx context.Context, key string, now time.Time) (Attempt, error) {
	update := bson.M{
		"$inc": bson.M{"attempt_count": 1},
		"$set": bson.M{"last_attempt": now, "updated_at": now},
		"$setOnInsert": bson.M{
			"_id":          primitive.NewObjectID(),
			"window_start": now,
			"locked_until": nil,
			"created_at":   now,
		},
	}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)
	var a Attempt
	err := s.c.FindOneAndUpdate(ctx, bson.M{"key": key}, update, opts).Decode(&a)
	return a, err
}

// Clear removes the record for key after a successful login.
func (s *Store) Clear(ctx context.Context, key string) error {
	_, err := s.c.DeleteOne(ctx, bson.M{"key": normalize.Email(key)})
	return err
}
