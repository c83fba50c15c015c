// internal/domain/models/testimonial.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Testimonial is a client quote. Rating is 1..5.
type Testimonial struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Name      string             `bson:"name" json:"name"`
	Quote     string             `bson:"quote" json:"quote"`
	Rating    int                `bson:"rating" json:"rating"`
	AvatarURL string             `bson:"avatar_url,omitempty" json:"avatarUrl,omitempty"`
	CreatedAt time.Time          `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updated_at" json:"updatedAt"`
}

// Rating bounds
const (
	MinRating     = 1
	MaxRating     = 5
	DefaultRating = 5
)
