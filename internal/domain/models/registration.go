// internal/domain/models/registration.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MemberRegistration is a membership sign-up awaiting admin review.
// Email is unique across registrations.
type MemberRegistration struct {
	ID               primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Name             string             `bson:"name" json:"name"`
	Email            string             `bson:"email" json:"email"`
	Mobile           string             `bson:"mobile" json:"mobile"`
	Plan             primitive.ObjectID `bson:"plan" json:"plan"`
	Status           string             `bson:"status" json:"status"`
	RegistrationDate time.Time          `bson:"registration_date" json:"registrationDate"`
	CreatedAt        time.Time          `bson:"created_at" json:"createdAt"`
	UpdatedAt        time.Time          `bson:"updated_at" json:"updatedAt"`
}

// Registration statuses
const (
	RegistrationPending  = "pending"
	RegistrationApproved = "approved"
	RegistrationRejected = "rejected"
)

// AllRegistrationStatuses returns every valid registration status.
func AllRegistrationStatuses() []string {
	return []string{RegistrationPending, RegistrationApproved, RegistrationRejected}
}

// IsValidRegistrationStatus reports whether s is a registration status.
func IsValidRegistrationStatus(s string) bool {
	for _, v := range AllRegistrationStatuses() {
		if v == s {
			return true
		}
	}
	return false
}
