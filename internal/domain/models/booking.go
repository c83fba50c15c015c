// internal/domain/models/booking.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Booking is an appointment request captured by the public booking form.
//
// BookingDate is the calendar day (midnight in the business time zone) and
// BookingTime is the wall-clock time as entered. ScheduledAt is the combined
// instant, used for sorting and the past-date check.
type Booking struct {
	ID               primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Name             string             `bson:"name" json:"name"`
	Email            string             `bson:"email" json:"email"`
	Mobile           string             `bson:"mobile" json:"mobile"`
	Address          string             `bson:"address" json:"address"`
	BookingDate      time.Time          `bson:"booking_date" json:"bookingDate"`
	BookingTime      string             `bson:"booking_time" json:"bookingTime"`
	ScheduledAt      time.Time          `bson:"scheduled_at" json:"scheduledAt"`
	ServiceCategory  primitive.ObjectID `bson:"service_category" json:"serviceCategory"`
	ServiceID        primitive.ObjectID `bson:"service_id" json:"serviceId"`
	ServiceDuration  int                `bson:"service_duration" json:"serviceDuration"` // minutes
	ServicePrice     float64            `bson:"service_price" json:"servicePrice"`
	Notes            string             `bson:"notes,omitempty" json:"notes,omitempty"`
	Status           string             `bson:"status" json:"status"`
	BookingReference string             `bson:"booking_reference" json:"bookingReference"`
	CreatedAt        time.Time          `bson:"created_at" json:"createdAt"`
	UpdatedAt        time.Time          `bson:"updated_at" json:"updatedAt"`
}

// Booking statuses. Transitions between them are unconstrained and happen
// only through the status endpoint.
const (
	BookingPending   = "pending"
	BookingConfirmed = "confirmed"
	BookingCancelled = "cancelled"
)

// AllBookingStatuses returns every valid booking status.
func AllBookingStatuses() []string {
	return []string{BookingPending, BookingConfirmed, BookingCancelled}
}

// IsValidBookingStatus reports whether s is a booking status.
func IsValidBookingStatus(s string) bool {
	for _, v := range AllBookingStatuses() {
		if v == s {
			return true
		}
	}
	return false
}
