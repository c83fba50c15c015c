// internal/domain/models/setting.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Setting is one key/value pair of site-wide text or configuration.
type Setting struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Key       string             `bson:"key" json:"key"`
	Value     string             `bson:"value" json:"value"`
	CreatedAt time.Time          `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updated_at" json:"updatedAt"`
}

// DefaultSettings are returned for keys that have never been saved.
var DefaultSettings = map[string]string{
	"site_name":                    "Serenity Spa",
	"contact_email":                "",
	"contact_phone":                "",
	"contact_address":              "",
	"opening_hours":                "",
	"service_page_hero_title":      "Our Services",
	"service_page_hero_subtitle":   "",
	"service_page_hero_image":      "/assets/service-traditional.jpg",
	"gallery_page_hero_title":      "Gallery",
	"gallery_page_hero_subtitle":   "",
	"gallery_page_hero_image":      "",
	"article_page_hero_title":      "Articles",
	"membership_page_hero_title":   "Membership",
	"booking_page_hero_title":      "Book an Appointment",
	"booking_confirmation_message": "Thank you! We will contact you shortly to confirm your booking.",
}
