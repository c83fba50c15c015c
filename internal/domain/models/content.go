// internal/domain/models/content.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Singleton names in the site_content collection.
const (
	SingletonHomepage = "homepage"
	SingletonAbout    = "about"
)

// Hero is the banner block at the top of a marketing page.
type Hero struct {
	Title    string `bson:"title" json:"title"`
	Subtitle string `bson:"subtitle" json:"subtitle"`
	Image    string `bson:"image" json:"image"`
	CTAText  string `bson:"cta_text" json:"ctaText"`
	CTALink  string `bson:"cta_link" json:"ctaLink"`
}

// Section is a titled block of rich text with an optional image.
type Section struct {
	Title   string `bson:"title" json:"title"`
	Content string `bson:"content" json:"content"`
	Image   string `bson:"image" json:"image"`
}

// Feature is one item of a feature or value list.
type Feature struct {
	Title       string `bson:"title" json:"title"`
	Description string `bson:"description" json:"description"`
	Icon        string `bson:"icon" json:"icon"`
}

// TeamMember is shown on the about page.
type TeamMember struct {
	Name  string `bson:"name" json:"name"`
	Role  string `bson:"role" json:"role"`
	Bio   string `bson:"bio" json:"bio"`
	Image string `bson:"image" json:"image"`
}

// HomepageContent is the single document behind the public homepage.
type HomepageContent struct {
	ID                    primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Singleton             string             `bson:"singleton,omitempty" json:"-"`
	Hero                  Hero               `bson:"hero" json:"hero"`
	Intro                 Section            `bson:"intro" json:"intro"`
	FeaturedServicesTitle string             `bson:"featured_services_title" json:"featuredServicesTitle"`
	WhyChooseUs           []Feature          `bson:"why_choose_us" json:"whyChooseUs"`
	CTA                   Section            `bson:"cta" json:"cta"`
	CreatedAt             time.Time          `bson:"created_at" json:"createdAt"`
	UpdatedAt             time.Time          `bson:"updated_at" json:"updatedAt"`
}

// AboutContent is the single document behind the about page.
type AboutContent struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Singleton string             `bson:"singleton,omitempty" json:"-"`
	Hero      Hero               `bson:"hero" json:"hero"`
	Story     Section            `bson:"story" json:"story"`
	Mission   Section            `bson:"mission" json:"mission"`
	Values    []Feature          `bson:"values" json:"values"`
	Team      []TeamMember       `bson:"team" json:"team"`
	CreatedAt time.Time          `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updated_at" json:"updatedAt"`
}

// DefaultHomepage is the content a fresh site starts with.
func DefaultHomepage() HomepageContent {
	return HomepageContent{
		Hero: Hero{
			Title:    "Relax. Restore. Renew.",
			Subtitle: "Traditional treatments and modern therapies in a calm space.",
			CTAText:  "Book Now",
			CTALink:  "/booking",
		},
		Intro: Section{
			Title: "Welcome",
		},
		FeaturedServicesTitle: "Featured Services",
		WhyChooseUs:           []Feature{},
		CTA: Section{
			Title: "Ready to unwind?",
		},
	}
}

// DefaultAbout is the about page a fresh site starts with.
func DefaultAbout() AboutContent {
	return AboutContent{
		Hero: Hero{
			Title: "About Us",
		},
		Story:   Section{Title: "Our Story"},
		Mission: Section{Title: "Our Mission"},
		Values:  []Feature{},
		Team:    []TeamMember{},
	}
}
