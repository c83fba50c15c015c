// internal/domain/models/service.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Service is a bookable treatment. Category references a document in the
// categories collection; deleting that category leaves the reference dangling.
type Service struct {
	ID                primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Title             string             `bson:"title" json:"title"`
	Slug              string             `bson:"slug" json:"slug"`
	Category          primitive.ObjectID `bson:"category" json:"category"`
	ShortDesc         string             `bson:"short_desc" json:"shortDesc"`
	LongDesc          string             `bson:"long_desc,omitempty" json:"longDesc,omitempty"`
	Benefits          []string           `bson:"benefits" json:"benefits"`
	Durations         []ServiceDuration  `bson:"durations" json:"durations"`
	Images            []string           `bson:"images" json:"images"`
	Featured          bool               `bson:"featured" json:"featured"`
	Contraindications string             `bson:"contraindications,omitempty" json:"contraindications,omitempty"`
	FAQs              []FAQ              `bson:"faqs" json:"faqs"`
	CreatedAt         time.Time          `bson:"created_at" json:"createdAt"`
	UpdatedAt         time.Time          `bson:"updated_at" json:"updatedAt"`
}

// ServiceDuration is one priced length of a service.
type ServiceDuration struct {
	Minutes int     `bson:"minutes" json:"minutes"`
	Price   float64 `bson:"price" json:"price"`
}

// FAQ is a question/answer pair shown on a service page.
type FAQ struct {
	Question string `bson:"question" json:"question"`
	Answer   string `bson:"answer" json:"answer"`
}
