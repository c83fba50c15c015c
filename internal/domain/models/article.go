// internal/domain/models/article.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Article is a blog post. Category references article_categories.
// PublishedAt is set the first time Published becomes true and is kept
// afterwards, even if the article is unpublished again.
type Article struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Title          string             `bson:"title" json:"title"`
	Slug           string             `bson:"slug" json:"slug"`
	Excerpt        string             `bson:"excerpt" json:"excerpt"`
	Content        string             `bson:"content" json:"content"` // sanitized HTML
	Category       primitive.ObjectID `bson:"category" json:"category"`
	Author         string             `bson:"author" json:"author"`
	FeaturedImage  string             `bson:"featured_image,omitempty" json:"featuredImage,omitempty"`
	ContentImages  []ContentImage     `bson:"content_images" json:"contentImages"`
	Published      bool               `bson:"published" json:"published"`
	PublishedAt    *time.Time         `bson:"published_at,omitempty" json:"publishedAt,omitempty"`
	Tags           []string           `bson:"tags" json:"tags"`
	SEOTitle       string             `bson:"seo_title,omitempty" json:"seoTitle,omitempty"`
	SEODescription string             `bson:"seo_description,omitempty" json:"seoDescription,omitempty"`
	ReadTime       int                `bson:"read_time,omitempty" json:"readTime,omitempty"` // minutes
	CreatedAt      time.Time          `bson:"created_at" json:"createdAt"`
	UpdatedAt      time.Time          `bson:"updated_at" json:"updatedAt"`
}

// ContentImage is an inline image referenced from article content.
type ContentImage struct {
	URL     string `bson:"url" json:"url"`
	Alt     string `bson:"alt,omitempty" json:"alt,omitempty"`
	Caption string `bson:"caption,omitempty" json:"caption,omitempty"`
}
