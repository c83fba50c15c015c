// internal/domain/models/gallery.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// GalleryImage is a picture shown on the public gallery page.
// PublicID is the storage path of an uploaded asset; it is empty for images
// that reference an external URL.
type GalleryImage struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Title       string             `bson:"title,omitempty" json:"title,omitempty"`
	Caption     string             `bson:"caption,omitempty" json:"caption,omitempty"`
	Alt         string             `bson:"alt,omitempty" json:"alt,omitempty"`
	URL         string             `bson:"url" json:"url"`
	Width       int                `bson:"width,omitempty" json:"width,omitempty"`
	Height      int                `bson:"height,omitempty" json:"height,omitempty"`
	FileSize    int64              `bson:"file_size,omitempty" json:"fileSize,omitempty"`
	MimeType    string             `bson:"mime_type,omitempty" json:"mimeType,omitempty"`
	PublicID    string             `bson:"public_id,omitempty" json:"publicId,omitempty"`
	Tags        []string           `bson:"tags" json:"tags"`
	IsPublished bool               `bson:"is_published" json:"isPublished"`
	Order       int                `bson:"order" json:"order"`
	CreatedBy   string             `bson:"created_by,omitempty" json:"createdBy,omitempty"`
	UpdatedBy   string             `bson:"updated_by,omitempty" json:"updatedBy,omitempty"`
	CreatedAt   time.Time          `bson:"created_at" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updated_at" json:"updatedAt"`
}
