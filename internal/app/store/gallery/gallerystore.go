// internal/app/store/gallery/gallerystore.go
package gallery

import (
	"context"
	"strings"
	"time"

	"github.com/dalemusser/stratawell/internal/app/store/storeutil"
	"github.com/dalemusser/stratawell/internal/app/system/normalize"
	"github.com/dalemusser/stratawell/internal/app/system/paging"
	"github.com/dalemusser/stratawell/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Collection is the gallery collection name.
const Collection = "gallery_images"

// Store wraps the gallery_images collection.
type Store struct {
	c *mongo.Collection
}

// New returns a Store over db.
func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection(Collection)}
}

// CreateInput describes a gallery image. IsPublished defaults to true.
type CreateInput struct {
	Title       string
	Caption     string
	Alt         string
	URL         string
	Width       int
	Height      int
	FileSize    int64
	MimeType    string
	PublicID    string
	Tags        []string
	IsPublished *bool
	Order       int
	CreatedBy   string
}

// Create inserts a new image.
func (s *Store) Create(ctx context.Context, in CreateInput) (models.GalleryImage, error) {
	published := true
	if in.IsPublished != nil {
		published = *in.IsPublished
	}
	now := time.Now().UTC()
	img := models.GalleryImage{
		ID:          primitive.NewObjectID(),
		Title:       strings.TrimSpace(in.Title),
		Caption:     strings.TrimSpace(in.Caption),
		Alt:         strings.TrimSpace(in.Alt),
		URL:         strings.TrimSpace(in.URL),
		Width:       in.Width,
		Height:      in.Height,
		FileSize:    in.FileSize,
		MimeType:    in.MimeType,
		PublicID:    in.PublicID,
		Tags:        normalize.Tags(in.Tags),
		IsPublished: published,
		Order:       in.Order,
		CreatedBy:   in.CreatedBy,
		UpdatedBy:   in.CreatedBy,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if _, err := s.c.InsertOne(ctx, img); err != nil {
		return models.GalleryImage{}, err
	}
	return img, nil
}

var displayOrder = bson.D{{Key: "order", Value: 1}, {Key: "created_at", Value: -1}}

// ListPublished returns the public gallery in display order, optionally
// restricted to one tag.
func (s *Store) ListPublished(ctx context.Context, tag string) ([]models.GalleryImage, error) {
	filter := bson.M{"is_published": true}
	if tag = strings.TrimSpace(tag); tag != "" {
		filter["tags"] = tag
	}
	return storeutil.FindAll[models.GalleryImage](ctx, s.c, filter, displayOrder)
}

// AdminFilter narrows ListAdmin.
type AdminFilter struct {
	Search    string
	Published *bool
}

// ListAdmin returns one page of every image, searching title, caption and alt.
func (s *Store) ListAdmin(ctx context.Context, f AdminFilter, p paging.Params) ([]models.GalleryImage, int64, error) {
	filter := bson.M{}
	if f.Published != nil {
		filter["is_published"] = *f.Published
	}
	filter = storeutil.Merge(filter, storeutil.SearchFilter(f.Search, "title", "caption", "alt"))
	return storeutil.FindPage[models.GalleryImage](ctx, s.c, filter, displayOrder, p)
}

func (s *Store) Get(ctx context.Context, id primitive.ObjectID) (models.GalleryImage, error) {
	var img models.GalleryImage
	err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&img)
	return img, err
}

// UpdateInput holds the fields to change. The asset itself is immutable;
// upload a new image instead.
type UpdateInput struct {
	Title       *string
	Caption     *string
	Alt         *string
	Tags        *[]string
	IsPublished *bool
	Order       *int
	UpdatedBy   string
}

func (s *Store) Update(ctx context.Context, id primitive.ObjectID, in UpdateInput) (models.GalleryImage, error) {
	set := bson.M{"updated_at": time.Now().UTC()}
	if in.UpdatedBy != "" {
		set["updated_by"] = in.UpdatedBy
	}
	if in.Title != nil {
		set["title"] = strings.TrimSpace(*in.Title)
	}
	if in.Caption != nil {
		set["caption"] = strings.TrimSpace(*in.Caption)
	}
	if in.Alt != nil {
		set["alt"] = strings.TrimSpace(*in.Alt)
	}
	if in.Tags != nil {
		set["tags"] = normalize.Tags(*in.Tags)
	}
	if in.IsPublished != nil {
		set["is_published"] = *in.IsPublished
	}
	if in.Order != nil {
		set["order"] = *in.Order
	}

	var out models.GalleryImage
	err := s.c.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, storeutil.ReturnAfter()).Decode(&out)
	return out, err
}

// OrderItem assigns a display position to one image.
type OrderItem struct {
	ID    primitive.ObjectID
	Order int
}

// Reorder applies every position in one unordered bulk write and returns
// how many images matched.
func (s *Store) Reorder(ctx context.Context, items []OrderItem, updatedBy string) (int64, error) {
	if len(items) == 0 {
		return 0, nil
	}
	now := time.Now().UTC()
	writes := make([]mongo.WriteModel, 0, len(items))
	for _, it := range items {
		set := bson.M{"order": it.Order, "updated_at": now}
		if updatedBy != "" {
			set["updated_by"] = updatedBy
		}
		writes = append(writes, mongo.NewUpdateOneModel().
			SetFilter(bson.M{"_id": it.ID}).
			SetUpdate(bson.M{"$set": set}))
	}
	res, err := s.c.BulkWrite(ctx, writes, options.BulkWrite().SetOrdered(false))
	if err != nil {
		return 0, err
	}
	return res.MatchedCount, nil
}

// Delete removes the image and returns it so the caller can drop the asset.
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) (models.GalleryImage, error) {
	var img models.GalleryImage
	err := s.c.FindOneAndDelete(ctx, bson.M{"_id": id}).Decode(&img)
	return img, err
}

// CountByPublicID counts images still pointing at the stored asset publicID.
func (s *Store) CountByPublicID(ctx context.Context, publicID string) (int64, error) {
	return s.c.CountDocuments(ctx, bson.M{"public_id": publicID})
}
