// internal/app/store/articles/articlestore.go
package articles

import (
	"context"
	"math"
	"strings"
	"time"

	"github.com/dalemusser/stratawell/internal/app/store/storeutil"
	"github.com/dalemusser/stratawell/internal/app/system/htmlsanitize"
	"github.com/dalemusser/stratawell/internal/app/system/lookup"
	"github.com/dalemusser/stratawell/internal/app/system/normalize"
	"github.com/dalemusser/stratawell/internal/app/system/paging"
	"github.com/dalemusser/stratawell/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// Collection is the articles collection name.
const Collection = "articles"

// WordsPerMinute drives the computed read time.
const WordsPerMinute = 200

// Store wraps the articles collection.
type Store struct {
	c   *mongo.Collection
	now func() time.Time
}

// New returns a Store over db.
func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection(Collection), now: time.Now}
}

// ReadTime returns whole minutes to read content, at least 1.
func ReadTime(content string) int {
	words := htmlsanitize.WordCount(content)
	if words == 0 {
		return 1
	}
	return int(math.Ceil(float64(words) / WordsPerMinute))
}

// CreateInput is the payload for a new article. ReadTime 0 means compute it.
type CreateInput struct {
	Title          string
	Excerpt        string
	Content        string
	Category       primitive.ObjectID
	Author         string
	FeaturedImage  string
	ContentImages  []models.ContentImage
	Published      bool
	Tags           []string
	SEOTitle       string
	SEODescription string
	ReadTime       int
}

// Create sanitizes content, slugs the title, and stamps PublishedAt when the
// article is created published.
func (s *Store) Create(ctx context.Context, in CreateInput) (models.Article, error) {
	title := normalize.Name(in.Title)
	slug := normalize.Slug(title)
	if slug == "" {
		return models.Article{}, storeutil.ErrEmptySlug
	}

	content := htmlsanitize.PrepareRichText(in.Content)
	readTime := in.ReadTime
	if readTime <= 0 {
		readTime = ReadTime(content)
	}

	now := s.now().UTC()
	a := models.Article{
		ID:             primitive.NewObjectID(),
		Title:          title,
		Slug:           slug,
		Excerpt:        strings.TrimSpace(in.Excerpt),
		Content:        content,
		Category:       in.Category,
		Author:         normalize.Name(in.Author),
		FeaturedImage:  strings.TrimSpace(in.FeaturedImage),
		ContentImages:  contentImages(in.ContentImages),
		Published:      in.Published,
		Tags:           normalize.Tags(in.Tags),
		SEOTitle:       strings.TrimSpace(in.SEOTitle),
		SEODescription: strings.TrimSpace(in.SEODescription),
		ReadTime:       readTime,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if in.Published {
		a.PublishedAt = &now
	}
	if _, err := s.c.InsertOne(ctx, a); err != nil {
		if wafflemongo.IsDup(err) {
			return models.Article{}, storeutil.ErrDuplicateSlug
		}
		return models.Article{}, err
	}
	return a, nil
}

func contentImages(in []models.ContentImage) []models.ContentImage {
	out := make([]models.ContentImage, 0, len(in))
	for _, img := range in {
		img.URL = strings.TrimSpace(img.URL)
		if img.URL == "" {
			continue
		}
		img.Alt = strings.TrimSpace(img.Alt)
		img.Caption = strings.TrimSpace(img.Caption)
		out = append(out, img)
	}
	return out
}

// ListFilter narrows List.
type ListFilter struct {
	PublishedOnly bool
	Category      *primitive.ObjectID
	Tag           string
	Search        string
}

func (f ListFilter) bson() bson.M {
	filter := bson.M{}
	if f.PublishedOnly {
		filter["published"] = true
	}
	if f.Category != nil {
		filter["category"] = *f.Category
	}
	if tag := strings.TrimSpace(f.Tag); tag != "" {
		filter["tags"] = tag
	}
	return storeutil.Merge(filter, storeutil.SearchFilter(f.Search, "title", "excerpt", "author"))
}

var newestFirst = bson.D{{Key: "published_at", Value: -1}, {Key: "created_at", Value: -1}}

// List returns one page of articles, most recently published first.
func (s *Store) List(ctx context.Context, f ListFilter, p paging.Params) ([]models.Article, int64, error) {
	return storeutil.FindPage[models.Article](ctx, s.c, f.bson(), newestFirst, p)
}

// ListAll returns every matching article, unpaginated.
func (s *Store) ListAll(ctx context.Context, f ListFilter) ([]models.Article, error) {
	return storeutil.FindAll[models.Article](ctx, s.c, f.bson(), newestFirst)
}

// Get resolves k. Returns mongo.ErrNoDocuments if absent.
func (s *Store) Get(ctx context.Context, k lookup.Key) (models.Article, error) {
	return storeutil.FindOneByKey[models.Article](ctx, s.c, k, nil)
}

// GetPublishedInCategory finds a published article by slug within category.
func (s *Store) GetPublishedInCategory(ctx context.Context, category primitive.ObjectID, slug string) (models.Article, error) {
	return storeutil.FindOneByKey[models.Article](ctx, s.c, lookup.BySlug(slug), bson.M{
		"category":  category,
		"published": true,
	})
}

// UpdateInput holds the fields to change; nil leaves a field untouched.
type UpdateInput struct {
	Title          *string
	Excerpt        *string
	Content        *string
	Category       *primitive.ObjectID
	Author         *string
	FeaturedImage  *string
	ContentImages  *[]models.ContentImage
	Published      *bool
	Tags           *[]string
	SEOTitle       *string
	SEODescription *string
	ReadTime       *int
}

// Update applies in. A changed title re-derives the slug; new content
// recomputes the read time unless one is supplied; the first publish stamps
// PublishedAt.
func (s *Store) Update(ctx context.Context, k lookup.Key, in UpdateInput) (models.Article, error) {
	cur, err := s.Get(ctx, k)
	if err != nil {
		return models.Article{}, err
	}

	now := s.now().UTC()
	set := bson.M{"updated_at": now}
	if in.Title != nil {
		title := normalize.Name(*in.Title)
		if title != cur.Title {
			slug := normalize.Slug(title)
			if slug == "" {
				return models.Article{}, storeutil.ErrEmptySlug
			}
			set["title"] = title
			set["slug"] = slug
		}
	}
	if in.Excerpt != nil {
		set["excerpt"] = strings.TrimSpace(*in.Excerpt)
	}
	if in.Content != nil {
		content := htmlsanitize.PrepareRichText(*in.Content)
		set["content"] = content
		if in.ReadTime == nil {
			set["read_time"] = ReadTime(content)
		}
	}
	if in.ReadTime != nil && *in.ReadTime > 0 {
		set["read_time"] = *in.ReadTime
	}
	if in.Category != nil {
		set["category"] = *in.Category
	}
	if in.Author != nil {
		set["author"] = normalize.Name(*in.Author)
	}
	if in.FeaturedImage != nil {
		set["featured_image"] = strings.TrimSpace(*in.FeaturedImage)
	}
	if in.ContentImages != nil {
		set["content_images"] = contentImages(*in.ContentImages)
	}
	if in.Published != nil {
		set["published"] = *in.Published
		if *in.Published && cur.PublishedAt == nil {
			set["published_at"] = now
		}
	}
	if in.Tags != nil {
		set["tags"] = normalize.Tags(*in.Tags)
	}
	if in.SEOTitle != nil {
		set["seo_title"] = strings.TrimSpace(*in.SEOTitle)
	}
	if in.SEODescription != nil {
		set["seo_description"] = strings.TrimSpace(*in.SEODescription)
	}

	var out models.Article
	err = s.c.FindOneAndUpdate(ctx, bson.M{"_id": cur.ID}, bson.M{"$set": set}, storeutil.ReturnAfter()).Decode(&out)
	if err != nil {
		if wafflemongo.IsDup(err) {
			return models.Article{}, storeutil.ErrDuplicateSlug
		}
		return models.Article{}, err
	}
	return out, nil
}

// Delete removes the article matched by k and returns it.
func (s *Store) Delete(ctx context.Context, k lookup.Key) (models.Article, error) {
	return storeutil.DeleteByKey[models.Article](ctx, s.c, k)
}
