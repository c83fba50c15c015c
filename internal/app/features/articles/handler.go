// Package articles serves the blog at /api/articles.
//
// Public reads only ever see published articles. Drafts are reachable
// through the admin routes.
package articles

import (
	"context"
	"errors"
	"net/http"
	"strings"

	errorsfeature "github.com/dalemusser/stratawell/internal/app/features/errors"
	articlestore "github.com/dalemusser/stratawell/internal/app/store/articles"
	categorystore "github.com/dalemusser/stratawell/internal/app/store/categories"
	"github.com/dalemusser/stratawell/internal/app/system/inputval"
	"github.com/dalemusser/stratawell/internal/app/system/jsonutil"
	"github.com/dalemusser/stratawell/internal/app/system/lookup"
	"github.com/dalemusser/stratawell/internal/app/system/paging"
	"github.com/dalemusser/stratawell/internal/app/system/timeouts"
	"github.com/dalemusser/stratawell/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/query"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

const (
	noun         = "Article"
	categoryNoun = "Category"
)

var errCategoryNotFound = errors.New("category not found")

// Handler serves article endpoints.
type Handler struct {
	articles   *articlestore.Store
	categories *categorystore.Store
	errLog     *errorsfeature.ErrorLogger
	logger     *zap.Logger
}

// NewHandler creates an article Handler. categories is the article
// category store.
func NewHandler(articles *articlestore.Store, categories *categorystore.Store, errLog *errorsfeature.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{articles: articles, categories: categories, errLog: errLog, logger: logger}
}

type createRequest struct {
	Title          string                `json:"title" validate:"required,max=200" label:"Title"`
	Excerpt        string                `json:"excerpt" validate:"required,max=500" label:"Excerpt"`
	Content        string                `json:"content" validate:"required" label:"Content"`
	Category       string                `json:"category" validate:"required" label:"Category"`
	Author         string                `json:"author" validate:"required,max=100" label:"Author"`
	FeaturedImage  string                `json:"featuredImage" validate:"urlorpath" label:"Featured image"`
	ContentImages  []models.ContentImage `json:"contentImages"`
	Published      bool                  `json:"published"`
	Tags           []string              `json:"tags"`
	SEOTitle       string                `json:"seoTitle" validate:"max=70" label:"SEO title"`
	SEODescription string                `json:"seoDescription" validate:"max=160" label:"SEO description"`
	ReadTime       int                   `json:"readTime"`
}

type updateRequest struct {
	Title          *string                `json:"title"`
	Excerpt        *string                `json:"excerpt"`
	Content        *string                `json:"content"`
	Category       *string                `json:"category"`
	Author         *string                `json:"author"`
	FeaturedImage  *string                `json:"featuredImage"`
	ContentImages  *[]models.ContentImage `json:"contentImages"`
	Published      *bool                  `json:"published"`
	Tags           *[]string              `json:"tags"`
	SEOTitle       *string                `json:"seoTitle"`
	SEODescription *string                `json:"seoDescription"`
	ReadTime       *int                   `json:"readTime"`
}

func blank(s *string) bool {
	return s != nil && strings.TrimSpace(*s) == ""
}

func (in updateRequest) check() string {
	switch {
	case blank(in.Title):
		return "Title cannot be empty."
	case blank(in.Excerpt):
		return "Excerpt cannot be empty."
	case blank(in.Content):
		return "Content cannot be empty."
	case blank(in.Category):
		return "Category cannot be empty."
	case blank(in.Author):
		return "Author cannot be empty."
	case in.FeaturedImage != nil && *in.FeaturedImage != "" && !inputval.IsValidURLOrPath(*in.FeaturedImage):
		return "Featured image must be a URL or a path."
	case in.ReadTime != nil && *in.ReadTime < 0:
		return "Read time cannot be negative."
	}
	return ""
}

func (h *Handler) resolveCategory(r *http.Request, raw string) (primitive.ObjectID, error) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	c, err := h.categories.Get(ctx, lookup.Parse(raw))
	if err == mongo.ErrNoDocuments {
		return primitive.NilObjectID, errCategoryNotFound
	}
	if err != nil {
		return primitive.NilObjectID, err
	}
	return c.ID, nil
}

// filterFromQuery reads ?category, ?tag, and ?search. ok is false when the
// named category does not exist.
func (h *Handler) filterFromQuery(r *http.Request) (f articlestore.ListFilter, ok bool, err error) {
	f.Tag = query.Get(r, "tag")
	f.Search = query.Get(r, "search")
	if raw := query.Get(r, "category"); raw != "" {
		id, err := h.resolveCategory(r, raw)
		if errors.Is(err, errCategoryNotFound) {
			return f, false, nil
		}
		if err != nil {
			return f, false, err
		}
		f.Category = &id
	}
	return f, true, nil
}

func (h *Handler) page(w http.ResponseWriter, r *http.Request, f articlestore.ListFilter) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	p := paging.FromRequest(r, paging.DefaultLimit)
	items, total, err := h.articles.List(ctx, f, p)
	if err != nil {
		h.errLog.Internal(w, r, "list articles failed", err)
		return
	}
	jsonutil.Page(w, items, paging.NewMeta(p, total))
}

// ListPublished serves GET /.
func (h *Handler) ListPublished(w http.ResponseWriter, r *http.Request) {
	f, ok, err := h.filterFromQuery(r)
	if err != nil {
		h.errLog.Internal(w, r, "resolve category failed", err)
		return
	}
	if !ok {
		p := paging.FromRequest(r, paging.DefaultLimit)
		jsonutil.Page(w, []models.Article{}, paging.NewMeta(p, 0))
		return
	}
	f.PublishedOnly = true
	h.page(w, r, f)
}

// ListAll serves GET /admin, drafts included.
func (h *Handler) ListAll(w http.ResponseWriter, r *http.Request) {
	f, ok, err := h.filterFromQuery(r)
	if err != nil {
		h.errLog.Internal(w, r, "resolve category failed", err)
		return
	}
	if !ok {
		p := paging.FromRequest(r, paging.DefaultLimit)
		jsonutil.Page(w, []models.Article{}, paging.NewMeta(p, 0))
		return
	}
	h.page(w, r, f)
}

// ListByCategory serves GET /category/{categorySlug}.
func (h *Handler) ListByCategory(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	cat, err := h.categories.GetActiveBySlug(ctx, chi.URLParam(r, "categorySlug"))
	if err != nil {
		h.errLog.Store(w, r, categoryNoun, err)
		return
	}
	h.page(w, r, articlestore.ListFilter{PublishedOnly: true, Category: &cat.ID})
}

// GetInCategory serves GET /category/{categorySlug}/{articleSlug}.
func (h *Handler) GetInCategory(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	cat, err := h.categories.GetActiveBySlug(ctx, chi.URLParam(r, "categorySlug"))
	if err != nil {
		h.errLog.Store(w, r, categoryNoun, err)
		return
	}
	a, err := h.articles.GetPublishedInCategory(ctx, cat.ID, chi.URLParam(r, "articleSlug"))
	if err != nil {
		h.errLog.Store(w, r, noun, err)
		return
	}
	jsonutil.OK(w, a)
}

// GetPublished serves GET /{idOrSlug}. Drafts answer 404.
func (h *Handler) GetPublished(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	a, err := h.articles.Get(ctx, lookup.Parse(chi.URLParam(r, "idOrSlug")))
	if err == nil && !a.Published {
		err = mongo.ErrNoDocuments
	}
	if err != nil {
		h.errLog.Store(w, r, noun, err)
		return
	}
	jsonutil.OK(w, a)
}

// Get serves GET /admin/{idOrSlug}, drafts included.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	a, err := h.articles.Get(ctx, lookup.Parse(chi.URLParam(r, "idOrSlug")))
	if err != nil {
		h.errLog.Store(w, r, noun, err)
		return
	}
	jsonutil.OK(w, a)
}

// Create serves POST /.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	var in createRequest
	if !jsonutil.DecodeOrReject(w, r, &in) {
		return
	}
	if res := inputval.Validate(in); res.HasErrors() {
		jsonutil.BadRequest(w, res.First())
		return
	}
	if in.ReadTime < 0 {
		jsonutil.BadRequest(w, "Read time cannot be negative.")
		return
	}

	catID, err := h.resolveCategory(r, in.Category)
	if errors.Is(err, errCategoryNotFound) {
		jsonutil.BadRequest(w, "Category not found")
		return
	}
	if err != nil {
		h.errLog.Internal(w, r, "resolve category failed", err)
		return
	}

	a, err := h.articles.Create(ctx, articlestore.CreateInput{
		Title:          in.Title,
		Excerpt:        in.Excerpt,
		Content:        in.Content,
		Category:       catID,
		Author:         in.Author,
		FeaturedImage:  in.FeaturedImage,
		ContentImages:  in.ContentImages,
		Published:      in.Published,
		Tags:           in.Tags,
		SEOTitle:       in.SEOTitle,
		SEODescription: in.SEODescription,
		ReadTime:       in.ReadTime,
	})
	if err != nil {
		h.errLog.Store(w, r, noun, err)
		return
	}
	h.logger.Info("article created",
		zap.String("slug", a.Slug),
		zap.String("id", a.ID.Hex()),
		zap.Bool("published", a.Published))
	jsonutil.Created(w, a)
}

// Update serves PUT /{idOrSlug}.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	var in updateRequest
	if !jsonutil.DecodeOrReject(w, r, &in) {
		return
	}
	if msg := in.check(); msg != "" {
		jsonutil.BadRequest(w, msg)
		return
	}

	up := articlestore.UpdateInput{
		Title:          in.Title,
		Excerpt:        in.Excerpt,
		Content:        in.Content,
		Author:         in.Author,
		FeaturedImage:  in.FeaturedImage,
		ContentImages:  in.ContentImages,
		Published:      in.Published,
		Tags:           in.Tags,
		SEOTitle:       in.SEOTitle,
		SEODescription: in.SEODescription,
		ReadTime:       in.ReadTime,
	}
	if in.Category != nil {
		catID, err := h.resolveCategory(r, *in.Category)
		if errors.Is(err, errCategoryNotFound) {
			jsonutil.BadRequest(w, "Category not found")
			return
		}
		if err != nil {
			h.errLog.Internal(w, r, "resolve category failed", err)
			return
		}
		up.Category = &catID
	}

	a, err := h.articles.Update(ctx, lookup.Parse(chi.URLParam(r, "idOrSlug")), up)
	if err != nil {
		h.errLog.Store(w, r, noun, err)
		return
	}
	jsonutil.OK(w, a)
}

// Delete serves DELETE /{idOrSlug}.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	a, err := h.articles.Delete(ctx, lookup.Parse(chi.URLParam(r, "idOrSlug")))
	if err != nil {
		h.errLog.Store(w, r, noun, err)
		return
	}
	h.logger.Info("article deleted", zap.String("slug", a.Slug), zap.String("id", a.ID.Hex()))
	jsonutil.Message(w, "Article deleted successfully", nil)
}
