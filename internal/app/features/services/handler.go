// Package services serves the treatment catalogue at /api/services.
package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	errorsfeature "github.com/dalemusser/stratawell/internal/app/features/errors"
	categorystore "github.com/dalemusser/stratawell/internal/app/store/categories"
	servicestore "github.com/dalemusser/stratawell/internal/app/store/services"
	"github.com/dalemusser/stratawell/internal/app/system/inputval"
	"github.com/dalemusser/stratawell/internal/app/system/jsonutil"
	"github.com/dalemusser/stratawell/internal/app/system/lookup"
	"github.com/dalemusser/stratawell/internal/app/system/timeouts"
	"github.com/dalemusser/stratawell/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/query"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

const noun = "Service"

var errCategoryNotFound = errors.New("category not found")

// Handler serves service endpoints.
type Handler struct {
	services   *servicestore.Store
	categories *categorystore.Store
	errLog     *errorsfeature.ErrorLogger
	logger     *zap.Logger
}

// NewHandler creates a service Handler. categories is the service
// category store used to resolve category slugs.
func NewHandler(services *servicestore.Store, categories *categorystore.Store, errLog *errorsfeature.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{services: services, categories: categories, errLog: errLog, logger: logger}
}

type createRequest struct {
	Title             string                   `json:"title" validate:"required,max=200" label:"Title"`
	Category          string                   `json:"category" validate:"required" label:"Category"`
	ShortDesc         string                   `json:"shortDesc" validate:"required,max=500" label:"Short description"`
	LongDesc          string                   `json:"longDesc" label:"Long description"`
	Benefits          []string                 `json:"benefits"`
	Durations         []models.ServiceDuration `json:"durations"`
	Images            []string                 `json:"images"`
	Featured          bool                     `json:"featured"`
	Contraindications string                   `json:"contraindications"`
	FAQs              []models.FAQ             `json:"faqs"`
}

type updateRequest struct {
	Title             *string                   `json:"title"`
	Category          *string                   `json:"category"`
	ShortDesc         *string                   `json:"shortDesc"`
	LongDesc          *string                   `json:"longDesc"`
	Benefits          *[]string                 `json:"benefits"`
	Durations         *[]models.ServiceDuration `json:"durations"`
	Images            *[]string                 `json:"images"`
	Featured          *bool                     `json:"featured"`
	Contraindications *string                   `json:"contraindications"`
	FAQs              *[]models.FAQ             `json:"faqs"`
}

func checkDurations(ds []models.ServiceDuration) string {
	for i, d := range ds {
		if d.Minutes <= 0 {
			return fmt.Sprintf("Duration %d must have a positive number of minutes.", i+1)
		}
		if d.Price < 0 {
			return fmt.Sprintf("Duration %d cannot have a negative price.", i+1)
		}
	}
	return ""
}

func checkImages(images []string) string {
	for _, img := range images {
		if !inputval.IsValidURLOrPath(img) {
			return "Images must be URLs or paths."
		}
	}
	return ""
}

func (in updateRequest) check() string {
	switch {
	case in.Title != nil && strings.TrimSpace(*in.Title) == "":
		return "Title cannot be empty."
	case in.ShortDesc != nil && strings.TrimSpace(*in.ShortDesc) == "":
		return "Short description cannot be empty."
	case in.Category != nil && strings.TrimSpace(*in.Category) == "":
		return "Category cannot be empty."
	}
	if in.Durations != nil {
		if msg := checkDurations(*in.Durations); msg != "" {
			return msg
		}
	}
	if in.Images != nil {
		return checkImages(*in.Images)
	}
	return ""
}

// resolveCategory maps a category slug or id to its id.
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

// List serves GET / and GET /admin. ?category takes a category slug or id;
// ?featured=true keeps featured services only.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	var f servicestore.ListFilter
	if raw := query.Get(r, "category"); raw != "" {
		id, err := h.resolveCategory(r, raw)
		if errors.Is(err, errCategoryNotFound) {
			// an unknown category has no services
			jsonutil.OK(w, []models.Service{})
			return
		}
		if err != nil {
			h.errLog.Internal(w, r, "resolve category failed", err)
			return
		}
		f.Category = &id
	}
	if raw := query.Get(r, "featured"); raw != "" {
		featured := strings.EqualFold(raw, "true") || raw == "1"
		f.Featured = &featured
	}

	items, err := h.services.List(ctx, f)
	if err != nil {
		h.errLog.Internal(w, r, "list services failed", err)
		return
	}
	jsonutil.OK(w, items)
}

// Get serves GET /{idOrSlug}.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	s, err := h.services.Get(ctx, lookup.Parse(chi.URLParam(r, "idOrSlug")))
	if err != nil {
		h.errLog.Store(w, r, noun, err)
		return
	}
	jsonutil.OK(w, s)
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
	if msg := checkDurations(in.Durations); msg != "" {
		jsonutil.BadRequest(w, msg)
		return
	}
	if msg := checkImages(in.Images); msg != "" {
		jsonutil.BadRequest(w, msg)
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

	s, err := h.services.Create(ctx, servicestore.CreateInput{
		Title:             in.Title,
		Category:          catID,
		ShortDesc:         in.ShortDesc,
		LongDesc:          in.LongDesc,
		Benefits:          in.Benefits,
		Durations:         in.Durations,
		Images:            in.Images,
		Featured:          in.Featured,
		Contraindications: in.Contraindications,
		FAQs:              in.FAQs,
	})
	if err != nil {
		h.errLog.Store(w, r, noun, err)
		return
	}
	h.logger.Info("service created", zap.String("slug", s.Slug), zap.String("id", s.ID.Hex()))
	jsonutil.Created(w, s)
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

	up := servicestore.UpdateInput{
		Title:             in.Title,
		ShortDesc:         in.ShortDesc,
		LongDesc:          in.LongDesc,
		Benefits:          in.Benefits,
		Durations:         in.Durations,
		Images:            in.Images,
		Featured:          in.Featured,
		Contraindications: in.Contraindications,
		FAQs:              in.FAQs,
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

	s, err := h.services.Update(ctx, lookup.Parse(chi.URLParam(r, "idOrSlug")), up)
	if err != nil {
		h.errLog.Store(w, r, noun, err)
		return
	}
	jsonutil.OK(w, s)
}

// Delete serves DELETE /{idOrSlug}.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	s, err := h.services.Delete(ctx, lookup.Parse(chi.URLParam(r, "idOrSlug")))
	if err != nil {
		h.errLog.Store(w, r, noun, err)
		return
	}
	h.logger.Info("service deleted", zap.String("slug", s.Slug), zap.String("id", s.ID.Hex()))
	jsonutil.Message(w, "Service deleted successfully", nil)
}
