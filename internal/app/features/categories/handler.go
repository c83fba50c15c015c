// Package categories serves the two category collections: service
// categories at /api/categories and article categories at
// /api/article-categories. Both share one handler shape.
package categories

import (
	"context"
	"net/http"
	"strings"

	errorsfeature "github.com/dalemusser/stratawell/internal/app/features/errors"
	categorystore "github.com/dalemusser/stratawell/internal/app/store/categories"
	"github.com/dalemusser/stratawell/internal/app/system/inputval"
	"github.com/dalemusser/stratawell/internal/app/system/jsonutil"
	"github.com/dalemusser/stratawell/internal/app/system/lookup"
	"github.com/dalemusser/stratawell/internal/app/system/timeouts"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// Handler serves one category collection.
type Handler struct {
	store  *categorystore.Store
	noun   string
	errLog *errorsfeature.ErrorLogger
	logger *zap.Logger
}

// NewHandler creates a category Handler. noun names the entity in messages
// ("Category").
func NewHandler(store *categorystore.Store, noun string, errLog *errorsfeature.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{store: store, noun: noun, errLog: errLog, logger: logger}
}

type createRequest struct {
	Name        string `json:"name" validate:"required,max=100" label:"Name"`
	Description string `json:"description" validate:"max=1000" label:"Description"`
	Image       string `json:"image" validate:"urlorpath" label:"Image"`
	Order       int    `json:"order"`
	IsActive    *bool  `json:"isActive"`
}

type updateRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Image       *string `json:"image"`
	Order       *int    `json:"order"`
	IsActive    *bool   `json:"isActive"`
}

func (in updateRequest) check() string {
	switch {
	case in.Name != nil && strings.TrimSpace(*in.Name) == "":
		return "Name cannot be empty."
	case in.Image != nil && *in.Image != "" && !inputval.IsValidURLOrPath(*in.Image):
		return "Image must be a URL or a path."
	case in.Order != nil && *in.Order < 0:
		return "Order cannot be negative."
	}
	return ""
}

// ListActive serves GET / with active categories only.
func (h *Handler) ListActive(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, true)
}

// ListAll serves GET /admin with every category.
func (h *Handler) ListAll(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, false)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request, activeOnly bool) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	items, err := h.store.List(ctx, activeOnly)
	if err != nil {
		h.errLog.Internal(w, r, "list categories failed", err)
		return
	}
	jsonutil.OK(w, items)
}

// Get serves GET /{idOrSlug}.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	c, err := h.store.Get(ctx, lookup.Parse(chi.URLParam(r, "idOrSlug")))
	if err != nil {
		h.errLog.Store(w, r, h.noun, err)
		return
	}
	jsonutil.OK(w, c)
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
	if in.Order < 0 {
		jsonutil.BadRequest(w, "Order cannot be negative.")
		return
	}

	c, err := h.store.Create(ctx, categorystore.CreateInput{
		Name:        in.Name,
		Description: in.Description,
		Image:       in.Image,
		Order:       in.Order,
		IsActive:    in.IsActive,
	})
	if err != nil {
		h.errLog.Store(w, r, h.noun, err)
		return
	}
	h.logger.Info("category created", zap.String("slug", c.Slug), zap.String("id", c.ID.Hex()))
	jsonutil.Created(w, c)
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

	c, err := h.store.Update(ctx, lookup.Parse(chi.URLParam(r, "idOrSlug")), categorystore.UpdateInput{
		Name:        in.Name,
		Description: in.Description,
		Image:       in.Image,
		Order:       in.Order,
		IsActive:    in.IsActive,
	})
	if err != nil {
		h.errLog.Store(w, r, h.noun, err)
		return
	}
	jsonutil.OK(w, c)
}

// Delete serves DELETE /{idOrSlug}. Services or articles pointing at the
// category keep their reference.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	c, err := h.store.Delete(ctx, lookup.Parse(chi.URLParam(r, "idOrSlug")))
	if err != nil {
		h.errLog.Store(w, r, h.noun, err)
		return
	}
	h.logger.Info("category deleted", zap.String("slug", c.Slug), zap.String("id", c.ID.Hex()))
	jsonutil.Message(w, h.noun+" deleted successfully", nil)
}
