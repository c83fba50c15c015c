// Package testimonials serves client quotes at /api/testimonials.
package testimonials

import (
	"context"
	"errors"
	"net/http"
	"strings"

	errorsfeature "github.com/dalemusser/stratawell/internal/app/features/errors"
	testimonialstore "github.com/dalemusser/stratawell/internal/app/store/testimonials"
	"github.com/dalemusser/stratawell/internal/app/system/inputval"
	"github.com/dalemusser/stratawell/internal/app/system/jsonutil"
	"github.com/dalemusser/stratawell/internal/app/system/lookup"
	"github.com/dalemusser/stratawell/internal/app/system/timeouts"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

const (
	noun          = "Testimonial"
	ratingMessage = "Rating must be between 1 and 5."
)

// Handler serves testimonial endpoints.
type Handler struct {
	store  *testimonialstore.Store
	errLog *errorsfeature.ErrorLogger
	logger *zap.Logger
}

// NewHandler creates a testimonials Handler.
func NewHandler(store *testimonialstore.Store, errLog *errorsfeature.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{store: store, errLog: errLog, logger: logger}
}

// Rating 0 means "not given" and defaults to five stars.
type createRequest struct {
	Name      string `json:"name" validate:"required,max=100" label:"Name"`
	Quote     string `json:"quote" validate:"required,max=2000" label:"Quote"`
	Rating    int    `json:"rating"`
	AvatarURL string `json:"avatarUrl" validate:"urlorpath" label:"Avatar URL"`
}

type updateRequest struct {
	Name      *string `json:"name"`
	Quote     *string `json:"quote"`
	Rating    *int    `json:"rating"`
	AvatarURL *string `json:"avatarUrl"`
}

func (in updateRequest) check() string {
	switch {
	case in.Name != nil && strings.TrimSpace(*in.Name) == "":
		return "Name cannot be empty."
	case in.Quote != nil && strings.TrimSpace(*in.Quote) == "":
		return "Quote cannot be empty."
	case in.AvatarURL != nil && *in.AvatarURL != "" && !inputval.IsValidURLOrPath(*in.AvatarURL):
		return "Avatar URL must be a URL starting with http:// or https://, or a path starting with /."
	}
	return ""
}

func pathID(r *http.Request) (primitive.ObjectID, bool) {
	k := lookup.IDOnly(chi.URLParam(r, "id"))
	return k.ID, k.HasID
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, testimonialstore.ErrInvalidRating) {
		jsonutil.BadRequest(w, ratingMessage)
		return
	}
	h.errLog.Store(w, r, noun, err)
}

// List serves GET /, newest first.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	items, err := h.store.List(ctx)
	if err != nil {
		h.errLog.Internal(w, r, "list testimonials failed", err)
		return
	}
	jsonutil.OK(w, items)
}

// Get serves GET /{id}.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	id, ok := pathID(r)
	if !ok {
		jsonutil.NotFound(w, "Testimonial not found")
		return
	}
	t, err := h.store.Get(ctx, id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	jsonutil.OK(w, t)
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
	t, err := h.store.Create(ctx, testimonialstore.CreateInput{
		Name:      in.Name,
		Quote:     in.Quote,
		Rating:    in.Rating,
		AvatarURL: in.AvatarURL,
	})
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.logger.Info("testimonial created", zap.String("id", t.ID.Hex()), zap.Int("rating", t.Rating))
	jsonutil.Created(w, t)
}

// Update serves PUT /{id}.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	id, ok := pathID(r)
	if !ok {
		jsonutil.NotFound(w, "Testimonial not found")
		return
	}
	var in updateRequest
	if !jsonutil.DecodeOrReject(w, r, &in) {
		return
	}
	if msg := in.check(); msg != "" {
		jsonutil.BadRequest(w, msg)
		return
	}
	t, err := h.store.Update(ctx, id, testimonialstore.UpdateInput{
		Name:      in.Name,
		Quote:     in.Quote,
		Rating:    in.Rating,
		AvatarURL: in.AvatarURL,
	})
	if err != nil {
		h.fail(w, r, err)
		return
	}
	jsonutil.OK(w, t)
}

// Delete serves DELETE /{id}.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	id, ok := pathID(r)
	if !ok {
		jsonutil.NotFound(w, "Testimonial not found")
		return
	}
	if err := h.store.Delete(ctx, id); err != nil {
		h.fail(w, r, err)
		return
	}
	jsonutil.Message(w, "Testimonial deleted successfully", nil)
}
