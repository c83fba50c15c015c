// Package gallery manages the public photo gallery. Images arrive either
// as a multipart upload or as JSON pointing at an already-uploaded asset.
package gallery

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	errorsfeature "github.com/dalemusser/stratawell/internal/app/features/errors"
	gallerystore "github.com/dalemusser/stratawell/internal/app/store/gallery"
	"github.com/dalemusser/stratawell/internal/app/system/auth"
	"github.com/dalemusser/stratawell/internal/app/system/inputval"
	"github.com/dalemusser/stratawell/internal/app/system/jsonutil"
	"github.com/dalemusser/stratawell/internal/app/system/lookup"
	"github.com/dalemusser/stratawell/internal/app/system/paging"
	"github.com/dalemusser/stratawell/internal/app/system/timeouts"
	"github.com/dalemusser/stratawell/internal/app/system/uploads"
	"github.com/dalemusser/waffle/pantry/query"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

const noun = "Gallery image"

// Handler serves gallery endpoints.
type Handler struct {
	store    *gallerystore.Store
	uploader *uploads.Uploader
	maxBytes int64
	errLog   *errorsfeature.ErrorLogger
	logger   *zap.Logger
}

// NewHandler creates a gallery Handler. maxBytes <= 0 uses uploads.MaxGalleryBytes.
func NewHandler(store *gallerystore.Store, uploader *uploads.Uploader, maxBytes int64, errLog *errorsfeature.ErrorLogger, logger *zap.Logger) *Handler {
	if maxBytes <= 0 {
		maxBytes = uploads.MaxGalleryBytes
	}
	return &Handler{store: store, uploader: uploader, maxBytes: maxBytes, errLog: errLog, logger: logger}
}

// createRequest is the JSON form of POST /. The multipart form carries the
// same fields as text values next to the "image" file.
type createRequest struct {
	Title       string   `json:"title" validate:"max=200" label:"Title"`
	Caption     string   `json:"caption" validate:"max=500" label:"Caption"`
	Alt         string   `json:"alt" validate:"max=200" label:"Alt text"`
	URL         string   `json:"url" validate:"required,urlorpath" label:"Image URL"`
	Width       int      `json:"width"`
	Height      int      `json:"height"`
	FileSize    int64    `json:"fileSize"`
	MimeType    string   `json:"mimeType"`
	PublicID    string   `json:"publicId"`
	Tags        []string `json:"tags"`
	IsPublished *bool    `json:"isPublished"`
	Order       int      `json:"order"`
}

type updateRequest struct {
	Title       *string   `json:"title"`
	Caption     *string   `json:"caption"`
	Alt         *string   `json:"alt"`
	Tags        *[]string `json:"tags"`
	IsPublished *bool     `json:"isPublished"`
	Order       *int      `json:"order"`
}

type reorderRequest struct {
	Items []struct {
		ID    string `json:"id"`
		Order int    `json:"order"`
	} `json:"items"`
}

func pathID(r *http.Request) (primitive.ObjectID, bool) {
	k := lookup.IDOnly(chi.URLParam(r, "id"))
	return k.ID, k.HasID
}

// actor is the email recorded in createdBy/updatedBy.
func actor(r *http.Request) string {
	if c, ok := auth.CurrentClaims(r); ok {
		return c.Email
	}
	return ""
}

func isMultipart(r *http.Request) bool {
	return strings.HasPrefix(strings.ToLower(r.Header.Get("Content-Type")), "multipart/form-data")
}

// ListPublic serves GET / and GET /public with an optional ?tag.
func (h *Handler) ListPublic(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	items, err := h.store.ListPublished(ctx, query.Get(r, "tag"))
	if err != nil {
		h.errLog.Internal(w, r, "list gallery failed", err)
		return
	}
	jsonutil.OK(w, items)
}

// ListAdmin serves GET /admin with ?page, ?limit, ?search, and ?published.
func (h *Handler) ListAdmin(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	p := paging.FromRequest(r, paging.DefaultLimit)
	f := gallerystore.AdminFilter{Search: query.Get(r, "search")}
	if raw := query.Get(r, "published"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			jsonutil.BadRequest(w, "published must be true or false")
			return
		}
		f.Published = &v
	}
	items, total, err := h.store.ListAdmin(ctx, f, p)
	if err != nil {
		h.errLog.Internal(w, r, "list gallery failed", err)
		return
	}
	jsonutil.Page(w, items, paging.NewMeta(p, total))
}

// Get serves GET /{id}.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	id, ok := pathID(r)
	if !ok {
		jsonutil.NotFound(w, "Gallery image not found")
		return
	}
	img, err := h.store.Get(ctx, id)
	if err != nil {
		h.errLog.Store(w, r, noun, err)
		return
	}
	jsonutil.OK(w, img)
}

// Create serves POST /.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	var in createRequest
	if isMultipart(r) {
		res, err := h.uploader.UploadFormFile(w, r, "image", h.maxBytes)
		if err != nil {
			if msg := uploads.Message(err, h.maxBytes); msg != "" {
				jsonutil.BadRequest(w, msg)
				return
			}
			h.errLog.Internal(w, r, "gallery upload failed", err)
			return
		}
		in = formRequest(r, res)
		if msg := checkForm(in); msg != "" {
			h.discard(ctx, res.PublicID)
			jsonutil.BadRequest(w, msg)
			return
		}
	} else {
		if !jsonutil.DecodeOrReject(w, r, &in) {
			return
		}
		if res := inputval.Validate(in); res.HasErrors() {
			jsonutil.BadRequest(w, res.First())
			return
		}
	}

	img, err := h.store.Create(ctx, gallerystore.CreateInput{
		Title:       in.Title,
		Caption:     in.Caption,
		Alt:         in.Alt,
		URL:         in.URL,
		Width:       in.Width,
		Height:      in.Height,
		FileSize:    in.FileSize,
		MimeType:    in.MimeType,
		PublicID:    in.PublicID,
		Tags:        in.Tags,
		IsPublished: in.IsPublished,
		Order:       in.Order,
		CreatedBy:   actor(r),
	})
	if err != nil {
		if isMultipart(r) {
			h.discard(ctx, in.PublicID)
		}
		h.errLog.Internal(w, r, "create gallery image failed", err)
		return
	}
	h.logger.Info("gallery image created",
		zap.String("id", img.ID.Hex()),
		zap.String("public_id", img.PublicID))
	jsonutil.Created(w, img)
}

// formRequest reads the text fields of a multipart create.
func formRequest(r *http.Request, res uploads.Result) createRequest {
	in := createRequest{
		Title:    r.FormValue("title"),
		Caption:  r.FormValue("caption"),
		Alt:      r.FormValue("alt"),
		URL:      res.URL,
		Width:    res.Width,
		Height:   res.Height,
		FileSize: res.Bytes,
		MimeType: res.MimeType,
		PublicID: res.PublicID,
	}
	if r.MultipartForm != nil {
		// tags may repeat or be comma separated
		for _, v := range r.MultipartForm.Value["tags"] {
			in.Tags = append(in.Tags, strings.Split(v, ",")...)
		}
	}
	if v, err := strconv.ParseBool(r.FormValue("isPublished")); err == nil {
		in.IsPublished = &v
	}
	if v, err := strconv.Atoi(r.FormValue("order")); err == nil {
		in.Order = v
	}
	return in
}

func checkForm(in createRequest) string {
	switch {
	case len(in.Title) > 200:
		return "Title must be at most 200 characters."
	case len(in.Caption) > 500:
		return "Caption must be at most 500 characters."
	case len(in.Alt) > 200:
		return "Alt text must be at most 200 characters."
	}
	return ""
}

// discard removes an asset whose record was never written.
func (h *Handler) discard(ctx context.Context, publicID string) {
	if err := h.uploader.Delete(ctx, publicID); err != nil {
		h.logger.Warn("discard uploaded asset failed", zap.String("public_id", publicID), zap.Error(err))
	}
}

// release drops the stored asset of a deleted record unless another record
// still references it. JSON creates may carry any publicId.
func (h *Handler) release(ctx context.Context, publicID string) {
	if publicID == "" {
		return
	}
	n, err := h.store.CountByPublicID(ctx, publicID)
	if err != nil {
		h.logger.Warn("asset reference count failed; keeping asset", zap.String("public_id", publicID), zap.Error(err))
		return
	}
	if n > 0 {
		h.logger.Info("asset still referenced; keeping it", zap.String("public_id", publicID), zap.Int64("refs", n))
		return
	}
	h.discard(ctx, publicID)
}

// Update serves PATCH /{id} (PUT is accepted too).
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	id, ok := pathID(r)
	if !ok {
		jsonutil.NotFound(w, "Gallery image not found")
		return
	}
	var in updateRequest
	if !jsonutil.DecodeOrReject(w, r, &in) {
		return
	}
	img, err := h.store.Update(ctx, id, gallerystore.UpdateInput{
		Title:       in.Title,
		Caption:     in.Caption,
		Alt:         in.Alt,
		Tags:        in.Tags,
		IsPublished: in.IsPublished,
		Order:       in.Order,
		UpdatedBy:   actor(r),
	})
	if err != nil {
		h.errLog.Store(w, r, noun, err)
		return
	}
	jsonutil.OK(w, img)
}

// Reorder serves PATCH /reorder with {items:[{id, order}]}.
func (h *Handler) Reorder(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	var in reorderRequest
	if !jsonutil.DecodeOrReject(w, r, &in) {
		return
	}
	if len(in.Items) == 0 {
		jsonutil.BadRequest(w, "Items are required.")
		return
	}
	items := make([]gallerystore.OrderItem, 0, len(in.Items))
	for _, it := range in.Items {
		oid, err := primitive.ObjectIDFromHex(it.ID)
		if err != nil {
			jsonutil.BadRequest(w, "Invalid image id: "+it.ID)
			return
		}
		items = append(items, gallerystore.OrderItem{ID: oid, Order: it.Order})
	}
	matched, err := h.store.Reorder(ctx, items, actor(r))
	if err != nil {
		h.errLog.Internal(w, r, "reorder gallery failed", err)
		return
	}
	jsonutil.Message(w, "Gallery order updated", map[string]int64{"matched": matched})
}

// Delete serves DELETE /{id} and removes the stored asset when there is one.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	id, ok := pathID(r)
	if !ok {
		jsonutil.NotFound(w, "Gallery image not found")
		return
	}
	img, err := h.store.Delete(ctx, id)
	if err != nil {
		h.errLog.Store(w, r, noun, err)
		return
	}
	h.release(ctx, img.PublicID)
	jsonutil.Message(w, "Gallery image deleted successfully", nil)
}
