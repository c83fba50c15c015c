// Package content serves the homepage and about page singletons at
// /api/homepage and /api/about.
package content

import (
	"context"
	"net/http"

	errorsfeature "github.com/dalemusser/stratawell/internal/app/features/errors"
	contentstore "github.com/dalemusser/stratawell/internal/app/store/content"
	"github.com/dalemusser/stratawell/internal/app/system/jsonutil"
	"github.com/dalemusser/stratawell/internal/app/system/timeouts"
	"github.com/dalemusser/stratawell/internal/domain/models"
	"go.uber.org/zap"
)

// Handler serves one singleton page document.
type Handler[T contentstore.Doc] struct {
	store   *contentstore.Store[T]
	prepare func(*T) string
	errLog  *errorsfeature.ErrorLogger
	logger  *zap.Logger
}

// NewHomepageHandler serves the homepage document.
func NewHomepageHandler(store *contentstore.Store[models.HomepageContent], errLog *errorsfeature.ErrorLogger, logger *zap.Logger) *Handler[models.HomepageContent] {
	return &Handler[models.HomepageContent]{store: store, prepare: prepareHomepage, errLog: errLog, logger: logger}
}

// NewAboutHandler serves the about page document.
func NewAboutHandler(store *contentstore.Store[models.AboutContent], errLog *errorsfeature.ErrorLogger, logger *zap.Logger) *Handler[models.AboutContent] {
	return &Handler[models.AboutContent]{store: store, prepare: prepareAbout, errLog: errLog, logger: logger}
}

// Get serves GET /. A fresh site gets the defaults.
func (h *Handler[T]) Get(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	doc, err := h.store.Get(ctx)
	if err != nil {
		h.errLog.Internal(w, r, "load page content failed", err, zap.String("page", h.store.Name()))
		return
	}
	jsonutil.OK(w, doc)
}

// Update serves PUT /. The body replaces every content field.
func (h *Handler[T]) Update(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	var doc T
	if !jsonutil.DecodeOrReject(w, r, &doc) {
		return
	}
	if msg := h.prepare(&doc); msg != "" {
		jsonutil.BadRequest(w, msg)
		return
	}
	saved, err := h.store.Save(ctx, doc)
	if err != nil {
		h.errLog.Internal(w, r, "save page content failed", err, zap.String("page", h.store.Name()))
		return
	}
	h.logger.Info("page content updated", zap.String("page", h.store.Name()))
	jsonutil.Message(w, "Content updated successfully", saved)
}

// Reset serves POST /reset.
func (h *Handler[T]) Reset(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	saved, err := h.store.Reset(ctx)
	if err != nil {
		h.errLog.Internal(w, r, "reset page content failed", err, zap.String("page", h.store.Name()))
		return
	}
	h.logger.Info("page content reset", zap.String("page", h.store.Name()))
	jsonutil.Message(w, "Content reset to defaults", saved)
}
