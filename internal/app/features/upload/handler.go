// Package upload exposes the CMS image upload endpoint.
package upload

import (
	"net/http"

	errorsfeature "github.com/dalemusser/stratawell/internal/app/features/errors"
	"github.com/dalemusser/stratawell/internal/app/system/jsonutil"
	"github.com/dalemusser/stratawell/internal/app/system/uploads"
	"go.uber.org/zap"
)

// Handler serves the image upload endpoint.
type Handler struct {
	uploader *uploads.Uploader
	maxBytes int64
	errLog   *errorsfeature.ErrorLogger
	logger   *zap.Logger
}

// NewHandler creates an upload Handler. maxBytes <= 0 uses uploads.MaxImageBytes.
func NewHandler(uploader *uploads.Uploader, maxBytes int64, errLog *errorsfeature.ErrorLogger, logger *zap.Logger) *Handler {
	if maxBytes <= 0 {
		maxBytes = uploads.MaxImageBytes
	}
	return &Handler{uploader: uploader, maxBytes: maxBytes, errLog: errLog, logger: logger}
}

type imageResponse struct {
	URL      string `json:"url"`
	PublicID string `json:"publicId"`
	Width    int    `json:"width"`
	Height   int    `json:"height"`
}

// Image serves POST /image with the file in multipart field "image".
func (h *Handler) Image(w http.ResponseWriter, r *http.Request) {
	res, err := h.uploader.UploadFormFile(w, r, "image", h.maxBytes)
	if err != nil {
		if msg := uploads.Message(err, h.maxBytes); msg != "" {
			jsonutil.BadRequest(w, msg)
			return
		}
		h.errLog.Internal(w, r, "image upload failed", err)
		return
	}
	jsonutil.OK(w, imageResponse{
		URL:      res.URL,
		PublicID: res.PublicID,
		Width:    res.Width,
		Height:   res.Height,
	})
}
