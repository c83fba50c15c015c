// Package uploads stores images for the CMS and reports their public URL and
// pixel dimensions.
package uploads

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/gif"  // register decoder
	_ "image/jpeg" // register decoder
	_ "image/png"  // register decoder
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/dalemusser/waffle/pantry/storage"
	"github.com/google/uuid"
	"go.uber.org/zap"
	_ "golang.org/x/image/webp" // register decoder
)

// Size ceilings used by the upload endpoints.
const (
	MaxImageBytes   int64 = 10 << 20
	MaxGalleryBytes int64 = 5 << 20
)

var (
	ErrNotImage = errors.New("only image files are allowed")
	ErrTooLarge = errors.New("file is too large")
	ErrEmpty    = errors.New("file is empty")
)

// extensions maps accepted content types to stored file extensions.
var extensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

// AssetStore is the subset of storage.Store the uploader needs.
type AssetStore interface {
	Put(ctx context.Context, path string, r io.Reader, opts *storage.PutOptions) error
	Delete(ctx context.Context, path string) error
	URL(path string) string
}

// Result describes a stored image. PublicID is the storage path and is what
// Delete expects.
type Result struct {
	URL      string `json:"url"`
	PublicID string `json:"publicId"`
	Width    int    `json:"width"`
	Height   int    `json:"height"`
	Bytes    int64  `json:"bytes"`
	MimeType string `json:"mimeType"`
}

// Uploader validates images and writes them to an AssetStore.
type Uploader struct {
	store  AssetStore
	logger *zap.Logger
	now    func() time.Time
}

// New creates an Uploader over store.
func New(store AssetStore, logger *zap.Logger) *Uploader {
	return &Uploader{store: store, logger: logger, now: time.Now}
}

// IsImageType reports whether a declared content type is one we accept.
func IsImageType(contentType string) bool {
	ct := strings.ToLower(strings.TrimSpace(strings.SplitN(contentType, ";", 2)[0]))
	_, ok := extensions[ct]
	return ok
}

// UploadImage reads at most maxBytes from r, verifies the bytes really are a
// supported image, and stores them under images/YYYY/MM/<uuid>.<ext>.
// declaredType is the client's content type; an empty value is allowed, a
// non-image value is rejected before reading.
func (u *Uploader) UploadImage(ctx context.Context, r io.Reader, declaredType string, maxBytes int64) (Result, error) {
	if declaredType != "" && !IsImageType(declaredType) {
		return Result{}, ErrNotImage
	}

	data, err := io.ReadAll(io.LimitReader(r, maxBytes+1))
	if err != nil {
		return Result{}, fmt.Errorf("read upload: %w", err)
	}
	if int64(len(data)) > maxBytes {
		return Result{}, ErrTooLarge
	}
	if len(data) == 0 {
		return Result{}, ErrEmpty
	}

	mimeType := http.DetectContentType(data)
	ext, ok := extensions[mimeType]
	if !ok {
		return Result{}, ErrNotImage
	}
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return Result{}, ErrNotImage
	}

	now := u.now().UTC()
	path := fmt.Sprintf("images/%04d/%02d/%s%s", now.Year(), int(now.Month()), uuid.New().String(), ext)
	if err := u.store.Put(ctx, path, bytes.NewReader(data), &storage.PutOptions{ContentType: mimeType}); err != nil {
		return Result{}, fmt.Errorf("store image: %w", err)
	}

	u.logger.Info("image stored",
		zap.String("public_id", path),
		zap.String("mime_type", mimeType),
		zap.Int("bytes", len(data)),
		zap.Int("width", cfg.Width),
		zap.Int("height", cfg.Height))

	return Result{
		URL:      u.store.URL(path),
		PublicID: path,
		Width:    cfg.Width,
		Height:   cfg.Height,
		Bytes:    int64(len(data)),
		MimeType: mimeType,
	}, nil
}

// Delete removes a stored image. Only paths this uploader produced are
// accepted, so a record pointing at an external URL never deletes anything.
func (u *Uploader) Delete(ctx context.Context, publicID string) error {
	if !strings.HasPrefix(publicID, "images/") || strings.Contains(publicID, "..") {
		return nil
	}
	return u.store.Delete(ctx, publicID)
}

// ErrNoFile means the multipart form had no file under the expected field.
var ErrNoFile = errors.New("no file uploaded")

// multipartSlack covers form boundaries and headers around the file part.
const multipartSlack = 1 << 20

// UploadFormFile reads the multipart file in field and uploads it. The body
// is capped at maxBytes plus a little slack so oversize requests fail early.
func (u *Uploader) UploadFormFile(w http.ResponseWriter, r *http.Request, field string, maxBytes int64) (Result, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes+multipartSlack)
	if err := r.ParseMultipartForm(maxBytes + multipartSlack); err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			return Result{}, ErrTooLarge
		}
		return Result{}, ErrNoFile
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile(field)
	if err != nil {
		return Result{}, ErrNoFile
	}
	defer file.Close()

	if header.Size > maxBytes {
		return Result{}, ErrTooLarge
	}
	declared := header.Header.Get("Content-Type")
	if declared == "application/octet-stream" {
		declared = ""
	}
	return u.UploadImage(r.Context(), file, declared, maxBytes)
}

// Message returns the client-facing text for an upload error, or "" when
// the error is not the client's fault.
func Message(err error, maxBytes int64) string {
	switch {
	case errors.Is(err, ErrNotImage):
		return "Only image files are allowed"
	case errors.Is(err, ErrTooLarge):
		return fmt.Sprintf("File too large. Maximum size is %dMB", maxBytes>>20)
	case errors.Is(err, ErrEmpty):
		return "Uploaded file is empty"
	case errors.Is(err, ErrNoFile):
		return "No file uploaded"
	}
	return ""
}
