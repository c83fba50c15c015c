package testutil

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"sync"
	"testing"

	"github.com/dalemusser/waffle/pantry/storage"
)

// MemAssets is an in-memory asset store for upload tests.
type MemAssets struct {
	mu      sync.Mutex
	Objects map[string][]byte
}

func NewMemAssets() *MemAssets {
	return &MemAssets{Objects: map[string][]byte{}}
}

func (m *MemAssets) Put(_ context.Context, path string, r io.Reader, _ *storage.PutOptions) error {
	b, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	m.mu.Lock()
	m.Objects[path] = b
	m.mu.Unlock()
	return nil
}

func (m *MemAssets) Delete(_ context.Context, path string) error {
	m.mu.Lock()
	delete(m.Objects, path)
	m.mu.Unlock()
	return nil
}

func (m *MemAssets) URL(path string) string {
	return "/files/" + path
}

// Has reports whether path is stored.
func (m *MemAssets) Has(path string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.Objects[path]
	return ok
}

// Len is the number of stored objects.
func (m *MemAssets) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Objects)
}

// PNG encodes a w x h image.
func PNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	img.Set(0, 0, color.RGBA{G: 180, A: 255})
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("png.Encode() error = %v", err)
	}
	return buf.Bytes()
}

// MultipartRequest builds a request with one file part and optional text
// fields.
func MultipartRequest(t *testing.T, method, target, field, filename, contentType string, data []byte, fields map[string]string) *http.Request {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for k, v := range fields {
		if err := mw.WriteField(k, v); err != nil {
			t.Fatalf("WriteField() error = %v", err)
		}
	}
	h := textproto.MIMEHeader{}
	h.Set("Content-Disposition", `form-data; name="`+field+`"; filename="`+filename+`"`)
	h.Set("Content-Type", contentType)
	part, err := mw.CreatePart(h)
	if err != nil {
		t.Fatalf("CreatePart() error = %v", err)
	}
	if _, err := part.Write(data); err != nil {
		t.Fatalf("part.Write() error = %v", err)
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("multipart close error = %v", err)
	}
	req := httptest.NewRequest(method, target, &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}
