// Package forward relays frontend API calls to the backend.
//
// The browser only holds auth cookies; the backend only reads bearer
// tokens on most routes. Forward bridges the two: when a request has no
// Authorization header, the first present token cookie becomes
// "Bearer <value>". Backend responses pass through with their status,
// JSON body, and Set-Cookie headers. A failed forward or a body that is
// not JSON becomes a 500 "Server error" envelope.
package forward

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/dalemusser/stratawell/internal/app/system/jsonutil"
	"github.com/dalemusser/stratawell/internal/app/system/network"
	"go.uber.org/zap"
)

// ServerErrorMessage is the message of every forward failure.
const ServerErrorMessage = "Server error"

// DefaultCookieNames is the cookie lookup order for bearer synthesis.
var DefaultCookieNames = []string{"auth_token", "cms_token", "token", "access_token", "jwt", "admin_token"}

// maxResponseBytes bounds a buffered backend response.
const maxResponseBytes = 32 << 20

// request headers copied to the backend as-is
var passHeaders = []string{"Accept", "Content-Type", "User-Agent", "X-Request-ID", "Cookie"}

// Forwarder relays requests to one backend.
type Forwarder struct {
	backend *url.URL
	client  *http.Client
	cookies []string
	maxBody int64
	logger  *zap.Logger
}

// Options configures a Forwarder. Zero values take defaults.
type Options struct {
	Client      *http.Client
	CookieNames []string
	MaxBodySize int64 // request body ceiling; 0 means unlimited
}

// New creates a Forwarder for backend, which must be an absolute URL.
func New(backend *url.URL, opts Options, logger *zap.Logger) *Forwarder {
	client := opts.Client
	if client == nil {
		client = http.DefaultClient
	}
	names := opts.CookieNames
	if len(names) == 0 {
		names = DefaultCookieNames
	}
	return &Forwarder{
		backend: backend,
		client:  client,
		cookies: names,
		maxBody: opts.MaxBodySize,
		logger:  logger,
	}
}

// Target is the backend URL for r: the backend base joined with r's path
// and query.
func (f *Forwarder) Target(r *http.Request) string {
	u := *f.backend
	u.Path = strings.TrimRight(f.backend.Path, "/") + r.URL.Path
	u.RawPath = ""
	u.RawQuery = r.URL.RawQuery
	return u.String()
}

// BearerFor returns the Authorization value to send: the incoming header
// when present, otherwise a bearer token from the first non-empty cookie in
// names, otherwise "".
func BearerFor(r *http.Request, names []string) string {
	if h := strings.TrimSpace(r.Header.Get("Authorization")); h != "" {
		return h
	}
	for _, name := range names {
		if c, err := r.Cookie(name); err == nil && c.Value != "" {
			return "Bearer " + c.Value
		}
	}
	return ""
}

// ServeHTTP forwards r and writes the backend's answer.
func (f *Forwarder) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	status, header, body, err := f.do(r)
	if err != nil {
		f.logger.Warn("proxy forward failed",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.String("ip", network.GetClientIP(r)),
			zap.Error(err))
		jsonutil.Error(w, http.StatusInternalServerError, ServerErrorMessage)
		return
	}

	for _, c := range header.Values("Set-Cookie") {
		w.Header().Add("Set-Cookie", c)
	}
	if ra := header.Get("Retry-After"); ra != "" {
		w.Header().Set("Retry-After", ra)
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(body)
}

var errNotJSON = errors.New("backend response is not JSON")

func (f *Forwarder) do(r *http.Request) (int, http.Header, []byte, error) {
	var body io.Reader
	if r.Body != nil && r.Body != http.NoBody {
		body = r.Body
		if f.maxBody > 0 {
			body = io.LimitReader(r.Body, f.maxBody+1)
		}
	}

	req, err := http.NewRequestWithContext(r.Context(), r.Method, f.Target(r), body)
	if err != nil {
		return 0, nil, nil, fmt.Errorf("build request: %w", err)
	}
	req.ContentLength = r.ContentLength
	for _, h := range passHeaders {
		if v := r.Header.Get(h); v != "" {
			req.Header.Set(h, v)
		}
	}
	if auth := BearerFor(r, f.cookies); auth != "" {
		req.Header.Set("Authorization", auth)
	}
	if xff := network.AppendForwardedFor(r); xff != "" {
		req.Header.Set("X-Forwarded-For", xff)
	}
	req.Header.Set("X-Forwarded-Host", r.Host)
	if r.TLS != nil {
		req.Header.Set("X-Forwarded-Proto", "https")
	} else {
		req.Header.Set("X-Forwarded-Proto", "http")
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return 0, nil, nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return 0, nil, nil, fmt.Errorf("read response: %w", err)
	}
	data = bytes.TrimSpace(data)
	if !json.Valid(data) {
		return 0, nil, nil, fmt.Errorf("%w: status %d, content-type %q", errNotJSON, resp.StatusCode, resp.Header.Get("Content-Type"))
	}
	return resp.StatusCode, resp.Header, data, nil
}

// LivePath is the backend liveness endpoint used by Probe.
const LivePath = "/health/live"

// Probe reports whether the backend answers its liveness endpoint with 200.
func (f *Forwarder) Probe(ctx context.Context) error {
	u := *f.backend
	u.Path = strings.TrimRight(f.backend.Path, "/") + LivePath
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return err
	}
	resp, err := f.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("backend liveness: status %d", resp.StatusCode)
	}
	return nil
}
