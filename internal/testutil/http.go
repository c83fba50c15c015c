package testutil

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dalemusser/stratawell/internal/app/system/auth"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// TestSecret signs tokens in handler tests.
const TestSecret = "stratawell-handler-tests-signing-key-0123456789"

// TokenManager returns a TokenManager using TestSecret.
func TokenManager(t *testing.T) *auth.TokenManager {
	t.Helper()
	tm, err := auth.NewTokenManager(TestSecret, time.Hour, true, zap.NewNop())
	if err != nil {
		t.Fatalf("NewTokenManager() error = %v", err)
	}
	return tm
}

// Authenticator returns an Authenticator over TokenManager(t).
func Authenticator(t *testing.T) *auth.Authenticator {
	t.Helper()
	return auth.NewAuthenticator(TokenManager(t), zap.NewNop())
}

// AdminToken issues a signed admin token for a random admin id.
func AdminToken(t *testing.T, a *auth.Authenticator) string {
	t.Helper()
	tok, err := a.Tokens().Issue(primitive.NewObjectID().Hex(), "admin@test.com", auth.RoleAdmin)
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}
	return tok
}

// WithAdmin injects admin claims into the request context, bypassing the
// token middleware.
func WithAdmin(r *http.Request) *http.Request {
	return auth.WithTestClaims(r, &auth.Claims{
		ID:    primitive.NewObjectID().Hex(),
		Email: "admin@test.com",
		Role:  auth.RoleAdmin,
	})
}

// JSONRequest builds a request whose body is body encoded as JSON.
// A nil body sends no body.
func JSONRequest(t *testing.T, method, target string, body any) *http.Request {
	t.Helper()
	var rd io.Reader
	if body != nil {
		switch b := body.(type) {
		case string:
			rd = bytes.NewBufferString(b)
		default:
			buf, err := json.Marshal(body)
			if err != nil {
				t.Fatalf("json.Marshal() error = %v", err)
			}
			rd = bytes.NewReader(buf)
		}
	}
	req := httptest.NewRequest(method, target, rd)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return req
}

// Bearer sets the Authorization header.
func Bearer(r *http.Request, token string) *http.Request {
	r.Header.Set("Authorization", "Bearer "+token)
	return r
}

// Envelope is a decoded API response.
type Envelope struct {
	Success    bool            `json:"success"`
	Data       json.RawMessage `json:"data"`
	Message    string          `json:"message"`
	Pagination *struct {
		CurrentPage int64 `json:"currentPage"`
		TotalPages  int64 `json:"totalPages"`
		Total       int64 `json:"total"`
		Limit       int64 `json:"limit"`
		HasNext     bool  `json:"hasNext"`
		HasPrev     bool  `json:"hasPrev"`
	} `json:"pagination"`
}

// Decode parses the recorder body as an Envelope and, when out is non-nil,
// decodes its data into out.
func Decode(t *testing.T, rec *httptest.ResponseRecorder, out any) Envelope {
	t.Helper()
	var env Envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("response is not a JSON envelope: %v (%q)", err, rec.Body.String())
	}
	if out != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, out); err != nil {
			t.Fatalf("decode data: %v (%s)", err, env.Data)
		}
	}
	return env
}

// AssertStatus fails the test when the recorder's status differs.
func AssertStatus(t *testing.T, rec *httptest.ResponseRecorder, want int) {
	t.Helper()
	if rec.Code != want {
		t.Errorf("status = %d, want %d (body %s)", rec.Code, want, rec.Body.String())
	}
}

// Serve runs req through h and returns the recorder.
func Serve(h http.Handler, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}
