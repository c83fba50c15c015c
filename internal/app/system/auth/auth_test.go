package auth

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

const testSecret = "a-32-character-long-signing-key!!"

func newTestManager(t *testing.T) *TokenManager {
	t.Helper()
	tm, err := NewTokenManager(testSecret, time.Hour, true, zap.NewNop())
	if err != nil {
		t.Fatalf("NewTokenManager() error = %v", err)
	}
	return tm
}

func TestNewTokenManager(t *testing.T) {
	logger := zap.NewNop()

	tests := []struct {
		name    string
		secret  string
		strict  bool
		wantErr bool
	}{
		{"valid secret dev mode", testSecret, false, false},
		{"valid secret prod mode", testSecret, true, false},
		{"empty secret", "", false, true},
		{"weak secret dev mode", "short", false, false}, // Warning but allowed in dev
		{"weak secret prod mode", "short", true, true},
		{"placeholder prod mode", "change-me-change-me-change-me-change-me", true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tm, err := NewTokenManager(tt.secret, time.Hour, tt.strict, logger)
			if (err != nil) != tt.wantErr {
				t.Errorf("NewTokenManager() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if !tt.wantErr && tm == nil {
				t.Error("NewTokenManager() returned nil manager without error")
			}
			if tt.wantErr {
				var ce *ConfigError
				if !errors.As(err, &ce) {
					t.Errorf("NewTokenManager() error type = %T, want *ConfigError", err)
				}
			}
		})
	}
}

func TestNewTokenManager_DefaultTTL(t *testing.T) {
	tm, err := NewTokenManager(testSecret, 0, false, zap.NewNop())
	if err != nil {
		t.Fatalf("NewTokenManager() error = %v", err)
	}
	if tm.TTL() != DefaultTTL {
		t.Errorf("TTL() = %v, want %v", tm.TTL(), DefaultTTL)
	}
}

func TestIssueVerify(t *testing.T) {
	tm := newTestManager(t)
	id := primitive.NewObjectID()

	tok, err := tm.Issue(id.Hex(), "owner@spa.test", RoleAdmin)
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	claims, err := tm.Verify(tok)
	if err != nil {
		t.Fatalf("Verify() error = %v", err)
	}
	if claims.ID != id.Hex() || claims.Email != "owner@spa.test" || claims.Role != RoleAdmin {
		t.Errorf("Verify() claims = %+v", claims)
	}
	if claims.AdminID() != id {
		t.Errorf("AdminID() = %v, want %v", claims.AdminID(), id)
	}
	if got := claims.ExpiresAt.Sub(claims.IssuedAt.Time); got != time.Hour {
		t.Errorf("expiry window = %v, want %v", got, time.Hour)
	}
}

func TestVerify_Rejects(t *testing.T) {
	tm := newTestManager(t)
	other, _ := NewTokenManager("another-32-character-signing-key!", time.Hour, true, zap.NewNop())

	foreign, _ := other.Issue(primitive.NewObjectID().Hex(), "a@b.c", RoleAdmin)

	expiredMgr := newTestManager(t)
	expiredMgr.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	expired, _ := expiredMgr.Issue(primitive.NewObjectID().Hex(), "a@b.c", RoleAdmin)

	none, _ := jwt.NewWithClaims(jwt.SigningMethodNone, &Claims{ID: "x", Role: RoleAdmin}).
		SignedString(jwt.UnsafeAllowNoneSignatureType)

	tests := []struct {
		name  string
		token string
	}{
		{"garbage", "not-a-token"},
		{"wrong secret", foreign},
		{"expired", expired},
		{"alg none", none},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tm.Verify(tt.token)
			if !errors.Is(err, ErrInvalidToken) {
				t.Errorf("Verify() error = %v, want ErrInvalidToken", err)
			}
		})
	}
}

func TestTokenFromRequest(t *testing.T) {
	tests := []struct {
		name  string
		setup func(r *http.Request)
		want  string
	}{
		{"none", func(r *http.Request) {}, ""},
		{"bearer header", func(r *http.Request) { r.Header.Set("Authorization", "Bearer abc") }, "abc"},
		{"lowercase scheme", func(r *http.Request) { r.Header.Set("Authorization", "bearer abc") }, "abc"},
		{"basic ignored", func(r *http.Request) { r.Header.Set("Authorization", "Basic abc") }, ""},
		{"auth_token cookie", func(r *http.Request) {
			r.AddCookie(&http.Cookie{Name: CookieAuthToken, Value: "c1"})
		}, "c1"},
		{"cms_token cookie", func(r *http.Request) {
			r.AddCookie(&http.Cookie{Name: CookieCMSToken, Value: "c2"})
		}, "c2"},
		{"auth_token before cms_token", func(r *http.Request) {
			r.AddCookie(&http.Cookie{Name: CookieCMSToken, Value: "c2"})
			r.AddCookie(&http.Cookie{Name: CookieAuthToken, Value: "c1"})
		}, "c1"},
		{"header before cookie", func(r *http.Request) {
			r.Header.Set("Authorization", "Bearer h")
			r.AddCookie(&http.Cookie{Name: CookieAuthToken, Value: "c1"})
		}, "h"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("GET", "/", nil)
			tt.setup(r)
			if got := TokenFromRequest(r); got != tt.want {
				t.Errorf("TokenFromRequest() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestAuthenticateToken(t *testing.T) {
	tm := newTestManager(t)
	a := NewAuthenticator(tm, zap.NewNop())

	var got *Claims
	handler := a.AuthenticateToken(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, _ = CurrentClaims(r)
		w.WriteHeader(http.StatusOK)
	}))

	valid, _ := tm.Issue(primitive.NewObjectID().Hex(), "owner@spa.test", RoleAdmin)

	tests := []struct {
		name       string
		token      string
		wantStatus int
	}{
		{"missing token", "", http.StatusUnauthorized},
		{"invalid token", "bogus", http.StatusForbidden},
		{"valid token", valid, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got = nil
			req := httptest.NewRequest("GET", "/api/categories/admin", nil)
			if tt.token != "" {
				req.Header.Set("Authorization", "Bearer "+tt.token)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Errorf("AuthenticateToken() status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if tt.wantStatus == http.StatusOK && (got == nil || got.Email != "owner@spa.test") {
				t.Errorf("claims in context = %+v", got)
			}
		})
	}
}

func TestRequireRole(t *testing.T) {
	called := false
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		w.WriteHeader(http.StatusOK)
	})
	protected := RequireAdmin(handler)

	tests := []struct {
		name       string
		claims     *Claims
		wantStatus int
		wantCalled bool
	}{
		{"admin", &Claims{ID: "1", Role: "admin"}, http.StatusOK, true},
		{"admin uppercase", &Claims{ID: "1", Role: "ADMIN"}, http.StatusForbidden, false},
		{"admin padded", &Claims{ID: "1", Role: " admin"}, http.StatusForbidden, false},
		{"wrong role", &Claims{ID: "1", Role: "editor"}, http.StatusForbidden, false},
		{"no claims", nil, http.StatusUnauthorized, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			called = false
			req := httptest.NewRequest("POST", "/api/categories", nil)
			if tt.claims != nil {
				req = WithTestClaims(req, tt.claims)
			}
			rec := httptest.NewRecorder()
			protected.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Errorf("RequireAdmin() status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if called != tt.wantCalled {
				t.Errorf("handler called = %v, want %v", called, tt.wantCalled)
			}
		})
	}
}

func TestAdminOnly(t *testing.T) {
	tm := newTestManager(t)
	a := NewAuthenticator(tm, zap.NewNop())
	h := a.AdminOnly(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	editor, _ := tm.Issue(primitive.NewObjectID().Hex(), "e@spa.test", "editor")
	req := httptest.NewRequest("DELETE", "/api/services/x", nil)
	req.AddCookie(&http.Cookie{Name: CookieAuthToken, Value: editor})
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Errorf("AdminOnly(editor) status = %d, want %d", rec.Code, http.StatusForbidden)
	}
}

func TestSetAuthCookies(t *testing.T) {
	rec := httptest.NewRecorder()
	SetAuthCookies(rec, "tok", CookieOptions{Secure: true})

	cookies := rec.Result().Cookies()
	if len(cookies) != 2 {
		t.Fatalf("cookies = %d, want 2", len(cookies))
	}
	paths := map[string]string{}
	for _, c := range cookies {
		paths[c.Name] = c.Path
		if !c.HttpOnly {
			t.Errorf("%s HttpOnly = false, want true", c.Name)
		}
		if !c.Secure {
			t.Errorf("%s Secure = false, want true", c.Name)
		}
		if c.MaxAge != int(DefaultTTL.Seconds()) {
			t.Errorf("%s MaxAge = %d, want %d", c.Name, c.MaxAge, int(DefaultTTL.Seconds()))
		}
		if c.Value != "tok" {
			t.Errorf("%s Value = %q, want tok", c.Name, c.Value)
		}
	}
	if paths[CookieAuthToken] != "/" {
		t.Errorf("auth_token path = %q, want /", paths[CookieAuthToken])
	}
	if paths[CookieCMSToken] != "/cms" {
		t.Errorf("cms_token path = %q, want /cms", paths[CookieCMSToken])
	}
}

func TestClearAuthCookies(t *testing.T) {
	rec := httptest.NewRecorder()
	ClearAuthCookies(rec, CookieOptions{})
	for _, c := range rec.Result().Cookies() {
		if c.MaxAge >= 0 {
			t.Errorf("%s MaxAge = %d, want negative", c.Name, c.MaxAge)
		}
	}
}

func TestIsWeakSecret(t *testing.T) {
	tests := []struct {
		secret string
		want   bool
	}{
		{"short", true},
		{testSecret, false},
		{"dev-only-secret-that-is-long-enough-xx", true},
		{"this-is-an-example-secret-value-long", true},
	}
	for _, tt := range tests {
		t.Run(tt.secret, func(t *testing.T) {
			if got := IsWeakSecret(tt.secret); got != tt.want {
				t.Errorf("IsWeakSecret(%q) = %v, want %v", tt.secret, got, tt.want)
			}
		})
	}
}
