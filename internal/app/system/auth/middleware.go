// internal/app/system/auth/middleware.go
package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/dalemusser/stratawell/internal/app/system/jsonutil"
	"github.com/dalemusser/stratawell/internal/app/system/network"
	"go.uber.org/zap"
)

type ctxKey string

const claimsKey ctxKey = "claims"

// CurrentClaims returns the verified claims & "found?" flag from the request context.
func CurrentClaims(r *http.Request) (*Claims, bool) {
	c, ok := r.Context().Value(claimsKey).(*Claims)
	return c, ok
}

func withClaims(r *http.Request, c *Claims) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), claimsKey, c))
}

// WithTestClaims injects claims into the request context for testing.
func WithTestClaims(r *http.Request, c *Claims) *http.Request {
	return withClaims(r, c)
}

// Authenticator is the HTTP face of a TokenManager.
type Authenticator struct {
	tokens *TokenManager
	logger *zap.Logger
}

// NewAuthenticator wraps tm for use as middleware.
func NewAuthenticator(tm *TokenManager, logger *zap.Logger) *Authenticator {
	return &Authenticator{tokens: tm, logger: logger}
}

// Tokens returns the underlying TokenManager.
func (a *Authenticator) Tokens() *TokenManager {
	return a.tokens
}

// TokenFromRequest extracts a bearer token from the Authorization header,
// then the auth_token cookie, then the cms_token cookie.
func TokenFromRequest(r *http.Request) string {
	if h := r.Header.Get("Authorization"); h != "" {
		parts := strings.SplitN(h, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
			if tok := strings.TrimSpace(parts[1]); tok != "" {
				return tok
			}
		}
	}
	for _, name := range []string{CookieAuthToken, CookieCMSToken} {
		if c, err := r.Cookie(name); err == nil && c.Value != "" {
			return c.Value
		}
	}
	return ""
}

// AuthenticateToken rejects requests without a token (401) or with a token
// that fails verification (403). Verified claims are attached to the context.
func (a *Authenticator) AuthenticateToken(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tok := TokenFromRequest(r)
		if tok == "" {
			a.logger.Debug("request rejected: missing access token",
				zap.String("path", r.URL.Path))
			jsonutil.Unauthorized(w, "Access token required")
			return
		}

		claims, err := a.tokens.Verify(tok)
		if err != nil {
			a.logger.Warn("request rejected: invalid access token",
				zap.String("path", r.URL.Path),
				zap.String("ip", network.GetClientIP(r)),
				zap.Error(err))
			jsonutil.Forbidden(w, "Invalid or expired token")
			return
		}

		next.ServeHTTP(w, withClaims(r, claims))
	})
}

// RequireRole rejects requests whose claims lack one of the allowed roles
// with 403. Roles compare exactly. Compose after AuthenticateToken.
func RequireRole(allowed ...string) func(http.Handler) http.Handler {
	set := make(map[string]struct{}, len(allowed))
	for _, role := range allowed {
		set[role] = struct{}{}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			c, ok := CurrentClaims(r)
			if !ok {
				jsonutil.Unauthorized(w, "Access token required")
				return
			}
			if _, has := set[c.Role]; !has {
				jsonutil.Forbidden(w, "Admin access required")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireAdmin is RequireRole("admin").
func RequireAdmin(next http.Handler) http.Handler {
	return RequireRole(RoleAdmin)(next)
}

// AdminOnly chains AuthenticateToken and RequireAdmin.
func (a *Authenticator) AdminOnly(next http.Handler) http.Handler {
	return a.AuthenticateToken(RequireAdmin(next))
}
