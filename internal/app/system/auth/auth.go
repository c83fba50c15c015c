// internal/app/system/auth/auth.go
package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

/*─────────────────────────────────────────────────────────────────────────────*
| Claims                                                                      |
*─────────────────────────────────────────────────────────────────────────────*/

// Claims is the payload of an access token.
type Claims struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Role  string `json:"role"`
	jwt.RegisteredClaims
}

// AdminID returns the subject as an ObjectID, or NilObjectID when malformed.
func (c *Claims) AdminID() primitive.ObjectID {
	oid, err := primitive.ObjectIDFromHex(c.ID)
	if err != nil {
		return primitive.NilObjectID
	}
	return oid
}

/*─────────────────────────────────────────────────────────────────────────────*
| TokenManager                                                                |
*─────────────────────────────────────────────────────────────────────────────*/

// DefaultTTL is the lifetime of tokens and of the cookies carrying them.
const DefaultTTL = 24 * time.Hour

// ErrInvalidToken covers every verification failure: bad signature, wrong
// algorithm, expiry, or malformed claims.
var ErrInvalidToken = errors.New("invalid or expired token")

// TokenManager issues and verifies HS256 access tokens.
type TokenManager struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// ConfigError is returned when the signing secret is unusable.
type ConfigError struct {
	Message string
}

func (e *ConfigError) Error() string {
	return e.Message
}

// NewTokenManager validates the secret and returns a manager.
//
// An empty secret always fails. A weak secret (short or a known placeholder)
// fails when strict is true (production) and only logs a warning otherwise.
func NewTokenManager(secret string, ttl time.Duration, strict bool, logger *zap.Logger) (*TokenManager, error) {
	if secret == "" {
		return nil, &ConfigError{Message: "jwt secret is empty; provide ≥32 random chars"}
	}

	if IsWeakSecret(secret) {
		if strict {
			return nil, &ConfigError{
				Message: "jwt secret is too weak for production; provide ≥32 random chars (not a placeholder)",
			}
		}
		logger.Warn("jwt secret is weak; 32+ random chars required in production",
			zap.Int("length", len(secret)),
			zap.Bool("is_default", isDefaultKey(secret)))
	}

	if ttl <= 0 {
		ttl = DefaultTTL
	}

	return &TokenManager{
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
	}, nil
}

// TTL is the configured token lifetime.
func (m *TokenManager) TTL() time.Duration {
	return m.ttl
}

// Issue signs a token for the given admin identity and role.
func (m *TokenManager) Issue(id, email, role string) (string, error) {
	now := m.now()
	claims := &Claims{
		ID:    id,
		Email: email,
		Role:  role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   id,
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Verify checks signature, algorithm, and expiry and returns the claims.
// Every failure is reported as ErrInvalidToken wrapping the cause.
func (m *TokenManager) Verify(token string) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(token, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return m.secret, nil
	}, jwt.WithTimeFunc(m.now))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid || claims.ID == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

/*─────────────────────────────────────────────────────────────────────────────*
| Helpers                                                                     |
*─────────────────────────────────────────────────────────────────────────────*/

// IsWeakSecret reports whether a signing secret is too short or a placeholder.
func IsWeakSecret(secret string) bool {
	return len(secret) < 32 || isDefaultKey(secret)
}

// isDefaultKey checks if the secret appears to be a default/placeholder value.
func isDefaultKey(key string) bool {
	lower := strings.ToLower(key)
	patterns := []string{
		"dev-only",
		"change-me",
		"changeme",
		"placeholder",
		"default",
		"example",
		"insecure",
		"your-secret",
		"secret123",
		"password",
	}
	for _, p := range patterns {
		if strings.Contains(lower, p) {
			return true
		}
	}
	return false
}
