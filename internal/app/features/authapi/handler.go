// Package authapi serves admin authentication: first-run setup, login,
// token verification, and logout.
//
// Endpoints (mounted at /api/auth):
//   - POST /setup  - create the first admin (refused once one exists)
//   - POST /login  - exchange credentials for a token and auth cookies
//   - GET  /verify - return the admin behind the presented token
//   - POST /logout - expire the auth cookies
package authapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	errorsfeature "github.com/dalemusser/stratawell/internal/app/features/errors"
	adminstore "github.com/dalemusser/stratawell/internal/app/store/admins"
	"github.com/dalemusser/stratawell/internal/app/store/ratelimit"
	"github.com/dalemusser/stratawell/internal/app/system/auth"
	"github.com/dalemusser/stratawell/internal/app/system/authutil"
	"github.com/dalemusser/stratawell/internal/app/system/jsonutil"
	"github.com/dalemusser/stratawell/internal/app/system/network"
	"github.com/dalemusser/stratawell/internal/app/system/timeouts"
	"github.com/dalemusser/stratawell/internal/domain/models"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

const invalidCredentials = "Invalid credentials"

// Handler serves the auth endpoints.
type Handler struct {
	admins  *adminstore.Store
	authn   *auth.Authenticator
	lockout *ratelimit.Store // nil disables login lockout
	cookies auth.CookieOptions
	errLog  *errorsfeature.ErrorLogger
	logger  *zap.Logger
	now     func() time.Time
}

// NewHandler creates an auth Handler. lockout may be nil.
func NewHandler(
	admins *adminstore.Store,
	authn *auth.Authenticator,
	lockout *ratelimit.Store,
	cookies auth.CookieOptions,
	errLog *errorsfeature.ErrorLogger,
	logger *zap.Logger,
) *Handler {
	if cookies.MaxAge <= 0 {
		cookies.MaxAge = authn.Tokens().TTL()
	}
	return &Handler{
		admins:  admins,
		authn:   authn,
		lockout: lockout,
		cookies: cookies,
		errLog:  errLog,
		logger:  logger,
		now:     time.Now,
	}
}

// LoginResult is the data of a successful login.
type LoginResult struct {
	Token string           `json:"token"`
	Admin models.AdminView `json:"admin"`
}

// Setup creates the first admin. Once any admin exists it answers 400.
func (h *Handler) Setup(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	var in authutil.Credentials
	if !jsonutil.DecodeOrReject(w, r, &in) {
		return
	}
	in = in.Normalized()
	if err := in.CheckPresent(); err != nil {
		jsonutil.BadRequest(w, err.Error())
		return
	}
	if err := authutil.ValidatePassword(in.Password); err != nil {
		jsonutil.BadRequest(w, err.Error())
		return
	}

	n, err := h.admins.Count(ctx)
	if err != nil {
		h.errLog.Internal(w, r, "count admins failed", err)
		return
	}
	if n > 0 {
		jsonutil.BadRequest(w, "Admin already exists")
		return
	}

	hash, err := authutil.HashPassword(in.Password)
	if err != nil {
		h.errLog.Internal(w, r, "hash password failed", err)
		return
	}
	admin, err := h.admins.Create(ctx, in.Email, hash)
	if err != nil {
		if errors.Is(err, adminstore.ErrDuplicateEmail) {
			jsonutil.BadRequest(w, "Admin already exists")
			return
		}
		h.errLog.Internal(w, r, "create admin failed", err)
		return
	}

	h.logger.Info("admin created via setup", zap.String("email", admin.Email))
	jsonutil.JSON(w, http.StatusCreated, jsonutil.Envelope{
		Success: true,
		Message: "Admin created successfully",
		Data:    map[string]models.AdminView{"admin": admin.View()},
	})
}

// Login verifies credentials, issues a token, and sets both auth cookies.
// Unknown emails and wrong passwords get the same answer.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	var in authutil.Credentials
	if !jsonutil.DecodeOrReject(w, r, &in) {
		return
	}
	in = in.Normalized()
	if err := in.CheckPresent(); err != nil {
		jsonutil.BadRequest(w, err.Error())
		return
	}

	if h.lockout != nil {
		d, err := h.lockout.Check(ctx, in.Email)
		if err != nil {
			h.logger.Warn("lockout check failed", zap.Error(err))
		}
		if !d.Allowed {
			h.logger.Warn("login refused: locked out",
				zap.String("email", in.Email),
				zap.String("ip", network.GetClientIP(r)))
			jsonutil.TooManyRequests(w, h.lockedMessage(d.LockedUntil))
			return
		}
	}

	admin, err := h.admins.GetByEmail(ctx, in.Email)
	if err != nil && err != mongo.ErrNoDocuments {
		h.errLog.Internal(w, r, "admin lookup failed", err)
		return
	}
	if admin == nil {
		authutil.BurnCompare(in.Password)
		h.fail(w, r, in.Email)
		return
	}
	if !authutil.CheckPassword(in.Password, admin.PasswordHash) {
		h.fail(w, r, in.Email)
		return
	}

	if h.lockout != nil {
		if err := h.lockout.Clear(ctx, in.Email); err != nil {
			h.logger.Warn("lockout clear failed", zap.Error(err))
		}
	}

	token, err := h.authn.Tokens().Issue(admin.ID.Hex(), admin.Email, auth.RoleAdmin)
	if err != nil {
		h.errLog.Internal(w, r, "issue token failed", err)
		return
	}
	auth.SetAuthCookies(w, token, h.cookies)

	h.logger.Info("admin logged in",
		zap.String("email", admin.Email),
		zap.String("ip", network.GetClientIP(r)))
	jsonutil.OK(w, LoginResult{Token: token, Admin: admin.View()})
}

// fail records a failed attempt and answers 401, or 429 when this failure
// triggered the lockout.
func (h *Handler) fail(w http.ResponseWriter, r *http.Request, email string) {
	h.logger.Debug("login failed",
		zap.String("email", email),
		zap.String("ip", network.GetClientIP(r)))
	if h.lockout != nil {
		ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
		defer cancel()
		d, err := h.lockout.RecordFailure(ctx, email)
		if err != nil {
			h.logger.Warn("lockout record failed", zap.Error(err))
		} else if !d.Allowed {
			jsonutil.TooManyRequests(w, h.lockedMessage(d.LockedUntil))
			return
		}
	}
	jsonutil.Unauthorized(w, invalidCredentials)
}

func (h *Handler) lockedMessage(until *time.Time) string {
	if until == nil {
		return "Too many failed login attempts. Please try again later."
	}
	remaining := until.Sub(h.now())
	if remaining > time.Minute {
		return fmt.Sprintf("Too many failed login attempts. Please try again in %d minute(s).", int(remaining.Minutes())+1)
	}
	return fmt.Sprintf("Too many failed login attempts. Please try again in %d second(s).", int(remaining.Seconds())+1)
}

// Verify returns the admin behind the token. Runs behind AuthenticateToken,
// so missing and invalid tokens are already answered.
func (h *Handler) Verify(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	claims, ok := auth.CurrentClaims(r)
	if !ok {
		jsonutil.Unauthorized(w, "Access token required")
		return
	}
	admin, err := h.admins.GetByID(ctx, claims.AdminID())
	if err == mongo.ErrNoDocuments {
		jsonutil.Unauthorized(w, "Invalid token")
		return
	}
	if err != nil {
		h.errLog.Internal(w, r, "admin lookup failed", err, zap.String("admin_id", claims.ID))
		return
	}
	jsonutil.OK(w, map[string]models.AdminView{"admin": admin.View()})
}

// Logout expires both auth cookies. Tokens are stateless, so a bearer
// token held elsewhere stays valid until it expires.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	auth.ClearAuthCookies(w, h.cookies)
	jsonutil.Message(w, "Logged out successfully", nil)
}
