package authapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Routes returns the /api/auth router.
func Routes(h *Handler) http.Handler {
	r := chi.NewRouter()
	r.Post("/setup", h.Setup)
	r.Post("/login", h.Login)
	r.Post("/logout", h.Logout)
	r.With(h.authn.AuthenticateToken).Get("/verify", h.Verify)
	return r
}
