package services

import (
	"net/http"

	"github.com/dalemusser/stratawell/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// Routes returns the /api/services router.
func Routes(h *Handler, authn *auth.Authenticator) http.Handler {
	r := chi.NewRouter()
	r.Get("/", h.List)
	r.Get("/{idOrSlug}", h.Get)

	r.Group(func(pr chi.Router) {
		pr.Use(authn.AdminOnly)
		pr.Get("/admin", h.List)
		pr.Post("/", h.Create)
		pr.Put("/{idOrSlug}", h.Update)
		pr.Delete("/{idOrSlug}", h.Delete)
	})
	return r
}
