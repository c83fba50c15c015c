package memberships

import (
	"net/http"

	"github.com/dalemusser/stratawell/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// Routes returns the /api/memberships router.
func Routes(h *Handler, authn *auth.Authenticator) http.Handler {
	r := chi.NewRouter()
	r.Get("/", h.List)
	r.Get("/{id}", h.Get)

	r.Group(func(pr chi.Router) {
		pr.Use(authn.AdminOnly)
		pr.Post("/", h.Create)
		pr.Put("/{id}", h.Update)
		pr.Delete("/{id}", h.Delete)
	})
	return r
}
