package registrations

import (
	"net/http"

	"github.com/dalemusser/stratawell/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// Routes returns the /api/member-registrations router. Sign-up is public;
// everything else needs an admin.
func Routes(h *Handler, authn *auth.Authenticator) http.Handler {
	r := chi.NewRouter()
	r.Post("/", h.Create)

	r.Group(func(pr chi.Router) {
		pr.Use(authn.AdminOnly)
		pr.Get("/", h.List)
		pr.Get("/{id}", h.Get)
		pr.Put("/{id}/status", h.UpdateStatus)
		pr.Delete("/{id}", h.Delete)
	})
	return r
}
