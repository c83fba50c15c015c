package gallery

import (
	"net/http"

	"github.com/dalemusser/stratawell/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// Routes returns the /api/gallery router.
func Routes(h *Handler, authn *auth.Authenticator) http.Handler {
	r := chi.NewRouter()
	r.Get("/", h.ListPublic)
	r.Get("/public", h.ListPublic)

	r.Group(func(pr chi.Router) {
		pr.Use(authn.AdminOnly)
		pr.Get("/admin", h.ListAdmin)
		pr.Post("/", h.Create)
		pr.Patch("/reorder", h.Reorder)
		pr.Get("/{id}", h.Get)
		pr.Patch("/{id}", h.Update)
		pr.Put("/{id}", h.Update)
		pr.Delete("/{id}", h.Delete)
	})
	return r
}
