package articles

import (
	"net/http"

	"github.com/dalemusser/stratawell/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// Routes returns the /api/articles router.
func Routes(h *Handler, authn *auth.Authenticator) http.Handler {
	r := chi.NewRouter()
	r.Get("/", h.ListPublished)
	r.Get("/category/{categorySlug}", h.ListByCategory)
	r.Get("/category/{categorySlug}/{articleSlug}", h.GetInCategory)
	r.Get("/{idOrSlug}", h.GetPublished)

	r.Group(func(pr chi.Router) {
		pr.Use(authn.AdminOnly)
		pr.Get("/admin", h.ListAll)
		pr.Get("/admin/{idOrSlug}", h.Get)
		pr.Post("/", h.Create)
		pr.Put("/{idOrSlug}", h.Update)
		pr.Delete("/{idOrSlug}", h.Delete)
	})
	return r
}
