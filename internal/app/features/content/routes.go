package content

import (
	"net/http"

	contentstore "github.com/dalemusser/stratawell/internal/app/store/content"
	"github.com/dalemusser/stratawell/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// Routes returns the router for one singleton page.
func Routes[T contentstore.Doc](h *Handler[T], authn *auth.Authenticator) http.Handler {
	r := chi.NewRouter()
	r.Get("/", h.Get)

	r.Group(func(pr chi.Router) {
		pr.Use(authn.AdminOnly)
		pr.Put("/", h.Update)
		pr.Post("/reset", h.Reset)
	})
	return r
}
