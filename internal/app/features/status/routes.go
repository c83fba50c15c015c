// internal/app/features/status/routes.go
package status

import (
	"net/http"

	"github.com/dalemusser/stratawell/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// Routes returns the admin-only /api/admin/status router.
func Routes(h *Handler, authn *auth.Authenticator) http.Handler {
	r := chi.NewRouter()
	r.Use(authn.AdminOnly)
	r.Get("/", h.Serve)
	return r
}
