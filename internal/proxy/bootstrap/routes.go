// internal/proxy/bootstrap/routes.go
package bootstrap

import (
	"net/http"

	errorsfeature "github.com/dalemusser/stratawell/internal/app/features/errors"
	healthfeature "github.com/dalemusser/stratawell/internal/app/features/health"
	"github.com/dalemusser/waffle/config"
	"github.com/dalemusser/waffle/middleware"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// BuildHandler forwards /api/* to the backend. /health reports the
// backend's liveness; /livez answers for the proxy itself.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps Deps, logger *zap.Logger) (http.Handler, error) {
	errorsHandler := errorsfeature.NewHandler(logger)

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(errorsHandler.Recoverer)
	r.Use(middleware.SecurityHeadersFromConfig(coreCfg))

	r.Handle("/api", deps.Forwarder)
	r.Handle("/api/*", deps.Forwarder)

	healthHandler := healthfeature.NewHandler(backendPinger{fwd: deps.Forwarder}, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))
	healthfeature.MountRootEndpoints(r, healthHandler)

	r.NotFound(errorsHandler.NotFound)
	return r, nil
}
