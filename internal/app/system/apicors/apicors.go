// Package apicors provides the CORS policy for the JSON API.
//
// The admin dashboard and public site call the API from the browser with
// auth cookies, so credentials are allowed and origins must be listed
// explicitly. A wildcard origin is never combined with credentials.
package apicors

import (
	"net/http"

	"github.com/go-chi/cors"
)

// MaxAge is how long browsers may cache a preflight response (seconds).
const MaxAge = 86400

var (
	allowedMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	allowedHeaders = []string{"Accept", "Authorization", "Content-Type", "X-Requested-With", "X-Request-ID"}
	exposedHeaders = []string{"X-Request-ID", "Retry-After", "X-RateLimit-Limit", "X-RateLimit-Remaining"}
)

// Options returns the cors.Options for the given allowed origins.
// An empty list allows no cross-origin callers.
func Options(origins []string) cors.Options {
	list := make([]string, 0, len(origins))
	for _, o := range origins {
		if o == "" || o == "*" {
			continue
		}
		list = append(list, o)
	}
	return cors.Options{
		AllowedOrigins:   list,
		AllowedMethods:   allowedMethods,
		AllowedHeaders:   allowedHeaders,
		ExposedHeaders:   exposedHeaders,
		AllowCredentials: true,
		MaxAge:           MaxAge,
	}
}

// Middleware returns CORS middleware allowing credentialed requests from
// origins.
//
//	r.Use(apicors.Middleware(appCfg.CORSAllowedOrigins))
func Middleware(origins []string) func(http.Handler) http.Handler {
	return cors.Handler(Options(origins))
}
