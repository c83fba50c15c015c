// Package edgelimit caps request rates per client IP at the router edge.
// Counters live in memory; a restart resets them.
package edgelimit

import (
	"net/http"
	"time"

	"github.com/dalemusser/stratawell/internal/app/system/jsonutil"
	"github.com/go-chi/httprate"
)

// Messages answered with 429.
const (
	MessageGeneral = "Too many requests, please try again later."
	MessageAuth    = "Too many authentication attempts, please try again later."
)

// Limit allows requests per window for each client IP and answers the
// excess with 429 and message in the JSON envelope. requests <= 0 or
// window <= 0 disables the limiter.
func Limit(requests int, window time.Duration, message string) func(http.Handler) http.Handler {
	if requests <= 0 || window <= 0 {
		return func(next http.Handler) http.Handler { return next }
	}
	return httprate.Limit(
		requests,
		window,
		httprate.WithKeyFuncs(httprate.KeyByRealIP),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			jsonutil.TooManyRequests(w, message)
		}),
	)
}
