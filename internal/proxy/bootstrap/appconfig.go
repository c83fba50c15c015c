// internal/proxy/bootstrap/appconfig.go
package bootstrap

import "time"

// AppConfig holds the proxy's configuration. Ports, TLS, and logging come
// from WAFFLE's CoreConfig.
type AppConfig struct {
	BackendURL       string        // e.g., http://localhost:8080
	UpstreamTimeout  time.Duration // per forwarded request
	TokenCookieNames []string      // bearer synthesis order
	MaxBodyBytes     int64         // 0 means unlimited
}
